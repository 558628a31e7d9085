package intent

import (
	"context"
	"fmt"
	"strings"

	"github.com/agentcart/agentcart/internal/logging"
	"github.com/agentcart/agentcart/internal/shop"
)

// OrderIntent handles "buy X on amazon" requests: extract the query, search,
// add the first result to the cart and report all options.
type OrderIntent struct {
	client    *shop.Client
	extractor *Extractor
}

func NewOrderIntent(client *shop.Client, extractor *Extractor) *OrderIntent {
	return &OrderIntent{client: client, extractor: extractor}
}

func (i *OrderIntent) Name() string { return "AMAZON_ORDER" }

// Classify requires the site mention plus a shopping verb. Checkout
// commands score zero here so they never collide with product search.
func (i *OrderIntent) Classify(text string) float64 {
	text = strings.ToLower(text)
	if isCheckoutCommand(text) {
		return 0
	}
	if !containsAny(text, amazonKeywords) || !containsAny(text, shoppingKeywords) {
		return 0
	}
	return shoppingScore(text)
}

func (i *OrderIntent) Execute(ctx context.Context, req *Request) (*Outcome, error) {
	query := i.extractor.ExtractQuery(ctx, req.Text)
	logging.Infof("Extracted product query: %q", query)

	if query == "" {
		return &Outcome{
			Reply: "I'd be happy to help you shop on Amazon! What specific item would you like me to find?",
		}, nil
	}

	if err := i.client.Init(ctx); err != nil {
		return nil, err
	}

	products, err := i.client.SearchProduct(ctx, query)
	if err != nil {
		return nil, err
	}

	if len(products) == 0 {
		return &Outcome{
			Reply: fmt.Sprintf("I couldn't find any products matching %q on Amazon. Could you try describing what you're looking for differently?", query),
		}, nil
	}

	if !i.client.AddToCart(ctx, products[0].Link) {
		return nil, fmt.Errorf("failed to add product to cart")
	}
	logging.Infof("Added first product to cart: %s", products[0].Title)

	return &Outcome{
		Handled: true,
		Reply:   formatOrderReply(products),
	}, nil
}

func formatOrderReply(products []shop.Product) string {
	var sb strings.Builder
	sb.WriteString("I'VE ADDED THE FIRST ITEM TO YOUR CART! HERE ARE ALL THE OPTIONS I FOUND:\n\n")
	for idx, p := range products {
		fmt.Fprintf(&sb, "%d. %s\n   Price: %s\n   Link: %s\n\n", idx+1, p.Title, p.Price, p.Link)
	}
	sb.WriteString("THE FIRST ITEM HAS BEEN ADDED TO YOUR CART! WOULD YOU LIKE TO CHECKOUT NOW?")
	return sb.String()
}
