package intent

import (
	"context"
	"strings"

	"github.com/agentcart/agentcart/internal/shop"
)

// CheckoutIntent drives the cart through to the checkout page.
type CheckoutIntent struct {
	client *shop.Client
}

func NewCheckoutIntent(client *shop.Client) *CheckoutIntent {
	return &CheckoutIntent{client: client}
}

func (i *CheckoutIntent) Name() string { return "AMAZON_CHECKOUT" }

func (i *CheckoutIntent) Classify(text string) float64 {
	if isCheckoutCommand(strings.ToLower(text)) {
		return 0.9
	}
	return 0
}

func (i *CheckoutIntent) Execute(ctx context.Context, req *Request) (*Outcome, error) {
	if err := i.client.Init(ctx); err != nil {
		return nil, err
	}

	if !i.client.IsLoggedIn(ctx) {
		req.notify("You need to be logged in to proceed to checkout. Let me help you log in first...")

		ok, err := i.client.Login(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return &Outcome{
				Reply: "I couldn't log in to your Amazon account. Please make sure your credentials are correct and try again.",
			}, nil
		}
	}

	req.notify("I'll help you proceed to checkout on Amazon. One moment please...")

	if !i.client.ProceedToCheckout(ctx) {
		return &Outcome{
			Reply: "I couldn't proceed to checkout. Please make sure you have items in your cart and try again.",
		}, nil
	}

	return &Outcome{
		Handled: true,
		Reply:   "I've taken you to the checkout page. Please review your order and complete the purchase.",
	}, nil
}
