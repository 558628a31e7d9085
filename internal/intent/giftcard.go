package intent

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/agentcart/agentcart/internal/giftcard"
)

var dollarAmount = regexp.MustCompile(`\$?(\d+)`)

// GiftCardIntent purchases a gift card on the voucher marketplace when the
// message names one of the sellable denominations.
type GiftCardIntent struct {
	client *giftcard.Client
}

func NewGiftCardIntent(client *giftcard.Client) *GiftCardIntent {
	return &GiftCardIntent{client: client}
}

func (i *GiftCardIntent) Name() string { return "BITREFILL_GIFTCARD" }

// Classify matches only when the message carries a dollar amount from the
// closed denomination set. The most specific predicate, so the strongest
// score.
func (i *GiftCardIntent) Classify(text string) float64 {
	amount, ok := parseAmount(strings.ToLower(text))
	if !ok || !giftcard.ValidAmount(amount) {
		return 0
	}
	return 1
}

func (i *GiftCardIntent) Execute(ctx context.Context, req *Request) (*Outcome, error) {
	amount, ok := parseAmount(strings.ToLower(req.Text))
	if !ok {
		return &Outcome{
			Reply: "I couldn't determine the gift card amount. Please specify an amount like '$100'.",
		}, nil
	}
	if !giftcard.ValidAmount(amount) {
		return &Outcome{
			Reply: "Please choose from available denominations: $5, $10, $20, $50, $100, $200, $500, $1000, or $2000",
		}, nil
	}

	req.notify(fmt.Sprintf("I'll help you purchase a $%d Amazon gift card through Bitrefill.", amount))

	ok, err := i.client.Purchase(ctx, amount)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Outcome{
			Reply: "I encountered an error while trying to purchase the gift card. Please try again later.",
		}, nil
	}

	return &Outcome{
		Handled: true,
		Reply:   "Successfully initiated the gift card purchase on Bitrefill!",
	}, nil
}

func parseAmount(text string) (int, bool) {
	m := dollarAmount.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	amount, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return amount, true
}
