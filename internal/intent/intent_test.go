package intent

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentcart/agentcart/internal/logging"
	"github.com/agentcart/agentcart/internal/shop"
)

func init() {
	logging.Disable()
}

func TestOrderClassify(t *testing.T) {
	i := NewOrderIntent(nil, NewExtractor(nil))

	assert.Greater(t, i.Classify("Can you order a phone charger from Amazon for me?"), 0.9)
	assert.Greater(t, i.Classify("I need to buy some headphones on Amazon"), 0.9)
	assert.Zero(t, i.Classify("order me a pizza"), "no site mention")
	assert.Zero(t, i.Classify("I love amazon rainforests"), "no shopping verb")
	assert.Zero(t, i.Classify("proceed to checkout on amazon"), "checkout command must not read as a search")
}

func TestLoginClassify(t *testing.T) {
	i := NewLoginIntent(nil)

	assert.Positive(t, i.Classify("Login to my Amazon account"))
	assert.Positive(t, i.Classify("Sign in to Amazon"))
	assert.Zero(t, i.Classify("buy a mouse on amazon"))
}

func TestCheckoutClassify(t *testing.T) {
	i := NewCheckoutIntent(nil)

	assert.Positive(t, i.Classify("Let's checkout on Amazon"))
	assert.Positive(t, i.Classify("please proceed to checkout with everything in my cart now"))
	assert.Positive(t, i.Classify("checkout my amazon cart"))
	assert.Zero(t, i.Classify("I want to buy a long list of office supplies for the checkout counter display"))
}

func TestGiftCardClassify(t *testing.T) {
	i := NewGiftCardIntent(nil)

	assert.Equal(t, 1.0, i.Classify("add $100 to amazon"))
	assert.Equal(t, 1.0, i.Classify("buy $50 amazon gift card"))
	assert.Zero(t, i.Classify("add $37 to amazon"), "not a sellable denomination")
	assert.Zero(t, i.Classify("buy an amazon gift card"), "no amount")
}

func TestGiftCardExecuteRejectsBadDenomination(t *testing.T) {
	i := NewGiftCardIntent(nil)

	out, err := i.Execute(context.Background(), &Request{Text: "add $37 to amazon"})
	require.NoError(t, err)
	assert.False(t, out.Handled)
	assert.Contains(t, out.Reply, "denominations")
}

func TestParseAmount(t *testing.T) {
	amount, ok := parseAmount("add $100 to amazon")
	require.True(t, ok)
	assert.Equal(t, 100, amount)

	amount, ok = parseAmount("buy 50 dollar card")
	require.True(t, ok)
	assert.Equal(t, 50, amount)

	_, ok = parseAmount("buy a gift card")
	assert.False(t, ok)
}

func TestFormatOrderReply(t *testing.T) {
	reply := formatOrderReply([]shop.Product{
		{Title: "Mouse A", Price: "$12", Link: "/dp/A"},
		{Title: "Mouse B", Price: "$15", Link: "/dp/B"},
	})

	assert.Contains(t, reply, "1. Mouse A")
	assert.Contains(t, reply, "2. Mouse B")
	assert.Contains(t, reply, "Price: $12")
	assert.Contains(t, reply, "WOULD YOU LIKE TO CHECKOUT NOW?")
}

// stubProvider returns a canned completion.
type stubProvider struct {
	reply string
	err   error
	calls int
}

func (s *stubProvider) ID() string { return "stub" }

func (s *stubProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	s.calls++
	return s.reply, s.err
}

func TestExtractQueryUsesModel(t *testing.T) {
	stub := &stubProvider{reply: "  \"Wireless Mouse\"  "}
	e := NewExtractor(stub)

	query := e.ExtractQuery(context.Background(), "can you order a wireless mouse from amazon?")

	assert.Equal(t, "wireless mouse", query)
	assert.Equal(t, 1, stub.calls)
}

func TestExtractQueryFallsBackOnModelError(t *testing.T) {
	stub := &stubProvider{err: fmt.Errorf("rate limited")}
	e := NewExtractor(stub)

	query := e.ExtractQuery(context.Background(), "can you order a wireless mouse from amazon?")
	assert.Equal(t, "wireless mouse", query)
}

func TestExtractQueryFallsBackOnRambling(t *testing.T) {
	stub := &stubProvider{reply: "Sure! The user seems to want a mouse.\nLet me explain my reasoning..."}
	e := NewExtractor(stub)

	query := e.ExtractQuery(context.Background(), "order a wireless mouse from amazon")
	assert.Equal(t, "wireless mouse", query)
}

func TestStripKeywords(t *testing.T) {
	assert.Equal(t, "wireless mouse", StripKeywords("Can you order a wireless mouse from Amazon?"))
	assert.Equal(t, "phone charger", StripKeywords("order a phone charger from amazon"))
	assert.Equal(t, "", StripKeywords("order from amazon please"))
}
