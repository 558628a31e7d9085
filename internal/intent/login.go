package intent

import (
	"context"
	"strings"

	"github.com/agentcart/agentcart/internal/shop"
)

// LoginIntent authenticates the retail session on request.
type LoginIntent struct {
	client *shop.Client
}

func NewLoginIntent(client *shop.Client) *LoginIntent {
	return &LoginIntent{client: client}
}

func (i *LoginIntent) Name() string { return "AMAZON_LOGIN" }

func (i *LoginIntent) Classify(text string) float64 {
	if containsAny(strings.ToLower(text), loginKeywords) {
		return 0.95
	}
	return 0
}

func (i *LoginIntent) Execute(ctx context.Context, req *Request) (*Outcome, error) {
	req.notify("I'll help you log in to Amazon. One moment please...")

	if err := i.client.Init(ctx); err != nil {
		return nil, err
	}

	if i.client.IsLoggedIn(ctx) {
		return &Outcome{
			Handled: true,
			Reply:   "You're already logged in to Amazon! What would you like to do next?",
		}, nil
	}

	ok, err := i.client.Login(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Outcome{
			Reply: "I couldn't log in to your Amazon account. Please make sure your credentials (AMAZON_EMAIL and AMAZON_PASSWORD) are correctly set and try again.",
		}, nil
	}

	return &Outcome{
		Handled: true,
		Reply:   "Successfully logged in to Amazon! What would you like to do next?",
	}, nil
}
