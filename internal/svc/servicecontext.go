package svc

import (
	"fmt"

	"github.com/agentcart/agentcart/internal/ai"
	"github.com/agentcart/agentcart/internal/auth"
	"github.com/agentcart/agentcart/internal/browser"
	"github.com/agentcart/agentcart/internal/config"
	"github.com/agentcart/agentcart/internal/db"
	"github.com/agentcart/agentcart/internal/giftcard"
	"github.com/agentcart/agentcart/internal/intent"
	"github.com/agentcart/agentcart/internal/logging"
	"github.com/agentcart/agentcart/internal/plugin"
	"github.com/agentcart/agentcart/internal/shop"
)

// ServiceContext wires config, the session verifier, the cookie store and
// the automation clients together for handlers. Built once at startup.
type ServiceContext struct {
	Config   config.Config
	Verifier *auth.Verifier
	DB       *db.Store
	Plugin   *plugin.Plugin

	Shop     *shop.Client
	GiftCard *giftcard.Client
}

func NewServiceContext(c config.Config) (*ServiceContext, error) {
	store, err := db.NewSQLite(c.Database.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("open cache store: %w", err)
	}

	browserCfg := browser.Config{
		Headless:  c.IsHeadless(),
		UserAgent: c.Browser.UserAgent,
	}

	shopClient := shop.NewClient(browser.NewSession(browserCfg), store, c.Amazon.BaseURL, shop.Credentials{
		Email:    c.Amazon.Email,
		Password: c.Amazon.Password,
	})
	giftClient := giftcard.NewClient(browser.NewSession(browserCfg), c.GiftCard.ProductURL, c.GiftCardEmail())

	extractor := intent.NewExtractor(newProvider(c))

	return &ServiceContext{
		Config:   c,
		Verifier: auth.NewVerifier(c.Auth.DynamicEnvID),
		DB:       store,
		Shop:     shopClient,
		GiftCard: giftClient,
		Plugin: plugin.New(
			intent.NewGiftCardIntent(giftClient),
			intent.NewLoginIntent(shopClient),
			intent.NewCheckoutIntent(shopClient),
			intent.NewOrderIntent(shopClient, extractor),
		),
	}, nil
}

// newProvider picks the query-extraction model from config. Returns nil
// when none is configured; extraction then falls back to keywords.
func newProvider(c config.Config) ai.Provider {
	switch c.AI.Provider {
	case "openai":
		return ai.NewOpenAIProvider(c.AI.OpenAIAPIKey, c.AI.Model)
	case "anthropic":
		return ai.NewAnthropicProvider(c.AI.AnthropicAPIKey, c.AI.Model)
	case "ollama":
		return ai.NewOllamaProvider(c.AI.OllamaBaseURL, c.AI.Model)
	case "":
		return nil
	default:
		logging.Warnf("Unknown AI provider %q, query extraction will use keywords only", c.AI.Provider)
		return nil
	}
}

// Close releases the browser sessions and the cache store.
func (s *ServiceContext) Close() {
	s.Shop.Cleanup()
	s.GiftCard.Cleanup()
	if err := s.DB.Close(); err != nil {
		logging.Errorf("Failed to close cache store: %v", err)
	}
}
