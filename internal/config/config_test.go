package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8488, c.Server.Port)
	assert.Equal(t, "https://www.amazon.com", c.Amazon.BaseURL)
	assert.True(t, c.IsHeadless())
	assert.Contains(t, c.Browser.UserAgent, "Chrome/122")
}

func TestLoadYAMLWithEnvExpansion(t *testing.T) {
	t.Setenv("TEST_AMZN_EMAIL", "shopper@example.com")

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
amazon:
  email: ${TEST_AMZN_EMAIL}
browser:
  headless: "false"
server:
  port: 9000
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "shopper@example.com", c.Amazon.Email)
	assert.Equal(t, 9000, c.Server.Port)
	assert.False(t, c.IsHeadless())
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("AMAZON_EMAIL", "env@example.com")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("amazon:\n  email: file@example.com\n"), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env@example.com", c.Amazon.Email)
}

func TestGiftCardEmailFallback(t *testing.T) {
	var c Config
	c.Amazon.Email = "amazon@example.com"
	assert.Equal(t, "amazon@example.com", c.GiftCardEmail())

	c.GiftCard.Email = "gift@example.com"
	assert.Equal(t, "gift@example.com", c.GiftCardEmail())
}

func TestParseBool(t *testing.T) {
	assert.True(t, parseBool("", true))
	assert.False(t, parseBool("", false))
	assert.True(t, parseBool("yes", false))
	assert.True(t, parseBool("1", false))
	assert.True(t, parseBool("TRUE", false))
	assert.False(t, parseBool("no", true))
}
