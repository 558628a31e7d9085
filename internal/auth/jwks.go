package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"time"
)

const (
	// jwksCacheMaxEntries bounds the number of signing keys kept in memory.
	jwksCacheMaxEntries = 5
	// jwksCacheMaxAge is the freshness window; a key older than this is
	// refetched on next use.
	jwksCacheMaxAge = 10 * time.Minute
)

// jwk is a single key from the issuer's JSON Web Key Set. Only RSA keys are
// supported; that is all the identity provider publishes.
type jwk struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jwksDocument struct {
	Keys []jwk `json:"keys"`
}

type cachedKey struct {
	key       *rsa.PublicKey
	fetchedAt time.Time
}

// keyCache fetches and caches the issuer's public signing keys.
// It is owned exclusively by the Verifier, which serializes access.
type keyCache struct {
	url     string
	client  *http.Client
	entries map[string]cachedKey
	// order tracks insertion for eviction once maxEntries is exceeded
	order []string
}

func newKeyCache(url string) *keyCache {
	return &keyCache{
		url:     url,
		client:  &http.Client{Timeout: 10 * time.Second},
		entries: make(map[string]cachedKey),
	}
}

// signingKey returns the public key for kid, fetching the key set only on a
// cache miss or when the cached entry is stale. An empty kid resolves to the
// first key the issuer publishes.
func (c *keyCache) signingKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	if entry, ok := c.entries[kid]; ok && time.Since(entry.fetchedAt) < jwksCacheMaxAge {
		return entry.key, nil
	}

	doc, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if len(doc.Keys) == 0 {
		return nil, fmt.Errorf("issuer published an empty key set")
	}

	now := time.Now()
	for _, k := range doc.Keys {
		pub, err := k.publicKey()
		if err != nil {
			continue
		}
		c.store(k.Kid, cachedKey{key: pub, fetchedAt: now})
	}

	lookup := kid
	if lookup == "" {
		lookup = doc.Keys[0].Kid
	}
	entry, ok := c.entries[lookup]
	if !ok {
		return nil, fmt.Errorf("no signing key with kid %q", kid)
	}

	// An empty-kid token resolves through the issuer's first key.
	if kid == "" && lookup != "" {
		c.store("", cachedKey{key: entry.key, fetchedAt: now})
	}

	return entry.key, nil
}

func (c *keyCache) store(kid string, entry cachedKey) {
	if _, exists := c.entries[kid]; !exists {
		c.order = append(c.order, kid)
	}
	c.entries[kid] = entry

	for len(c.entries) > jwksCacheMaxEntries {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

func (c *keyCache) fetch(ctx context.Context) (*jwksDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build jwks request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch jwks: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch jwks: unexpected status %d", resp.StatusCode)
	}

	var doc jwksDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode jwks: %w", err)
	}
	return &doc, nil
}

// publicKey converts the JWK modulus/exponent pair into an rsa.PublicKey.
func (k jwk) publicKey() (*rsa.PublicKey, error) {
	if k.Kty != "RSA" {
		return nil, fmt.Errorf("unsupported key type %q", k.Kty)
	}

	nBytes, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, fmt.Errorf("decode modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, fmt.Errorf("decode exponent: %w", err)
	}

	e := 0
	for _, b := range eBytes {
		e = e<<8 | int(b)
	}
	if e == 0 {
		return nil, fmt.Errorf("invalid exponent")
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: e,
	}, nil
}
