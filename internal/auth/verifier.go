// Package auth verifies session tokens issued by the Dynamic identity
// provider against its published JWKS.
package auth

import (
	"context"
	"fmt"
	"net/mail"
	"sync"

	"github.com/golang-jwt/jwt/v5"

	"github.com/agentcart/agentcart/internal/logging"
)

// Result is the outcome of a token verification. Verification never returns
// an error to the caller: any failure collapses to Authenticated=false.
type Result struct {
	Authenticated bool
	// Email is the validated email claim, nil when absent or malformed.
	// A missing email does not fail verification.
	Email  *string
	Claims jwt.MapClaims
}

// Verifier checks token signatures and expiry against the issuer's signing
// keys. Safe for concurrent use.
type Verifier struct {
	mu   sync.Mutex
	keys *keyCache
}

// JWKSEndpoint returns the issuer's key-set URL for an environment ID.
func JWKSEndpoint(envID string) string {
	return fmt.Sprintf("https://app.dynamic.xyz/api/v0/sdk/%s/.well-known/jwks", envID)
}

// NewVerifier creates a Verifier for the given Dynamic environment ID.
func NewVerifier(envID string) *Verifier {
	return NewVerifierForEndpoint(JWKSEndpoint(envID))
}

// NewVerifierForEndpoint creates a Verifier against an explicit JWKS URL.
func NewVerifierForEndpoint(url string) *Verifier {
	return &Verifier{keys: newKeyCache(url)}
}

// Verify checks the token's signature and expiry and extracts the email
// claim. An empty token fails closed immediately, without any network call.
func (v *Verifier) Verify(ctx context.Context, token string) Result {
	if token == "" {
		return Result{}
	}

	// Every token the issuer mints carries an exp claim, so one without it
	// is malformed and rejected outright (stricter than verifiers that only
	// check expiry when the claim is present).
	parsed, err := jwt.Parse(token, v.keyfunc(ctx),
		jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		logging.Errorf("User verification failed: %v", err)
		return Result{}
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		logging.Errorf("User verification failed: unexpected claims type")
		return Result{}
	}

	logging.Infof("User is logged in: sub=%v", claims["sub"])

	return Result{
		Authenticated: true,
		Email:         emailClaim(claims),
		Claims:        claims,
	}
}

func (v *Verifier) keyfunc(ctx context.Context) jwt.Keyfunc {
	return func(token *jwt.Token) (any, error) {
		kid, _ := token.Header["kid"].(string)

		v.mu.Lock()
		defer v.mu.Unlock()
		return v.keys.signingKey(ctx, kid)
	}
}

// emailClaim returns the email claim when present and syntactically valid.
func emailClaim(claims jwt.MapClaims) *string {
	raw, ok := claims["email"].(string)
	if !ok || raw == "" {
		return nil
	}
	if _, err := mail.ParseAddress(raw); err != nil {
		return nil
	}
	return &raw
}
