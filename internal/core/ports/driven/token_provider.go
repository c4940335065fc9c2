package driven

import "context"

// TokenProvider supplies bearer tokens for outbound Dataverse requests.
// Implementations must return a fresh token on every call; the gateway does
// not cache tokens, so callers always see per-call freshness.
type TokenProvider interface {
	// GetToken acquires an access token scoped to the configured resource.
	// Failures are reported as *domain.AuthenticationError.
	GetToken(ctx context.Context) (string, error)
}
