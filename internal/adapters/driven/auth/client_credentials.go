// Package auth acquires Dataverse access tokens via the OAuth2
// client-credentials grant against the Microsoft identity platform.
package auth

import (
	"context"
	"fmt"
	"net/url"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/srikanth-paladugula/mcp-dynamics365-server/internal/adapters/driven/config"
	"github.com/srikanth-paladugula/mcp-dynamics365-server/internal/core/domain"
	"github.com/srikanth-paladugula/mcp-dynamics365-server/internal/core/ports/driven"
)

// defaultAuthorityHost is the Microsoft identity platform authority.
const defaultAuthorityHost = "https://login.microsoftonline.com"

// Ensure ClientCredentialsProvider implements the driven port.
var _ driven.TokenProvider = (*ClientCredentialsProvider)(nil)

// ClientCredentialsProvider exchanges an application identity for a bearer
// token scoped to the Dataverse environment's default permission scope.
//
// No token is cached: every GetToken call performs a fresh exchange, so
// callers always hold a token acquired immediately before use.
type ClientCredentialsProvider struct {
	conf *clientcredentials.Config
}

// NewClientCredentialsProvider builds a provider from the identity
// configuration. The token endpoint is derived from the tenant id and the
// requested scope from the origin of the resource URL, suffixed with
// /.default. Construction performs no network IO.
func NewClientCredentialsProvider(cfg *config.Config) (*ClientCredentialsProvider, error) {
	return newProviderWithAuthority(cfg, defaultAuthorityHost)
}

// newProviderWithAuthority allows tests to point the exchange at a stub
// identity endpoint.
func newProviderWithAuthority(cfg *config.Config, authorityHost string) (*ClientCredentialsProvider, error) {
	scope, err := resourceScope(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	return &ClientCredentialsProvider{
		conf: &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     fmt.Sprintf("%s/%s/oauth2/v2.0/token", authorityHost, cfg.TenantID),
			Scopes:       []string{scope},
		},
	}, nil
}

// GetToken performs the client-credentials exchange and returns the bearer
// token string. Exchange failures and responses lacking a usable token are
// reported as *domain.AuthenticationError so callers can tell a credential
// problem apart from a Dataverse request failure.
func (p *ClientCredentialsProvider) GetToken(ctx context.Context) (string, error) {
	token, err := p.conf.Token(ctx)
	if err != nil {
		return "", domain.NewAuthenticationError("failed to acquire access token", err)
	}
	if token.AccessToken == "" {
		return "", domain.NewAuthenticationError("token response contained no access token", nil)
	}
	return token.AccessToken, nil
}

// resourceScope derives the default-scope marker for the Dataverse
// environment, e.g. https://myorg.crm.dynamics.com/.default.
func resourceScope(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse resource URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("resource URL %q has no scheme or host", baseURL)
	}
	return u.Scheme + "://" + u.Host + "/.default", nil
}
