// Package dynamics implements the authenticated gateway to the Dynamics 365
// Dataverse Web API and the typed operations exposed over MCP.
package dynamics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/srikanth-paladugula/mcp-dynamics365-server/internal/adapters/driven/config"
	"github.com/srikanth-paladugula/mcp-dynamics365-server/internal/core/domain"
	"github.com/srikanth-paladugula/mcp-dynamics365-server/internal/core/ports/driven"
	"github.com/srikanth-paladugula/mcp-dynamics365-server/internal/core/ports/driving"
	"github.com/srikanth-paladugula/mcp-dynamics365-server/internal/logger"
)

// Ensure Client implements the driving port.
var _ driving.DynamicsService = (*Client)(nil)

// apiPath is the Dataverse Web API version prefix used by all operations.
const apiPath = "api/data/v9.2"

// Client executes authenticated requests against a Dataverse environment.
//
// The identity configuration is fixed at construction and never mutated, so a
// single Client is safe for concurrent tool invocations. Tokens are acquired
// fresh from the TokenProvider on every request; nothing is cached between
// calls.
type Client struct {
	baseURL       string
	tokenProvider driven.TokenProvider
	rateLimiter   *RateLimiter
	httpClient    *http.Client
}

// New creates a Dataverse client for the configured environment. The base URL
// is normalised to end with exactly one trailing slash so endpoint
// concatenation never produces a double or missing separator. Construction
// performs no network IO.
func New(cfg *config.Config, tokenProvider driven.TokenProvider) *Client {
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/") + "/",
		tokenProvider: tokenProvider,
		rateLimiter:   NewRateLimiter(),
		httpClient:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Request executes one authenticated HTTP call against the Web API and
// returns the decoded JSON body.
//
// endpoint is a path relative to the environment URL and may embed an OData
// query string. body, when non-nil, is serialised as JSON. headers are merged
// over the standard header set and may override it.
//
// A token acquisition failure surfaces as *domain.AuthenticationError; every
// transport, decode, or non-success-status failure surfaces as
// *domain.APIRequestError. No retries are performed.
func (c *Client) Request(
	ctx context.Context,
	endpoint, method string,
	body any,
	headers map[string]string,
) (domain.Entity, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	// A fresh token on every call; expiry is the identity provider's concern.
	token, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		return nil, err
	}

	var bodyReader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, domain.NewAPIRequestError("marshal request body", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	url := c.baseURL + strings.TrimPrefix(endpoint, "/")
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, domain.NewAPIRequestError("create request", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("OData-MaxVersion", "4.0")
	req.Header.Set("OData-Version", "4.0")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewAPIRequestError("execute request", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewAPIRequestError("read response body", err)
	}

	logger.Debugf("dynamics %s %s -> %d", method, endpoint, resp.StatusCode)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, domain.NewAPIStatusError("dynamics request failed", resp.StatusCode, string(respBody))
	}

	// Dataverse answers create/update with 204 No Content unless a
	// return=representation preference was sent; the created record id
	// travels in the OData-EntityId header instead.
	if len(respBody) == 0 {
		if entityID := resp.Header.Get("OData-EntityId"); entityID != "" {
			return domain.Entity{"OData-EntityId": entityID}, nil
		}
		return nil, nil
	}

	var result domain.Entity
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, domain.NewAPIRequestError("decode response", err)
	}

	return result, nil
}

// entityRef formats an entity-set member reference, e.g. accounts(<id>).
func entityRef(entitySet, id string) string {
	return fmt.Sprintf("%s/%s(%s)", apiPath, entitySet, id)
}
