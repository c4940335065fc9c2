package dynamics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srikanth-paladugula/mcp-dynamics365-server/internal/adapters/driven/config"
	"github.com/srikanth-paladugula/mcp-dynamics365-server/internal/core/domain"
)

// mockTokenProvider implements driven.TokenProvider for testing.
type mockTokenProvider struct {
	token string
	err   error
	calls int
}

func (m *mockTokenProvider) GetToken(_ context.Context) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.token, nil
}

// newTestClient wires a Client to an httptest server and a static token.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		TenantID:     "tenant",
		ClientID:     "client",
		ClientSecret: "secret",
		BaseURL:      srv.URL,
	}
	return New(cfg, &mockTokenProvider{token: "test-token"})
}

func TestNew_NormalisesBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
	}{
		{name: "without trailing slash", baseURL: "https://org.crm.dynamics.com"},
		{name: "with trailing slash", baseURL: "https://org.crm.dynamics.com/"},
		{name: "with repeated trailing slashes", baseURL: "https://org.crm.dynamics.com//"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := New(&config.Config{BaseURL: tt.baseURL}, &mockTokenProvider{token: "tok"})

			assert.Equal(t, "https://org.crm.dynamics.com/", client.baseURL)
		})
	}
}

func TestNew_PerformsNoNetworkIO(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		requests++
	}))
	t.Cleanup(srv.Close)

	tp := &mockTokenProvider{token: "tok"}
	client := New(&config.Config{BaseURL: srv.URL}, tp)

	require.NotNil(t, client)
	assert.Zero(t, requests)
	assert.Zero(t, tp.calls)
}

func TestRequest_StandardHeaders(t *testing.T) {
	var got http.Header
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`{}`))
	}))

	_, err := client.Request(context.Background(), "api/data/v9.2/accounts", http.MethodGet, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, "Bearer test-token", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "4.0", got.Get("OData-MaxVersion"))
	assert.Equal(t, "4.0", got.Get("OData-Version"))
}

func TestRequest_CallerHeadersOverride(t *testing.T) {
	var got http.Header
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`{}`))
	}))

	_, err := client.Request(context.Background(), "api/data/v9.2/WhoAmI", http.MethodGet, nil, map[string]string{
		"Prefer": `odata.include-annotations="*"`,
		"Accept": "application/json;odata.metadata=full",
	})

	require.NoError(t, err)
	assert.Equal(t, `odata.include-annotations="*"`, got.Get("Prefer"))
	assert.Equal(t, "application/json;odata.metadata=full", got.Get("Accept"))
}

func TestRequest_SingleSeparatingSlash(t *testing.T) {
	for _, trailing := range []string{"", "/"} {
		var gotPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			_, _ = w.Write([]byte(`{}`))
		}))

		cfg := &config.Config{BaseURL: srv.URL + trailing}
		client := New(cfg, &mockTokenProvider{token: "tok"})

		_, err := client.Request(context.Background(), "api/data/v9.2/accounts", http.MethodGet, nil, nil)
		srv.Close()

		require.NoError(t, err)
		assert.Equal(t, "/api/data/v9.2/accounts", gotPath, "base URL %q", cfg.BaseURL)
	}
}

func TestRequest_SerialisesBody(t *testing.T) {
	var gotBody []byte
	var gotMethod string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{}`))
	}))

	_, err := client.Request(context.Background(), "api/data/v9.2/accounts", http.MethodPost,
		domain.Entity{"name": "Contoso"}, nil)

	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.JSONEq(t, `{"name":"Contoso"}`, string(gotBody))
}

func TestRequest_OmitsAbsentBody(t *testing.T) {
	var gotBody []byte
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{}`))
	}))

	_, err := client.Request(context.Background(), "api/data/v9.2/accounts", http.MethodGet, nil, nil)

	require.NoError(t, err)
	assert.Empty(t, gotBody)
}

func TestRequest_DecodesResponse(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"value":[{"name":"Contoso"}]}`))
	}))

	result, err := client.Request(context.Background(), "api/data/v9.2/accounts", http.MethodGet, nil, nil)

	require.NoError(t, err)
	value, ok := result["value"].([]any)
	require.True(t, ok)
	require.Len(t, value, 1)
}

func TestRequest_NonSuccessStatus(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("not found"))
	}))

	_, err := client.Request(context.Background(), "api/data/v9.2/accounts", http.MethodGet, nil, nil)

	var apiErr *domain.APIRequestError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "not found", apiErr.Body)
	assert.Contains(t, apiErr.Error(), "404")
	assert.Contains(t, apiErr.Error(), "not found")
}

func TestRequest_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	cfg := &config.Config{BaseURL: srv.URL}
	client := New(cfg, &mockTokenProvider{token: "tok"})
	srv.Close() // connection refused from here on

	_, err := client.Request(context.Background(), "api/data/v9.2/accounts", http.MethodGet, nil, nil)

	var apiErr *domain.APIRequestError
	require.ErrorAs(t, err, &apiErr)
	assert.Zero(t, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "execute request")
}

func TestRequest_DecodeFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"value": [`))
	}))

	_, err := client.Request(context.Background(), "api/data/v9.2/accounts", http.MethodGet, nil, nil)

	var apiErr *domain.APIRequestError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Error(), "decode response")
}

func TestRequest_TokenFailure_NoHTTPCall(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		requests++
	}))
	t.Cleanup(srv.Close)

	authErr := domain.NewAuthenticationError("failed to acquire access token", nil)
	client := New(&config.Config{BaseURL: srv.URL}, &mockTokenProvider{err: authErr})

	_, err := client.Request(context.Background(), "api/data/v9.2/accounts", http.MethodGet, nil, nil)

	var gotAuthErr *domain.AuthenticationError
	require.ErrorAs(t, err, &gotAuthErr)
	assert.Zero(t, requests, "no HTTP call may be attempted when the exchange fails")
}

func TestRequest_FreshTokenPerCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	tp := &mockTokenProvider{token: "tok"}
	client := New(&config.Config{BaseURL: srv.URL}, tp)

	for i := 0; i < 3; i++ {
		_, err := client.Request(context.Background(), "api/data/v9.2/accounts", http.MethodGet, nil, nil)
		require.NoError(t, err)
	}

	assert.Equal(t, 3, tp.calls)
}

func TestRequest_EmptySuccessBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	result, err := client.Request(context.Background(), "api/data/v9.2/accounts(acc1)", http.MethodPatch,
		domain.Entity{"name": "X"}, nil)

	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestRequest_EmptyBodyWithEntityIDHeader(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("OData-EntityId", "https://org.crm.dynamics.com/api/data/v9.2/accounts(guid)")
		w.WriteHeader(http.StatusNoContent)
	}))

	result, err := client.Request(context.Background(), "api/data/v9.2/accounts", http.MethodPost,
		domain.Entity{"name": "Contoso"}, nil)

	require.NoError(t, err)
	assert.Equal(t,
		"https://org.crm.dynamics.com/api/data/v9.2/accounts(guid)",
		result["OData-EntityId"])
}

func TestRequest_ContextCancelled(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Request(ctx, "api/data/v9.2/accounts", http.MethodGet, nil, nil)

	require.Error(t, err)
}

func TestEntityRef(t *testing.T) {
	assert.Equal(t, "api/data/v9.2/accounts(acc1)", entityRef("accounts", "acc1"))
}
