package dynamics

import (
	"context"
	"net/http"

	"github.com/srikanth-paladugula/mcp-dynamics365-server/internal/core/domain"
)

// GetAccounts lists account records. The raw OData envelope is returned,
// including the value collection and any annotations.
func (c *Client) GetAccounts(ctx context.Context) (domain.Entity, error) {
	return c.Request(ctx, apiPath+"/accounts", http.MethodGet, nil, nil)
}

// CreateAccount creates an account record from the given attributes.
func (c *Client) CreateAccount(ctx context.Context, accountData domain.Entity) (domain.Entity, error) {
	if accountData == nil {
		return nil, domain.NewValidationError("Account data is required")
	}
	return c.Request(ctx, apiPath+"/accounts", http.MethodPost, accountData, nil)
}

// UpdateAccount updates the account identified by accountID with the given
// attributes. Both arguments are validated before any network activity, the
// account id first.
func (c *Client) UpdateAccount(ctx context.Context, accountID string, accountData domain.Entity) (domain.Entity, error) {
	if accountID == "" {
		return nil, domain.NewValidationError("Account ID is required")
	}
	if accountData == nil {
		return nil, domain.NewValidationError("Account data is required")
	}
	return c.Request(ctx, entityRef("accounts", accountID), http.MethodPatch, accountData, nil)
}
