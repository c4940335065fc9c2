package dynamics

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/srikanth-paladugula/mcp-dynamics365-server/internal/core/domain"
)

// GetAssociatedOpportunities lists opportunities whose customer is the given
// account.
//
// The account id is interpolated into the $filter expression as-is. Dataverse
// record ids are GUIDs, which never need OData escaping; an id containing
// quote characters would produce a malformed filter rather than being escaped
// here.
func (c *Client) GetAssociatedOpportunities(ctx context.Context, accountID string) (domain.Entity, error) {
	if accountID == "" {
		return nil, domain.NewValidationError("Account ID is required")
	}

	params := url.Values{}
	params.Set("$filter", fmt.Sprintf("_customerid_value eq %s", accountID))

	return c.Request(ctx, apiPath+"/opportunities?"+params.Encode(), http.MethodGet, nil, nil)
}
