package dynamics

import (
	"context"
	"net/http"

	"github.com/srikanth-paladugula/mcp-dynamics365-server/internal/core/domain"
)

// GetUserInfo returns the identity of the authenticated application user.
//
// It issues a WhoAmI request and, when the response carries a UserId, follows
// up with a systemusers lookup to enrich the result with UserName (the
// domain name) and FullName. A failure of the second call propagates like any
// other request failure.
func (c *Client) GetUserInfo(ctx context.Context) (domain.Entity, error) {
	result, err := c.Request(ctx, apiPath+"/WhoAmI", http.MethodGet, nil, nil)
	if err != nil {
		return nil, err
	}

	userID, _ := result["UserId"].(string)
	if userID == "" {
		return result, nil
	}

	user, err := c.Request(ctx, entityRef("systemusers", userID), http.MethodGet, nil, map[string]string{
		"Prefer": `odata.include-annotations="*"`,
	})
	if err != nil {
		return nil, err
	}

	if domainName, ok := user["domainname"]; ok {
		result["UserName"] = domainName
	}
	if fullName, ok := user["fullname"]; ok {
		result["FullName"] = fullName
	}

	return result, nil
}
