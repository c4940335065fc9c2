package driving

import (
	"context"

	"github.com/srikanth-paladugula/mcp-dynamics365-server/internal/core/domain"
)

// DynamicsService exposes the typed Dataverse operations consumed by the MCP
// tool layer. Every method returns the decoded JSON response opaquely; no
// schema is enforced on the body beyond what the operation itself merges in.
//
// Failures are classified as *domain.ValidationError (bad arguments, no
// network activity), *domain.AuthenticationError (token acquisition), or
// *domain.APIRequestError (transport, decode, or non-success status).
type DynamicsService interface {
	// GetUserInfo returns the identity of the authenticated application user,
	// enriched with UserName and FullName from the systemusers entity when the
	// WhoAmI response carries a user id.
	GetUserInfo(ctx context.Context) (domain.Entity, error)

	// GetAccounts lists accounts, returning the raw OData envelope.
	GetAccounts(ctx context.Context) (domain.Entity, error)

	// GetAssociatedOpportunities lists opportunities whose customer is the
	// given account.
	GetAssociatedOpportunities(ctx context.Context, accountID string) (domain.Entity, error)

	// CreateAccount creates an account record from the given attributes.
	CreateAccount(ctx context.Context, accountData domain.Entity) (domain.Entity, error)

	// UpdateAccount updates the account identified by accountID with the given
	// attributes.
	UpdateAccount(ctx context.Context, accountID string, accountData domain.Entity) (domain.Entity, error)
}
