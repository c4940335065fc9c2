package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/srikanth-paladugula/mcp-dynamics365-server/internal/core/domain"
	"github.com/srikanth-paladugula/mcp-dynamics365-server/internal/logger"
)

// registerTools registers the five Dynamics 365 tools.
func (s *Server) registerTools() {
	s.mcpServer.AddTool(&mcp.Tool{
		Name:        "get_user_info",
		Description: "Fetches information about the currently authenticated Dynamics 365 user",
		InputSchema: objectSchema(nil, nil),
	}, s.handle("get_user_info", s.getUserInfoTool))

	s.mcpServer.AddTool(&mcp.Tool{
		Name:        "fetch_accounts",
		Description: "Fetches all accounts from Dynamics 365",
		InputSchema: objectSchema(nil, nil),
	}, s.handle("fetch_accounts", s.fetchAccountsTool))

	s.mcpServer.AddTool(&mcp.Tool{
		Name:        "get_associated_opportunities",
		Description: "Fetches opportunities associated with a Dynamics 365 account",
		InputSchema: objectSchema(map[string]*jsonschema.Schema{
			"accountId": {Type: "string", Description: "Unique identifier of the account"},
		}, []string{"accountId"}),
	}, s.handle("get_associated_opportunities", s.getAssociatedOpportunitiesTool))

	s.mcpServer.AddTool(&mcp.Tool{
		Name:        "create_account",
		Description: "Creates a new account in Dynamics 365",
		InputSchema: objectSchema(map[string]*jsonschema.Schema{
			"accountData": {
				Type:        "object",
				Description: "Attributes of the account to create, e.g. {\"name\": \"Contoso\"}",
			},
		}, []string{"accountData"}),
	}, s.handle("create_account", s.createAccountTool))

	s.mcpServer.AddTool(&mcp.Tool{
		Name:        "update_account",
		Description: "Updates an existing account in Dynamics 365",
		InputSchema: objectSchema(map[string]*jsonschema.Schema{
			"accountId": {Type: "string", Description: "Unique identifier of the account to update"},
			"accountData": {
				Type:        "object",
				Description: "Attributes to change on the account",
			},
		}, []string{"accountId", "accountData"}),
	}, s.handle("update_account", s.updateAccountTool))
}

func (s *Server) getUserInfoTool(ctx context.Context, _ json.RawMessage) (domain.Entity, error) {
	return s.service.GetUserInfo(ctx)
}

func (s *Server) fetchAccountsTool(ctx context.Context, _ json.RawMessage) (domain.Entity, error) {
	return s.service.GetAccounts(ctx)
}

func (s *Server) getAssociatedOpportunitiesTool(ctx context.Context, args json.RawMessage) (domain.Entity, error) {
	var in struct {
		AccountID string `json:"accountId"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	return s.service.GetAssociatedOpportunities(ctx, in.AccountID)
}

func (s *Server) createAccountTool(ctx context.Context, args json.RawMessage) (domain.Entity, error) {
	var in struct {
		AccountData domain.Entity `json:"accountData"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	return s.service.CreateAccount(ctx, in.AccountData)
}

func (s *Server) updateAccountTool(ctx context.Context, args json.RawMessage) (domain.Entity, error) {
	var in struct {
		AccountID   string        `json:"accountId"`
		AccountData domain.Entity `json:"accountData"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	return s.service.UpdateAccount(ctx, in.AccountID, in.AccountData)
}

// toolFunc is one typed operation bound to decoded tool arguments.
type toolFunc func(ctx context.Context, args json.RawMessage) (domain.Entity, error)

// handle adapts a toolFunc to the MCP handler contract: success becomes JSON
// text content, any failure becomes an error-flagged result. Errors never
// escape to the protocol layer, so a failed operation cannot take the server
// down.
func (s *Server) handle(name string, fn toolFunc) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		callID := uuid.New().String()[:8]
		log := logger.WithFields(logger.Fields{"tool": name, "call": callID})
		log.Debug("tool invoked")

		args, err := json.Marshal(req.Params.Arguments)
		if err != nil {
			log.WithError(err).Warn("tool arguments not serialisable")
			return errorResult(domain.NewValidationError(fmt.Sprintf("invalid tool arguments: %v", err))), nil
		}

		result, err := fn(ctx, args)
		if err != nil {
			log.WithError(err).Warn("tool failed")
			return errorResult(err), nil
		}

		log.Debug("tool succeeded")
		return successResult(result), nil
	}
}

// decodeArgs unmarshals tool arguments, reporting malformed payloads as
// validation failures.
func decodeArgs(args json.RawMessage, v any) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return domain.NewValidationError(fmt.Sprintf("invalid tool arguments: %v", err))
	}
	return nil
}

// successResult renders a decoded Dataverse response as pretty-printed JSON
// text content.
func successResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("marshal tool result: %w", err))
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}
}

// errorResult renders a failure as an error-flagged text response.
func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: "Error: " + err.Error()}},
		IsError: true,
	}
}

// objectSchema builds the input schema for a tool taking the given properties.
func objectSchema(properties map[string]*jsonschema.Schema, required []string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}
