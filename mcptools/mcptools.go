package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/spyglass-ai/spyglass-go/tools"
)

const (
	clientName    = "spyglass-go"
	clientVersion = "1.0.0"
)

// Client is the subset of the mcp-go client used to list and call tools.
type Client interface {
	ListTools(ctx context.Context, request mcp.ListToolsRequest) (*mcp.ListToolsResult, error)
	CallTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// Connect creates a streamable HTTP client for the given MCP endpoint,
// starts its transport, and runs the initialize handshake. The caller owns
// the returned client and must Close it when done.
func Connect(ctx context.Context, endpoint string) (*client.Client, error) {
	c, err := client.NewStreamableHttpClient(endpoint)
	if err != nil {
		return nil, fmt.Errorf("create mcp client: %w", err)
	}

	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("start mcp transport: %w", err)
	}

	if err := initialize(ctx, c); err != nil {
		_ = c.Close()

		return nil, err
	}

	return c, nil
}

// ConnectInProcess wires a client directly to an in-process MCP server and
// runs the initialize handshake. Intended for tests and embedded servers.
func ConnectInProcess(ctx context.Context, srv *server.MCPServer) (*client.Client, error) {
	c, err := client.NewInProcessClient(srv)
	if err != nil {
		return nil, fmt.Errorf("create in-process mcp client: %w", err)
	}

	if err := initialize(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func initialize(ctx context.Context, c *client.Client) error {
	request := mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo: mcp.Implementation{
				Name:    clientName,
				Version: clientVersion,
			},
		},
	}

	if _, err := c.Initialize(ctx, request); err != nil {
		return fmt.Errorf("initialize mcp client: %w", err)
	}

	return nil
}

// Load lists the server's tools and returns one traced tools.Tool per
// definition. Calls through a returned tool are proxied to the server with
// the model's JSON arguments.
func Load(ctx context.Context, c Client) ([]tools.Tool, error) {
	result, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("list mcp tools: %w", err)
	}
	if result == nil {
		return nil, nil
	}

	loaded := make([]tools.Tool, 0, len(result.Tools))
	for _, def := range result.Tools {
		loaded = append(loaded, tools.Traced(&remoteTool{
			client:      c,
			name:        def.Name,
			description: def.Description,
			schema:      convertInputSchema(def.InputSchema),
		}))
	}

	return loaded, nil
}

// remoteTool proxies Call to an MCP server.
type remoteTool struct {
	client      Client
	name        string
	description string
	schema      map[string]any
}

var (
	_ tools.Tool           = (*remoteTool)(nil)
	_ tools.SchemaProvider = (*remoteTool)(nil)
)

func (t *remoteTool) Name() string                { return t.name }
func (t *remoteTool) Description() string         { return t.description }
func (t *remoteTool) InputSchema() map[string]any { return t.schema }

func (t *remoteTool) Call(ctx context.Context, input string) (string, error) {
	args := map[string]any{}
	if input != "" {
		if err := json.Unmarshal([]byte(input), &args); err != nil {
			return "", fmt.Errorf("tool %s: decode arguments: %w", t.name, err)
		}
	}

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      t.name,
			Arguments: args,
		},
	}

	result, err := t.client.CallTool(ctx, request)
	if err != nil {
		return "", fmt.Errorf("tool %s: call failed: %w", t.name, err)
	}

	text := extractText(result)
	if result != nil && result.IsError {
		return "", fmt.Errorf("tool %s: %s", t.name, text)
	}

	return text, nil
}

// extractText flattens a tool result's content blocks into a single string.
// Non-text blocks fall back to their JSON form.
func extractText(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}

	var sb strings.Builder
	for _, block := range result.Content {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		switch content := block.(type) {
		case mcp.TextContent:
			sb.WriteString(content.Text)
		default:
			if data, err := json.Marshal(block); err == nil {
				sb.Write(data)
			}
		}
	}

	return sb.String()
}

// convertInputSchema flattens the MCP schema struct into the map shape used
// by tool declarations.
func convertInputSchema(schema mcp.ToolInputSchema) map[string]any {
	out := map[string]any{"type": "object"}
	if schema.Type != "" {
		out["type"] = schema.Type
	}
	if len(schema.Properties) > 0 {
		out["properties"] = schema.Properties
	}
	if len(schema.Required) > 0 {
		out["required"] = schema.Required
	}

	return out
}
