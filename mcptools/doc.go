// Package mcptools loads tool definitions from a Model Context Protocol
// server and exposes them as traced tools.Tool implementations. Each tool
// call is proxied to the server through tools/call and emits its own span.
//
//	c, err := mcptools.Connect(ctx, "https://mcp.example.com/mcp")
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//
//	ts, err := mcptools.Load(ctx, c)
package mcptools
