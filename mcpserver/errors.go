// Package mcpserver exposes the course tools to MCP clients over stdio or
// streamable HTTP.
package mcpserver

import "errors"

// ErrMissingToolbox is returned when no toolbox is provided.
var ErrMissingToolbox = errors.New("mcp: toolbox is required")
