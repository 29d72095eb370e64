// Package mcp provides an MCP (Model Context Protocol) server adapter for locselect.
// It lets AI assistants browse the location hierarchy and resolve selections.
package mcp

import "errors"

// ErrMissingCatalog is returned when the location catalog is not provided.
var ErrMissingCatalog = errors.New("mcp: location catalog is required")
