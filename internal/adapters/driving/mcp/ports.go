package mcp

import (
	"github.com/custodia-labs/locselect/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Catalog lists options and resolves selections.
	Catalog driving.LocationCatalog
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Catalog == nil {
		return ErrMissingCatalog
	}
	return nil
}
