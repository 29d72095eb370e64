// Package tui provides an interactive terminal user interface for locselect.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/locselect/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Selection holds the cascading selection state and issues fetches.
	Selection driving.SelectionController

	// Settings reads and edits the service configuration (optional).
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(selection driving.SelectionController, settings driving.SettingsService) *Ports {
	return &Ports{
		Selection: selection,
		Settings:  settings,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Selection == nil {
		return ErrMissingSelectionController
	}
	return nil
}
