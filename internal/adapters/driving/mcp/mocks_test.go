package mcp

import (
	"context"

	"github.com/custodia-labs/locselect/internal/core/domain"
)

// mockCatalog is a mock implementation of driving.LocationCatalog.
type mockCatalog struct {
	options []string
	state   domain.SelectorState
	err     error

	lastLevel     domain.Level
	lastKey       domain.SelectionKey
	lastSelection domain.Selection
}

func (m *mockCatalog) List(_ context.Context, level domain.Level, key domain.SelectionKey) ([]string, error) {
	m.lastLevel = level
	m.lastKey = key
	return m.options, m.err
}

func (m *mockCatalog) Select(_ context.Context, sel domain.Selection) (domain.SelectorState, error) {
	m.lastSelection = sel
	return m.state, m.err
}
