package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/locselect/internal/core/domain"
	"github.com/custodia-labs/locselect/internal/core/ports/driven"
	"github.com/custodia-labs/locselect/internal/core/ports/driving"
	"github.com/custodia-labs/locselect/internal/logger"
)

// Ensure LocationCatalog implements the interface.
var _ driving.LocationCatalog = (*LocationCatalog)(nil)

// LocationCatalog serves one-shot lookups for the CLI and MCP adapters.
type LocationCatalog struct {
	locations driven.LocationService
}

// NewLocationCatalog creates a catalog over the given location service.
func NewLocationCatalog(locations driven.LocationService) *LocationCatalog {
	return &LocationCatalog{locations: locations}
}

// List returns the options at level for the given ancestors.
func (c *LocationCatalog) List(
	ctx context.Context, level domain.Level, key domain.SelectionKey,
) ([]string, error) {
	switch level {
	case domain.LevelCountry:
		countries, err := c.locations.Countries(ctx)
		if err != nil {
			return nil, fmt.Errorf("list countries: %w", err)
		}
		return countries, nil

	case domain.LevelState:
		if key.Country == "" {
			return nil, fmt.Errorf("%w: country is required to list states", domain.ErrInvalidInput)
		}
		states, err := c.locations.States(ctx, key.Country)
		if err != nil {
			return nil, fmt.Errorf("list states for %s: %w", key.Country, err)
		}
		return states, nil

	case domain.LevelCity:
		if key.Country == "" || key.State == "" {
			return nil, fmt.Errorf("%w: country and state are required to list cities", domain.ErrInvalidInput)
		}
		cities, err := c.locations.Cities(ctx, key.Country, key.State)
		if err != nil {
			return nil, fmt.Errorf("list cities for %s, %s: %w", key.State, key.Country, err)
		}
		return cities, nil

	default:
		return nil, fmt.Errorf("%w: unknown level %d", domain.ErrInvalidInput, level)
	}
}

// Select drives a fresh SelectionController through sel, level by level.
// It stops at the first empty name, failed fetch or unknown name and returns
// the controller state reached so far.
func (c *LocationCatalog) Select(ctx context.Context, sel domain.Selection) (domain.SelectorState, error) {
	if (sel.City != "" && sel.State == "") || (sel.State != "" && sel.Country == "") {
		return domain.SelectorState{}, fmt.Errorf("%w: each level needs its ancestor selected", domain.ErrInvalidInput)
	}

	logger.Section("Select")
	ctrl := NewSelectionController(c.locations)
	defer ctrl.Close()

	ctrl.Load(ctx, ctrl.Initialize())
	if err := loadError(ctrl); err != nil {
		return ctrl.State(), err
	}

	steps := []struct {
		level domain.Level
		apply func(string) *domain.FetchRequest
	}{
		{domain.LevelCountry, ctrl.SetCountry},
		{domain.LevelState, ctrl.SetState},
		{domain.LevelCity, func(name string) *domain.FetchRequest {
			ctrl.SetCity(name)
			return nil
		}},
	}

	for _, step := range steps {
		name := sel.Get(step.level)
		if name == "" {
			break
		}

		state := ctrl.State()
		if !state.HasOption(step.level, name) {
			options := state.Options(step.level)
			return state, &domain.OptionNotFoundError{
				Level:      step.level,
				Name:       name,
				Key:        state.Selection.KeyFor(step.level),
				Suggestion: Suggest(name, options),
			}
		}

		ctrl.Load(ctx, step.apply(name))
		if err := loadError(ctrl); err != nil {
			return ctrl.State(), err
		}
	}

	return ctrl.State(), nil
}

// loadError converts the controller's error state into an error value.
func loadError(ctrl *SelectionController) error {
	state := ctrl.State()
	if state.Error == "" {
		return nil
	}
	if cause := ctrl.Err(); cause != nil {
		return fmt.Errorf("%s: %w", state.Error, cause)
	}
	return errors.New(state.Error)
}
