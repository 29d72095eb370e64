package driving

import (
	"context"

	"github.com/custodia-labs/locselect/internal/core/domain"
)

// SelectionController owns the cascading country → state → city selection.
//
// Operations that change a selection return the fetch they require, or nil
// when none is needed. Callers execute it with Fetch, wherever suits them,
// and hand the result back to Apply. Load does both synchronously.
type SelectionController interface {
	// Initialize starts the countries fetch.
	Initialize() *domain.FetchRequest

	// SetCountry selects a country ("" clears it) and resets state and city.
	SetCountry(name string) *domain.FetchRequest

	// SetState selects a state ("" clears it) and resets city.
	SetState(name string) *domain.FetchRequest

	// SetCity selects a city ("" clears it).
	SetCity(name string)

	// Fetch executes a request. It does not change selection state.
	Fetch(ctx context.Context, req domain.FetchRequest) domain.FetchResult

	// Apply stores a fetch result. It returns false if the result was stale.
	Apply(result domain.FetchResult) bool

	// Load executes req and applies its result.
	Load(ctx context.Context, req *domain.FetchRequest) bool

	// State returns a snapshot of the current state.
	State() domain.SelectorState

	// Err returns the cause behind the current error message, or nil.
	Err() error

	// Close cancels any in-flight fetch.
	Close()
}

// LocationCatalog answers one-shot lookups outside an interactive session.
type LocationCatalog interface {
	// List returns the options at level for the given ancestors.
	List(ctx context.Context, level domain.Level, key domain.SelectionKey) ([]string, error)

	// Select walks the hierarchy through a fresh controller, validating each
	// non-empty name against the options loaded for its level.
	Select(ctx context.Context, sel domain.Selection) (domain.SelectorState, error)
}
