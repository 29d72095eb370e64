package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/locselect/internal/core/domain"
	"github.com/custodia-labs/locselect/internal/core/ports/driven"
	"github.com/custodia-labs/locselect/internal/core/ports/driving"
	"github.com/custodia-labs/locselect/internal/logger"
)

// Ensure SelectionController implements the interface.
var _ driving.SelectionController = (*SelectionController)(nil)

// errStaleRequest is returned by Fetch for requests superseded before they ran.
var errStaleRequest = errors.New("request superseded")

const levelCount = 3

// SelectionController holds selection and option-list state and orchestrates
// fetches against the Location Data Service.
//
// Every issued fetch is tagged with a per-level generation. Issuing or
// resetting a level bumps its generation and cancels the fetch in flight, so
// responses for superseded selections are never applied.
type SelectionController struct {
	mu        sync.Mutex
	locations driven.LocationService
	newID     func() string

	selection  domain.Selection
	options    [levelCount][]string
	status     [levelCount]domain.LevelStatus
	generation [levelCount]uint64
	inflight   [levelCount]context.CancelFunc

	errMsg  string
	lastErr error
	closed  bool
}

// NewSelectionController creates a controller with empty selections and lists.
func NewSelectionController(locations driven.LocationService) *SelectionController {
	c := &SelectionController{
		locations: locations,
		newID:     uuid.NewString,
	}
	for i := range c.status {
		c.status[i] = domain.StatusEmpty
	}
	return c
}

// Initialize starts the countries fetch.
// Calling it again refreshes the country list and starts over: the
// selection, the error and the state and city lists are cleared, since the
// old names may not exist in the new list.
func (c *SelectionController) Initialize() *domain.FetchRequest {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.selection = domain.Selection{}
	c.clearError()
	c.reset(domain.LevelCity)
	c.reset(domain.LevelState)
	return c.issue(domain.LevelCountry)
}

// SetCountry selects a country and clears state, city and error.
// The states fetch is only issued when the country actually changes.
func (c *SelectionController) SetCountry(name string) *domain.FetchRequest {
	c.mu.Lock()
	defer c.mu.Unlock()

	changed := name != c.selection.Country
	hadState := c.selection.State != ""

	c.selection.Country = name
	c.selection.State = ""
	c.selection.City = ""
	c.clearError()

	if changed || hadState {
		c.reset(domain.LevelCity)
	}
	if !changed {
		return nil
	}
	if name == "" {
		c.reset(domain.LevelState)
		return nil
	}
	return c.issue(domain.LevelState)
}

// SetState selects a state and clears city and error.
// It is ignored while no country is selected.
func (c *SelectionController) SetState(name string) *domain.FetchRequest {
	c.mu.Lock()
	defer c.mu.Unlock()

	if name != "" && c.selection.Country == "" {
		logger.Debug("ignoring state %q: no country selected", name)
		return nil
	}

	changed := name != c.selection.State
	c.selection.State = name
	c.selection.City = ""
	c.clearError()

	if !changed {
		return nil
	}
	if name == "" {
		c.reset(domain.LevelCity)
		return nil
	}
	return c.issue(domain.LevelCity)
}

// SetCity selects a city. It is ignored while no state is selected.
func (c *SelectionController) SetCity(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if name != "" && c.selection.State == "" {
		logger.Debug("ignoring city %q: no state selected", name)
		return
	}
	c.selection.City = name
}

// Fetch executes req against the location service.
// Requests that are already stale return without any network call.
func (c *SelectionController) Fetch(ctx context.Context, req domain.FetchRequest) domain.FetchResult {
	result := domain.FetchResult{Request: req}
	if !req.Level.IsValid() {
		result.Err = fmt.Errorf("%w: level %d", domain.ErrInvalidInput, req.Level)
		return result
	}

	c.mu.Lock()
	if c.closed || req.Generation != c.generation[req.Level] {
		c.mu.Unlock()
		result.Err = errStaleRequest
		return result
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	c.inflight[req.Level] = cancel
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		if req.Generation == c.generation[req.Level] {
			c.inflight[req.Level] = nil
		}
		c.mu.Unlock()
		cancel()
	}()

	logger.Debug("fetch %s [%s] %s", req.Level.Plural(), req.ID, req.Key)

	switch req.Level {
	case domain.LevelCountry:
		result.Options, result.Err = c.locations.Countries(fetchCtx)
	case domain.LevelState:
		result.Options, result.Err = c.locations.States(fetchCtx, req.Key.Country)
	case domain.LevelCity:
		result.Options, result.Err = c.locations.Cities(fetchCtx, req.Key.Country, req.Key.State)
	}
	return result
}

// Apply stores result if it belongs to the current generation of its level.
// A failed result clears that level's options and sets the shared error message.
func (c *SelectionController) Apply(result domain.FetchResult) bool {
	req := result.Request
	if !req.Level.IsValid() {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || req.Generation != c.generation[req.Level] || req.Key != c.selection.KeyFor(req.Level) {
		logger.Debug("discarding stale %s result [%s] %s", req.Level.Plural(), req.ID, req.Key)
		return false
	}

	if result.Err != nil {
		c.options[req.Level] = nil
		c.status[req.Level] = domain.StatusFailed
		c.errMsg = domain.FailureMessage(req.Level)
		c.lastErr = result.Err
		logger.Warn("error fetching %s [%s] %s: %v", req.Level.Plural(), req.ID, req.Key, result.Err)
		return true
	}

	c.options[req.Level] = slices.Clone(result.Options)
	c.status[req.Level] = domain.StatusLoaded
	logger.Debug("loaded %d %s [%s]", len(result.Options), req.Level.Plural(), req.ID)
	return true
}

// Load executes req and applies its result. A nil request is a no-op.
func (c *SelectionController) Load(ctx context.Context, req *domain.FetchRequest) bool {
	if req == nil {
		return false
	}
	return c.Apply(c.Fetch(ctx, *req))
}

// State returns a snapshot of the current state.
func (c *SelectionController) State() domain.SelectorState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return domain.SelectorState{
		Selection:     c.selection,
		Countries:     cloneOptions(c.options[domain.LevelCountry]),
		States:        cloneOptions(c.options[domain.LevelState]),
		Cities:        cloneOptions(c.options[domain.LevelCity]),
		CountryStatus: c.status[domain.LevelCountry],
		StateStatus:   c.status[domain.LevelState],
		CityStatus:    c.status[domain.LevelCity],
		Error:         c.errMsg,
	}
}

// Err returns the cause behind the current error message, or nil.
func (c *SelectionController) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Close cancels any in-flight fetch. Later results are discarded.
func (c *SelectionController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	for i, cancel := range c.inflight {
		if cancel != nil {
			cancel()
			c.inflight[i] = nil
		}
	}
}

// issue starts a new generation for level in the Loading state (caller must hold lock).
func (c *SelectionController) issue(level domain.Level) *domain.FetchRequest {
	c.reset(level)
	c.status[level] = domain.StatusLoading

	req := &domain.FetchRequest{
		ID:         c.newID(),
		Level:      level,
		Key:        c.selection.KeyFor(level),
		Generation: c.generation[level],
	}
	logger.Debug("issued %s request [%s] %s", level.Plural(), req.ID, req.Key)
	return req
}

// reset empties level and supersedes any fetch for it (caller must hold lock).
func (c *SelectionController) reset(level domain.Level) {
	if cancel := c.inflight[level]; cancel != nil {
		cancel()
		c.inflight[level] = nil
	}
	c.generation[level]++
	c.options[level] = nil
	c.status[level] = domain.StatusEmpty
}

// clearError drops the current error message (caller must hold lock).
func (c *SelectionController) clearError() {
	c.errMsg = ""
	c.lastErr = nil
}

func cloneOptions(options []string) []string {
	if len(options) == 0 {
		return []string{}
	}
	return slices.Clone(options)
}
