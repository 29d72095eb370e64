// Package memory provides an in-memory LocationService.
// It serves a fixed hierarchy and supports error injection and call hooks,
// which makes it the standard collaborator for controller and UI tests.
package memory

import (
	"context"
	"net/http"
	"slices"
	"sync"

	"github.com/custodia-labs/locselect/internal/core/domain"
	"github.com/custodia-labs/locselect/internal/core/ports/driven"
)

// Ensure LocationService implements the interface.
var _ driven.LocationService = (*LocationService)(nil)

// Country is a country with its states, in display order.
type Country struct {
	Name   string
	States []State
}

// State is a state with its cities, in display order.
type State struct {
	Name   string
	Cities []string
}

// Call describes one request received by the service.
type Call struct {
	Level domain.Level
	Key   domain.SelectionKey
}

// Hook runs before a request is answered. A non-nil error is returned
// to the caller instead of the data.
type Hook func(ctx context.Context, call Call) error

// LocationService is an in-memory implementation of driven.LocationService.
// Unknown countries and states answer like the real service would: HTTP 404.
type LocationService struct {
	mu        sync.Mutex
	countries []Country
	errs      map[domain.Level]error
	calls     []Call
	hook      Hook
}

// NewLocationService creates a service serving the given hierarchy.
func NewLocationService(countries ...Country) *LocationService {
	return &LocationService{
		countries: countries,
		errs:      make(map[domain.Level]error),
	}
}

// SampleData returns a small hierarchy used across tests.
func SampleData() []Country {
	return []Country{
		{Name: "India", States: []State{
			{Name: "Maharashtra", Cities: []string{"Mumbai", "Pune", "Nagpur"}},
			{Name: "Goa", Cities: []string{"Panaji", "Margao"}},
		}},
		{Name: "USA", States: []State{
			{Name: "California", Cities: []string{"Los Angeles", "San Francisco"}},
			{Name: "Texas", Cities: []string{"Austin", "Houston"}},
		}},
	}
}

// SetError makes every request at level fail with err. Pass nil to clear.
func (s *LocationService) SetError(level domain.Level, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.errs, level)
		return
	}
	s.errs[level] = err
}

// SetHook installs a hook run before every request.
func (s *LocationService) SetHook(hook Hook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hook = hook
}

// Calls returns every request received so far, in order.
func (s *LocationService) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.calls)
}

// CallCount returns the number of requests received at level.
func (s *LocationService) CallCount(level domain.Level) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, c := range s.calls {
		if c.Level == level {
			n++
		}
	}
	return n
}

// Countries lists every country.
func (s *LocationService) Countries(ctx context.Context) ([]string, error) {
	if err := s.begin(ctx, Call{Level: domain.LevelCountry}); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.countries))
	for _, c := range s.countries {
		names = append(names, c.Name)
	}
	return names, nil
}

// States lists the states of country.
func (s *LocationService) States(ctx context.Context, country string) ([]string, error) {
	call := Call{Level: domain.LevelState, Key: domain.SelectionKey{Country: country}}
	if err := s.begin(ctx, call); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.findCountry(country)
	if !ok {
		return nil, &domain.HTTPError{StatusCode: http.StatusNotFound}
	}
	names := make([]string, 0, len(c.States))
	for _, st := range c.States {
		names = append(names, st.Name)
	}
	return names, nil
}

// Cities lists the cities of state within country.
func (s *LocationService) Cities(ctx context.Context, country, state string) ([]string, error) {
	call := Call{Level: domain.LevelCity, Key: domain.SelectionKey{Country: country, State: state}}
	if err := s.begin(ctx, call); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.findCountry(country)
	if !ok {
		return nil, &domain.HTTPError{StatusCode: http.StatusNotFound}
	}
	for _, st := range c.States {
		if st.Name == state {
			return slices.Clone(st.Cities), nil
		}
	}
	return nil, &domain.HTTPError{StatusCode: http.StatusNotFound}
}

// begin records the call, runs the hook and returns any injected error.
func (s *LocationService) begin(ctx context.Context, call Call) error {
	s.mu.Lock()
	s.calls = append(s.calls, call)
	hook := s.hook
	injected := s.errs[call.Level]
	s.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, call); err != nil {
			return err
		}
	}
	if injected != nil {
		return injected
	}
	return ctx.Err()
}

// findCountry looks up a country by name (caller must hold lock).
func (s *LocationService) findCountry(name string) (Country, bool) {
	for _, c := range s.countries {
		if c.Name == name {
			return c, true
		}
	}
	return Country{}, false
}
