package driven

import "context"

// LocationService lists the names available at each level of the
// country → state → city hierarchy.
//
// Implementations return names in the order the source provides them.
// Errors should wrap domain.ErrNetworkFailure, domain.ErrHTTPStatus or
// domain.ErrMalformedResponse so callers can classify them.
type LocationService interface {
	// Countries lists every country.
	Countries(ctx context.Context) ([]string, error)

	// States lists the states of country.
	States(ctx context.Context, country string) ([]string, error)

	// Cities lists the cities of state within country.
	Cities(ctx context.Context, country, state string) ([]string, error)
}
