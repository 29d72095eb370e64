package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/locselect/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for locselect resources.
	uriScheme = "locselect://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "countries",
		Name:        "countries",
		Description: "Every country served by the Location Data Service",
		MIMEType:    "application/json",
	}, s.handleCountriesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "countries/{country}/states",
		Name:        "country-states",
		Description: "States of a specific country",
		MIMEType:    "application/json",
	}, s.handleStatesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "countries/{country}/states/{state}/cities",
		Name:        "state-cities",
		Description: "Cities of a specific state",
		MIMEType:    "application/json",
	}, s.handleCitiesResource)
}

// handleCountriesResource returns every country.
func (s *Server) handleCountriesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return s.readNames(ctx, req.Params.URI, domain.LevelCountry, domain.SelectionKey{})
}

// handleStatesResource returns the states of the country in the URI.
func (s *Server) handleStatesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	key, ok := parseResourceURI(req.Params.URI)
	if !ok || key.State != "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return s.readNames(ctx, req.Params.URI, domain.LevelState, key)
}

// handleCitiesResource returns the cities of the state in the URI.
func (s *Server) handleCitiesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	key, ok := parseResourceURI(req.Params.URI)
	if !ok || key.State == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return s.readNames(ctx, req.Params.URI, domain.LevelCity, key)
}

func (s *Server) readNames(
	ctx context.Context,
	uri string,
	level domain.Level,
	key domain.SelectionKey,
) (*mcp.ReadResourceResult, error) {
	names, err := s.ports.Catalog.List(ctx, level, key)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", level.Plural(), err)
	}
	if names == nil {
		names = []string{}
	}

	data, err := json.MarshalIndent(names, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", level.Plural(), err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// parseResourceURI extracts the ancestors from a URI like
// locselect://countries/{country}/states[/{state}/cities].
// Path segments are unescaped.
func parseResourceURI(uri string) (domain.SelectionKey, bool) {
	const prefix = uriScheme + "countries/"

	if !strings.HasPrefix(uri, prefix) {
		return domain.SelectionKey{}, false
	}

	parts := strings.Split(strings.TrimPrefix(uri, prefix), "/")
	switch {
	case len(parts) == 2 && parts[1] == "states":
		country, err := url.PathUnescape(parts[0])
		if err != nil || country == "" {
			return domain.SelectionKey{}, false
		}
		return domain.SelectionKey{Country: country}, true

	case len(parts) == 4 && parts[1] == "states" && parts[3] == "cities":
		country, err := url.PathUnescape(parts[0])
		if err != nil || country == "" {
			return domain.SelectionKey{}, false
		}
		state, err := url.PathUnescape(parts[2])
		if err != nil || state == "" {
			return domain.SelectionKey{}, false
		}
		return domain.SelectionKey{Country: country, State: state}, true
	}

	return domain.SelectionKey{}, false
}
