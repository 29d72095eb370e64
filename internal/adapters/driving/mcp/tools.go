package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/locselect/internal/core/domain"
)

// ListStatesInput is the input schema for the list_states tool.
type ListStatesInput struct {
	Country string `json:"country" jsonschema:"the country whose states to list"`
}

// ListCitiesInput is the input schema for the list_cities tool.
type ListCitiesInput struct {
	Country string `json:"country" jsonschema:"the country containing the state"`
	State   string `json:"state" jsonschema:"the state whose cities to list"`
}

// ListOutput is the output schema for the list tools.
type ListOutput struct {
	Level   string   `json:"level"`
	Options []string `json:"options"`
	Count   int      `json:"count"`
}

// SelectInput is the input schema for the select_location tool.
type SelectInput struct {
	Country string `json:"country" jsonschema:"the country to select"`
	State   string `json:"state,omitempty" jsonschema:"the state to select (requires country)"`
	City    string `json:"city,omitempty" jsonschema:"the city to select (requires state)"`
}

// SelectOutput is the output schema for the select_location tool.
type SelectOutput struct {
	Selection    domain.Selection `json:"selection"`
	Complete     bool             `json:"complete"`
	Confirmation string           `json:"confirmation,omitempty"`
	NextLevel    string           `json:"next_level,omitempty"`
	Options      []string         `json:"options,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_countries",
		Description: "List every country served by the Location Data Service",
	}, s.handleListCountries)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_states",
		Description: "List the states of a country",
	}, s.handleListStates)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_cities",
		Description: "List the cities of a state within a country",
	}, s.handleListCities)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "select_location",
		Description: "Resolve a country, state and city selection. Each name must be one " +
			"of the options for its level; unknown names are reported with a suggestion.",
	}, s.handleSelect)
}

func (s *Server) handleListCountries(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ListOutput, error) {
	return s.list(ctx, domain.LevelCountry, domain.SelectionKey{})
}

func (s *Server) handleListStates(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListStatesInput,
) (*mcp.CallToolResult, ListOutput, error) {
	return s.list(ctx, domain.LevelState, domain.SelectionKey{Country: input.Country})
}

func (s *Server) handleListCities(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListCitiesInput,
) (*mcp.CallToolResult, ListOutput, error) {
	return s.list(ctx, domain.LevelCity, domain.SelectionKey{Country: input.Country, State: input.State})
}

func (s *Server) list(
	ctx context.Context,
	level domain.Level,
	key domain.SelectionKey,
) (*mcp.CallToolResult, ListOutput, error) {
	options, err := s.ports.Catalog.List(ctx, level, key)
	if err != nil {
		return nil, ListOutput{}, err
	}
	if options == nil {
		options = []string{}
	}
	return nil, ListOutput{Level: level.String(), Options: options, Count: len(options)}, nil
}

// handleSelect handles the select_location tool invocation.
func (s *Server) handleSelect(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SelectInput,
) (*mcp.CallToolResult, SelectOutput, error) {
	sel := domain.Selection{Country: input.Country, State: input.State, City: input.City}

	state, err := s.ports.Catalog.Select(ctx, sel)
	if err != nil {
		return nil, SelectOutput{}, err
	}

	output := SelectOutput{
		Selection:    state.Selection,
		Complete:     state.Selection.Complete(),
		Confirmation: state.Selection.Confirmation(),
	}
	for _, level := range domain.AllLevels() {
		if state.Selection.Get(level) == "" {
			output.NextLevel = level.String()
			output.Options = state.Options(level)
			break
		}
	}
	return nil, output, nil
}
