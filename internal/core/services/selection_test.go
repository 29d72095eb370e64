package services

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/locselect/internal/adapters/driven/location/memory"
	"github.com/custodia-labs/locselect/internal/core/domain"
)

func newTestController(t *testing.T) (*SelectionController, *memory.LocationService) {
	t.Helper()
	locations := memory.NewLocationService(memory.SampleData()...)
	ctrl := NewSelectionController(locations)
	t.Cleanup(ctrl.Close)
	return ctrl, locations
}

// selectPath loads countries then walks country, state and city.
func selectPath(t *testing.T, ctrl *SelectionController, country, state, city string) {
	t.Helper()
	ctx := context.Background()
	ctrl.Load(ctx, ctrl.Initialize())
	if country != "" {
		ctrl.Load(ctx, ctrl.SetCountry(country))
	}
	if state != "" {
		ctrl.Load(ctx, ctrl.SetState(state))
	}
	if city != "" {
		ctrl.SetCity(city)
	}
}

func TestNewSelectionController(t *testing.T) {
	ctrl, locations := newTestController(t)

	state := ctrl.State()
	assert.Equal(t, domain.Selection{}, state.Selection)
	assert.Empty(t, state.Countries)
	assert.Empty(t, state.States)
	assert.Empty(t, state.Cities)
	assert.Equal(t, domain.StatusEmpty, state.CountryStatus)
	assert.Equal(t, domain.StatusEmpty, state.StateStatus)
	assert.Equal(t, domain.StatusEmpty, state.CityStatus)
	assert.Empty(t, state.Error)
	assert.Empty(t, locations.Calls())
}

func TestSelectionController_Initialize(t *testing.T) {
	ctrl, _ := newTestController(t)
	ctrl.newID = func() string { return "req-1" }

	req := ctrl.Initialize()

	require.NotNil(t, req)
	assert.Equal(t, "req-1", req.ID)
	assert.Equal(t, domain.LevelCountry, req.Level)
	assert.Equal(t, domain.SelectionKey{}, req.Key)
	assert.Equal(t, domain.StatusLoading, ctrl.State().CountryStatus)
}

func TestSelectionController_Initialize_LoadsCountriesInOrder(t *testing.T) {
	ctrl, _ := newTestController(t)

	applied := ctrl.Load(context.Background(), ctrl.Initialize())

	require.True(t, applied)
	state := ctrl.State()
	assert.Equal(t, []string{"India", "USA"}, state.Countries)
	assert.Equal(t, domain.StatusLoaded, state.CountryStatus)
	assert.Empty(t, state.Error)
}

func TestSelectionController_Initialize_Failure(t *testing.T) {
	ctrl, locations := newTestController(t)
	locations.SetError(domain.LevelCountry, domain.ErrNetworkFailure)

	ctrl.Load(context.Background(), ctrl.Initialize())

	state := ctrl.State()
	assert.Empty(t, state.Countries)
	assert.Equal(t, domain.StatusFailed, state.CountryStatus)
	assert.Equal(t, "Failed to load countries.", state.Error)
	assert.ErrorIs(t, ctrl.Err(), domain.ErrNetworkFailure)
}

func TestSelectionController_Initialize_Refresh(t *testing.T) {
	ctrl, locations := newTestController(t)
	ctx := context.Background()

	ctrl.Load(ctx, ctrl.Initialize())
	ctrl.Load(ctx, ctrl.Initialize())

	assert.Equal(t, 2, locations.CallCount(domain.LevelCountry))
	assert.Equal(t, []string{"India", "USA"}, ctrl.State().Countries)
}

func TestSelectionController_Initialize_ClearsSelection(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"refresh succeeds", nil},
		{"refresh fails", domain.ErrNetworkFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl, locations := newTestController(t)
			ctx := context.Background()
			selectPath(t, ctrl, "India", "Maharashtra", "Pune")
			require.True(t, ctrl.State().Selection.Complete())

			locations.SetError(domain.LevelCountry, tt.err)
			ctrl.Load(ctx, ctrl.Initialize())

			state := ctrl.State()
			assert.Equal(t, domain.Selection{}, state.Selection)
			assert.Empty(t, state.Selection.Confirmation())
			assert.Empty(t, state.States)
			assert.Empty(t, state.Cities)
			assert.Equal(t, domain.StatusEmpty, state.StateStatus)
			assert.Equal(t, domain.StatusEmpty, state.CityStatus)
			assert.False(t, state.Enabled(domain.LevelState))
		})
	}
}

func TestSelectionController_Initialize_DiscardsInFlightStates(t *testing.T) {
	ctrl, _ := newTestController(t)
	ctx := context.Background()
	ctrl.Load(ctx, ctrl.Initialize())

	statesReq := ctrl.SetCountry("India")
	states := ctrl.Fetch(ctx, *statesReq)
	require.NoError(t, states.Err)

	ctrl.Load(ctx, ctrl.Initialize())

	assert.False(t, ctrl.Apply(states))
	assert.Empty(t, ctrl.State().States)
}

func TestSelectionController_SetCountry_LoadsStates(t *testing.T) {
	ctrl, locations := newTestController(t)
	ctx := context.Background()
	ctrl.Load(ctx, ctrl.Initialize())

	req := ctrl.SetCountry("India")

	require.NotNil(t, req)
	assert.Equal(t, domain.LevelState, req.Level)
	assert.Equal(t, domain.SelectionKey{Country: "India"}, req.Key)
	assert.Equal(t, domain.StatusLoading, ctrl.State().StateStatus)

	require.True(t, ctrl.Load(ctx, req))

	state := ctrl.State()
	assert.Equal(t, []string{"Maharashtra", "Goa"}, state.States)
	assert.Equal(t, domain.StatusLoaded, state.StateStatus)
	assert.True(t, state.Enabled(domain.LevelState))
	assert.False(t, state.Enabled(domain.LevelCity))
	assert.Equal(t, []memory.Call{
		{Level: domain.LevelCountry},
		{Level: domain.LevelState, Key: domain.SelectionKey{Country: "India"}},
	}, locations.Calls())
}

func TestSelectionController_SetCountry_ResetsDescendants(t *testing.T) {
	ctrl, _ := newTestController(t)
	selectPath(t, ctrl, "India", "Maharashtra", "Pune")

	ctrl.SetCountry("USA")

	state := ctrl.State()
	assert.Equal(t, "USA", state.Selection.Country)
	assert.Empty(t, state.Selection.State)
	assert.Empty(t, state.Selection.City)
	assert.Empty(t, state.Error)
	assert.Empty(t, state.States)
	assert.Empty(t, state.Cities)
	assert.Equal(t, domain.StatusLoading, state.StateStatus)
	assert.Equal(t, domain.StatusEmpty, state.CityStatus)
}

func TestSelectionController_SetCountry_ClearsError(t *testing.T) {
	ctrl, locations := newTestController(t)
	ctx := context.Background()
	ctrl.Load(ctx, ctrl.Initialize())

	locations.SetError(domain.LevelState, &domain.HTTPError{StatusCode: http.StatusInternalServerError})
	ctrl.Load(ctx, ctrl.SetCountry("India"))
	require.Equal(t, "Failed to load states.", ctrl.State().Error)

	locations.SetError(domain.LevelState, nil)
	ctrl.SetCountry("USA")

	assert.Empty(t, ctrl.State().Error)
	assert.NoError(t, ctrl.Err())
}

func TestSelectionController_SetCountry_Clear(t *testing.T) {
	ctrl, locations := newTestController(t)
	selectPath(t, ctrl, "India", "Maharashtra", "")
	statesBefore := locations.CallCount(domain.LevelState)

	req := ctrl.SetCountry("")

	assert.Nil(t, req)
	state := ctrl.State()
	assert.Equal(t, domain.Selection{}, state.Selection)
	assert.Equal(t, []string{}, state.States)
	assert.Equal(t, []string{}, state.Cities)
	assert.Equal(t, domain.StatusEmpty, state.StateStatus)
	assert.Equal(t, domain.StatusEmpty, state.CityStatus)
	assert.False(t, state.Enabled(domain.LevelState))
	assert.Equal(t, statesBefore, locations.CallCount(domain.LevelState))
}

func TestSelectionController_SetCountry_SameCountry(t *testing.T) {
	t.Run("without descendants is a no-op", func(t *testing.T) {
		ctrl, locations := newTestController(t)
		selectPath(t, ctrl, "India", "", "")
		before := ctrl.State()

		req := ctrl.SetCountry("India")

		assert.Nil(t, req)
		assert.Equal(t, before, ctrl.State())
		assert.Equal(t, 1, locations.CallCount(domain.LevelState))
	})

	t.Run("clears state and city but keeps states", func(t *testing.T) {
		ctrl, locations := newTestController(t)
		selectPath(t, ctrl, "India", "Maharashtra", "Pune")

		req := ctrl.SetCountry("India")

		assert.Nil(t, req)
		state := ctrl.State()
		assert.Equal(t, domain.Selection{Country: "India"}, state.Selection)
		assert.Equal(t, []string{"Maharashtra", "Goa"}, state.States)
		assert.Equal(t, domain.StatusLoaded, state.StateStatus)
		assert.Empty(t, state.Cities)
		assert.Equal(t, domain.StatusEmpty, state.CityStatus)
		assert.Equal(t, 1, locations.CallCount(domain.LevelState))
	})
}

func TestSelectionController_SetState_LoadsCities(t *testing.T) {
	ctrl, _ := newTestController(t)
	selectPath(t, ctrl, "India", "", "")

	req := ctrl.SetState("Maharashtra")

	require.NotNil(t, req)
	assert.Equal(t, domain.LevelCity, req.Level)
	assert.Equal(t, domain.SelectionKey{Country: "India", State: "Maharashtra"}, req.Key)

	require.True(t, ctrl.Load(context.Background(), req))
	state := ctrl.State()
	assert.Equal(t, []string{"Mumbai", "Pune", "Nagpur"}, state.Cities)
	assert.True(t, state.Enabled(domain.LevelCity))
}

func TestSelectionController_SetState_ClearsCityAndError(t *testing.T) {
	ctrl, locations := newTestController(t)
	selectPath(t, ctrl, "India", "Maharashtra", "Pune")

	locations.SetError(domain.LevelCity, domain.ErrMalformedResponse)
	ctrl.Load(context.Background(), ctrl.SetState("Goa"))
	require.Equal(t, "Failed to load cities.", ctrl.State().Error)

	ctrl.SetState("Maharashtra")

	state := ctrl.State()
	assert.Equal(t, "Maharashtra", state.Selection.State)
	assert.Empty(t, state.Selection.City)
	assert.Empty(t, state.Error)
}

func TestSelectionController_SetState_Clear(t *testing.T) {
	ctrl, locations := newTestController(t)
	selectPath(t, ctrl, "India", "Maharashtra", "Pune")
	citiesBefore := locations.CallCount(domain.LevelCity)

	req := ctrl.SetState("")

	assert.Nil(t, req)
	state := ctrl.State()
	assert.Equal(t, domain.Selection{Country: "India"}, state.Selection)
	assert.Empty(t, state.Cities)
	assert.Equal(t, domain.StatusEmpty, state.CityStatus)
	assert.Equal(t, citiesBefore, locations.CallCount(domain.LevelCity))
}

func TestSelectionController_SetState_WithoutCountry(t *testing.T) {
	ctrl, locations := newTestController(t)

	req := ctrl.SetState("Goa")

	assert.Nil(t, req)
	assert.Empty(t, ctrl.State().Selection.State)
	assert.Zero(t, locations.CallCount(domain.LevelCity))
}

func TestSelectionController_SetCity(t *testing.T) {
	ctrl, locations := newTestController(t)
	selectPath(t, ctrl, "India", "Maharashtra", "")
	callsBefore := len(locations.Calls())

	ctrl.SetCity("Pune")

	state := ctrl.State()
	assert.Equal(t, "Pune", state.Selection.City)
	assert.Equal(t, "You selected Pune, Maharashtra, India", state.Selection.Confirmation())
	assert.Len(t, locations.Calls(), callsBefore)

	ctrl.SetCity("")
	assert.Empty(t, ctrl.State().Selection.City)
	assert.Empty(t, ctrl.State().Selection.Confirmation())
}

func TestSelectionController_SetCity_WithoutState(t *testing.T) {
	ctrl, _ := newTestController(t)
	selectPath(t, ctrl, "India", "", "")

	ctrl.SetCity("Pune")

	assert.Empty(t, ctrl.State().Selection.City)
}

func TestSelectionController_StatesFailure(t *testing.T) {
	ctrl, locations := newTestController(t)
	ctx := context.Background()
	ctrl.Load(ctx, ctrl.Initialize())
	locations.SetError(domain.LevelState, &domain.HTTPError{StatusCode: http.StatusInternalServerError})

	applied := ctrl.Load(ctx, ctrl.SetCountry("India"))

	require.True(t, applied)
	state := ctrl.State()
	assert.Equal(t, "Failed to load states.", state.Error)
	assert.Empty(t, state.States)
	assert.Equal(t, domain.StatusFailed, state.StateStatus)
	assert.False(t, state.Enabled(domain.LevelCity))
	assert.Equal(t, []string{"India", "USA"}, state.Countries)
	assert.ErrorIs(t, ctrl.Err(), domain.ErrHTTPStatus)
}

func TestSelectionController_FailureClearsPreviousOptions(t *testing.T) {
	ctrl, locations := newTestController(t)
	ctx := context.Background()
	ctrl.Load(ctx, ctrl.Initialize())
	require.NotEmpty(t, ctrl.State().Countries)

	locations.SetError(domain.LevelCountry, domain.ErrNetworkFailure)
	ctrl.Load(ctx, ctrl.Initialize())

	assert.Empty(t, ctrl.State().Countries)
	assert.Equal(t, domain.StatusFailed, ctrl.State().CountryStatus)
}

func TestSelectionController_ErrorIsLastWriteWins(t *testing.T) {
	ctrl, locations := newTestController(t)
	ctx := context.Background()
	selectPath(t, ctrl, "India", "", "")

	locations.SetError(domain.LevelCity, domain.ErrNetworkFailure)
	ctrl.Load(ctx, ctrl.SetState("Goa"))
	require.Equal(t, "Failed to load cities.", ctrl.State().Error)

	locations.SetError(domain.LevelCountry, domain.ErrNetworkFailure)
	ctrl.Load(ctx, ctrl.Initialize())

	assert.Equal(t, "Failed to load countries.", ctrl.State().Error)
}

func TestSelectionController_StaleRequestSkipsNetwork(t *testing.T) {
	ctrl, locations := newTestController(t)
	ctx := context.Background()
	ctrl.Load(ctx, ctrl.Initialize())

	stale := ctrl.SetCountry("India")
	current := ctrl.SetCountry("USA")

	result := ctrl.Fetch(ctx, *stale)
	assert.ErrorIs(t, result.Err, errStaleRequest)
	assert.False(t, ctrl.Apply(result))
	assert.Zero(t, locations.CallCount(domain.LevelState))

	require.True(t, ctrl.Load(ctx, current))
	assert.Equal(t, []string{"California", "Texas"}, ctrl.State().States)
	assert.Empty(t, ctrl.State().Error)
}

func TestSelectionController_LateResultDiscarded(t *testing.T) {
	ctrl, _ := newTestController(t)
	ctx := context.Background()
	ctrl.Load(ctx, ctrl.Initialize())

	indiaReq := ctrl.SetCountry("India")
	india := ctrl.Fetch(ctx, *indiaReq)
	require.NoError(t, india.Err)

	usaReq := ctrl.SetCountry("USA")
	usa := ctrl.Fetch(ctx, *usaReq)

	// Responses arrive out of order.
	assert.True(t, ctrl.Apply(usa))
	assert.False(t, ctrl.Apply(india))
	assert.Equal(t, []string{"California", "Texas"}, ctrl.State().States)
}

func TestSelectionController_LateFailureDiscarded(t *testing.T) {
	ctrl, _ := newTestController(t)
	selectPath(t, ctrl, "India", "", "")

	req := ctrl.SetState("Goa")
	ctrl.SetState("Maharashtra")

	applied := ctrl.Apply(domain.FetchResult{Request: *req, Err: domain.ErrNetworkFailure})

	assert.False(t, applied)
	assert.Empty(t, ctrl.State().Error)
}

func TestSelectionController_SupersedingCancelsInFlight(t *testing.T) {
	ctrl, locations := newTestController(t)
	ctx := context.Background()
	ctrl.Load(ctx, ctrl.Initialize())

	entered := make(chan struct{})
	locations.SetHook(func(ctx context.Context, call memory.Call) error {
		if call.Key.Country != "India" {
			return nil
		}
		close(entered)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
			return errors.New("fetch was not cancelled")
		}
	})

	req := ctrl.SetCountry("India")
	done := make(chan domain.FetchResult, 1)
	go func() { done <- ctrl.Fetch(ctx, *req) }()
	<-entered

	next := ctrl.SetCountry("USA")
	result := <-done

	assert.ErrorIs(t, result.Err, context.Canceled)
	assert.False(t, ctrl.Apply(result))

	require.True(t, ctrl.Load(ctx, next))
	assert.Equal(t, []string{"California", "Texas"}, ctrl.State().States)
}

func TestSelectionController_ClearingCountryCancelsInFlight(t *testing.T) {
	ctrl, locations := newTestController(t)
	ctx := context.Background()
	selectPath(t, ctrl, "India", "", "")

	entered := make(chan struct{})
	locations.SetHook(func(ctx context.Context, call memory.Call) error {
		if call.Level != domain.LevelCity {
			return nil
		}
		close(entered)
		<-ctx.Done()
		return ctx.Err()
	})

	req := ctrl.SetState("Goa")
	done := make(chan domain.FetchResult, 1)
	go func() { done <- ctrl.Fetch(ctx, *req) }()
	<-entered

	ctrl.SetCountry("")
	result := <-done

	assert.False(t, ctrl.Apply(result))
	assert.Empty(t, ctrl.State().Cities)
	assert.Empty(t, ctrl.State().Error)
}

func TestSelectionController_Fetch_InvalidLevel(t *testing.T) {
	ctrl, _ := newTestController(t)

	result := ctrl.Fetch(context.Background(), domain.FetchRequest{Level: domain.Level(9)})

	assert.ErrorIs(t, result.Err, domain.ErrInvalidInput)
	assert.False(t, ctrl.Apply(result))
}

func TestSelectionController_Fetch_DoesNotChangeState(t *testing.T) {
	ctrl, _ := newTestController(t)
	req := ctrl.Initialize()
	before := ctrl.State()

	result := ctrl.Fetch(context.Background(), *req)

	require.NoError(t, result.Err)
	assert.Equal(t, []string{"India", "USA"}, result.Options)
	assert.Equal(t, before, ctrl.State())
}

func TestSelectionController_Load_Nil(t *testing.T) {
	ctrl, _ := newTestController(t)

	assert.False(t, ctrl.Load(context.Background(), nil))
}

func TestSelectionController_Apply_CopiesOptions(t *testing.T) {
	ctrl, _ := newTestController(t)
	req := ctrl.Initialize()
	options := []string{"India", "USA"}

	require.True(t, ctrl.Apply(domain.FetchResult{Request: *req, Options: options}))
	options[0] = "Mutated"

	assert.Equal(t, []string{"India", "USA"}, ctrl.State().Countries)
}

func TestSelectionController_State_IsSnapshot(t *testing.T) {
	ctrl, _ := newTestController(t)
	ctrl.Load(context.Background(), ctrl.Initialize())

	state := ctrl.State()
	state.Countries[0] = "Mutated"
	state.Selection.Country = "Mutated"

	assert.Equal(t, []string{"India", "USA"}, ctrl.State().Countries)
	assert.Empty(t, ctrl.State().Selection.Country)
}

func TestSelectionController_Close(t *testing.T) {
	ctrl, locations := newTestController(t)
	req := ctrl.Initialize()

	ctrl.Close()
	result := ctrl.Fetch(context.Background(), *req)

	assert.ErrorIs(t, result.Err, errStaleRequest)
	assert.False(t, ctrl.Apply(result))
	assert.Zero(t, locations.CallCount(domain.LevelCountry))
}

func TestSelectionController_RequestIDs(t *testing.T) {
	ctrl, _ := newTestController(t)
	n := 0
	ctrl.newID = func() string {
		n++
		return "req-" + strconv.Itoa(n)
	}

	first := ctrl.Initialize()
	second := ctrl.Initialize()

	assert.Equal(t, "req-1", first.ID)
	assert.Equal(t, "req-2", second.ID)
	assert.Greater(t, second.Generation, first.Generation)
}

func TestSelectionController_FullScenario(t *testing.T) {
	ctrl, _ := newTestController(t)

	selectPath(t, ctrl, "India", "Maharashtra", "Pune")

	state := ctrl.State()
	assert.Equal(t, domain.Selection{Country: "India", State: "Maharashtra", City: "Pune"}, state.Selection)
	assert.Equal(t, "You selected Pune, Maharashtra, India", state.Selection.Confirmation())
	assert.Empty(t, state.Error)
}
