package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/locselect/internal/core/domain"
)

// recorder captures the requests a test server receives.
type recorder struct {
	mu       sync.Mutex
	paths    []string
	rawPaths []string
	accept   string
}

func (r *recorder) record(req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, req.URL.Path)
	r.rawPaths = append(r.rawPaths, req.URL.EscapedPath())
	r.accept = req.Header.Get("Accept")
}

func (r *recorder) lastPath() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.paths) == 0 {
		return ""
	}
	return r.paths[len(r.paths)-1]
}

func (r *recorder) lastRawPath() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.rawPaths) == 0 {
		return ""
	}
	return r.rawPaths[len(r.rawPaths)-1]
}

// newTestServer serves body with status for every request.
func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *recorder) {
	t.Helper()
	rec := &recorder{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, rec
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Config{})

	assert.Equal(t, domain.DefaultServiceBaseURL, c.BaseURL())
	assert.Equal(t, domain.DefaultServiceTimeout, c.client.Timeout)
	assert.False(t, c.escapePath)
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://localhost:8080/api/"})

	assert.Equal(t, "http://localhost:8080/api", c.BaseURL())
}

func TestConfigFromSettings(t *testing.T) {
	cfg := ConfigFromSettings(domain.ServiceSettings{
		BaseURL:           "http://localhost",
		Timeout:           3 * time.Second,
		RequestsPerSecond: 2,
		Burst:             4,
		EscapePath:        true,
	})

	assert.Equal(t, Config{
		BaseURL:           "http://localhost",
		Timeout:           3 * time.Second,
		RequestsPerSecond: 2,
		Burst:             4,
		EscapePath:        true,
	}, cfg)
}

func TestClient_Countries(t *testing.T) {
	server, rec := newTestServer(t, http.StatusOK, `["India","USA"]`)
	c := NewClient(Config{BaseURL: server.URL})

	names, err := c.Countries(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"India", "USA"}, names)
	assert.Equal(t, "/countries", rec.lastPath())
	assert.Equal(t, "application/json", rec.accept)
}

func TestClient_PreservesOrder(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, `["Zambia","Albania","Mexico"]`)
	c := NewClient(Config{BaseURL: server.URL})

	names, err := c.Countries(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"Zambia", "Albania", "Mexico"}, names)
}

func TestClient_States(t *testing.T) {
	server, rec := newTestServer(t, http.StatusOK, `["Maharashtra","Goa"]`)
	c := NewClient(Config{BaseURL: server.URL})

	names, err := c.States(context.Background(), "India")

	require.NoError(t, err)
	assert.Equal(t, []string{"Maharashtra", "Goa"}, names)
	assert.Equal(t, "/country=India/states", rec.lastPath())
}

func TestClient_Cities(t *testing.T) {
	server, rec := newTestServer(t, http.StatusOK, `["Mumbai","Pune"]`)
	c := NewClient(Config{BaseURL: server.URL})

	names, err := c.Cities(context.Background(), "India", "Maharashtra")

	require.NoError(t, err)
	assert.Equal(t, []string{"Mumbai", "Pune"}, names)
	assert.Equal(t, "/country=India/state=Maharashtra/cities", rec.lastPath())
}

func TestClient_BaseURLWithPath(t *testing.T) {
	server, rec := newTestServer(t, http.StatusOK, `[]`)
	c := NewClient(Config{BaseURL: server.URL + "/v1/"})

	_, err := c.States(context.Background(), "India")

	require.NoError(t, err)
	assert.Equal(t, "/v1/country=India/states", rec.lastPath())
}

func TestClient_VerbatimSubstitution(t *testing.T) {
	server, rec := newTestServer(t, http.StatusOK, `[]`)
	c := NewClient(Config{BaseURL: server.URL})

	_, err := c.States(context.Background(), "United States")
	require.NoError(t, err)
	assert.Equal(t, "/country=United States/states", rec.lastPath())

	// Reserved characters are not escaped and change the path's shape.
	_, err = c.Cities(context.Background(), "India", "Dadra/Nagar")
	require.NoError(t, err)
	assert.Equal(t, "/country=India/state=Dadra/Nagar/cities", rec.lastPath())
}

func TestClient_EscapedSubstitution(t *testing.T) {
	server, rec := newTestServer(t, http.StatusOK, `[]`)
	c := NewClient(Config{BaseURL: server.URL, EscapePath: true})

	_, err := c.Cities(context.Background(), "India", "Dadra/Nagar")

	require.NoError(t, err)
	assert.Equal(t, "/country=India/state=Dadra/Nagar/cities", rec.lastPath())
	assert.Equal(t, "/country=India/state=Dadra%2FNagar/cities", rec.lastRawPath())
}

func TestClient_Expand(t *testing.T) {
	tests := []struct {
		name     string
		escape   bool
		template string
		country  string
		state    string
		expected string
	}{
		{"states verbatim", false, statesPath, "Côte d'Ivoire", "", "/country=Côte d'Ivoire/states"},
		{"cities verbatim", false, citiesPath, "A?B", "C#D", "/country=A?B/state=C#D/cities"},
		{"states escaped", true, statesPath, "A B", "", "/country=A%20B/states"},
		{"cities escaped", true, citiesPath, "A?B", "C#D", "/country=A%3FB/state=C%23D/cities"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(Config{EscapePath: tt.escape})
			assert.Equal(t, tt.expected, c.expand(tt.template, tt.country, tt.state))
		})
	}
}

func TestClient_HTTPError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, "internal error\n"},
		{"not found", http.StatusNotFound, ""},
		{"redirect without location", http.StatusMultipleChoices, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newTestServer(t, tt.status, tt.body)
			c := NewClient(Config{BaseURL: server.URL})

			names, err := c.States(context.Background(), "India")

			assert.Nil(t, names)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrHTTPStatus)

			var httpErr *domain.HTTPError
			require.True(t, errors.As(err, &httpErr))
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, strings.TrimSpace(tt.body), httpErr.Body)
		})
	}
}

func TestClient_HTTPError_BodyTruncated(t *testing.T) {
	server, _ := newTestServer(t, http.StatusBadGateway, strings.Repeat("x", 4096))
	c := NewClient(Config{BaseURL: server.URL})

	_, err := c.Countries(context.Background())

	var httpErr *domain.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Len(t, httpErr.Body, maxErrorBodyBytes)
}

func TestClient_MalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"object", `{"countries":["India"]}`},
		{"numbers", `[1,2,3]`},
		{"mixed", `["India",1]`},
		{"truncated", `["India",`},
		{"html", `<html>oops</html>`},
		{"empty", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newTestServer(t, http.StatusOK, tt.body)
			c := NewClient(Config{BaseURL: server.URL})

			names, err := c.Countries(context.Background())

			assert.Nil(t, names)
			assert.ErrorIs(t, err, domain.ErrMalformedResponse)
		})
	}
}

func TestClient_NullAndEmptyArrays(t *testing.T) {
	for _, body := range []string{`null`, `[]`} {
		t.Run(body, func(t *testing.T) {
			server, _ := newTestServer(t, http.StatusOK, body)
			c := NewClient(Config{BaseURL: server.URL})

			names, err := c.Countries(context.Background())

			require.NoError(t, err)
			assert.NotNil(t, names)
			assert.Empty(t, names)
		})
	}
}

func TestClient_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	c := NewClient(Config{BaseURL: baseURL})

	_, err := c.Countries(context.Background())

	assert.ErrorIs(t, err, domain.ErrNetworkFailure)
	assert.NotErrorIs(t, err, domain.ErrHTTPStatus)
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	c := NewClient(Config{BaseURL: server.URL, Timeout: 50 * time.Millisecond})

	_, err := c.Countries(context.Background())

	assert.ErrorIs(t, err, domain.ErrNetworkFailure)
}

func TestClient_ContextCancelled(t *testing.T) {
	server, rec := newTestServer(t, http.StatusOK, `["India"]`)
	c := NewClient(Config{BaseURL: server.URL})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Countries(ctx)

	assert.ErrorIs(t, err, domain.ErrNetworkFailure)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rec.lastPath())
}

func TestClient_TooManyRequestsSetsBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL})
	before := time.Now()

	_, err := c.Countries(context.Background())

	var httpErr *domain.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusTooManyRequests, httpErr.StatusCode)

	retryAt := c.limiter.RetryAt()
	assert.WithinDuration(t, before.Add(30*time.Second), retryAt, 2*time.Second)

	// The next request waits out the backoff, so it gives up with the context.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Countries(ctx)
	assert.ErrorIs(t, err, domain.ErrNetworkFailure)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_Reconfigure(t *testing.T) {
	first, firstRec := newTestServer(t, http.StatusOK, `["India"]`)
	second, secondRec := newTestServer(t, http.StatusOK, `["USA"]`)
	c := NewClient(Config{BaseURL: first.URL})

	names, err := c.Countries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"India"}, names)

	c.Reconfigure(Config{BaseURL: second.URL, EscapePath: true})

	names, err = c.Countries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"USA"}, names)
	assert.Equal(t, second.URL, c.BaseURL())
	assert.True(t, c.escapePath)
	assert.Len(t, firstRec.paths, 1)
	assert.Len(t, secondRec.paths, 1)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestClient_CustomTransport(t *testing.T) {
	var gotURL string
	transport := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		gotURL = req.URL.String()
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       http.NoBody,
			Request:    req,
		}, nil
	})
	c := NewClient(Config{BaseURL: "http://locations.test", Transport: transport})

	_, err := c.States(context.Background(), "India")

	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
	assert.Equal(t, "http://locations.test/country=India/states", gotURL)
}

func TestClient_TransportError(t *testing.T) {
	transport := roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection reset")
	})
	c := NewClient(Config{BaseURL: "http://locations.test", Transport: transport})

	_, err := c.Countries(context.Background())

	assert.ErrorIs(t, err, domain.ErrNetworkFailure)
	assert.Contains(t, err.Error(), "connection reset")
}
