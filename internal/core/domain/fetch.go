package domain

// FetchRequest describes one outbound option-list fetch.
// It is issued by the selection controller and handed back to it for execution.
type FetchRequest struct {
	// ID correlates log lines for a single request.
	ID string

	// Level is the option list being fetched.
	Level Level

	// Key holds the ancestor selections the fetch is scoped to.
	Key SelectionKey

	// Generation identifies the issue of this level the request belongs to.
	// A result whose generation is no longer current is stale.
	Generation uint64
}

// FetchResult is the outcome of executing a FetchRequest.
type FetchResult struct {
	Request FetchRequest
	Options []string
	Err     error
}

// Failed returns true if the fetch did not succeed.
func (r FetchResult) Failed() bool {
	return r.Err != nil
}
