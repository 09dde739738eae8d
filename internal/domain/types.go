package domain

// Page is the list envelope returned by every data-fetcher.
// PageCount is ceil(Total / perPage) and 0 when nothing matches.
type Page[T any] struct {
	Data      []T `json:"data"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

// Option is one entry of a lookup list used by comboboxes and facet filters.
type Option struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// MutationResult is what a successful mutation action hands back to the caller.
type MutationResult struct {
	Message string   `json:"message"`
	Path    string   `json:"path"`
	IDs     []string `json:"ids,omitempty"`
	Count   int      `json:"count"`
}

// RequestContext carries authenticated user info when available.
type RequestContext struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}
