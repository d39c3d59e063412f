package api

// Envelope is the uniform wrapper every server response arrives in.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// Page is the uniform list payload. The result array travels under the
// canonical "items" key; the legacy "list" spelling some older servers
// emitted is not accepted.
type Page[T any] struct {
	Items   []T `json:"items"`
	Total   int `json:"total"`
	Page    int `json:"page"`
	PerPage int `json:"perPage"`
}

// emptyPage is the sentinel returned when a list request comes back with
// an unsuccessful envelope: callers render "no items", not an error.
func emptyPage[T any]() Page[T] {
	return Page[T]{Items: []T{}, Total: 0, Page: 1, PerPage: 10}
}
