package api

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse is the body of writes and other actions.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ListResponse wraps a collection read.
type ListResponse struct {
	Items any `json:"items"`
	Count int `json:"count"`
}

// CacheClearResponse reports which caches a clear touched.
type CacheClearResponse struct {
	Cleared []string `json:"cleared"`
	Unknown []string `json:"unknown,omitempty"`
}

// StoreStatus describes the document store connection.
type StoreStatus struct {
	Backend   string `json:"backend"`
	Source    string `json:"source,omitempty"`
	Connected bool   `json:"connected"`
}
