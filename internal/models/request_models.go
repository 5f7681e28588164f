package models

// CreateRequest is the body of a generic create. ID wins over Name; a Name is
// normalized into the id for entities that derive ids from names.
type CreateRequest struct {
	ID   string         `json:"id,omitempty"`
	Name string         `json:"name,omitempty"`
	Data map[string]any `json:"data" binding:"required"`
}

// UpdateRequest is the body of a generic partial update.
type UpdateRequest struct {
	Data map[string]any `json:"data" binding:"required"`
}

// RejectRequest carries the optional reason of a rejection.
type RejectRequest struct {
	Reason string `json:"reason,omitempty"`
}

// PriorityRequest sets a banner priority.
type PriorityRequest struct {
	Priority *int `json:"priority" binding:"required"`
}

// ToolTranslationRequest is the body of a tool translation write. Fields is
// normalized into {text, status} entries before it is stored.
type ToolTranslationRequest struct {
	Fields map[string]any `json:"fields,omitempty"`
	Data   map[string]any `json:"data,omitempty"`
}

// ClearCacheRequest names the caches to clear; empty clears all of them.
type ClearCacheRequest struct {
	Names []string `json:"names,omitempty"`
}
