// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"hobbyshop/internal/core/entity"
	"hobbyshop/internal/core/id"
)

// --- ID Response ---

// IDResponse for create operations.
type IDResponse struct {
	ID id.ID `json:"id"`
}

// --- Success Response ---

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// --- Error Response ---

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// --- Reference ---

// ReferenceResponse is one row of a lookup table.
type ReferenceResponse struct {
	ID   id.ID  `json:"id"`
	Name string `json:"name"`
}

// FromReferences maps lookup rows to responses.
func FromReferences(rows []entity.Reference) []ReferenceResponse {
	out := make([]ReferenceResponse, len(rows))
	for i, r := range rows {
		out[i] = ReferenceResponse{ID: r.ID, Name: r.Name}
	}
	return out
}
