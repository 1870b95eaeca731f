// Package idempotency defines the storage contract behind the
// X-Idempotency-Key header: the first request with a key runs, repeats
// replay its recorded response.
package idempotency

import (
	"context"
	"net/http"
)

// Status represents the state of a keyed operation.
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Replay is a recorded HTTP response.
type Replay struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Request identifies a keyed request.
type Request struct {
	Key         string
	Operation   string // e.g. "POST /api/v1/catalog/items"
	RequestHash string // hex SHA-256 of the body
}

// Store records keyed operations.
type Store interface {
	// Acquire claims req.Key. It returns (nil, nil) when the caller should run
	// the operation and a Replay when the key already completed. A key still
	// pending, or reused for a different request, yields apperror CodeIdempotency.
	Acquire(ctx context.Context, req Request) (*Replay, error)

	// Complete records the response of a successful operation.
	Complete(ctx context.Context, key string, resp Replay) error

	// Fail records the response of a failed operation.
	Fail(ctx context.Context, key string, resp Replay) error
}

// NormalizeReplay fills defaults for records written without status or content type.
func NormalizeReplay(r Replay) Replay {
	if r.StatusCode == 0 {
		r.StatusCode = http.StatusOK
	}
	if r.ContentType == "" {
		r.ContentType = "application/json"
	}
	return r
}
