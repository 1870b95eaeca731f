package memory

import (
	"context"
	"sync"
	"time"

	"hobbyshop/internal/core/apperror"
	"hobbyshop/internal/core/idempotency"
)

// Compile-time check that IdempotencyStore implements idempotency.Store interface.
var _ idempotency.Store = (*IdempotencyStore)(nil)

type idempotencyRecord struct {
	req       idempotency.Request
	status    idempotency.Status
	replay    idempotency.Replay
	expiresAt time.Time
}

// IdempotencyStore keeps idempotency keys in process memory.
type IdempotencyStore struct {
	mu      sync.Mutex
	records map[string]*idempotencyRecord
	ttl     time.Duration
	now     func() time.Time
}

// NewIdempotencyStore creates an idempotency store whose keys live for ttl.
func NewIdempotencyStore(ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{
		records: make(map[string]*idempotencyRecord),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Acquire claims a key or returns its recorded response.
func (s *IdempotencyStore) Acquire(_ context.Context, req idempotency.Request) (*idempotency.Replay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	rec, ok := s.records[req.Key]
	if !ok || now.After(rec.expiresAt) {
		s.records[req.Key] = &idempotencyRecord{
			req:       req,
			status:    idempotency.StatusPending,
			expiresAt: now.Add(s.ttl),
		}
		return nil, nil
	}

	if rec.req.Operation != req.Operation || rec.req.RequestHash != req.RequestHash {
		return nil, apperror.NewIdempotencyMismatch(req.Key).
			WithDetail("stored_operation", rec.req.Operation).
			WithDetail("request_operation", req.Operation)
	}
	if rec.status == idempotency.StatusPending {
		return nil, apperror.NewIdempotencyConflict(req.Key)
	}

	replay := idempotency.NormalizeReplay(rec.replay)
	replay.Body = append([]byte(nil), rec.replay.Body...)
	return &replay, nil
}

// Complete records a successful response.
func (s *IdempotencyStore) Complete(_ context.Context, key string, resp idempotency.Replay) error {
	s.finish(key, idempotency.StatusSuccess, resp)
	return nil
}

// Fail records a failed response.
func (s *IdempotencyStore) Fail(_ context.Context, key string, resp idempotency.Replay) error {
	s.finish(key, idempotency.StatusFailed, resp)
	return nil
}

func (s *IdempotencyStore) finish(key string, status idempotency.Status, resp idempotency.Replay) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		return
	}
	rec.status = status
	rec.replay = idempotency.Replay{
		StatusCode:  resp.StatusCode,
		ContentType: resp.ContentType,
		Body:        append([]byte(nil), resp.Body...),
	}
}
