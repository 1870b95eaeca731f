package postgres

import (
	"context"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"

	"hobbyshop/internal/core/apperror"
	"hobbyshop/internal/core/idempotency"
)

// Compile-time check that IdempotencyStore implements idempotency.Store interface.
var _ idempotency.Store = (*IdempotencyStore)(nil)

// staleAfter is how long a pending key may sit before another request reclaims it.
const staleAfter = time.Minute

// IdempotencyRecord is a row of sys_idempotency.
type IdempotencyRecord struct {
	Key         string             `db:"idempotency_key"`
	Operation   string             `db:"operation"`
	Status      idempotency.Status `db:"status"`
	RequestHash string             `db:"request_hash"`
	Response    []byte             `db:"response"`
	StatusCode  int                `db:"response_status"`
	ContentType string             `db:"response_content_type"`
	Inserted    bool               `db:"inserted"`
	UpdatedAt   time.Time          `db:"updated_at"`
}

// IdempotencyStore keeps idempotency keys in sys_idempotency.
type IdempotencyStore struct {
	txManager *TxManager
	ttl       time.Duration
}

// NewIdempotencyStore creates a new idempotency store.
func NewIdempotencyStore(txManager *TxManager, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{txManager: txManager, ttl: ttl}
}

// Acquire claims a key or returns its recorded response.
func (s *IdempotencyStore) Acquire(ctx context.Context, req idempotency.Request) (*idempotency.Replay, error) {
	now := time.Now().UTC()

	// xmax = 0 only on the row version this statement inserted.
	var record IdempotencyRecord
	err := pgxscan.Get(ctx, s.txManager.GetQuerier(ctx), &record, `
		INSERT INTO sys_idempotency (idempotency_key, operation, status, request_hash, created_at, updated_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $5, $6)
		ON CONFLICT (idempotency_key) DO UPDATE SET
			expires_at = GREATEST(sys_idempotency.expires_at, EXCLUDED.expires_at)
		RETURNING idempotency_key, operation, status, request_hash,
		          COALESCE(response, ''::bytea) AS response,
		          COALESCE(response_status, 0) AS response_status,
		          COALESCE(response_content_type, '') AS response_content_type,
		          (xmax = 0) AS inserted, updated_at
	`, req.Key, req.Operation, idempotency.StatusPending, req.RequestHash, now, now.Add(s.ttl))
	if err != nil {
		return nil, Classify("acquire idempotency key", err)
	}

	if record.Inserted {
		return nil, nil
	}

	if record.Operation != req.Operation || record.RequestHash != req.RequestHash {
		return nil, apperror.NewIdempotencyMismatch(req.Key).
			WithDetail("stored_operation", record.Operation).
			WithDetail("request_operation", req.Operation)
	}

	switch record.Status {
	case idempotency.StatusSuccess, idempotency.StatusFailed:
		replay := idempotency.NormalizeReplay(idempotency.Replay{
			StatusCode:  record.StatusCode,
			ContentType: record.ContentType,
			Body:        record.Response,
		})
		return &replay, nil
	}

	if time.Since(record.UpdatedAt) <= staleAfter {
		return nil, apperror.NewIdempotencyConflict(req.Key)
	}

	// The request that claimed the key most likely died; take it over.
	tag, err := s.txManager.GetQuerier(ctx).Exec(ctx, `
		UPDATE sys_idempotency SET updated_at = $1
		WHERE idempotency_key = $2 AND status = $3 AND updated_at = $4
	`, now, req.Key, idempotency.StatusPending, record.UpdatedAt)
	if err != nil {
		return nil, Classify("reclaim stale key", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperror.NewIdempotencyConflict(req.Key)
	}
	return nil, nil
}

// Complete records a successful response.
func (s *IdempotencyStore) Complete(ctx context.Context, key string, resp idempotency.Replay) error {
	return s.finish(ctx, key, idempotency.StatusSuccess, resp)
}

// Fail records a failed response.
func (s *IdempotencyStore) Fail(ctx context.Context, key string, resp idempotency.Replay) error {
	return s.finish(ctx, key, idempotency.StatusFailed, resp)
}

func (s *IdempotencyStore) finish(ctx context.Context, key string, status idempotency.Status, resp idempotency.Replay) error {
	_, err := s.txManager.GetQuerier(ctx).Exec(ctx, `
		UPDATE sys_idempotency
		SET status = $1,
		    response = $2,
		    response_status = $3,
		    response_content_type = $4,
		    updated_at = $5
		WHERE idempotency_key = $6
	`, status, resp.Body, resp.StatusCode, resp.ContentType, time.Now().UTC(), key)
	if err != nil {
		return Classify("finish idempotency key", err)
	}
	return nil
}

// CleanupExpired removes expired idempotency records.
func (s *IdempotencyStore) CleanupExpired(ctx context.Context) (int64, error) {
	result, err := s.txManager.GetQuerier(ctx).Exec(ctx, `
		DELETE FROM sys_idempotency WHERE expires_at < $1
	`, time.Now().UTC())
	if err != nil {
		return 0, Classify("cleanup idempotency keys", err)
	}
	return result.RowsAffected(), nil
}
