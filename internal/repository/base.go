// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"time"

	"flymagine/internal/middleware"
	"flymagine/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// Store wraps the gorm handle with the store boundary policy shared by every repository:
// a per-call deadline and optional transactional lifecycle operations.
type Store struct {
	db      *gorm.DB
	timeout time.Duration
	atomic  bool
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithQueryTimeout bounds every store call. Zero disables the deadline.
func WithQueryTimeout(d time.Duration) StoreOption {
	return func(s *Store) { s.timeout = d }
}

// WithAtomicLifecycle controls whether look-up and write steps share one transaction.
func WithAtomicLifecycle(atomic bool) StoreOption {
	return func(s *Store) { s.atomic = atomic }
}

// NewStore creates a Store. Lifecycle operations are atomic unless configured otherwise.
func NewStore(db *gorm.DB, opts ...StoreOption) *Store {
	s := &Store{db: db, atomic: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DB returns the underlying handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) conn(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	if s.timeout > 0 {
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		return s.db.WithContext(ctx), cancel
	}
	return s.db.WithContext(ctx), func() {}
}

// lifecycle runs a read-then-write sequence, inside a transaction when atomic.
func (s *Store) lifecycle(ctx context.Context, fn func(tx *gorm.DB) error) error {
	db, cancel := s.conn(ctx)
	defer cancel()

	if s.atomic {
		return db.Transaction(fn)
	}
	return fn(db)
}

// lockRows reports whether row locks can be taken for lookups inside a lifecycle.
func (s *Store) lockRows() bool {
	return s.atomic && s.db.Dialector.Name() == "postgres"
}

// storeError maps a gorm or driver error to an AppError. Raw driver messages stay in the wrapped cause.
func storeError(err error, resource string, id any) error {
	if err == nil {
		return nil
	}

	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var mapped *models.AppError
	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		mapped = models.NewNotFoundError(resource, id)
	case errors.Is(err, gorm.ErrDuplicatedKey),
		errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation:
		mapped = models.NewConflictError(resource + " already exists")
		mapped.Err = err
	case errors.Is(err, context.DeadlineExceeded):
		mapped = models.NewTimeoutError(err)
	default:
		mapped = models.NewInternalError(err)
	}

	middleware.StoreErrors.WithLabelValues(mapped.Code).Inc()
	return mapped
}

// activePost fails with NotFound unless the post exists, is not soft-deleted and has an active author.
func activePost(db *gorm.DB, postID uint) error {
	var count int64
	err := db.Model(&models.Post{}).
		Scopes(activeAuthor).
		Where("posts.id = ?", postID).
		Count(&count).Error
	if err != nil {
		return storeError(err, "Post", postID)
	}
	if count == 0 {
		return models.NewNotFoundError("Post", postID)
	}
	return nil
}

// activeAuthor restricts a posts query to authors that are not soft-deleted.
func activeAuthor(db *gorm.DB) *gorm.DB {
	return db.Joins("JOIN users ON users.id = posts.user_id AND users.deleted_at IS NULL")
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
