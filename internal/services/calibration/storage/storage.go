// Package storage defines persistence contracts for calibration sessions.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a requested session record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a session with the same ID already exists.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrConflict indicates a save raced another save of the same session.
	ErrConflict = errors.New("record was modified concurrently")
)

// Session stores the serialized reading store of one calibration session.
type Session struct {
	ID      string
	Station string
	// State is the store JSON document (version, meta, values, current).
	State []byte
	// Revision increments on every save.
	Revision  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionPage stores one page of sessions ordered by ID.
type SessionPage struct {
	Sessions      []Session
	NextPageToken string
}

// SessionStore persists calibration sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, session Session) error
	GetSession(ctx context.Context, id string) (Session, error)
	// SaveSession replaces the state of an existing session. It fails with
	// ErrConflict when session.Revision is not the stored revision.
	SaveSession(ctx context.Context, session Session) (Session, error)
	DeleteSession(ctx context.Context, id string) error
	ListSessions(ctx context.Context, pageSize int, pageToken string) (SessionPage, error)
}
