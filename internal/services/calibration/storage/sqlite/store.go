// Package sqlite provides a SQLite-backed calibration session store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/llzcal/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/llzcal/internal/platform/timeouts"
	"github.com/louisbranch/llzcal/internal/services/calibration/storage"
	"github.com/louisbranch/llzcal/internal/services/calibration/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists calibration sessions in SQLite.
type Store struct {
	sqlDB *sql.DB
	clock func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite session store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=%d&_synchronous=NORMAL",
		cleanPath, timeouts.SQLiteBusy.Milliseconds())
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, clock: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// CreateSession inserts a new session at revision 1.
func (s *Store) CreateSession(ctx context.Context, session storage.Session) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	id := strings.TrimSpace(session.ID)
	if id == "" {
		return fmt.Errorf("session id is required")
	}
	if len(session.State) == 0 {
		return fmt.Errorf("session state is required")
	}
	createdAt := session.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = s.clock().UTC()
	}
	updatedAt := session.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO calibration_sessions (id, station, state, revision, created_at, updated_at)
		 VALUES (?, ?, ?, 1, ?, ?)`,
		id,
		strings.TrimSpace(session.Station),
		string(session.State),
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		if isSessionUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// GetSession returns one session by ID.
func (s *Store) GetSession(ctx context.Context, id string) (storage.Session, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Session{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.Session{}, fmt.Errorf("session id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, station, state, revision, created_at, updated_at
		   FROM calibration_sessions
		  WHERE id = ?`,
		id,
	)
	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Session{}, storage.ErrNotFound
		}
		return storage.Session{}, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

// SaveSession writes session.State if the stored revision still matches
// session.Revision and returns the saved record.
func (s *Store) SaveSession(ctx context.Context, session storage.Session) (storage.Session, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Session{}, err
	}
	id := strings.TrimSpace(session.ID)
	if id == "" {
		return storage.Session{}, fmt.Errorf("session id is required")
	}
	if len(session.State) == 0 {
		return storage.Session{}, fmt.Errorf("session state is required")
	}
	updatedAt := session.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = s.clock().UTC()
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE calibration_sessions
		    SET station = ?, state = ?, revision = revision + 1, updated_at = ?
		  WHERE id = ? AND revision = ?`,
		strings.TrimSpace(session.Station),
		string(session.State),
		toMillis(updatedAt),
		id,
		session.Revision,
	)
	if err != nil {
		return storage.Session{}, fmt.Errorf("save session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return storage.Session{}, fmt.Errorf("save session: %w", err)
	}
	if affected == 0 {
		if _, err := s.GetSession(ctx, id); err != nil {
			return storage.Session{}, err
		}
		return storage.Session{}, storage.ErrConflict
	}
	return s.GetSession(ctx, id)
}

// DeleteSession removes one session.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("session id is required")
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM calibration_sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListSessions returns one page of sessions ordered by ID, which is creation
// order for generated IDs.
func (s *Store) ListSessions(ctx context.Context, pageSize int, pageToken string) (storage.SessionPage, error) {
	if err := s.ready(ctx); err != nil {
		return storage.SessionPage{}, err
	}
	if pageSize <= 0 {
		return storage.SessionPage{}, fmt.Errorf("page size must be greater than zero")
	}
	pageToken = strings.TrimSpace(pageToken)

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, station, state, revision, created_at, updated_at
		   FROM calibration_sessions
		  WHERE id > ?
		  ORDER BY id ASC
		  LIMIT ?`,
		pageToken,
		pageSize+1,
	)
	if err != nil {
		return storage.SessionPage{}, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	page := storage.SessionPage{
		Sessions: make([]storage.Session, 0, pageSize),
	}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return storage.SessionPage{}, fmt.Errorf("list sessions: %w", err)
		}
		page.Sessions = append(page.Sessions, session)
	}
	if err := rows.Err(); err != nil {
		return storage.SessionPage{}, fmt.Errorf("list sessions: %w", err)
	}
	if len(page.Sessions) > pageSize {
		page.NextPageToken = page.Sessions[pageSize-1].ID
		page.Sessions = page.Sessions[:pageSize]
	}
	return page, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (storage.Session, error) {
	var (
		session   storage.Session
		state     string
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(&session.ID, &session.Station, &state, &session.Revision, &createdAt, &updatedAt); err != nil {
		return storage.Session{}, err
	}
	session.State = []byte(state)
	session.CreatedAt = fromMillis(createdAt)
	session.UpdatedAt = fromMillis(updatedAt)
	return session, nil
}

func isSessionUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") &&
		strings.Contains(message, "calibration_sessions.id")
}

var _ storage.SessionStore = (*Store)(nil)
