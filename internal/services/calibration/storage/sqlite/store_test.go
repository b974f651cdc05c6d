package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/llzcal/internal/services/calibration/storage"
)

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(""); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestCreateGetSessionRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.March, 3, 9, 30, 0, 0, time.UTC)
	input := storage.Session{
		ID:        "s-1",
		Station:   "VOBL",
		State:     []byte(`{"version":1}`),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := store.CreateSession(context.Background(), input); err != nil {
		t.Fatalf("create session: %v", err)
	}

	got, err := store.GetSession(context.Background(), "s-1")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.Station != "VOBL" || string(got.State) != `{"version":1}` {
		t.Fatalf("unexpected session %+v", got)
	}
	if got.Revision != 1 {
		t.Fatalf("revision = %d, want 1", got.Revision)
	}
	if !got.CreatedAt.Equal(now) || !got.UpdatedAt.Equal(now) {
		t.Fatalf("timestamps = %v/%v, want %v", got.CreatedAt, got.UpdatedAt, now)
	}
}

func TestCreateSessionReturnsAlreadyExistsOnDuplicate(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	input := storage.Session{ID: "s-dup", State: []byte(`{}`)}
	if err := store.CreateSession(context.Background(), input); err != nil {
		t.Fatalf("create initial session: %v", err)
	}
	err := store.CreateSession(context.Background(), input)
	if !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("duplicate create error = %v, want %v", err, storage.ErrAlreadyExists)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	if _, err := store.GetSession(context.Background(), "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveSessionBumpsRevision(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	created := time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)
	if err := store.CreateSession(context.Background(), storage.Session{ID: "s-1", State: []byte(`{"a":1}`), CreatedAt: created}); err != nil {
		t.Fatalf("create: %v", err)
	}

	later := created.Add(time.Minute)
	saved, err := store.SaveSession(context.Background(), storage.Session{ID: "s-1", Station: "VOMM", State: []byte(`{"a":2}`), Revision: 1, UpdatedAt: later})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.Revision != 2 || string(saved.State) != `{"a":2}` || saved.Station != "VOMM" {
		t.Fatalf("unexpected saved session %+v", saved)
	}
	if !saved.CreatedAt.Equal(created) || !saved.UpdatedAt.Equal(later) {
		t.Fatalf("timestamps = %v/%v", saved.CreatedAt, saved.UpdatedAt)
	}

	_, err = store.SaveSession(context.Background(), storage.Session{ID: "s-1", State: []byte(`{"a":3}`), Revision: 1})
	if !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("stale save error = %v, want %v", err, storage.ErrConflict)
	}

	_, err = store.SaveSession(context.Background(), storage.Session{ID: "missing", State: []byte(`{}`), Revision: 1})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("missing save error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestDeleteSession(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	if err := store.CreateSession(context.Background(), storage.Session{ID: "s-1", State: []byte(`{}`)}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.DeleteSession(context.Background(), "s-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.DeleteSession(context.Background(), "s-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("second delete error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestListSessionsPaginates(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	for i := 1; i <= 5; i++ {
		session := storage.Session{ID: fmt.Sprintf("s-%02d", i), State: []byte(`{}`)}
		if err := store.CreateSession(context.Background(), session); err != nil {
			t.Fatalf("create %s: %v", session.ID, err)
		}
	}

	first, err := store.ListSessions(context.Background(), 2, "")
	if err != nil {
		t.Fatalf("list first page: %v", err)
	}
	if len(first.Sessions) != 2 || first.Sessions[0].ID != "s-01" || first.NextPageToken != "s-02" {
		t.Fatalf("unexpected first page %+v", first)
	}

	var ids []string
	token := ""
	for {
		page, err := store.ListSessions(context.Background(), 2, token)
		if err != nil {
			t.Fatalf("list page: %v", err)
		}
		for _, s := range page.Sessions {
			ids = append(ids, s.ID)
		}
		if page.NextPageToken == "" {
			break
		}
		token = page.NextPageToken
	}
	if len(ids) != 5 || ids[4] != "s-05" {
		t.Fatalf("unexpected ids %v", ids)
	}

	if _, err := store.ListSessions(context.Background(), 0, ""); err == nil {
		t.Fatal("expected page size error")
	}
}

func TestStoreRejectsCanceledContext(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.GetSession(ctx, "s-1"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}

func openTempStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "calibration.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}
