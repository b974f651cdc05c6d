package id

import (
	"sort"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewIDFormat(t *testing.T) {
	id, err := NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if strings.Contains(id, "=") {
		t.Fatal("expected no padding")
	}
	if len(id) != 26 {
		t.Fatalf("expected 26-character id, got %d", len(id))
	}
	for _, r := range id {
		if (r < '0' || r > '9') && (r < 'a' || r > 'v') {
			t.Fatalf("unexpected character %q in id", r)
		}
	}
}

func TestNewIDSetsUUIDVersion(t *testing.T) {
	id, err := NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	u, err := Parse(id)
	if err != nil {
		t.Fatalf("parse id: %v", err)
	}
	if u.Version() != 7 {
		t.Fatalf("expected version 7, got %d", u.Version())
	}
	if u.Variant() != uuid.RFC4122 {
		t.Fatalf("expected RFC4122 variant, got %v", u.Variant())
	}
}

func TestNewIDSortsByCreation(t *testing.T) {
	ids := make([]string, 0, 50)
	for range 50 {
		id, err := NewID()
		if err != nil {
			t.Fatalf("new id: %v", err)
		}
		ids = append(ids, id)
	}
	if !sort.StringsAreSorted(ids) {
		t.Fatalf("expected ids in creation order: %v", ids)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, value := range []string{"", "short", strings.Repeat("z", 26), strings.Repeat("0", 27)} {
		if Valid(value) {
			t.Fatalf("expected %q to be invalid", value)
		}
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	u := uuid.MustParse("01890a5d-ac96-774b-bcce-b302099a8057")
	got, err := Parse(Encode(u))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != u {
		t.Fatalf("round trip = %v, want %v", got, u)
	}
}
