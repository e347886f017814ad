// internal/history/history_test.go
package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open err=%v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLast_EmptyJournal(t *testing.T) {
	s := openTemp(t)

	_, found, err := s.Last(context.Background())
	if err != nil {
		t.Fatalf("Last err=%v", err)
	}
	if found {
		t.Fatalf("found entry in empty journal")
	}
}

func TestRecord_RoundTrip(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	want := Entry{
		At:          time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC),
		Trigger:     "change",
		Fingerprint: 0xDEADBEEF12345678,
		OK:          true,
	}
	if err := s.Record(ctx, want); err != nil {
		t.Fatalf("Record err=%v", err)
	}

	got, found, err := s.Last(ctx)
	if err != nil {
		t.Fatalf("Last err=%v", err)
	}
	if !found {
		t.Fatalf("entry not found after Record")
	}
	if !got.At.Equal(want.At) {
		t.Errorf("At = %v, want %v", got.At, want.At)
	}
	if got.Trigger != want.Trigger {
		t.Errorf("Trigger = %q, want %q", got.Trigger, want.Trigger)
	}
	if got.Fingerprint != want.Fingerprint {
		t.Errorf("Fingerprint = %016x, want %016x", got.Fingerprint, want.Fingerprint)
	}
	if !got.OK {
		t.Errorf("OK = false, want true")
	}
}

func TestRecent_NewestFirst(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		e := Entry{
			At:          base.Add(time.Duration(i) * time.Minute),
			Trigger:     "stale",
			Fingerprint: uint64(i),
			OK:          i%2 == 0,
		}
		if err := s.Record(ctx, e); err != nil {
			t.Fatalf("Record %d err=%v", i, err)
		}
	}

	got, err := s.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Recent err=%v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, e := range got {
		wantFP := uint64(4 - i)
		if e.Fingerprint != wantFP {
			t.Errorf("entry %d fingerprint = %d, want %d", i, e.Fingerprint, wantFP)
		}
	}
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open err=%v", err)
	}
	if err := s.Record(ctx, Entry{At: time.Now(), Trigger: "change", OK: true}); err != nil {
		t.Fatalf("Record err=%v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close err=%v", err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen err=%v", err)
	}
	defer s2.Close()

	_, found, err := s2.Last(ctx)
	if err != nil {
		t.Fatalf("Last err=%v", err)
	}
	if !found {
		t.Fatalf("journal lost entry across reopen")
	}
}
