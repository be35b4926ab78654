package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMemoryStorePutGet(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()
	id := uuid.New()

	st := State{ID: id, Transcript: "witness statement", Report: "first draft"}
	if err := s.Put(ctx, st); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Transcript != "witness statement" || got.Report != "first draft" {
		t.Errorf("unexpected state: %+v", got)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("expected UpdatedAt to be set on Put")
	}
}

func TestMemoryStorePutReplaces(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()
	id := uuid.New()

	if err := s.Put(ctx, State{ID: id, Report: "first"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, State{ID: id, Report: "second"}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	// Replaced wholesale, not appended
	if got.Report != "second" {
		t.Errorf("expected report %q, got %q", "second", got.Report)
	}
}

func TestMemoryStoreGetUnknown(t *testing.T) {
	s := NewMemoryStore(time.Minute)

	_, err := s.Get(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()
	id := uuid.New()

	if err := s.Put(ctx, State{ID: id}); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, id); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting an unknown id is not an error
	if err := s.Delete(ctx, uuid.New()); err != nil {
		t.Errorf("unexpected error deleting unknown id: %v", err)
	}
}

func TestMemoryStoreSweepExpired(t *testing.T) {
	s := NewMemoryStore(10 * time.Millisecond)
	ctx := context.Background()
	id := uuid.New()

	if err := s.Put(ctx, State{ID: id}); err != nil {
		t.Fatal(err)
	}
	time.Sleep(20 * time.Millisecond)

	if removed := s.Sweep(); removed != 1 {
		t.Errorf("expected 1 expired session removed, got %d", removed)
	}
	if _, err := s.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for expired session, got %v", err)
	}
}

func TestMemoryStoreZeroTTLNeverExpires(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()
	id := uuid.New()

	if err := s.Put(ctx, State{ID: id}); err != nil {
		t.Fatal(err)
	}
	if removed := s.Sweep(); removed != 0 {
		t.Errorf("expected no sweeps with zero TTL, got %d", removed)
	}
	if _, err := s.Get(ctx, id); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
