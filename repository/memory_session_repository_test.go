package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"meme-generator/models"
)

func TestMemorySessionRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepository(time.Minute)

	want := models.SessionState{ID: "s1", Caption: "hello", Offset: models.Offset{X: 3, Y: 4}}
	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := repo.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Caption != "hello" || got.Offset != want.Offset {
		t.Fatalf("unexpected state %+v", got)
	}

	if err := repo.Delete(ctx, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, "s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
	}
}

func TestMemorySessionRepositoryExpiry(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := NewMemorySessionRepository(10 * time.Minute)
	repo.now = func() time.Time { return clock }

	if err := repo.Save(ctx, models.SessionState{ID: "s1"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	clock = clock.Add(9 * time.Minute)
	if _, err := repo.Get(ctx, "s1"); err != nil {
		t.Fatalf("expected session alive before ttl, got %v", err)
	}

	clock = clock.Add(time.Minute)
	if _, err := repo.Get(ctx, "s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected session expired, got %v", err)
	}

	if err := repo.Save(ctx, models.SessionState{ID: "s2"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, ok := repo.sessions["s1"]; ok {
		t.Fatalf("expected expired session swept on save")
	}
}
