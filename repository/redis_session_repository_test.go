package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"meme-generator/models"

	"github.com/alicebob/miniredis/v2"
)

func newTestRedisRepository(t *testing.T, ttl time.Duration) (*RedisSessionRepository, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	repo, err := NewRedisSessionRepository(context.Background(), "redis://"+server.Addr(), ttl)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo, server
}

func TestRedisSessionRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, server := newTestRedisRepository(t, time.Minute)

	selected := models.Template{ID: "61579", Name: "One Does Not Simply", URL: "https://i.imgflip.com/1bij.jpg"}
	want := models.SessionState{
		ID:        "s1",
		PageSize:  4,
		Catalog:   models.CatalogState{All: []models.Template{selected}, VisibleCount: 1},
		Selection: &selected,
		Caption:   "hello",
		Offset:    models.Offset{X: 20, Y: -10},
	}
	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !server.Exists("meme:session:s1") {
		t.Fatalf("expected key meme:session:s1")
	}

	got, err := repo.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Selection == nil || *got.Selection != selected || got.Offset != want.Offset || got.Catalog.VisibleCount != 1 {
		t.Fatalf("unexpected state %+v", got)
	}

	if err := repo.Delete(ctx, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, "s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestRedisSessionRepositoryTTL(t *testing.T) {
	ctx := context.Background()
	repo, server := newTestRedisRepository(t, time.Minute)

	if err := repo.Save(ctx, models.SessionState{ID: "s1"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	server.FastForward(2 * time.Minute)
	if _, err := repo.Get(ctx, "s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected session expired, got %v", err)
	}
}
