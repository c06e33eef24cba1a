package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"meme-generator/models"
	"meme-generator/repository"
	"meme-generator/state"
)

type fakeCatalog struct {
	templates []models.Template
	err       error
	calls     int32
}

func (f *fakeCatalog) LoadCatalog(ctx context.Context) ([]models.Template, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	return f.templates, nil
}

func testTemplates(n int) []models.Template {
	out := make([]models.Template, n)
	for i := range out {
		out[i] = models.Template{
			ID:   fmt.Sprintf("T%d", i+1),
			Name: fmt.Sprintf("Template %d", i+1),
			URL:  fmt.Sprintf("https://i.imgflip.com/t%d.jpg", i+1),
		}
	}
	return out
}

func startSession(t *testing.T, catalog *fakeCatalog, pageSize int) (*SessionService, string) {
	t.Helper()
	svc := NewSessionService(catalog, repository.NewMemorySessionRepository(time.Hour), pageSize)
	snap, err := svc.Start(context.Background())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !snap.Loading.CatalogLoading {
		t.Fatalf("expected catalog loading right after start")
	}
	svc.Wait()
	return svc, snap.ID
}

func TestSessionPaginationScenario(t *testing.T) {
	ctx := context.Background()
	catalog := &fakeCatalog{templates: testTemplates(10)}
	svc, id := startSession(t, catalog, 4)

	snap, err := svc.Snapshot(ctx, id)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Loading.CatalogLoading || len(snap.Visible) != 4 || !snap.CanLoadMore {
		t.Fatalf("unexpected initial snapshot %+v", snap)
	}

	for _, want := range []int{8, 10, 10, 10} {
		snap, err = svc.LoadMore(ctx, id)
		if err != nil {
			t.Fatalf("load more: %v", err)
		}
		if len(snap.Visible) != want {
			t.Fatalf("expected %d visible, got %d", want, len(snap.Visible))
		}
		if snap.Loading.PaginationLoading {
			t.Fatalf("pagination flag left raised")
		}
	}
	if snap.CanLoadMore {
		t.Fatalf("expected load more control hidden")
	}
	if atomic.LoadInt32(&catalog.calls) != 1 {
		t.Fatalf("expected exactly one catalog load, got %d", catalog.calls)
	}
}

func TestSessionCatalogFailureScenario(t *testing.T) {
	catalog := &fakeCatalog{err: &FetchError{URL: "https://api.imgflip.com/get_memes", Reason: "request failed", Err: errors.New("connection refused")}}
	svc, id := startSession(t, catalog, 4)

	snap, err := svc.Snapshot(context.Background(), id)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Loading.CatalogLoading {
		t.Fatalf("expected catalog loading to end after failure")
	}
	if len(snap.Visible) != 0 || snap.Total != 0 {
		t.Fatalf("expected empty catalog, got %+v", snap)
	}
	if snap.Alert != state.CatalogAlert {
		t.Fatalf("expected alert, got %q", snap.Alert)
	}
}

func TestSessionSelectionScenario(t *testing.T) {
	ctx := context.Background()
	svc, id := startSession(t, &fakeCatalog{templates: testTemplates(4)}, 4)

	if _, err := svc.Select(ctx, id, "T1"); err != nil {
		t.Fatalf("select T1: %v", err)
	}
	if _, err := svc.SetText(ctx, id, "such caption"); err != nil {
		t.Fatalf("set text: %v", err)
	}
	snap, err := svc.OnDragComplete(ctx, id, models.Offset{X: 50, Y: 30})
	if err != nil {
		t.Fatalf("drag: %v", err)
	}
	if snap.Offset != (models.Offset{X: 50, Y: 30}) {
		t.Fatalf("expected offset committed, got %+v", snap.Offset)
	}

	snap, err = svc.Select(ctx, id, "T2")
	if err != nil {
		t.Fatalf("select T2: %v", err)
	}
	if snap.Offset != (models.Offset{}) {
		t.Fatalf("expected offset reset, got %+v", snap.Offset)
	}
	if snap.Caption != "such caption" {
		t.Fatalf("expected caption kept, got %q", snap.Caption)
	}
}

func TestSessionErrors(t *testing.T) {
	ctx := context.Background()
	svc, id := startSession(t, &fakeCatalog{templates: testTemplates(2)}, 4)

	if _, err := svc.Snapshot(ctx, "missing"); !errors.Is(err, repository.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := svc.Select(ctx, id, "T9"); !errors.Is(err, state.ErrUnknownTemplate) {
		t.Fatalf("expected ErrUnknownTemplate, got %v", err)
	}
	snap, err := svc.Snapshot(ctx, id)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Selection != nil {
		t.Fatalf("failed select must not change the selection")
	}
}

// flakyRepository fails a number of Save calls after the first one
type flakyRepository struct {
	*repository.MemorySessionRepository
	saves     int32
	failAfter int32
	failures  int32
}

func (r *flakyRepository) Save(ctx context.Context, st models.SessionState) error {
	n := atomic.AddInt32(&r.saves, 1)
	if n > r.failAfter && n <= r.failAfter+r.failures {
		return errors.New("connection reset")
	}
	return r.MemorySessionRepository.Save(ctx, st)
}

func TestSessionCatalogStoreRetried(t *testing.T) {
	repo := &flakyRepository{
		MemorySessionRepository: repository.NewMemorySessionRepository(time.Hour),
		failAfter:               1,
		failures:                1,
	}
	svc := NewSessionService(&fakeCatalog{templates: testTemplates(5)}, repo, 4)
	svc.retryDelay = 0

	snap, err := svc.Start(context.Background())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	svc.Wait()

	snap, err = svc.Snapshot(context.Background(), snap.ID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Loading.CatalogLoading || len(snap.Visible) != 4 {
		t.Fatalf("expected catalog stored after a failed write, got %+v", snap)
	}
}
