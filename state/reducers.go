package state

import (
	"errors"
	"time"

	"meme-generator/models"
)

// CatalogAlert is shown to the user when the catalog cannot be loaded
const CatalogAlert = "Failed to load memes. Please try again later."

// ErrUnknownTemplate is returned when selecting a template that is not visible in the carousel
var ErrUnknownTemplate = errors.New("template not found in catalog")

// now is swapped in tests
var now = time.Now

// NewSession returns the initial state of a session whose catalog load is about to start
func NewSession(id string, pageSize int) models.SessionState {
	return models.SessionState{
		ID:        id,
		PageSize:  pageSize,
		Caption:   models.DefaultCaption,
		Loading:   models.LoadingFlags{CatalogLoading: true},
		UpdatedAt: now(),
	}
}

// CatalogLoaded stores the fetched catalog in the order received and shows the first page.
// The catalog is only set once; later calls leave the state unchanged.
func CatalogLoaded(s models.SessionState, templates []models.Template) models.SessionState {
	s.Loading.CatalogLoading = false
	if len(s.Catalog.All) > 0 {
		return s
	}
	all := make([]models.Template, len(templates))
	copy(all, templates)
	s.Catalog = models.CatalogState{All: all}
	s.Catalog.VisibleCount = grow(0, s.PageSize, len(all))
	s.Alert = ""
	s.UpdatedAt = now()
	return s
}

// CatalogFailed ends the catalog load with an empty catalog and a user-visible alert
func CatalogFailed(s models.SessionState, err error) models.SessionState {
	s.Loading.CatalogLoading = false
	if len(s.Catalog.All) > 0 {
		return s
	}
	s.Catalog = models.CatalogState{}
	s.Alert = CatalogAlert
	s.UpdatedAt = now()
	return s
}

// BeginLoadMore raises the pagination loading flag
func BeginLoadMore(s models.SessionState) models.SessionState {
	s.Loading.PaginationLoading = true
	return s
}

// EndLoadMore clears the pagination loading flag
func EndLoadMore(s models.SessionState) models.SessionState {
	s.Loading.PaginationLoading = false
	return s
}

// LoadMore reveals the next page of the catalog.
// Once the whole catalog is visible it is a no-op.
func LoadMore(s models.SessionState) models.SessionState {
	s = BeginLoadMore(s)
	next := grow(s.Catalog.VisibleCount, s.PageSize, len(s.Catalog.All))
	if next != s.Catalog.VisibleCount {
		s.Catalog.VisibleCount = next
		s.UpdatedAt = now()
	}
	return EndLoadMore(s)
}

// grow returns min(current+pageSize, total), never shrinking below current
func grow(current, pageSize, total int) int {
	if pageSize <= 0 {
		return current
	}
	next := current + pageSize
	if next > total {
		next = total
	}
	if next < current {
		return current
	}
	return next
}

// Visible returns a copy of the visible prefix of the catalog
func Visible(s models.SessionState) []models.Template {
	n := s.Catalog.VisibleCount
	if n > len(s.Catalog.All) {
		n = len(s.Catalog.All)
	}
	out := make([]models.Template, n)
	copy(out, s.Catalog.All[:n])
	return out
}

// CanLoadMore reports whether the "Load More" control should be shown
func CanLoadMore(s models.SessionState) bool {
	return s.Catalog.VisibleCount < len(s.Catalog.All)
}

// Select picks a template from the visible part of the catalog for editing.
// The caption offset goes back to the origin; the caption text is kept.
func Select(s models.SessionState, id string) (models.SessionState, error) {
	for _, t := range Visible(s) {
		if t.ID == id {
			selected := t
			s.Selection = &selected
			s.Offset = models.Offset{}
			s.UpdatedAt = now()
			return s, nil
		}
	}
	return s, ErrUnknownTemplate
}

// SetText replaces the caption text
func SetText(s models.SessionState, text string) models.SessionState {
	s.Caption = text
	s.UpdatedAt = now()
	return s
}

// SetOffset replaces the caption offset with the resting position of a finished drag
func SetOffset(s models.SessionState, offset models.Offset) models.SessionState {
	s.Offset = offset
	s.UpdatedAt = now()
	return s
}

// Snapshot builds the client view of a session
func Snapshot(s models.SessionState) models.SessionSnapshot {
	var selection *models.Template
	if s.Selection != nil {
		t := *s.Selection
		selection = &t
	}
	return models.SessionSnapshot{
		ID:          s.ID,
		Visible:     Visible(s),
		Total:       len(s.Catalog.All),
		CanLoadMore: CanLoadMore(s),
		Selection:   selection,
		Caption:     s.Caption,
		Offset:      s.Offset,
		Loading:     s.Loading,
		Alert:       s.Alert,
	}
}
