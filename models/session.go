package models

import "time"

// DefaultCaption is the caption shown before the user types anything
const DefaultCaption = "Add Your Text"

// Offset is the caption displacement in pixels from the composition's top-left corner
type Offset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LoadingFlags drives the loading indicators of the carousel
type LoadingFlags struct {
	CatalogLoading    bool `json:"catalogLoading"`
	PaginationLoading bool `json:"paginationLoading"`
}

// SessionState is the whole editor state of one user session
type SessionState struct {
	ID        string       `json:"id"`
	PageSize  int          `json:"pageSize"`
	Catalog   CatalogState `json:"catalog"`
	Selection *Template    `json:"selection,omitempty"`
	Caption   string       `json:"caption"`
	Offset    Offset       `json:"offset"`
	Loading   LoadingFlags `json:"loading"`
	Alert     string       `json:"alert,omitempty"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// SessionSnapshot is the read-only view of a session returned to clients
type SessionSnapshot struct {
	ID          string       `json:"id"`
	Visible     []Template   `json:"visible"`
	Total       int          `json:"total"`
	CanLoadMore bool         `json:"canLoadMore"`
	Selection   *Template    `json:"selection,omitempty"`
	Caption     string       `json:"caption"`
	Offset      Offset       `json:"offset"`
	Loading     LoadingFlags `json:"loading"`
	Alert       string       `json:"alert,omitempty"`
}

// SelectRequest represents the request body for selecting a template
type SelectRequest struct {
	ID string `json:"id"`
}

// CaptionRequest represents the request body for replacing the caption text
type CaptionRequest struct {
	Text string `json:"text"`
}
