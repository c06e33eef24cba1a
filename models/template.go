package models

// Template represents a meme template from the catalog API
type Template struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name"`
	URL  string `json:"url" validate:"required,url"`
}

// CatalogState holds the full catalog and how much of it is visible in the carousel
// VisibleCount is always between 0 and len(All)
type CatalogState struct {
	All          []Template `json:"all"`
	VisibleCount int        `json:"visibleCount"`
}
