package service

import (
	"context"
	"fmt"
	"log"

	"meme-generator/models"

	"github.com/dustin/go-humanize"
)

const (
	// ExportFileName is the fixed name of every downloaded meme
	ExportFileName    = "meme.png"
	exportContentType = "image/png"
)

// ExportError reports a composition that could not be exported
type ExportError struct {
	SessionID string
	Err       error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("failed to export meme for session %s: %v", e.SessionID, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// ExportService rasterizes the current composition into a downloadable PNG
type ExportService struct {
	composition *CompositionService
	rasterizer  Rasterizer
}

// NewExportService creates a new ExportService
func NewExportService(composition *CompositionService, rasterizer Rasterizer) *ExportService {
	return &ExportService{
		composition: composition,
		rasterizer:  rasterizer,
	}
}

// Export flattens the session's composition into meme.png.
// Without a selected template nothing is produced.
func (s *ExportService) Export(ctx context.Context, state models.SessionState) (*models.BitmapFile, error) {
	scene, err := s.composition.BuildScene(state)
	if err != nil {
		return nil, &ExportError{SessionID: state.ID, Err: err}
	}

	data, err := s.rasterizer.Rasterize(ctx, scene)
	if err != nil {
		return nil, &ExportError{SessionID: state.ID, Err: err}
	}

	log.Printf("✓ Export: session=%s template=%s size=%s", state.ID, scene.Template.ID, humanize.Bytes(uint64(len(data))))
	return &models.BitmapFile{
		Name:        ExportFileName,
		ContentType: exportContentType,
		Data:        data,
	}, nil
}
