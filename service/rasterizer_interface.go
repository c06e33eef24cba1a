package service

import (
	"context"

	"meme-generator/models"
)

// Rasterizer flattens a scene into PNG bytes
type Rasterizer interface {
	Rasterize(ctx context.Context, scene models.Scene) ([]byte, error)
}
