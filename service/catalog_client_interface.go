package service

import (
	"context"

	"meme-generator/models"
)

// CatalogClientInterface defines the contract for loading the template catalog
type CatalogClientInterface interface {
	LoadCatalog(ctx context.Context) ([]models.Template, error)
}
