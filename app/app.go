package app

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"meme-generator/app/controller"
	"meme-generator/app/router"
	"meme-generator/repository"
	"meme-generator/service"
)

// App holds the long-lived services behind the HTTP routes
type App struct {
	Config   *Config
	Sessions *service.SessionService
	closers  []func() error
}

// Initialize initializes the application and registers its routes on mux
func Initialize(cfg *Config, mux *http.ServeMux) (*App, error) {
	a := &App{Config: cfg}

	// Session store: Redis when configured, otherwise process memory
	var sessionRepo repository.SessionRepositoryInterface
	if cfg.RedisURL != "" {
		redisRepo, err := repository.NewRedisSessionRepository(context.Background(), cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize session store: %w", err)
		}
		a.closers = append(a.closers, redisRepo.Close)
		sessionRepo = redisRepo
	} else {
		log.Printf("Session store: memory (ttl=%s)", cfg.SessionTTL)
		sessionRepo = repository.NewMemorySessionRepository(cfg.SessionTTL)
	}

	images := service.NewImageFetcher(cfg.ImageDomains, nil)
	catalogClient := service.NewCatalogClient(cfg.CatalogURL, cfg.CatalogTimeout)
	a.Sessions = service.NewSessionService(catalogClient, sessionRepo, cfg.PageSize)

	composition := service.NewCompositionService(images)
	exportService := service.NewExportService(composition, newRasterizer(cfg, images))

	controllers := &router.Controllers{
		Session:     controller.NewSessionController(a.Sessions),
		Composition: controller.NewCompositionController(a.Sessions, composition, exportService),
		Template:    controller.NewTemplateController(a.Sessions, images),
	}

	// Setup routes using standard http router
	router.SetupRoutes(mux, controllers)

	return a, nil
}

// newRasterizer picks the export backend; Chrome falls back to native rendering when no browser is installed
func newRasterizer(cfg *Config, images *service.ImageFetcher) service.Rasterizer {
	if cfg.Rasterizer == "chrome" {
		chromePath := cfg.ChromePath
		if chromePath == "" {
			chromePath = service.DetectChromePath()
		}
		if chromePath != "" {
			log.Printf("Rasterizer: chrome (%s)", chromePath)
			return service.NewChromeRasterizer(cfg.BaseURL, chromePath, 0)
		}
		log.Printf("⚠️  Chrome/Chromium not found, falling back to native rasterizer")
	}
	log.Printf("Rasterizer: native")
	return service.NewNativeRasterizer(images)
}

// Close releases external connections
func (a *App) Close() error {
	var firstErr error
	for _, c := range a.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
