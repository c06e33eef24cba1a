package service

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"meme-generator/models"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// waitForAssets resolves once fonts and every <img> on the page have settled (loaded or failed)
const waitForAssets = `
	Promise.all([
		document.fonts.ready,
		Promise.all(Array.from(document.querySelectorAll('img')).map(img => {
			return new Promise((resolve) => {
				if (img.complete) {
					resolve();
					return;
				}
				const timeout = setTimeout(() => resolve(), 5000);
				img.onload = () => { clearTimeout(timeout); resolve(); };
				img.addEventListener('error', () => { clearTimeout(timeout); setTimeout(resolve, 50); });
			});
		}))
	]).then(() => true);
`

// DetectChromePath detects the path to Chrome/Chromium executable
// Checks CHROME_PATH env var first, then common installation paths
func DetectChromePath() string {
	if chromePath := os.Getenv("CHROME_PATH"); chromePath != "" {
		if _, err := os.Stat(chromePath); err == nil {
			return chromePath
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ChromeRasterizer screenshots the live scene page in headless Chrome,
// so the export is exactly what the user sees
// Implements Rasterizer
type ChromeRasterizer struct {
	baseURL    string // Base URL the scene page is served from (e.g., "http://localhost:8080")
	chromePath string
	timeout    time.Duration
}

// Ensure ChromeRasterizer implements Rasterizer
var _ Rasterizer = (*ChromeRasterizer)(nil)

// NewChromeRasterizer creates a new ChromeRasterizer
func NewChromeRasterizer(baseURL, chromePath string, timeout time.Duration) *ChromeRasterizer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ChromeRasterizer{
		baseURL:    baseURL,
		chromePath: chromePath,
		timeout:    timeout,
	}
}

// SceneURL returns the address of the live scene page for a session.
// A non-zero version pins the page to that state of the session.
func (r *ChromeRasterizer) SceneURL(sessionID string, version int64) string {
	sceneURL := fmt.Sprintf("%s/sessions/%s/scene", r.baseURL, url.PathEscape(sessionID))
	if version != 0 {
		sceneURL += "?v=" + strconv.FormatInt(version, 10)
	}
	return sceneURL
}

// Rasterize captures the #meme element of the scene page as PNG.
// The page is requested at the scene's version; if the session moved on in between
// (for example a drag was committed) the capture fails with ErrSceneChanged instead of
// exporting a different composition.
func (r *ChromeRasterizer) Rasterize(ctx context.Context, scene models.Scene) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
	)
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	renderURL := r.SceneURL(scene.SessionID, scene.Version)
	log.Printf("📸 Rasterize: capturing %s", renderURL)

	resp, err := chromedp.RunResponse(chromedpCtx,
		chromedp.EmulateViewport(int64(scene.Width), int64(scene.Height)),
		chromedp.Navigate(renderURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene page: %w", err)
	}
	if resp != nil && resp.Status == http.StatusConflict {
		return nil, ErrSceneChanged
	}
	if resp != nil && resp.Status != http.StatusOK {
		return nil, fmt.Errorf("scene page returned status %d", resp.Status)
	}

	var ready bool
	var buf []byte
	err = chromedp.Run(chromedpCtx,
		chromedp.WaitVisible("#meme", chromedp.ByQuery),
		chromedp.Evaluate(waitForAssets, &ready, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		chromedp.Screenshot("#meme", &buf, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}
	if len(buf) == 0 {
		return nil, fmt.Errorf("failed to capture screenshot: empty image")
	}
	return buf, nil
}
