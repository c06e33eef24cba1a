package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
)

// DefaultImageDomains lists the hosts template images may be loaded from
var DefaultImageDomains = []string{"i.imgflip.com"}

const (
	imageFetchTimeout = 20 * time.Second
	maxImageBytes     = 20 << 20
	maxCachedImages   = 64
)

// ErrDomainNotAllowed is returned for image URLs outside the allow-list
var ErrDomainNotAllowed = errors.New("image domain not allowed")

// ErrImageTooLarge is returned for image bodies above maxImageBytes
var ErrImageTooLarge = errors.New("image too large")

// ImageLoadError reports a template image that could not be fetched or decoded
type ImageLoadError struct {
	URL string
	Err error
}

func (e *ImageLoadError) Error() string {
	return fmt.Sprintf("failed to load image %s: %v", e.URL, e.Err)
}

func (e *ImageLoadError) Unwrap() error {
	return e.Err
}

// ImageFetcher loads template images from allowed domains and keeps decoded copies in memory
type ImageFetcher struct {
	httpClient *http.Client
	domains    map[string]bool
	maxBytes   int64
	maxCached  int
	cache      map[string]image.Image
	cacheOrder []string // insertion order, oldest first
	cacheMutex sync.RWMutex
}

// NewImageFetcher creates an ImageFetcher restricted to the given domains
func NewImageFetcher(domains []string, httpClient *http.Client) *ImageFetcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: imageFetchTimeout}
	}
	allowed := make(map[string]bool, len(domains))
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			allowed[d] = true
		}
	}
	return &ImageFetcher{
		httpClient: httpClient,
		domains:    allowed,
		maxBytes:   maxImageBytes,
		maxCached:  maxCachedImages,
		cache:      make(map[string]image.Image),
	}
}

// Allowed reports whether rawURL points at an allowed image host
func (f *ImageFetcher) Allowed(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	return f.domains[strings.ToLower(u.Hostname())]
}

// Fetch returns the decoded image at rawURL
func (f *ImageFetcher) Fetch(ctx context.Context, rawURL string) (image.Image, error) {
	if !f.Allowed(rawURL) {
		return nil, &ImageLoadError{URL: rawURL, Err: ErrDomainNotAllowed}
	}

	f.cacheMutex.RLock()
	img, ok := f.cache[rawURL]
	f.cacheMutex.RUnlock()
	if ok {
		return img, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &ImageLoadError{URL: rawURL, Err: err}
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &ImageLoadError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ImageLoadError{URL: rawURL, Err: fmt.Errorf("image endpoint returned status %d", resp.StatusCode)}
	}

	if resp.ContentLength > f.maxBytes {
		return nil, &ImageLoadError{URL: rawURL, Err: ErrImageTooLarge}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, &ImageLoadError{URL: rawURL, Err: fmt.Errorf("failed to read image data: %w", err)}
	}
	if int64(len(data)) > f.maxBytes {
		return nil, &ImageLoadError{URL: rawURL, Err: ErrImageTooLarge}
	}

	img, err = imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, &ImageLoadError{URL: rawURL, Err: fmt.Errorf("failed to decode image: %w", err)}
	}

	log.Printf("📸 Image decoded: url=%s bounds=%v", rawURL, img.Bounds())

	f.store(rawURL, img)
	return img, nil
}

// store caches img, evicting the oldest entries beyond maxCached
func (f *ImageFetcher) store(rawURL string, img image.Image) {
	f.cacheMutex.Lock()
	defer f.cacheMutex.Unlock()

	if _, ok := f.cache[rawURL]; !ok {
		f.cacheOrder = append(f.cacheOrder, rawURL)
	}
	f.cache[rawURL] = img
	for len(f.cacheOrder) > f.maxCached {
		delete(f.cache, f.cacheOrder[0])
		f.cacheOrder = f.cacheOrder[1:]
	}
}
