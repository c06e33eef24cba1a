package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"meme-generator/models"

	"github.com/go-playground/validator"
)

// DefaultCatalogURL is the public imgflip endpoint listing popular templates
const DefaultCatalogURL = "https://api.imgflip.com/get_memes"

// FetchError reports a failed catalog load
type FetchError struct {
	URL    string
	Reason string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to load catalog from %s: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("failed to load catalog from %s: %s", e.URL, e.Reason)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// catalogResponse mirrors {success, data: {memes: [...]}}
type catalogResponse struct {
	Success *bool `json:"success"`
	Data    *struct {
		Memes []models.Template `json:"memes"`
	} `json:"data"`
}

// CatalogClient loads the template catalog over HTTP
// Implements CatalogClientInterface
type CatalogClient struct {
	httpClient *http.Client
	url        string
	validate   *validator.Validate
}

// Ensure CatalogClient implements CatalogClientInterface
var _ CatalogClientInterface = (*CatalogClient)(nil)

// NewCatalogClient creates a new CatalogClient
// timeout 0 means the request is never cut short
func NewCatalogClient(url string, timeout time.Duration) *CatalogClient {
	if url == "" {
		url = DefaultCatalogURL
	}
	return &CatalogClient{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
		validate:   validator.New(),
	}
}

// LoadCatalog fetches the catalog and returns the templates in the order received.
// Any deviation from the expected response shape is a *FetchError and nothing is returned.
func (c *CatalogClient) LoadCatalog(ctx context.Context) ([]models.Template, error) {
	log.Printf("🔍 LoadCatalog: GET %s", c.url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, &FetchError{URL: c.url, Reason: "invalid request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: c.url, Reason: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: c.url, Reason: fmt.Sprintf("catalog endpoint returned status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: c.url, Reason: "failed to read response", Err: err}
	}

	var parsed catalogResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &FetchError{URL: c.url, Reason: "malformed JSON", Err: err}
	}
	if parsed.Success != nil && !*parsed.Success {
		return nil, &FetchError{URL: c.url, Reason: "catalog endpoint reported failure"}
	}
	if parsed.Data == nil || parsed.Data.Memes == nil {
		return nil, &FetchError{URL: c.url, Reason: "response has no data.memes"}
	}

	seen := make(map[string]bool, len(parsed.Data.Memes))
	for i := range parsed.Data.Memes {
		tpl := &parsed.Data.Memes[i]
		if err := c.validate.Struct(*tpl); err != nil {
			return nil, &FetchError{URL: c.url, Reason: fmt.Sprintf("invalid template at index %d", i), Err: err}
		}
		if seen[tpl.ID] {
			return nil, &FetchError{URL: c.url, Reason: fmt.Sprintf("duplicate template id %q", tpl.ID)}
		}
		seen[tpl.ID] = true
	}

	log.Printf("✓ LoadCatalog: %d templates loaded", len(parsed.Data.Memes))
	return parsed.Data.Memes, nil
}
