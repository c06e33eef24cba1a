package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const catalogBody = `{
  "success": true,
  "data": {
    "memes": [
      {"id": "181913649", "name": "Drake Hotline Bling", "url": "https://i.imgflip.com/30b1gx.jpg", "width": 1200, "height": 1200, "box_count": 2},
      {"id": "87743020", "name": "Two Buttons", "url": "https://i.imgflip.com/1g8my4.jpg", "width": 600, "height": 908, "box_count": 3},
      {"id": "112126428", "name": "Distracted Boyfriend", "url": "https://i.imgflip.com/1ur9b0.jpg", "width": 1200, "height": 800, "box_count": 3}
    ]
  }
}`

func serveCatalog(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestLoadCatalogKeepsOrder(t *testing.T) {
	server := serveCatalog(t, http.StatusOK, catalogBody)

	templates, err := NewCatalogClient(server.URL, 0).LoadCatalog(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	wantIDs := []string{"181913649", "87743020", "112126428"}
	if len(templates) != len(wantIDs) {
		t.Fatalf("expected %d templates, got %d", len(wantIDs), len(templates))
	}
	for i, id := range wantIDs {
		if templates[i].ID != id {
			t.Fatalf("index %d: expected %s, got %s", i, id, templates[i].ID)
		}
	}
	if templates[1].Name != "Two Buttons" || templates[1].URL != "https://i.imgflip.com/1g8my4.jpg" {
		t.Fatalf("unexpected record %+v", templates[1])
	}
}

func TestLoadCatalogFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"success":false}`},
		{"not found", http.StatusNotFound, ``},
		{"malformed json", http.StatusOK, `{"data": {"memes": [`},
		{"missing data", http.StatusOK, `{"success": true}`},
		{"missing memes", http.StatusOK, `{"success": true, "data": {}}`},
		{"reported failure", http.StatusOK, `{"success": false, "data": {"memes": []}}`},
		{"record without id", http.StatusOK, `{"data": {"memes": [{"name": "x", "url": "https://i.imgflip.com/a.jpg"}]}}`},
		{"record with bad url", http.StatusOK, `{"data": {"memes": [{"id": "1", "name": "x", "url": "not a url"}]}}`},
		{"duplicate ids", http.StatusOK, `{"data": {"memes": [{"id": "1", "url": "https://i.imgflip.com/a.jpg"}, {"id": "1", "url": "https://i.imgflip.com/b.jpg"}]}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := serveCatalog(t, tc.status, tc.body)
			templates, err := NewCatalogClient(server.URL, 0).LoadCatalog(context.Background())
			var fetchErr *FetchError
			if !errors.As(err, &fetchErr) {
				t.Fatalf("expected *FetchError, got %v", err)
			}
			if templates != nil {
				t.Fatalf("expected no templates on failure, got %d", len(templates))
			}
		})
	}
}

func TestLoadCatalogNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewCatalogClient(url, 0).LoadCatalog(context.Background())
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) || fetchErr.Unwrap() == nil {
		t.Fatalf("expected *FetchError wrapping the network error, got %v", err)
	}
}

func TestLoadCatalogEmptyList(t *testing.T) {
	server := serveCatalog(t, http.StatusOK, `{"success": true, "data": {"memes": []}}`)
	templates, err := NewCatalogClient(server.URL, 0).LoadCatalog(context.Background())
	if err != nil {
		t.Fatalf("expected empty catalog to load, got %v", err)
	}
	if len(templates) != 0 {
		t.Fatalf("expected no templates, got %d", len(templates))
	}
}
