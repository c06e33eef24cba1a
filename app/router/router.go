package router

import (
	"net/http"

	"meme-generator/app/controller"
	"meme-generator/utils"
)

type Controllers struct {
	Session     *controller.SessionController
	Composition *controller.CompositionController
	Template    *controller.TemplateController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func SetupRoutes(mux *http.ServeMux, controllers *Controllers) {
	// Ping endpoint
	mux.HandleFunc("/ping", pingHandler)

	// Start a session
	mux.HandleFunc("/sessions", controllers.Session.Create)

	// Session actions: /sessions/:id[/action]
	mux.HandleFunc("/sessions/", func(w http.ResponseWriter, r *http.Request) {
		segments := utils.PathSegments(r.URL.Path, "/sessions/")
		switch len(segments) {
		case 0:
			controllers.Session.Create(w, r)
			return
		case 1:
			controllers.Session.Get(w, r, segments[0])
			return
		case 2:
		default:
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}

		sessionID := segments[0]
		switch segments[1] {
		case "more":
			controllers.Session.LoadMore(w, r, sessionID)
		case "select":
			controllers.Session.Select(w, r, sessionID)
		case "text":
			controllers.Session.SetText(w, r, sessionID)
		case "drag":
			controllers.Session.DragComplete(w, r, sessionID)
		case "scene":
			controllers.Composition.Scene(w, r, sessionID)
		case "export":
			controllers.Composition.Export(w, r, sessionID)
		default:
			http.Error(w, "Not found", http.StatusNotFound)
		}
	})

	// Carousel thumbnails: /templates/:id/thumb
	mux.HandleFunc("/templates/", func(w http.ResponseWriter, r *http.Request) {
		segments := utils.PathSegments(r.URL.Path, "/templates/")
		if len(segments) == 2 && segments[1] == "thumb" {
			controllers.Template.Thumbnail(w, r, segments[0])
			return
		}
		http.Error(w, "Not found", http.StatusNotFound)
	})
}
