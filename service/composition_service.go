package service

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strconv"

	"meme-generator/models"
)

const (
	// SceneWidth and SceneHeight are the fixed display box of the composition
	SceneWidth  = 300
	SceneHeight = 300
)

// ErrNothingSelected is returned when a composition is requested without a selected template
var ErrNothingSelected = errors.New("no template selected")

// ErrSceneChanged is returned when the session changed after a scene was built from it
var ErrSceneChanged = errors.New("scene changed since it was built")

// placeholderImage is shown in place of a template image that cannot be displayed
const placeholderImage = "data:image/svg+xml;base64,PHN2ZyB4bWxucz0iaHR0cDovL3d3dy53My5vcmcvMjAwMC9zdmciIHdpZHRoPSIzMDAiIGhlaWdodD0iMzAwIj48cmVjdCB3aWR0aD0iMTAwJSIgaGVpZ2h0PSIxMDAlIiBmaWxsPSIjY2JkNWUxIi8+PC9zdmc+"

//go:embed templates/scene.html
var templatesFS embed.FS

var sceneTemplate = template.Must(template.ParseFS(templatesFS, "templates/scene.html"))

// CompositionService turns a session's selection and caption into a renderable scene
type CompositionService struct {
	images *ImageFetcher
}

// NewCompositionService creates a new CompositionService
func NewCompositionService(images *ImageFetcher) *CompositionService {
	return &CompositionService{images: images}
}

// BuildScene layers the caption at its offset over the selected template
func (s *CompositionService) BuildScene(state models.SessionState) (models.Scene, error) {
	if state.Selection == nil {
		return models.Scene{}, ErrNothingSelected
	}
	return models.Scene{
		SessionID:    state.ID,
		Template:     *state.Selection,
		Caption:      state.Caption,
		Offset:       state.Offset,
		Width:        SceneWidth,
		Height:       SceneHeight,
		ImageAllowed: s.images.Allowed(state.Selection.URL),
		Version:      SceneVersion(state),
	}, nil
}

// SceneVersion identifies the session state a scene is built from; 0 when the state carries no timestamp
func SceneVersion(state models.SessionState) int64 {
	if state.UpdatedAt.IsZero() {
		return 0
	}
	return state.UpdatedAt.UnixNano()
}

// RenderSceneHTML renders the live, draggable view of a scene.
// Templates outside the image allow-list are shown as a placeholder.
func (s *CompositionService) RenderSceneHTML(scene models.Scene) (string, error) {
	imageSrc := template.URL(placeholderImage)
	if scene.ImageAllowed {
		imageSrc = template.URL(scene.Template.URL)
	}

	templateData := struct {
		models.Scene
		ImageSrc    template.URL
		Placeholder template.URL
		Transform   template.CSS
		DragURL     string
	}{
		Scene:       scene,
		ImageSrc:    imageSrc,
		Placeholder: template.URL(placeholderImage),
		Transform:   template.CSS(translate(scene.Offset)),
		DragURL:     fmt.Sprintf("/sessions/%s/drag", scene.SessionID),
	}

	var buf bytes.Buffer
	if err := sceneTemplate.Execute(&buf, templateData); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

func translate(o models.Offset) string {
	return "translate(" + strconv.FormatFloat(o.X, 'f', -1, 64) + "px, " +
		strconv.FormatFloat(o.Y, 'f', -1, 64) + "px)"
}
