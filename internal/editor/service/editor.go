package service

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"focuspoint-editor/internal/editor/fields"
	"focuspoint-editor/internal/editor/geometry"
	"focuspoint-editor/internal/editor/interaction"
	"focuspoint-editor/internal/editor/models"
	"focuspoint-editor/internal/editor/naming"
	"focuspoint-editor/internal/editor/store"
	"focuspoint-editor/internal/processor"
)

var (
	ErrNotPolygon     = errors.New("focus area is not a polygon")
	ErrInvalidPolygon = errors.New("invalid polygon")
)

const minPolygonVertices = 3

// AreaView is the rendered state of one focus area.
type AreaView struct {
	Index    int                `json:"index"`
	Shape    models.Shape       `json:"shape"`
	Name     string             `json:"name"`
	Active   bool               `json:"active"`
	Rect     *models.Rect       `json:"rect,omitempty"`
	Pixels   *models.Rect       `json:"pixels,omitempty"`
	Points   []models.Point     `json:"points,omitempty"`
	Path     string             `json:"path,omitempty"`
	Controls []fields.Control   `json:"controls"`
	Values   map[string]*string `json:"values"`
}

// View is a read-only snapshot of an editor.
type View struct {
	ID             string            `json:"id"`
	ItemFormElName string            `json:"itemFormElName"`
	Image          string            `json:"image"`
	Frame          models.Frame      `json:"frame"`
	Gesture        interaction.State `json:"gesture"`
	Areas          []AreaView        `json:"areas"`
}

// ============================================================
// Editor
// ============================================================

// Editor is one mounted focus-point editor bound to a hidden form field.
type Editor struct {
	ID             string
	ItemFormElName string
	Image          string

	// mu serializes gestures and edits so each applies before the next.
	mu         sync.Mutex
	logger     *slog.Logger
	store      *store.Store
	frames     *interaction.FrameTracker
	controller *interaction.Controller
	evaluator  *fields.Evaluator
	cancel     func()

	viewMu  sync.Mutex
	view    *View
	version uint64
}

func newEditor(id string, req MountRequest, persisted string, settle time.Duration, logger *slog.Logger) (*Editor, error) {
	logger = logger.With("editor", id)

	s := store.New(logger)
	frames := interaction.NewFrameTracker(settle, logger)
	s.SetFrameSource(frames.Current)
	if err := s.Initialize(req.WizardConfig, persisted); err != nil {
		frames.Stop()
		return nil, err
	}

	e := &Editor{
		ID:             id,
		ItemFormElName: req.ItemFormElName,
		Image:          req.Image,
		logger:         logger,
		store:          s,
		frames:         frames,
		controller:     interaction.NewController(s, frames.Current, logger),
		evaluator:      fields.NewEvaluator(s.Config().Fields, logger),
	}
	e.cancel = s.Subscribe(func([]models.FocusArea) { e.invalidate() })
	frames.OnChange(func(models.Frame) { e.invalidate() })
	e.controller.OnState(func(_, _ interaction.State) { e.invalidate() })
	return e, nil
}

// View returns the current snapshot, rebuilding it only after a change.
func (e *Editor) View() View {
	e.viewMu.Lock()
	if e.view != nil {
		v := *e.view
		e.viewMu.Unlock()
		return v
	}
	version := e.version
	e.viewMu.Unlock()

	v := e.buildView()

	e.viewMu.Lock()
	if e.version == version {
		e.view = &v
	}
	e.viewMu.Unlock()
	return v
}

func (e *Editor) invalidate() {
	e.viewMu.Lock()
	e.view = nil
	e.version++
	e.viewMu.Unlock()
}

func (e *Editor) buildView() View {
	frame := e.frames.Current()
	schema := e.store.Config().Fields
	areas := e.store.Areas()

	v := View{
		ID:             e.ID,
		ItemFormElName: e.ItemFormElName,
		Image:          e.Image,
		Frame:          frame,
		Gesture:        e.controller.Current(),
		Areas:          make([]AreaView, 0, len(areas)),
	}
	for i, a := range areas {
		av := AreaView{
			Index:    i,
			Shape:    a.Shape,
			Name:     naming.Resolve(schema, a, i),
			Active:   a.Active,
			Controls: e.evaluator.Controls(i, a),
			Values:   a.Fields,
		}
		switch a.Shape {
		case models.ShapePolygon:
			av.Points = a.Points
			av.Path = processor.FormatPath(a.Points)
		default:
			r := a.Rect
			av.Rect = &r
			if frame.Valid() {
				px := geometry.ToPixels(r, frame)
				av.Pixels = &px
			}
		}
		v.Areas = append(v.Areas, av)
	}
	return v
}

// ObserveFrame reports the measured canvas size.
func (e *Editor) ObserveFrame(f models.Frame) {
	e.frames.Observe(f)
}

func (e *Editor) Add(shape models.Shape) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Add(shape)
}

func (e *Editor) Remove(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Remove(index)
}

func (e *Editor) SetActive(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.SetActive(index)
}

func (e *Editor) Toggle(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Toggle(index)
}

// SetField validates value against the field's control and stores it.
func (e *Editor) SetField(index int, name string, value *string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.evaluator.Accepts(name, value); err != nil {
		return err
	}
	return e.store.SetField(index, name, value)
}

// SetPoints replaces the vertices of a polygon area from a path string.
func (e *Editor) SetPoints(index int, path string) error {
	points, err := processor.ParsePath(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPolygon, err)
	}
	if len(points) < minPolygonVertices {
		return fmt.Errorf("%w: %d vertices, need %d", ErrInvalidPolygon, len(points), minPolygonVertices)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	area, err := e.store.Area(index)
	if err != nil {
		return err
	}
	if area.Shape != models.ShapePolygon {
		return fmt.Errorf("%w: area %d", ErrNotPolygon, index)
	}
	frame := e.frames.Current()
	return e.store.Update(index, func(a *models.FocusArea) {
		a.Points = geometry.ClampPoints(points, frame)
	})
}

// Gesture forwards a pointer event to the interaction controller.
func (e *Editor) Gesture(ev interaction.Event) (interaction.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.controller.Handle(ev)
}

// Serialize returns the hidden-field value for the current areas.
func (e *Editor) Serialize() (string, error) {
	return e.store.Serialize()
}

// Close drops the areas and stops frame tracking.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.frames.Stop()
	if e.cancel != nil {
		e.cancel()
	}
	e.store.Reset()
	e.invalidate()
}
