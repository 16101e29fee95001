package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"focuspoint-editor/internal/editor/geometry"
	"focuspoint-editor/internal/editor/models"
	"focuspoint-editor/internal/editor/naming"
)

var (
	ErrIndexOutOfRange = errors.New("focus area index out of range")
	ErrUnknownShape    = errors.New("unknown shape")
	ErrReservedField   = errors.New("field name is reserved")
)

// Listener receives a snapshot after every completed mutation.
type Listener func(areas []models.FocusArea)

// ============================================================
// Focus-Area Store
// ============================================================

// Store is the single source of truth for one editor instance.
type Store struct {
	mu        sync.Mutex
	logger    *slog.Logger
	config    models.WizardConfig
	areas     []models.FocusArea
	frame     func() models.Frame
	listeners map[int]Listener
	nextID    int
}

func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		logger:    logger,
		areas:     []models.FocusArea{},
		frame:     func() models.Frame { return models.Frame{} },
		listeners: make(map[int]Listener),
	}
}

// Initialize loads the wizard config and the persisted focus areas.
// A malformed config is fatal; malformed areas degrade to an empty list.
func (s *Store) Initialize(schemaJSON, persistedJSON string) error {
	var cfg models.WizardConfig
	if err := json.Unmarshal([]byte(schemaJSON), &cfg); err != nil {
		return fmt.Errorf("parse wizard config: %w", err)
	}

	areas, err := DecodeAreas([]byte(persistedJSON))
	if err != nil {
		s.logger.Warn("persisted focus areas ignored", "error", err)
		areas = []models.FocusArea{}
	}

	s.mu.Lock()
	s.config = cfg
	s.areas = areas
	s.mu.Unlock()

	s.logger.Debug("store initialized", "fields", len(cfg.Fields), "areas", len(areas))
	s.publish()
	return nil
}

// SetFrameSource wires the canvas reference frame used for default geometry.
func (s *Store) SetFrameSource(fn func() models.Frame) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.frame = fn
	s.mu.Unlock()
}

// Config returns the wizard config.
func (s *Store) Config() models.WizardConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// Add appends a new focus area built from schema defaults and activates it alone.
func (s *Store) Add(shape models.Shape) (int, error) {
	if !shape.Valid() {
		return -1, fmt.Errorf("%w: %q", ErrUnknownShape, shape)
	}

	s.mu.Lock()
	frame := s.frame()
	area := models.FocusArea{Shape: shape, Fields: make(map[string]*string, len(s.config.Fields))}
	for _, f := range s.config.Fields {
		if f.Config.Default == nil {
			area.Fields[f.Name] = nil
			continue
		}
		v := *f.Config.Default
		area.Fields[f.Name] = &v
	}
	switch shape {
	case models.ShapeRect:
		area.Rect = geometry.Normalize(geometry.CreateRect(s.config, frame), frame)
	case models.ShapePolygon:
		area.Points = geometry.CreatePolygon(frame)
	}
	s.areas = append(s.areas, area)
	index := len(s.areas) - 1
	s.activateLocked(index, false)
	s.mu.Unlock()

	s.logger.Debug("focus area added", "index", index, "shape", shape)
	s.publish()
	return index, nil
}

// Remove deletes the area at index. Selection is not moved to a sibling.
func (s *Store) Remove(index int) error {
	s.mu.Lock()
	if err := s.checkLocked(index); err != nil {
		s.mu.Unlock()
		return err
	}
	s.areas = append(s.areas[:index:index], s.areas[index+1:]...)
	s.mu.Unlock()

	s.logger.Debug("focus area removed", "index", index)
	s.publish()
	return nil
}

// SetActive activates index and deactivates all others.
func (s *Store) SetActive(index int) error {
	return s.activate(index, false)
}

// Toggle flips index and deactivates all others.
func (s *Store) Toggle(index int) error {
	return s.activate(index, true)
}

func (s *Store) activate(index int, toggle bool) error {
	s.mu.Lock()
	if err := s.checkLocked(index); err != nil {
		s.mu.Unlock()
		return err
	}
	s.activateLocked(index, toggle)
	s.mu.Unlock()
	s.publish()
	return nil
}

func (s *Store) activateLocked(index int, toggle bool) {
	for i := range s.areas {
		if i != index {
			s.areas[i].Active = false
			continue
		}
		if toggle {
			s.areas[i].Active = !s.areas[i].Active
		} else {
			s.areas[i].Active = true
		}
	}
}

// Active returns the index of the active area, if any.
func (s *Store) Active() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.areas {
		if a.Active {
			return i, true
		}
	}
	return -1, false
}

// Update applies fn to the area at index in place. The shape cannot change.
func (s *Store) Update(index int, fn func(*models.FocusArea)) error {
	s.mu.Lock()
	if err := s.checkLocked(index); err != nil {
		s.mu.Unlock()
		return err
	}
	shape := s.areas[index].Shape
	fn(&s.areas[index])
	s.areas[index].Shape = shape
	if s.areas[index].Fields == nil {
		s.areas[index].Fields = map[string]*string{}
	}
	s.mu.Unlock()
	s.publish()
	return nil
}

// SetField writes one metadata value.
func (s *Store) SetField(index int, name string, value *string) error {
	if reserved(name) {
		return fmt.Errorf("%w: %q", ErrReservedField, name)
	}
	return s.Update(index, func(a *models.FocusArea) {
		if value == nil {
			a.Fields[name] = nil
			return
		}
		v := *value
		a.Fields[name] = &v
	})
}

// Area returns a copy of the area at index.
func (s *Store) Area(index int) (models.FocusArea, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLocked(index); err != nil {
		return models.FocusArea{}, err
	}
	return s.areas[index].Clone(), nil
}

// Areas returns a deep copy of the collection.
func (s *Store) Areas() []models.FocusArea {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.areas)
}

// Serialize encodes the collection for the hidden form field.
func (s *Store) Serialize() (string, error) {
	data, err := EncodeAreas(s.Areas())
	if err != nil {
		return "", fmt.Errorf("serialize focus areas: %w", err)
	}
	return string(data), nil
}

// NameFor returns the display label of the area at index.
func (s *Store) NameFor(index int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.areas) {
		return naming.Default(index)
	}
	return naming.Resolve(s.config.Fields, s.areas[index], index)
}

// Reset drops every area, as on editor unmount.
func (s *Store) Reset() {
	s.mu.Lock()
	s.areas = []models.FocusArea{}
	s.mu.Unlock()
	s.publish()
}

// ============================================================
// Subscriptions
// ============================================================

// Subscribe registers l and returns a cancel func.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) publish() {
	s.mu.Lock()
	if len(s.listeners) == 0 {
		s.mu.Unlock()
		return
	}
	snap := s.snapshotLocked()
	ls := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		ls = append(ls, l)
	}
	s.mu.Unlock()
	for _, l := range ls {
		l(snap)
	}
}

func (s *Store) snapshotLocked() []models.FocusArea {
	out := make([]models.FocusArea, len(s.areas))
	for i, a := range s.areas {
		out[i] = a.Clone()
	}
	return out
}

func (s *Store) checkLocked(index int) error {
	if index < 0 || index >= len(s.areas) {
		s.logger.Error("focus area index out of range", "index", index, "len", len(s.areas))
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	return nil
}
