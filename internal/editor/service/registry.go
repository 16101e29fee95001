package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"focuspoint-editor/internal/editor/repository"

	"github.com/google/uuid"
)

var (
	ErrEditorNotFound = errors.New("editor not found")
	ErrInvalidMount   = errors.New("invalid mount request")
)

// HiddenFields reads and writes the host form's hidden inputs.
type HiddenFields interface {
	Get(ctx context.Context, name string) (string, error)
	Put(ctx context.Context, name, value string) error
}

// MountRequest carries the element attributes of a new editor.
type MountRequest struct {
	ItemFormElName string `json:"itemFormElName"`
	WizardConfig   string `json:"wizardConfig"`
	Image          string `json:"image"`
}

// UnmarshalJSON accepts wizardConfig either as a JSON string or as an object.
func (r *MountRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		ItemFormElName string          `json:"itemFormElName"`
		WizardConfig   json.RawMessage `json:"wizardConfig"`
		Image          string          `json:"image"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.ItemFormElName = raw.ItemFormElName
	r.Image = raw.Image
	r.WizardConfig = ""

	cfg := bytes.TrimSpace(raw.WizardConfig)
	if len(cfg) > 0 && cfg[0] == '"' {
		return json.Unmarshal(cfg, &r.WizardConfig)
	}
	r.WizardConfig = string(cfg)
	return nil
}

// ============================================================
// Editor Registry
// ============================================================

type Registry struct {
	mu      sync.Mutex
	editors map[string]*Editor // id -> editor
	hidden  HiddenFields
	settle  time.Duration
	logger  *slog.Logger
}

func NewRegistry(hidden HiddenFields, settle time.Duration, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		editors: make(map[string]*Editor),
		hidden:  hidden,
		settle:  settle,
		logger:  logger,
	}
}

// Mount reads the hidden field and starts a new editor on it.
func (r *Registry) Mount(ctx context.Context, req MountRequest) (*Editor, error) {
	if req.ItemFormElName == "" {
		return nil, fmt.Errorf("%w: itemFormElName is required", ErrInvalidMount)
	}
	if req.WizardConfig == "" {
		return nil, fmt.Errorf("%w: wizardConfig is required", ErrInvalidMount)
	}

	persisted, err := r.hidden.Get(ctx, req.ItemFormElName)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("read hidden field: %w", err)
	}

	id := uuid.NewString()
	e, err := newEditor(id, req, persisted, r.settle, r.logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMount, err)
	}

	r.mu.Lock()
	r.editors[id] = e
	r.mu.Unlock()

	r.logger.Info("editor mounted", "editor", id, "field", req.ItemFormElName, "areas", e.store.Len())
	return e, nil
}

func (r *Registry) Get(id string) (*Editor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.editors[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEditorNotFound, id)
	}
	return e, nil
}

// Unmount closes the editor and forgets it. Unsaved changes are dropped.
func (r *Registry) Unmount(id string) error {
	r.mu.Lock()
	e, ok := r.editors[id]
	delete(r.editors, id)
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrEditorNotFound, id)
	}
	e.Close()
	r.logger.Info("editor unmounted", "editor", id)
	return nil
}

// DispatchSave writes every editor mounted on the named hidden field and
// returns how many were saved.
func (r *Registry) DispatchSave(ctx context.Context, itemFormElName string) (int, error) {
	targets := r.mounted(itemFormElName)
	for _, e := range targets {
		value, err := e.Serialize()
		if err != nil {
			return 0, err
		}
		if err := r.hidden.Put(ctx, itemFormElName, value); err != nil {
			return 0, fmt.Errorf("write hidden field: %w", err)
		}
		r.logger.Debug("editor saved", "editor", e.ID, "field", itemFormElName, "bytes", len(value))
	}
	return len(targets), nil
}

// Len returns the number of mounted editors.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.editors)
}

// Close unmounts every editor.
func (r *Registry) Close() {
	r.mu.Lock()
	ids := make([]string, 0, len(r.editors))
	for id := range r.editors {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	for _, id := range ids {
		_ = r.Unmount(id)
	}
}

func (r *Registry) mounted(itemFormElName string) []*Editor {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*Editor
	for _, e := range r.editors {
		if e.ItemFormElName == itemFormElName {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
