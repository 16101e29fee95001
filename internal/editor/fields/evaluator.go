package fields

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"focuspoint-editor/internal/editor/models"
	"focuspoint-editor/internal/typolink"
)

var (
	ErrUnknownField  = errors.New("unknown field")
	ErrInvalidOption = errors.New("value is not a select option")
)

// Control is one rendered metadata input of a focus area.
type Control struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Kind    Kind            `json:"kind"`
	Title   string          `json:"title"`
	Value   *string         `json:"value"`
	Options []models.Option `json:"options,omitempty"`
	Link    *typolink.Link  `json:"link,omitempty"`
}

// ============================================================
// Evaluator
// ============================================================

type Evaluator struct {
	schema models.Schema
	logger *slog.Logger
}

func NewEvaluator(schema models.Schema, logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Evaluator{schema: schema, logger: logger}
}

// Visible reports whether the named field shows for area.
func (e *Evaluator) Visible(name string, area models.FocusArea) bool {
	cfg, ok := e.schema.Lookup(name)
	if !ok {
		return false
	}
	return MeetsCondition(cfg.DisplayCond, area.Fields)
}

// Controls lists the visible inputs of area in schema order. Fields of an
// unknown type produce no control.
func (e *Evaluator) Controls(index int, area models.FocusArea) []Control {
	out := make([]Control, 0, len(e.schema))
	for _, f := range e.schema {
		kind := ParseKind(f.Config.Type)
		if kind == KindUnknown {
			e.logger.Debug("field skipped", "field", f.Name, "type", f.Config.Type)
			continue
		}
		if !MeetsCondition(f.Config.DisplayCond, area.Fields) {
			continue
		}
		title := f.Config.Title
		if title == "" {
			title = f.Name
		}
		c := Control{
			ID:    fmt.Sprintf("input-%d-%s", index, f.Name),
			Name:  f.Name,
			Kind:  kind,
			Title: title,
		}
		if v := area.Fields[f.Name]; v != nil {
			s := *v
			c.Value = &s
		}
		switch kind {
		case KindSelect:
			c.Options = slices.Clone(f.Config.Options)
		case KindLink:
			if c.Value != nil && *c.Value != "" {
				l := typolink.Decode(*c.Value)
				c.Link = &l
			}
		}
		out = append(out, c)
	}
	return out
}

// Accepts checks value against the named field's control. A nil value clears
// the field and is always accepted.
func (e *Evaluator) Accepts(name string, value *string) error {
	cfg, ok := e.schema.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	c := Control{Name: name, Kind: ParseKind(cfg.Type), Options: cfg.Options}
	if !c.Accepts(value) {
		return fmt.Errorf("%w: %q", ErrInvalidOption, *value)
	}
	return nil
}

// Accepts reports whether value is allowed. Only select controls with options
// restrict their values.
func (c Control) Accepts(value *string) bool {
	if value == nil || c.Kind != KindSelect || len(c.Options) == 0 {
		return true
	}
	for _, o := range c.Options {
		if o.Value == *value {
			return true
		}
	}
	return false
}
