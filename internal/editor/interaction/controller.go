package interaction

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"focuspoint-editor/internal/editor/geometry"
	"focuspoint-editor/internal/editor/models"
)

var (
	ErrGestureInProgress = errors.New("gesture already in progress")
	ErrUnknownEvent      = errors.New("unknown event type")
)

// MinSize is the resize handle size; a rect never shrinks below it.
const MinSize = 10.0

type State int

const (
	StateIdle State = iota
	StateDragging
	StateResizing
)

func (s State) String() string {
	switch s {
	case StateDragging:
		return "dragging"
	case StateResizing:
		return "resizing"
	default:
		return "idle"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type EventType string

const (
	EventPress   EventType = "press"
	EventMove    EventType = "move"
	EventRelease EventType = "release"
)

// Event is one pointer event. Handle names the resize handle that was grabbed
// ("" for the body); Edges may be given explicitly or derived from Handle.
type Event struct {
	Type   EventType      `json:"type"`
	Index  int            `json:"index"`
	Handle string         `json:"handle,omitempty"`
	Edges  geometry.Edges `json:"edges"`
	DX     float64        `json:"dx"`
	DY     float64        `json:"dy"`
}

// Result describes what an event did.
type Result struct {
	State    State `json:"state"`
	Changed  bool  `json:"changed"`
	Deferred bool  `json:"deferred"`
	Toggled  bool  `json:"toggled"`
}

// AreaStore is the part of the focus-area store the controller mutates.
type AreaStore interface {
	Area(index int) (models.FocusArea, error)
	Update(index int, fn func(*models.FocusArea)) error
	Toggle(index int) error
}

// StateListener is notified on every state transition.
type StateListener func(prev, next State)

// ============================================================
// Controller
// ============================================================

type Controller struct {
	mu        sync.Mutex
	logger    *slog.Logger
	store     AreaStore
	frame     func() models.Frame
	state     State
	index     int
	edges     geometry.Edges
	listeners []StateListener
}

func NewController(store AreaStore, frame func() models.Frame, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if frame == nil {
		frame = func() models.Frame { return models.Frame{} }
	}
	return &Controller{logger: logger, store: store, frame: frame, index: -1}
}

// OnState registers a transition listener. Listeners run under the controller
// lock and must not call back into it.
func (c *Controller) OnState(l StateListener) {
	c.mu.Lock()
	c.listeners = append(c.listeners, l)
	c.mu.Unlock()
}

// Current returns the gesture state.
func (c *Controller) Current() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Handle applies one pointer event.
func (c *Controller) Handle(ev Event) (Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch ev.Type {
	case EventPress:
		return c.press(ev)
	case EventMove:
		return c.move(ev)
	case EventRelease:
		return c.release(ev)
	default:
		return Result{State: c.state}, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}
}

func (c *Controller) press(ev Event) (Result, error) {
	if c.state != StateIdle {
		return Result{State: c.state}, fmt.Errorf("%w: %s area %d", ErrGestureInProgress, c.state, c.index)
	}
	if _, err := c.store.Area(ev.Index); err != nil {
		return Result{State: c.state}, err
	}
	edges := ev.Edges
	if !edges.Any() {
		edges = HandleEdges(ev.Handle)
	}
	c.index = ev.Index
	c.edges = edges
	if ev.Handle != "" && edges.Any() {
		c.transition(StateResizing)
	} else {
		c.transition(StateDragging)
	}
	return Result{State: c.state}, nil
}

func (c *Controller) move(ev Event) (Result, error) {
	if c.state == StateIdle || ev.Index != c.index {
		return Result{State: c.state}, nil
	}
	frame := c.frame()
	if !frame.Valid() {
		c.logger.Debug("move deferred until the canvas is laid out", "index", c.index)
		return Result{State: c.state, Deferred: true}, nil
	}

	state := c.state
	edges := c.edges
	changed := true
	err := c.store.Update(c.index, func(a *models.FocusArea) {
		switch {
		case a.Shape == models.ShapePolygon && state == StateDragging:
			a.Points = geometry.ClampPoints(geometry.Translate(a.Points, ev.DX, ev.DY), frame)
		case a.Shape == models.ShapePolygon:
			// polygons have no resize handles
			changed = false
		case state == StateDragging:
			px := geometry.ToPixels(a.Rect, frame)
			px.X += ev.DX
			px.Y += ev.DY
			a.Rect = geometry.ToFraction(geometry.ClampRect(px, frame), frame)
		default:
			px := geometry.ToPixels(a.Rect, frame)
			a.Rect = geometry.ToFraction(geometry.Resize(px, edges, ev.DX, ev.DY, MinSize, frame), frame)
		}
	})
	if err != nil {
		c.reset()
		return Result{State: c.state}, err
	}
	return Result{State: c.state, Changed: changed}, nil
}

func (c *Controller) release(ev Event) (Result, error) {
	if c.state == StateIdle {
		return Result{State: c.state}, nil
	}
	index := c.index
	c.reset()

	area, err := c.store.Area(index)
	if err != nil {
		return Result{State: c.state}, err
	}
	if !area.Active {
		return Result{State: c.state}, nil
	}
	if err := c.store.Toggle(index); err != nil {
		return Result{State: c.state}, err
	}
	return Result{State: c.state, Toggled: true}, nil
}

func (c *Controller) reset() {
	c.index = -1
	c.edges = geometry.Edges{}
	c.transition(StateIdle)
}

func (c *Controller) transition(next State) {
	prev := c.state
	if prev == next {
		return
	}
	c.state = next
	c.logger.Debug("gesture state", "from", prev, "to", next, "index", c.index)
	for _, l := range c.listeners {
		l(prev, next)
	}
}

// HandleEdges maps a compass handle name ("n", "se", ...) to edges.
func HandleEdges(handle string) geometry.Edges {
	var e geometry.Edges
	for _, r := range handle {
		switch r {
		case 'n':
			e.Top = true
		case 's':
			e.Bottom = true
		case 'e':
			e.Right = true
		case 'w':
			e.Left = true
		}
	}
	return e
}
