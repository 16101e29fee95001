package interaction

import (
	"errors"
	"math/rand"
	"testing"

	"focuspoint-editor/internal/editor/geometry"
	"focuspoint-editor/internal/editor/models"
	"focuspoint-editor/internal/editor/store"
)

var testFrame = models.Frame{Width: 400, Height: 300}

func newTestController(t *testing.T, frame *models.Frame, shapes ...models.Shape) (*Controller, *store.Store) {
	t.Helper()
	s := store.New(nil)
	source := func() models.Frame { return *frame }
	s.SetFrameSource(source)
	if err := s.Initialize(`{"fields":{"label":{"type":"text"}}}`, ""); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	for _, sh := range shapes {
		if _, err := s.Add(sh); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	return NewController(s, source, nil), s
}

func mustHandle(t *testing.T, c *Controller, ev Event) Result {
	t.Helper()
	res, err := c.Handle(ev)
	if err != nil {
		t.Fatalf("handle %+v: %v", ev, err)
	}
	return res
}

func pixels(t *testing.T, s *store.Store, index int) models.Rect {
	t.Helper()
	a, err := s.Area(index)
	if err != nil {
		t.Fatalf("area: %v", err)
	}
	return geometry.ToPixels(a.Rect, testFrame)
}

func TestController_DragRectClampsAndReleaseDeselects(t *testing.T) {
	frame := testFrame
	c, s := newTestController(t, &frame, models.ShapeRect)

	res := mustHandle(t, c, Event{Type: EventPress, Index: 0})
	if res.State != StateDragging {
		t.Fatalf("expected dragging, got %v", res.State)
	}
	before := pixels(t, s, 0)
	res = mustHandle(t, c, Event{Type: EventMove, Index: 0, DX: 1000, DY: 5})
	if !res.Changed {
		t.Fatalf("expected a change")
	}
	after := pixels(t, s, 0)
	if !approx(after.X+after.Width, testFrame.Width) || !approx(after.Y, before.Y+5) {
		t.Fatalf("expected rect pinned to the right edge, got %+v", after)
	}
	if !approx(after.Width, before.Width) {
		t.Fatalf("drag must not resize: %+v -> %+v", before, after)
	}

	res = mustHandle(t, c, Event{Type: EventRelease, Index: 0})
	if res.State != StateIdle || !res.Toggled {
		t.Fatalf("expected idle with toggle, got %+v", res)
	}
	if _, ok := s.Active(); ok {
		t.Fatalf("release on the active area should deactivate it")
	}

	mustHandle(t, c, Event{Type: EventPress, Index: 0})
	if res := mustHandle(t, c, Event{Type: EventRelease, Index: 0}); res.Toggled {
		t.Fatalf("release on an inactive area must not toggle it on")
	}
}

func TestController_GestureGuards(t *testing.T) {
	frame := testFrame
	c, s := newTestController(t, &frame, models.ShapeRect, models.ShapeRect)

	if _, err := c.Handle(Event{Type: EventPress, Index: 5}); !errors.Is(err, store.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	mustHandle(t, c, Event{Type: EventPress, Index: 0})
	if _, err := c.Handle(Event{Type: EventPress, Index: 1}); !errors.Is(err, ErrGestureInProgress) {
		t.Fatalf("expected ErrGestureInProgress, got %v", err)
	}
	other := pixels(t, s, 1)
	if res := mustHandle(t, c, Event{Type: EventMove, Index: 1, DX: 10}); res.Changed {
		t.Fatalf("moves for another area must be ignored")
	}
	if got := pixels(t, s, 1); got != other {
		t.Fatalf("area 1 changed: %+v -> %+v", other, got)
	}
	if _, err := c.Handle(Event{Type: "hover"}); !errors.Is(err, ErrUnknownEvent) {
		t.Fatalf("expected error for unknown event type")
	}
}

func TestController_DeferredWithoutFrame(t *testing.T) {
	frame := testFrame
	c, s := newTestController(t, &frame, models.ShapeRect)
	before, _ := s.Area(0)

	mustHandle(t, c, Event{Type: EventPress, Index: 0})
	frame = models.Frame{}
	res := mustHandle(t, c, Event{Type: EventMove, Index: 0, DX: 50})
	if !res.Deferred || res.Changed {
		t.Fatalf("expected deferred move, got %+v", res)
	}
	after, _ := s.Area(0)
	if after.Rect != before.Rect {
		t.Fatalf("deferred move changed geometry: %+v -> %+v", before.Rect, after.Rect)
	}
}

func TestController_ResizeEnforcesMinSize(t *testing.T) {
	frame := testFrame
	c, s := newTestController(t, &frame, models.ShapeRect)

	res := mustHandle(t, c, Event{Type: EventPress, Index: 0, Handle: "se"})
	if res.State != StateResizing {
		t.Fatalf("expected resizing, got %v", res.State)
	}
	before := pixels(t, s, 0)
	mustHandle(t, c, Event{Type: EventMove, Index: 0, DX: -1000, DY: -1000})
	after := pixels(t, s, 0)
	if !approx(after.Width, MinSize) || !approx(after.Height, MinSize) {
		t.Fatalf("expected %vpx minimum, got %+v", MinSize, after)
	}
	if !approx(after.X, before.X) || !approx(after.Y, before.Y) {
		t.Fatalf("south-east resize must keep the origin: %+v -> %+v", before, after)
	}
}

func TestController_Polygon(t *testing.T) {
	frame := testFrame
	c, s := newTestController(t, &frame, models.ShapePolygon)
	start, _ := s.Area(0)

	mustHandle(t, c, Event{Type: EventPress, Index: 0, Handle: "nw"})
	if res := mustHandle(t, c, Event{Type: EventMove, Index: 0, DX: 30}); res.Changed {
		t.Fatalf("polygons ignore resize")
	}
	mustHandle(t, c, Event{Type: EventRelease, Index: 0})

	mustHandle(t, c, Event{Type: EventPress, Index: 0})
	mustHandle(t, c, Event{Type: EventMove, Index: 0, DX: -1000, DY: 10})
	a, _ := s.Area(0)
	b := geometry.Bounds(a.Points)
	if !approx(b.X.Lo, 0) || !approx(b.Y.Lo, geometry.Bounds(start.Points).Y.Lo+10) {
		t.Fatalf("unexpected polygon bounds %+v", b)
	}
}

func TestController_ContainmentUnderRandomGestures(t *testing.T) {
	frame := testFrame
	c, s := newTestController(t, &frame, models.ShapeRect, models.ShapePolygon)
	rng := rand.New(rand.NewSource(7))
	handles := []string{"", "n", "s", "e", "w", "ne", "nw", "se", "sw"}

	for i := 0; i < 300; i++ {
		index := rng.Intn(2)
		mustHandle(t, c, Event{Type: EventPress, Index: index, Handle: handles[rng.Intn(len(handles))]})
		for j := 0; j < 3; j++ {
			mustHandle(t, c, Event{Type: EventMove, Index: index, DX: rng.Float64()*600 - 300, DY: rng.Float64()*600 - 300})
		}
		mustHandle(t, c, Event{Type: EventRelease, Index: index})

		rect := pixels(t, s, 0)
		if !geometry.Contains(testFrame, rect) {
			t.Fatalf("step %d: rect %+v escapes the frame", i, rect)
		}
		poly, _ := s.Area(1)
		b := geometry.Bounds(poly.Points)
		if !geometry.Contains(testFrame, models.Rect{X: b.X.Lo, Y: b.Y.Lo, Width: b.X.Length(), Height: b.Y.Length()}) {
			t.Fatalf("step %d: polygon %v escapes the frame", i, poly.Points)
		}
	}
}

func TestController_StateListener(t *testing.T) {
	frame := testFrame
	c, _ := newTestController(t, &frame, models.ShapeRect)
	var seen []State
	c.OnState(func(prev, next State) { seen = append(seen, next) })

	mustHandle(t, c, Event{Type: EventPress, Index: 0, Handle: "e"})
	mustHandle(t, c, Event{Type: EventRelease, Index: 0})
	mustHandle(t, c, Event{Type: EventPress, Index: 0})
	mustHandle(t, c, Event{Type: EventRelease, Index: 0})

	want := []State{StateResizing, StateIdle, StateDragging, StateIdle}
	if len(seen) != len(want) {
		t.Fatalf("expected %v got %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("expected %v got %v", want, seen)
		}
	}
}

func TestHandleEdges(t *testing.T) {
	if e := HandleEdges("ne"); !e.Top || !e.Right || e.Left || e.Bottom {
		t.Fatalf("unexpected edges %+v", e)
	}
	if HandleEdges("").Any() {
		t.Fatalf("body grab has no edges")
	}
}

func approx(a, b float64) bool {
	d := a - b
	return d < 1e-6 && d > -1e-6
}
