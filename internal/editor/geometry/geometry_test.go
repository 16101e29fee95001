package geometry

import (
	"math"
	"testing"

	"focuspoint-editor/internal/editor/models"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestCreateRect_InvalidDefaultFallsBackToQuarter(t *testing.T) {
	cfg := models.WizardConfig{DefaultWidth: "0", DefaultHeight: "abc"}
	r := CreateRect(cfg, models.Frame{Width: 800, Height: 600})
	if r.Width != 200 || r.Height != 150 {
		t.Fatalf("expected 200x150, got %vx%v", r.Width, r.Height)
	}
	if r.X != 300 || r.Y != 225 {
		t.Fatalf("expected centered at 300,225, got %v,%v", r.X, r.Y)
	}
}

func TestCreateRect_MinimumSize(t *testing.T) {
	r := CreateRect(models.WizardConfig{}, models.Frame{Width: 100, Height: 80})
	if r.Width != MinRectSize || r.Height != MinRectSize {
		t.Fatalf("expected min size, got %vx%v", r.Width, r.Height)
	}
	if r.X != 25 || r.Y != 15 {
		t.Fatalf("unexpected origin %v,%v", r.X, r.Y)
	}
}

func TestCreateRect_ConfiguredPixelsAndFractions(t *testing.T) {
	frame := models.Frame{Width: 1000, Height: 500}
	r := CreateRect(models.WizardConfig{DefaultWidth: "300", DefaultHeight: "0.5"}, frame)
	if r.Width != 300 || r.Height != 250 {
		t.Fatalf("expected 300x250, got %vx%v", r.Width, r.Height)
	}
}

func TestCreateRect_LargerThanFrameIsPinned(t *testing.T) {
	r := CreateRect(models.WizardConfig{DefaultWidth: "900"}, models.Frame{Width: 400, Height: 400})
	if r.X != 0 {
		t.Fatalf("expected x clamped to 0, got %v", r.X)
	}
}

func TestCreateRect_NoFrame(t *testing.T) {
	r := CreateRect(models.WizardConfig{}, models.Frame{})
	want := models.Rect{X: 20, Y: 20, Width: 200, Height: 150}
	if r != want {
		t.Fatalf("expected %+v, got %+v", want, r)
	}
}

func TestCreatePolygon(t *testing.T) {
	pts := CreatePolygon(models.Frame{Width: 800, Height: 600})
	want := []models.Point{{340, 240}, {460, 240}, {460, 360}, {340, 360}}
	if len(pts) != 4 {
		t.Fatalf("expected 4 vertices, got %d", len(pts))
	}
	for i := range want {
		if pts[i] != want[i] {
			t.Fatalf("vertex %d: expected %v got %v", i, want[i], pts[i])
		}
	}

	pts = CreatePolygon(models.Frame{})
	if pts[0] != (models.Point{20, 20}) || pts[2] != (models.Point{220, 220}) {
		t.Fatalf("unexpected uncentered polygon %v", pts)
	}

	pts = CreatePolygon(models.Frame{Width: 50, Height: 40})
	b := Bounds(pts)
	if b.Size().X != MinPolygonSide {
		t.Fatalf("expected min side %v, got %v", MinPolygonSide, b.Size().X)
	}
}

func TestConversionRoundTrip(t *testing.T) {
	frame := models.Frame{Width: 640, Height: 480}
	px := models.Rect{X: 64, Y: 48, Width: 320, Height: 240}
	f := ToFraction(px, frame)
	if !approx(f.X, 0.1) || !approx(f.Width, 0.5) {
		t.Fatalf("unexpected fraction %+v", f)
	}
	back := ToPixels(f, frame)
	if !approx(back.X, px.X) || !approx(back.Height, px.Height) {
		t.Fatalf("round trip mismatch %+v", back)
	}
}

func TestConversionZeroFrameIsGuarded(t *testing.T) {
	r := models.Rect{X: 0.2, Y: 0.3, Width: 0.1, Height: 0.1}
	if got := ToPixels(r, models.Frame{}); got != r {
		t.Fatalf("expected unchanged, got %+v", got)
	}
	if got := ToFraction(r, models.Frame{Width: 0, Height: 10}); got != r {
		t.Fatalf("expected unchanged, got %+v", got)
	}
	n := Normalize(models.Rect{X: 20, Y: 20, Width: 200, Height: 150}, models.Frame{})
	if !approx(n.Width, 0.25) || !approx(n.Height, 0.25) {
		t.Fatalf("expected nominal normalization, got %+v", n)
	}
}

func TestClampRect(t *testing.T) {
	frame := models.Frame{Width: 100, Height: 100}
	cases := []struct {
		name string
		in   models.Rect
		want models.Rect
	}{
		{"inside", models.Rect{X: 10, Y: 10, Width: 20, Height: 20}, models.Rect{X: 10, Y: 10, Width: 20, Height: 20}},
		{"negative", models.Rect{X: -5, Y: -8, Width: 20, Height: 20}, models.Rect{X: 0, Y: 0, Width: 20, Height: 20}},
		{"overflow", models.Rect{X: 90, Y: 95, Width: 20, Height: 20}, models.Rect{X: 80, Y: 80, Width: 20, Height: 20}},
		{"too large", models.Rect{X: 30, Y: 0, Width: 150, Height: 10}, models.Rect{X: 0, Y: 0, Width: 100, Height: 10}},
	}
	for _, tc := range cases {
		got := ClampRect(tc.in, frame)
		if got != tc.want {
			t.Fatalf("%s: expected %+v got %+v", tc.name, tc.want, got)
		}
		if !Contains(frame, got) {
			t.Fatalf("%s: result not contained: %+v", tc.name, got)
		}
	}
}

func TestClampPoints(t *testing.T) {
	frame := models.Frame{Width: 100, Height: 100}
	pts := []models.Point{{90, 90}, {110, 90}, {110, 110}}
	got := ClampPoints(pts, frame)
	b := Bounds(got)
	if b.Hi().X != 100 || b.Hi().Y != 100 {
		t.Fatalf("expected bounds pinned to frame edge, got %v", b)
	}
	if got[0] != (models.Point{80, 80}) {
		t.Fatalf("expected translated vertex, got %v", got[0])
	}
}

func TestResize(t *testing.T) {
	frame := models.Frame{Width: 400, Height: 300}
	base := models.Rect{X: 100, Y: 100, Width: 100, Height: 100}
	cases := []struct {
		name   string
		edges  Edges
		dx, dy float64
		want   models.Rect
	}{
		{"grow right", Edges{Right: true}, 50, 0, models.Rect{X: 100, Y: 100, Width: 150, Height: 100}},
		{"drag left edge out", Edges{Left: true}, -30, 0, models.Rect{X: 70, Y: 100, Width: 130, Height: 100}},
		{"min size", Edges{Right: true, Bottom: true}, -95, -95, models.Rect{X: 100, Y: 100, Width: 10, Height: 10}},
		{"left edge min size", Edges{Left: true}, 200, 0, models.Rect{X: 190, Y: 100, Width: 10, Height: 100}},
		{"past the frame", Edges{Right: true, Top: true}, 500, -500, models.Rect{X: 100, Y: 0, Width: 300, Height: 200}},
	}
	for _, tc := range cases {
		got := Resize(base, tc.edges, tc.dx, tc.dy, 10, frame)
		if got != tc.want {
			t.Fatalf("%s: expected %+v got %+v", tc.name, tc.want, got)
		}
		if !Contains(frame, got) {
			t.Fatalf("%s: %+v escapes the frame", tc.name, got)
		}
	}
}
