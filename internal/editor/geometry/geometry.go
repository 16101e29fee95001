package geometry

import (
	"math"

	"focuspoint-editor/internal/editor/models"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
)

// ============================================================
// Defaults
// ============================================================

const (
	MinRectSize    = 50.0
	MinPolygonSide = 20.0

	fallbackOffset  = 20.0
	fallbackWidth   = 200.0
	fallbackHeight  = 150.0
	fallbackPolygon = 200.0

	defaultRectShare    = 0.25
	defaultPolygonShare = 0.2
)

// NominalFrame normalizes geometry that was built before the canvas was laid out.
var NominalFrame = models.Frame{Width: 800, Height: 600}

// CreateRect builds the default rectangle for a new focus area in pixel space.
func CreateRect(cfg models.WizardConfig, frame models.Frame) models.Rect {
	if !frame.Valid() {
		width := fallbackWidth
		height := fallbackHeight
		if v, ok := models.ParseDimension(cfg.DefaultWidth); ok {
			width = dimension(v, NominalFrame.Width)
		}
		if v, ok := models.ParseDimension(cfg.DefaultHeight); ok {
			height = dimension(v, NominalFrame.Height)
		}
		return models.Rect{
			X:      fallbackOffset,
			Y:      fallbackOffset,
			Width:  math.Max(MinRectSize, width),
			Height: math.Max(MinRectSize, height),
		}
	}

	width := math.Round(frame.Width * defaultRectShare)
	height := math.Round(frame.Height * defaultRectShare)
	if v, ok := models.ParseDimension(cfg.DefaultWidth); ok {
		width = dimension(v, frame.Width)
	}
	if v, ok := models.ParseDimension(cfg.DefaultHeight); ok {
		height = dimension(v, frame.Height)
	}
	width = math.Max(MinRectSize, width)
	height = math.Max(MinRectSize, height)

	x := math.Round((frame.Width - width) / 2)
	y := math.Round((frame.Height - height) / 2)
	x = math.Max(0, math.Min(x, math.Max(0, frame.Width-width)))
	y = math.Max(0, math.Min(y, math.Max(0, frame.Height-height)))

	return models.Rect{X: x, Y: y, Width: width, Height: height}
}

// dimension treats values up to 1 as a share of total and larger values as pixels.
func dimension(v, total float64) float64 {
	if v <= 1 {
		return math.Round(v * total)
	}
	return v
}

// CreatePolygon builds the default square polygon: TL, TR, BR, BL.
func CreatePolygon(frame models.Frame) []models.Point {
	side := fallbackPolygon
	if frame.Valid() {
		side = math.Round(math.Min(frame.Width, frame.Height) * defaultPolygonShare)
	}
	side = math.Max(MinPolygonSide, side)

	cx := fallbackOffset + side/2
	cy := fallbackOffset + side/2
	if frame.Valid() {
		cx = math.Round(frame.Width / 2)
		cy = math.Round(frame.Height / 2)
	}

	half := math.Floor(side / 2)
	return []models.Point{
		{cx - half, cy - half},
		{cx + half, cy - half},
		{cx + half, cy + half},
		{cx - half, cy + half},
	}
}

// ============================================================
// Conversion
// ============================================================

// ToPixels converts fraction geometry to pixels. An invalid frame returns r unchanged.
func ToPixels(r models.Rect, frame models.Frame) models.Rect {
	if !frame.Valid() {
		return r
	}
	return models.Rect{
		X:      r.X * frame.Width,
		Y:      r.Y * frame.Height,
		Width:  r.Width * frame.Width,
		Height: r.Height * frame.Height,
	}
}

// ToFraction converts pixel geometry to fractions. An invalid frame returns r unchanged.
func ToFraction(r models.Rect, frame models.Frame) models.Rect {
	if !frame.Valid() {
		return r
	}
	return models.Rect{
		X:      r.X / frame.Width,
		Y:      r.Y / frame.Height,
		Width:  r.Width / frame.Width,
		Height: r.Height / frame.Height,
	}
}

// Normalize is ToFraction with NominalFrame standing in for an unknown frame.
func Normalize(r models.Rect, frame models.Frame) models.Rect {
	if !frame.Valid() {
		frame = NominalFrame
	}
	return ToFraction(r, frame)
}

// ============================================================
// Containment
// ============================================================

func toR2(r models.Rect) r2.Rect {
	return r2.Rect{
		X: r1.Interval{Lo: r.X, Hi: r.X + r.Width},
		Y: r1.Interval{Lo: r.Y, Hi: r.Y + r.Height},
	}
}

func fromR2(r r2.Rect) models.Rect {
	lo, size := r.Lo(), r.Size()
	return models.Rect{X: lo.X, Y: lo.Y, Width: size.X, Height: size.Y}
}

// ClampRect moves a pixel rect inside the frame, shrinking it when it is larger.
func ClampRect(r models.Rect, frame models.Frame) models.Rect {
	if !frame.Valid() {
		return r
	}
	rr := toR2(r)
	rr.X = clampInterval(rr.X, frame.Width)
	rr.Y = clampInterval(rr.Y, frame.Height)
	return fromR2(rr)
}

func clampInterval(iv r1.Interval, limit float64) r1.Interval {
	length := iv.Length()
	if length > limit {
		return r1.Interval{Lo: 0, Hi: limit}
	}
	lo := math.Max(0, math.Min(iv.Lo, limit-length))
	return r1.Interval{Lo: lo, Hi: lo + length}
}

// Contains reports whether the pixel rect lies fully inside the frame.
func Contains(frame models.Frame, r models.Rect) bool {
	const eps = 1e-9
	return r.X >= -eps && r.Y >= -eps &&
		r.X+r.Width <= frame.Width+eps && r.Y+r.Height <= frame.Height+eps
}

// Bounds returns the bounding box of the vertices.
func Bounds(points []models.Point) r2.Rect {
	if len(points) == 0 {
		return r2.EmptyRect()
	}
	pts := make([]r2.Point, len(points))
	for i, p := range points {
		pts[i] = r2.Point{X: p[0], Y: p[1]}
	}
	return r2.RectFromPoints(pts...)
}

// Translate moves every vertex by (dx, dy).
func Translate(points []models.Point, dx, dy float64) []models.Point {
	out := make([]models.Point, len(points))
	for i, p := range points {
		out[i] = models.Point{p[0] + dx, p[1] + dy}
	}
	return out
}

// ClampPoints translates the polygon so its bounding box lies inside the frame.
// A polygon larger than the frame is pinned to the top-left corner.
func ClampPoints(points []models.Point, frame models.Frame) []models.Point {
	if !frame.Valid() || len(points) == 0 {
		return points
	}
	b := Bounds(points)
	target := toR2(ClampRect(fromR2(b), frame))
	shift := target.Lo().Sub(b.Lo())
	if shift.X == 0 && shift.Y == 0 {
		return points
	}
	return Translate(points, shift.X, shift.Y)
}

// ============================================================
// Resizing
// ============================================================

// Edges marks the sides of a rect that follow the pointer.
type Edges struct {
	Left   bool `json:"left"`
	Right  bool `json:"right"`
	Top    bool `json:"top"`
	Bottom bool `json:"bottom"`
}

// Any reports whether at least one edge is set.
func (e Edges) Any() bool {
	return e.Left || e.Right || e.Top || e.Bottom
}

// Resize moves the flagged edges of a pixel rect by (dx, dy). Neither side
// shrinks below minSize and the result is clamped into the frame.
func Resize(r models.Rect, e Edges, dx, dy, minSize float64, frame models.Frame) models.Rect {
	rr := toR2(r)
	rr.X = resizeInterval(rr.X, e.Left, e.Right, dx, minSize, frame.Width)
	rr.Y = resizeInterval(rr.Y, e.Top, e.Bottom, dy, minSize, frame.Height)
	return ClampRect(fromR2(rr), frame)
}

func resizeInterval(iv r1.Interval, lo, hi bool, d, minSize, limit float64) r1.Interval {
	if lo {
		iv.Lo = math.Max(0, iv.Lo+d)
		iv.Lo = math.Min(iv.Lo, iv.Hi-minSize)
	}
	if hi {
		iv.Hi = math.Min(limit, iv.Hi+d)
		iv.Hi = math.Max(iv.Hi, iv.Lo+minSize)
	}
	return iv
}
