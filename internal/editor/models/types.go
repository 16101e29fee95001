package models

// ============================================================
// Shapes
// ============================================================

type Shape string

const (
	ShapeRect    Shape = "rect"
	ShapePolygon Shape = "polygon"
)

// Valid reports whether s is a known shape.
func (s Shape) Valid() bool {
	return s == ShapeRect || s == ShapePolygon
}

// ============================================================
// Geometry primitives
// ============================================================

// Rect is either fraction or pixel geometry depending on context.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Point is a polygon vertex in pixel space: [x, y].
type Point [2]float64

// Frame is the rendered image surface in pixels.
type Frame struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Valid reports whether the frame can be used for fraction/pixel conversion.
func (f Frame) Valid() bool {
	return f.Width > 0 && f.Height > 0
}

// ============================================================
// Focus areas
// ============================================================

type FocusArea struct {
	Shape  Shape
	Rect   Rect
	Points []Point
	Fields map[string]*string
	Active bool
}

// Clone returns a deep copy.
func (a FocusArea) Clone() FocusArea {
	out := a
	if a.Points != nil {
		out.Points = append([]Point(nil), a.Points...)
	}
	if a.Fields != nil {
		out.Fields = make(map[string]*string, len(a.Fields))
		for k, v := range a.Fields {
			if v == nil {
				out.Fields[k] = nil
				continue
			}
			s := *v
			out.Fields[k] = &s
		}
	}
	return out
}

// Value returns the field value and whether the key exists.
func (a FocusArea) Value(name string) (*string, bool) {
	v, ok := a.Fields[name]
	return v, ok
}

// StringPtr is a helper for optional field values.
func StringPtr(s string) *string { return &s }
