package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"focuspoint-editor/internal/editor/models"
)

// ============================================================
// Serialization boundary
// ============================================================

const (
	keyX      = "x"
	keyY      = "y"
	keyWidth  = "width"
	keyHeight = "height"
	keyPoints = "points"
	keyActive = "active"

	legacyShape = "__shape"
	legacyData  = "__data"
)

func reserved(key string) bool {
	switch key {
	case keyX, keyY, keyWidth, keyHeight, keyPoints, keyActive, legacyShape, legacyData:
		return true
	}
	return false
}

// DecodeAreas parses the hidden-field JSON. An empty or blank input is an empty list.
func DecodeAreas(data []byte) ([]models.FocusArea, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []models.FocusArea{}, nil
	}
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode focus areas: %w", err)
	}
	areas := make([]models.FocusArea, 0, len(raw))
	for i, obj := range raw {
		area, err := decodeArea(obj)
		if err != nil {
			return nil, fmt.Errorf("focus area %d: %w", i, err)
		}
		areas = append(areas, area)
	}
	return areas, nil
}

func decodeArea(obj map[string]json.RawMessage) (models.FocusArea, error) {
	area := models.FocusArea{Shape: models.ShapeRect, Fields: map[string]*string{}}

	// legacy payloads nest geometry under __data with the shape in __shape
	if shapeRaw, ok := obj[legacyShape]; ok {
		var shape string
		if err := json.Unmarshal(shapeRaw, &shape); err == nil && models.Shape(shape).Valid() {
			area.Shape = models.Shape(shape)
		}
		if dataRaw, ok := obj[legacyData]; ok {
			var nested map[string]json.RawMessage
			if err := json.Unmarshal(dataRaw, &nested); err == nil {
				for k, v := range nested {
					if _, exists := obj[k]; !exists {
						obj[k] = v
					}
				}
			}
		}
	}

	if pts, ok := obj[keyPoints]; ok && !isNull(pts) {
		var points []models.Point
		if err := json.Unmarshal(pts, &points); err != nil {
			return area, fmt.Errorf("points: %w", err)
		}
		area.Shape = models.ShapePolygon
		area.Points = points
	} else {
		var err error
		if area.Rect.X, err = number(obj[keyX]); err != nil {
			return area, fmt.Errorf("x: %w", err)
		}
		if area.Rect.Y, err = number(obj[keyY]); err != nil {
			return area, fmt.Errorf("y: %w", err)
		}
		if area.Rect.Width, err = number(obj[keyWidth]); err != nil {
			return area, fmt.Errorf("width: %w", err)
		}
		if area.Rect.Height, err = number(obj[keyHeight]); err != nil {
			return area, fmt.Errorf("height: %w", err)
		}
	}

	for key, value := range obj {
		if reserved(key) {
			continue
		}
		area.Fields[key] = fieldValue(value)
	}
	return area, nil
}

// number reads a JSON number or numeric string. Absent and null are 0.
func number(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 || isNull(raw) {
		return 0, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, err
	}
	return strconv.ParseFloat(s, 64)
}

func fieldValue(raw json.RawMessage) *string {
	if isNull(raw) {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &s
	}
	v := string(bytes.TrimSpace(raw))
	return &v
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// EncodeAreas writes the persisted shape. Selection state is not persisted.
func EncodeAreas(areas []models.FocusArea) ([]byte, error) {
	out := make([]map[string]any, 0, len(areas))
	for _, area := range areas {
		obj := make(map[string]any, len(area.Fields)+4)
		for k, v := range area.Fields {
			if reserved(k) {
				continue
			}
			if v == nil {
				obj[k] = nil
				continue
			}
			obj[k] = *v
		}
		switch area.Shape {
		case models.ShapePolygon:
			points := area.Points
			if points == nil {
				points = []models.Point{}
			}
			obj[keyPoints] = points
		default:
			obj[keyX] = area.Rect.X
			obj[keyY] = area.Rect.Y
			obj[keyWidth] = area.Rect.Width
			obj[keyHeight] = area.Rect.Height
		}
		out = append(out, obj)
	}
	return json.Marshal(out)
}
