package processor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"focuspoint-editor/internal/typolink"
)

// Image is the render-ready view of one image and its focus areas.
type Image struct {
	Width  int              `json:"width"`
	Height int              `json:"height"`
	Areas  []map[string]any `json:"areas"`
}

// ============================================================
// Frontend processing
// ============================================================

// Process decodes the persisted focus areas of an image for templates.
// Every typed link with a target adds a "<field>Target" entry and polygon
// areas get a "path" attribute ("x,y x,y ..."). Blank or malformed input
// yields no areas.
func Process(persisted string, width, height int) Image {
	img := Image{Width: width, Height: height, Areas: []map[string]any{}}

	areas, err := decode(persisted)
	if err != nil {
		return img
	}
	for _, area := range areas {
		extra := map[string]any{}
		for name, value := range area {
			s, ok := value.(string)
			if !ok || !typolink.IsTyped(s) {
				continue
			}
			if target := typolink.Decode(s).Target; target != "" {
				extra[name+"Target"] = target
			}
		}
		for k, v := range extra {
			area[k] = v
		}
		if path, ok := pathAttribute(area["points"]); ok {
			area["path"] = path
		}
		img.Areas = append(img.Areas, area)
	}
	return img
}

func decode(persisted string) ([]map[string]any, error) {
	data := bytes.TrimSpace([]byte(persisted))
	if len(data) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var areas []map[string]any
	if err := dec.Decode(&areas); err != nil {
		return nil, fmt.Errorf("decode focus areas: %w", err)
	}
	return areas, nil
}

// pathAttribute joins [[x,y],...] into "x,y x,y". Numbers keep their
// persisted text.
func pathAttribute(v any) (string, bool) {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return "", false
	}
	pairs := make([]string, 0, len(list))
	for _, item := range list {
		xy, ok := item.([]any)
		if !ok {
			return "", false
		}
		coords := make([]string, 0, len(xy))
		for _, c := range xy {
			coords = append(coords, fmt.Sprint(c))
		}
		pairs = append(pairs, strings.Join(coords, ","))
	}
	return strings.Join(pairs, " "), true
}
