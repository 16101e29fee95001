package processor

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"focuspoint-editor/internal/editor/models"
)

// ============================================================
// Path Parser
// ============================================================

var commandRe = regexp.MustCompile(`([MmLlHhVvZz])([^MmLlHhVvZz]*)`)

// ParsePath reads polygon vertices from either a points list ("x,y x,y ...")
// or an SVG path built from M, L, H, V and Z commands. Z does not repeat the
// first vertex.
func ParsePath(d string) ([]models.Point, error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return nil, fmt.Errorf("empty path")
	}
	if !commandRe.MatchString(d) {
		return parsePointList(d)
	}

	var (
		points []models.Point
		x, y   float64
	)
	for _, match := range commandRe.FindAllStringSubmatch(d, -1) {
		cmd := match[1]
		coords := parseCoords(match[2])

		switch cmd {
		case "M", "L":
			for i := 0; i+1 < len(coords); i += 2 {
				x, y = coords[i], coords[i+1]
				points = append(points, models.Point{x, y})
			}
		case "m", "l":
			for i := 0; i+1 < len(coords); i += 2 {
				x += coords[i]
				y += coords[i+1]
				points = append(points, models.Point{x, y})
			}
		case "H", "h":
			for _, c := range coords {
				if cmd == "H" {
					x = c
				} else {
					x += c
				}
				points = append(points, models.Point{x, y})
			}
		case "V", "v":
			for _, c := range coords {
				if cmd == "V" {
					y = c
				} else {
					y += c
				}
				points = append(points, models.Point{x, y})
			}
		}
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("path %q has no vertices", d)
	}
	return points, nil
}

// FormatPath is the inverse of the points list form of ParsePath.
func FormatPath(points []models.Point) string {
	pairs := make([]string, len(points))
	for i, p := range points {
		pairs[i] = strconv.FormatFloat(p[0], 'f', -1, 64) + "," + strconv.FormatFloat(p[1], 'f', -1, 64)
	}
	return strings.Join(pairs, " ")
}

func parsePointList(s string) ([]models.Point, error) {
	var points []models.Point
	for _, pair := range strings.Fields(s) {
		xy := strings.Split(pair, ",")
		if len(xy) != 2 {
			return nil, fmt.Errorf("invalid vertex %q", pair)
		}
		x, err := strconv.ParseFloat(xy[0], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid vertex %q: %w", pair, err)
		}
		y, err := strconv.ParseFloat(xy[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid vertex %q: %w", pair, err)
		}
		points = append(points, models.Point{x, y})
	}
	return points, nil
}

func parseCoords(s string) []float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, ",", " ")

	var coords []float64
	for _, part := range strings.Fields(s) {
		val, err := strconv.ParseFloat(part, 64)
		if err == nil {
			coords = append(coords, val)
		}
	}
	return coords
}
