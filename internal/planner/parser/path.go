package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"floorplanner/internal/editor/models"
)

// ============================================================
// Path Parser
// ============================================================

var pathCommand = regexp.MustCompile(`([MmLlHhVvZz])([^MmLlHhVvZz]*)`)

// ParsePath turns the straight-line subset of SVG path data (M, L, H, V, Z
// in absolute and relative form) into points. Coordinate pairs repeated
// after a command are treated as implicit line-tos.
func ParsePath(d string) ([]models.Point, error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return nil, fmt.Errorf("empty path")
	}

	var points []models.Point
	var cur models.Point

	for _, match := range pathCommand.FindAllStringSubmatch(d, -1) {
		cmd := match[1]
		coords := parseCoords(match[2])

		switch cmd {
		case "M", "L":
			for i := 0; i+1 < len(coords); i += 2 {
				cur = models.Point{X: coords[i], Y: coords[i+1]}
				points = append(points, cur)
			}
		case "m", "l":
			for i := 0; i+1 < len(coords); i += 2 {
				cur = models.Point{X: cur.X + coords[i], Y: cur.Y + coords[i+1]}
				points = append(points, cur)
			}
		case "H":
			for _, x := range coords {
				cur.X = x
				points = append(points, cur)
			}
		case "h":
			for _, dx := range coords {
				cur.X += dx
				points = append(points, cur)
			}
		case "V":
			for _, y := range coords {
				cur.Y = y
				points = append(points, cur)
			}
		case "v":
			for _, dy := range coords {
				cur.Y += dy
				points = append(points, cur)
			}
		case "Z", "z":
			if len(points) > 0 {
				cur = points[0]
				points = append(points, cur)
			}
		}
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("path %q has no points", d)
	}
	return points, nil
}

func parseCoords(s string) []float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	// comma or whitespace separated
	s = strings.ReplaceAll(s, ",", " ")

	var coords []float64
	for _, part := range strings.Fields(s) {
		if val, err := strconv.ParseFloat(part, 64); err == nil {
			coords = append(coords, val)
		}
	}
	return coords
}
