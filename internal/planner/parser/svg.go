package parser

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strings"

	"floorplanner/internal/editor/models"
)

// ============================================================
// XML Structures
// ============================================================

type SVG struct {
	XMLName xml.Name `xml:"svg"`
	Rects   []Rect   `xml:"rect"`
	Paths   []Path   `xml:"path"`
	Groups  []Group  `xml:"g"`
}

// Group is a <g> element. Exporters often nest rooms inside layers.
type Group struct {
	Rects  []Rect  `xml:"rect"`
	Paths  []Path  `xml:"path"`
	Groups []Group `xml:"g"`
}

type Rect struct {
	ID     string  `xml:"id,attr"`
	X      float64 `xml:"x,attr"`
	Y      float64 `xml:"y,attr"`
	Width  float64 `xml:"width,attr"`
	Height float64 `xml:"height,attr"`
}

type Path struct {
	ID string `xml:"id,attr"`
	D  string `xml:"d,attr"`
}

// ============================================================
// Room elements
// ============================================================

type RoomKind string

const (
	KindRoom    RoomKind = "room"
	KindBalcony RoomKind = "balcony"
)

// RoomElement is a room or balcony found in an SVG plan, reduced to its
// bounding box.
type RoomElement struct {
	ID     string
	Kind   RoomKind
	Bounds models.Rect
}

// ParseRooms reads an SVG plan and returns every room and balcony element.
// Walls, doors and windows are ignored. Paths that cannot be parsed are
// skipped.
func ParseRooms(r io.Reader) ([]RoomElement, error) {
	var svg SVG
	decoder := xml.NewDecoder(r)
	if err := decoder.Decode(&svg); err != nil {
		return nil, fmt.Errorf("decode svg: %w", err)
	}

	var out []RoomElement
	collect(&out, svg.Rects, svg.Paths)
	for _, g := range svg.Groups {
		collectGroup(&out, g)
	}
	return out, nil
}

func collectGroup(out *[]RoomElement, g Group) {
	collect(out, g.Rects, g.Paths)
	for _, child := range g.Groups {
		collectGroup(out, child)
	}
}

func collect(out *[]RoomElement, rects []Rect, paths []Path) {
	for _, rect := range rects {
		kind := ClassifyID(rect.ID)
		if kind == "" || rect.Width <= 0 || rect.Height <= 0 {
			continue
		}
		*out = append(*out, RoomElement{
			ID:     rect.ID,
			Kind:   kind,
			Bounds: models.Rect{X: rect.X, Y: rect.Y, Width: rect.Width, Height: rect.Height},
		})
	}

	for _, path := range paths {
		kind := ClassifyID(path.ID)
		if kind == "" {
			continue
		}
		points, err := ParsePath(path.D)
		if err != nil || len(points) < 2 {
			continue
		}
		bounds := boundingBox(points)
		if bounds.Width <= 0 || bounds.Height <= 0 {
			continue
		}
		*out = append(*out, RoomElement{ID: path.ID, Kind: kind, Bounds: bounds})
	}
}

// ClassifyID maps an element id onto a room kind using the plan naming
// convention: Room_*, *_room, *_Room for rooms and Balcony* for balconies.
func ClassifyID(id string) RoomKind {
	if strings.HasPrefix(id, "Room_") ||
		strings.HasSuffix(id, "_room") ||
		strings.HasSuffix(id, "_Room") {
		return KindRoom
	}
	if strings.HasPrefix(id, "Balcony") {
		return KindBalcony
	}
	return ""
}

func boundingBox(points []models.Point) models.Rect {
	minX, minY := math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64
	for _, p := range points {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return models.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
