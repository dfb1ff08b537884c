package mapper

import (
	"fmt"
	"io"
	"strings"

	"floorplanner/internal/editor/models"
	"floorplanner/internal/planner/parser"
)

// ============================================================
// Layout import
// ============================================================

const (
	RoomColor    = "#e3f2fd"
	BalconyColor = "#e8f5e9"
)

// AnalysisLayout is what the image analysis service returns for a photo or
// scan of a plan. Coordinates are in its own units.
type AnalysisLayout struct {
	Width  float64        `json:"width,omitempty"`
	Height float64        `json:"height,omitempty"`
	Zones  []AnalysisZone `json:"zones"`
}

type AnalysisZone struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Type   string  `json:"type,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Color  string  `json:"color,omitempty"`
}

// Importer turns external layouts into zones. Validation against the canvas
// happens later, in the editor.
type Importer struct {
	// UnitScale converts source units to cm.
	UnitScale float64
}

func NewImporter() *Importer {
	return &Importer{UnitScale: 1}
}

func (im *Importer) scale() float64 {
	if im.UnitScale <= 0 {
		return 1
	}
	return im.UnitScale
}

// FromSVG reads rooms and balconies out of an SVG plan.
func (im *Importer) FromSVG(r io.Reader) ([]models.Zone, error) {
	rooms, err := parser.ParseRooms(r)
	if err != nil {
		return nil, fmt.Errorf("parse SVG: %w", err)
	}

	k := im.scale()
	zones := make([]models.Zone, 0, len(rooms))
	for _, room := range rooms {
		color := RoomColor
		if room.Kind == parser.KindBalcony {
			color = BalconyColor
		}
		zones = append(zones, models.Zone{
			ZoneID: zoneIDFromElement(room.ID),
			Name:   nameFromElement(room.ID),
			X:      room.Bounds.X * k,
			Y:      room.Bounds.Y * k,
			Width:  room.Bounds.Width * k,
			Height: room.Bounds.Height * k,
			Color:  color,
		})
	}
	return zones, nil
}

// FromLayout maps an analysis result onto zones.
func (im *Importer) FromLayout(layout AnalysisLayout) []models.Zone {
	k := im.scale()
	zones := make([]models.Zone, 0, len(layout.Zones))
	for i, az := range layout.Zones {
		zoneID := az.ID
		if zoneID == "" {
			zoneID = fmt.Sprintf("zone-%d", i+1)
		}
		name := az.Name
		if name == "" {
			name = zoneID
		}
		color := az.Color
		if color == "" {
			color = RoomColor
			if strings.EqualFold(az.Type, string(parser.KindBalcony)) {
				color = BalconyColor
			}
		}
		zones = append(zones, models.Zone{
			ZoneID: zoneID,
			Name:   name,
			X:      az.X * k,
			Y:      az.Y * k,
			Width:  az.Width * k,
			Height: az.Height * k,
			Color:  color,
		})
	}
	return zones
}

// nameFromElement strips the naming convention markers: Room_Kitchen and
// Kitchen_room both become Kitchen.
func nameFromElement(id string) string {
	name := strings.TrimPrefix(id, "Room_")
	name = strings.TrimSuffix(name, "_room")
	name = strings.TrimSuffix(name, "_Room")
	return strings.ReplaceAll(name, "_", " ")
}

func zoneIDFromElement(id string) string {
	return strings.ToLower(strings.ReplaceAll(nameFromElement(id), " ", "-"))
}
