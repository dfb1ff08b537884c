package geometry

import (
	"math"

	"floorplanner/internal/editor/models"
)

// ============================================================
// Rectangle math
// ============================================================

// RectanglesOverlap reports whether a and b share interior area. Touching
// edges do not count.
func RectanglesOverlap(a, b models.Rect) bool {
	return a.X < b.Right() && b.X < a.Right() &&
		a.Y < b.Bottom() && b.Y < a.Bottom()
}

// OverlapArea returns the area of the intersection of a and b, 0 if disjoint.
func OverlapArea(a, b models.Rect) float64 {
	w := math.Min(a.Right(), b.Right()) - math.Max(a.X, b.X)
	h := math.Min(a.Bottom(), b.Bottom()) - math.Max(a.Y, b.Y)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Contains reports whether inner lies completely inside outer.
func Contains(outer, inner models.Rect) bool {
	return inner.X >= outer.X && inner.Y >= outer.Y &&
		inner.Right() <= outer.Right() && inner.Bottom() <= outer.Bottom()
}

func Distance(a, b models.Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ============================================================
// Zone assignment
// ============================================================

// DefaultMinOverlapRatio is the share of a furniture item's area that must
// lie inside a zone for the placement to count as valid.
const DefaultMinOverlapRatio = 0.8

type ZoneMatch struct {
	ZoneID         string   `json:"zoneId,omitempty"`
	ZoneName       string   `json:"zoneName,omitempty"`
	Found          bool     `json:"found"`
	MultipleZones  bool     `json:"multipleZones"`
	OverlappingIDs []string `json:"overlappingZoneIds"`
}

// DetectFurnitureZone picks the zone sharing the largest area with item.
// Exact ties resolve to the zone that comes first in zones.
func DetectFurnitureZone(item models.FurnitureItem, zones []models.Zone) ZoneMatch {
	match := ZoneMatch{OverlappingIDs: []string{}}
	best := 0.0
	r := item.Rect()

	for _, z := range zones {
		area := OverlapArea(r, z.Rect())
		if area <= 0 {
			continue
		}
		match.OverlappingIDs = append(match.OverlappingIDs, z.ZoneID)
		if area > best {
			best = area
			match.ZoneID = z.ZoneID
			match.ZoneName = z.Name
			match.Found = true
		}
	}

	match.MultipleZones = len(match.OverlappingIDs) > 1
	return match
}

// IsValidFurniturePlacement reports whether at least minOverlapRatio of the
// item's area lies inside zone.
func IsValidFurniturePlacement(item models.FurnitureItem, zone models.Zone, minOverlapRatio float64) bool {
	area := item.Rect().Area()
	if area <= 0 {
		return false
	}
	return OverlapArea(item.Rect(), zone.Rect())/area >= minOverlapRatio
}

// AutoAssignFurnitureToZones returns a copy of furniture with every ZoneID
// recomputed. Items overlapping no zone end up unassigned.
func AutoAssignFurnitureToZones(furniture []models.FurnitureItem, zones []models.Zone) []models.FurnitureItem {
	out := make([]models.FurnitureItem, len(furniture))
	for i, item := range furniture {
		item.ZoneID = DetectFurnitureZone(item, zones).ZoneID
		out[i] = item
	}
	return out
}

type Utilization struct {
	OccupiedArea float64 `json:"occupiedArea"`
	TotalArea    float64 `json:"totalArea"`
	Ratio        float64 `json:"ratio"`
	ItemCount    int     `json:"itemCount"`
}

// CalculateZoneUtilization sums the in-zone area of every item assigned to zone.
func CalculateZoneUtilization(zone models.Zone, furniture []models.FurnitureItem) Utilization {
	u := Utilization{TotalArea: zone.Rect().Area()}
	for _, item := range furniture {
		if item.ZoneID != zone.ZoneID {
			continue
		}
		u.ItemCount++
		u.OccupiedArea += OverlapArea(item.Rect(), zone.Rect())
	}
	if u.TotalArea > 0 {
		u.Ratio = u.OccupiedArea / u.TotalArea
	}
	return u
}

// ============================================================
// Placement search
// ============================================================

const DefaultPlacementStep = 5.0

const epsilon = 1e-9

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// SuggestFurniturePlacement scans the zone row by row from its top-left
// corner and returns the first position where an item of the given size
// overlaps none of existing. ok is false when the zone has no free spot.
func SuggestFurniturePlacement(size Size, zone models.Zone, existing []models.FurnitureItem, padding float64) (models.Point, bool) {
	return SuggestFurniturePlacementStep(size, zone, existing, padding, DefaultPlacementStep)
}

func SuggestFurniturePlacementStep(size Size, zone models.Zone, existing []models.FurnitureItem, padding, step float64) (models.Point, bool) {
	if step <= 0 || size.Width <= 0 || size.Height <= 0 {
		return models.Point{}, false
	}

	minX, minY := zone.X+padding, zone.Y+padding
	bounds := zone.Rect()
	maxX := bounds.Right() - padding - size.Width
	maxY := bounds.Bottom() - padding - size.Height

	for row := 0; minY+float64(row)*step <= maxY+epsilon; row++ {
		y := minY + float64(row)*step
		for col := 0; minX+float64(col)*step <= maxX+epsilon; col++ {
			x := minX + float64(col)*step
			candidate := models.Rect{X: x, Y: y, Width: size.Width, Height: size.Height}
			if !collides(candidate, existing) {
				return models.Point{X: x, Y: y}, true
			}
		}
	}
	return models.Point{}, false
}

func collides(r models.Rect, items []models.FurnitureItem) bool {
	for _, item := range items {
		if OverlapArea(r, item.Rect()) > 0 {
			return true
		}
	}
	return false
}
