package state

import (
	"slices"

	"floorplanner/internal/editor/models"
)

// ============================================================
// Document
// ============================================================

// Document holds the editable collections of one plan. It satisfies
// command.Target; everything outside the command package should treat it as
// read-only.
type Document struct {
	Zones     []models.Zone          `json:"zones"`
	Furniture []models.FurnitureItem `json:"furniture"`
	Shapes    []models.DiagramShape  `json:"shapes"`
}

func NewDocument() *Document {
	return &Document{
		Zones:     []models.Zone{},
		Furniture: []models.FurnitureItem{},
		Shapes:    []models.DiagramShape{},
	}
}

// Clone returns a deep copy. Nil collections come back empty.
func (d *Document) Clone() *Document {
	out := &Document{
		Zones:     append(make([]models.Zone, 0, len(d.Zones)), d.Zones...),
		Furniture: append(make([]models.FurnitureItem, 0, len(d.Furniture)), d.Furniture...),
		Shapes:    make([]models.DiagramShape, 0, len(d.Shapes)),
	}
	for _, s := range d.Shapes {
		out.Shapes = append(out.Shapes, s.Clone())
	}
	return out
}

// insertAt clamps index into [0, len]; negative means append.
func insertAt[T any](s []T, index int, v T) []T {
	if index < 0 || index > len(s) {
		index = len(s)
	}
	return slices.Insert(s, index, v)
}

// ============================================================
// Zones
// ============================================================

func (d *Document) InsertZone(index int, z models.Zone) {
	d.Zones = insertAt(d.Zones, index, z)
}

func (d *Document) PatchZone(id string, u models.ZoneUpdate) {
	if i := d.ZoneIndex(id); i >= 0 {
		d.Zones[i] = u.Apply(d.Zones[i])
	}
}

func (d *Document) DeleteZone(id string) {
	if i := d.ZoneIndex(id); i >= 0 {
		d.Zones = slices.Delete(d.Zones, i, i+1)
	}
}

func (d *Document) ZoneIndex(id string) int {
	return slices.IndexFunc(d.Zones, func(z models.Zone) bool { return z.ID == id })
}

func (d *Document) Zone(id string) (models.Zone, bool) {
	if i := d.ZoneIndex(id); i >= 0 {
		return d.Zones[i], true
	}
	return models.Zone{}, false
}

// ZoneByZoneID looks a zone up by its human-facing zoneId.
func (d *Document) ZoneByZoneID(zoneID string) (models.Zone, bool) {
	for _, z := range d.Zones {
		if z.ZoneID == zoneID {
			return z, true
		}
	}
	return models.Zone{}, false
}

// ============================================================
// Furniture
// ============================================================

func (d *Document) InsertFurniture(index int, f models.FurnitureItem) {
	d.Furniture = insertAt(d.Furniture, index, f)
}

func (d *Document) PatchFurniture(id string, u models.FurnitureUpdate) {
	if i := d.FurnitureIndex(id); i >= 0 {
		d.Furniture[i] = u.Apply(d.Furniture[i])
	}
}

func (d *Document) DeleteFurniture(id string) {
	if i := d.FurnitureIndex(id); i >= 0 {
		d.Furniture = slices.Delete(d.Furniture, i, i+1)
	}
}

func (d *Document) FurnitureIndex(id string) int {
	return slices.IndexFunc(d.Furniture, func(f models.FurnitureItem) bool { return f.ID == id })
}

func (d *Document) FurnitureItem(id string) (models.FurnitureItem, bool) {
	if i := d.FurnitureIndex(id); i >= 0 {
		return d.Furniture[i], true
	}
	return models.FurnitureItem{}, false
}

// FurnitureInZone returns the items currently assigned to zoneID.
func (d *Document) FurnitureInZone(zoneID string) []models.FurnitureItem {
	var out []models.FurnitureItem
	for _, f := range d.Furniture {
		if f.ZoneID == zoneID {
			out = append(out, f)
		}
	}
	return out
}

// ============================================================
// Shapes
// ============================================================

func (d *Document) InsertShape(index int, s models.DiagramShape) {
	d.Shapes = insertAt(d.Shapes, index, s)
}

func (d *Document) PatchShape(id string, u models.ShapeUpdate) {
	if i := d.ShapeIndex(id); i >= 0 {
		d.Shapes[i] = u.Apply(d.Shapes[i])
	}
}

func (d *Document) DeleteShape(id string) {
	if i := d.ShapeIndex(id); i >= 0 {
		d.Shapes = slices.Delete(d.Shapes, i, i+1)
	}
}

func (d *Document) ShapeIndex(id string) int {
	return slices.IndexFunc(d.Shapes, func(s models.DiagramShape) bool { return s.ID == id })
}

func (d *Document) Shape(id string) (models.DiagramShape, bool) {
	if i := d.ShapeIndex(id); i >= 0 {
		return d.Shapes[i].Clone(), true
	}
	return models.DiagramShape{}, false
}
