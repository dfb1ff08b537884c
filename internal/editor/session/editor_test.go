package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floorplanner/internal/editor/drawing"
	"floorplanner/internal/editor/geometry"
	"floorplanner/internal/editor/models"
	"floorplanner/internal/editor/transform"
)

func newEditor(t *testing.T) *Editor {
	t.Helper()
	e := NewEditor(models.DefaultSettings(), nil, DefaultOptions())
	_, err := e.AddZone(models.Zone{ID: "z1", ZoneID: "living", Name: "Living", X: 0, Y: 0, Width: 400, Height: 300})
	require.NoError(t, err)
	_, err = e.AddZone(models.Zone{ID: "z2", ZoneID: "kitchen", Name: "Kitchen", X: 400, Y: 0, Width: 200, Height: 300})
	require.NoError(t, err)
	e.ClearHistory()
	return e
}

func TestAddFurnitureAssignsZone(t *testing.T) {
	e := newEditor(t)

	f, err := e.AddFurniture(models.FurnitureItem{Name: "Sofa", X: 10, Y: 10, Width: 100, Height: 50, Rotation: 450})
	require.NoError(t, err)

	assert.NotEmpty(t, f.ID)
	assert.Equal(t, "living", f.ZoneID)
	assert.Equal(t, 90.0, f.Rotation)
	assert.Equal(t, "Add Sofa", e.UndoName())

	require.True(t, e.Undo())
	assert.Empty(t, e.Document().Furniture)
}

func TestMovingFurnitureReassignsZone(t *testing.T) {
	e := newEditor(t)
	f, _ := e.AddFurniture(models.FurnitureItem{Name: "Chair", X: 10, Y: 10, Width: 40, Height: 40})

	require.NoError(t, e.UpdateFurniture(f.ID, models.FurnitureUpdate{X: models.Ptr(450.0)}))
	moved, _ := e.Document().FurnitureItem(f.ID)
	assert.Equal(t, "kitchen", moved.ZoneID)

	require.True(t, e.Undo())
	back, _ := e.Document().FurnitureItem(f.ID)
	assert.Equal(t, 10.0, back.X)
	assert.Equal(t, "living", back.ZoneID)
}

func TestRemovingZoneIsOneUndoStep(t *testing.T) {
	e := newEditor(t)
	f, _ := e.AddFurniture(models.FurnitureItem{Name: "Fridge", X: 420, Y: 10, Width: 60, Height: 60})
	before := e.Document()

	require.NoError(t, e.RemoveZone("z2"))
	orphan, _ := e.Document().FurnitureItem(f.ID)
	assert.Empty(t, orphan.ZoneID)

	require.True(t, e.Undo())
	assert.Equal(t, before, e.Document())
}

func TestAutoAssign(t *testing.T) {
	e := newEditor(t)
	f, _ := e.AddFurniture(models.FurnitureItem{Name: "Desk", X: 10, Y: 10, Width: 40, Height: 40})
	require.NoError(t, e.UpdateFurniture(f.ID, models.FurnitureUpdate{ZoneID: models.Ptr("kitchen")}))

	assert.Equal(t, 1, e.AutoAssign())
	desk, _ := e.Document().FurnitureItem(f.ID)
	assert.Equal(t, "living", desk.ZoneID)
	assert.Equal(t, 0, e.AutoAssign())
}

func TestImportZonesReplacesLayout(t *testing.T) {
	e := newEditor(t)
	f, _ := e.AddFurniture(models.FurnitureItem{Name: "Bed", X: 10, Y: 10, Width: 40, Height: 40})
	before := e.Document()

	report := e.ImportZones([]models.Zone{
		{ZoneID: "bedroom", Name: "Bedroom", X: 0, Y: 0, Width: 300, Height: 300},
		{ZoneID: "copy", Name: "Copy", X: 0, Y: 0, Width: 300, Height: 300},
		{ZoneID: "nook", Name: "Nook", X: 600, Y: 600, Width: 10, Height: 10},
	})

	assert.Equal(t, []string{"copy"}, report.Dropped)
	doc := e.Document()
	require.Len(t, doc.Zones, 2)
	assert.Equal(t, "bedroom", doc.Zones[0].ZoneID)
	assert.Equal(t, 50.0, doc.Zones[1].Width)
	bed, _ := doc.FurnitureItem(f.ID)
	assert.Equal(t, "bedroom", bed.ZoneID)

	require.True(t, e.Undo())
	assert.Equal(t, before, e.Document())
}

func TestEditorErrors(t *testing.T) {
	e := newEditor(t)

	assert.ErrorIs(t, e.UpdateZone("missing", models.ZoneUpdate{X: models.Ptr(1.0)}), ErrNotFound)
	assert.ErrorIs(t, e.RemoveFurniture("missing"), ErrNotFound)
	assert.ErrorIs(t, e.UpdateZone("z1", models.ZoneUpdate{Width: models.Ptr(0.0)}), ErrInvalidGeometry)
	_, err := e.AddZone(models.Zone{ZoneID: "living", Width: 10, Height: 10})
	assert.ErrorIs(t, err, ErrDuplicateZone)
	_, err = e.AddFurniture(models.FurnitureItem{Width: -1, Height: 10})
	assert.ErrorIs(t, err, ErrInvalidGeometry)
	_, err = e.AddShape(models.DiagramShape{Kind: "hexagon"})
	assert.ErrorIs(t, err, models.ErrInvalidShape)
	_, _, err = e.SuggestPlacement("attic", geometry.Size{Width: 10, Height: 10}, 0)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.False(t, e.CanUndo())
}

func TestDrawingGoesThroughHistory(t *testing.T) {
	e := newEditor(t)
	require.True(t, e.SetTool(drawing.ToolRectangle))

	e.PointerDown(&models.Point{X: 10, Y: 10}, "")
	e.PointerMove(&models.Point{X: 30, Y: 30})
	e.PointerMove(&models.Point{X: 50, Y: 40})
	st := e.PointerUp()
	assert.False(t, st.Drawing)

	doc := e.Document()
	require.Len(t, doc.Shapes, 1)
	assert.Equal(t, 40.0, doc.Shapes[0].Width)
	assert.Equal(t, 30.0, doc.Shapes[0].Height)

	// the two moves merged into one entry after the add
	assert.Len(t, e.History(), 2)
	require.True(t, e.Undo())
	assert.Equal(t, 0.0, e.Document().Shapes[0].Width)
	require.True(t, e.Undo())
	assert.Empty(t, e.Document().Shapes)
}

func TestTextToolNeedsText(t *testing.T) {
	e := newEditor(t)
	e.SetTool(drawing.ToolText)

	e.PointerDown(&models.Point{X: 1, Y: 1}, "")
	assert.Empty(t, e.Document().Shapes)

	e.PointerDown(&models.Point{X: 1, Y: 1}, "Balcony door")
	require.Len(t, e.Document().Shapes, 1)
	assert.Equal(t, "Balcony door", e.Document().Shapes[0].Text)
}

func TestDuplicateShape(t *testing.T) {
	e := newEditor(t)
	s, err := e.AddShape(models.DiagramShape{Kind: models.ShapeCircle, X: 5, Y: 5, Radius: 3})
	require.NoError(t, err)

	dup, err := e.DuplicateShape(s.ID)
	require.NoError(t, err)
	assert.Equal(t, 25.0, dup.X)
	assert.Len(t, e.Document().Shapes, 2)
}

func TestTransformCommitsThroughHistory(t *testing.T) {
	e := newEditor(t)
	f, _ := e.AddFurniture(models.FurnitureItem{Name: "Sofa", X: 10, Y: 10, Width: 100, Height: 50})

	require.NoError(t, e.Select(transform.ModeFurniture, f.ID))
	_, ok := e.Transform().Drag(452, 98)
	require.True(t, ok)
	require.True(t, e.Transform().EndDrag())

	moved, _ := e.Document().FurnitureItem(f.ID)
	assert.Equal(t, 450.0, moved.X)
	assert.Equal(t, 100.0, moved.Y)
	assert.Equal(t, "kitchen", moved.ZoneID)

	assert.ErrorIs(t, e.Select(transform.ModeZones, "nope"), ErrNotFound)
}

func TestSelectionFollowsUndo(t *testing.T) {
	e := newEditor(t)
	f, _ := e.AddFurniture(models.FurnitureItem{Name: "Sofa", X: 10, Y: 10, Width: 100, Height: 50})

	require.NoError(t, e.Select(transform.ModeFurniture, f.ID))
	e.Transform().Drag(300, 200)
	require.True(t, e.Transform().EndDrag())

	require.True(t, e.Undo())
	sel, ok := e.Transform().Selection()
	require.True(t, ok)
	assert.Equal(t, models.Rect{X: 10, Y: 10, Width: 100, Height: 50}, sel.Box)

	e.Transform().Resize(1.2, 1)
	require.True(t, e.Transform().EndResize())

	sofa, _ := e.Document().FurnitureItem(f.ID)
	assert.Equal(t, 10.0, sofa.X)
	assert.Equal(t, 10.0, sofa.Y)
	assert.Equal(t, 120.0, sofa.Width)

	// undoing the resize and then the add leaves nothing to select
	require.True(t, e.Undo())
	require.True(t, e.Undo())
	require.Empty(t, e.Document().Furniture)
	_, ok = e.Transform().Selection()
	assert.False(t, ok)
}

func TestImportZonesDropsRepeatedZoneIDs(t *testing.T) {
	e := newEditor(t)
	zones := []models.Zone{
		{ZoneID: "room", Name: "Room", X: 0, Y: 0, Width: 200, Height: 200},
		{ZoneID: "room", Name: "Room again", X: 500, Y: 500, Width: 200, Height: 200},
		{Name: "Hall", X: 300, Y: 0, Width: 100, Height: 100},
	}

	report := e.ImportZones(zones)
	assert.Equal(t, []string{"room"}, report.Dropped)

	doc := e.Document()
	require.Len(t, doc.Zones, 2)
	assert.Equal(t, "Room", doc.Zones[0].Name)
	assert.Equal(t, "Hall", doc.Zones[1].Name)
	assert.NotEmpty(t, doc.Zones[1].ZoneID)

	// the caller's slice is left alone
	assert.Empty(t, zones[0].ID)
	assert.Empty(t, zones[2].ZoneID)
}
