package drawing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floorplanner/internal/editor/models"
)

// recorder applies callbacks to an in-memory shape list.
type recorder struct {
	shapes  []models.DiagramShape
	updates int
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnShapeAdd: func(s models.DiagramShape) { r.shapes = append(r.shapes, s) },
		OnShapeUpdate: func(id string, u models.ShapeUpdate) {
			r.updates++
			for i := range r.shapes {
				if r.shapes[i].ID == id {
					r.shapes[i] = u.Apply(r.shapes[i])
				}
			}
		},
		OnShapeDelete: func(id string) { r.shapes = Delete(r.shapes, id) },
		RequestText:   func(models.Point) (string, bool) { return "Entrance", true },
		NewID:         func() string { return "shape-1" },
	}
}

func at(x, y float64) Event {
	return Event{Pos: &models.Point{X: x, Y: y}}
}

func drag(tool Tool, r *recorder, points ...models.Point) State {
	cb := r.callbacks()
	st := SetTool(NewState(), tool)
	st = PointerDown(st, at(points[0].X, points[0].Y), cb)
	for _, p := range points[1:] {
		st = PointerMove(st, at(p.X, p.Y), cb)
	}
	return PointerUp(st)
}

func TestRectangleFromAnchor(t *testing.T) {
	r := &recorder{}
	st := drag(ToolRectangle, r, models.Point{X: 10, Y: 10}, models.Point{X: 30, Y: 25}, models.Point{X: 50, Y: 40})

	require.Len(t, r.shapes, 1)
	s := r.shapes[0]
	assert.Equal(t, models.ShapeRectangle, s.Kind)
	assert.Equal(t, 10.0, s.X)
	assert.Equal(t, 10.0, s.Y)
	assert.Equal(t, 40.0, s.Width)
	assert.Equal(t, 30.0, s.Height)
	assert.NoError(t, s.Validate())
	assert.False(t, st.Drawing)
	assert.Empty(t, st.ActiveID)
}

func TestRectangleDraggedUpLeftUsesAbsoluteDeltas(t *testing.T) {
	r := &recorder{}
	drag(ToolRectangle, r, models.Point{X: 100, Y: 100}, models.Point{X: 60, Y: 70})

	assert.Equal(t, 40.0, r.shapes[0].Width)
	assert.Equal(t, 30.0, r.shapes[0].Height)
}

func TestCircleRadiusIsDistanceFromAnchor(t *testing.T) {
	r := &recorder{}
	drag(ToolCircle, r, models.Point{X: 0, Y: 0}, models.Point{X: 3, Y: 4})

	assert.Equal(t, models.ShapeCircle, r.shapes[0].Kind)
	assert.Equal(t, 5.0, r.shapes[0].Radius)
}

func TestLineEndpointFollowsPointer(t *testing.T) {
	r := &recorder{}
	drag(ToolLine, r, models.Point{X: 10, Y: 10}, models.Point{X: 15, Y: 15}, models.Point{X: 40, Y: 20})

	assert.Equal(t, []models.Point{{X: 0, Y: 0}, {X: 30, Y: 10}}, r.shapes[0].Points)
}

func TestFreehandAccumulatesOffsets(t *testing.T) {
	r := &recorder{}
	drag(ToolFreehand, r, models.Point{X: 5, Y: 5}, models.Point{X: 6, Y: 7}, models.Point{X: 9, Y: 9})

	assert.Equal(t, []models.Point{{X: 0, Y: 0}, {X: 1, Y: 2}, {X: 4, Y: 4}}, r.shapes[0].Points)
	assert.Equal(t, 2, r.updates)
}

func TestTextCommitsImmediately(t *testing.T) {
	r := &recorder{}
	cb := r.callbacks()
	st := PointerDown(SetTool(NewState(), ToolText), at(1, 2), cb)

	assert.False(t, st.Drawing)
	require.Len(t, r.shapes, 1)
	assert.Equal(t, "Entrance", r.shapes[0].Text)

	cb.RequestText = func(models.Point) (string, bool) { return "", false }
	PointerDown(st, at(3, 4), cb)
	assert.Len(t, r.shapes, 1)
}

func TestIgnoredEvents(t *testing.T) {
	r := &recorder{}
	cb := r.callbacks()

	st := PointerDown(NewState(), at(1, 1), cb)
	assert.Empty(t, r.shapes, "select tool draws nothing")

	st = SetTool(st, ToolRectangle)
	st = PointerDown(st, Event{}, cb)
	assert.Empty(t, r.shapes, "no position")

	st = PointerMove(st, at(5, 5), cb)
	assert.Zero(t, r.updates, "not drawing")

	st = PointerDown(st, at(1, 1), cb)
	PointerMove(st, Event{}, cb)
	assert.Zero(t, r.updates)
}

func TestCancelRemovesShapeInProgress(t *testing.T) {
	r := &recorder{}
	cb := r.callbacks()
	st := PointerDown(SetTool(NewState(), ToolCircle), at(1, 1), cb)
	require.Len(t, r.shapes, 1)

	st = Cancel(st, cb)

	assert.Empty(t, r.shapes)
	assert.False(t, st.Drawing)
}

func TestDuplicateAndDelete(t *testing.T) {
	orig := models.DiagramShape{ID: "a", Kind: models.ShapeLine, X: 10, Y: 5, Points: []models.Point{{}, {X: 3, Y: 3}}}

	dup := Duplicate(orig)
	assert.NotEqual(t, orig.ID, dup.ID)
	assert.Equal(t, 30.0, dup.X)
	assert.Equal(t, 25.0, dup.Y)
	dup.Points[1].X = 99
	assert.Equal(t, 3.0, orig.Points[1].X)

	shapes := []models.DiagramShape{orig, dup}
	left := Delete(shapes, "a")
	require.Len(t, left, 1)
	assert.Equal(t, dup.ID, left[0].ID)
	assert.Len(t, shapes, 2)
	assert.Len(t, Delete(shapes, "missing"), 2)
}
