package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floorplanner/internal/editor/models"
	"floorplanner/internal/editor/state"
)

func TestPDF(t *testing.T) {
	doc := state.NewDocument()
	doc.InsertZone(-1, models.Zone{ID: "1", ZoneID: "kitchen", Name: "Kitchen", Width: 300, Height: 200, Color: "#ffeecc"})
	doc.InsertFurniture(-1, models.FurnitureItem{ID: "f", X: 20, Y: 20, Width: 80, Height: 40, Rotation: 45})
	doc.InsertShape(-1, models.DiagramShape{ID: "a", Kind: models.ShapeCircle, X: 500, Y: 400, Radius: 30, Fill: "#f00"})
	doc.InsertShape(-1, models.DiagramShape{ID: "b", Kind: models.ShapeFreehand, X: 10, Y: 10, Points: []models.Point{{}, {X: 5, Y: 5}, {X: 10, Y: 0}}})
	doc.InsertShape(-1, models.DiagramShape{ID: "c", Kind: models.ShapeText, X: 100, Y: 100, Text: "Entrée"})

	var buf bytes.Buffer
	require.NoError(t, PDF(&buf, "Flat 12", models.DefaultSettings(), doc))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestPDFRejectsBadInput(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, PDF(&buf, "", models.DefaultSettings(), nil))

	settings := models.DefaultSettings()
	settings.ApartmentWidth = 0
	assert.Error(t, PDF(&buf, "", settings, state.NewDocument()))
}

func TestParseColor(t *testing.T) {
	assert.Equal(t, rgb{255, 238, 204}, parseColor("#ffeecc", black))
	assert.Equal(t, rgb{255, 0, 0}, parseColor("#f00", black))
	assert.Equal(t, black, parseColor("red", black))

	_, ok := fillColor("transparent")
	assert.False(t, ok)
}
