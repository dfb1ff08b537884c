package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	editor "floorplanner/internal/editor/models"
	"floorplanner/internal/editor/session"
	"floorplanner/internal/planner/models"
	"floorplanner/internal/planner/repository"
	"floorplanner/internal/planner/service"
)

type client struct {
	t   *testing.T
	app *fiber.App
}

func newClient(t *testing.T) *client {
	t.Helper()
	db, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "planner.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := repository.New(db)
	require.NoError(t, repo.Init(context.Background()))

	sessions := service.NewSessionManager(repo, editor.DefaultSettings(), session.DefaultOptions())
	app := fiber.New()
	NewPlannerHandler(sessions).Register(app)
	return &client{t: t, app: app}
}

func (c *client) do(method, path string, body any) (int, []byte) {
	c.t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(c.t, err)
		r = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.app.Test(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp.StatusCode, data
}

func (c *client) json(method, path string, body any, want int, out any) {
	c.t.Helper()
	status, data := c.do(method, path, body)
	require.Equal(c.t, want, status, string(data))
	if out != nil {
		require.NoError(c.t, json.Unmarshal(data, out))
	}
}

func (c *client) project(id string) models.Project {
	var p models.Project
	c.json(http.MethodGet, "/projects/"+id, nil, http.StatusOK, &p)
	return p
}

func (c *client) create() string {
	var p models.Project
	c.json(http.MethodPost, "/projects", fiber.Map{"name": "Flat"}, http.StatusCreated, &p)
	require.NotEmpty(c.t, p.ID)
	return p.ID
}

func TestZonesFurnitureAndHistory(t *testing.T) {
	c := newClient(t)
	id := c.create()
	base := "/projects/" + id

	var zone editor.Zone
	c.json(http.MethodPost, base+"/zones", fiber.Map{"zoneId": "kitchen", "name": "Kitchen", "width": 400, "height": 300}, http.StatusCreated, &zone)
	assert.Equal(t, "kitchen", zone.ZoneID)

	var item editor.FurnitureItem
	c.json(http.MethodPost, base+"/furniture", fiber.Map{"name": "Table", "x": 50, "y": 50, "width": 100, "height": 80}, http.StatusCreated, &item)
	assert.Equal(t, "kitchen", item.ZoneID)

	var util struct {
		ItemCount int     `json:"itemCount"`
		Ratio     float64 `json:"ratio"`
	}
	c.json(http.MethodGet, base+"/zones/kitchen/utilization", nil, http.StatusOK, &util)
	assert.Equal(t, 1, util.ItemCount)
	assert.InDelta(t, 8000.0/120000.0, util.Ratio, 1e-9)

	var hist historyPayload
	c.json(http.MethodPost, base+"/undo", nil, http.StatusOK, &hist)
	assert.True(t, hist.Applied)
	assert.True(t, hist.CanRedo)
	assert.Empty(t, c.project(id).Document.Furniture)

	c.json(http.MethodPost, base+"/redo", nil, http.StatusOK, &hist)
	assert.True(t, hist.Applied)
	assert.Len(t, c.project(id).Document.Furniture, 1)

	var moved editor.FurnitureItem
	c.json(http.MethodPatch, base+"/furniture/"+item.ID, fiber.Map{"x": 600}, http.StatusOK, &moved)
	assert.Equal(t, "", moved.ZoneID)

	status, _ := c.do(http.MethodPost, base+"/zones", fiber.Map{"zoneId": "kitchen", "width": 10, "height": 10})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = c.do(http.MethodPatch, base+"/zones/nope", fiber.Map{"name": "x"})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = c.do(http.MethodPost, base+"/furniture", fiber.Map{"width": 0, "height": 10})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = c.do(http.MethodPost, base+"/zones", "{")
	assert.Equal(t, http.StatusBadRequest, status)

	var suggest struct {
		Found    bool         `json:"found"`
		Position editor.Point `json:"position"`
	}
	c.json(http.MethodPost, base+"/zones/kitchen/suggest", fiber.Map{"width": 50, "height": 50}, http.StatusOK, &suggest)
	assert.True(t, suggest.Found)

	c.json(http.MethodDelete, base+"/zones/"+zone.ID, nil, http.StatusNoContent, nil)
	assert.Empty(t, c.project(id).Document.Zones)
}

func TestDrawingAndTransform(t *testing.T) {
	c := newClient(t)
	id := c.create()
	base := "/projects/" + id

	c.json(http.MethodPut, base+"/draw/tool", fiber.Map{"tool": "rectangle"}, http.StatusOK, nil)
	c.json(http.MethodPost, base+"/draw/down", fiber.Map{"pos": fiber.Map{"x": 10, "y": 10}}, http.StatusOK, nil)
	c.json(http.MethodPost, base+"/draw/move", fiber.Map{"pos": fiber.Map{"x": 50, "y": 40}}, http.StatusOK, nil)
	c.json(http.MethodPost, base+"/draw/up", nil, http.StatusOK, nil)

	shapes := c.project(id).Document.Shapes
	require.Len(t, shapes, 1)
	assert.Equal(t, 40.0, shapes[0].Width)
	assert.Equal(t, 30.0, shapes[0].Height)

	var dup editor.DiagramShape
	c.json(http.MethodPost, base+"/shapes/"+shapes[0].ID+"/duplicate", nil, http.StatusCreated, &dup)
	assert.Equal(t, 30.0, dup.X)

	status, _ := c.do(http.MethodPut, base+"/draw/tool", fiber.Map{"tool": "spray"})
	assert.Equal(t, http.StatusBadRequest, status)

	var item editor.FurnitureItem
	c.json(http.MethodPost, base+"/furniture", fiber.Map{"name": "Bed", "width": 100, "height": 50}, http.StatusCreated, &item)

	c.json(http.MethodPost, base+"/transform/select", fiber.Map{"mode": "furniture", "id": item.ID}, http.StatusOK, nil)
	c.json(http.MethodPost, base+"/transform/drag", fiber.Map{"x": 202, "y": 99}, http.StatusOK, nil)
	c.json(http.MethodPost, base+"/transform/drag/end", nil, http.StatusOK, nil)

	furniture := c.project(id).Document.Furniture
	require.Len(t, furniture, 1)
	assert.Equal(t, 200.0, furniture[0].X)
	assert.Equal(t, 100.0, furniture[0].Y)

	status, _ = c.do(http.MethodPost, base+"/transform/select", fiber.Map{"mode": "zones", "id": "none"})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCanvasImportAndExport(t *testing.T) {
	c := newClient(t)
	id := c.create()
	base := "/projects/" + id

	var canvasOut struct {
		Size struct {
			Width  float64 `json:"width"`
			Height float64 `json:"height"`
			Scale  float64 `json:"scale"`
		} `json:"size"`
	}
	c.json(http.MethodGet, base+"/canvas?width=800&height=600", nil, http.StatusOK, &canvasOut)
	assert.Equal(t, 1000.0, canvasOut.Size.Width)
	assert.Equal(t, 800.0, canvasOut.Size.Height)

	status, _ := c.do(http.MethodGet, base+"/canvas?width=abc&height=1", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	svg := `<svg xmlns="http://www.w3.org/2000/svg"><rect id="Room_Hall" x="0" y="0" width="300" height="200"/></svg>`
	var report struct {
		Accepted []editor.Zone `json:"accepted"`
	}
	c.json(http.MethodPost, base+"/import-svg", svg, http.StatusOK, &report)
	require.Len(t, report.Accepted, 1)
	assert.Equal(t, "hall", report.Accepted[0].ZoneID)

	c.json(http.MethodPost, base+"/import", fiber.Map{"zones": []fiber.Map{
		{"id": "a", "name": "A", "x": 0, "y": 0, "width": 20, "height": 20},
	}}, http.StatusOK, &report)
	require.Len(t, report.Accepted, 1)

	status, body := c.do(http.MethodGet, base+"/svg", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `id="Room_a"`)

	status, body = c.do(http.MethodGet, base+"/pdf", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	var saved models.Project
	c.json(http.MethodPost, base+"/save", nil, http.StatusOK, &saved)
	assert.NotEmpty(t, saved.UpdatedAt)

	var list []models.ProjectSummary
	c.json(http.MethodGet, "/projects", nil, http.StatusOK, &list)
	require.Len(t, list, 1)

	c.json(http.MethodDelete, "/projects/"+id, nil, http.StatusNoContent, nil)
	status, _ = c.do(http.MethodGet, "/projects/"+id, nil)
	assert.Equal(t, http.StatusNotFound, status)
}
