package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"floorplanner/internal/editor/canvas"
	"floorplanner/internal/editor/command"
	"floorplanner/internal/editor/geometry"
	editor "floorplanner/internal/editor/models"
	"floorplanner/internal/editor/session"
)

// ============================================================
// History
// ============================================================

type historyPayload struct {
	Applied  bool   `json:"applied"`
	CanUndo  bool   `json:"canUndo"`
	CanRedo  bool   `json:"canRedo"`
	UndoName string `json:"undoName,omitempty"`
	RedoName string `json:"redoName,omitempty"`
}

func historyOf(e *session.Editor, applied bool) historyPayload {
	return historyPayload{
		Applied:  applied,
		CanUndo:  e.CanUndo(),
		CanRedo:  e.CanRedo(),
		UndoName: e.UndoName(),
		RedoName: e.RedoName(),
	}
}

func (h *PlannerHandler) Undo(c fiber.Ctx) error {
	var out historyPayload
	if err := h.with(c, func(e *session.Editor) error {
		out = historyOf(e, e.Undo())
		return nil
	}); err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *PlannerHandler) Redo(c fiber.Ctx) error {
	var out historyPayload
	if err := h.with(c, func(e *session.Editor) error {
		out = historyOf(e, e.Redo())
		return nil
	}); err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *PlannerHandler) History(c fiber.Ctx) error {
	var entries []command.Entry
	var state historyPayload
	if err := h.with(c, func(e *session.Editor) error {
		entries = e.History()
		state = historyOf(e, false)
		return nil
	}); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"entries": entries, "state": state})
}

// ============================================================
// Canvas
// ============================================================

// Canvas answers the canvas size. width/height query values describe the
// viewport to size against; without them the last recorded viewport is used.
func (h *PlannerHandler) Canvas(c fiber.Ctx) error {
	var vp *canvas.Viewport
	if c.Query("width") != "" || c.Query("height") != "" {
		w, errW := strconv.ParseFloat(c.Query("width"), 64)
		hh, errH := strconv.ParseFloat(c.Query("height"), 64)
		if errW != nil || errH != nil {
			return fail(c, fiber.NewError(http.StatusBadRequest, "width and height must be numbers"))
		}
		vp = &canvas.Viewport{Width: w, Height: hh}
	}

	var out fiber.Map
	if err := h.with(c, func(e *session.Editor) error {
		out = canvasPayload(e.Settings(), vp, e)
		return nil
	}); err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// SetViewport records the measured viewport so later transforms use the
// resulting canvas scale.
func (h *PlannerHandler) SetViewport(c fiber.Ctx) error {
	var vp canvas.Viewport
	if err := decode(c, &vp); err != nil {
		return fail(c, err)
	}

	var out fiber.Map
	if err := h.with(c, func(e *session.Editor) error {
		e.SetViewport(&vp)
		out = canvasPayload(e.Settings(), &vp, e)
		return nil
	}); err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func canvasPayload(s editor.Settings, vp *canvas.Viewport, e *session.Editor) fiber.Map {
	size := e.CanvasSize()
	if vp != nil {
		size = canvas.CalculateCanvasSize(s, vp)
	}
	out := fiber.Map{
		"size":             size,
		"requiresViewport": canvas.RequiresViewport(s.DisplayMode),
	}
	if s.DisplayMode == editor.DisplayCentered && vp != nil {
		out["offset"] = canvas.CenterOffset(size, *vp)
	}
	return out
}

// ============================================================
// Zones
// ============================================================

func (h *PlannerHandler) AddZone(c fiber.Ctx) error {
	var z editor.Zone
	if err := decode(c, &z); err != nil {
		return fail(c, err)
	}

	var created editor.Zone
	if err := h.with(c, func(e *session.Editor) error {
		var err error
		created, err = e.AddZone(z)
		return err
	}); err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(created)
}

func (h *PlannerHandler) UpdateZone(c fiber.Ctx) error {
	var u editor.ZoneUpdate
	if err := decode(c, &u); err != nil {
		return fail(c, err)
	}

	id := c.Params("entityId")
	var out editor.Zone
	if err := h.with(c, func(e *session.Editor) error {
		if err := e.UpdateZone(id, u); err != nil {
			return err
		}
		out, _ = e.Document().Zone(id)
		return nil
	}); err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *PlannerHandler) RemoveZone(c fiber.Ctx) error {
	id := c.Params("entityId")
	if err := h.with(c, func(e *session.Editor) error {
		return e.RemoveZone(id)
	}); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *PlannerHandler) Utilization(c fiber.Ctx) error {
	zoneID := c.Params("zoneId")
	var out geometry.Utilization
	if err := h.with(c, func(e *session.Editor) error {
		var err error
		out, err = e.Utilization(zoneID)
		return err
	}); err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

type suggestRequest struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Padding float64 `json:"padding"`
}

func (h *PlannerHandler) SuggestPlacement(c fiber.Ctx) error {
	var req suggestRequest
	if err := decode(c, &req); err != nil {
		return fail(c, err)
	}
	if req.Width <= 0 || req.Height <= 0 {
		return fail(c, fiber.NewError(http.StatusBadRequest, "width and height must be positive"))
	}

	zoneID := c.Params("zoneId")
	var (
		pos   editor.Point
		found bool
	)
	if err := h.with(c, func(e *session.Editor) error {
		var err error
		pos, found, err = e.SuggestPlacement(zoneID, geometry.Size{Width: req.Width, Height: req.Height}, req.Padding)
		return err
	}); err != nil {
		return fail(c, err)
	}
	if !found {
		return c.JSON(fiber.Map{"found": false})
	}
	return c.JSON(fiber.Map{"found": true, "position": pos})
}

// ============================================================
// Furniture
// ============================================================

func (h *PlannerHandler) AddFurniture(c fiber.Ctx) error {
	var f editor.FurnitureItem
	if err := decode(c, &f); err != nil {
		return fail(c, err)
	}

	var created editor.FurnitureItem
	if err := h.with(c, func(e *session.Editor) error {
		var err error
		created, err = e.AddFurniture(f)
		return err
	}); err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(created)
}

func (h *PlannerHandler) UpdateFurniture(c fiber.Ctx) error {
	var u editor.FurnitureUpdate
	if err := decode(c, &u); err != nil {
		return fail(c, err)
	}

	id := c.Params("entityId")
	var out editor.FurnitureItem
	if err := h.with(c, func(e *session.Editor) error {
		if err := e.UpdateFurniture(id, u); err != nil {
			return err
		}
		out, _ = e.Document().FurnitureItem(id)
		return nil
	}); err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *PlannerHandler) RemoveFurniture(c fiber.Ctx) error {
	id := c.Params("entityId")
	if err := h.with(c, func(e *session.Editor) error {
		return e.RemoveFurniture(id)
	}); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *PlannerHandler) AutoAssign(c fiber.Ctx) error {
	var changed int
	if err := h.with(c, func(e *session.Editor) error {
		changed = e.AutoAssign()
		return nil
	}); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"changed": changed})
}

// ============================================================
// Shapes
// ============================================================

func (h *PlannerHandler) AddShape(c fiber.Ctx) error {
	var s editor.DiagramShape
	if err := decode(c, &s); err != nil {
		return fail(c, err)
	}

	var created editor.DiagramShape
	if err := h.with(c, func(e *session.Editor) error {
		var err error
		created, err = e.AddShape(s)
		return err
	}); err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(created)
}

func (h *PlannerHandler) UpdateShape(c fiber.Ctx) error {
	var u editor.ShapeUpdate
	if err := decode(c, &u); err != nil {
		return fail(c, err)
	}

	id := c.Params("entityId")
	var out editor.DiagramShape
	if err := h.with(c, func(e *session.Editor) error {
		if err := e.UpdateShape(id, u); err != nil {
			return err
		}
		out, _ = e.Document().Shape(id)
		return nil
	}); err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *PlannerHandler) RemoveShape(c fiber.Ctx) error {
	id := c.Params("entityId")
	if err := h.with(c, func(e *session.Editor) error {
		return e.RemoveShape(id)
	}); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *PlannerHandler) DuplicateShape(c fiber.Ctx) error {
	id := c.Params("entityId")
	var dup editor.DiagramShape
	if err := h.with(c, func(e *session.Editor) error {
		var err error
		dup, err = e.DuplicateShape(id)
		return err
	}); err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(dup)
}
