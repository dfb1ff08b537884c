package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v3"

	"floorplanner/internal/editor/drawing"
	editor "floorplanner/internal/editor/models"
	"floorplanner/internal/editor/session"
	"floorplanner/internal/editor/transform"
)

// ============================================================
// Drawing
// ============================================================

type toolRequest struct {
	Tool  drawing.Tool   `json:"tool"`
	Style *drawing.Style `json:"style,omitempty"`
}

// pointerRequest carries a canvas position. A null pos means the client
// could not resolve the pointer onto the canvas.
type pointerRequest struct {
	Pos  *editor.Point `json:"pos"`
	Text string        `json:"text,omitempty"`
}

func (h *PlannerHandler) DrawState(c fiber.Ctx) error {
	return h.draw(c, func(e *session.Editor) drawing.State { return e.DrawState() })
}

func (h *PlannerHandler) SetTool(c fiber.Ctx) error {
	var req toolRequest
	if err := decode(c, &req); err != nil {
		return fail(c, err)
	}
	if !req.Tool.Valid() {
		return fail(c, fiber.NewError(http.StatusBadRequest, "unknown tool "+string(req.Tool)))
	}
	return h.draw(c, func(e *session.Editor) drawing.State {
		e.SetTool(req.Tool)
		if req.Style != nil {
			e.SetStyle(*req.Style)
		}
		return e.DrawState()
	})
}

func (h *PlannerHandler) PointerDown(c fiber.Ctx) error {
	var req pointerRequest
	if err := decode(c, &req); err != nil {
		return fail(c, err)
	}
	return h.draw(c, func(e *session.Editor) drawing.State { return e.PointerDown(req.Pos, req.Text) })
}

func (h *PlannerHandler) PointerMove(c fiber.Ctx) error {
	var req pointerRequest
	if err := decode(c, &req); err != nil {
		return fail(c, err)
	}
	return h.draw(c, func(e *session.Editor) drawing.State { return e.PointerMove(req.Pos) })
}

func (h *PlannerHandler) PointerUp(c fiber.Ctx) error {
	return h.draw(c, func(e *session.Editor) drawing.State { return e.PointerUp() })
}

func (h *PlannerHandler) CancelDrawing(c fiber.Ctx) error {
	return h.draw(c, func(e *session.Editor) drawing.State { return e.CancelDrawing() })
}

func (h *PlannerHandler) draw(c fiber.Ctx, fn func(e *session.Editor) drawing.State) error {
	var st drawing.State
	if err := h.with(c, func(e *session.Editor) error {
		st = fn(e)
		return nil
	}); err != nil {
		return fail(c, err)
	}
	return c.JSON(st)
}

// ============================================================
// Transform
// ============================================================

type selectRequest struct {
	Mode transform.EditMode `json:"mode"`
	ID   string             `json:"id"`
}

type dragRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type resizeRequest struct {
	ScaleX float64 `json:"scaleX"`
	ScaleY float64 `json:"scaleY"`
}

type rotateRequest struct {
	Rotation float64 `json:"rotation"`
}

func (h *PlannerHandler) Selection(c fiber.Ctx) error {
	return h.transform(c, func(*transform.Controller) bool { return true })
}

func (h *PlannerHandler) Select(c fiber.Ctx) error {
	var req selectRequest
	if err := decode(c, &req); err != nil {
		return fail(c, err)
	}

	var out fiber.Map
	if err := h.with(c, func(e *session.Editor) error {
		if err := e.Select(req.Mode, req.ID); err != nil {
			return err
		}
		out = selectionPayload(e.Transform(), true)
		return nil
	}); err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *PlannerHandler) ClearSelection(c fiber.Ctx) error {
	return h.transform(c, func(t *transform.Controller) bool {
		t.ClearSelection()
		return true
	})
}

func (h *PlannerHandler) Drag(c fiber.Ctx) error {
	var req dragRequest
	if err := decode(c, &req); err != nil {
		return fail(c, err)
	}
	return h.transform(c, func(t *transform.Controller) bool {
		_, ok := t.Drag(req.X, req.Y)
		return ok
	})
}

func (h *PlannerHandler) EndDrag(c fiber.Ctx) error {
	return h.transform(c, (*transform.Controller).EndDrag)
}

func (h *PlannerHandler) Resize(c fiber.Ctx) error {
	var req resizeRequest
	if err := decode(c, &req); err != nil {
		return fail(c, err)
	}
	if req.ScaleX <= 0 || req.ScaleY <= 0 {
		return fail(c, fiber.NewError(http.StatusBadRequest, "scale factors must be positive"))
	}
	return h.transform(c, func(t *transform.Controller) bool {
		_, ok := t.Resize(req.ScaleX, req.ScaleY)
		return ok
	})
}

func (h *PlannerHandler) EndResize(c fiber.Ctx) error {
	return h.transform(c, (*transform.Controller).EndResize)
}

func (h *PlannerHandler) Rotate(c fiber.Ctx) error {
	var req rotateRequest
	if err := decode(c, &req); err != nil {
		return fail(c, err)
	}
	return h.transform(c, func(t *transform.Controller) bool {
		_, ok := t.Rotate(req.Rotation)
		return ok
	})
}

func (h *PlannerHandler) EndRotate(c fiber.Ctx) error {
	return h.transform(c, (*transform.Controller).EndRotate)
}

// transform runs fn on the selection controller and answers with the
// resulting selection. applied is false when there was nothing to act on.
func (h *PlannerHandler) transform(c fiber.Ctx, fn func(t *transform.Controller) bool) error {
	var out fiber.Map
	if err := h.with(c, func(e *session.Editor) error {
		applied := fn(e.Transform())
		out = selectionPayload(e.Transform(), applied)
		return nil
	}); err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func selectionPayload(t *transform.Controller, applied bool) fiber.Map {
	out := fiber.Map{"applied": applied, "mode": t.Mode()}
	if sel, ok := t.Selection(); ok {
		out["selection"] = sel
	}
	return out
}
