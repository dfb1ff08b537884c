package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gofiber/fiber/v3"

	editor "floorplanner/internal/editor/models"
	"floorplanner/internal/editor/session"
	"floorplanner/internal/planner/mapper"
	"floorplanner/internal/planner/service"
)

// ============================================================
// Planner Handler
// ============================================================

type PlannerHandler struct {
	sessions *service.SessionManager
	importer *mapper.Importer
	renderer *mapper.Renderer
}

func NewPlannerHandler(sessions *service.SessionManager) *PlannerHandler {
	return &PlannerHandler{
		sessions: sessions,
		importer: mapper.NewImporter(),
		renderer: mapper.NewRenderer(),
	}
}

// Register mounts every planner route on r.
func (h *PlannerHandler) Register(r fiber.Router) {
	r.Get("/projects", h.ListProjects)
	r.Post("/projects", h.CreateProject)

	r.Get("/projects/:id", h.GetProject)
	r.Patch("/projects/:id", h.RenameProject)
	r.Delete("/projects/:id", h.DeleteProject)

	p := r.Group("/projects/:id")
	p.Put("/settings", h.UpdateSettings)
	p.Post("/save", h.SaveProject)
	p.Delete("/session", h.CloseProject)

	p.Post("/undo", h.Undo)
	p.Post("/redo", h.Redo)
	p.Get("/history", h.History)

	p.Get("/canvas", h.Canvas)
	p.Put("/viewport", h.SetViewport)

	p.Post("/zones", h.AddZone)
	p.Patch("/zones/:entityId", h.UpdateZone)
	p.Delete("/zones/:entityId", h.RemoveZone)
	p.Get("/zones/:zoneId/utilization", h.Utilization)
	p.Post("/zones/:zoneId/suggest", h.SuggestPlacement)

	p.Post("/furniture", h.AddFurniture)
	p.Patch("/furniture/:entityId", h.UpdateFurniture)
	p.Delete("/furniture/:entityId", h.RemoveFurniture)
	p.Post("/auto-assign", h.AutoAssign)

	p.Post("/shapes", h.AddShape)
	p.Patch("/shapes/:entityId", h.UpdateShape)
	p.Delete("/shapes/:entityId", h.RemoveShape)
	p.Post("/shapes/:entityId/duplicate", h.DuplicateShape)

	p.Get("/draw", h.DrawState)
	p.Put("/draw/tool", h.SetTool)
	p.Post("/draw/down", h.PointerDown)
	p.Post("/draw/move", h.PointerMove)
	p.Post("/draw/up", h.PointerUp)
	p.Post("/draw/cancel", h.CancelDrawing)

	p.Get("/transform", h.Selection)
	p.Post("/transform/select", h.Select)
	p.Delete("/transform/select", h.ClearSelection)
	p.Post("/transform/drag", h.Drag)
	p.Post("/transform/drag/end", h.EndDrag)
	p.Post("/transform/resize", h.Resize)
	p.Post("/transform/resize/end", h.EndResize)
	p.Post("/transform/rotate", h.Rotate)
	p.Post("/transform/rotate/end", h.EndRotate)

	p.Post("/import", h.ImportLayout)
	p.Post("/import-svg", h.ImportSVG)
	p.Get("/svg", h.ExportSVG)
	p.Get("/pdf", h.ExportPDF)
}

// ============================================================
// Projects
// ============================================================

type createProjectRequest struct {
	Name     string           `json:"name"`
	Settings *editor.Settings `json:"settings,omitempty"`
}

type renameRequest struct {
	Name string `json:"name"`
}

func (h *PlannerHandler) ListProjects(c fiber.Ctx) error {
	projects, err := h.sessions.List(context.Background())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(projects)
}

func (h *PlannerHandler) CreateProject(c fiber.Ctx) error {
	var req createProjectRequest
	if len(c.Body()) > 0 {
		if err := decode(c, &req); err != nil {
			return fail(c, err)
		}
	}

	p, err := h.sessions.Create(context.Background(), req.Name, req.Settings)
	if err != nil {
		return fail(c, err)
	}
	log.Printf("[PLANNER] Created project %s", p.ID)
	return c.Status(http.StatusCreated).JSON(p)
}

func (h *PlannerHandler) GetProject(c fiber.Ctx) error {
	p, err := h.sessions.Project(context.Background(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(p)
}

func (h *PlannerHandler) RenameProject(c fiber.Ctx) error {
	var req renameRequest
	if err := decode(c, &req); err != nil {
		return fail(c, err)
	}
	if req.Name == "" {
		return fail(c, fiber.NewError(http.StatusBadRequest, "name required"))
	}
	if err := h.sessions.Rename(context.Background(), c.Params("id"), req.Name); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"name": req.Name})
}

func (h *PlannerHandler) DeleteProject(c fiber.Ctx) error {
	if err := h.sessions.Delete(context.Background(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *PlannerHandler) SaveProject(c fiber.Ctx) error {
	p, err := h.sessions.Save(context.Background(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(p)
}

// CloseProject drops the in-memory session. Unsaved edits are discarded.
func (h *PlannerHandler) CloseProject(c fiber.Ctx) error {
	if !h.sessions.Close(c.Params("id")) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "project is not open"})
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *PlannerHandler) UpdateSettings(c fiber.Ctx) error {
	var settings editor.Settings
	if err := decode(c, &settings); err != nil {
		return fail(c, err)
	}

	var out fiber.Map
	err := h.with(c, func(e *session.Editor) error {
		if err := e.SetSettings(settings); err != nil {
			return err
		}
		out = fiber.Map{"settings": e.Settings(), "canvas": e.CanvasSize()}
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// ============================================================
// Helpers
// ============================================================

func (h *PlannerHandler) with(c fiber.Ctx, fn func(e *session.Editor) error) error {
	return h.sessions.With(context.Background(), c.Params("id"), fn)
}

func decode(c fiber.Ctx, v any) error {
	if len(c.Body()) == 0 {
		return fiber.NewError(http.StatusBadRequest, "empty body")
	}
	if err := json.Unmarshal(c.Body(), v); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid json")
	}
	return nil
}

// fail maps domain errors onto status codes.
func fail(c fiber.Ctx, err error) error {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	case errors.Is(err, service.ErrNotFound), errors.Is(err, session.ErrNotFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, session.ErrDuplicateZone):
		return c.Status(http.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, session.ErrInvalidGeometry), errors.Is(err, editor.ErrInvalidShape):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	log.Printf("[PLANNER] %s %s failed: %v", c.Method(), c.Path(), err)
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}
