package handlers

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"floorplanner/internal/editor/geometry"
	editor "floorplanner/internal/editor/models"
	"floorplanner/internal/editor/session"
	"floorplanner/internal/planner/export"
	"floorplanner/internal/planner/mapper"
)

// ============================================================
// Layout import
// ============================================================

// ImportLayout replaces the zones with an analysis layout. unitScale in the
// query converts layout units to cm.
func (h *PlannerHandler) ImportLayout(c fiber.Ctx) error {
	log.Printf("[PLANNER] Import layout, Content-Length: %d", len(c.Body()))

	var layout mapper.AnalysisLayout
	if err := decode(c, &layout); err != nil {
		return fail(c, err)
	}

	im, err := h.importerFor(c)
	if err != nil {
		return fail(c, err)
	}
	return h.importZones(c, im.FromLayout(layout))
}

// ImportSVG replaces the zones with the rooms of an SVG plan, sent either as
// the multipart field "file" or as the raw body.
func (h *PlannerHandler) ImportSVG(c fiber.Ctx) error {
	data, err := uploaded(c)
	if err != nil {
		return fail(c, err)
	}
	log.Printf("[PLANNER] Import SVG, %d bytes", len(data))

	im, err := h.importerFor(c)
	if err != nil {
		return fail(c, err)
	}
	zones, err := im.FromSVG(bytes.NewReader(data))
	if err != nil {
		log.Printf("[PLANNER] SVG import error: %v", err)
		return fail(c, fiber.NewError(http.StatusBadRequest, err.Error()))
	}
	return h.importZones(c, zones)
}

func (h *PlannerHandler) importZones(c fiber.Ctx, zones []editor.Zone) error {
	var report geometry.LayoutReport
	if err := h.with(c, func(e *session.Editor) error {
		report = e.ImportZones(zones)
		return nil
	}); err != nil {
		return fail(c, err)
	}
	return c.JSON(report)
}

func (h *PlannerHandler) importerFor(c fiber.Ctx) (*mapper.Importer, error) {
	im := *h.importer
	if raw := c.Query("unitScale"); raw != "" {
		k, err := strconv.ParseFloat(raw, 64)
		if err != nil || k <= 0 {
			return nil, fiber.NewError(http.StatusBadRequest, "unitScale must be a positive number")
		}
		im.UnitScale = k
	}
	return &im, nil
}

func uploaded(c fiber.Ctx) ([]byte, error) {
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			return nil, fiber.NewError(http.StatusInternalServerError, "failed to open file")
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return nil, fiber.NewError(http.StatusInternalServerError, "failed to read file")
		}
		return data, nil
	}

	if len(c.Body()) == 0 {
		return nil, fiber.NewError(http.StatusBadRequest, "file required")
	}
	return c.Body(), nil
}

// ============================================================
// Export
// ============================================================

func (h *PlannerHandler) ExportSVG(c fiber.Ctx) error {
	var svg string
	if err := h.with(c, func(e *session.Editor) error {
		var err error
		svg, err = h.renderer.Render(e.Settings(), e.Document())
		return err
	}); err != nil {
		return fail(c, err)
	}

	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(svg)
}

func (h *PlannerHandler) ExportPDF(c fiber.Ctx) error {
	p, err := h.sessions.Project(context.Background(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}

	var buf bytes.Buffer
	if err := export.PDF(&buf, p.Name, p.Settings, p.Document); err != nil {
		return fail(c, err)
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="plan.pdf"`)
	return c.Send(buf.Bytes())
}
