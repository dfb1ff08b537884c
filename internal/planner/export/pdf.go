package export

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"floorplanner/internal/editor/models"
	"floorplanner/internal/editor/state"
)

// ============================================================
// PDF Export
// ============================================================

const pageMargin = 10.0 // mm

type rgb struct{ r, g, b int }

var (
	zoneFill      = rgb{227, 242, 253}
	furnitureFill = rgb{189, 189, 189}
	black         = rgb{0, 0, 0}
)

// PDF draws the plan onto a single A4 page, scaled to fit inside the margins.
// The page turns landscape when the apartment is wider than it is tall.
func PDF(w io.Writer, title string, settings models.Settings, doc *state.Document) error {
	if doc == nil {
		return fmt.Errorf("document is nil")
	}

	width, height := settings.ApartmentWidth, settings.ApartmentHeight
	if width <= 0 || height <= 0 {
		return fmt.Errorf("apartment size must be positive, got %vx%v", width, height)
	}

	orientation := "P"
	if width > height {
		orientation = "L"
	}

	p := gofpdf.New(orientation, "mm", "A4", "")
	p.SetTitle(title, true)
	p.SetCreator("floorplanner", false)
	p.SetAutoPageBreak(false, 0)
	p.AddPage()

	pageW, pageH := p.GetPageSize()
	k := math.Min((pageW-2*pageMargin)/width, (pageH-2*pageMargin)/height)
	pl := &plotter{pdf: p, k: k, tr: p.UnicodeTranslatorFromDescriptor("")}

	p.SetFont("Helvetica", "", 8)
	p.SetLineWidth(0.3)

	for _, z := range doc.Zones {
		pl.zone(z)
	}
	for _, f := range doc.Furniture {
		pl.furniture(f)
	}
	for _, s := range doc.Shapes {
		pl.shape(s)
	}

	if err := p.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// plotter maps plan cm onto page mm.
type plotter struct {
	pdf *gofpdf.Fpdf
	k   float64
	tr  func(string) string
}

func (pl *plotter) x(v float64) float64 { return pageMargin + v*pl.k }
func (pl *plotter) y(v float64) float64 { return pageMargin + v*pl.k }
func (pl *plotter) d(v float64) float64 { return v * pl.k }

func (pl *plotter) zone(z models.Zone) {
	fill := parseColor(z.Color, zoneFill)
	pl.pdf.SetFillColor(fill.r, fill.g, fill.b)
	pl.pdf.SetDrawColor(136, 136, 136)
	pl.pdf.Rect(pl.x(z.X), pl.y(z.Y), pl.d(z.Width), pl.d(z.Height), "FD")

	if z.Name != "" {
		pl.pdf.SetTextColor(85, 85, 85)
		pl.pdf.Text(pl.x(z.X)+1.5, pl.y(z.Y)+4, pl.tr(z.Name))
	}
}

func (pl *plotter) furniture(f models.FurnitureItem) {
	fill := parseColor(f.Color, furnitureFill)
	pl.pdf.SetFillColor(fill.r, fill.g, fill.b)
	pl.pdf.SetDrawColor(51, 51, 51)

	rotated := f.Rotation != 0
	if rotated {
		pl.pdf.TransformBegin()
		// page y grows downwards, so a clockwise plan rotation is negative here
		pl.pdf.TransformRotate(-f.Rotation, pl.x(f.X+f.Width/2), pl.y(f.Y+f.Height/2))
	}
	pl.pdf.Rect(pl.x(f.X), pl.y(f.Y), pl.d(f.Width), pl.d(f.Height), "FD")
	if rotated {
		pl.pdf.TransformEnd()
	}
}

func (pl *plotter) shape(s models.DiagramShape) {
	stroke := parseColor(s.Stroke, black)
	pl.pdf.SetDrawColor(stroke.r, stroke.g, stroke.b)

	style := "D"
	if fill, ok := fillColor(s.Fill); ok {
		pl.pdf.SetFillColor(fill.r, fill.g, fill.b)
		style = "FD"
	}

	switch s.Kind {
	case models.ShapeRectangle:
		pl.pdf.Rect(pl.x(s.X), pl.y(s.Y), pl.d(s.Width), pl.d(s.Height), style)
	case models.ShapeCircle:
		pl.pdf.Circle(pl.x(s.X), pl.y(s.Y), pl.d(s.Radius), style)
	case models.ShapeLine, models.ShapeFreehand:
		for i := 1; i < len(s.Points); i++ {
			a, b := s.Points[i-1], s.Points[i]
			pl.pdf.Line(pl.x(s.X+a.X), pl.y(s.Y+a.Y), pl.x(s.X+b.X), pl.y(s.Y+b.Y))
		}
	case models.ShapeText:
		pl.pdf.SetTextColor(stroke.r, stroke.g, stroke.b)
		pl.pdf.Text(pl.x(s.X), pl.y(s.Y), pl.tr(s.Text))
	}
}

// fillColor reports whether a shape fill should be painted at all.
func fillColor(s string) (rgb, bool) {
	if s == "" || s == "none" || s == "transparent" {
		return rgb{}, false
	}
	return parseColor(s, rgb{}), true
}

// parseColor reads #rgb and #rrggbb colours. Anything else yields def.
func parseColor(s string, def rgb) rgb {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return def
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return def
	}
	return rgb{int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)}
}
