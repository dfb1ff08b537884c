package mapper

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"floorplanner/internal/editor/models"
	"floorplanner/internal/editor/state"
)

// ============================================================
// Renderer
// ============================================================

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render draws the plan as SVG in cm. Zones come out as Room_<zoneId> rects
// so the result can be imported again.
func (r *Renderer) Render(settings models.Settings, doc *state.Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("document is nil")
	}

	width, height := settings.ApartmentWidth, settings.ApartmentHeight
	if width <= 0 || height <= 0 {
		width, height = 1000, 1000
	}

	var elements []string
	elements = append(elements, r.renderZones(doc.Zones)...)
	elements = append(elements, r.renderFurniture(doc.Furniture)...)
	elements = append(elements, r.renderShapes(doc.Shapes)...)

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		formatFloat(width), formatFloat(height), formatFloat(width), formatFloat(height)))
	builder.WriteString("\n")

	for _, elem := range elements {
		builder.WriteString("  ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String(), nil
}

// ============================================================
// Element renderers
// ============================================================

func (r *Renderer) renderZones(zones []models.Zone) []string {
	var out []string
	for _, z := range zones {
		fill := z.Color
		if fill == "" {
			fill = RoomColor
		}
		out = append(out, fmt.Sprintf(`<rect id="Room_%s" x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="#888" />`,
			escape(z.ZoneID), formatFloat(z.X), formatFloat(z.Y), formatFloat(z.Width), formatFloat(z.Height), escape(fill)))
		out = append(out, fmt.Sprintf(`<text x="%s" y="%s" font-size="14" fill="#555">%s</text>`,
			formatFloat(z.X+5), formatFloat(z.Y+18), escape(z.Name)))
	}
	return out
}

func (r *Renderer) renderFurniture(items []models.FurnitureItem) []string {
	var out []string
	for _, f := range items {
		fill := f.Color
		if fill == "" {
			fill = "#bdbdbd"
		}
		transform := ""
		if f.Rotation != 0 {
			cx, cy := f.X+f.Width/2, f.Y+f.Height/2
			transform = fmt.Sprintf(` transform="rotate(%s %s %s)"`, formatFloat(f.Rotation), formatFloat(cx), formatFloat(cy))
		}
		out = append(out, fmt.Sprintf(`<rect id="Item_%s" x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="#333"%s />`,
			escape(f.ID), formatFloat(f.X), formatFloat(f.Y), formatFloat(f.Width), formatFloat(f.Height), escape(fill), transform))
	}
	return out
}

func (r *Renderer) renderShapes(shapes []models.DiagramShape) []string {
	var out []string
	for _, s := range shapes {
		style := shapeStyle(s)
		switch s.Kind {
		case models.ShapeRectangle:
			out = append(out, fmt.Sprintf(`<rect id="Shape_%s" x="%s" y="%s" width="%s" height="%s"%s />`,
				escape(s.ID), formatFloat(s.X), formatFloat(s.Y), formatFloat(s.Width), formatFloat(s.Height), style))
		case models.ShapeCircle:
			out = append(out, fmt.Sprintf(`<circle id="Shape_%s" cx="%s" cy="%s" r="%s"%s />`,
				escape(s.ID), formatFloat(s.X), formatFloat(s.Y), formatFloat(s.Radius), style))
		case models.ShapeLine, models.ShapeFreehand:
			if len(s.Points) < 2 {
				continue
			}
			var pts []string
			for _, p := range AbsolutePoints(s) {
				pts = append(pts, formatFloat(p.X)+","+formatFloat(p.Y))
			}
			out = append(out, fmt.Sprintf(`<polyline id="Shape_%s" points="%s"%s />`,
				escape(s.ID), strings.Join(pts, " "), style))
		case models.ShapeText:
			out = append(out, fmt.Sprintf(`<text id="Shape_%s" x="%s" y="%s" fill="%s">%s</text>`,
				escape(s.ID), formatFloat(s.X), formatFloat(s.Y), escape(orDefault(s.Stroke, "#000")), escape(s.Text)))
		}
	}
	return out
}

// AbsolutePoints resolves the anchor-relative points of a line or stroke.
func AbsolutePoints(s models.DiagramShape) []models.Point {
	out := make([]models.Point, len(s.Points))
	for i, p := range s.Points {
		out[i] = models.Point{X: s.X + p.X, Y: s.Y + p.Y}
	}
	return out
}

func shapeStyle(s models.DiagramShape) string {
	fill := orDefault(s.Fill, "none")
	if s.Kind == models.ShapeLine || s.Kind == models.ShapeFreehand {
		fill = "none"
	}
	attrs := fmt.Sprintf(` fill="%s" stroke="%s" stroke-width="%s"`,
		escape(fill), escape(orDefault(s.Stroke, "#000")), formatFloat(orDefaultFloat(s.StrokeWidth, 1)))
	if s.Rotation != 0 {
		attrs += fmt.Sprintf(` transform="rotate(%s %s %s)"`, formatFloat(s.Rotation), formatFloat(s.X), formatFloat(s.Y))
	}
	return attrs
}

// ============================================================
// Formatting helpers
// ============================================================

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func orDefault(s, def string) string {
	if s == "" || (s == "transparent" && def == "none") {
		return def
	}
	return s
}

func orDefaultFloat(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}
