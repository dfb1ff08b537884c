package canvas

import (
	"math"

	"floorplanner/internal/editor/models"
)

// ============================================================
// Canvas sizing
// ============================================================

const (
	AdaptiveMinFactor = 0.8
	AdaptiveMaxFactor = 1.5
	// AdaptiveMargin keeps adaptive canvases slightly smaller than the viewport.
	AdaptiveMargin = 0.9
)

type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (v *Viewport) usable() bool {
	return v != nil && v.Width > 0 && v.Height > 0
}

// Size is the canvas in pixels plus the pixels-per-cm scale in effect.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Scale  float64 `json:"scale"`
}

// RequiresViewport reports whether the mode needs a measured viewport.
// Callers should hold off the first layout until one is available.
func RequiresViewport(mode models.DisplayMode) bool {
	return mode == models.DisplayFitToScreen || mode == models.DisplayAdaptive
}

// CalculateCanvasSize derives the canvas size for the display mode. A nil or
// empty viewport makes every mode fall back to the fixed computation.
func CalculateCanvasSize(s models.Settings, vp *Viewport) Size {
	if s.Scale <= 0 {
		s.Scale = 1
	}

	switch s.DisplayMode {
	case models.DisplayFitToScreen:
		if vp.usable() {
			return fitToScreen(s, *vp)
		}
	case models.DisplayAdaptive:
		if vp.usable() {
			return adaptive(s, *vp)
		}
	}
	return fixed(s)
}

func fixed(s models.Settings) Size {
	return Size{
		Width:  capAt(s.ApartmentWidth*s.Scale, s.MaxCanvasWidth),
		Height: capAt(s.ApartmentHeight*s.Scale, s.MaxCanvasHeight),
		Scale:  s.Scale,
	}
}

func fitToScreen(s models.Settings, vp Viewport) Size {
	if s.ApartmentWidth <= 0 || s.ApartmentHeight <= 0 {
		return fixed(s)
	}
	scale := math.Min(vp.Width/s.ApartmentWidth, vp.Height/s.ApartmentHeight)
	scale = math.Min(scale, maxScale(s))
	return sized(s, scale)
}

func adaptive(s models.Settings, vp Viewport) Size {
	if s.ApartmentWidth <= 0 || s.ApartmentHeight <= 0 {
		return fixed(s)
	}
	limit := math.Min(vp.Width/s.ApartmentWidth, vp.Height/s.ApartmentHeight) * AdaptiveMargin

	scale := math.Min(math.Max(limit, s.Scale*AdaptiveMinFactor), s.Scale*AdaptiveMaxFactor)
	scale = math.Min(scale, limit)

	w, h := s.ApartmentWidth*scale, s.ApartmentHeight*scale
	cw, ch := capAt(w, s.MaxCanvasWidth), capAt(h, s.MaxCanvasHeight)
	if cw < w || ch < h {
		scale = math.Min(cw/s.ApartmentWidth, ch/s.ApartmentHeight)
		return sized(s, scale)
	}
	return Size{Width: w, Height: h, Scale: scale}
}

// maxScale is the largest scale the max canvas constraints allow.
func maxScale(s models.Settings) float64 {
	limit := math.Inf(1)
	if s.MaxCanvasWidth > 0 {
		limit = math.Min(limit, s.MaxCanvasWidth/s.ApartmentWidth)
	}
	if s.MaxCanvasHeight > 0 {
		limit = math.Min(limit, s.MaxCanvasHeight/s.ApartmentHeight)
	}
	return limit
}

func sized(s models.Settings, scale float64) Size {
	return Size{Width: s.ApartmentWidth * scale, Height: s.ApartmentHeight * scale, Scale: scale}
}

func capAt(v, limit float64) float64 {
	if limit > 0 && v > limit {
		return limit
	}
	return v
}

// CenterOffset is where a canvas of the given size sits inside the viewport
// in centered mode. It never goes negative.
func CenterOffset(size Size, vp Viewport) models.Point {
	return models.Point{
		X: math.Max(0, (vp.Width-size.Width)/2),
		Y: math.Max(0, (vp.Height-size.Height)/2),
	}
}
