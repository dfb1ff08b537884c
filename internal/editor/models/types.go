package models

import (
	"errors"
	"fmt"
	"math"
)

// ============================================================
// Geometry primitives
// ============================================================

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle: top-left corner plus size.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Area() float64 {
	return r.Width * r.Height
}

func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// ============================================================
// Floor plan entities
// ============================================================

// Zone is a named rectangular room. Position and size are in cm.
type Zone struct {
	ID     string  `json:"id"`
	ZoneID string  `json:"zoneId"`
	Name   string  `json:"name"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Color  string  `json:"color,omitempty"`
}

func (z Zone) Rect() Rect {
	return Rect{X: z.X, Y: z.Y, Width: z.Width, Height: z.Height}
}

// FurnitureItem is a placed rectangular object. ZoneID references Zone.ZoneID
// and is empty while the item is unassigned.
type FurnitureItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
	Color    string  `json:"color"`
	ZoneID   string  `json:"zoneId,omitempty"`
}

func (f FurnitureItem) Rect() Rect {
	return Rect{X: f.X, Y: f.Y, Width: f.Width, Height: f.Height}
}

// NormalizeRotation maps any angle in degrees onto [0, 360).
func NormalizeRotation(deg float64) float64 {
	r := math.Mod(deg, 360)
	if r < 0 {
		r += 360
	}
	if r >= 360 {
		r = 0
	}
	return r
}

// ============================================================
// Diagram shapes
// ============================================================

type ShapeKind string

const (
	ShapeRectangle ShapeKind = "rectangle"
	ShapeCircle    ShapeKind = "circle"
	ShapeLine      ShapeKind = "line"
	ShapeFreehand  ShapeKind = "freehand"
	ShapeText      ShapeKind = "text"
)

var ErrInvalidShape = errors.New("invalid shape")

// DiagramShape is a freeform annotation. Kind selects which geometry fields
// are meaningful: Width/Height for rectangles, Radius for circles, Points for
// lines and freehand strokes, Text for text. Points are offsets from (X, Y).
type DiagramShape struct {
	ID          string    `json:"id"`
	Kind        ShapeKind `json:"type"`
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	Fill        string    `json:"fill,omitempty"`
	Stroke      string    `json:"stroke,omitempty"`
	StrokeWidth float64   `json:"strokeWidth,omitempty"`
	Rotation    float64   `json:"rotation,omitempty"`
	ScaleX      float64   `json:"scaleX,omitempty"`
	ScaleY      float64   `json:"scaleY,omitempty"`

	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Radius float64 `json:"radius,omitempty"`
	Points []Point `json:"points,omitempty"`
	Text   string  `json:"text,omitempty"`
}

// Normalize clears geometry fields that do not belong to the shape's kind.
func (s DiagramShape) Normalize() DiagramShape {
	switch s.Kind {
	case ShapeRectangle:
		s.Radius, s.Points, s.Text = 0, nil, ""
	case ShapeCircle:
		s.Width, s.Height, s.Points, s.Text = 0, 0, nil, ""
	case ShapeLine, ShapeFreehand:
		s.Width, s.Height, s.Radius, s.Text = 0, 0, 0, ""
	case ShapeText:
		s.Width, s.Height, s.Radius, s.Points = 0, 0, 0, nil
	}
	return s
}

func (s DiagramShape) Validate() error {
	switch s.Kind {
	case ShapeRectangle:
		if s.Radius != 0 || s.Points != nil || s.Text != "" {
			return fmt.Errorf("%w: rectangle carries foreign geometry", ErrInvalidShape)
		}
	case ShapeCircle:
		if s.Width != 0 || s.Height != 0 || s.Points != nil || s.Text != "" {
			return fmt.Errorf("%w: circle carries foreign geometry", ErrInvalidShape)
		}
	case ShapeLine, ShapeFreehand:
		if s.Width != 0 || s.Height != 0 || s.Radius != 0 || s.Text != "" {
			return fmt.Errorf("%w: %s carries foreign geometry", ErrInvalidShape, s.Kind)
		}
	case ShapeText:
		if s.Width != 0 || s.Height != 0 || s.Radius != 0 || s.Points != nil {
			return fmt.Errorf("%w: text carries foreign geometry", ErrInvalidShape)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidShape, s.Kind)
	}
	return nil
}

// Clone returns a copy that shares no point storage with s.
func (s DiagramShape) Clone() DiagramShape {
	if s.Points != nil {
		s.Points = append([]Point(nil), s.Points...)
	}
	return s
}

// ============================================================
// Settings
// ============================================================

type DisplayMode string

const (
	DisplayFixed       DisplayMode = "fixed"
	DisplayFitToScreen DisplayMode = "fit-to-screen"
	DisplayCentered    DisplayMode = "centered"
	DisplayAdaptive    DisplayMode = "adaptive"
)

func (m DisplayMode) Valid() bool {
	switch m {
	case DisplayFixed, DisplayFitToScreen, DisplayCentered, DisplayAdaptive:
		return true
	}
	return false
}

// Settings describe the coordinate space of a plan. Scale is pixels per cm,
// SnapGrid is in cm (0 disables snapping), max canvas sizes are in pixels
// (0 means unconstrained).
type Settings struct {
	Scale           float64     `json:"scale" yaml:"scale"`
	SnapGrid        float64     `json:"snapGrid" yaml:"snapGrid"`
	DisplayMode     DisplayMode `json:"displayMode" yaml:"displayMode"`
	ApartmentWidth  float64     `json:"apartmentWidth" yaml:"apartmentWidth"`
	ApartmentHeight float64     `json:"apartmentHeight" yaml:"apartmentHeight"`
	MaxCanvasWidth  float64     `json:"maxCanvasWidth,omitempty" yaml:"maxCanvasWidth"`
	MaxCanvasHeight float64     `json:"maxCanvasHeight,omitempty" yaml:"maxCanvasHeight"`
}

func DefaultSettings() Settings {
	return Settings{
		Scale:           1,
		SnapGrid:        5,
		DisplayMode:     DisplayFixed,
		ApartmentWidth:  1000,
		ApartmentHeight: 800,
		MaxCanvasWidth:  1200,
		MaxCanvasHeight: 1000,
	}
}

func (s Settings) Validate() error {
	if s.Scale <= 0 {
		return fmt.Errorf("scale must be positive, got %v", s.Scale)
	}
	if s.SnapGrid < 0 {
		return fmt.Errorf("snap grid must not be negative, got %v", s.SnapGrid)
	}
	if s.ApartmentWidth <= 0 || s.ApartmentHeight <= 0 {
		return fmt.Errorf("apartment size must be positive, got %vx%v", s.ApartmentWidth, s.ApartmentHeight)
	}
	if !s.DisplayMode.Valid() {
		return fmt.Errorf("unknown display mode %q", s.DisplayMode)
	}
	return nil
}
