package transform

import (
	"math"

	"floorplanner/internal/editor/models"
)

// ============================================================
// Configuration
// ============================================================

const (
	// MinExtentPx is the smallest width/height a constrained box may have.
	MinExtentPx = 10.0
	// MinResizePx floors width/height while resizing.
	MinResizePx         = 5.0
	DefaultRotationStep = 15.0
)

// Config is expressed in pixels except SnapGrid, which is in cm.
type Config struct {
	CanvasWidth       float64
	CanvasHeight      float64
	Scale             float64
	SnapEnabled       bool
	SnapGrid          float64
	ConstrainToCanvas bool
	RotationSnap      bool
	RotationStep      float64
}

type EditMode string

const (
	ModeZones     EditMode = "zones"
	ModeFurniture EditMode = "furniture"
)

type Callbacks struct {
	OnZoneUpdate      func(id string, u models.ZoneUpdate)
	OnFurnitureUpdate func(id string, u models.FurnitureUpdate)
	OnRotationChange  func(deg float64)
}

// Selection is the on-screen box of the selected entity, in pixels.
type Selection struct {
	Mode     EditMode    `json:"mode"`
	ID       string      `json:"id"`
	Box      models.Rect `json:"box"`
	Rotation float64     `json:"rotation"`
}

// ============================================================
// Controller
// ============================================================

// Controller holds at most one selection, either a zone or a furniture item
// depending on the edit mode, and turns pointer manipulation of it into
// committed cm values.
type Controller struct {
	cfg  Config
	cb   Callbacks
	mode EditMode
	sel  *Selection
}

func NewController(cfg Config, cb Callbacks) *Controller {
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	if cfg.RotationStep <= 0 {
		cfg.RotationStep = DefaultRotationStep
	}
	return &Controller{cfg: cfg, cb: cb, mode: ModeFurniture}
}

func (c *Controller) Config() Config { return c.cfg }

// SetConfig replaces the configuration, e.g. after the canvas was resized.
// The current selection box is rebuilt at the new scale.
func (c *Controller) SetConfig(cfg Config) {
	if cfg.Scale <= 0 {
		cfg.Scale = c.cfg.Scale
	}
	if cfg.RotationStep <= 0 {
		cfg.RotationStep = DefaultRotationStep
	}
	if c.sel != nil {
		cm := c.rectToUnits(c.sel.Box)
		c.cfg = cfg
		c.sel.Box = c.rectToPixels(cm)
		return
	}
	c.cfg = cfg
}

func (c *Controller) Mode() EditMode { return c.mode }

// SetMode switches between zone and furniture editing and drops the selection.
func (c *Controller) SetMode(mode EditMode) {
	if mode != c.mode {
		c.sel = nil
	}
	c.mode = mode
}

// ============================================================
// Units, snapping, bounds
// ============================================================

func (c *Controller) ToPixels(cm float64) float64 { return cm * c.cfg.Scale }
func (c *Controller) ToUnits(px float64) float64  { return px / c.cfg.Scale }

func (c *Controller) rectToPixels(r models.Rect) models.Rect {
	return models.Rect{X: c.ToPixels(r.X), Y: c.ToPixels(r.Y), Width: c.ToPixels(r.Width), Height: c.ToPixels(r.Height)}
}

func (c *Controller) rectToUnits(r models.Rect) models.Rect {
	return models.Rect{X: c.ToUnits(r.X), Y: c.ToUnits(r.Y), Width: c.ToUnits(r.Width), Height: c.ToUnits(r.Height)}
}

// Snap rounds a pixel value to the nearest grid line. The grid is in cm.
func (c *Controller) Snap(px float64) float64 {
	if !c.cfg.SnapEnabled || c.cfg.SnapGrid <= 0 {
		return px
	}
	cm := c.ToUnits(px)
	return c.ToPixels(math.Round(cm/c.cfg.SnapGrid) * c.cfg.SnapGrid)
}

// Constrain enforces the minimum extent and, when enabled, keeps the box on
// the canvas.
func (c *Controller) Constrain(r models.Rect) models.Rect {
	r.Width = math.Max(r.Width, MinExtentPx)
	r.Height = math.Max(r.Height, MinExtentPx)
	if !c.cfg.ConstrainToCanvas {
		return r
	}
	if c.cfg.CanvasWidth > 0 {
		r.Width = math.Min(r.Width, math.Max(c.cfg.CanvasWidth, MinExtentPx))
		r.X = clamp(r.X, 0, math.Max(0, c.cfg.CanvasWidth-r.Width))
	}
	if c.cfg.CanvasHeight > 0 {
		r.Height = math.Min(r.Height, math.Max(c.cfg.CanvasHeight, MinExtentPx))
		r.Y = clamp(r.Y, 0, math.Max(0, c.cfg.CanvasHeight-r.Height))
	}
	return r
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// ============================================================
// Selection
// ============================================================

// SelectZone selects z. It is ignored outside zone mode.
func (c *Controller) SelectZone(z models.Zone) bool {
	if c.mode != ModeZones {
		return false
	}
	c.sel = &Selection{Mode: ModeZones, ID: z.ID, Box: c.rectToPixels(z.Rect())}
	return true
}

// SelectFurniture selects f. It is ignored outside furniture mode.
func (c *Controller) SelectFurniture(f models.FurnitureItem) bool {
	if c.mode != ModeFurniture {
		return false
	}
	c.sel = &Selection{Mode: ModeFurniture, ID: f.ID, Box: c.rectToPixels(f.Rect()), Rotation: f.Rotation}
	return true
}

func (c *Controller) ClearSelection() { c.sel = nil }

// Refresh resets the selection box to r, in cm, and the rotation to rotation.
// It is called after the selected entity changed outside a manipulation.
func (c *Controller) Refresh(r models.Rect, rotation float64) {
	if c.sel == nil {
		return
	}
	c.sel.Box = c.rectToPixels(r)
	if c.sel.Mode == ModeFurniture {
		c.sel.Rotation = rotation
	}
}

func (c *Controller) Selection() (Selection, bool) {
	if c.sel == nil {
		return Selection{}, false
	}
	return *c.sel, true
}

// ============================================================
// Drag / resize / rotate
// ============================================================

// Drag moves the selection to the pixel position (x, y) and returns the
// snapped and constrained box.
func (c *Controller) Drag(x, y float64) (models.Rect, bool) {
	if c.sel == nil {
		return models.Rect{}, false
	}
	box := c.sel.Box
	box.X, box.Y = c.Snap(x), c.Snap(y)
	c.sel.Box = c.Constrain(box)
	return c.sel.Box, true
}

// EndDrag commits the position in whole cm.
func (c *Controller) EndDrag() bool {
	if c.sel == nil {
		return false
	}
	cm := c.committed()
	switch c.sel.Mode {
	case ModeZones:
		c.emitZone(models.ZoneUpdate{X: models.Ptr(cm.X), Y: models.Ptr(cm.Y)})
	case ModeFurniture:
		c.emitFurniture(models.FurnitureUpdate{X: models.Ptr(cm.X), Y: models.Ptr(cm.Y)})
	}
	return true
}

// Resize scales the selected box by the manipulation factors sx and sy.
func (c *Controller) Resize(sx, sy float64) (models.Rect, bool) {
	if c.sel == nil {
		return models.Rect{}, false
	}
	box := c.sel.Box
	box.Width = math.Max(MinResizePx, c.Snap(math.Max(box.Width*sx, MinResizePx)))
	box.Height = math.Max(MinResizePx, c.Snap(math.Max(box.Height*sy, MinResizePx)))
	if c.cfg.ConstrainToCanvas {
		box = c.Constrain(box)
	}
	c.sel.Box = box
	return box, true
}

// EndResize commits position and size in whole cm.
func (c *Controller) EndResize() bool {
	if c.sel == nil {
		return false
	}
	cm := c.committed()
	switch c.sel.Mode {
	case ModeZones:
		c.emitZone(models.ZoneUpdate{
			X: models.Ptr(cm.X), Y: models.Ptr(cm.Y),
			Width: models.Ptr(cm.Width), Height: models.Ptr(cm.Height),
		})
	case ModeFurniture:
		c.emitFurniture(models.FurnitureUpdate{
			X: models.Ptr(cm.X), Y: models.Ptr(cm.Y),
			Width: models.Ptr(cm.Width), Height: models.Ptr(cm.Height),
		})
	}
	return true
}

// Rotate sets the furniture rotation in degrees, snapped to RotationStep
// when rotation snapping is on. Zones stay axis aligned.
func (c *Controller) Rotate(deg float64) (float64, bool) {
	if c.sel == nil || c.sel.Mode != ModeFurniture {
		return 0, false
	}
	if c.cfg.RotationSnap {
		deg = math.Round(deg/c.cfg.RotationStep) * c.cfg.RotationStep
	}
	c.sel.Rotation = models.NormalizeRotation(deg)
	if c.cb.OnRotationChange != nil {
		c.cb.OnRotationChange(c.sel.Rotation)
	}
	return c.sel.Rotation, true
}

func (c *Controller) EndRotate() bool {
	if c.sel == nil || c.sel.Mode != ModeFurniture {
		return false
	}
	c.emitFurniture(models.FurnitureUpdate{Rotation: models.Ptr(models.NormalizeRotation(c.sel.Rotation))})
	return true
}

// committed converts the selection box to whole cm, keeping the minimum
// extent and the canvas bounds after rounding.
func (c *Controller) committed() models.Rect {
	cm := c.rectToUnits(c.sel.Box)
	cm.X, cm.Y = math.Round(cm.X), math.Round(cm.Y)
	cm.Width, cm.Height = math.Round(cm.Width), math.Round(cm.Height)

	if !c.cfg.ConstrainToCanvas {
		return cm
	}
	minCm := math.Ceil(c.ToUnits(MinExtentPx))
	cm.Width = math.Max(cm.Width, minCm)
	cm.Height = math.Max(cm.Height, minCm)
	if c.cfg.CanvasWidth > 0 {
		cm.X = clamp(cm.X, 0, math.Max(0, math.Floor(c.ToUnits(c.cfg.CanvasWidth)-cm.Width)))
	}
	if c.cfg.CanvasHeight > 0 {
		cm.Y = clamp(cm.Y, 0, math.Max(0, math.Floor(c.ToUnits(c.cfg.CanvasHeight)-cm.Height)))
	}
	return cm
}

func (c *Controller) emitZone(u models.ZoneUpdate) {
	if c.cb.OnZoneUpdate != nil {
		c.cb.OnZoneUpdate(c.sel.ID, u)
	}
}

func (c *Controller) emitFurniture(u models.FurnitureUpdate) {
	if c.cb.OnFurnitureUpdate != nil {
		c.cb.OnFurnitureUpdate(c.sel.ID, u)
	}
}
