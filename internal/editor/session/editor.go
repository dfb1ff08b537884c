package session

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"floorplanner/internal/editor/canvas"
	"floorplanner/internal/editor/command"
	"floorplanner/internal/editor/drawing"
	"floorplanner/internal/editor/geometry"
	"floorplanner/internal/editor/models"
	"floorplanner/internal/editor/state"
	"floorplanner/internal/editor/transform"
)

var (
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidGeometry = errors.New("invalid geometry")
	ErrDuplicateZone   = errors.New("zone id already in use")
)

// ============================================================
// Editor
// ============================================================

type Options struct {
	History      command.Options
	RotationSnap bool
	RotationStep float64
}

func DefaultOptions() Options {
	return Options{
		History:      command.DefaultOptions(),
		RotationStep: transform.DefaultRotationStep,
	}
}

// Editor is one open plan. Every change to zones, furniture and shapes goes
// through its command manager, so everything it does can be undone.
//
// Editor is not safe for concurrent use.
type Editor struct {
	settings models.Settings
	doc      *state.Document
	history  *command.Manager
	opts     Options

	viewport  *canvas.Viewport
	draw      drawing.State
	transform *transform.Controller
}

func NewEditor(settings models.Settings, doc *state.Document, opts Options) *Editor {
	if doc == nil {
		doc = state.NewDocument()
	}
	e := &Editor{
		settings: settings,
		doc:      doc,
		opts:     opts,
		draw:     drawing.NewState(),
	}
	e.history = command.NewManager(doc, opts.History)
	e.history.OnTrim = func(c command.Command) {
		log.Printf("[SESSION] History full, dropped %q", c.Name)
	}
	e.transform = transform.NewController(e.transformConfig(), transform.Callbacks{
		OnZoneUpdate: func(id string, u models.ZoneUpdate) {
			if err := e.UpdateZone(id, u); err != nil {
				log.Printf("[SESSION] Zone commit %s failed: %v", id, err)
			}
		},
		OnFurnitureUpdate: func(id string, u models.FurnitureUpdate) {
			if err := e.UpdateFurniture(id, u); err != nil {
				log.Printf("[SESSION] Furniture commit %s failed: %v", id, err)
			}
		},
	})
	return e
}

func (e *Editor) Settings() models.Settings { return e.settings }

// Document returns a copy of the current collections.
func (e *Editor) Document() *state.Document { return e.doc.Clone() }

func (e *Editor) SetSettings(s models.Settings) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}
	e.settings = s
	e.transform.SetConfig(e.transformConfig())
	return nil
}

// SetViewport records the measured viewport. nil forgets it.
func (e *Editor) SetViewport(vp *canvas.Viewport) canvas.Size {
	e.viewport = vp
	e.transform.SetConfig(e.transformConfig())
	return e.CanvasSize()
}

func (e *Editor) CanvasSize() canvas.Size {
	return canvas.CalculateCanvasSize(e.settings, e.viewport)
}

func (e *Editor) transformConfig() transform.Config {
	size := e.CanvasSize()
	return transform.Config{
		CanvasWidth:       size.Width,
		CanvasHeight:      size.Height,
		Scale:             size.Scale,
		SnapEnabled:       e.settings.SnapGrid > 0,
		SnapGrid:          e.settings.SnapGrid,
		ConstrainToCanvas: true,
		RotationSnap:      e.opts.RotationSnap,
		RotationStep:      e.opts.RotationStep,
	}
}

// ============================================================
// History
// ============================================================

func (e *Editor) Undo() bool {
	ok := e.history.Undo()
	e.syncSelection()
	return ok
}

func (e *Editor) Redo() bool {
	ok := e.history.Redo()
	e.syncSelection()
	return ok
}

func (e *Editor) CanUndo() bool            { return e.history.CanUndo() }
func (e *Editor) CanRedo() bool            { return e.history.CanRedo() }
func (e *Editor) UndoName() string         { return e.history.UndoName() }
func (e *Editor) RedoName() string         { return e.history.RedoName() }
func (e *Editor) ClearHistory()            { e.history.Clear() }
func (e *Editor) History() []command.Entry { return e.history.History() }

func (e *Editor) execute(name string, ops ...command.Op) {
	switch len(ops) {
	case 0:
		return
	case 1:
		e.history.Execute(command.New(name, ops[0]))
	default:
		e.history.Execute(command.New(name, command.Batch{Ops: ops}))
	}
	e.syncSelection()
}

// syncSelection points the transform selection back at the document. The
// selection is dropped when its entity is gone.
func (e *Editor) syncSelection() {
	sel, ok := e.transform.Selection()
	if !ok {
		return
	}
	switch sel.Mode {
	case transform.ModeZones:
		if z, ok := e.doc.Zone(sel.ID); ok {
			e.transform.Refresh(z.Rect(), 0)
			return
		}
	case transform.ModeFurniture:
		if f, ok := e.doc.FurnitureItem(sel.ID); ok {
			e.transform.Refresh(f.Rect(), f.Rotation)
			return
		}
	}
	e.transform.ClearSelection()
}

// preview returns the document as it would look after ops.
func (e *Editor) preview(ops ...command.Op) *state.Document {
	d := e.doc.Clone()
	for _, op := range ops {
		command.Apply(d, op)
	}
	return d
}

// reassign lists the zone changes furniture in d needs after a zone edit.
func reassign(d *state.Document) []command.Op {
	var ops []command.Op
	for _, f := range d.Furniture {
		zoneID := geometry.DetectFurnitureZone(f, d.Zones).ZoneID
		if zoneID == f.ZoneID {
			continue
		}
		ops = append(ops, command.UpdateFurniture{
			ID:  f.ID,
			Old: models.FurnitureUpdate{ZoneID: models.Ptr(f.ZoneID)},
			New: models.FurnitureUpdate{ZoneID: models.Ptr(zoneID)},
		})
	}
	return ops
}

// ============================================================
// Zones
// ============================================================

func (e *Editor) AddZone(z models.Zone) (models.Zone, error) {
	if z.Width <= 0 || z.Height <= 0 {
		return models.Zone{}, fmt.Errorf("%w: zone size %vx%v", ErrInvalidGeometry, z.Width, z.Height)
	}
	if z.ID == "" {
		z.ID = uuid.NewString()
	}
	if z.ZoneID == "" {
		z.ZoneID = z.ID
	}
	if _, taken := e.doc.ZoneByZoneID(z.ZoneID); taken {
		return models.Zone{}, fmt.Errorf("%w: %s", ErrDuplicateZone, z.ZoneID)
	}

	add := command.AddZone{Zone: z, Index: -1}
	e.execute("Add zone "+z.Name, append([]command.Op{add}, reassign(e.preview(add))...)...)
	return z, nil
}

func (e *Editor) UpdateZone(id string, u models.ZoneUpdate) error {
	current, ok := e.doc.Zone(id)
	if !ok {
		return fmt.Errorf("%w: zone %s", ErrNotFound, id)
	}
	if u.IsEmpty() {
		return nil
	}
	next := u.Apply(current)
	if next.Width <= 0 || next.Height <= 0 {
		return fmt.Errorf("%w: zone size %vx%v", ErrInvalidGeometry, next.Width, next.Height)
	}
	if u.ZoneID != nil && *u.ZoneID != current.ZoneID {
		if _, taken := e.doc.ZoneByZoneID(*u.ZoneID); taken {
			return fmt.Errorf("%w: %s", ErrDuplicateZone, *u.ZoneID)
		}
	}

	op := command.UpdateZone{ID: id, Old: u.Capture(current), New: u}
	ops := []command.Op{op}
	if u.TouchesGeometry() || u.ZoneID != nil {
		ops = append(ops, reassign(e.preview(op))...)
	}
	e.execute("Update zone "+current.Name, ops...)
	return nil
}

func (e *Editor) RemoveZone(id string) error {
	i := e.doc.ZoneIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: zone %s", ErrNotFound, id)
	}
	z := e.doc.Zones[i]
	op := command.RemoveZone{Zone: z, Index: i}
	e.execute("Remove zone "+z.Name, append([]command.Op{op}, reassign(e.preview(op))...)...)
	return nil
}

// ImportZones replaces all zones with an externally generated layout after
// running it through the layout validator. The whole import is one undo step.
// A zone reusing an earlier zone's zoneId is dropped.
func (e *Editor) ImportZones(zones []models.Zone) geometry.LayoutReport {
	unique := make([]models.Zone, 0, len(zones))
	ids := make(map[string]bool, len(zones))
	zoneIDs := make(map[string]bool, len(zones))
	var duplicates []string
	for _, z := range zones {
		if z.ID == "" || ids[z.ID] {
			z.ID = uuid.NewString()
		}
		if z.ZoneID == "" {
			z.ZoneID = z.ID
		}
		if zoneIDs[z.ZoneID] {
			duplicates = append(duplicates, z.ZoneID)
			continue
		}
		ids[z.ID] = true
		zoneIDs[z.ZoneID] = true
		unique = append(unique, z)
	}

	report := geometry.ValidateAndOptimizeZonesWith(unique, e.settings.ApartmentWidth, e.settings.ApartmentHeight, geometry.DefaultLayoutOptions())
	for _, id := range report.Dropped {
		log.Printf("[IMPORT] Dropped zone %s: no room left for it", id)
	}
	for _, id := range duplicates {
		log.Printf("[IMPORT] Dropped zone %s: zone id already in use", id)
	}
	report.Dropped = append(report.Dropped, duplicates...)
	for _, id := range report.Relocated {
		log.Printf("[IMPORT] Relocated zone %s", id)
	}

	var ops []command.Op
	for i := len(e.doc.Zones) - 1; i >= 0; i-- {
		ops = append(ops, command.RemoveZone{Zone: e.doc.Zones[i], Index: i})
	}
	for _, z := range report.Accepted {
		ops = append(ops, command.AddZone{Zone: z, Index: -1})
	}
	ops = append(ops, reassign(e.preview(ops...))...)

	if len(ops) > 0 {
		e.execute("Import layout", command.Batch{Ops: ops})
	}
	return report
}

// ============================================================
// Furniture
// ============================================================

// AddFurniture inserts f and assigns it to the zone it overlaps most.
func (e *Editor) AddFurniture(f models.FurnitureItem) (models.FurnitureItem, error) {
	if f.Width <= 0 || f.Height <= 0 {
		return models.FurnitureItem{}, fmt.Errorf("%w: furniture size %vx%v", ErrInvalidGeometry, f.Width, f.Height)
	}
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	f.Rotation = models.NormalizeRotation(f.Rotation)
	f.ZoneID = geometry.DetectFurnitureZone(f, e.doc.Zones).ZoneID

	e.execute("Add "+f.Name, command.AddFurniture{Item: f, Index: -1})
	return f, nil
}

// UpdateFurniture applies u. Moving or resizing an item re-runs zone
// detection unless u sets the zone explicitly.
func (e *Editor) UpdateFurniture(id string, u models.FurnitureUpdate) error {
	current, ok := e.doc.FurnitureItem(id)
	if !ok {
		return fmt.Errorf("%w: furniture %s", ErrNotFound, id)
	}
	if u.IsEmpty() {
		return nil
	}
	if u.Rotation != nil {
		u.Rotation = models.Ptr(models.NormalizeRotation(*u.Rotation))
	}
	next := u.Apply(current)
	if next.Width <= 0 || next.Height <= 0 {
		return fmt.Errorf("%w: furniture size %vx%v", ErrInvalidGeometry, next.Width, next.Height)
	}
	if u.ZoneID == nil && u.TouchesGeometry() {
		if zoneID := geometry.DetectFurnitureZone(next, e.doc.Zones).ZoneID; zoneID != current.ZoneID {
			u.ZoneID = models.Ptr(zoneID)
		}
	}

	e.execute("Update "+current.Name, command.UpdateFurniture{ID: id, Old: u.Capture(current), New: u})
	return nil
}

func (e *Editor) RemoveFurniture(id string) error {
	i := e.doc.FurnitureIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: furniture %s", ErrNotFound, id)
	}
	f := e.doc.Furniture[i]
	e.execute("Remove "+f.Name, command.RemoveFurniture{Item: f, Index: i})
	return nil
}

// AutoAssign re-runs zone detection for every item as one undo step and
// returns how many items changed zone.
func (e *Editor) AutoAssign() int {
	ops := reassign(e.doc)
	if len(ops) == 0 {
		return 0
	}
	e.execute("Auto-assign furniture", command.Batch{Ops: ops})
	return len(ops)
}

func (e *Editor) Utilization(zoneID string) (geometry.Utilization, error) {
	z, ok := e.doc.ZoneByZoneID(zoneID)
	if !ok {
		return geometry.Utilization{}, fmt.Errorf("%w: zone %s", ErrNotFound, zoneID)
	}
	return geometry.CalculateZoneUtilization(z, e.doc.Furniture), nil
}

// SuggestPlacement finds a free spot for an item of the given size in zoneID.
func (e *Editor) SuggestPlacement(zoneID string, size geometry.Size, padding float64) (models.Point, bool, error) {
	z, ok := e.doc.ZoneByZoneID(zoneID)
	if !ok {
		return models.Point{}, false, fmt.Errorf("%w: zone %s", ErrNotFound, zoneID)
	}
	p, found := geometry.SuggestFurniturePlacement(size, z, e.doc.FurnitureInZone(zoneID), padding)
	return p, found, nil
}

// ============================================================
// Shapes
// ============================================================

func (e *Editor) AddShape(s models.DiagramShape) (models.DiagramShape, error) {
	if err := s.Validate(); err != nil {
		return models.DiagramShape{}, err
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	e.execute("Add "+string(s.Kind), command.AddShape{Shape: s.Clone(), Index: -1})
	return s, nil
}

func (e *Editor) UpdateShape(id string, u models.ShapeUpdate) error {
	current, ok := e.doc.Shape(id)
	if !ok {
		return fmt.Errorf("%w: shape %s", ErrNotFound, id)
	}
	if err := u.Apply(current).Validate(); err != nil {
		return err
	}
	e.execute("Update "+string(current.Kind), command.UpdateShape{ID: id, Old: u.Capture(current), New: u})
	return nil
}

func (e *Editor) RemoveShape(id string) error {
	i := e.doc.ShapeIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: shape %s", ErrNotFound, id)
	}
	s := e.doc.Shapes[i].Clone()
	e.execute("Delete "+string(s.Kind), command.RemoveShape{Shape: s, Index: i})
	return nil
}

func (e *Editor) DuplicateShape(id string) (models.DiagramShape, error) {
	s, ok := e.doc.Shape(id)
	if !ok {
		return models.DiagramShape{}, fmt.Errorf("%w: shape %s", ErrNotFound, id)
	}
	dup := drawing.Duplicate(s)
	e.execute("Duplicate "+string(s.Kind), command.AddShape{Shape: dup, Index: -1})
	return dup, nil
}
