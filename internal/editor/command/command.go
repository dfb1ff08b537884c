package command

import (
	"time"

	"github.com/google/uuid"

	"floorplanner/internal/editor/models"
)

// ============================================================
// Mutation target
// ============================================================

// Target owns the zone, furniture and shape collections. Commands never hold
// the data themselves, they only call these callbacks. Patch and Delete on an
// unknown id must leave the collections untouched.
type Target interface {
	InsertZone(index int, z models.Zone)
	PatchZone(id string, u models.ZoneUpdate)
	DeleteZone(id string)

	InsertFurniture(index int, f models.FurnitureItem)
	PatchFurniture(id string, u models.FurnitureUpdate)
	DeleteFurniture(id string)

	InsertShape(index int, s models.DiagramShape)
	PatchShape(id string, u models.ShapeUpdate)
	DeleteShape(id string)
}

// ============================================================
// Operations
// ============================================================

type Kind string

const (
	KindAddZone         Kind = "add_zone"
	KindUpdateZone      Kind = "update_zone"
	KindRemoveZone      Kind = "remove_zone"
	KindAddFurniture    Kind = "add_furniture"
	KindUpdateFurniture Kind = "update_furniture"
	KindRemoveFurniture Kind = "remove_furniture"
	KindAddShape        Kind = "add_shape"
	KindUpdateShape     Kind = "update_shape"
	KindRemoveShape     Kind = "remove_shape"
	KindBatch           Kind = "batch"
)

// Op is one reversible mutation. The set of implementations is closed.
type Op interface {
	Kind() Kind
	// TargetID is the id of the entity the op mutates, empty for batches.
	TargetID() string
	sealed()
}

// AddZone inserts Zone at Index. A negative Index appends.
type AddZone struct {
	Zone  models.Zone
	Index int
}

type UpdateZone struct {
	ID  string
	Old models.ZoneUpdate
	New models.ZoneUpdate
}

// RemoveZone remembers the removed zone and its position so undo can put it back.
type RemoveZone struct {
	Zone  models.Zone
	Index int
}

type AddFurniture struct {
	Item  models.FurnitureItem
	Index int
}

type UpdateFurniture struct {
	ID  string
	Old models.FurnitureUpdate
	New models.FurnitureUpdate
}

type RemoveFurniture struct {
	Item  models.FurnitureItem
	Index int
}

type AddShape struct {
	Shape models.DiagramShape
	Index int
}

type UpdateShape struct {
	ID  string
	Old models.ShapeUpdate
	New models.ShapeUpdate
}

type RemoveShape struct {
	Shape models.DiagramShape
	Index int
}

// Batch applies Ops in order and reverts them in reverse order.
type Batch struct {
	Ops []Op
}

func (AddZone) Kind() Kind         { return KindAddZone }
func (UpdateZone) Kind() Kind      { return KindUpdateZone }
func (RemoveZone) Kind() Kind      { return KindRemoveZone }
func (AddFurniture) Kind() Kind    { return KindAddFurniture }
func (UpdateFurniture) Kind() Kind { return KindUpdateFurniture }
func (RemoveFurniture) Kind() Kind { return KindRemoveFurniture }
func (AddShape) Kind() Kind        { return KindAddShape }
func (UpdateShape) Kind() Kind     { return KindUpdateShape }
func (RemoveShape) Kind() Kind     { return KindRemoveShape }
func (Batch) Kind() Kind           { return KindBatch }

func (o AddZone) TargetID() string         { return o.Zone.ID }
func (o UpdateZone) TargetID() string      { return o.ID }
func (o RemoveZone) TargetID() string      { return o.Zone.ID }
func (o AddFurniture) TargetID() string    { return o.Item.ID }
func (o UpdateFurniture) TargetID() string { return o.ID }
func (o RemoveFurniture) TargetID() string { return o.Item.ID }
func (o AddShape) TargetID() string        { return o.Shape.ID }
func (o UpdateShape) TargetID() string     { return o.ID }
func (o RemoveShape) TargetID() string     { return o.Shape.ID }
func (Batch) TargetID() string             { return "" }

func (AddZone) sealed()         {}
func (UpdateZone) sealed()      {}
func (RemoveZone) sealed()      {}
func (AddFurniture) sealed()    {}
func (UpdateFurniture) sealed() {}
func (RemoveFurniture) sealed() {}
func (AddShape) sealed()        {}
func (UpdateShape) sealed()     {}
func (RemoveShape) sealed()     {}
func (Batch) sealed()           {}

// ============================================================
// Command
// ============================================================

type Command struct {
	ID        string
	Name      string
	CreatedAt time.Time
	Op        Op
}

// New stamps op with a fresh id and the current time.
func New(name string, op Op) Command {
	return Command{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now(),
		Op:        op,
	}
}
