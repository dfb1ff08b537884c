package command

import (
	"fmt"
	"time"
)

// ============================================================
// Dispatcher
// ============================================================

// Apply runs op against t without recording it, e.g. to preview the outcome
// on a scratch copy.
func Apply(t Target, op Op) {
	apply(t, op)
}

func apply(t Target, op Op) {
	switch o := op.(type) {
	case AddZone:
		t.InsertZone(o.Index, o.Zone)
	case UpdateZone:
		t.PatchZone(o.ID, o.New)
	case RemoveZone:
		t.DeleteZone(o.Zone.ID)
	case AddFurniture:
		t.InsertFurniture(o.Index, o.Item)
	case UpdateFurniture:
		t.PatchFurniture(o.ID, o.New)
	case RemoveFurniture:
		t.DeleteFurniture(o.Item.ID)
	case AddShape:
		t.InsertShape(o.Index, o.Shape.Clone())
	case UpdateShape:
		t.PatchShape(o.ID, o.New)
	case RemoveShape:
		t.DeleteShape(o.Shape.ID)
	case Batch:
		for _, inner := range o.Ops {
			apply(t, inner)
		}
	default:
		panic(fmt.Sprintf("command: unknown op %T", op))
	}
}

func revert(t Target, op Op) {
	switch o := op.(type) {
	case AddZone:
		t.DeleteZone(o.Zone.ID)
	case UpdateZone:
		t.PatchZone(o.ID, o.Old)
	case RemoveZone:
		t.InsertZone(o.Index, o.Zone)
	case AddFurniture:
		t.DeleteFurniture(o.Item.ID)
	case UpdateFurniture:
		t.PatchFurniture(o.ID, o.Old)
	case RemoveFurniture:
		t.InsertFurniture(o.Index, o.Item)
	case AddShape:
		t.DeleteShape(o.Shape.ID)
	case UpdateShape:
		t.PatchShape(o.ID, o.Old)
	case RemoveShape:
		t.InsertShape(o.Index, o.Shape.Clone())
	case Batch:
		for i := len(o.Ops) - 1; i >= 0; i-- {
			revert(t, o.Ops[i])
		}
	default:
		panic(fmt.Sprintf("command: unknown op %T", op))
	}
}

// ============================================================
// Merging
// ============================================================

// canMerge reports whether next continues prev: same update kind, same
// entity, issued less than window after prev.
func canMerge(prev, next Command, window time.Duration) bool {
	if window <= 0 || prev.Op.Kind() != next.Op.Kind() {
		return false
	}
	switch prev.Op.(type) {
	case UpdateZone, UpdateFurniture, UpdateShape:
	default:
		return false
	}
	if prev.Op.TargetID() != next.Op.TargetID() {
		return false
	}
	delta := next.CreatedAt.Sub(prev.CreatedAt)
	return delta >= 0 && delta < window
}

// merge folds next into prev. The older captured values win on the undo side
// and the newer written values win on the redo side.
func merge(prev, next Command) Command {
	out := prev
	out.CreatedAt = next.CreatedAt

	switch p := prev.Op.(type) {
	case UpdateZone:
		n := next.Op.(UpdateZone)
		out.Op = UpdateZone{ID: p.ID, Old: n.Old.Merge(p.Old), New: p.New.Merge(n.New)}
	case UpdateFurniture:
		n := next.Op.(UpdateFurniture)
		out.Op = UpdateFurniture{ID: p.ID, Old: n.Old.Merge(p.Old), New: p.New.Merge(n.New)}
	case UpdateShape:
		n := next.Op.(UpdateShape)
		out.Op = UpdateShape{ID: p.ID, Old: n.Old.Merge(p.Old), New: p.New.Merge(n.New)}
	}
	return out
}
