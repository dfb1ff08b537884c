package session

import (
	"log"

	"floorplanner/internal/editor/drawing"
	"floorplanner/internal/editor/models"
	"floorplanner/internal/editor/transform"
)

// ============================================================
// Drawing tools
// ============================================================

func (e *Editor) DrawState() drawing.State { return e.draw }

func (e *Editor) SetTool(tool drawing.Tool) bool {
	if !tool.Valid() {
		return false
	}
	e.draw = drawing.SetTool(e.draw, tool)
	return true
}

func (e *Editor) SetStyle(style drawing.Style) {
	e.draw.Style = style
}

// drawCallbacks routes the drawing state machine into the command history.
// text answers a text tool prompt; an empty text cancels it.
func (e *Editor) drawCallbacks(text string) drawing.Callbacks {
	return drawing.Callbacks{
		OnShapeAdd: func(s models.DiagramShape) {
			if _, err := e.AddShape(s); err != nil {
				log.Printf("[SESSION] Shape add rejected: %v", err)
			}
		},
		OnShapeUpdate: func(id string, u models.ShapeUpdate) {
			if err := e.UpdateShape(id, u); err != nil {
				log.Printf("[SESSION] Shape update %s rejected: %v", id, err)
			}
		},
		OnShapeDelete: func(id string) {
			if err := e.RemoveShape(id); err != nil {
				log.Printf("[SESSION] Shape delete %s rejected: %v", id, err)
			}
		},
		RequestText: func(models.Point) (string, bool) {
			return text, text != ""
		},
	}
}

func (e *Editor) PointerDown(pos *models.Point, text string) drawing.State {
	e.draw = drawing.PointerDown(e.draw, drawing.Event{Pos: pos}, e.drawCallbacks(text))
	return e.draw
}

func (e *Editor) PointerMove(pos *models.Point) drawing.State {
	e.draw = drawing.PointerMove(e.draw, drawing.Event{Pos: pos}, e.drawCallbacks(""))
	return e.draw
}

func (e *Editor) PointerUp() drawing.State {
	e.draw = drawing.PointerUp(e.draw)
	return e.draw
}

// CancelDrawing discards the shape being drawn.
func (e *Editor) CancelDrawing() drawing.State {
	e.draw = drawing.Cancel(e.draw, e.drawCallbacks(""))
	return e.draw
}

// ============================================================
// Selection and manipulation
// ============================================================

// Transform exposes the selection controller. Its commits land in the
// command history like any other edit.
func (e *Editor) Transform() *transform.Controller { return e.transform }

// Select picks the zone or furniture item with id, depending on the edit mode.
func (e *Editor) Select(mode transform.EditMode, id string) error {
	e.transform.SetMode(mode)
	switch mode {
	case transform.ModeZones:
		z, ok := e.doc.Zone(id)
		if !ok {
			return ErrNotFound
		}
		e.transform.SelectZone(z)
	case transform.ModeFurniture:
		f, ok := e.doc.FurnitureItem(id)
		if !ok {
			return ErrNotFound
		}
		e.transform.SelectFurniture(f)
	default:
		return ErrNotFound
	}
	return nil
}
