package drawing

import (
	"math"

	"github.com/google/uuid"

	"floorplanner/internal/editor/geometry"
	"floorplanner/internal/editor/models"
)

// ============================================================
// Tools and state
// ============================================================

type Tool string

const (
	ToolSelect    Tool = "select"
	ToolRectangle Tool = "rectangle"
	ToolCircle    Tool = "circle"
	ToolLine      Tool = "line"
	ToolFreehand  Tool = "freehand"
	ToolText      Tool = "text"
)

func (t Tool) Valid() bool {
	switch t {
	case ToolSelect, ToolRectangle, ToolCircle, ToolLine, ToolFreehand, ToolText:
		return true
	}
	return false
}

type Style struct {
	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
}

func DefaultStyle() Style {
	return Style{Fill: "transparent", Stroke: "#000000", StrokeWidth: 2}
}

// State is the whole drawing interaction state. The pointer handlers take a
// State and return the next one, they never keep anything themselves.
type State struct {
	Tool     Tool         `json:"tool"`
	Style    Style        `json:"style"`
	Drawing  bool         `json:"drawing"`
	ActiveID string       `json:"activeId,omitempty"`
	Anchor   models.Point `json:"anchor"`
	// Path holds the freehand offsets from Anchor collected so far.
	Path []models.Point `json:"-"`
}

func NewState() State {
	return State{Tool: ToolSelect, Style: DefaultStyle()}
}

// Event is a pointer event. Pos is nil when the position could not be
// resolved into canvas coordinates.
type Event struct {
	Pos *models.Point
}

type Callbacks struct {
	OnShapeAdd    func(s models.DiagramShape)
	OnShapeUpdate func(id string, u models.ShapeUpdate)
	OnShapeDelete func(id string)
	// RequestText asks the user for the text of a new text shape. ok is false
	// when the user cancelled.
	RequestText func(at models.Point) (text string, ok bool)
	// NewID defaults to uuid.NewString.
	NewID func() string
}

func (cb Callbacks) newID() string {
	if cb.NewID != nil {
		return cb.NewID()
	}
	return uuid.NewString()
}

// ============================================================
// Pointer handlers
// ============================================================

func PointerDown(st State, ev Event, cb Callbacks) State {
	if ev.Pos == nil || st.Tool == ToolSelect || !st.Tool.Valid() {
		return st
	}
	p := *ev.Pos

	shape := models.DiagramShape{
		ID:          cb.newID(),
		X:           p.X,
		Y:           p.Y,
		Fill:        st.Style.Fill,
		Stroke:      st.Style.Stroke,
		StrokeWidth: st.Style.StrokeWidth,
	}

	switch st.Tool {
	case ToolRectangle:
		shape.Kind = models.ShapeRectangle
	case ToolCircle:
		shape.Kind = models.ShapeCircle
	case ToolLine:
		shape.Kind = models.ShapeLine
		shape.Points = []models.Point{{}, {}}
	case ToolFreehand:
		shape.Kind = models.ShapeFreehand
		shape.Points = []models.Point{{}}
	case ToolText:
		if cb.RequestText == nil {
			return st
		}
		text, ok := cb.RequestText(p)
		if !ok || text == "" {
			return st
		}
		shape.Kind = models.ShapeText
		shape.Text = text
		emitAdd(cb, shape)
		return st
	}

	emitAdd(cb, shape)

	st.Drawing = true
	st.ActiveID = shape.ID
	st.Anchor = p
	st.Path = nil
	if st.Tool == ToolFreehand {
		st.Path = []models.Point{{}}
	}
	return st
}

func PointerMove(st State, ev Event, cb Callbacks) State {
	if !st.Drawing || ev.Pos == nil {
		return st
	}
	p := *ev.Pos
	offset := models.Point{X: p.X - st.Anchor.X, Y: p.Y - st.Anchor.Y}

	var u models.ShapeUpdate
	switch st.Tool {
	case ToolRectangle:
		u.Width = models.Ptr(math.Abs(offset.X))
		u.Height = models.Ptr(math.Abs(offset.Y))
	case ToolCircle:
		u.Radius = models.Ptr(geometry.Distance(st.Anchor, p))
	case ToolLine:
		u.Points = &[]models.Point{{}, offset}
	case ToolFreehand:
		st.Path = append(st.Path, offset)
		pts := append([]models.Point(nil), st.Path...)
		u.Points = &pts
	default:
		return st
	}

	if cb.OnShapeUpdate != nil {
		cb.OnShapeUpdate(st.ActiveID, u)
	}
	return st
}

func PointerUp(st State) State {
	st.Drawing = false
	st.ActiveID = ""
	st.Path = nil
	return st
}

// Cancel drops the shape being drawn, if any.
func Cancel(st State, cb Callbacks) State {
	if st.Drawing && cb.OnShapeDelete != nil {
		cb.OnShapeDelete(st.ActiveID)
	}
	return PointerUp(st)
}

// SetTool switches tools and abandons any stroke in progress.
func SetTool(st State, tool Tool) State {
	if !tool.Valid() {
		return st
	}
	st = PointerUp(st)
	st.Tool = tool
	return st
}

func emitAdd(cb Callbacks, s models.DiagramShape) {
	if cb.OnShapeAdd != nil {
		cb.OnShapeAdd(s)
	}
}
