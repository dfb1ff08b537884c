package models

// ============================================================
// Partial updates
// ============================================================
//
// A nil field means "not part of this update". Commands keep two updates per
// edit: the values written and the values they replaced.

func Ptr[T any](v T) *T {
	return &v
}

type ZoneUpdate struct {
	ZoneID *string  `json:"zoneId,omitempty"`
	Name   *string  `json:"name,omitempty"`
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
	Color  *string  `json:"color,omitempty"`
}

func (u ZoneUpdate) Apply(z Zone) Zone {
	if u.ZoneID != nil {
		z.ZoneID = *u.ZoneID
	}
	if u.Name != nil {
		z.Name = *u.Name
	}
	if u.X != nil {
		z.X = *u.X
	}
	if u.Y != nil {
		z.Y = *u.Y
	}
	if u.Width != nil {
		z.Width = *u.Width
	}
	if u.Height != nil {
		z.Height = *u.Height
	}
	if u.Color != nil {
		z.Color = *u.Color
	}
	return z
}

// Capture returns the current values of z for every field set in u.
func (u ZoneUpdate) Capture(z Zone) ZoneUpdate {
	var old ZoneUpdate
	if u.ZoneID != nil {
		old.ZoneID = Ptr(z.ZoneID)
	}
	if u.Name != nil {
		old.Name = Ptr(z.Name)
	}
	if u.X != nil {
		old.X = Ptr(z.X)
	}
	if u.Y != nil {
		old.Y = Ptr(z.Y)
	}
	if u.Width != nil {
		old.Width = Ptr(z.Width)
	}
	if u.Height != nil {
		old.Height = Ptr(z.Height)
	}
	if u.Color != nil {
		old.Color = Ptr(z.Color)
	}
	return old
}

// Merge overlays next on top of u.
func (u ZoneUpdate) Merge(next ZoneUpdate) ZoneUpdate {
	if next.ZoneID != nil {
		u.ZoneID = next.ZoneID
	}
	if next.Name != nil {
		u.Name = next.Name
	}
	if next.X != nil {
		u.X = next.X
	}
	if next.Y != nil {
		u.Y = next.Y
	}
	if next.Width != nil {
		u.Width = next.Width
	}
	if next.Height != nil {
		u.Height = next.Height
	}
	if next.Color != nil {
		u.Color = next.Color
	}
	return u
}

func (u ZoneUpdate) IsEmpty() bool {
	return u == ZoneUpdate{}
}

func (u ZoneUpdate) TouchesGeometry() bool {
	return u.X != nil || u.Y != nil || u.Width != nil || u.Height != nil
}

type FurnitureUpdate struct {
	Name     *string  `json:"name,omitempty"`
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Width    *float64 `json:"width,omitempty"`
	Height   *float64 `json:"height,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`
	Color    *string  `json:"color,omitempty"`
	ZoneID   *string  `json:"zoneId,omitempty"`
}

func (u FurnitureUpdate) Apply(f FurnitureItem) FurnitureItem {
	if u.Name != nil {
		f.Name = *u.Name
	}
	if u.X != nil {
		f.X = *u.X
	}
	if u.Y != nil {
		f.Y = *u.Y
	}
	if u.Width != nil {
		f.Width = *u.Width
	}
	if u.Height != nil {
		f.Height = *u.Height
	}
	if u.Rotation != nil {
		f.Rotation = *u.Rotation
	}
	if u.Color != nil {
		f.Color = *u.Color
	}
	if u.ZoneID != nil {
		f.ZoneID = *u.ZoneID
	}
	return f
}

func (u FurnitureUpdate) Capture(f FurnitureItem) FurnitureUpdate {
	var old FurnitureUpdate
	if u.Name != nil {
		old.Name = Ptr(f.Name)
	}
	if u.X != nil {
		old.X = Ptr(f.X)
	}
	if u.Y != nil {
		old.Y = Ptr(f.Y)
	}
	if u.Width != nil {
		old.Width = Ptr(f.Width)
	}
	if u.Height != nil {
		old.Height = Ptr(f.Height)
	}
	if u.Rotation != nil {
		old.Rotation = Ptr(f.Rotation)
	}
	if u.Color != nil {
		old.Color = Ptr(f.Color)
	}
	if u.ZoneID != nil {
		old.ZoneID = Ptr(f.ZoneID)
	}
	return old
}

func (u FurnitureUpdate) Merge(next FurnitureUpdate) FurnitureUpdate {
	if next.Name != nil {
		u.Name = next.Name
	}
	if next.X != nil {
		u.X = next.X
	}
	if next.Y != nil {
		u.Y = next.Y
	}
	if next.Width != nil {
		u.Width = next.Width
	}
	if next.Height != nil {
		u.Height = next.Height
	}
	if next.Rotation != nil {
		u.Rotation = next.Rotation
	}
	if next.Color != nil {
		u.Color = next.Color
	}
	if next.ZoneID != nil {
		u.ZoneID = next.ZoneID
	}
	return u
}

func (u FurnitureUpdate) IsEmpty() bool {
	return u == FurnitureUpdate{}
}

func (u FurnitureUpdate) TouchesGeometry() bool {
	return u.X != nil || u.Y != nil || u.Width != nil || u.Height != nil
}

type ShapeUpdate struct {
	X           *float64 `json:"x,omitempty"`
	Y           *float64 `json:"y,omitempty"`
	Fill        *string  `json:"fill,omitempty"`
	Stroke      *string  `json:"stroke,omitempty"`
	StrokeWidth *float64 `json:"strokeWidth,omitempty"`
	Rotation    *float64 `json:"rotation,omitempty"`
	ScaleX      *float64 `json:"scaleX,omitempty"`
	ScaleY      *float64 `json:"scaleY,omitempty"`
	Width       *float64 `json:"width,omitempty"`
	Height      *float64 `json:"height,omitempty"`
	Radius      *float64 `json:"radius,omitempty"`
	Points      *[]Point `json:"points,omitempty"`
	Text        *string  `json:"text,omitempty"`
}

func (u ShapeUpdate) Apply(s DiagramShape) DiagramShape {
	if u.X != nil {
		s.X = *u.X
	}
	if u.Y != nil {
		s.Y = *u.Y
	}
	if u.Fill != nil {
		s.Fill = *u.Fill
	}
	if u.Stroke != nil {
		s.Stroke = *u.Stroke
	}
	if u.StrokeWidth != nil {
		s.StrokeWidth = *u.StrokeWidth
	}
	if u.Rotation != nil {
		s.Rotation = *u.Rotation
	}
	if u.ScaleX != nil {
		s.ScaleX = *u.ScaleX
	}
	if u.ScaleY != nil {
		s.ScaleY = *u.ScaleY
	}
	if u.Width != nil {
		s.Width = *u.Width
	}
	if u.Height != nil {
		s.Height = *u.Height
	}
	if u.Radius != nil {
		s.Radius = *u.Radius
	}
	if u.Points != nil {
		s.Points = append([]Point(nil), (*u.Points)...)
	}
	if u.Text != nil {
		s.Text = *u.Text
	}
	return s
}

func (u ShapeUpdate) Capture(s DiagramShape) ShapeUpdate {
	var old ShapeUpdate
	if u.X != nil {
		old.X = Ptr(s.X)
	}
	if u.Y != nil {
		old.Y = Ptr(s.Y)
	}
	if u.Fill != nil {
		old.Fill = Ptr(s.Fill)
	}
	if u.Stroke != nil {
		old.Stroke = Ptr(s.Stroke)
	}
	if u.StrokeWidth != nil {
		old.StrokeWidth = Ptr(s.StrokeWidth)
	}
	if u.Rotation != nil {
		old.Rotation = Ptr(s.Rotation)
	}
	if u.ScaleX != nil {
		old.ScaleX = Ptr(s.ScaleX)
	}
	if u.ScaleY != nil {
		old.ScaleY = Ptr(s.ScaleY)
	}
	if u.Width != nil {
		old.Width = Ptr(s.Width)
	}
	if u.Height != nil {
		old.Height = Ptr(s.Height)
	}
	if u.Radius != nil {
		old.Radius = Ptr(s.Radius)
	}
	if u.Points != nil {
		var pts []Point
		if s.Points != nil {
			pts = append([]Point(nil), s.Points...)
		}
		old.Points = &pts
	}
	if u.Text != nil {
		old.Text = Ptr(s.Text)
	}
	return old
}

func (u ShapeUpdate) Merge(next ShapeUpdate) ShapeUpdate {
	if next.X != nil {
		u.X = next.X
	}
	if next.Y != nil {
		u.Y = next.Y
	}
	if next.Fill != nil {
		u.Fill = next.Fill
	}
	if next.Stroke != nil {
		u.Stroke = next.Stroke
	}
	if next.StrokeWidth != nil {
		u.StrokeWidth = next.StrokeWidth
	}
	if next.Rotation != nil {
		u.Rotation = next.Rotation
	}
	if next.ScaleX != nil {
		u.ScaleX = next.ScaleX
	}
	if next.ScaleY != nil {
		u.ScaleY = next.ScaleY
	}
	if next.Width != nil {
		u.Width = next.Width
	}
	if next.Height != nil {
		u.Height = next.Height
	}
	if next.Radius != nil {
		u.Radius = next.Radius
	}
	if next.Points != nil {
		u.Points = next.Points
	}
	if next.Text != nil {
		u.Text = next.Text
	}
	return u
}
