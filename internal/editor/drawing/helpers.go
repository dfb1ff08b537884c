package drawing

import (
	"slices"

	"github.com/google/uuid"

	"floorplanner/internal/editor/models"
)

// DuplicateOffset is how far a duplicated shape is shifted on both axes.
const DuplicateOffset = 20.0

// Duplicate returns a copy of s under a new id, shifted by DuplicateOffset.
func Duplicate(s models.DiagramShape) models.DiagramShape {
	out := s.Clone()
	out.ID = uuid.NewString()
	out.X += DuplicateOffset
	out.Y += DuplicateOffset
	return out
}

// Delete returns shapes without the one carrying id.
func Delete(shapes []models.DiagramShape, id string) []models.DiagramShape {
	return slices.DeleteFunc(slices.Clone(shapes), func(s models.DiagramShape) bool {
		return s.ID == id
	})
}
