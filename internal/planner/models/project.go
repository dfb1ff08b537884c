package models

import (
	editor "floorplanner/internal/editor/models"
	"floorplanner/internal/editor/state"
)

// ============================================================
// Project Model
// ============================================================

type Project struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Settings  editor.Settings `json:"settings"`
	Document  *state.Document `json:"document"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

// ProjectSummary is a project without its plan, as listed.
type ProjectSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
