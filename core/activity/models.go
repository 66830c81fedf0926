package activity

import "github.com/volatiletech/null/v8"

// ActivityStatus values the campus API serves.
const (
	StatusUpcoming  = "upcoming"
	StatusRunning   = "running"
	StatusFinished  = "finished"
	StatusCancelled = "cancelled"
)

type (
	// Thumbnail is the activity card payload used in carousels and as the
	// pre-network preview for a detail view.
	Thumbnail struct {
		ID        string      `json:"id"`
		Title     string      `json:"title"`
		Status    string      `json:"status"`
		Category  null.String `json:"category,omitempty"`
		ImagePath null.String `json:"image_path,omitempty"`
		StartAt   null.String `json:"start_at,omitempty"`
		Slug      null.String `json:"slug,omitempty"`
	}

	// Detail is the full activity payload.
	Detail struct {
		ID           string            `json:"id"`
		Title        string            `json:"title"`
		Description  null.String       `json:"description,omitempty"`
		StartAt      string            `json:"start_at"`
		EndAt        string            `json:"end_at"`
		LocationText null.String       `json:"location_text,omitempty"`
		ContactInfo  map[string]string `json:"contact_info,omitempty"`
		ImagePath    null.String       `json:"image_path,omitempty"`
		Status       string            `json:"status"`
		Category     null.String       `json:"category,omitempty"`
		Slug         null.String       `json:"slug,omitempty"`
	}
)
