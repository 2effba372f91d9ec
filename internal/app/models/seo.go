package models

import "time"

// PageSEO holds the meta tags of one site page
type PageSEO struct {
	PageName      string    `json:"page_name" db:"page_name"`
	Title         string    `json:"title" db:"title"`
	Description   string    `json:"description" db:"description"`
	Keywords      string    `json:"keywords" db:"keywords"`
	OGTitle       *string   `json:"og_title" db:"og_title"`
	OGDescription *string   `json:"og_description" db:"og_description"`
	OGImage       *string   `json:"og_image" db:"og_image"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// DefaultPageSEO is served for pages without a stored entry
func DefaultPageSEO(page string) *PageSEO {
	return &PageSEO{
		PageName:    page,
		Title:       "Shoulder & Elbow Society of India",
		Description: "Official website of SESI",
		Keywords:    "SESI, shoulder, elbow, orthopaedic",
	}
}
