package models

import "time"

// CommitteeMember is an office bearer or executive committee member for a year
type CommitteeMember struct {
	ID             string    `json:"id" db:"id"`
	FullName       string    `json:"full_name" db:"full_name"`
	Designation    string    `json:"designation" db:"designation"`
	Email          *string   `json:"email" db:"email"`
	Mobile         *string   `json:"mobile" db:"mobile"`
	Bio            *string   `json:"bio" db:"bio"`
	ProfileImage   *string   `json:"profile_image" db:"profile_image"`
	Year           int       `json:"year" db:"year"`
	DisplayOrder   int       `json:"display_order" db:"display_order"`
	IsCurrent      bool      `json:"is_current" db:"is_current"`
	Slug           string    `json:"slug" db:"slug"`
	Qualifications *string   `json:"qualifications" db:"qualifications"`
	Hospital       *string   `json:"hospital" db:"hospital"`
	City           *string   `json:"city" db:"city"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// CommitteeFilter narrows committee listings. Nil fields match everything.
type CommitteeFilter struct {
	Year      *int
	IsCurrent *bool
}

// Publication is a journal issue, newsletter or paper
type Publication struct {
	ID              string    `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	Description     *string   `json:"description" db:"description"`
	PublicationType string    `json:"publication_type" db:"publication_type"`
	Authors         *string   `json:"authors" db:"authors"`
	PublishedDate   time.Time `json:"published_date" db:"published_date"`
	FileURL         *string   `json:"file_url" db:"file_url"`
	ExternalLink    *string   `json:"external_link" db:"external_link"`
	CoverImage      *string   `json:"cover_image" db:"cover_image"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// PublicationFilter narrows publication listings
type PublicationFilter struct {
	PublicationType string
	Limit           uint64
}
