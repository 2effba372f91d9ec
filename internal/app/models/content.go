package models

import "time"

// News is a published or draft article
type News struct {
	ID            string    `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	Content       string    `json:"content" db:"content"`
	Excerpt       string    `json:"excerpt" db:"excerpt"`
	Category      string    `json:"category" db:"category"`
	Image         *string   `json:"image" db:"image"`
	Author        string    `json:"author" db:"author"`
	IsPublished   bool      `json:"is_published" db:"is_published"`
	PublishedDate time.Time `json:"published_date" db:"published_date"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// NewsFilter narrows news listings
type NewsFilter struct {
	PublishedOnly bool
	Category      string
	Limit         uint64
}

// EventStatus is the schedule state of an event
type EventStatus string

const (
	EventUpcoming  EventStatus = "upcoming"
	EventOngoing   EventStatus = "ongoing"
	EventCompleted EventStatus = "completed"
)

// Valid reports whether s is a known event status
func (s EventStatus) Valid() bool {
	return s == EventUpcoming || s == EventOngoing || s == EventCompleted
}

// Event is a conference, workshop or meeting
type Event struct {
	ID               string      `json:"id" db:"id"`
	Title            string      `json:"title" db:"title"`
	Description      string      `json:"description" db:"description"`
	EventType        string      `json:"event_type" db:"event_type"`
	StartDate        time.Time   `json:"start_date" db:"start_date"`
	EndDate          *time.Time  `json:"end_date" db:"end_date"`
	Venue            string      `json:"venue" db:"venue"`
	City             string      `json:"city" db:"city"`
	RegistrationLink *string     `json:"registration_link" db:"registration_link"`
	BannerImage      *string     `json:"banner_image" db:"banner_image"`
	Status           EventStatus `json:"status" db:"status"`
	CreatedAt        time.Time   `json:"created_at" db:"created_at"`
}

// EventFilter narrows event listings
type EventFilter struct {
	Status    *EventStatus
	EventType string
	Limit     uint64
}
