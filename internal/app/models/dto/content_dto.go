package dto

import (
	"time"

	"github.com/sesi/membership/internal/app/models"
)

// NewsRequest creates or replaces a news item
type NewsRequest struct {
	Title         string     `json:"title" binding:"required,max=300"`
	Content       string     `json:"content" binding:"required"`
	Excerpt       string     `json:"excerpt" binding:"max=500"`
	Category      string     `json:"category" binding:"required"`
	Image         *string    `json:"image"`
	Author        string     `json:"author"`
	IsPublished   *bool      `json:"is_published"`
	PublishedDate *time.Time `json:"published_date"`
}

// ToModel converts the request; unset fields take their defaults
func (r *NewsRequest) ToModel() *models.News {
	n := &models.News{
		Title:       r.Title,
		Content:     r.Content,
		Excerpt:     r.Excerpt,
		Category:    r.Category,
		Image:       r.Image,
		Author:      r.Author,
		IsPublished: true,
	}
	if n.Author == "" {
		n.Author = "SESI Admin"
	}
	if r.IsPublished != nil {
		n.IsPublished = *r.IsPublished
	}
	if r.PublishedDate != nil {
		n.PublishedDate = *r.PublishedDate
	}
	return n
}

// NewsQuery filters public news listings
type NewsQuery struct {
	Category string `form:"category"`
}

// EventRequest creates or replaces an event
type EventRequest struct {
	Title            string     `json:"title" binding:"required,max=300"`
	Description      string     `json:"description" binding:"required"`
	EventType        string     `json:"event_type" binding:"required"`
	StartDate        time.Time  `json:"start_date" binding:"required"`
	EndDate          *time.Time `json:"end_date" binding:"omitempty,gtefield=StartDate"`
	Venue            string     `json:"venue" binding:"required"`
	City             string     `json:"city" binding:"required"`
	RegistrationLink *string    `json:"registration_link" binding:"omitempty,url"`
	BannerImage      *string    `json:"banner_image"`
	Status           string     `json:"status" binding:"omitempty,oneof=upcoming ongoing completed"`
}

// ToModel converts the request; status defaults to upcoming
func (r *EventRequest) ToModel() *models.Event {
	status := models.EventUpcoming
	if r.Status != "" {
		status = models.EventStatus(r.Status)
	}
	return &models.Event{
		Title:            r.Title,
		Description:      r.Description,
		EventType:        r.EventType,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		Venue:            r.Venue,
		City:             r.City,
		RegistrationLink: r.RegistrationLink,
		BannerImage:      r.BannerImage,
		Status:           status,
	}
}

// EventQuery filters event listings
type EventQuery struct {
	Status    string `form:"status" binding:"omitempty,oneof=upcoming ongoing completed"`
	EventType string `form:"event_type"`
}
