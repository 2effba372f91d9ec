package dto

import (
	"time"

	"github.com/sesi/membership/internal/app/models"
)

// CommitteeRequest creates or replaces a committee member
type CommitteeRequest struct {
	FullName       string  `json:"full_name" binding:"required,max=200"`
	Designation    string  `json:"designation" binding:"required"`
	Email          *string `json:"email" binding:"omitempty,email"`
	Mobile         *string `json:"mobile"`
	Bio            *string `json:"bio"`
	ProfileImage   *string `json:"profile_image"`
	Year           int     `json:"year" binding:"required,min=1900,max=2200"`
	DisplayOrder   int     `json:"display_order" binding:"min=0"`
	IsCurrent      *bool   `json:"is_current"`
	Slug           string  `json:"slug" binding:"omitempty,max=200"`
	Qualifications *string `json:"qualifications"`
	Hospital       *string `json:"hospital"`
	City           *string `json:"city"`
}

// ToModel converts the request; is_current defaults to true
func (r *CommitteeRequest) ToModel() *models.CommitteeMember {
	m := &models.CommitteeMember{
		FullName:       r.FullName,
		Designation:    r.Designation,
		Email:          r.Email,
		Mobile:         r.Mobile,
		Bio:            r.Bio,
		ProfileImage:   r.ProfileImage,
		Year:           r.Year,
		DisplayOrder:   r.DisplayOrder,
		IsCurrent:      true,
		Slug:           r.Slug,
		Qualifications: r.Qualifications,
		Hospital:       r.Hospital,
		City:           r.City,
	}
	if r.IsCurrent != nil {
		m.IsCurrent = *r.IsCurrent
	}
	return m
}

// CommitteeQuery filters the public committee page
type CommitteeQuery struct {
	Year      *int  `form:"year" binding:"omitempty,min=1900"`
	IsCurrent *bool `form:"is_current"`
}

// PublicationRequest creates or replaces a publication
type PublicationRequest struct {
	Title           string     `json:"title" binding:"required,max=300"`
	Description     *string    `json:"description"`
	PublicationType string     `json:"publication_type" binding:"required"`
	Authors         *string    `json:"authors"`
	PublishedDate   *time.Time `json:"published_date"`
	FileURL         *string    `json:"file_url"`
	ExternalLink    *string    `json:"external_link" binding:"omitempty,url"`
	CoverImage      *string    `json:"cover_image"`
}

// ToModel converts the request
func (r *PublicationRequest) ToModel() *models.Publication {
	p := &models.Publication{
		Title:           r.Title,
		Description:     r.Description,
		PublicationType: r.PublicationType,
		Authors:         r.Authors,
		FileURL:         r.FileURL,
		ExternalLink:    r.ExternalLink,
		CoverImage:      r.CoverImage,
	}
	if r.PublishedDate != nil {
		p.PublishedDate = *r.PublishedDate
	}
	return p
}

// PublicationQuery filters publication listings
type PublicationQuery struct {
	PublicationType string `form:"publication_type"`
}

// AlbumRequest creates or replaces a gallery album
type AlbumRequest struct {
	Title       string     `json:"title" binding:"required,max=300"`
	Description *string    `json:"description"`
	EventDate   *time.Time `json:"event_date"`
	Location    *string    `json:"location"`
	Category    *string    `json:"category"`
	CoverImage  *string    `json:"cover_image"`
	IsPublished *bool      `json:"is_published"`
}

// ToModel converts the request; albums are published unless told otherwise
func (r *AlbumRequest) ToModel() *models.GalleryAlbum {
	a := &models.GalleryAlbum{
		Title:       r.Title,
		Description: r.Description,
		EventDate:   r.EventDate,
		Location:    r.Location,
		Category:    r.Category,
		CoverImage:  r.CoverImage,
		IsPublished: true,
	}
	if r.IsPublished != nil {
		a.IsPublished = *r.IsPublished
	}
	return a
}

// AlbumQuery filters album listings
type AlbumQuery struct {
	Category string `form:"category"`
}

// PhotoForm carries the text parts of a single photo upload
type PhotoForm struct {
	Title       string `form:"title" binding:"max=300"`
	Description string `form:"description"`
}

// BulkUploadResponse reports a multi-photo upload
type BulkUploadResponse struct {
	Success       bool                   `json:"success"`
	UploadedCount int                    `json:"uploaded_count"`
	Photos        []*models.GalleryPhoto `json:"photos"`
}

// ContactRequest is the public contact form
type ContactRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"omitempty,max=20"`
	Subject string `json:"subject" binding:"required,max=300"`
	Message string `json:"message" binding:"required,max=5000"`
}

// ContactQuery filters the admin inbox
type ContactQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=new read replied"`
}

// ContactStatusRequest moves a message through the inbox
type ContactStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=new read replied"`
}
