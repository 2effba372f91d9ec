package models

import "time"

// GalleryAlbum groups photos from one event or occasion
type GalleryAlbum struct {
	ID          string     `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description" db:"description"`
	EventDate   *time.Time `json:"event_date" db:"event_date"`
	Location    *string    `json:"location" db:"location"`
	Category    *string    `json:"category" db:"category"`
	// CoverImage is set from the first photo ever added unless chosen explicitly
	CoverImage  *string   `json:"cover_image" db:"cover_image"`
	IsPublished bool      `json:"is_published" db:"is_published"`
	PhotoCount  int       `json:"photo_count" db:"photo_count"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// AlbumFilter narrows album listings
type AlbumFilter struct {
	PublishedOnly bool
	Category      string
}

// GalleryPhoto is one stored image inside an album
type GalleryPhoto struct {
	ID           string    `json:"id" db:"id"`
	AlbumID      string    `json:"album_id" db:"album_id"`
	Title        string    `json:"title" db:"title"`
	Description  *string   `json:"description" db:"description"`
	ImageURL     string    `json:"image_url" db:"image_url"`
	DisplayOrder int       `json:"display_order" db:"display_order"`
	UploadedAt   time.Time `json:"uploaded_at" db:"uploaded_at"`
}

// AlbumWithPhotos is the public album page
type AlbumWithPhotos struct {
	GalleryAlbum
	Photos []*GalleryPhoto `json:"photos"`
}
