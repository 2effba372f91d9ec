package dto

import "github.com/sesi/membership/internal/app/models"

// SEORequest upserts the meta tags of a page
type SEORequest struct {
	Title         string  `json:"title" binding:"required,max=200"`
	Description   string  `json:"description" binding:"max=500"`
	Keywords      string  `json:"keywords"`
	OGTitle       *string `json:"og_title"`
	OGDescription *string `json:"og_description"`
	OGImage       *string `json:"og_image"`
}

// ToModel converts the request for page
func (r *SEORequest) ToModel(page string) *models.PageSEO {
	return &models.PageSEO{
		PageName:      page,
		Title:         r.Title,
		Description:   r.Description,
		Keywords:      r.Keywords,
		OGTitle:       r.OGTitle,
		OGDescription: r.OGDescription,
		OGImage:       r.OGImage,
	}
}
