package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sesi/membership/internal/app/models"
	"github.com/sesi/membership/internal/app/models/dto"
	"github.com/sesi/membership/internal/app/services"
	"github.com/sesi/membership/internal/middleware"
)

// GalleryController handles albums and album photos
type GalleryController struct {
	galleryService services.GalleryService
}

// NewGalleryController creates a new GalleryController
func NewGalleryController(galleryService services.GalleryService) *GalleryController {
	return &GalleryController{galleryService: galleryService}
}

// ListAlbums returns published albums, newest first
// @Summary Gallery albums
// @Tags gallery
// @Produce json
// @Param category query string false "Category"
// @Success 200 {array} models.GalleryAlbum
// @Router /gallery/albums [get]
func (c *GalleryController) ListAlbums(ctx *gin.Context) {
	c.listAlbums(ctx, true)
}

// ListAllAlbums includes unpublished albums
func (c *GalleryController) ListAllAlbums(ctx *gin.Context) {
	c.listAlbums(ctx, false)
}

func (c *GalleryController) listAlbums(ctx *gin.Context, publishedOnly bool) {
	var q dto.AlbumQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}
	albums, err := c.galleryService.ListAlbums(ctx.Request.Context(), models.AlbumFilter{PublishedOnly: publishedOnly, Category: q.Category})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, albums)
}

// GetAlbum returns a published album with its photos; staff also see unpublished ones
// @Summary Gallery album with photos
// @Tags gallery
// @Produce json
// @Param id path string true "Album ID"
// @Success 200 {object} models.AlbumWithPhotos
// @Failure 404 {object} dto.ErrorResponse
// @Router /gallery/albums/{id} [get]
func (c *GalleryController) GetAlbum(ctx *gin.Context) {
	includeUnpublished := middleware.CurrentRole(ctx) != ""
	album, err := c.galleryService.GetAlbum(ctx.Request.Context(), ctx.Param("id"), includeUnpublished)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, album)
}

// CreateAlbum adds an empty album
func (c *GalleryController) CreateAlbum(ctx *gin.Context) {
	var req dto.AlbumRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}
	a, err := c.galleryService.CreateAlbum(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, a)
}

// UpdateAlbum replaces an album's details
func (c *GalleryController) UpdateAlbum(ctx *gin.Context) {
	var req dto.AlbumRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}
	a, err := c.galleryService.UpdateAlbum(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, a)
}

// DeleteAlbum removes an album with all its photos
func (c *GalleryController) DeleteAlbum(ctx *gin.Context) {
	if err := c.galleryService.DeleteAlbum(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Album and all photos deleted"))
}

// ListPhotos returns an album's photos in display order
func (c *GalleryController) ListPhotos(ctx *gin.Context) {
	photos, err := c.galleryService.ListPhotos(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, photos)
}

// UploadPhoto stores the "image" part in the album
// @Summary Upload album photo
// @Tags admin-site
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Album ID"
// @Param image formData file true "Image"
// @Param title formData string false "Title, defaults to the album title"
// @Param description formData string false "Description"
// @Success 201 {object} models.GalleryPhoto
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/gallery/albums/{id}/photos [post]
func (c *GalleryController) UploadPhoto(ctx *gin.Context) {
	var form dto.PhotoForm
	if err := ctx.ShouldBind(&form); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}
	file, err := ctx.FormFile("image")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		middleware.HandleBindError(ctx, err)
		return
	}

	p, err := c.galleryService.UploadPhoto(ctx.Request.Context(), ctx.Param("id"), form, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, p)
}

// UploadPhotos stores every "images" part in the album
// @Summary Bulk upload album photos
// @Tags admin-site
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Album ID"
// @Param images formData file true "Images, repeat the part for each file"
// @Success 201 {object} dto.BulkUploadResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/gallery/albums/{id}/photos/bulk [post]
func (c *GalleryController) UploadPhotos(ctx *gin.Context) {
	form, err := ctx.MultipartForm()
	if err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	resp, err := c.galleryService.UploadPhotos(ctx.Request.Context(), ctx.Param("id"), form.File["images"])
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// DeletePhoto removes one photo from an album
func (c *GalleryController) DeletePhoto(ctx *gin.Context) {
	if err := c.galleryService.DeletePhoto(ctx.Request.Context(), ctx.Param("id"), ctx.Param("photoId")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Photo deleted"))
}
