package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/sesi/membership/internal/app/controllers"
	"github.com/sesi/membership/internal/app/models"
	"github.com/sesi/membership/internal/middleware"
)

// Controllers groups every handler the router mounts
type Controllers struct {
	Auth        *controllers.AuthController
	Application *controllers.ApplicationController
	Member      *controllers.MemberController
	Content     *controllers.ContentController
	Site        *controllers.SiteController
	Upload      *controllers.UploadController
	Society     *controllers.SocietyController
	Gallery     *controllers.GalleryController
	Contact     *controllers.ContactController
	Health      *controllers.HealthController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/ping", c.Health.Ping)
	router.GET("/healthz", c.Health.Health)

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", c.Auth.Login)
		auth.GET("/verify", authMiddleware.JWTAuth(), c.Auth.Verify)
	}

	// The intake form and the applicant's status lookup
	applications := v1.Group("/applications")
	{
		applications.POST("", c.Application.Submit)
		applications.GET("/:id", c.Application.GetPublic)
	}

	v1.GET("/members", c.Member.ListPublic)
	v1.GET("/states", c.Site.ListStates)
	v1.GET("/states/:id/districts", c.Site.ListDistricts)
	v1.GET("/statistics", c.Site.PublicStatistics)
	v1.GET("/seo/:page", c.Site.GetSEO)

	v1.GET("/news", c.Content.ListNews)
	v1.GET("/news/:id", c.Content.GetNews)
	v1.GET("/events", c.Content.ListEvents)
	v1.GET("/events/:id", c.Content.GetEvent)

	v1.GET("/committee", c.Society.ListCommittee)
	v1.GET("/committee/:slug", c.Society.GetCommitteeMember)
	v1.GET("/publications", c.Society.ListPublications)
	v1.GET("/publications/:id", c.Society.GetPublication)
	v1.GET("/gallery/albums", c.Gallery.ListAlbums)
	v1.GET("/gallery/albums/:id", c.Gallery.GetAlbum)
	v1.POST("/contact", c.Contact.Submit)

	// --- Authenticated back office ---
	admin := v1.Group("/admin")
	admin.Use(authMiddleware.JWTAuth())

	// Site content, SEO and uploads are open to editors
	staff := admin.Group("")
	staff.Use(authMiddleware.RoleRequired(models.RoleAdmin, models.RoleEditor))
	{
		staff.GET("/news", c.Content.ListAllNews)
		staff.GET("/news/:id", c.Content.GetNews)
		staff.POST("/news", c.Content.CreateNews)
		staff.PUT("/news/:id", c.Content.UpdateNews)
		staff.DELETE("/news/:id", c.Content.DeleteNews)

		staff.POST("/events", c.Content.CreateEvent)
		staff.PUT("/events/:id", c.Content.UpdateEvent)
		staff.DELETE("/events/:id", c.Content.DeleteEvent)

		staff.GET("/committee", c.Society.ListAllCommittee)
		staff.POST("/committee", c.Society.CreateCommitteeMember)
		staff.PUT("/committee/:id", c.Society.UpdateCommitteeMember)
		staff.DELETE("/committee/:id", c.Society.DeleteCommitteeMember)

		staff.POST("/publications", c.Society.CreatePublication)
		staff.PUT("/publications/:id", c.Society.UpdatePublication)
		staff.DELETE("/publications/:id", c.Society.DeletePublication)

		albums := staff.Group("/gallery/albums")
		albums.GET("", c.Gallery.ListAllAlbums)
		albums.GET("/:id", c.Gallery.GetAlbum)
		albums.POST("", c.Gallery.CreateAlbum)
		albums.PUT("/:id", c.Gallery.UpdateAlbum)
		albums.DELETE("/:id", c.Gallery.DeleteAlbum)
		albums.GET("/:id/photos", c.Gallery.ListPhotos)
		albums.POST("/:id/photos", c.Gallery.UploadPhoto)
		albums.POST("/:id/photos/bulk", c.Gallery.UploadPhotos)
		albums.DELETE("/:id/photos/:photoId", c.Gallery.DeletePhoto)

		staff.GET("/seo", c.Site.ListSEO)
		staff.PUT("/seo/:page", c.Site.UpsertSEO)

		staff.POST("/upload", c.Upload.Upload)
	}

	// Application review, the member directory and the contact inbox are admin only
	adminOnly := admin.Group("")
	adminOnly.Use(authMiddleware.RoleRequired(models.RoleAdmin))
	{
		adminOnly.GET("/dashboard", c.Site.Dashboard)

		adminOnly.GET("/applications", c.Application.List)
		adminOnly.GET("/applications/:id", c.Application.Get)
		adminOnly.PUT("/applications/:id/status", c.Application.UpdateStatus)

		adminOnly.GET("/members", c.Member.ListAll)
		adminOnly.GET("/members/:id", c.Member.Get)
		adminOnly.POST("/members", c.Member.Create)
		adminOnly.PUT("/members/:id", c.Member.Update)
		adminOnly.DELETE("/members/:id", c.Member.Delete)

		adminOnly.GET("/contact", c.Contact.List)
		adminOnly.PUT("/contact/:id/status", c.Contact.UpdateStatus)
	}
}
