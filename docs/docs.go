// Package docs holds the OpenAPI description served under /swagger.
// Regenerate with `swag init -g cmd/api/main.go` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "SESI Secretariat",
            "url": "https://sesi.co.in",
            "email": "admin@sesi.co.in"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/login": {
            "post": {
                "description": "Authenticates an admin or editor and returns a bearer token",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Back-office login",
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Login credentials",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.LoginRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Login successful",
                        "schema": {
                            "$ref": "#/definitions/dto.LoginResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid request format or validation error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Invalid credentials",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Account disabled",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/auth/verify": {
            "get": {
                "description": "Echoes the identity behind the bearer token",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Verify token",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Token is valid",
                        "schema": {
                            "$ref": "#/definitions/dto.VerifyResponse"
                        }
                    },
                    "401": {
                        "description": "Missing or invalid token",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Insufficient role",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/applications": {
            "post": {
                "description": "Multipart intake form with the required certificates. Sends a confirmation to the applicant and an alert to the admin.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "applications"
                ],
                "summary": "Submit membership application",
                "consumes": [
                    "multipart/form-data"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "region_membership",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "string",
                        "name": "membership_type",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "string",
                        "name": "title",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "string",
                        "name": "first_name",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "string",
                        "name": "middle_name",
                        "in": "formData"
                    },
                    {
                        "type": "string",
                        "name": "last_name",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "string",
                        "name": "mobile",
                        "in": "formData",
                        "required": true,
                        "description": "Indian mobile number"
                    },
                    {
                        "type": "string",
                        "name": "email",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "string",
                        "name": "gender",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "string",
                        "name": "medical_council_reg_no",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "string",
                        "name": "qualification",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "string",
                        "name": "current_appointments",
                        "in": "formData"
                    },
                    {
                        "type": "string",
                        "name": "specialised_practice",
                        "in": "formData"
                    },
                    {
                        "type": "integer",
                        "name": "years_experience",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "string",
                        "name": "proposal_name_1",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "string",
                        "name": "proposal_name_2",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "string",
                        "name": "comm_address",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "string",
                        "name": "comm_state_id",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "string",
                        "name": "comm_district_id",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "string",
                        "name": "comm_pincode",
                        "in": "formData",
                        "required": true,
                        "description": "6 digit pincode"
                    },
                    {
                        "type": "string",
                        "name": "work_address",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "string",
                        "name": "work_state_id",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "string",
                        "name": "work_district_id",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "string",
                        "name": "work_pincode",
                        "in": "formData",
                        "required": true,
                        "description": "6 digit pincode"
                    },
                    {
                        "type": "string",
                        "name": "work_hospital",
                        "in": "formData"
                    },
                    {
                        "type": "file",
                        "name": "mbbs_certificate",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "file",
                        "name": "orthopedic_certificate",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "file",
                        "name": "state_registration_certificate",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "file",
                        "name": "aadhar",
                        "in": "formData"
                    },
                    {
                        "type": "file",
                        "name": "specialisation_certificate",
                        "in": "formData"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Application submitted",
                        "schema": {
                            "$ref": "#/definitions/dto.SubmitApplicationResponse"
                        }
                    },
                    "400": {
                        "description": "Validation failed or invalid document",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/applications/{id}": {
            "get": {
                "description": "Returns the public projection of an application",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "applications"
                ],
                "summary": "Application status lookup",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Application ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Application found",
                        "schema": {
                            "$ref": "#/definitions/dto.PublicApplicationView"
                        }
                    },
                    "404": {
                        "description": "Application not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/members": {
            "get": {
                "description": "Active members, filtered by state, city and search",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "members"
                ],
                "summary": "Member directory",
                "parameters": [
                    {
                        "type": "string",
                        "description": "State name",
                        "name": "state",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "City",
                        "name": "city",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Name, hospital or qualification",
                        "name": "search",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Page number (1-based)",
                        "name": "page",
                        "in": "query",
                        "default": 1
                    },
                    {
                        "type": "integer",
                        "description": "Page size (max 100)",
                        "name": "size",
                        "in": "query",
                        "default": 20
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Directory page",
                        "schema": {
                            "$ref": "#/definitions/dto.PublicMemberPage"
                        }
                    },
                    "400": {
                        "description": "Invalid query",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/states": {
            "get": {
                "description": "",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "reference"
                ],
                "summary": "List states",
                "responses": {
                    "200": {
                        "description": "States",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.State"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/states/{id}/districts": {
            "get": {
                "description": "",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "reference"
                ],
                "summary": "List districts of a state",
                "parameters": [
                    {
                        "type": "string",
                        "description": "State ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Districts",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.District"
                            }
                        }
                    },
                    "404": {
                        "description": "State not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/statistics": {
            "get": {
                "description": "Landing page counters",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "site"
                ],
                "summary": "Public statistics",
                "responses": {
                    "200": {
                        "description": "Counters",
                        "schema": {
                            "$ref": "#/definitions/dto.PublicStatistics"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/seo/{page}": {
            "get": {
                "description": "Meta tags of a page, or the site defaults",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "site"
                ],
                "summary": "Page SEO",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Page name",
                        "name": "page",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "SEO entry",
                        "schema": {
                            "$ref": "#/definitions/models.PageSEO"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/news": {
            "get": {
                "description": "",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "content"
                ],
                "summary": "Published news",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Category",
                        "name": "category",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Maximum items",
                        "name": "limit",
                        "in": "query",
                        "default": 10
                    }
                ],
                "responses": {
                    "200": {
                        "description": "News items",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.News"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/news/{id}": {
            "get": {
                "description": "Drafts are only visible to staff",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "content"
                ],
                "summary": "Get news item",
                "parameters": [
                    {
                        "type": "string",
                        "description": "News ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "News item",
                        "schema": {
                            "$ref": "#/definitions/models.News"
                        }
                    },
                    "404": {
                        "description": "News not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/events": {
            "get": {
                "description": "",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "content"
                ],
                "summary": "List events",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Event status",
                        "name": "status",
                        "in": "query",
                        "enum": [
                            "upcoming",
                            "ongoing",
                            "completed"
                        ]
                    },
                    {
                        "type": "string",
                        "description": "Event type",
                        "name": "event_type",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Maximum items",
                        "name": "limit",
                        "in": "query",
                        "default": 20
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Events",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.Event"
                            }
                        }
                    },
                    "400": {
                        "description": "Invalid query",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/events/{id}": {
            "get": {
                "description": "",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "content"
                ],
                "summary": "Get event",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Event ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Event",
                        "schema": {
                            "$ref": "#/definitions/models.Event"
                        }
                    },
                    "404": {
                        "description": "Event not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/committee": {
            "get": {
                "description": "Ordered by display order",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "society"
                ],
                "summary": "Committee members",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Committee year",
                        "name": "year",
                        "in": "query"
                    },
                    {
                        "type": "boolean",
                        "description": "Current committee only",
                        "name": "is_current",
                        "in": "query",
                        "default": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Committee",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.CommitteeMember"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/committee/{slug}": {
            "get": {
                "description": "",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "society"
                ],
                "summary": "Committee member profile",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Profile slug",
                        "name": "slug",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Profile",
                        "schema": {
                            "$ref": "#/definitions/models.CommitteeMember"
                        }
                    },
                    "404": {
                        "description": "Committee member not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/publications": {
            "get": {
                "description": "Newest first",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "society"
                ],
                "summary": "Publications",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Publication type",
                        "name": "publication_type",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Maximum items",
                        "name": "limit",
                        "in": "query",
                        "default": 20
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Publications",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.Publication"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/gallery/albums": {
            "get": {
                "description": "Published albums, newest first",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "gallery"
                ],
                "summary": "Gallery albums",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Category",
                        "name": "category",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Albums",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.GalleryAlbum"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/gallery/albums/{id}": {
            "get": {
                "description": "Unpublished albums are only visible to staff",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "gallery"
                ],
                "summary": "Gallery album with photos",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Album ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Album",
                        "schema": {
                            "$ref": "#/definitions/models.AlbumWithPhotos"
                        }
                    },
                    "404": {
                        "description": "Album not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/contact": {
            "post": {
                "description": "Stores the message and alerts the office",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "society"
                ],
                "summary": "Submit contact form",
                "parameters": [
                    {
                        "description": "Message",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.ContactRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Stored",
                        "schema": {
                            "$ref": "#/definitions/dto.SuccessResponse"
                        }
                    },
                    "400": {
                        "description": "Validation failed",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/admin/gallery/albums/{id}/photos": {
            "post": {
                "description": "The first photo becomes the album cover",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin-site"
                ],
                "summary": "Upload album photo",
                "consumes": [
                    "multipart/form-data"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Album ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "file",
                        "name": "image",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Title, defaults to the album title",
                        "name": "title",
                        "in": "formData"
                    },
                    {
                        "type": "string",
                        "description": "Description",
                        "name": "description",
                        "in": "formData"
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Stored",
                        "schema": {
                            "$ref": "#/definitions/models.GalleryPhoto"
                        }
                    },
                    "400": {
                        "description": "Invalid file",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Missing or invalid token",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Insufficient role",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Album not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/admin/gallery/albums/{id}/photos/bulk": {
            "post": {
                "description": "All files are stored or none are",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin-site"
                ],
                "summary": "Bulk upload album photos",
                "consumes": [
                    "multipart/form-data"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Album ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "file",
                        "description": "Images, repeat the part for each file",
                        "name": "images",
                        "in": "formData",
                        "required": true
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Stored",
                        "schema": {
                            "$ref": "#/definitions/dto.BulkUploadResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid file",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Missing or invalid token",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Insufficient role",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Album not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/admin/news": {
            "get": {
                "description": "Includes drafts",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin-content"
                ],
                "summary": "All news",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Category",
                        "name": "category",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Maximum items",
                        "name": "limit",
                        "in": "query",
                        "default": 10
                    }
                ],
                "responses": {
                    "200": {
                        "description": "News items",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.News"
                            }
                        }
                    },
                    "401": {
                        "description": "Missing or invalid token",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Insufficient role",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            },
            "post": {
                "description": "",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin-content"
                ],
                "summary": "Create news",
                "consumes": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "News item",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.NewsRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/models.News"
                        }
                    },
                    "400": {
                        "description": "Validation failed",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Missing or invalid token",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Insufficient role",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/admin/news/{id}": {
            "get": {
                "description": "",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin-content"
                ],
                "summary": "Get news item",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "News ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "News item",
                        "schema": {
                            "$ref": "#/definitions/models.News"
                        }
                    },
                    "404": {
                        "description": "News not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Missing or invalid token",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Insufficient role",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            },
            "put": {
                "description": "",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin-content"
                ],
                "summary": "Update news",
                "consumes": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "News ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "News item",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.NewsRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Updated",
                        "schema": {
                            "$ref": "#/definitions/models.News"
                        }
                    },
                    "400": {
                        "description": "Validation failed",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "News not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Missing or invalid token",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Insufficient role",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            },
            "delete": {
                "description": "",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin-content"
                ],
                "summary": "Delete news",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "News ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Deleted",
                        "schema": {
                            "$ref": "#/definitions/dto.SuccessResponse"
                        }
                    },
                    "404": {
                        "description": "News not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Missing or invalid token",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Insufficient role",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/admin/events": {
            "post": {
                "description": "",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin-content"
                ],
                "summary": "Create event",
                "consumes": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Event",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.EventRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/models.Event"
                        }
                    },
                    "400": {
                        "description": "Validation failed",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Missing or invalid token",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Insufficient role",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/admin/events/{id}": {
            "put": {
                "description": "",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin-content"
                ],
                "summary": "Update event",
                "consumes": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Event ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Event",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.EventRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Updated",
                        "schema": {
                            "$ref": "#/definitions/models.Event"
                        }
                    },
                    "400": {
                        "description": "Validation failed",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Event not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Missing or invalid token",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Insufficient role",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            },
            "delete": {
                "description": "",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin-content"
                ],
                "summary": "Delete event",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Event ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Deleted",
                        "schema": {
                            "$ref": "#/definitions/dto.SuccessResponse"
                        }
                    },
                    "404": {
                        "description": "Event not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Missing or invalid token",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Insufficient role",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/admin/seo": {
            "get": {
                "description": "",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin-site"
                ],
                "summary": "List SEO entries",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Entries",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.PageSEO"
                            }
                        }
                    },
                    "401": {
                        "description": "Missing or invalid token",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Insufficient role",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/admin/seo/{page}": {
            "put": {
                "description": "",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin-site"
                ],
                "summary": "Upsert page SEO",
                "consumes": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Page name",
                        "name": "page",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Meta tags",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.SEORequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Stored entry",
                        "schema": {
                            "$ref": "#/definitions/models.PageSEO"
                        }
                    },
                    "400": {
                        "description": "Validation failed",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Missing or invalid token",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Insufficient role",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/admin/upload": {
            "post": {
                "description": "Stores a file under the given subfolder",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin-site"
                ],
                "summary": "Upload file",
                "consumes": [
                    "multipart/form-data"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "file",
                        "name": "file",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Target subfolder",
                        "name": "subfolder",
                        "in": "query",
                        "default": "general"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Stored",
                        "schema": {
                            "$ref": "#/definitions/dto.UploadResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid file or subfolder",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Missing or invalid token",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Insufficient role",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/admin/dashboard": {
            "get": {
                "description": "",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin-site"
                ],
                "summary": "Dashboard counters",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Counters",
                        "schema": {
                            "$ref": "#/definitions/dto.DashboardStats"
                        }
                    },
                    "401": {
                        "description": "Missing or invalid token",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Insufficient role",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/admin/applications": {
            "get": {
                "description": "Newest first",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin-applications"
                ],
                "summary": "List applications",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Status filter",
                        "name": "status",
                        "in": "query",
                        "enum": [
                            "submitted",
                            "under_review",
                            "approved",
                            "rejected"
                        ]
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Applications",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/dto.ApplicationDetail"
                            }
                        }
                    },
                    "400": {
                        "description": "Invalid status",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Missing or invalid token",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Insufficient role",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/admin/applications/{id}": {
            "get": {
                "description": "",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin-applications"
                ],
                "summary": "Get application",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Application ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Application",
                        "schema": {
                            "$ref": "#/definitions/dto.ApplicationDetail"
                        }
                    },
                    "404": {
                        "description": "Application not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Missing or invalid token",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Insufficient role",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/admin/applications/{id}/status": {
            "put": {
                "description": "Approving allocates a membership number, issues the certificate and creates the member. Query parameters take precedence over the JSON body.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin-applications"
                ],
                "summary": "Update application status",
                "consumes": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Application ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Target status",
                        "name": "status",
                        "in": "query",
                        "enum": [
                            "submitted",
                            "under_review",
                            "approved",
                            "rejected"
                        ]
                    },
                    {
                        "type": "string",
                        "description": "Reviewer notes",
                        "name": "admin_notes",
                        "in": "query"
                    },
                    {
                        "description": "Optional body",
                        "name": "request",
                        "in": "body",
                        "schema": {
                            "$ref": "#/definitions/dto.UpdateStatusRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Status updated",
                        "schema": {
                            "$ref": "#/definitions/dto.UpdateStatusResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid status",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Application not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Membership number conflict",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Missing or invalid token",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Insufficient role",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/admin/members": {
            "get": {
                "description": "",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin-members"
                ],
                "summary": "List all members",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "State name",
                        "name": "state",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "City",
                        "name": "city",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Search",
                        "name": "search",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Page number (1-based)",
                        "name": "page",
                        "in": "query",
                        "default": 1
                    },
                    {
                        "type": "integer",
                        "description": "Page size (max 100)",
                        "name": "size",
                        "in": "query",
                        "default": 20
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Members",
                        "schema": {
                            "$ref": "#/definitions/dto.MemberPage"
                        }
                    },
                    "401": {
                        "description": "Missing or invalid token",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Insufficient role",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            },
            "post": {
                "description": "",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin-members"
                ],
                "summary": "Create member",
                "consumes": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Member",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.MemberRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/models.Member"
                        }
                    },
                    "400": {
                        "description": "Validation failed",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Member already exists",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Missing or invalid token",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Insufficient role",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/admin/members/{id}": {
            "get": {
                "description": "",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin-members"
                ],
                "summary": "Get member",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Member ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Member",
                        "schema": {
                            "$ref": "#/definitions/models.Member"
                        }
                    },
                    "404": {
                        "description": "Member not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Missing or invalid token",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Insufficient role",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            },
            "put": {
                "description": "",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin-members"
                ],
                "summary": "Update member",
                "consumes": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Member ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Member",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.MemberRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Updated",
                        "schema": {
                            "$ref": "#/definitions/models.Member"
                        }
                    },
                    "400": {
                        "description": "Validation failed",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Member not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Missing or invalid token",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Insufficient role",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            },
            "delete": {
                "description": "",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin-members"
                ],
                "summary": "Delete member",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Member ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Deleted",
                        "schema": {
                            "$ref": "#/definitions/dto.SuccessResponse"
                        }
                    },
                    "404": {
                        "description": "Member not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Missing or invalid token",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Insufficient role",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "dto.ErrorDetail": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string",
                    "example": "VAL_001"
                },
                "message": {
                    "type": "string",
                    "example": "mbbs_certificate: file type .exe is not allowed"
                },
                "field": {
                    "type": "string",
                    "example": "mbbs_certificate"
                },
                "details": {}
            }
        },
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean",
                    "example": false
                },
                "detail": {
                    "type": "string"
                },
                "error": {
                    "$ref": "#/definitions/dto.ErrorDetail"
                },
                "timestamp": {
                    "type": "string",
                    "example": "2025-04-23T12:01:05.123Z"
                }
            }
        },
        "dto.SuccessResponse": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "message": {
                    "type": "string"
                }
            }
        },
        "dto.LoginRequest": {
            "type": "object",
            "properties": {
                "email": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                }
            },
            "required": [
                "email",
                "password"
            ]
        },
        "dto.UserResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "full_name": {
                    "type": "string"
                },
                "role": {
                    "type": "string"
                }
            }
        },
        "dto.LoginResponse": {
            "type": "object",
            "properties": {
                "access_token": {
                    "type": "string"
                },
                "token_type": {
                    "type": "string",
                    "example": "bearer"
                },
                "expires_in": {
                    "type": "integer"
                },
                "user": {
                    "$ref": "#/definitions/dto.UserResponse"
                }
            }
        },
        "dto.VerifyResponse": {
            "type": "object",
            "properties": {
                "valid": {
                    "type": "boolean"
                },
                "email": {
                    "type": "string"
                },
                "role": {
                    "type": "string"
                }
            }
        },
        "dto.SubmitApplicationResponse": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "message": {
                    "type": "string"
                },
                "application_id": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                }
            }
        },
        "dto.PublicApplicationView": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "full_name": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "submitted",
                        "under_review",
                        "approved",
                        "rejected"
                    ]
                },
                "submitted_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "dto.UpdateStatusRequest": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string",
                    "enum": [
                        "submitted",
                        "under_review",
                        "approved",
                        "rejected"
                    ]
                },
                "admin_notes": {
                    "type": "string"
                }
            }
        },
        "dto.UpdateStatusResponse": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "message": {
                    "type": "string"
                },
                "membership_number": {
                    "type": "string",
                    "example": "SESI-2025-0001"
                },
                "certificate_path": {
                    "type": "string",
                    "example": "/uploads/certificates/SESI_Certificate_SESI-2025-0001.pdf"
                },
                "member_id": {
                    "type": "string"
                }
            }
        },
        "models.Document": {
            "type": "object",
            "properties": {
                "kind": {
                    "type": "string"
                },
                "path": {
                    "type": "string"
                },
                "original_name": {
                    "type": "string"
                },
                "size": {
                    "type": "integer"
                }
            }
        },
        "dto.ApplicationDetail": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "region_membership": {
                    "type": "string"
                },
                "membership_type": {
                    "type": "string"
                },
                "title": {
                    "type": "string"
                },
                "first_name": {
                    "type": "string"
                },
                "middle_name": {
                    "type": "string"
                },
                "last_name": {
                    "type": "string"
                },
                "full_name": {
                    "type": "string"
                },
                "mobile": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "gender": {
                    "type": "string"
                },
                "medical_council_reg_no": {
                    "type": "string"
                },
                "qualification": {
                    "type": "string"
                },
                "current_appointments": {
                    "type": "string"
                },
                "specialised_practice": {
                    "type": "string"
                },
                "proposal_name_1": {
                    "type": "string"
                },
                "proposal_name_2": {
                    "type": "string"
                },
                "comm_address": {
                    "type": "string"
                },
                "comm_country": {
                    "type": "string"
                },
                "comm_state_id": {
                    "type": "string"
                },
                "comm_state_name": {
                    "type": "string"
                },
                "comm_district_id": {
                    "type": "string"
                },
                "comm_district_name": {
                    "type": "string"
                },
                "comm_pincode": {
                    "type": "string"
                },
                "work_address": {
                    "type": "string"
                },
                "work_country": {
                    "type": "string"
                },
                "work_state_id": {
                    "type": "string"
                },
                "work_state_name": {
                    "type": "string"
                },
                "work_district_id": {
                    "type": "string"
                },
                "work_district_name": {
                    "type": "string"
                },
                "work_pincode": {
                    "type": "string"
                },
                "work_hospital": {
                    "type": "string"
                },
                "admin_notes": {
                    "type": "string"
                },
                "membership_number": {
                    "type": "string"
                },
                "certificate_path": {
                    "type": "string"
                },
                "reviewed_by": {
                    "type": "string"
                },
                "years_experience": {
                    "type": "integer"
                },
                "documents": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.Document"
                    }
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "submitted",
                        "under_review",
                        "approved",
                        "rejected"
                    ]
                },
                "submitted_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "reviewed_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "approved_date": {
                    "type": "string",
                    "format": "date-time"
                },
                "schema_version": {
                    "type": "integer"
                }
            }
        },
        "dto.PaginationInfo": {
            "type": "object",
            "properties": {
                "current_page": {
                    "type": "integer"
                },
                "total_pages": {
                    "type": "integer"
                },
                "page_size": {
                    "type": "integer"
                },
                "total_items": {
                    "type": "integer"
                }
            }
        },
        "dto.PublicMember": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "full_name": {
                    "type": "string"
                },
                "qualification": {
                    "type": "string"
                },
                "specialization": {
                    "type": "string"
                },
                "hospital": {
                    "type": "string"
                },
                "city": {
                    "type": "string"
                },
                "state": {
                    "type": "string"
                },
                "membership_type": {
                    "type": "string"
                },
                "membership_number": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                }
            }
        },
        "dto.PublicMemberPage": {
            "type": "object",
            "properties": {
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.PublicMember"
                    }
                },
                "pagination": {
                    "$ref": "#/definitions/dto.PaginationInfo"
                }
            }
        },
        "models.Member": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "full_name": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "mobile": {
                    "type": "string"
                },
                "qualification": {
                    "type": "string"
                },
                "specialization": {
                    "type": "string"
                },
                "hospital": {
                    "type": "string"
                },
                "city": {
                    "type": "string"
                },
                "state": {
                    "type": "string"
                },
                "membership_type": {
                    "type": "string"
                },
                "membership_number": {
                    "type": "string"
                },
                "certificate_path": {
                    "type": "string"
                },
                "application_id": {
                    "type": "string"
                },
                "medical_council_reg_no": {
                    "type": "string"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "active",
                        "inactive"
                    ]
                },
                "years_experience": {
                    "type": "integer"
                },
                "joined_date": {
                    "type": "string",
                    "format": "date-time"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "updated_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "dto.MemberPage": {
            "type": "object",
            "properties": {
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.Member"
                    }
                },
                "pagination": {
                    "$ref": "#/definitions/dto.PaginationInfo"
                }
            }
        },
        "dto.MemberRequest": {
            "type": "object",
            "properties": {
                "full_name": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "mobile": {
                    "type": "string"
                },
                "qualification": {
                    "type": "string"
                },
                "specialization": {
                    "type": "string"
                },
                "hospital": {
                    "type": "string"
                },
                "city": {
                    "type": "string"
                },
                "state": {
                    "type": "string"
                },
                "membership_type": {
                    "type": "string"
                },
                "membership_number": {
                    "type": "string"
                },
                "medical_council_reg_no": {
                    "type": "string"
                },
                "joined_date": {
                    "type": "string",
                    "format": "date-time"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "active",
                        "inactive"
                    ]
                },
                "years_experience": {
                    "type": "integer"
                }
            },
            "required": [
                "full_name",
                "email",
                "membership_type"
            ]
        },
        "models.State": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "code": {
                    "type": "string"
                }
            }
        },
        "models.District": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "state_id": {
                    "type": "string"
                }
            }
        },
        "models.PageSEO": {
            "type": "object",
            "properties": {
                "page_name": {
                    "type": "string"
                },
                "title": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "keywords": {
                    "type": "string"
                },
                "og_title": {
                    "type": "string"
                },
                "og_description": {
                    "type": "string"
                },
                "og_image": {
                    "type": "string"
                },
                "updated_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "dto.SEORequest": {
            "type": "object",
            "properties": {
                "title": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "keywords": {
                    "type": "string"
                },
                "og_title": {
                    "type": "string"
                },
                "og_description": {
                    "type": "string"
                },
                "og_image": {
                    "type": "string"
                }
            },
            "required": [
                "title"
            ]
        },
        "models.News": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "title": {
                    "type": "string"
                },
                "content": {
                    "type": "string"
                },
                "excerpt": {
                    "type": "string"
                },
                "category": {
                    "type": "string"
                },
                "image": {
                    "type": "string"
                },
                "author": {
                    "type": "string"
                },
                "is_published": {
                    "type": "boolean"
                },
                "published_date": {
                    "type": "string",
                    "format": "date-time"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "dto.NewsRequest": {
            "type": "object",
            "properties": {
                "title": {
                    "type": "string"
                },
                "content": {
                    "type": "string"
                },
                "excerpt": {
                    "type": "string"
                },
                "category": {
                    "type": "string"
                },
                "image": {
                    "type": "string"
                },
                "author": {
                    "type": "string"
                },
                "is_published": {
                    "type": "boolean"
                },
                "published_date": {
                    "type": "string",
                    "format": "date-time"
                }
            },
            "required": [
                "title",
                "content",
                "category"
            ]
        },
        "models.Event": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "title": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "event_type": {
                    "type": "string"
                },
                "start_date": {
                    "type": "string",
                    "format": "date-time"
                },
                "end_date": {
                    "type": "string",
                    "format": "date-time"
                },
                "venue": {
                    "type": "string"
                },
                "city": {
                    "type": "string"
                },
                "registration_link": {
                    "type": "string"
                },
                "banner_image": {
                    "type": "string"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "upcoming",
                        "ongoing",
                        "completed"
                    ]
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "dto.EventRequest": {
            "type": "object",
            "properties": {
                "title": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "event_type": {
                    "type": "string"
                },
                "start_date": {
                    "type": "string",
                    "format": "date-time"
                },
                "end_date": {
                    "type": "string",
                    "format": "date-time"
                },
                "venue": {
                    "type": "string"
                },
                "city": {
                    "type": "string"
                },
                "registration_link": {
                    "type": "string"
                },
                "banner_image": {
                    "type": "string"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "upcoming",
                        "ongoing",
                        "completed"
                    ]
                }
            },
            "required": [
                "title",
                "description",
                "event_type",
                "start_date",
                "venue",
                "city"
            ]
        },
        "dto.PublicStatistics": {
            "type": "object",
            "properties": {
                "total_members": {
                    "type": "integer"
                },
                "total_events": {
                    "type": "integer"
                },
                "upcoming_events": {
                    "type": "integer"
                },
                "total_publications": {
                    "type": "integer"
                }
            }
        },
        "dto.DashboardStats": {
            "type": "object",
            "properties": {
                "total_members": {
                    "type": "integer"
                },
                "active_members": {
                    "type": "integer"
                },
                "total_events": {
                    "type": "integer"
                },
                "upcoming_events": {
                    "type": "integer"
                },
                "total_news": {
                    "type": "integer"
                },
                "total_applications": {
                    "type": "integer"
                },
                "pending_applications": {
                    "type": "integer"
                },
                "approved_applications": {
                    "type": "integer"
                },
                "committee_members": {
                    "type": "integer"
                },
                "total_albums": {
                    "type": "integer"
                },
                "total_publications": {
                    "type": "integer"
                },
                "new_contact_messages": {
                    "type": "integer"
                }
            }
        },
        "models.CommitteeMember": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "full_name": {
                    "type": "string"
                },
                "designation": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "mobile": {
                    "type": "string"
                },
                "bio": {
                    "type": "string"
                },
                "profile_image": {
                    "type": "string"
                },
                "year": {
                    "type": "integer"
                },
                "display_order": {
                    "type": "integer"
                },
                "is_current": {
                    "type": "boolean"
                },
                "slug": {
                    "type": "string"
                },
                "qualifications": {
                    "type": "string"
                },
                "hospital": {
                    "type": "string"
                },
                "city": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string"
                }
            }
        },
        "models.Publication": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "title": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "publication_type": {
                    "type": "string"
                },
                "authors": {
                    "type": "string"
                },
                "published_date": {
                    "type": "string"
                },
                "file_url": {
                    "type": "string"
                },
                "external_link": {
                    "type": "string"
                },
                "cover_image": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string"
                }
            }
        },
        "models.GalleryAlbum": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "title": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "event_date": {
                    "type": "string"
                },
                "location": {
                    "type": "string"
                },
                "category": {
                    "type": "string"
                },
                "cover_image": {
                    "type": "string"
                },
                "is_published": {
                    "type": "boolean"
                },
                "photo_count": {
                    "type": "integer"
                },
                "created_at": {
                    "type": "string"
                }
            }
        },
        "models.GalleryPhoto": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "album_id": {
                    "type": "string"
                },
                "title": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "image_url": {
                    "type": "string"
                },
                "display_order": {
                    "type": "integer"
                },
                "uploaded_at": {
                    "type": "string"
                }
            }
        },
        "models.AlbumWithPhotos": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "title": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "event_date": {
                    "type": "string"
                },
                "location": {
                    "type": "string"
                },
                "category": {
                    "type": "string"
                },
                "cover_image": {
                    "type": "string"
                },
                "is_published": {
                    "type": "boolean"
                },
                "photo_count": {
                    "type": "integer"
                },
                "created_at": {
                    "type": "string"
                },
                "photos": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.GalleryPhoto"
                    }
                }
            }
        },
        "dto.BulkUploadResponse": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "uploaded_count": {
                    "type": "integer"
                },
                "photos": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.GalleryPhoto"
                    }
                }
            }
        },
        "dto.ContactRequest": {
            "type": "object",
            "required": [
                "email",
                "message",
                "name",
                "subject"
            ],
            "properties": {
                "name": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "phone": {
                    "type": "string"
                },
                "subject": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                }
            }
        },
        "dto.UploadResponse": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "path": {
                    "type": "string"
                },
                "filename": {
                    "type": "string"
                },
                "size": {
                    "type": "integer"
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT token for authorization",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "SESI Membership API",
	Description:      "Membership intake, review and directory API of the Shoulder & Elbow Society of India",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
