package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/labseat/internal/middleware"
	"github.com/labseat/internal/repository"
	"github.com/labseat/internal/service"
	"github.com/labseat/pkg/response"
)

// multipartOverhead is allowed on top of the picture size limit
const multipartOverhead = 1 << 20

// ProfileHandler handles profile and picture requests
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// CreateProfile handles profile creation
// POST /createProfile
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	var req service.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	profile, err := h.profileService.CreateProfile(c.Request.Context(), &req)
	if err != nil {
		middleware.LogError("create profile %s: %v", req.Username, err)
		response.InternalError(c, "failed to create profile")
		return
	}

	response.Created(c, "profile created successfully", profile)
}

// ListProfiles returns every profile
// GET /profiles
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	profiles, err := h.profileService.ListProfiles(c.Request.Context())
	if err != nil {
		middleware.LogError("list profiles: %v", err)
		response.InternalError(c, "failed to list profiles")
		return
	}

	response.Success(c, profiles)
}

// SaveDescription updates a profile description
// POST /saveDescription
func (h *ProfileHandler) SaveDescription(c *gin.Context) {
	var req service.SaveDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.profileService.SaveDescription(c.Request.Context(), &req); err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			response.NotFound(c, "profile not found")
			return
		}
		middleware.LogError("save description %s: %v", req.Username, err)
		response.InternalError(c, "failed to save description")
		return
	}

	response.OK(c, "description saved successfully", nil)
}

// UploadProfilePicture stores an uploaded picture as the profile picture
// POST /uploadProfilePicture?username=...
func (h *ProfileHandler) UploadProfilePicture(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		response.BadRequest(c, "username is required")
		return
	}

	if maxBytes := h.profileService.MaxUploadBytes(); maxBytes > 0 {
		// room for the multipart envelope around the file
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartOverhead)
	}

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.BadRequest(c, service.ErrPictureTooLarge.Error())
			return
		}
		response.BadRequest(c, "multipart form expected")
		return
	}
	files := form.File[service.ProfilePictureField]
	if len(files) != 1 {
		response.BadRequest(c, "exactly one file is expected in field "+service.ProfilePictureField)
		return
	}

	url, err := h.profileService.UploadPicture(c.Request.Context(), username, files[0])
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPicture), errors.Is(err, service.ErrPictureTooLarge):
			response.BadRequest(c, err.Error())
		case errors.Is(err, repository.ErrProfileNotFound):
			response.NotFound(c, "profile not found")
		default:
			middleware.LogError("upload picture %s: %v", username, err)
			response.InternalError(c, "failed to upload picture")
		}
		return
	}

	response.OK(c, "picture uploaded successfully", gin.H{"picture": url})
}

// ListPictures returns the upload history of a user
// GET /pictures?username=...
func (h *ProfileHandler) ListPictures(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		response.BadRequest(c, "username is required")
		return
	}

	pictures, err := h.profileService.ListPictures(c.Request.Context(), username)
	if err != nil {
		middleware.LogError("list pictures %s: %v", username, err)
		response.InternalError(c, "failed to list pictures")
		return
	}

	response.Success(c, pictures)
}

// RegisterRoutes registers profile routes
func (h *ProfileHandler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/createProfile", h.CreateProfile)
	r.GET("/profiles", h.ListProfiles)
	r.POST("/saveDescription", h.SaveDescription)
	r.POST("/uploadProfilePicture", h.UploadProfilePicture)
	r.GET("/pictures", h.ListPictures)
}
