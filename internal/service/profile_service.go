package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labseat/internal/models"
	"github.com/labseat/pkg/keygen"
)

// ProfilePictureField is the multipart field carrying the picture
const ProfilePictureField = "profilePicture"

var (
	ErrInvalidPicture  = errors.New("only jpeg, jpg and png images are allowed")
	ErrPictureTooLarge = errors.New("picture is too large")
)

// pictureTypes maps accepted extensions to their content type
var pictureTypes = map[string]string{
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
}

// ProfileService handles profile operations and picture uploads
type ProfileService struct {
	profileRepo ProfileRepo
	files       FileStorage
	maxBytes    int64
	now         func() time.Time
}

// NewProfileService creates a new ProfileService
func NewProfileService(profileRepo ProfileRepo, files FileStorage, maxBytes int64) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		files:       files,
		maxBytes:    maxBytes,
		now:         time.Now,
	}
}

// MaxUploadBytes returns the largest accepted picture size
func (s *ProfileService) MaxUploadBytes() int64 {
	return s.maxBytes
}

// CreateProfileRequest represents the profile creation request
type CreateProfileRequest struct {
	Username    string              `json:"username" binding:"required"`
	Description string              `json:"description"`
	Picture     string              `json:"picture"`
	SocialMedia *models.SocialMedia `json:"socialMedia"`
}

// SaveDescriptionRequest represents the description update request
type SaveDescriptionRequest struct {
	Username    string `json:"username" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// CreateProfile creates a profile, filling in default description and picture
func (s *ProfileService) CreateProfile(ctx context.Context, req *CreateProfileRequest) (*models.Profile, error) {
	profile := &models.Profile{
		Username:    req.Username,
		Description: req.Description,
		Picture:     req.Picture,
	}
	if profile.Description == "" {
		profile.Description = models.DefaultDescription
	}
	if profile.Picture == "" {
		profile.Picture = models.DefaultPicture
	}
	if req.SocialMedia != nil {
		profile.SocialMedia = *req.SocialMedia
	}

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return profile, nil
}

// ListProfiles returns every profile
func (s *ProfileService) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	profiles, err := s.profileRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	if profiles == nil {
		profiles = []models.Profile{}
	}
	return profiles, nil
}

// SaveDescription overwrites the description of a profile
func (s *ProfileService) SaveDescription(ctx context.Context, req *SaveDescriptionRequest) error {
	if err := s.profileRepo.UpdateDescription(ctx, req.Username, req.Description); err != nil {
		return fmt.Errorf("update description: %w", err)
	}
	return nil
}

// ListPictures returns the upload history of a user
func (s *ProfileService) ListPictures(ctx context.Context, username string) ([]models.Picture, error) {
	pictures, err := s.profileRepo.ListPictures(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("list pictures: %w", err)
	}
	if pictures == nil {
		pictures = []models.Picture{}
	}
	return pictures, nil
}

// UploadPicture validates and stores an uploaded picture and makes it
// the profile picture of username. It returns the picture path or URL.
func (s *ProfileService) UploadPicture(ctx context.Context, username string, fh *multipart.FileHeader) (string, error) {
	ext, contentType, err := s.checkPicture(fh)
	if err != nil {
		return "", err
	}

	// fail before writing anything when there is no profile
	if _, err := s.profileRepo.GetByUsername(ctx, username); err != nil {
		return "", fmt.Errorf("find profile: %w", err)
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	detected, err := mimetype.DetectReader(f)
	if err != nil {
		return "", fmt.Errorf("detect content type: %w", err)
	}
	if !detected.Is(contentType) {
		return "", ErrInvalidPicture
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	key, err := keygen.UploadName(ProfilePictureField, ext, s.now())
	if err != nil {
		return "", fmt.Errorf("name upload: %w", err)
	}

	url, err := s.files.Save(ctx, key, f, fh.Size, contentType)
	if err != nil {
		return "", fmt.Errorf("store picture: %w", err)
	}

	if err := s.profileRepo.SetPicture(ctx, username, url); err != nil {
		// the profile went away in the meantime; drop the orphan
		_ = s.files.Delete(ctx, key)
		return "", fmt.Errorf("set picture: %w", err)
	}

	return url, nil
}

// checkPicture validates size, extension and declared content type.
// It returns the normalized extension and the expected content type.
func (s *ProfileService) checkPicture(fh *multipart.FileHeader) (string, string, error) {
	if s.maxBytes > 0 && fh.Size > s.maxBytes {
		return "", "", ErrPictureTooLarge
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	contentType, ok := pictureTypes[ext]
	if !ok {
		return "", "", ErrInvalidPicture
	}

	declared, _, err := mime.ParseMediaType(fh.Header.Get("Content-Type"))
	if err != nil {
		return "", "", ErrInvalidPicture
	}
	switch declared {
	case "image/jpeg", "image/jpg", "image/png":
	default:
		return "", "", ErrInvalidPicture
	}

	return ext, contentType, nil
}
