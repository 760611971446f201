package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labseat/internal/models"
	"github.com/labseat/internal/repository"
	"github.com/labseat/internal/repository/memory"
	"github.com/labseat/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfileService(t *testing.T) (*ProfileService, *memory.ProfileRepository, *storage.LocalStorage) {
	t.Helper()
	files, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)
	profiles := memory.New().Profiles()
	return NewProfileService(profiles, files, 5<<20), profiles, files
}

func TestProfileService_CreateDefaults(t *testing.T) {
	svc, _, _ := newProfileService(t)

	p, err := svc.CreateProfile(context.Background(), &CreateProfileRequest{Username: "a"})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultDescription, p.Description)
	assert.Equal(t, models.DefaultPicture, p.Picture)
}

func TestProfileService_CreateKeepsValues(t *testing.T) {
	svc, _, _ := newProfileService(t)

	p, err := svc.CreateProfile(context.Background(), &CreateProfileRequest{
		Username:    "a",
		Description: "hi",
		Picture:     "/p.png",
		SocialMedia: &models.SocialMedia{Twitter: "@a"},
	})
	require.NoError(t, err)
	assert.Equal(t, "hi", p.Description)
	assert.Equal(t, "/p.png", p.Picture)
	assert.Equal(t, "@a", p.SocialMedia.Twitter)
}

func TestProfileService_CreateDuplicate(t *testing.T) {
	svc, _, _ := newProfileService(t)
	ctx := context.Background()

	_, err := svc.CreateProfile(ctx, &CreateProfileRequest{Username: "a"})
	require.NoError(t, err)
	_, err = svc.CreateProfile(ctx, &CreateProfileRequest{Username: "a"})
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)
}

func TestProfileService_ListEmpty(t *testing.T) {
	svc, _, _ := newProfileService(t)

	profiles, err := svc.ListProfiles(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, profiles)
	assert.Empty(t, profiles)
}

func TestProfileService_SaveDescription(t *testing.T) {
	svc, profiles, _ := newProfileService(t)
	ctx := context.Background()

	err := svc.SaveDescription(ctx, &SaveDescriptionRequest{Username: "a", Description: "x"})
	assert.ErrorIs(t, err, repository.ErrProfileNotFound)

	_, err = svc.CreateProfile(ctx, &CreateProfileRequest{Username: "a"})
	require.NoError(t, err)
	require.NoError(t, svc.SaveDescription(ctx, &SaveDescriptionRequest{Username: "a", Description: "x"}))

	p, err := profiles.GetByUsername(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "x", p.Description)
}

func TestProfileService_UploadPicture(t *testing.T) {
	svc, profiles, files := newProfileService(t)
	ctx := context.Background()

	_, err := svc.CreateProfile(ctx, &CreateProfileRequest{Username: "a"})
	require.NoError(t, err)

	url, err := svc.UploadPicture(ctx, "a", fileHeader(t, "me.PNG", "image/png", pngBytes))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/profilePicture-"), url)
	assert.True(t, strings.HasSuffix(url, ".png"), url)

	stored, err := os.ReadFile(filepath.Join(files.Dir(), filepath.Base(url)))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, stored)

	p, err := profiles.GetByUsername(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, url, p.Picture)

	history, err := svc.ListPictures(ctx, "a")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, url, history[0].PictureURL)
}

func TestProfileService_UploadJPEG(t *testing.T) {
	svc, _, _ := newProfileService(t)
	ctx := context.Background()

	_, err := svc.CreateProfile(ctx, &CreateProfileRequest{Username: "a"})
	require.NoError(t, err)

	url, err := svc.UploadPicture(ctx, "a", fileHeader(t, "me.jpg", "image/jpeg", jpegBytes))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, ".jpg"), url)
}

func TestProfileService_UploadWithoutProfile(t *testing.T) {
	svc, _, files := newProfileService(t)

	_, err := svc.UploadPicture(context.Background(), "ghost", fileHeader(t, "me.png", "image/png", pngBytes))
	assert.ErrorIs(t, err, repository.ErrProfileNotFound)

	objects, err := files.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, objects, "nothing is written for a missing profile")
}

func TestProfileService_UploadRejectsInvalidFiles(t *testing.T) {
	svc, _, files := newProfileService(t)
	ctx := context.Background()
	_, err := svc.CreateProfile(ctx, &CreateProfileRequest{Username: "a"})
	require.NoError(t, err)

	tests := []struct {
		name        string
		filename    string
		contentType string
		data        []byte
		wantErr     error
	}{
		{"gif extension", "me.gif", "image/gif", []byte("GIF89a......"), ErrInvalidPicture},
		{"declared type mismatch", "me.png", "application/octet-stream", pngBytes, ErrInvalidPicture},
		{"content is not an image", "me.png", "image/png", []byte("just some text pretending"), ErrInvalidPicture},
		{"jpeg bytes named png", "me.png", "image/png", jpegBytes, ErrInvalidPicture},
		{"too large", "big.png", "image/png", append(append([]byte{}, pngBytes...), make([]byte, 5<<20)...), ErrPictureTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UploadPicture(ctx, "a", fileHeader(t, tt.filename, tt.contentType, tt.data))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	objects, err := files.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, objects)
}
