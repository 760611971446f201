package worker

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/labseat/internal/models"
	"github.com/labseat/internal/repository/memory"
	"github.com/labseat/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func save(t *testing.T, files *storage.LocalStorage, key string, age time.Duration) string {
	t.Helper()
	url, err := files.Save(context.Background(), key, bytes.NewReader([]byte("x")), 1, "image/png")
	require.NoError(t, err)
	mod := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(filepath.Join(files.Dir(), key), mod, mod))
	return url
}

func TestPictureSweeper_Sweep(t *testing.T) {
	ctx := context.Background()
	files, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	db := memory.New()
	profiles := db.Profiles()
	require.NoError(t, profiles.Create(ctx, &models.Profile{Username: "a", Picture: models.DefaultPicture}))

	current := save(t, files, "current.png", 48*time.Hour)
	require.NoError(t, profiles.SetPicture(ctx, "a", current))
	save(t, files, "orphan.png", 48*time.Hour)
	save(t, files, "fresh.png", time.Minute)

	sweeper := NewPictureSweeper(profiles, files, time.Hour, 24*time.Hour)
	n, err := sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	objects, err := files.List(ctx)
	require.NoError(t, err)
	var keys []string
	for _, o := range objects {
		keys = append(keys, o.Key)
	}
	assert.ElementsMatch(t, []string{"current.png", "fresh.png"}, keys)
}

func TestPictureSweeper_KeepsHistory(t *testing.T) {
	ctx := context.Background()
	files, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	profiles := memory.New().Profiles()
	require.NoError(t, profiles.Create(ctx, &models.Profile{Username: "a"}))

	old := save(t, files, "old.png", 48*time.Hour)
	require.NoError(t, profiles.SetPicture(ctx, "a", old))
	newer := save(t, files, "new.png", 48*time.Hour)
	require.NoError(t, profiles.SetPicture(ctx, "a", newer))

	n, err := NewPictureSweeper(profiles, files, time.Hour, time.Hour).Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "pictures in the upload history stay")
}

func TestPictureSweeper_StartStop(t *testing.T) {
	files, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)
	sweeper := NewPictureSweeper(memory.New().Profiles(), files, 10*time.Millisecond, time.Hour)

	done := make(chan struct{})
	go func() {
		sweeper.Start()
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	sweeper.Stop()
	sweeper.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestPictureSweeper_MatchesByKey(t *testing.T) {
	ctx := context.Background()
	files, err := storage.NewLocalStorage(t.TempDir(), "/pictures")
	require.NoError(t, err)

	profiles := memory.New().Profiles()
	require.NoError(t, profiles.Create(ctx, &models.Profile{Username: "a"}))
	require.NoError(t, profiles.Create(ctx, &models.Profile{Username: "b"}))

	// stored while pictures were served from other locations
	save(t, files, "local.png", 48*time.Hour)
	require.NoError(t, profiles.SetPicture(ctx, "a", "/uploads/local.png"))
	save(t, files, "remote.png", 48*time.Hour)
	require.NoError(t, profiles.SetPicture(ctx, "b", "https://cdn.example.com/bucket/remote.png"))
	save(t, files, "orphan.png", 48*time.Hour)

	n, err := NewPictureSweeper(profiles, files, time.Hour, time.Hour).Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	objects, err := files.List(ctx)
	require.NoError(t, err)
	var keys []string
	for _, o := range objects {
		keys = append(keys, o.Key)
	}
	assert.ElementsMatch(t, []string{"local.png", "remote.png"}, keys)
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "a.png", objectKey("/uploads/a.png"))
	assert.Equal(t, "a.png", objectKey("https://bucket.s3.amazonaws.com/a.png"))
	assert.Equal(t, "a.png", objectKey("a.png"))
}
