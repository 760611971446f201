package repository

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/labseat/internal/models"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB connects to TEST_DATABASE_URL or skips the test
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("skipping integration test (requires TEST_DATABASE_URL)")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.New().String()[:8])
}

func cleanupUser(t *testing.T, db *gorm.DB, username string) {
	t.Cleanup(func() {
		db.Where("username = ?", username).Delete(&models.Reservation{})
		db.Where("username = ?", username).Delete(&models.Picture{})
		db.Where("username = ?", username).Delete(&models.Profile{})
		db.Where("username = ?", username).Delete(&models.User{})
	})
}

func TestPostgres_UserEmailUnique(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	username := uniqueName("u")
	cleanupUser(t, db, username)

	email := username + "@x.com"
	exists, err := repo.ExistsByEmail(ctx, email)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.Create(ctx, &models.User{Email: email, Username: username, PasswordHash: "h"}))

	exists, err = repo.ExistsByEmail(ctx, email)
	require.NoError(t, err)
	assert.True(t, exists)

	err = repo.Create(ctx, &models.User{Email: email, Username: username, PasswordHash: "h"})
	assert.ErrorIs(t, err, ErrDuplicateKey)

	got, err := repo.GetByUsername(ctx, username)
	require.NoError(t, err)
	assert.Equal(t, email, got.Email)
}

func TestPostgres_AddSlotAppendsInOrder(t *testing.T) {
	db := openTestDB(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()
	username := uniqueName("r")
	cleanupUser(t, db, username)

	key := models.ReservationKey{Username: username, Lab: "L1", Date: "2024-05-01", Seat: "7"}
	_, err := repo.AddSlot(ctx, key, "9:00", "t1", false)
	require.NoError(t, err)
	res, err := repo.AddSlot(ctx, key, "10:00", "t2", true)
	require.NoError(t, err)

	assert.Equal(t, pq.StringArray{"9:00", "10:00"}, res.TimeSlot)
	assert.Equal(t, "t2", res.RequestTime)
	assert.False(t, res.Anonymous)

	var count int64
	db.Model(&models.Reservation{}).Where("username = ?", username).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestPostgres_AddSlotConcurrent(t *testing.T) {
	db := openTestDB(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()
	username := uniqueName("c")
	cleanupUser(t, db, username)

	key := models.ReservationKey{Username: username, Lab: "L1", Date: "2024-05-01", Seat: "1"}
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.AddSlot(ctx, key, fmt.Sprintf("slot-%d", i), "t", false)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	var reservations []models.Reservation
	require.NoError(t, db.Where("username = ?", username).Find(&reservations).Error)
	require.Len(t, reservations, 1)
	assert.Len(t, reservations[0].TimeSlot, 10)
}

func TestPostgres_RemoveSlotAndDelete(t *testing.T) {
	db := openTestDB(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()
	username := uniqueName("d")
	cleanupUser(t, db, username)

	key := models.ReservationKey{Username: username, Lab: "L2", Date: "2024-05-02", Seat: "3"}
	_, err := repo.AddSlot(ctx, key, "9:00", "t1", false)
	require.NoError(t, err)

	res, err := repo.RemoveSlot(ctx, key, "9:00")
	require.NoError(t, err)
	assert.Empty(t, res.TimeSlot)

	deleted, err := repo.Delete(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, username, deleted.Username)

	_, err = repo.Delete(ctx, key)
	assert.ErrorIs(t, err, ErrReservationNotFound)
	_, err = repo.RemoveSlot(ctx, key, "9:00")
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestPostgres_DeleteAccountAllOrNothing(t *testing.T) {
	db := openTestDB(t)
	accounts := NewAccountRepository(db)
	users := NewUserRepository(db)
	profiles := NewProfileRepository(db)
	ctx := context.Background()
	username := uniqueName("a")
	cleanupUser(t, db, username)

	require.NoError(t, profiles.Create(ctx, &models.Profile{Username: username, Description: "d", Picture: "p"}))

	// no user row: the profile must survive
	err := accounts.DeleteByUsername(ctx, username)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = profiles.GetByUsername(ctx, username)
	require.NoError(t, err)

	require.NoError(t, users.Create(ctx, &models.User{Email: username + "@x.com", Username: username, PasswordHash: "h"}))
	require.NoError(t, accounts.DeleteByUsername(ctx, username))

	_, err = profiles.GetByUsername(ctx, username)
	assert.ErrorIs(t, err, ErrProfileNotFound)
	_, err = users.GetByUsername(ctx, username)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestPostgres_ProfileUpdates(t *testing.T) {
	db := openTestDB(t)
	profiles := NewProfileRepository(db)
	ctx := context.Background()
	username := uniqueName("p")
	cleanupUser(t, db, username)

	assert.ErrorIs(t, profiles.UpdateDescription(ctx, username, "x"), ErrProfileNotFound)
	assert.ErrorIs(t, profiles.SetPicture(ctx, username, "/uploads/x.png"), ErrProfileNotFound)

	require.NoError(t, profiles.Create(ctx, &models.Profile{Username: username, Description: "d", Picture: "p"}))
	require.NoError(t, profiles.UpdateDescription(ctx, username, "new"))
	require.NoError(t, profiles.SetPicture(ctx, username, "/uploads/x.png"))

	got, err := profiles.GetByUsername(ctx, username)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Description)
	assert.Equal(t, "/uploads/x.png", got.Picture)

	pictures, err := profiles.ListPictures(ctx, username)
	require.NoError(t, err)
	require.Len(t, pictures, 1)

	urls, err := profiles.ListPictureURLs(ctx)
	require.NoError(t, err)
	assert.Contains(t, urls, "/uploads/x.png")
}
