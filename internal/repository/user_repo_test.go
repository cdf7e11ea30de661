package repository

import (
	"fmt"
	"testing"

	"amburide/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newUserTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func TestCreatePhoneOnlyUsers(t *testing.T) {
	repo := NewUserRepository(newUserTestDB(t))

	// Accounts start phone-only; a nil email must not trip the unique index.
	first := &models.User{Name: "Asha", PhoneNumber: "+919900112233"}
	require.NoError(t, repo.Create(first))

	second := &models.User{Name: "Ravi", PhoneNumber: "+919900112234"}
	require.NoError(t, repo.Create(second))

	got, err := repo.GetByPhone("+919900112234")
	require.NoError(t, err)
	require.Equal(t, second.ID, got.ID)
	require.Nil(t, got.Email)
}

func TestDuplicateEmailStillRejected(t *testing.T) {
	repo := NewUserRepository(newUserTestDB(t))

	email := "asha@example.com"
	require.NoError(t, repo.Create(&models.User{Name: "Asha", PhoneNumber: "+919900112233", Email: &email}))

	dup := email
	err := repo.Create(&models.User{Name: "Ravi", PhoneNumber: "+919900112234", Email: &dup})
	require.Error(t, err)
}

func TestEmailAttachedAfterVerification(t *testing.T) {
	repo := NewUserRepository(newUserTestDB(t))

	u := &models.User{Name: "Asha", PhoneNumber: "+919900112233"}
	require.NoError(t, repo.Create(u))

	email := "asha@example.com"
	u.Email = &email
	require.NoError(t, repo.Update(u))

	got, err := repo.GetByID(u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Email)
	require.Equal(t, email, *got.Email)
}
