package repository

import (
	"testing"
	"time"

	"github.com/ikkim/consultation-backend/internal/app/model"
	"github.com/ikkim/consultation-backend/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRepositoryTest(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func createMedium(t *testing.T, testDB *gorm.DB, name string) *model.Medium {
	medium := &model.Medium{Name: name, IsActive: true}
	require.NoError(t, testDB.Create(medium).Error)
	return medium
}

func createClient(t *testing.T, testDB *gorm.DB, name string) *model.Client {
	client := &model.Client{Name: name}
	require.NoError(t, testDB.Create(client).Error)
	return client
}

func createCategory(t *testing.T, testDB *gorm.DB, name string) *model.ItemCategory {
	category := &model.ItemCategory{Name: name, IsActive: true}
	require.NoError(t, testDB.Create(category).Error)
	return category
}

func createTag(t *testing.T, testDB *gorm.DB, name string) *model.Tag {
	tag := &model.Tag{Name: name}
	require.NoError(t, testDB.Create(tag).Error)
	return tag
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}
