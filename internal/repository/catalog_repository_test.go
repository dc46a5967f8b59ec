package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return gormDB, mock
}

func TestGetCategoriesWithoutRedisReadsDatabase(t *testing.T) {
	gormDB, mock := newMockDB(t)

	// No Redis client: the cache layer must stay unconfigured and every
	// read must go straight to the database
	repo := NewCatalogRepository(gormDB, nil)
	assert.Nil(t, repo.cache)

	categoryID := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "tenant_id", "name", "slug"}).
		AddRow(categoryID.String(), "tenant-1", "Shirts", "shirts")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "categories" WHERE tenant_id = $1`)).
		WithArgs("tenant-1").
		WillReturnRows(rows)

	categories, err := repo.GetCategories(context.Background(), "tenant-1")

	assert.NoError(t, err)
	assert.Len(t, categories, 1)
	assert.Equal(t, categoryID, categories[0].ID)
	assert.Equal(t, "Shirts", categories[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
