package repository

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// The key column is a reserved word, so the queries here must let gorm quote
// it per dialect. These tests run the repository against a postgres-dialect
// connection, where backtick quoting would be a syntax error.
func newPostgresMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn: sqlDB,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return db, mock
}

func TestSettingRepository_FindByKeyPostgresQuoting(t *testing.T) {
	db, mock := newPostgresMockDB(t)
	repo := NewSettingRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "settings" WHERE "key" = $1`)).
		WithArgs("site_name", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "key", "value"}).
			AddRow(1, "site_name", "Task Admin"))

	setting, err := repo.FindByKey("site_name")
	require.NoError(t, err)
	assert.Equal(t, "site_name", setting.Key)
	assert.Equal(t, "Task Admin", setting.Value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingRepository_UpsertPostgresQuoting(t *testing.T) {
	db, mock := newPostgresMockDB(t)
	repo := NewSettingRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "settings" .* ON CONFLICT \("key"\) DO UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "settings" WHERE "key" = $1`)).
		WithArgs("site_name", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "key", "value"}).
			AddRow(1, "site_name", "Task Admin"))

	setting, err := repo.Upsert("site_name", "Task Admin")
	require.NoError(t, err)
	assert.Equal(t, "Task Admin", setting.Value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingRepository_ListPostgresQuoting(t *testing.T) {
	db, mock := newPostgresMockDB(t)
	repo := NewSettingRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "settings" ORDER BY "key"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "key", "value"}).
			AddRow(1, "site_name", "Task Admin").
			AddRow(2, "timezone", "Asia/Ho_Chi_Minh"))

	settings, err := repo.List()
	require.NoError(t, err)
	require.Len(t, settings, 2)
	assert.Equal(t, "site_name", settings[0].Key)
	assert.NoError(t, mock.ExpectationsWereMet())
}
