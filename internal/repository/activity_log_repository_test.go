package repository

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hoangtm/task-admin-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return db, mock
}

func TestActivityLogRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewActivityLogRepository(db)

	userID := uint64(3)
	targetID := uint64(17)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `activity_logs`")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.Create(&models.ActivityLog{
		UserID:     &userID,
		Action:     "task.delegate",
		TargetType: "task",
		TargetID:   &targetID,
		Status:     models.ActivityStatusSuccess,
		Detail:     "vacation",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityLogRepository_ListAppliesFilters(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewActivityLogRepository(db)

	userID := uint64(3)
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT count(*) FROM `activity_logs` WHERE user_id = ? AND action = ? AND created_at >= ?")).
		WithArgs(userID, "task.delegate", from).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT * FROM `activity_logs` WHERE user_id = ? AND action = ? AND created_at >= ? ORDER BY created_at DESC LIMIT ?")).
		WithArgs(userID, "task.delegate", from, 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "action", "target_type"}).
			AddRow(1, "task.delegate", "task"))

	entries, total, err := repo.List(ActivityLogFilter{
		UserID:   &userID,
		Action:   "task.delegate",
		From:     &from,
		Page:     1,
		PageSize: 20,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, entries, 1)
	assert.Equal(t, "task.delegate", entries[0].Action)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityLogRepository_ListSearch(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewActivityLogRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT count(*) FROM `activity_logs` WHERE detail LIKE ?")).
		WithArgs("%vacation%").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT * FROM `activity_logs` WHERE detail LIKE ? ORDER BY created_at DESC")).
		WithArgs("%vacation%").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	entries, total, err := repo.List(ActivityLogFilter{Search: "vacation"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}
