package services

import (
	"encoding/json"
	"testing"

	"github.com/hoangtm/task-admin-api/internal/database"
	"github.com/hoangtm/task-admin-api/internal/models"
	"github.com/hoangtm/task-admin-api/internal/realtime"
	"github.com/hoangtm/task-admin-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// captureClient records pushed messages for assertions.
type captureClient struct {
	messages [][]byte
}

func (c *captureClient) Send(message []byte) bool {
	c.messages = append(c.messages, message)
	return true
}

func (c *captureClient) Close() {}

// NotificationServiceTestSuite defines the test suite for NotificationService
type NotificationServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	hub     *realtime.Hub
	service *NotificationService
}

// SetupTest runs before each test
func (suite *NotificationServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(&models.Notification{})
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	suite.hub = realtime.NewHub()
	suite.service = NewNotificationService(repository.NewNotificationRepository(suite.db), suite.hub)
}

// TearDownTest runs after each test
func (suite *NotificationServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *NotificationServiceTestSuite) TestNotify_PersistsAndPushes() {
	client := &captureClient{}
	suite.hub.Register(7, client)

	taskID := uint64(42)
	n, err := suite.service.Notify(7, models.NotificationTaskAssigned, "You have been assigned", "task", &taskID)
	suite.Require().NoError(err)
	assert.NotZero(suite.T(), n.ID)

	// Durable row
	var count int64
	suite.db.Model(&models.Notification{}).Where("user_id = ?", 7).Count(&count)
	assert.EqualValues(suite.T(), 1, count)

	// Live push
	suite.Require().Len(client.messages, 1)
	var pushed models.Notification
	suite.Require().NoError(json.Unmarshal(client.messages[0], &pushed))
	assert.Equal(suite.T(), n.ID, pushed.ID)
	assert.Equal(suite.T(), models.NotificationTaskAssigned, pushed.Type)
}

func (suite *NotificationServiceTestSuite) TestNotify_NoConnectedClient() {
	// No socket registered; the row must still be written
	_, err := suite.service.Notify(9, models.NotificationTaskCancelled, "Task cancelled", "task", nil)
	suite.Require().NoError(err)

	var count int64
	suite.db.Model(&models.Notification{}).Where("user_id = ?", 9).Count(&count)
	assert.EqualValues(suite.T(), 1, count)
}

func (suite *NotificationServiceTestSuite) TestNotify_NilHub() {
	service := NewNotificationService(repository.NewNotificationRepository(suite.db), nil)

	_, err := service.Notify(3, models.NotificationTaskAssigned, "hello", "task", nil)
	assert.NoError(suite.T(), err)
}

func (suite *NotificationServiceTestSuite) TestMarkRead_Idempotent() {
	n, err := suite.service.Notify(5, models.NotificationTaskAssigned, "first", "task", nil)
	suite.Require().NoError(err)

	read, err := suite.service.MarkRead(n.ID, 5)
	suite.Require().NoError(err)
	assert.True(suite.T(), read.IsRead)

	// A second call succeeds without changing anything
	again, err := suite.service.MarkRead(n.ID, 5)
	suite.Require().NoError(err)
	assert.True(suite.T(), again.IsRead)
}

func (suite *NotificationServiceTestSuite) TestMarkRead_WrongOwner() {
	n, err := suite.service.Notify(5, models.NotificationTaskAssigned, "mine", "task", nil)
	suite.Require().NoError(err)

	_, err = suite.service.MarkRead(n.ID, 6)
	assert.ErrorIs(suite.T(), err, ErrNotificationNotFound)
}

func (suite *NotificationServiceTestSuite) TestMarkAllRead() {
	for i := 0; i < 3; i++ {
		_, err := suite.service.Notify(5, models.NotificationTaskAssigned, "bulk", "task", nil)
		suite.Require().NoError(err)
	}
	_, err := suite.service.Notify(6, models.NotificationTaskAssigned, "other user", "task", nil)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.MarkAllRead(5))

	var unread int64
	suite.db.Model(&models.Notification{}).Where("user_id = ? AND is_read = ?", 5, false).Count(&unread)
	assert.EqualValues(suite.T(), 0, unread)

	suite.db.Model(&models.Notification{}).Where("user_id = ? AND is_read = ?", 6, false).Count(&unread)
	assert.EqualValues(suite.T(), 1, unread)
}

func TestNotificationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationServiceTestSuite))
}
