package services

import (
	"testing"

	"github.com/hoangtm/task-admin-api/internal/database"
	"github.com/hoangtm/task-admin-api/internal/models"
	"github.com/hoangtm/task-admin-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskServiceTestSuite defines the test suite for TaskService
type TaskServiceTestSuite struct {
	suite.Suite
	db               *gorm.DB
	taskService      *TaskService
	notificationRepo repository.NotificationRepository
	role             *models.Role
}

// SetupTest runs before each test
func (suite *TaskServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.Role{},
		&models.Permission{},
		&models.User{},
		&models.Province{},
		&models.Department{},
		&models.DepartmentMember{},
		&models.DepartmentHead{},
		&models.Task{},
		&models.TaskUserAssignment{},
		&models.TaskDepartmentAssignment{},
		&models.Notification{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	suite.role = &models.Role{Name: models.RoleNameStaff}
	suite.Require().NoError(suite.db.Create(suite.role).Error)

	taskRepo := repository.NewTaskRepository(suite.db)
	userRepo := repository.NewUserRepository(suite.db)
	deptRepo := repository.NewDepartmentRepository(suite.db)
	suite.notificationRepo = repository.NewNotificationRepository(suite.db)

	notifier := NewNotificationService(suite.notificationRepo, nil)
	suite.taskService = NewTaskService(taskRepo, userRepo, deptRepo, notifier)
}

// TearDownTest runs after each test
func (suite *TaskServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskServiceTestSuite) createTestUser(username string) *models.User {
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashedpassword",
		RoleID:       suite.role.ID,
		IsActive:     true,
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *TaskServiceTestSuite) createTestProvince(name string) *models.Province {
	province := &models.Province{Name: name, Code: name}
	suite.Require().NoError(suite.db.Create(province).Error)
	return province
}

func (suite *TaskServiceTestSuite) createTestDepartment(name string, provinceID *uint64) *models.Department {
	dept := &models.Department{Name: name, ProvinceID: provinceID}
	suite.Require().NoError(suite.db.Create(dept).Error)
	return dept
}

func (suite *TaskServiceTestSuite) assignment(userIDs, deptIDs []uint64, provinceID *uint64) AssignmentUpdate {
	return AssignmentUpdate{
		UserIDs:       &userIDs,
		DepartmentIDs: &deptIDs,
		ProvinceID:    provinceID,
		ProvinceSet:   true,
	}
}

func (suite *TaskServiceTestSuite) notificationCount(userID uint64, ntype models.NotificationType) int64 {
	var count int64
	suite.db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", userID, ntype).
		Count(&count)
	return count
}

func (suite *TaskServiceTestSuite) TestCreateTask_Personal() {
	creator := suite.createTestUser("creator")

	task, err := suite.taskService.CreateTask(CreateTaskInput{
		Title:      "Write report",
		CreatorID:  creator.ID,
		Assignment: suite.assignment(nil, nil, nil),
	})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.TaskTypePersonal, task.Type)
	assert.Equal(suite.T(), models.TaskStatusPending, task.Status)
	assert.Equal(suite.T(), models.TaskPriorityMedium, task.Priority)
}

func (suite *TaskServiceTestSuite) TestCreateTask_UserAssignment() {
	creator := suite.createTestUser("creator")
	assignee := suite.createTestUser("assignee")

	task, err := suite.taskService.CreateTask(CreateTaskInput{
		Title:      "Review PR",
		CreatorID:  creator.ID,
		Assignment: suite.assignment([]uint64{assignee.ID}, nil, nil),
	})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.TaskTypeUser, task.Type)
	suite.Require().Len(task.UserAssignments, 1)
	assert.Equal(suite.T(), assignee.ID, task.UserAssignments[0].UserID)

	// The assignee is notified, the creator is not
	assert.EqualValues(suite.T(), 1, suite.notificationCount(assignee.ID, models.NotificationTaskAssigned))
	assert.EqualValues(suite.T(), 0, suite.notificationCount(creator.ID, models.NotificationTaskAssigned))
}

func (suite *TaskServiceTestSuite) TestCreateTask_UsersAndDepartmentsConflict() {
	creator := suite.createTestUser("creator")
	assignee := suite.createTestUser("assignee")
	dept := suite.createTestDepartment("Engineering", nil)

	_, err := suite.taskService.CreateTask(CreateTaskInput{
		Title:      "Conflicting",
		CreatorID:  creator.ID,
		Assignment: suite.assignment([]uint64{assignee.ID}, []uint64{dept.ID}, nil),
	})

	assert.ErrorIs(suite.T(), err, ErrAssignmentConflict)
}

func (suite *TaskServiceTestSuite) TestCreateTask_ProvinceRequiresDepartments() {
	creator := suite.createTestUser("creator")
	province := suite.createTestProvince("North")

	_, err := suite.taskService.CreateTask(CreateTaskInput{
		Title:      "Province only",
		CreatorID:  creator.ID,
		Assignment: suite.assignment(nil, nil, &province.ID),
	})

	assert.ErrorIs(suite.T(), err, ErrProvinceWithoutDepartments)
}

func (suite *TaskServiceTestSuite) TestCreateTask_ProvinceDepartment() {
	creator := suite.createTestUser("creator")
	province := suite.createTestProvince("North")
	dept := suite.createTestDepartment("Field Office", &province.ID)

	task, err := suite.taskService.CreateTask(CreateTaskInput{
		Title:      "Regional rollout",
		CreatorID:  creator.ID,
		Assignment: suite.assignment(nil, []uint64{dept.ID}, &province.ID),
	})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.TaskTypeProvinceDepartment, task.Type)
	suite.Require().NotNil(task.AssignedProvinceID)
	assert.Equal(suite.T(), province.ID, *task.AssignedProvinceID)
}

func (suite *TaskServiceTestSuite) TestCreateTask_DepartmentOutsideProvince() {
	creator := suite.createTestUser("creator")
	province := suite.createTestProvince("North")
	other := suite.createTestProvince("South")
	dept := suite.createTestDepartment("Southern Office", &other.ID)

	_, err := suite.taskService.CreateTask(CreateTaskInput{
		Title:      "Wrong province",
		CreatorID:  creator.ID,
		Assignment: suite.assignment(nil, []uint64{dept.ID}, &province.ID),
	})

	assert.ErrorIs(suite.T(), err, ErrDepartmentsNotInProvince)
}

func (suite *TaskServiceTestSuite) TestCreateTask_UnknownAssignee() {
	creator := suite.createTestUser("creator")

	_, err := suite.taskService.CreateTask(CreateTaskInput{
		Title:      "Ghost assignee",
		CreatorID:  creator.ID,
		Assignment: suite.assignment([]uint64{9999}, nil, nil),
	})

	assert.ErrorIs(suite.T(), err, ErrInvalidAssignee)
}

func (suite *TaskServiceTestSuite) TestGetTaskForViewer_StrangerReadsNotFound() {
	creator := suite.createTestUser("creator")
	stranger := suite.createTestUser("stranger")

	task, err := suite.taskService.CreateTask(CreateTaskInput{
		Title:      "Private work",
		CreatorID:  creator.ID,
		Assignment: suite.assignment(nil, nil, nil),
	})
	suite.Require().NoError(err)

	// No relationship to the task reads as not-found, never forbidden
	_, err = suite.taskService.GetTaskForViewer(task.ID, stranger.ID)
	assert.ErrorIs(suite.T(), err, ErrTaskNotFound)

	found, err := suite.taskService.GetTaskForViewer(task.ID, creator.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), task.ID, found.ID)
}

func (suite *TaskServiceTestSuite) TestGetTaskForViewer_DepartmentMember() {
	creator := suite.createTestUser("creator")
	member := suite.createTestUser("member")
	dept := suite.createTestDepartment("Engineering", nil)
	suite.Require().NoError(suite.db.Create(&models.DepartmentMember{
		DepartmentID: dept.ID,
		UserID:       member.ID,
	}).Error)

	task, err := suite.taskService.CreateTask(CreateTaskInput{
		Title:      "Team work",
		CreatorID:  creator.ID,
		Assignment: suite.assignment(nil, []uint64{dept.ID}, nil),
	})
	suite.Require().NoError(err)

	found, err := suite.taskService.GetTaskForViewer(task.ID, member.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), task.ID, found.ID)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_StatusTerminalRejected() {
	creator := suite.createTestUser("creator")

	task, err := suite.taskService.CreateTask(CreateTaskInput{
		Title:      "Patch target",
		CreatorID:  creator.ID,
		Assignment: suite.assignment(nil, nil, nil),
	})
	suite.Require().NoError(err)

	cancelled := models.TaskStatusCancelled
	_, err = suite.taskService.UpdateTask(task.ID, creator.ID, UpdateTaskInput{Status: &cancelled})
	assert.ErrorIs(suite.T(), err, ErrInvalidStatus)

	inProgress := models.TaskStatusInProgress
	updated, err := suite.taskService.UpdateTask(task.ID, creator.ID, UpdateTaskInput{Status: &inProgress})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.TaskStatusInProgress, updated.Status)
}

func (suite *TaskServiceTestSuite) TestUpdateAssignments_TypeImmutable() {
	creator := suite.createTestUser("creator")
	assignee := suite.createTestUser("assignee")
	dept := suite.createTestDepartment("Engineering", nil)

	task, err := suite.taskService.CreateTask(CreateTaskInput{
		Title:      "User task",
		CreatorID:  creator.ID,
		Assignment: suite.assignment([]uint64{assignee.ID}, nil, nil),
	})
	suite.Require().NoError(err)

	// Swapping users for departments would turn a user task into a
	// department task
	empty := []uint64{}
	deptIDs := []uint64{dept.ID}
	_, err = suite.taskService.UpdateAssignments(task.ID, creator.ID, AssignmentUpdate{
		UserIDs:       &empty,
		DepartmentIDs: &deptIDs,
	})
	assert.ErrorIs(suite.T(), err, ErrTaskTypeImmutable)
}

func (suite *TaskServiceTestSuite) TestUpdateAssignments_NotifiesAdditionsOnly() {
	creator := suite.createTestUser("creator")
	first := suite.createTestUser("first")
	second := suite.createTestUser("second")

	task, err := suite.taskService.CreateTask(CreateTaskInput{
		Title:      "Growing task",
		CreatorID:  creator.ID,
		Assignment: suite.assignment([]uint64{first.ID}, nil, nil),
	})
	suite.Require().NoError(err)

	both := []uint64{first.ID, second.ID}
	_, err = suite.taskService.UpdateAssignments(task.ID, creator.ID, AssignmentUpdate{UserIDs: &both})
	suite.Require().NoError(err)

	assert.EqualValues(suite.T(), 1, suite.notificationCount(first.ID, models.NotificationTaskAssigned))
	assert.EqualValues(suite.T(), 1, suite.notificationCount(second.ID, models.NotificationTaskAssigned))
}

func (suite *TaskServiceTestSuite) TestUpdateAssignments_OnlyCreator() {
	creator := suite.createTestUser("creator")
	assignee := suite.createTestUser("assignee")

	task, err := suite.taskService.CreateTask(CreateTaskInput{
		Title:      "Locked assignments",
		CreatorID:  creator.ID,
		Assignment: suite.assignment([]uint64{assignee.ID}, nil, nil),
	})
	suite.Require().NoError(err)

	ids := []uint64{assignee.ID}
	_, err = suite.taskService.UpdateAssignments(task.ID, assignee.ID, AssignmentUpdate{UserIDs: &ids})
	assert.ErrorIs(suite.T(), err, ErrNotTaskCreator)
}

func (suite *TaskServiceTestSuite) TestDelegate_CreatesSuccessorAndMarksSource() {
	creator := suite.createTestUser("creator")
	target := suite.createTestUser("target")

	source, err := suite.taskService.CreateTask(CreateTaskInput{
		Title:      "Hand-off",
		CreatorID:  creator.ID,
		Assignment: suite.assignment(nil, nil, nil),
	})
	suite.Require().NoError(err)

	successor, err := suite.taskService.Delegate(source.ID, creator.ID, []uint64{target.ID}, "vacation")
	suite.Require().NoError(err)

	assert.Equal(suite.T(), models.TaskTypeUser, successor.Type)
	assert.Equal(suite.T(), models.TaskStatusPending, successor.Status)
	suite.Require().NotNil(successor.DelegatedFromTaskID)
	assert.Equal(suite.T(), source.ID, *successor.DelegatedFromTaskID)
	suite.Require().Len(successor.UserAssignments, 1)
	assert.Equal(suite.T(), target.ID, successor.UserAssignments[0].UserID)

	var reloaded models.Task
	suite.Require().NoError(suite.db.First(&reloaded, source.ID).Error)
	assert.Equal(suite.T(), models.TaskStatusDelegated, reloaded.Status)
	assert.True(suite.T(), reloaded.IsDelegated)
	suite.Require().NotNil(reloaded.DelegatedToTaskID)
	assert.Equal(suite.T(), successor.ID, *reloaded.DelegatedToTaskID)

	assert.EqualValues(suite.T(), 1, suite.notificationCount(target.ID, models.NotificationTaskDelegated))
}

func (suite *TaskServiceTestSuite) TestDelegate_CompletedTaskRejected() {
	creator := suite.createTestUser("creator")
	target := suite.createTestUser("target")

	task, err := suite.taskService.CreateTask(CreateTaskInput{
		Title:      "Done already",
		CreatorID:  creator.ID,
		Assignment: suite.assignment(nil, nil, nil),
	})
	suite.Require().NoError(err)

	completed := models.TaskStatusCompleted
	_, err = suite.taskService.UpdateTask(task.ID, creator.ID, UpdateTaskInput{Status: &completed})
	suite.Require().NoError(err)

	_, err = suite.taskService.Delegate(task.ID, creator.ID, []uint64{target.ID}, "")
	assert.ErrorIs(suite.T(), err, ErrTaskNotDelegatable)
}

func (suite *TaskServiceTestSuite) TestDelegate_DelegatedTaskRejected() {
	creator := suite.createTestUser("creator")
	target := suite.createTestUser("target")
	other := suite.createTestUser("other")

	task, err := suite.taskService.CreateTask(CreateTaskInput{
		Title:      "Once only",
		CreatorID:  creator.ID,
		Assignment: suite.assignment(nil, nil, nil),
	})
	suite.Require().NoError(err)

	_, err = suite.taskService.Delegate(task.ID, creator.ID, []uint64{target.ID}, "")
	suite.Require().NoError(err)

	// The source is terminal now; a second delegation must fail
	_, err = suite.taskService.Delegate(task.ID, creator.ID, []uint64{other.ID}, "")
	assert.ErrorIs(suite.T(), err, ErrTaskNotDelegatable)
}

func (suite *TaskServiceTestSuite) TestProposeAndAcceptDelegation() {
	creator := suite.createTestUser("creator")
	target := suite.createTestUser("target")

	task, err := suite.taskService.CreateTask(CreateTaskInput{
		Title:      "Offered work",
		CreatorID:  creator.ID,
		Assignment: suite.assignment(nil, nil, nil),
	})
	suite.Require().NoError(err)

	proposed, err := suite.taskService.ProposeDelegation(task.ID, creator.ID, target.ID)
	suite.Require().NoError(err)
	suite.Require().NotNil(proposed.PendingDelegatedToID)
	assert.Equal(suite.T(), target.ID, *proposed.PendingDelegatedToID)
	assert.EqualValues(suite.T(), 1, suite.notificationCount(target.ID, models.NotificationTaskDelegationOffer))

	successor, err := suite.taskService.RespondDelegation(task.ID, target.ID, true, "")
	suite.Require().NoError(err)
	suite.Require().Len(successor.UserAssignments, 1)
	assert.Equal(suite.T(), target.ID, successor.UserAssignments[0].UserID)

	var reloaded models.Task
	suite.Require().NoError(suite.db.First(&reloaded, task.ID).Error)
	assert.Equal(suite.T(), models.TaskStatusDelegated, reloaded.Status)
	assert.Nil(suite.T(), reloaded.PendingDelegatedToID)
}

func (suite *TaskServiceTestSuite) TestRespondDelegation_Decline() {
	creator := suite.createTestUser("creator")
	target := suite.createTestUser("target")

	task, err := suite.taskService.CreateTask(CreateTaskInput{
		Title:      "Declined work",
		CreatorID:  creator.ID,
		Assignment: suite.assignment(nil, nil, nil),
	})
	suite.Require().NoError(err)

	_, err = suite.taskService.ProposeDelegation(task.ID, creator.ID, target.ID)
	suite.Require().NoError(err)

	declined, err := suite.taskService.RespondDelegation(task.ID, target.ID, false, "too busy")
	suite.Require().NoError(err)
	assert.Nil(suite.T(), declined.PendingDelegatedToID)
	assert.Equal(suite.T(), models.TaskStatusPending, declined.Status)
	assert.EqualValues(suite.T(), 1, suite.notificationCount(creator.ID, models.NotificationTaskDelegationNotice))
}

func (suite *TaskServiceTestSuite) TestRespondDelegation_WrongTarget() {
	creator := suite.createTestUser("creator")
	target := suite.createTestUser("target")
	intruder := suite.createTestUser("intruder")

	task, err := suite.taskService.CreateTask(CreateTaskInput{
		Title:      "Guarded offer",
		CreatorID:  creator.ID,
		Assignment: suite.assignment(nil, nil, nil),
	})
	suite.Require().NoError(err)

	_, err = suite.taskService.ProposeDelegation(task.ID, creator.ID, target.ID)
	suite.Require().NoError(err)

	_, err = suite.taskService.RespondDelegation(task.ID, intruder.ID, true, "")
	assert.ErrorIs(suite.T(), err, ErrNotDelegationTarget)
}

func (suite *TaskServiceTestSuite) TestCancel_RequiresReason() {
	creator := suite.createTestUser("creator")

	task, err := suite.taskService.CreateTask(CreateTaskInput{
		Title:      "To cancel",
		CreatorID:  creator.ID,
		Assignment: suite.assignment(nil, nil, nil),
	})
	suite.Require().NoError(err)

	_, err = suite.taskService.Cancel(task.ID, creator.ID, "")
	assert.ErrorIs(suite.T(), err, ErrReasonRequired)

	cancelled, err := suite.taskService.Cancel(task.ID, creator.ID, "no longer needed")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.TaskStatusCancelled, cancelled.Status)
	assert.Equal(suite.T(), "no longer needed", cancelled.CancellationReason)
	suite.Require().NotNil(cancelled.CancelledByID)
	assert.Equal(suite.T(), creator.ID, *cancelled.CancelledByID)
}

func (suite *TaskServiceTestSuite) TestSoftDeleteAndRestore() {
	creator := suite.createTestUser("creator")

	task, err := suite.taskService.CreateTask(CreateTaskInput{
		Title:      "Bin me",
		CreatorID:  creator.ID,
		Assignment: suite.assignment(nil, nil, nil),
	})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.taskService.SoftDelete(task.ID, creator.ID, "mistake"))

	// A deleted task is hidden from the default list
	tasks, total, err := suite.taskService.ListTasks(ListTasksInput{ViewerID: creator.ID})
	suite.Require().NoError(err)
	assert.Empty(suite.T(), tasks)
	assert.EqualValues(suite.T(), 0, total)

	deleted, total, err := suite.taskService.ListDeleted(creator.ID, 1, 20)
	suite.Require().NoError(err)
	suite.Require().Len(deleted, 1)
	assert.EqualValues(suite.T(), 1, total)

	err = suite.taskService.SoftDelete(task.ID, creator.ID, "again")
	assert.ErrorIs(suite.T(), err, ErrTaskAlreadyDeleted)

	restored, err := suite.taskService.Restore(task.ID, creator.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.TaskStatusPending, restored.Status)
	assert.False(suite.T(), restored.IsDeleted)
}

func (suite *TaskServiceTestSuite) TestListTasks_ViewerScope() {
	creator := suite.createTestUser("creator")
	assignee := suite.createTestUser("assignee")
	outsider := suite.createTestUser("outsider")

	_, err := suite.taskService.CreateTask(CreateTaskInput{
		Title:      "Shared task",
		CreatorID:  creator.ID,
		Assignment: suite.assignment([]uint64{assignee.ID}, nil, nil),
	})
	suite.Require().NoError(err)

	for _, viewerID := range []uint64{creator.ID, assignee.ID} {
		tasks, _, err := suite.taskService.ListTasks(ListTasksInput{ViewerID: viewerID})
		suite.Require().NoError(err)
		assert.Len(suite.T(), tasks, 1)
	}

	tasks, _, err := suite.taskService.ListTasks(ListTasksInput{ViewerID: outsider.ID})
	suite.Require().NoError(err)
	assert.Empty(suite.T(), tasks)
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
