package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hoangtm/task-admin-api/internal/database"
	"github.com/hoangtm/task-admin-api/internal/models"
	"github.com/hoangtm/task-admin-api/internal/repository"
	"github.com/hoangtm/task-admin-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NoteHandlerTestSuite defines the test suite for NoteHandler
type NoteHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *NoteHandler
}

// SetupTest runs before each test
func (suite *NoteHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(&models.User{}, &models.Note{})
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	noteService := services.NewNoteService(repository.NewNoteRepository(suite.db))
	suite.handler = NewNoteHandler(noteService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *NoteHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *NoteHandlerTestSuite) createTestNote(userID uint64, title string) *models.Note {
	note := &models.Note{Title: title, Content: "content", UserID: userID}
	suite.Require().NoError(suite.db.Create(note).Error)
	return note
}

func (suite *NoteHandlerTestSuite) request(method, url string, body []byte, userID uint64, noteID *uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set("user_id", userID)
	if noteID != nil {
		c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(*noteID, 10)}}
	}
	return c, w
}

func (suite *NoteHandlerTestSuite) TestCreateAndGetNote() {
	body, _ := json.Marshal(map[string]any{"title": "Shopping", "content": "milk"})
	c, w := suite.request("POST", "/api/notes", body, 1, nil)
	suite.handler.CreateNote(c)
	suite.Require().Equal(http.StatusCreated, w.Code)

	var created models.Note
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))

	c, w = suite.request("GET", "/api/notes/1", nil, 1, &created.ID)
	suite.handler.GetNote(c)
	suite.Require().Equal(http.StatusOK, w.Code)

	var fetched models.Note
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(suite.T(), "Shopping", fetched.Title)
}

func (suite *NoteHandlerTestSuite) TestGetNote_OtherOwnerReads404() {
	note := suite.createTestNote(1, "Mine")

	// Someone else's note reads as not-found, never forbidden
	c, w := suite.request("GET", "/api/notes/1", nil, 2, &note.ID)
	suite.handler.GetNote(c)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *NoteHandlerTestSuite) TestUpdateNote() {
	note := suite.createTestNote(1, "Draft")

	body, _ := json.Marshal(map[string]any{"title": "Final"})
	c, w := suite.request("PATCH", "/api/notes/1", body, 1, &note.ID)
	suite.handler.UpdateNote(c)

	suite.Require().Equal(http.StatusOK, w.Code)
	var updated models.Note
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(suite.T(), "Final", updated.Title)
	assert.Equal(suite.T(), "content", updated.Content)
}

func (suite *NoteHandlerTestSuite) TestDeleteNote_OtherOwnerReads404() {
	note := suite.createTestNote(1, "Mine")

	c, w := suite.request("DELETE", "/api/notes/1", nil, 2, &note.ID)
	suite.handler.DeleteNote(c)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	c, w = suite.request("DELETE", "/api/notes/1", nil, 1, &note.ID)
	suite.handler.DeleteNote(c)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

func (suite *NoteHandlerTestSuite) TestListNotes_OwnerScoped() {
	suite.createTestNote(1, "A")
	suite.createTestNote(1, "B")
	suite.createTestNote(2, "Other")

	c, w := suite.request("GET", "/api/notes", nil, 1, nil)
	suite.handler.ListNotes(c)

	suite.Require().Equal(http.StatusOK, w.Code)
	var response map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(suite.T(), response["notes"], 2)
}

func TestNoteHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(NoteHandlerTestSuite))
}
