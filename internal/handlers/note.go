package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/hoangtm/task-admin-api/internal/errors"
	"github.com/hoangtm/task-admin-api/internal/middleware"
	"github.com/hoangtm/task-admin-api/internal/services"
	"github.com/hoangtm/task-admin-api/internal/utils"
)

type NoteHandler struct {
	noteService *services.NoteService
}

func NewNoteHandler(noteService *services.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

// ListNotes returns a page of the current user's notes.
func (h *NoteHandler) ListNotes(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	notes, total, err := h.noteService.ListNotes(userID, params.Page, params.Limit)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch notes")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notes": notes,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetNote returns one of the current user's notes.
func (h *NoteHandler) GetNote(c *gin.Context) {
	userID, noteID, ok := h.requestIDs(c)
	if !ok {
		return
	}

	note, err := h.noteService.GetNote(noteID, userID)
	if err != nil {
		respondNoteError(c, err)
		return
	}

	c.JSON(http.StatusOK, note)
}

// CreateNote creates a note for the current user.
func (h *NoteHandler) CreateNote(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateNoteRequest struct {
		Title   string `json:"title" binding:"required"`
		Content string `json:"content"`
	}

	var req CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "A note title is required")
		return
	}

	note, err := h.noteService.CreateNote(userID, req.Title, req.Content)
	if err != nil {
		respondNoteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, note)
}

// UpdateNote applies a partial update to one of the current user's notes.
func (h *NoteHandler) UpdateNote(c *gin.Context) {
	userID, noteID, ok := h.requestIDs(c)
	if !ok {
		return
	}

	type UpdateNoteRequest struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}

	var req UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	note, err := h.noteService.UpdateNote(noteID, userID, req.Title, req.Content)
	if err != nil {
		respondNoteError(c, err)
		return
	}

	c.JSON(http.StatusOK, note)
}

// DeleteNote removes one of the current user's notes.
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	userID, noteID, ok := h.requestIDs(c)
	if !ok {
		return
	}

	if err := h.noteService.DeleteNote(noteID, userID); err != nil {
		respondNoteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Note deleted"})
}

func (h *NoteHandler) requestIDs(c *gin.Context) (userID, noteID uint64, ok bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return 0, 0, false
	}

	noteID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid note ID")
		return 0, 0, false
	}

	return userID, noteID, true
}

func respondNoteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNoteNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNoteTitleRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
