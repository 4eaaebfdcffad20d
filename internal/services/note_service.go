package services

import (
	"errors"
	"fmt"

	"github.com/hoangtm/task-admin-api/internal/models"
	"github.com/hoangtm/task-admin-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrNoteNotFound      = errors.New("note not found")
	ErrNoteTitleRequired = errors.New("note title is required")
)

// NoteService handles personal notes. Every lookup is scoped by owner, so a
// note belonging to someone else reads as not-found.
type NoteService struct {
	noteRepo repository.NoteRepository
}

// NewNoteService creates a new NoteService
func NewNoteService(noteRepo repository.NoteRepository) *NoteService {
	return &NoteService{noteRepo: noteRepo}
}

// CreateNote creates a note for the owner.
func (s *NoteService) CreateNote(ownerID uint64, title, content string) (*models.Note, error) {
	if title == "" {
		return nil, ErrNoteTitleRequired
	}

	note := &models.Note{
		Title:   title,
		Content: content,
		UserID:  ownerID,
	}

	if err := s.noteRepo.Create(note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	return note, nil
}

// GetNote returns the note if the owner matches.
func (s *NoteService) GetNote(id, ownerID uint64) (*models.Note, error) {
	note, err := s.noteRepo.FindByIDForUser(id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to find note: %w", err)
	}
	return note, nil
}

// ListNotes returns a page of the owner's notes.
func (s *NoteService) ListNotes(ownerID uint64, page, pageSize int) ([]models.Note, int64, error) {
	notes, total, err := s.noteRepo.ListByUser(ownerID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, total, nil
}

// UpdateNote applies a partial update to an owned note.
func (s *NoteService) UpdateNote(id, ownerID uint64, title, content *string) (*models.Note, error) {
	note, err := s.GetNote(id, ownerID)
	if err != nil {
		return nil, err
	}

	if title != nil {
		if *title == "" {
			return nil, ErrNoteTitleRequired
		}
		note.Title = *title
	}
	if content != nil {
		note.Content = *content
	}

	if err := s.noteRepo.Update(note); err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	return note, nil
}

// DeleteNote removes an owned note.
func (s *NoteService) DeleteNote(id, ownerID uint64) error {
	if err := s.noteRepo.DeleteForUser(id, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoteNotFound
		}
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}
