package repository

import (
	"github.com/hoangtm/task-admin-api/internal/database"
	"github.com/hoangtm/task-admin-api/internal/models"
	"gorm.io/gorm"
)

// GormNoteRepository is a GORM implementation of NoteRepository
type GormNoteRepository struct {
	db *gorm.DB
}

// NewNoteRepository creates a new NoteRepository
func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &GormNoteRepository{db: db}
}

// Create creates a new note
func (r *GormNoteRepository) Create(note *models.Note) error {
	return r.db.Create(note).Error
}

// FindByIDForUser scopes the lookup by both id and owner, so a wrong owner
// yields record-not-found rather than revealing the note exists
func (r *GormNoteRepository) FindByIDForUser(id, userID uint64) (*models.Note, error) {
	var note models.Note
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&note).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

// ListByUser returns a page of the user's notes, newest first
func (r *GormNoteRepository) ListByUser(userID uint64, page, pageSize int) ([]models.Note, int64, error) {
	var notes []models.Note

	query := r.db.Model(&models.Note{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("updated_at DESC").Scopes(database.Paginate(page, pageSize))

	if err := listQuery.Find(&notes).Error; err != nil {
		return nil, 0, err
	}

	return notes, total, nil
}

// Update updates a note
func (r *GormNoteRepository) Update(note *models.Note) error {
	return r.db.Save(note).Error
}

// DeleteForUser removes a note owned by the user
func (r *GormNoteRepository) DeleteForUser(id, userID uint64) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Note{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
