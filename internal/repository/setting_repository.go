package repository

import (
	"github.com/hoangtm/task-admin-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// settingKey builds a dialect-quoted equality condition for the key column,
// which is a reserved word on mysql and postgres alike.
func settingKey(key string) clause.Eq {
	return clause.Eq{Column: clause.Column{Name: "key"}, Value: key}
}

// GormSettingRepository is a GORM implementation of SettingRepository
type GormSettingRepository struct {
	db *gorm.DB
}

// NewSettingRepository creates a new SettingRepository
func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &GormSettingRepository{db: db}
}

// Upsert writes a setting, replacing any existing value for the key
func (r *GormSettingRepository) Upsert(key, value string) (*models.Setting, error) {
	setting := models.Setting{Key: key, Value: value}
	err := r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&setting).Error
	if err != nil {
		return nil, err
	}
	if err := r.db.Where(settingKey(key)).First(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

// FindByKey finds a setting by key
func (r *GormSettingRepository) FindByKey(key string) (*models.Setting, error) {
	var setting models.Setting
	if err := r.db.Where(settingKey(key)).First(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

// List returns all settings
func (r *GormSettingRepository) List() ([]models.Setting, error) {
	var settings []models.Setting
	err := r.db.
		Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).
		Find(&settings).Error
	if err != nil {
		return nil, err
	}
	return settings, nil
}
