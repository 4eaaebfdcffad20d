package services

import (
	"errors"
	"fmt"

	"github.com/hoangtm/task-admin-api/internal/models"
	"github.com/hoangtm/task-admin-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrSettingNotFound    = errors.New("setting not found")
	ErrSettingKeyRequired = errors.New("setting key is required")
)

// SettingService manages application settings as key/value rows.
type SettingService struct {
	repo repository.SettingRepository
}

// NewSettingService creates a new SettingService
func NewSettingService(repo repository.SettingRepository) *SettingService {
	return &SettingService{repo: repo}
}

// Set writes a setting, creating or overwriting the key.
func (s *SettingService) Set(key, value string) (*models.Setting, error) {
	if key == "" {
		return nil, ErrSettingKeyRequired
	}
	setting, err := s.repo.Upsert(key, value)
	if err != nil {
		return nil, fmt.Errorf("failed to save setting: %w", err)
	}
	return setting, nil
}

// Get returns a setting by key.
func (s *SettingService) Get(key string) (*models.Setting, error) {
	setting, err := s.repo.FindByKey(key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, fmt.Errorf("failed to find setting: %w", err)
	}
	return setting, nil
}

// List returns all settings.
func (s *SettingService) List() ([]models.Setting, error) {
	settings, err := s.repo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	return settings, nil
}
