package services

import (
	"fmt"
	"log"

	"github.com/hoangtm/task-admin-api/internal/models"
	"github.com/hoangtm/task-admin-api/internal/repository"
)

// ActivityService records audit entries and serves the admin audit view.
type ActivityService struct {
	repo repository.ActivityLogRepository
}

// NewActivityService creates a new ActivityService
func NewActivityService(repo repository.ActivityLogRepository) *ActivityService {
	return &ActivityService{repo: repo}
}

// Record writes an audit entry. Recording is best effort: a failed write is
// logged and never fails the request that triggered it.
func (s *ActivityService) Record(userID *uint64, action, targetType string, targetID *uint64, status models.ActivityStatus, detail string) {
	entry := &models.ActivityLog{
		UserID:     userID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Status:     status,
		Detail:     detail,
	}

	if err := s.repo.Create(entry); err != nil {
		log.Printf("failed to record activity %s: %v", action, err)
	}
}

// List returns audit entries matching the filter.
func (s *ActivityService) List(filter repository.ActivityLogFilter) ([]models.ActivityLog, int64, error) {
	entries, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activity logs: %w", err)
	}
	return entries, total, nil
}
