package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/hoangtm/task-admin-api/internal/models"
	"github.com/hoangtm/task-admin-api/internal/realtime"
	"github.com/hoangtm/task-admin-api/internal/repository"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService persists notifications and pushes them to connected
// clients. The database row is the durable guarantee; the socket push is a
// latency optimization and its failure is ignored.
type NotificationService struct {
	repo repository.NotificationRepository
	hub  *realtime.Hub
}

// NewNotificationService creates a new NotificationService. The hub may be
// nil, in which case notifications are persisted only.
func NewNotificationService(repo repository.NotificationRepository, hub *realtime.Hub) *NotificationService {
	return &NotificationService{
		repo: repo,
		hub:  hub,
	}
}

// Notify persists a notification row and best-effort pushes it to the user's
// open sockets.
func (s *NotificationService) Notify(userID uint64, ntype models.NotificationType, message string, relatedType string, relatedID *uint64) (*models.Notification, error) {
	n := &models.Notification{
		UserID:            userID,
		Type:              ntype,
		Message:           message,
		RelatedEntityType: relatedType,
		RelatedEntityID:   relatedID,
	}

	if err := s.repo.Create(n); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	s.push(n)
	return n, nil
}

func (s *NotificationService) push(n *models.Notification) {
	if s.hub == nil {
		return
	}

	payload, err := json.Marshal(n)
	if err != nil {
		log.Printf("notification push marshal failed: %v", err)
		return
	}

	s.hub.Push(n.UserID, payload)
}

// ListForUser returns a page of the user's notifications.
func (s *NotificationService) ListForUser(userID uint64, unreadOnly bool, page, pageSize int) ([]models.Notification, int64, error) {
	notifications, total, err := s.repo.ListByUser(userID, unreadOnly, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, total, nil
}

// MarkRead marks a notification as read. Repeating the call on an
// already-read notification is a no-op, not an error.
func (s *NotificationService) MarkRead(id, userID uint64) (*models.Notification, error) {
	if _, err := s.repo.FindByIDForUser(id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to find notification: %w", err)
	}

	if err := s.repo.MarkRead(id, userID); err != nil {
		return nil, fmt.Errorf("failed to mark notification read: %w", err)
	}

	return s.repo.FindByIDForUser(id, userID)
}

// MarkAllRead marks every unread notification of the user as read.
func (s *NotificationService) MarkAllRead(userID uint64) error {
	if err := s.repo.MarkAllRead(userID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
