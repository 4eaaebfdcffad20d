package dto

import (
	"time"

	"github.com/hoangtm/task-admin-api/internal/models"
)

// NotificationDTO is the shape sent over both REST and the socket channel.
type NotificationDTO struct {
	ID                uint64                  `json:"id"`
	UserID            uint64                  `json:"user_id"`
	Type              models.NotificationType `json:"type"`
	Message           string                  `json:"message"`
	IsRead            bool                    `json:"is_read"`
	CreatedAt         time.Time               `json:"created_at"`
	RelatedEntityType string                  `json:"related_entity_type,omitempty"`
	RelatedEntityID   *uint64                 `json:"related_entity_id,omitempty"`
}

// ToNotificationDTO converts a Notification model to NotificationDTO
func ToNotificationDTO(n models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:                n.ID,
		UserID:            n.UserID,
		Type:              n.Type,
		Message:           n.Message,
		IsRead:            n.IsRead,
		CreatedAt:         n.CreatedAt,
		RelatedEntityType: n.RelatedEntityType,
		RelatedEntityID:   n.RelatedEntityID,
	}
}

// ToNotificationDTOs converts a slice of notifications
func ToNotificationDTOs(notifications []models.Notification) []NotificationDTO {
	dtos := make([]NotificationDTO, len(notifications))
	for i, n := range notifications {
		dtos[i] = ToNotificationDTO(n)
	}
	return dtos
}
