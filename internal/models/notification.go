package models

import "time"

type NotificationType string

const (
	NotificationTaskAssigned         NotificationType = "task_assigned"
	NotificationTaskStatusChanged    NotificationType = "task_status_changed"
	NotificationTaskDelegated        NotificationType = "task_delegated"
	NotificationTaskDelegationNotice NotificationType = "task_delegation_notice"
	NotificationTaskDelegationOffer  NotificationType = "task_delegation_offer"
	NotificationTaskCancelled        NotificationType = "task_cancelled"
)

type Notification struct {
	ID        uint64           `gorm:"primarykey" json:"id"`
	UserID    uint64           `gorm:"not null;index" json:"user_id"`
	Type      NotificationType `gorm:"type:varchar(50);not null" json:"type"`
	Message   string           `gorm:"type:text;not null" json:"message"`
	IsRead    bool             `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`

	// Optional reference to the entity the notification is about
	RelatedEntityType string  `gorm:"type:varchar(50)" json:"related_entity_type,omitempty"`
	RelatedEntityID   *uint64 `json:"related_entity_id,omitempty"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
