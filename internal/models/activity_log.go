package models

import "time"

type ActivityStatus string

const (
	ActivityStatusSuccess ActivityStatus = "success"
	ActivityStatusFailure ActivityStatus = "failure"
)

// ActivityLog records who did what to which entity, for the admin audit view.
type ActivityLog struct {
	ID         uint64         `gorm:"primarykey" json:"id"`
	UserID     *uint64        `gorm:"index" json:"user_id"`
	Action     string         `gorm:"type:varchar(100);not null;index" json:"action"`
	TargetType string         `gorm:"type:varchar(50);index" json:"target_type"`
	TargetID   *uint64        `json:"target_id"`
	Status     ActivityStatus `gorm:"type:varchar(20);not null;default:'success'" json:"status"`
	Detail     string         `gorm:"type:text" json:"detail"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
