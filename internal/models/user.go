package models

import (
	"time"

	"gorm.io/gorm"
)

type TwoFactorMethod string

const (
	TwoFactorNone  TwoFactorMethod = "none"
	TwoFactorEmail TwoFactorMethod = "email"
)

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Username     string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	RoleID       uint64         `gorm:"not null" json:"role_id"`
	IsActive     bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Two-factor state
	TwoFactorMethod    TwoFactorMethod `gorm:"type:varchar(20);not null;default:'none'" json:"two_factor_method"`
	TwoFactorSecret    string          `gorm:"type:varchar(255)" json:"-"`
	TwoFactorAttempts  int             `gorm:"not null;default:0" json:"-"`
	TwoFactorLockedAt  *time.Time      `json:"-"`

	// Profile. SocialLinks and Preferences hold free-form JSON managed by
	// the client.
	Bio         string `gorm:"type:text" json:"bio"`
	AvatarURL   string `gorm:"type:varchar(500)" json:"avatar_url"`
	Skills      string `gorm:"type:text" json:"skills"`
	SocialLinks string `gorm:"type:text" json:"social_links"`
	Preferences string `gorm:"type:text" json:"preferences"`

	// Relations
	Role         Role   `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	CreatedTasks []Task `gorm:"foreignKey:CreatedByID" json:"-"`
}
