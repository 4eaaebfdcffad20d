package models

import "time"

// Setting is a free-form key/value row for application configuration
// managed through the admin UI.
type Setting struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Key       string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
