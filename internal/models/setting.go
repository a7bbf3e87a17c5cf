package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Setting stores platform-wide configuration values editable by admins.
type Setting struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Key       string    `gorm:"size:100;not null;uniqueIndex" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	Type      string    `gorm:"size:20;default:'string'" json:"type"` // string, bool, int, json
	Public    bool      `gorm:"default:false" json:"public"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Setting) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (Setting) TableName() string {
	return "settings"
}
