package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Medium 상담 매체 (전화, 채널톡, 메일 등)
type Medium struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	IsActive  bool      `gorm:"not null;index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (Medium) TableName() string {
	return "mediums"
}

func (m *Medium) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}
