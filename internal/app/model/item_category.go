package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ItemCategory 문의 품목 카테고리
// 삭제 시 is_active=false 로 비활성화하며 실제 행은 남긴다
type ItemCategory struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	IsActive  bool      `gorm:"not null;index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (ItemCategory) TableName() string {
	return "item_categories"
}

func (c *ItemCategory) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
