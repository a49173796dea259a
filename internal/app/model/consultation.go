package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConsultationStatus string // 상담 진행 상태

const (
	StatusReceived   ConsultationStatus = "접수"
	StatusInProgress ConsultationStatus = "진행"
	StatusDone       ConsultationStatus = "완료"
	StatusOnHold     ConsultationStatus = "보류"
)

// ConsultationStatuses lists every valid status in display order
var ConsultationStatuses = []ConsultationStatus{
	StatusReceived,
	StatusInProgress,
	StatusDone,
	StatusOnHold,
}

func (s ConsultationStatus) IsValid() bool {
	for _, status := range ConsultationStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// ParseConsultationStatus trims the input and defaults blank values to 접수
func ParseConsultationStatus(raw string) (ConsultationStatus, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return StatusReceived, true
	}
	status := ConsultationStatus(trimmed)
	return status, status.IsValid()
}

// Consultation 상담 내역
type Consultation struct {
	ID          uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	ConsultedAt time.Time          `gorm:"not null;index" json:"consulted_at"` // 문의일자
	MediumID    uuid.UUID          `gorm:"type:uuid;not null;index" json:"medium_id"`
	ClientID    uuid.UUID          `gorm:"type:uuid;not null;index" json:"client_id"`
	Content     string             `gorm:"type:text;not null" json:"content"`
	Status      ConsultationStatus `gorm:"type:varchar(10);not null;index" json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	DeletedAt   gorm.DeletedAt     `gorm:"index" json:"deleted_at"` // 소프트 삭제

	Medium     *Medium        `gorm:"foreignKey:MediumID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"medium,omitempty"`
	Client     *Client        `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"client,omitempty"`
	Tags       []Tag          `gorm:"many2many:consultation_tags;joinForeignKey:ConsultationID;joinReferences:TagID" json:"tags"`
	Categories []ItemCategory `gorm:"many2many:consultation_categories;joinForeignKey:ConsultationID;joinReferences:CategoryID" json:"categories"`
}

func (Consultation) TableName() string {
	return "consultations"
}

func (c *Consultation) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	if c.Status == "" {
		c.Status = StatusReceived
	}
	return nil
}

// ConsultationTag 상담-태그 연결
type ConsultationTag struct {
	ConsultationID uuid.UUID `gorm:"type:uuid;primaryKey" json:"consultation_id"`
	TagID          uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"tag_id"`
	Tag            Tag       `gorm:"foreignKey:TagID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

func (ConsultationTag) TableName() string {
	return "consultation_tags"
}

// ConsultationCategory 상담-품목 연결
type ConsultationCategory struct {
	ConsultationID uuid.UUID    `gorm:"type:uuid;primaryKey" json:"consultation_id"`
	CategoryID     uuid.UUID    `gorm:"type:uuid;primaryKey;index" json:"category_id"`
	Category       ItemCategory `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CreatedAt      time.Time    `json:"created_at"`
}

func (ConsultationCategory) TableName() string {
	return "consultation_categories"
}
