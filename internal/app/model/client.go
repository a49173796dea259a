package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client 상담 상대 업체
type Client struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null;index" json:"name"`
	Contact   *string   `gorm:"type:varchar(50)" json:"contact"`
	Email     *string   `gorm:"type:varchar(100)" json:"email"`
	Address   *string   `gorm:"type:text" json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Client) TableName() string {
	return "clients"
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// HasContact reports whether a non-blank contact is stored
func (c *Client) HasContact() bool {
	return c.Contact != nil && strings.TrimSpace(*c.Contact) != ""
}

// HasEmail reports whether a non-blank email is stored
func (c *Client) HasEmail() bool {
	return c.Email != nil && strings.TrimSpace(*c.Email) != ""
}

// NullableString trims s and returns nil for blank values
func NullableString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
