package guests

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BridalPartyMember struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string    `gorm:"not null;column:name" json:"name"`
	Role     string    `gorm:"column:role" json:"role"`
	Side     string    `gorm:"column:side" json:"side,omitempty"`
	Bio      string    `gorm:"column:bio" json:"bio,omitempty"`
	PhotoURL string    `gorm:"column:photo_url" json:"photo_url,omitempty"`
	Position int       `gorm:"not null;default:0;index;column:position" json:"position"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (BridalPartyMember) TableName() string { return "bridal_party_member" }

func (m *BridalPartyMember) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
