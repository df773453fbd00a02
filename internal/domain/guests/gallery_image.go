package guests

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GalleryImage struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Caption      string    `gorm:"column:caption" json:"caption,omitempty"`
	ImageURL     string    `gorm:"not null;column:image_url" json:"image_url"`
	ThumbnailURL string    `gorm:"column:thumbnail_url" json:"thumbnail_url,omitempty"`
	Position     int       `gorm:"not null;default:0;index;column:position" json:"position"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (GalleryImage) TableName() string { return "gallery_image" }

func (i *GalleryImage) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
