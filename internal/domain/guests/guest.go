package guests

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Guest struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	HouseholdID *uuid.UUID `gorm:"type:uuid;index;column:household_id" json:"household_id,omitempty"`
	FirstName   string     `gorm:"not null;column:first_name" json:"first_name"`
	LastName    string     `gorm:"not null;column:last_name" json:"last_name"`
	Email       string     `gorm:"column:email;index" json:"email,omitempty"`
	IsChild     bool       `gorm:"not null;default:false;column:is_child" json:"is_child"`

	// Attending is nil until the guest responds.
	Attending       *bool      `gorm:"column:attending;index" json:"attending"`
	MealOptionID    *uuid.UUID `gorm:"type:uuid;index;column:meal_option_id" json:"meal_option_id,omitempty"`
	DessertOptionID *uuid.UUID `gorm:"type:uuid;index;column:dessert_option_id" json:"dessert_option_id,omitempty"`
	DietaryNotes    string     `gorm:"column:dietary_notes" json:"dietary_notes,omitempty"`
	RespondedAt     *time.Time `gorm:"column:responded_at" json:"responded_at,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Guest) TableName() string { return "guest" }

func (g *Guest) BeforeCreate(*gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// Responded reports whether an attendance decision is recorded.
func (g Guest) Responded() bool { return g.Attending != nil }
