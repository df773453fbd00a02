package guests

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MenuKind string

const (
	MenuKindMeal    MenuKind = "meal"
	MenuKindDessert MenuKind = "dessert"
)

func (k MenuKind) Valid() bool {
	return k == MenuKindMeal || k == MenuKindDessert
}

// MenuOption is a selectable meal or dessert. Position orders options of the
// same kind for display.
type MenuOption struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Kind          MenuKind       `gorm:"not null;index:idx_menu_option_kind_position,priority:1;column:kind" json:"kind"`
	Name          string         `gorm:"not null;column:name" json:"name"`
	Description   string         `gorm:"column:description" json:"description,omitempty"`
	IsChildOption bool           `gorm:"not null;default:false;column:is_child_option" json:"is_child_option"`
	Active        bool           `gorm:"not null;column:active" json:"active"`
	Position      int            `gorm:"not null;default:0;index:idx_menu_option_kind_position,priority:2;column:position" json:"position"`
	Metadata      datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (MenuOption) TableName() string { return "menu_option" }

func (o *MenuOption) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
