package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// IngredientMeasure is one structured quantity of the generated recipe.
type IngredientMeasure struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// JSONBMeasures stores the ordered ingredient measures as JSONB.
type JSONBMeasures []IngredientMeasure

// Value implements the driver.Valuer interface
func (m JSONBMeasures) Value() (driver.Value, error) {
	if len(m) == 0 {
		return "[]", nil
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface
func (m *JSONBMeasures) Scan(value interface{}) error {
	if value == nil {
		*m = JSONBMeasures{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, m)
}

// Recipe is a cached generated recipe keyed by the generator-assigned
// id. At most one row per GeneratorID: re-generation overwrites the
// displayed fields in place. Rows are shared across all users.
type Recipe struct {
	ID                 uuid.UUID        `gorm:"type:varchar(36);primarykey" json:"-"`
	GeneratorID        string           `gorm:"uniqueIndex;not null" json:"id"`
	Title              string           `gorm:"size:255;not null" json:"title"`
	Description        string           `gorm:"type:text" json:"description"`
	Image              string           `gorm:"size:255" json:"image"`
	ReadyInMinutes     int              `json:"readyInMinutes"`
	Type               string           `gorm:"size:50" json:"type"`
	Ingredients        JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	IngredientMeasures JSONBMeasures    `gorm:"type:jsonb;not null;default:'[]'" json:"ingredientMeasures"`
	Instructions       JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"instructions"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
