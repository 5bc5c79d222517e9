package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SavedRecipe associates a user with a generated recipe id, carrying
// title and image for display without another lookup. The (UserID,
// RecipeID) pair is unique: saving the same recipe twice refreshes the
// denormalized fields instead of inserting a duplicate.
type SavedRecipe struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_saved_user_recipe" json:"userId"`
	RecipeID  string    `gorm:"not null;uniqueIndex:idx_saved_user_recipe" json:"recipeId"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Image     string    `gorm:"size:255" json:"image"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
}

func (s *SavedRecipe) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
