package service

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/recetario/backend/internal/apperror"
	"github.com/recetario/backend/internal/models"
)

// Generator produces recipe suggestions for an ingredient list.
type Generator interface {
	Generate(ctx context.Context, ingredients []string) ([]GeneratedRecipe, error)
}

// SavedRecipeWithOwner is one row of the administrative listing: a
// saved recipe joined with the owning user's email.
type SavedRecipeWithOwner struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	RecipeID  string    `json:"recipeId"`
	Title     string    `json:"title"`
	Image     string    `json:"image"`
	UserEmail string    `gorm:"column:user_email" json:"userEmail"`
}

// RecipeService orchestrates generation, the shared recipe cache and
// each user's saved-recipe collection.
type RecipeService struct {
	db        *gorm.DB
	generator Generator
	logger    *zap.Logger
}

func NewRecipeService(db *gorm.DB, generator Generator, logger *zap.Logger) *RecipeService {
	return &RecipeService{
		db:        db,
		generator: generator,
		logger:    logger,
	}
}

// Search generates recipes for the ingredients and refreshes the shared
// cache with each result. The upserts run concurrently and
// independently: one failure is logged and skipped, never propagated,
// and the caller always receives the generator's original output when
// generation itself succeeded.
func (s *RecipeService) Search(ctx context.Context, ingredients []string) ([]GeneratedRecipe, error) {
	recipes, err := s.generator.Generate(ctx, ingredients)
	if err != nil {
		return nil, err
	}

	var wg sync.WaitGroup
	for _, recipe := range recipes {
		if recipe.ID == 0 {
			// No usable cache key; still returned to the caller.
			s.logger.Warn("skipping recipe without generator id", zap.String("title", recipe.Title))
			continue
		}
		wg.Add(1)
		go func(rec GeneratedRecipe) {
			defer wg.Done()
			if err := s.upsertRecipe(ctx, rec); err != nil {
				s.logger.Warn("failed to cache generated recipe",
					zap.String("title", rec.Title),
					zap.Int("generator_id", rec.ID),
					zap.Error(err))
			}
		}(recipe)
	}
	wg.Wait()

	return recipes, nil
}

func (s *RecipeService) upsertRecipe(ctx context.Context, rec GeneratedRecipe) error {
	row := models.Recipe{
		GeneratorID:        strconv.Itoa(rec.ID),
		Title:              rec.Title,
		Description:        rec.Description,
		Image:              rec.Image,
		ReadyInMinutes:     rec.ReadyInMinutes,
		Type:               rec.Type,
		Ingredients:        models.JSONBStringArray(rec.Ingredients),
		IngredientMeasures: models.JSONBMeasures(rec.IngredientMeasures),
		Instructions:       models.JSONBStringArray(rec.Instructions),
	}

	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "generator_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "description", "image", "ready_in_minutes", "type",
			"ingredients", "ingredient_measures", "instructions", "updated_at",
		}),
	}).Create(&row).Error
}

// Save upserts the (user, recipe) association, refreshing title and
// image when the pair already exists.
func (s *RecipeService) Save(ctx context.Context, userID uuid.UUID, recipeID, title, image string) (*models.SavedRecipe, error) {
	if userID == uuid.Nil {
		return nil, apperror.New(apperror.KindAuthentication, "No autorizado - Sin userId")
	}
	if recipeID == "" {
		return nil, apperror.New(apperror.KindValidation, "Recipe es requerido")
	}

	row := models.SavedRecipe{
		UserID:   userID,
		RecipeID: recipeID,
		Title:    title,
		Image:    image,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "image", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		s.logger.Error("failed to save recipe", zap.Error(err))
		return nil, apperror.Wrap(apperror.KindInternal, "Error al guardar la receta", err)
	}

	// The conflict path keeps the original row id; read it back so the
	// caller sees the stored association.
	var stored models.SavedRecipe
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&stored).Error; err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "Error al guardar la receta", err)
	}

	return &stored, nil
}

// ListForUser returns every saved recipe of targetUserID. Callers may
// only list their own collection.
func (s *RecipeService) ListForUser(ctx context.Context, requestingUserID uuid.UUID, targetUserID string) ([]models.SavedRecipe, error) {
	if targetUserID != requestingUserID.String() {
		return nil, apperror.New(apperror.KindAuthorization, "No autorizado")
	}

	userID, err := uuid.Parse(targetUserID)
	if err != nil {
		return nil, apperror.New(apperror.KindValidation, "userId inválido")
	}

	var saved []models.SavedRecipe
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&saved).Error; err != nil {
		s.logger.Error("failed to list saved recipes", zap.Error(err))
		return nil, apperror.Wrap(apperror.KindInternal, "Error al obtener las recetas", err)
	}
	return saved, nil
}

// Delete removes all matching (user, recipe) associations. Deleting a
// pair that never existed is still a success.
func (s *RecipeService) Delete(ctx context.Context, userID uuid.UUID, recipeID string) error {
	if userID == uuid.Nil {
		return apperror.New(apperror.KindAuthentication, "No autorizado")
	}

	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.SavedRecipe{}).Error; err != nil {
		s.logger.Error("failed to delete saved recipe", zap.Error(err))
		return apperror.Wrap(apperror.KindInternal, "Error al eliminar la receta", err)
	}
	return nil
}

// ListAll returns every saved recipe across all users with the owner's
// email. There is no ownership filter; the route guarding this is
// privileged.
func (s *RecipeService) ListAll(ctx context.Context) ([]SavedRecipeWithOwner, error) {
	var rows []SavedRecipeWithOwner
	err := s.db.WithContext(ctx).Model(&models.SavedRecipe{}).
		Select("saved_recipes.id, saved_recipes.user_id, saved_recipes.recipe_id, saved_recipes.title, saved_recipes.image, users.email AS user_email").
		Joins("JOIN users ON users.id = saved_recipes.user_id").
		Scan(&rows).Error
	if err != nil {
		s.logger.Error("failed to list all saved recipes", zap.Error(err))
		return nil, apperror.Wrap(apperror.KindInternal, "Error al obtener todas las recetas", err)
	}
	return rows, nil
}

// Detail looks up a cached recipe by its generator id.
func (s *RecipeService) Detail(ctx context.Context, recipeID string) (*models.Recipe, error) {
	if recipeID == "" {
		return nil, apperror.New(apperror.KindValidation, "ID de receta inválido")
	}

	var recipe models.Recipe
	if err := s.db.WithContext(ctx).Where("generator_id = ?", recipeID).First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.KindNotFound, "Receta no encontrada")
		}
		s.logger.Error("failed to fetch recipe detail", zap.Error(err))
		return nil, apperror.Wrap(apperror.KindInternal, "Error al obtener detalles de la receta", err)
	}
	return &recipe, nil
}
