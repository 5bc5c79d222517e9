package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/recetario/backend/internal/apperror"
	"github.com/recetario/backend/internal/service"
)

type RecipeHandler struct {
	recipes *service.RecipeService
	logger  *zap.Logger
}

func NewRecipeHandler(recipes *service.RecipeService, logger *zap.Logger) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, logger: logger}
}

// RegisterRoutes mounts the recipe surface. Search and detail are open;
// everything touching a user's collection goes through the gate.
func (h *RecipeHandler) RegisterRoutes(r *gin.RouterGroup, gate gin.HandlerFunc) {
	r.POST("/buscar", h.Search)
	r.POST("/guardar", gate, h.Save)
	r.GET("/todas", gate, h.ListAll)
	r.GET("/usuario/:userId", gate, h.ListForUser)
	r.GET("/:id", h.Detail)
	r.DELETE("/eliminar", gate, h.Delete)
}

func (h *RecipeHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, apperror.New(apperror.KindValidation, "ingredients es requerido"))
		return
	}

	recipes, err := h.recipes.Search(c.Request.Context(), req.Ingredients)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, recipes)
}

func (h *RecipeHandler) Save(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		respondError(c, h.logger, apperror.New(apperror.KindAuthentication, "No autorizado - Sin userId"))
		return
	}

	var req SaveRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Recipe == nil {
		respondError(c, h.logger, apperror.New(apperror.KindValidation, "Recipe es requerido"))
		return
	}

	id := string(req.Recipe.ID)
	if id == "" || id == "0" {
		respondError(c, h.logger, apperror.New(apperror.KindValidation, "Recipe es requerido"))
		return
	}

	saved, err := h.recipes.Save(c.Request.Context(), userID, id, req.Recipe.Title, req.Recipe.Image)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, SaveRecipeResponse{
		Message:     "Receta guardada exitosamente",
		SavedRecipe: saved,
	})
}

func (h *RecipeHandler) ListAll(c *gin.Context) {
	rows, err := h.recipes.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

func (h *RecipeHandler) ListForUser(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		respondError(c, h.logger, apperror.New(apperror.KindAuthentication, "No autorizado"))
		return
	}

	saved, err := h.recipes.ListForUser(c.Request.Context(), userID, c.Param("userId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, saved)
}

func (h *RecipeHandler) Detail(c *gin.Context) {
	recipe, err := h.recipes.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		respondError(c, h.logger, apperror.New(apperror.KindAuthentication, "No autorizado"))
		return
	}

	var req DeleteRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, apperror.New(apperror.KindValidation, "recipeId es requerido"))
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), userID, string(req.RecipeID)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Receta eliminada correctamente"})
}
