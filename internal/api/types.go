package api

import (
	"encoding/json"
	"fmt"
)

// CredentialsRequest is the register/login body. Field presence is
// validated by the auth service so the error messages stay uniform.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SearchRequest carries the ingredient list for recipe generation.
type SearchRequest struct {
	Ingredients []string `json:"ingredients"`
}

// RecipeID accepts the generator id either as the JSON number the
// generator emits or as its string form.
type RecipeID string

func (r *RecipeID) UnmarshalJSON(data []byte) error {
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*r = RecipeID(num.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = RecipeID(s)
		return nil
	}
	return fmt.Errorf("invalid recipe id")
}

// SaveRecipeRequest is the guardar body. Fields beyond id, title and
// image are accepted and ignored; the full recipe already lives in the
// shared cache.
type SaveRecipeRequest struct {
	Recipe *SavedRecipePayload `json:"recipe"`
}

// SavedRecipePayload is the subset of a generated recipe denormalized
// into the saved-recipe association.
type SavedRecipePayload struct {
	ID    RecipeID `json:"id"`
	Title string   `json:"title"`
	Image string   `json:"image"`
}

// DeleteRecipeRequest is the eliminar body.
type DeleteRecipeRequest struct {
	RecipeID RecipeID `json:"recipeId"`
}

// UserResponse is the identity shape returned by register and me.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// TokenResponse is the login success body.
type TokenResponse struct {
	Token string `json:"token"`
}

// SaveRecipeResponse acknowledges a stored association.
type SaveRecipeResponse struct {
	Message     string      `json:"message"`
	SavedRecipe interface{} `json:"savedRecipe"`
}
