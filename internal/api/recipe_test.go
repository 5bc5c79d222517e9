package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const providerReply = `[
  {
    "id": 101,
    "title": "Pollo al horno",
    "description": "Pollo jugoso",
    "image": "https://images.pexels.com/search/pollo/",
    "readyInMinutes": 45,
    "type": "main course",
    "ingredients": ["2 pechugas de pollo"],
    "ingredientMeasures": [{"name": "pechuga de pollo", "amount": 2, "unit": "piezas"}],
    "instructions": ["Precalentar", "Hornear"]
  },
  {"id": 102, "title": "Sopa de cebolla", "type": "soup"}
]`

func TestBuscarGeneratesAndCaches(t *testing.T) {
	provider := stubProvider(t, providerReply)
	router, _ := setupRouter(t, provider.URL)

	w := doJSON(t, router, "POST", "/recipes/buscar", map[string][]string{
		"ingredients": {"pollo", "cebolla"},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var recipes []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recipes))
	require.Len(t, recipes, 2)
	assert.Equal(t, "Pollo al horno", recipes[0]["title"])

	// Generated recipes land in the shared cache.
	w = doJSON(t, router, "GET", "/recipes/101", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var detail map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, "101", detail["id"])
	assert.Equal(t, "Pollo al horno", detail["title"])
	assert.Equal(t, float64(45), detail["readyInMinutes"])
}

func TestBuscarProviderFailure(t *testing.T) {
	provider := stubProvider(t, "no soy JSON")
	router, _ := setupRouter(t, provider.URL)

	w := doJSON(t, router, "POST", "/recipes/buscar", map[string][]string{
		"ingredients": {"pollo"},
	}, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestDetailUnknownRecipe(t *testing.T) {
	router, _ := setupRouter(t, "")

	w := doJSON(t, router, "GET", "/recipes/999", nil, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Receta no encontrada")
}

func TestGuardarRequiresAuth(t *testing.T) {
	router, _ := setupRouter(t, "")

	w := doJSON(t, router, "POST", "/recipes/guardar", map[string]interface{}{
		"recipe": map[string]interface{}{"id": 101, "title": "Pollo"},
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGuardarValidation(t *testing.T) {
	router, _ := setupRouter(t, "")
	_, token := registerAndLogin(t, router, "a@b.com", "secret1")
	auth := map[string]string{"Authorization": "Bearer " + token}

	w := doJSON(t, router, "POST", "/recipes/guardar", map[string]interface{}{}, auth)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Recipe es requerido")

	w = doJSON(t, router, "POST", "/recipes/guardar", map[string]interface{}{
		"recipe": map[string]interface{}{"title": "sin id"},
	}, auth)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSavedRecipeFlow(t *testing.T) {
	router, _ := setupRouter(t, "")
	userID, token := registerAndLogin(t, router, "a@b.com", "secret1")
	auth := map[string]string{"Authorization": "Bearer " + token}

	// Save accepts the generator's numeric id.
	w := doJSON(t, router, "POST", "/recipes/guardar", map[string]interface{}{
		"recipe": map[string]interface{}{
			"id":    101,
			"title": "Pollo al horno",
			"image": "https://images.pexels.com/search/pollo/",
		},
	}, auth)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var saveResp struct {
		Message     string `json:"message"`
		SavedRecipe struct {
			ID       string `json:"id"`
			UserID   string `json:"userId"`
			RecipeID string `json:"recipeId"`
			Title    string `json:"title"`
			Image    string `json:"image"`
		} `json:"savedRecipe"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saveResp))
	assert.Equal(t, "Receta guardada exitosamente", saveResp.Message)
	assert.Equal(t, userID, saveResp.SavedRecipe.UserID)
	assert.Equal(t, "101", saveResp.SavedRecipe.RecipeID)

	// Listing the own collection returns the saved entry.
	w = doJSON(t, router, "GET", "/recipes/usuario/"+userID, nil, auth)
	require.Equal(t, http.StatusOK, w.Code)

	var list []struct {
		RecipeID string `json:"recipeId"`
		Title    string `json:"title"`
		Image    string `json:"image"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "101", list[0].RecipeID)
	assert.Equal(t, "Pollo al horno", list[0].Title)
	assert.Equal(t, "https://images.pexels.com/search/pollo/", list[0].Image)

	// Another caller may not list this collection.
	_, otherToken := registerAndLogin(t, router, "e@b.com", "secret2")
	w = doJSON(t, router, "GET", "/recipes/usuario/"+userID, nil, map[string]string{
		"Authorization": "Bearer " + otherToken,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The privileged listing carries the owner's email.
	w = doJSON(t, router, "GET", "/recipes/todas", nil, auth)
	require.Equal(t, http.StatusOK, w.Code)

	var all []struct {
		RecipeID  string `json:"recipeId"`
		UserEmail string `json:"userEmail"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	require.Len(t, all, 1)
	assert.Equal(t, "a@b.com", all[0].UserEmail)

	// Delete is idempotent.
	w = doJSON(t, router, "DELETE", "/recipes/eliminar", map[string]interface{}{"recipeId": 101}, auth)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Receta eliminada correctamente")

	w = doJSON(t, router, "DELETE", "/recipes/eliminar", map[string]interface{}{"recipeId": 101}, auth)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "GET", "/recipes/usuario/"+userID, nil, auth)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Empty(t, list)
}

func TestGuardarUpsertsOnRepeat(t *testing.T) {
	router, _ := setupRouter(t, "")
	userID, token := registerAndLogin(t, router, "a@b.com", "secret1")
	auth := map[string]string{"Authorization": "Bearer " + token}

	for _, title := range []string{"Pollo", "Pollo al horno"} {
		w := doJSON(t, router, "POST", "/recipes/guardar", map[string]interface{}{
			"recipe": map[string]interface{}{"id": "101", "title": title},
		}, auth)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, router, "GET", "/recipes/usuario/"+userID, nil, auth)
	require.Equal(t, http.StatusOK, w.Code)

	var list []struct {
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Pollo al horno", list[0].Title)
}
