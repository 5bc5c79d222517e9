package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recetario/backend/internal/apperror"
	"github.com/recetario/backend/internal/middleware"
	"github.com/recetario/backend/internal/types"
)

type stubValidator struct {
	userID uuid.UUID
	err    error
}

func (s *stubValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	if s.err != nil {
		return nil, s.err
	}
	if token != "good-token" {
		return nil, apperror.New(apperror.KindAuthentication, "Token inválido")
	}
	return &types.TokenClaims{UserID: s.userID}, nil
}

func setupGate(v middleware.TokenValidator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/guarded", middleware.AuthMiddleware(v), func(c *gin.Context) {
		id := c.MustGet(middleware.UserIDKey).(uuid.UUID)
		c.JSON(http.StatusOK, gin.H{"userId": id.String()})
	})
	return router
}

func TestAuthMiddlewareHeaderToken(t *testing.T) {
	userID := uuid.New()
	router := setupGate(&stubValidator{userID: userID})

	req := httptest.NewRequest("GET", "/guarded", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
}

func TestAuthMiddlewareCookieFallback(t *testing.T) {
	userID := uuid.New()
	router := setupGate(&stubValidator{userID: userID})

	req := httptest.NewRequest("GET", "/guarded", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "good-token"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddlewareMalformedHeaderIgnoresCookie(t *testing.T) {
	router := setupGate(&stubValidator{userID: uuid.New()})

	// A malformed header rejects immediately even with a valid cookie.
	req := httptest.NewRequest("GET", "/guarded", nil)
	req.Header.Set("Authorization", "Token abc def")
	req.AddCookie(&http.Cookie{Name: "token", Value: "good-token"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Formato inválido")
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	router := setupGate(&stubValidator{userID: uuid.New()})

	req := httptest.NewRequest("GET", "/guarded", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Sin token")
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	router := setupGate(&stubValidator{userID: uuid.New()})

	req := httptest.NewRequest("GET", "/guarded", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareUnconfiguredSecret(t *testing.T) {
	router := setupGate(&stubValidator{
		err: apperror.New(apperror.KindConfiguration, "Configuración del servidor incompleta"),
	})

	req := httptest.NewRequest("GET", "/guarded", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
