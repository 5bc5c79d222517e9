package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/recetario/backend/internal/apperror"
	"github.com/recetario/backend/internal/service"
)

type AuthHandler struct {
	auth   *service.AuthService
	logger *zap.Logger
}

func NewAuthHandler(auth *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// RegisterRoutes mounts the auth surface. The gate only guards /me.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup, gate gin.HandlerFunc) {
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	r.GET("/me", gate, h.Me)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, apperror.New(apperror.KindValidation, "Email y contraseña son requeridos"))
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, UserResponse{ID: user.ID.String(), Email: user.Email})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, apperror.New(apperror.KindValidation, "Email y contraseña son requeridos"))
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	// Frontend convention: the token also travels as an httpOnly
	// cookie, but the body remains authoritative.
	c.SetCookie("token", token, 3600, "/", "", false, true)
	c.JSON(http.StatusOK, TokenResponse{Token: token})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		respondError(c, h.logger, apperror.New(apperror.KindAuthentication, "No autorizado"))
		return
	}

	user, err := h.auth.Identity(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, UserResponse{ID: user.ID.String(), Email: user.Email})
}
