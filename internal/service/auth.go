package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/recetario/backend/internal/apperror"
	"github.com/recetario/backend/internal/models"
	"github.com/recetario/backend/internal/types"
)

const tokenTTL = time.Hour

// AuthService registers users, authenticates them and issues signed
// tokens.
type AuthService struct {
	db        *gorm.DB
	jwtSecret string
	logger    *zap.Logger
}

func NewAuthService(db *gorm.DB, jwtSecret string, logger *zap.Logger) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// Register creates a user with a bcrypt-hashed password. The display
// name is the email local-part. Email uniqueness is enforced by the
// store; a duplicate surfaces as a conflict, never an overwrite.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, apperror.New(apperror.KindValidation, "Email y contraseña son requeridos")
	}
	if len(password) < 6 {
		return nil, apperror.New(apperror.KindValidation, "La contraseña debe tener al menos 6 caracteres")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "Error al registrar el usuario", err)
	}

	user := models.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Name:         strings.SplitN(email, "@", 2)[0],
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.logger.Warn("registration with existing email", zap.String("email", email))
			return nil, apperror.New(apperror.KindConflict, "Este email ya está registrado")
		}
		s.logger.Error("failed to create user", zap.Error(err))
		return nil, apperror.Wrap(apperror.KindInternal, "Error al registrar el usuario", err)
	}

	s.logger.Info("user registered", zap.String("email", email), zap.String("user_id", user.ID.String()))
	return &user, nil
}

// Login verifies the credentials and issues a signed, time-limited
// token. Unknown email and wrong password return the same error so the
// response does not reveal whether the account exists.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", apperror.New(apperror.KindValidation, "Email y contraseña son requeridos")
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return "", apperror.New(apperror.KindAuthentication, "Credenciales inválidas")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apperror.New(apperror.KindAuthentication, "Credenciales inválidas")
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return "", err
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID.String()))
	return token, nil
}

// Identity fetches the user a token was issued for.
func (s *AuthService) Identity(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.KindNotFound, "Usuario no encontrado")
		}
		return nil, apperror.Wrap(apperror.KindInternal, "Error al obtener el usuario", err)
	}
	return &user, nil
}

func (s *AuthService) generateToken(userID uuid.UUID) (string, error) {
	if s.jwtSecret == "" {
		return "", apperror.New(apperror.KindConfiguration, "Configuración del servidor incompleta")
	}

	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", apperror.Wrap(apperror.KindInternal, "Error al iniciar sesión", err)
	}
	return signed, nil
}

// ValidateToken checks signature and expiry and returns the embedded
// claims.
func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	if s.jwtSecret == "" {
		return nil, apperror.New(apperror.KindConfiguration, "Configuración del servidor incompleta")
	}

	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, apperror.New(apperror.KindAuthentication, "Token inválido")
	}

	if claims.UserID == uuid.Nil {
		return nil, apperror.New(apperror.KindAuthentication, "Token inválido")
	}

	return claims, nil
}
