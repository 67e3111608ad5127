package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"termimage/backend/internal/auth"
	"termimage/backend/internal/logger"
	"termimage/backend/internal/models"
	"termimage/backend/pkg/jwt"
)

// RegisterInput defines the structure for user registration.
type RegisterInput struct {
	Login    string `json:"login" binding:"required" example:"editor"`
	Email    string `json:"email" binding:"required,email" example:"editor@example.com"`
	Password string `json:"password" binding:"required,min=8" example:"password123"`
}

// LoginInput defines the structure for user login.
type LoginInput struct {
	Login    string `json:"login" binding:"required" example:"editor"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// TokenResponse carries a session token.
type TokenResponse struct {
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIs..."`
}

// AuthHandler registers and signs in users.
type AuthHandler struct {
	db     *gorm.DB
	tokens *jwt.Manager
	log    *logrus.Entry
}

func NewAuthHandler(db *gorm.DB, tokens *jwt.Manager, log *logrus.Entry) *AuthHandler {
	return &AuthHandler{db: db, tokens: tokens, log: log}
}

// RegisterUser godoc
// @Summary      Register a new user
// @Description  Creates a new user and returns an authentication token. The first account becomes an admin.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Registration Info"
// @Success      201  {object}  TokenResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) RegisterUser(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	db := h.db.WithContext(c.Request.Context())

	var existingUser models.User
	err := db.Where("login = ? OR email = ?", input.Login, input.Email).First(&existingUser).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Login or email already exists"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.FromContext(c, h.log).WithError(err).Error("failed to look up user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	var users int64
	if err := db.Model(&models.User{}).Count(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}
	role := "user"
	if users == 0 {
		role = "admin"
	}

	user := models.User{
		Login:        input.Login,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}
	if err := db.Create(&user).Error; err != nil {
		logger.FromContext(c, h.log).WithError(err).Error("failed to create user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	h.respondWithToken(c, http.StatusCreated, user.ID)
}

// LoginUser godoc
// @Summary      Log in a user
// @Description  Authenticates a user with login/email and password, and returns a new token. The token is also set as a cookie for the admin screens.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  TokenResponse
// @Failure      400  {object}  ErrorResponse "Invalid input"
// @Failure      401  {object}  ErrorResponse "Invalid credentials"
// @Failure      500  {object}  ErrorResponse "Internal server error"
// @Router       /auth/login [post]
func (h *AuthHandler) LoginUser(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	err := h.db.WithContext(c.Request.Context()).
		Where("login = ? OR email = ?", input.Login, input.Login).
		First(&user).Error
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	h.respondWithToken(c, http.StatusOK, user.ID)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, userID uint) {
	token, err := h.tokens.GenerateToken(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.TokenCookie, token, int(h.tokens.TokenTTL().Seconds()), "/", "", c.Request.TLS != nil, true)
	c.JSON(status, TokenResponse{Token: token})
}
