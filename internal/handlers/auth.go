package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/alexandria-archive/backend/internal/auth"
	"github.com/alexandria-archive/backend/internal/middleware"
	"github.com/alexandria-archive/backend/internal/models"
	"github.com/alexandria-archive/backend/internal/notify"
)

type AuthHandler struct {
	db       *gorm.DB
	tokens   *auth.Service
	notifier *notify.SMSNotifier // nil when SMS is not configured
}

func NewAuthHandler(db *gorm.DB, tokens *auth.Service, notifier *notify.SMSNotifier) *AuthHandler {
	return &AuthHandler{db: db, tokens: tokens, notifier: notifier}
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var input models.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The email is the user's primary key; a second registration with the
	// same email is a conflict, not an update.
	var existing models.User
	if err := h.db.First(&existing, "id = ?", input.Email).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "user already exists"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           input.Email,
		Username:     input.Username,
		PasswordHash: string(hashedPassword),
		Phone:        input.Phone,
		LastUpload:   now,
		RegisterDate: now,
	}

	if err := h.db.Create(&user).Error; err != nil {
		// The pre-check above can lose a race with a concurrent
		// registration; the primary key still catches the duplicate here.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "user already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	if h.notifier != nil && user.Phone != "" {
		go func(phone, username string) {
			if err := h.notifier.Send(phone, "Welcome to Alexandria, "+username+"!"); err != nil {
				log.Printf("welcome sms failed: %v", err)
			}
		}(user.Phone, user.Username)
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "user registered successfully",
		"token":   token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
		},
	})
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", input.Email).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "login successful",
		"token":   token,
		"user": gin.H{
			"id":            user.ID,
			"username":      user.Username,
			"summary":       user.Summary,
			"register_date": user.RegisterDate,
		},
	})
}

// RefreshToken re-issues a token for the already-authenticated subject.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	token, err := h.tokens.Issue(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// GetMe returns the current authenticated user
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var user models.User
	if err := h.db.Preload("Rated").First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}
