package handlers

import (
	"gorm.io/gorm"

	"github.com/alexandria-archive/backend/internal/auth"
	"github.com/alexandria-archive/backend/internal/notify"
	"github.com/alexandria-archive/backend/internal/ratings"
	"github.com/alexandria-archive/backend/internal/sequence"
)

// Handler combines all handler types
type Handler struct {
	Auth *AuthHandler
	Post *PostHandler
	File *FileHandler
}

// NewHandler creates a unified handler with all sub-handlers. Dependencies
// are constructed once here and shared; there is no ambient global state.
func NewHandler(db *gorm.DB, tokens *auth.Service, notifier *notify.SMSNotifier, uploadDir string) *Handler {
	ids := sequence.NewAllocator(db)

	return &Handler{
		Auth: NewAuthHandler(db, tokens, notifier),
		Post: NewPostHandler(db, ids, ratings.NewLedger(db)),
		File: NewFileHandler(db, ids, uploadDir),
	}
}
