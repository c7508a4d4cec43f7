package models

import (
	"time"

	"github.com/lib/pq"
)

// User is keyed by email; the email doubles as the token subject.
type User struct {
	ID           string        `gorm:"primaryKey;size:100" json:"id"` // email
	Username     string        `gorm:"not null" json:"username"`
	PasswordHash string        `gorm:"not null" json:"-"`
	Phone        string        `json:"-"` // optional, for SMS notifications
	Summary      pq.Int64Array `gorm:"type:bigint[]" json:"summary"` // IDs of authored posts
	Rated        []RatedPost   `gorm:"foreignKey:UserID" json:"rated,omitempty"`
	LastUpload   time.Time     `json:"last_upload"`
	RegisterDate time.Time     `json:"register_date"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
