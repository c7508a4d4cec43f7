package models

import (
	"time"

	"github.com/lib/pq"
)

// FileSummary describes one stored attachment inline on its post. The file
// bytes themselves live on disk under the upload directory.
type FileSummary struct {
	ID       int64  `json:"id"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// Post IDs come from the "post" sequence, not from the database's own
// autoincrement, so autoIncrement is disabled on the primary key.
type Post struct {
	ID          int64          `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `json:"description"`
	Author      string         `gorm:"index;size:100" json:"author"` // user ID (email)
	AuthorName  string         `json:"author_name"`
	Keywords    pq.StringArray `gorm:"type:text[]" json:"keywords"`
	Files       []FileSummary  `gorm:"serializer:json" json:"files"`
	Rating      int            `gorm:"not null;default:0" json:"rating"`
	UploadTime  time.Time      `json:"upload_time"`
}

type CreatePostRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

type VoteRequest struct {
	Rating Direction `json:"rating" binding:"required"`
}
