package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/alexandria-archive/backend/internal/middleware"
	"github.com/alexandria-archive/backend/internal/models"
	"github.com/alexandria-archive/backend/internal/ratings"
	"github.com/alexandria-archive/backend/internal/sequence"
)

type PostHandler struct {
	db     *gorm.DB
	ids    *sequence.Allocator
	ledger *ratings.Ledger
}

func NewPostHandler(db *gorm.DB, ids *sequence.Allocator, ledger *ratings.Ledger) *PostHandler {
	return &PostHandler{db: db, ids: ids, ledger: ledger}
}

// GetPosts returns the most recent posts, newest first.
func (h *PostHandler) GetPosts(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		if n > 100 {
			n = 100
		}
		limit = n
	}

	var posts []models.Post
	if err := h.db.Order("upload_time desc, id desc").Limit(limit).Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch posts"})
		return
	}

	// If no posts, return empty array not null
	if posts == nil {
		posts = []models.Post{}
	}

	c.JSON(http.StatusOK, posts)
}

// GetPost returns a single post by ID
func (h *PostHandler) GetPost(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	var post models.Post
	if err := h.db.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// CreatePost creates a new post (PROTECTED - requires authentication)
func (h *PostHandler) CreatePost(c *gin.Context) {
	var input models.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString(middleware.UserIDKey)

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	postID, err := h.ids.Next(c.Request.Context(), "post")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to allocate post id"})
		return
	}

	post := models.Post{
		ID:          postID,
		Title:       input.Title,
		Description: input.Description,
		Author:      user.ID,
		AuthorName:  user.Username,
		Keywords:    input.Keywords,
		Files:       []models.FileSummary{},
		UploadTime:  time.Now().UTC(),
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		user.Summary = append(user.Summary, post.ID)
		user.LastUpload = post.UploadTime
		return tx.Model(&user).Select("summary", "last_upload").Updates(&user).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create post"})
		return
	}

	c.JSON(http.StatusCreated, post)
}

// VotePost records the caller's vote on a post and returns the post with
// its updated rating. Votes replace, they don't stack: re-casting the same
// direction is a no-op and "none" withdraws an earlier vote.
func (h *PostHandler) VotePost(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	var input models.VoteRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be 'up', 'down' or 'none'"})
		return
	}

	userID := c.GetString(middleware.UserIDKey)

	post, err := h.ledger.Apply(c.Request.Context(), userID, postID, input.Rating)
	switch {
	case errors.Is(err, ratings.ErrInvalidDirection):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, ratings.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record vote"})
		return
	}

	c.JSON(http.StatusOK, post)
}
