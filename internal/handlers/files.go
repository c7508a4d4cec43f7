package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/alexandria-archive/backend/internal/models"
	"github.com/alexandria-archive/backend/internal/sequence"
)

type FileHandler struct {
	db   *gorm.DB
	ids  *sequence.Allocator
	root string // upload directory
}

func NewFileHandler(db *gorm.DB, ids *sequence.Allocator, root string) *FileHandler {
	return &FileHandler{db: db, ids: ids, root: root}
}

// sanitizeFilename strips any path components so uploads can't escape the
// post's directory.
func sanitizeFilename(name string) string {
	base := filepath.Base(filepath.Clean(name))
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return ""
	}
	return base
}

// Upload stores each part of a multipart request under the post's upload
// directory and appends a summary (id, filename, size) inline on the post.
// Each stored file gets an ID from the "file" sequence.
func (h *FileHandler) Upload(c *gin.Context) {
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

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart request"})
		return
	}

	postDir := filepath.Join(h.root, strconv.FormatInt(postID, 10))
	if err := os.MkdirAll(postDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create upload directory"})
		return
	}

	var uploaded []string
	var added []models.FileSummary
	hadErrors := false

	for _, headers := range form.File {
		for _, fh := range headers {
			name := sanitizeFilename(fh.Filename)
			if name == "" {
				continue
			}

			if err := c.SaveUploadedFile(fh, filepath.Join(postDir, name)); err != nil {
				hadErrors = true
				continue
			}

			fileID, err := h.ids.Next(c.Request.Context(), "file")
			if err != nil {
				hadErrors = true
				continue
			}

			added = append(added, models.FileSummary{
				ID:       fileID,
				Filename: name,
				Size:     fh.Size,
			})
			uploaded = append(uploaded, name)
		}
	}

	if len(added) > 0 {
		// Append under a row lock so simultaneous uploads to the same
		// post can't overwrite each other's summaries.
		err := h.db.Transaction(func(tx *gorm.DB) error {
			var current models.Post
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&current, postID).Error; err != nil {
				return err
			}
			current.Files = append(current.Files, added...)
			return tx.Model(&current).Update("files", current.Files).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update post"})
			return
		}
	}

	message := "files uploaded successfully"
	switch {
	case hadErrors:
		message = "some files failed to upload"
	case len(uploaded) == 0:
		message = "no files were uploaded"
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    !hadErrors && len(uploaded) > 0,
		"message":    message,
		"file_paths": uploaded,
	})
}

// Download streams a single stored attachment.
func (h *FileHandler) Download(c *gin.Context) {
	postID := c.Param("id")
	if _, err := strconv.ParseInt(postID, 10, 64); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	filename := sanitizeFilename(c.Param("filename"))
	if filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filename"})
		return
	}

	path := filepath.Join(h.root, postID, filename)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}

	c.FileAttachment(path, filename)
}

// List returns the names of the files stored for a post.
func (h *FileHandler) List(c *gin.Context) {
	postID := c.Param("id")
	if _, err := strconv.ParseInt(postID, 10, 64); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	entries, err := os.ReadDir(filepath.Join(h.root, postID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post directory not found"})
		return
	}

	files := []string{}
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry.Name())
		}
	}

	c.JSON(http.StatusOK, files)
}
