package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/alexandria-archive/backend/internal/auth"
	"github.com/alexandria-archive/backend/internal/handlers"
	"github.com/alexandria-archive/backend/internal/middleware"
	"github.com/alexandria-archive/backend/internal/models"
	"github.com/alexandria-archive/backend/internal/testdb"
)

const testSecret = "test-secret"

// newTestRouter wires the handlers onto a router the same way the server
// does, minus CORS, metrics and rate limiting.
func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB, *auth.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testdb.New(t)
	tokens := auth.NewService(testSecret)
	h := handlers.NewHandler(db, tokens, nil, t.TempDir())

	r := gin.New()
	api := r.Group("/api")
	api.POST("/register", h.Auth.Register)
	api.POST("/login", h.Auth.Login)
	api.GET("/posts", h.Post.GetPosts)
	api.GET("/posts/:id", h.Post.GetPost)
	api.GET("/posts/:id/files", h.File.List)
	api.GET("/posts/:id/files/:filename", h.File.Download)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(tokens))
	protected.GET("/me", h.Auth.GetMe)
	protected.PUT("/token", h.Auth.RefreshToken)
	protected.POST("/posts", h.Post.CreatePost)
	protected.POST("/posts/:id/vote", h.Post.VotePost)
	protected.POST("/posts/:id/files", h.File.Upload)

	return r, db, tokens
}

func seedUser(t *testing.T, db *gorm.DB, email, username string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{
		ID:           email,
		Username:     username,
		PasswordHash: string(hash),
		LastUpload:   time.Now().UTC(),
		RegisterDate: time.Now().UTC(),
	}).Error)
}

func bearerFor(t *testing.T, tokens *auth.Service, subject string) string {
	t.Helper()
	token, err := tokens.Issue(subject)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(r *gin.Engine, method, path, authorization string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
