package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"stocksnap/middleware"
	"stocksnap/models"
	"stocksnap/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testSecret = []byte("test-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

// memoryRefreshStore stands in for the Redis-backed store in tests.
type memoryRefreshStore struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newMemoryRefreshStore() *memoryRefreshStore {
	return &memoryRefreshStore{tokens: make(map[string]string)}
}

func (s *memoryRefreshStore) Save(_ context.Context, token, email string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = email
	return nil
}

func (s *memoryRefreshStore) Email(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.tokens[token]
	if !ok {
		return "", storage.ErrTokenNotFound
	}
	return email, nil
}

func (s *memoryRefreshStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared in-memory database so every pooled connection sees the
	// same data.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Stock{}))
	return db
}

type testApp struct {
	router    *gin.Engine
	db        *gorm.DB
	uploadDir string
}

// newTestApp wires the handlers exactly as main does, against an in-memory
// database and refresh store.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db := newTestDB(t)
	uploadDir := t.TempDir()

	auth := &AuthHandler{
		DB:         db,
		Refresh:    newMemoryRefreshStore(),
		Secret:     testSecret,
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}
	users := &UserHandler{DB: db, UploadDir: uploadDir}
	stocks := &StockHandler{DB: db}

	router := gin.New()
	router.POST("/register", auth.Register)
	router.POST("/login", auth.Login)
	router.POST("/refresh", auth.RefreshToken)
	router.GET("/images/:filename", users.ServeImage)

	protected := router.Group("/")
	protected.Use(middleware.RequireAuth(testSecret))
	{
		protected.GET("/user", users.Profile)
		protected.PUT("/user", users.UploadImage)
		protected.DELETE("/user", users.DeleteImage)
		protected.GET("/stocks", stocks.List)
		protected.POST("/stocks", stocks.Create)
		protected.PUT("/stocks/:id", stocks.Update)
		protected.DELETE("/stocks/:id", stocks.Delete)
	}

	return &testApp{router: router, db: db, uploadDir: uploadDir}
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func (a *testApp) register(t *testing.T, username, email, password string) {
	t.Helper()

	rr := a.do(t, http.MethodPost, "/register", "", gin.H{
		"username": username,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
}

func (a *testApp) login(t *testing.T, email, password string) (access, refresh string) {
	t.Helper()

	rr := a.do(t, http.MethodPost, "/login", "", gin.H{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	return resp.AccessToken, resp.RefreshToken
}
