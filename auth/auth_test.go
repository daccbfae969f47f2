package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopyard/storefront-api/auth"
	"github.com/shopyard/storefront-api/config"
	"github.com/shopyard/storefront-api/models"
	"github.com/shopyard/storefront-api/routes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func setupAPI(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Category{}, &models.Product{},
		&models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{},
	))

	r := gin.New()
	routes.SetupRoutes(r, db, nil, &config.Config{JWTSecret: testSecret, TokenTTL: time.Hour})
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func register(t *testing.T, r *gin.Engine, name, email, password string) auth.AuthResponse {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "",
		gin.H{"name": name, "email": email, "password": password})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp auth.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRegisterLoginMe(t *testing.T) {
	r, _ := setupAPI(t)

	resp := register(t, r, "Ada", "ada@example.com", "hunter22")
	assert.NotEmpty(t, resp.ID)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.RoleUser, resp.Role)
	assert.Equal(t, models.StatusActive, resp.Status)

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "",
		gin.H{"email": "ada@example.com", "password": "hunter22"})
	require.Equal(t, http.StatusOK, w.Code)

	var login auth.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	w = doJSON(t, r, http.MethodGet, "/api/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var me models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "ada@example.com", me.Email)
}

func TestRegisterValidation(t *testing.T) {
	r, _ := setupAPI(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "",
		gin.H{"name": "NoEmail", "password": "hunter22"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/register", "",
		gin.H{"name": "Bad", "email": "not-an-email", "password": "hunter22"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email address")

	w = doJSON(t, r, http.MethodPost, "/api/auth/register", "",
		gin.H{"name": "Short", "email": "short@example.com", "password": "abc"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r, _ := setupAPI(t)
	register(t, r, "Ada", "dup@example.com", "hunter22")

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "",
		gin.H{"name": "Again", "email": "dup@example.com", "password": "hunter22"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Email already registered")
}

func TestLoginInvalidCredentials(t *testing.T) {
	r, _ := setupAPI(t)
	register(t, r, "Ada", "ada@example.com", "hunter22")

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "",
		gin.H{"email": "ada@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "",
		gin.H{"email": "ghost@example.com", "password": "hunter22"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginInactiveAccount(t *testing.T) {
	r, db := setupAPI(t)
	resp := register(t, r, "Ada", "inactive@example.com", "hunter22")

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", resp.ID).
		Update("status", models.StatusInactive).Error)

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "",
		gin.H{"email": "inactive@example.com", "password": "hunter22"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "inactive")
}

func TestTokenRoundTrip(t *testing.T) {
	user := models.User{ID: "u-1", Role: models.RoleAdmin}

	token, err := auth.IssueToken(user, testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := auth.ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)

	_, err = auth.ParseToken(token, "other-secret")
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	user := models.User{ID: "u-2", Role: models.RoleUser}

	token, err := auth.IssueToken(user, testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = auth.ParseToken(token, testSecret)
	assert.Error(t, err)
}
