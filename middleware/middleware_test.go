package middleware_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopyard/storefront-api/auth"
	"github.com/shopyard/storefront-api/middleware"
	"github.com/shopyard/storefront-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Order{}, &models.OrderItem{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role models.Role, status models.AccountStatus) (models.User, string) {
	t.Helper()
	user := models.User{
		Name:     "Test User",
		Email:    time.Now().Format("150405.000000") + "@example.com",
		Password: "irrelevant",
		Role:     role,
		Status:   status,
	}
	require.NoError(t, db.Create(&user).Error)
	token, err := auth.IssueToken(user, testSecret, time.Hour)
	require.NoError(t, err)
	return user, token
}

func protectedRouter(db *gorm.DB, roles ...models.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{middleware.Authenticate(db, testSecret)}
	if len(roles) > 0 {
		handlers = append(handlers, middleware.Authorize(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": user.ID})
	})
	r.GET("/protected", handlers...)
	return r
}

func get(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticateMissingHeader(t *testing.T) {
	r := protectedRouter(openDB(t))

	w := get(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Not authorized to access this route")
}

func TestAuthenticateMalformedToken(t *testing.T) {
	r := protectedRouter(openDB(t))

	w := get(r, "not.a.jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateWrongSecret(t *testing.T) {
	db := openDB(t)
	user, _ := seedUser(t, db, models.RoleUser, models.StatusActive)
	token, err := auth.IssueToken(user, "another-secret", time.Hour)
	require.NoError(t, err)

	w := get(protectedRouter(db), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateDeletedUser(t *testing.T) {
	db := openDB(t)
	user, token := seedUser(t, db, models.RoleUser, models.StatusActive)
	require.NoError(t, db.Delete(&models.User{}, "id = ?", user.ID).Error)

	w := get(protectedRouter(db), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "User not found")
}

func TestAuthenticateInactiveUser(t *testing.T) {
	db := openDB(t)
	user, token := seedUser(t, db, models.RoleUser, models.StatusActive)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("status", models.StatusInactive).Error)

	w := get(protectedRouter(db), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "inactive")
}

func TestAuthenticateValidToken(t *testing.T) {
	db := openDB(t)
	user, token := seedUser(t, db, models.RoleUser, models.StatusActive)

	w := get(protectedRouter(db), token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), user.ID)
}

func TestAuthorizeRejectsRole(t *testing.T) {
	db := openDB(t)
	_, token := seedUser(t, db, models.RoleUser, models.StatusActive)

	w := get(protectedRouter(db, models.RoleAdmin), token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "is not authorized to access this route")
}

func TestAuthorizeAllowsRole(t *testing.T) {
	db := openDB(t)
	_, token := seedUser(t, db, models.RoleAdmin, models.StatusActive)

	w := get(protectedRouter(db, models.RoleAdmin), token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func ownershipRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/orders/:id",
		middleware.Authenticate(db, testSecret),
		middleware.OrderOwnership(db),
		func(c *gin.Context) {
			order := c.MustGet("order").(models.Order)
			c.JSON(http.StatusOK, gin.H{"id": order.ID})
		})
	return r
}

func getOrder(r *gin.Engine, id, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/orders/"+id, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestOrderOwnership(t *testing.T) {
	db := openDB(t)
	owner, ownerToken := seedUser(t, db, models.RoleUser, models.StatusActive)
	_, otherToken := seedUser(t, db, models.RoleUser, models.StatusActive)
	_, adminToken := seedUser(t, db, models.RoleAdmin, models.StatusActive)

	order := models.Order{OrderRef: "ref-1", UserID: owner.ID, TotalAmount: 10}
	require.NoError(t, db.Create(&order).Error)
	r := ownershipRouter(db)
	id := fmt.Sprintf("%d", order.ID)

	w := getOrder(r, id, ownerToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w = getOrder(r, id, otherToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Not authorized to access this resource")

	w = getOrder(r, id, adminToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w = getOrder(r, "9999", ownerToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Order not found")
}

func TestOrderOwnershipQueryFailure(t *testing.T) {
	db := openDB(t)
	_, token := seedUser(t, db, models.RoleUser, models.StatusActive)
	r := ownershipRouter(db)

	require.NoError(t, db.Migrator().DropTable(&models.Order{}))

	w := getOrder(r, "1", token)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Server error")
}
