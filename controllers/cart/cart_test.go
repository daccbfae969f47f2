package cartControllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
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
	"golang.org/x/crypto/bcrypt"
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

func seedUser(t *testing.T, db *gorm.DB, role models.Role) (models.User, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Name:     "Test User",
		Email:    fmt.Sprintf("%s-%d@example.com", role, time.Now().UnixNano()),
		Password: string(hash),
		Role:     role,
		Status:   models.StatusActive,
	}
	require.NoError(t, db.Create(&user).Error)

	token, err := auth.IssueToken(user, testSecret, time.Hour)
	require.NoError(t, err)
	return user, token
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) models.Product {
	t.Helper()
	category := models.Category{Name: "cat-" + name}
	require.NoError(t, db.Create(&category).Error)
	product := models.Product{Name: name, Price: price, Stock: stock, CategoryID: category.ID}
	require.NoError(t, db.Create(&product).Error)
	return product
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

func TestGetCartCreatesLazily(t *testing.T) {
	r, db := setupAPI(t)
	user, token := seedUser(t, db, models.RoleUser)

	w := doJSON(t, r, http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var cart models.Cart
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	assert.Equal(t, user.ID, cart.UserID)
	assert.Empty(t, cart.Items)

	var count int64
	db.Model(&models.Cart{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAddItemMergesQuantity(t *testing.T) {
	r, db := setupAPI(t)
	_, token := seedUser(t, db, models.RoleUser)
	product := seedProduct(t, db, "Widget", 9.99, 10)

	body := gin.H{"productId": product.ID, "quantity": 2}

	w := doJSON(t, r, http.MethodPost, "/api/cart", token, body)
	require.Equal(t, http.StatusOK, w.Code)

	var cart models.Cart
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	// Same product again merges into the existing line.
	w = doJSON(t, r, http.MethodPost, "/api/cart", token, body)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 4, cart.Items[0].Quantity)
}

func TestAddItemUnknownProduct(t *testing.T) {
	r, db := setupAPI(t)
	_, token := seedUser(t, db, models.RoleUser)

	w := doJSON(t, r, http.MethodPost, "/api/cart", token, gin.H{"productId": 999, "quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Product not found")
}

func TestAddItemInsufficientStock(t *testing.T) {
	r, db := setupAPI(t)
	_, token := seedUser(t, db, models.RoleUser)
	product := seedProduct(t, db, "Scarce", 5, 3)

	w := doJSON(t, r, http.MethodPost, "/api/cart", token, gin.H{"productId": product.ID, "quantity": 4})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient stock")
}

func TestUpdateItemQuantity(t *testing.T) {
	r, db := setupAPI(t)
	_, token := seedUser(t, db, models.RoleUser)
	product := seedProduct(t, db, "Gadget", 20, 5)

	w := doJSON(t, r, http.MethodPost, "/api/cart", token, gin.H{"productId": product.ID, "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/cart/%d", product.ID), token, gin.H{"quantity": 5})
	require.Equal(t, http.StatusOK, w.Code)

	var cart models.Cart
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestUpdateItemExceedsStock(t *testing.T) {
	r, db := setupAPI(t)
	_, token := seedUser(t, db, models.RoleUser)
	product := seedProduct(t, db, "Limited", 20, 5)

	w := doJSON(t, r, http.MethodPost, "/api/cart", token, gin.H{"productId": product.ID, "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/cart/%d", product.ID), token, gin.H{"quantity": 6})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient stock")
}

func TestUpdateItemNotInCart(t *testing.T) {
	r, db := setupAPI(t)
	_, token := seedUser(t, db, models.RoleUser)
	product := seedProduct(t, db, "Absent", 10, 5)

	// Cart exists but no such line.
	w := doJSON(t, r, http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/cart/%d", product.ID), token, gin.H{"quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Item not found in cart")
}

func TestUpdateItemNoCart(t *testing.T) {
	r, db := setupAPI(t)
	_, token := seedUser(t, db, models.RoleUser)

	w := doJSON(t, r, http.MethodPut, "/api/cart/1", token, gin.H{"quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Cart not found")
}

func TestRemoveItem(t *testing.T) {
	r, db := setupAPI(t)
	_, token := seedUser(t, db, models.RoleUser)
	first := seedProduct(t, db, "First", 10, 5)
	second := seedProduct(t, db, "Second", 15, 5)

	doJSON(t, r, http.MethodPost, "/api/cart", token, gin.H{"productId": first.ID, "quantity": 1})
	doJSON(t, r, http.MethodPost, "/api/cart", token, gin.H{"productId": second.ID, "quantity": 2})

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/cart/%d", first.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var cart models.Cart
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, second.ID, cart.Items[0].ProductID)
}

func TestClearCart(t *testing.T) {
	r, db := setupAPI(t)
	_, token := seedUser(t, db, models.RoleUser)
	product := seedProduct(t, db, "Clearable", 10, 5)

	doJSON(t, r, http.MethodPost, "/api/cart", token, gin.H{"productId": product.ID, "quantity": 3})

	w := doJSON(t, r, http.MethodDelete, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var cart models.Cart
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	assert.Empty(t, cart.Items)

	var count int64
	db.Model(&models.CartItem{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCartTotalMatchesItems(t *testing.T) {
	r, db := setupAPI(t)
	user, token := seedUser(t, db, models.RoleUser)
	first := seedProduct(t, db, "Priced", 9.50, 10)
	second := seedProduct(t, db, "Costly", 100, 10)

	doJSON(t, r, http.MethodPost, "/api/cart", token, gin.H{"productId": first.ID, "quantity": 3})
	doJSON(t, r, http.MethodPost, "/api/cart", token, gin.H{"productId": second.ID, "quantity": 2})

	var cart models.Cart
	require.NoError(t, db.Preload("Items.Product").Where("user_id = ?", user.ID).First(&cart).Error)
	assert.InDelta(t, 9.50*3+100*2, cart.Total(), 1e-9)
}

func TestCartRequiresAuth(t *testing.T) {
	r, _ := setupAPI(t)

	w := doJSON(t, r, http.MethodGet, "/api/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
