package productControllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopyard/storefront-api/cache"
	"github.com/shopyard/storefront-api/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const cachePrefix = "products:"

type ProductInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Image       *string  `json:"image"`
	CategoryID  *uint    `json:"category_id"`
}

// applyFilters narrows the catalog query by category, price range and sort
// key. Unknown sort keys fall back to newest-first.
func applyFilters(c *gin.Context, query *gorm.DB) (*gorm.DB, bool) {
	if category := c.Query("category"); category != "" && category != "all" {
		cid, err := strconv.ParseUint(category, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid category"})
			return nil, false
		}
		query = query.Where("category_id = ?", uint(cid))
	}

	if minPrice := c.Query("minPrice"); minPrice != "" {
		mp, err := strconv.ParseFloat(minPrice, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid minPrice"})
			return nil, false
		}
		query = query.Where("price >= ?", mp)
	}
	if maxPrice := c.Query("maxPrice"); maxPrice != "" {
		mp, err := strconv.ParseFloat(maxPrice, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid maxPrice"})
			return nil, false
		}
		query = query.Where("price <= ?", mp)
	}

	switch c.Query("sort") {
	case "price_asc":
		query = query.Order("price asc")
	case "price_desc":
		query = query.Order("price desc")
	default: // newest
		query = query.Order("created_at desc")
	}
	return query, true
}

// GET /api/products
func ListProducts(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		cacheKey := cachePrefix + "list:" + c.Request.URL.RawQuery

		var products []models.Product
		if found, err := cache.Get(c.Request.Context(), rdb, cacheKey, &products); err == nil && found {
			c.JSON(http.StatusOK, products)
			return
		}

		query, ok := applyFilters(c, db.Model(&models.Product{}).Preload("Category"))
		if !ok {
			return
		}
		if err := query.Find(&products).Error; err != nil {
			logrus.WithError(err).Error("failed to list products")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}

		_ = cache.Set(c.Request.Context(), rdb, cacheKey, products, cache.DefaultTTL)
		c.JSON(http.StatusOK, products)
	}
}

// GET /api/products/search
func SearchProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query, ok := applyFilters(c, db.Model(&models.Product{}).Preload("Category"))
		if !ok {
			return
		}

		// Case-insensitive substring match against name or description.
		if term := c.Query("query"); term != "" {
			pattern := "%" + strings.ToLower(term) + "%"
			query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
		}

		var products []models.Product
		if err := query.Find(&products).Error; err != nil {
			logrus.WithError(err).Error("failed to search products")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// GET /api/products/:id
func GetProductByID(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product ID"})
			return
		}

		cacheKey := cachePrefix + "id:" + c.Param("id")
		var product models.Product
		if found, err := cache.Get(c.Request.Context(), rdb, cacheKey, &product); err == nil && found {
			c.JSON(http.StatusOK, product)
			return
		}

		if err := db.Preload("Category").First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			} else {
				logrus.WithError(err).Error("failed to fetch product")
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			}
			return
		}

		_ = cache.Set(c.Request.Context(), rdb, cacheKey, product, cache.DefaultTTL)
		c.JSON(http.StatusOK, product)
	}
}

// GET /api/products/category/:categoryId
func GetProductsByCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cid, err := strconv.ParseUint(c.Param("categoryId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid category"})
			return
		}

		var products []models.Product
		if err := db.Preload("Category").Where("category_id = ?", uint(cid)).Find(&products).Error; err != nil {
			logrus.WithError(err).Error("failed to list products by category")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// POST /api/products (admin)
func CreateProduct(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
			return
		}
		if input.Name == nil || *input.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Product name is required"})
			return
		}
		if input.Price == nil || *input.Price <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Price must be greater than zero"})
			return
		}
		if input.Stock != nil && *input.Stock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Stock cannot be negative"})
			return
		}
		if input.CategoryID == nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Category is required"})
			return
		}

		var category models.Category
		if err := db.First(&category, *input.CategoryID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Category not found"})
			return
		}

		product := models.Product{
			Name:       *input.Name,
			Price:      *input.Price,
			CategoryID: *input.CategoryID,
		}
		if input.Description != nil {
			product.Description = *input.Description
		}
		if input.Stock != nil {
			product.Stock = *input.Stock
		}
		if input.Image != nil {
			product.Image = *input.Image
		}

		if err := db.Create(&product).Error; err != nil {
			logrus.WithError(err).Error("failed to create product")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}

		_ = cache.InvalidatePrefix(c.Request.Context(), rdb, cachePrefix)
		product.Category = category
		c.JSON(http.StatusCreated, product)
	}
}

// PUT /api/products/:id (admin)
func UpdateProduct(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}

		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
			return
		}

		if input.Name != nil {
			product.Name = *input.Name
		}
		if input.Description != nil {
			product.Description = *input.Description
		}
		if input.Price != nil {
			if *input.Price <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Price must be greater than zero"})
				return
			}
			product.Price = *input.Price
		}
		if input.Stock != nil {
			if *input.Stock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Stock cannot be negative"})
				return
			}
			product.Stock = *input.Stock
		}
		if input.Image != nil {
			product.Image = *input.Image
		}
		if input.CategoryID != nil {
			var category models.Category
			if err := db.First(&category, *input.CategoryID).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Category not found"})
				return
			}
			product.CategoryID = *input.CategoryID
		}

		if err := db.Save(&product).Error; err != nil {
			logrus.WithError(err).Error("failed to update product")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}

		_ = cache.InvalidatePrefix(c.Request.Context(), rdb, cachePrefix)
		c.JSON(http.StatusOK, product)
	}
}

// DELETE /api/products/:id (admin)
func DeleteProduct(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := db.Where("id = ?", c.Param("id")).Delete(&models.Product{})
		if result.Error != nil {
			logrus.WithError(result.Error).Error("failed to delete product")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}

		_ = cache.InvalidatePrefix(c.Request.Context(), rdb, cachePrefix)
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
