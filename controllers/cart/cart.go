package cartControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopyard/storefront-api/middleware"
	"github.com/shopyard/storefront-api/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AddItemRequest struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// loadCart returns the user's cart with items and products preloaded.
func loadCart(db *gorm.DB, userID string) (models.Cart, error) {
	var cart models.Cart
	err := db.Preload("Items.Product").Where("user_id = ?", userID).First(&cart).Error
	return cart, err
}

// GET /api/cart — the cart is created lazily on first access.
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		cart, err := loadCart(db, user.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cart = models.Cart{UserID: user.ID, Items: []models.CartItem{}}
			if err := db.Create(&cart).Error; err != nil {
				logrus.WithError(err).Error("failed to create cart")
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
				return
			}
		} else if err != nil {
			logrus.WithError(err).Error("failed to fetch cart")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}

		c.JSON(http.StatusOK, cart)
	}
}

// POST /api/cart — adds an item, merging quantity when the product is
// already a line item.
func AddItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		var req AddItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "productId and a positive quantity are required"})
			return
		}

		var product models.Product
		if err := db.First(&product, req.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			} else {
				logrus.WithError(err).Error("failed to fetch product")
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			}
			return
		}

		// Stock check reads the current count without locking.
		if product.Stock < req.Quantity {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Insufficient stock"})
			return
		}

		var cart models.Cart
		err := db.Where("user_id = ?", user.ID).First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cart = models.Cart{UserID: user.ID}
			if err := db.Create(&cart).Error; err != nil {
				logrus.WithError(err).Error("failed to create cart")
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
				return
			}
		} else if err != nil {
			logrus.WithError(err).Error("failed to fetch cart")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}

		var item models.CartItem
		err = db.Where("cart_id = ? AND product_id = ?", cart.ID, req.ProductID).First(&item).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = models.CartItem{
				CartID:    cart.ID,
				ProductID: req.ProductID,
				Quantity:  req.Quantity,
				AddedAt:   time.Now(),
			}
			if err := db.Create(&item).Error; err != nil {
				logrus.WithError(err).Error("failed to add cart item")
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
				return
			}
		case err != nil:
			logrus.WithError(err).Error("failed to fetch cart item")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		default:
			item.Quantity += req.Quantity
			if err := db.Save(&item).Error; err != nil {
				logrus.WithError(err).Error("failed to update cart item")
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
				return
			}
		}

		cart, err = loadCart(db, user.ID)
		if err != nil {
			logrus.WithError(err).Error("failed to reload cart")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// PUT /api/cart/:productId — sets a line item's quantity.
func UpdateItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		var req UpdateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "A positive quantity is required"})
			return
		}

		var cart models.Cart
		if err := db.Where("user_id = ?", user.ID).First(&cart).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Cart not found"})
			return
		}

		var item models.CartItem
		if err := db.Where("cart_id = ? AND product_id = ?", cart.ID, c.Param("productId")).First(&item).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Item not found in cart"})
			return
		}

		var product models.Product
		if err := db.First(&product, item.ProductID).Error; err != nil {
			logrus.WithError(err).Error("failed to fetch product")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		if product.Stock < req.Quantity {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Insufficient stock"})
			return
		}

		item.Quantity = req.Quantity
		if err := db.Save(&item).Error; err != nil {
			logrus.WithError(err).Error("failed to update cart item")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}

		cart, err := loadCart(db, user.ID)
		if err != nil {
			logrus.WithError(err).Error("failed to reload cart")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// DELETE /api/cart/:productId — removes one line item.
func RemoveItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		var cart models.Cart
		if err := db.Where("user_id = ?", user.ID).First(&cart).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Cart not found"})
			return
		}

		if err := db.Where("cart_id = ? AND product_id = ?", cart.ID, c.Param("productId")).
			Delete(&models.CartItem{}).Error; err != nil {
			logrus.WithError(err).Error("failed to remove cart item")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}

		cart, err := loadCart(db, user.ID)
		if err != nil {
			logrus.WithError(err).Error("failed to reload cart")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// DELETE /api/cart — clears all line items.
func ClearCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		var cart models.Cart
		if err := db.Where("user_id = ?", user.ID).First(&cart).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Cart not found"})
			return
		}

		if err := db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			logrus.WithError(err).Error("failed to clear cart")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}

		cart.Items = []models.CartItem{}
		c.JSON(http.StatusOK, cart)
	}
}
