package orderControllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopyard/storefront-api/middleware"
	"github.com/shopyard/storefront-api/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type OrderItemInput struct {
	ProductID uint    `json:"productId" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,min=1"`
	Price     float64 `json:"price"`
}

type CreateOrderRequest struct {
	Items           []OrderItemInput `json:"items" binding:"required,min=1"`
	ShippingAddress models.Address   `json:"shippingAddress"`
	PaymentMethod   string           `json:"paymentMethod"`
	TotalAmount     float64          `json:"totalAmount"`
}

type UpdateStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// POST /api/orders
//
// Stock is decremented per line item sequentially without a transaction, so
// a failure on item N leaves items 1..N-1 already decremented. This mirrors
// the upstream behavior; see DESIGN.md before changing it.
func CreateOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Order items are required"})
			return
		}

		var orderItems []models.OrderItem
		for _, item := range req.Items {
			var product models.Product
			if err := db.First(&product, item.ProductID).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"message": fmt.Sprintf("Product %d not found", item.ProductID),
				})
				return
			}
			if product.Stock < item.Quantity {
				c.JSON(http.StatusBadRequest, gin.H{
					"message": fmt.Sprintf("Insufficient stock for %s", product.Name),
				})
				return
			}

			product.Stock -= item.Quantity
			if err := db.Save(&product).Error; err != nil {
				logrus.WithError(err).Error("failed to decrement stock")
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
				return
			}

			price := item.Price
			if price == 0 {
				price = product.Price
			}
			orderItems = append(orderItems, models.OrderItem{
				ProductID:    product.ID,
				ProductName:  product.Name,
				ProductImage: product.Image,
				Price:        price,
				Quantity:     item.Quantity,
			})
		}

		order := models.Order{
			OrderRef:        generateOrderRef(),
			UserID:          user.ID,
			Items:           orderItems,
			ShippingAddress: req.ShippingAddress,
			PaymentMethod:   req.PaymentMethod,
			TotalAmount:     req.TotalAmount,
			Status:          models.OrderStatusProcessing,
			CreatedAt:       time.Now(),
		}
		if err := db.Create(&order).Error; err != nil {
			logrus.WithError(err).Error("failed to create order")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}

		// Checkout clears the cart.
		var cart models.Cart
		if err := db.Where("user_id = ?", user.ID).First(&cart).Error; err == nil {
			if err := db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
				logrus.WithError(err).Warn("failed to clear cart after checkout")
			}
		}

		broadcastNewOrder(order)
		c.JSON(http.StatusCreated, order)
	}
}

// GET /api/orders (admin)
func ListOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("User").
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			logrus.WithError(err).Error("failed to list orders")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /api/orders/user/:userId — self or admin only.
func ListUserOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)
		userID := c.Param("userId")

		if !user.IsAdmin() && user.ID != userID {
			c.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to access these orders"})
			return
		}

		var orders []models.Order
		if err := db.
			Where("user_id = ?", userID).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			logrus.WithError(err).Error("failed to list user orders")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /api/orders/:id — the ownership middleware has already loaded the
// order and verified access.
func GetOrderByID() gin.HandlerFunc {
	return func(c *gin.Context) {
		order := c.MustGet("order").(models.Order)
		c.JSON(http.StatusOK, order)
	}
}

// PATCH /api/orders/:id/status (admin)
func UpdateOrderStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Status is required"})
			return
		}
		if !models.ValidOrderStatus(req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid order status"})
			return
		}

		var order models.Order
		if err := db.Preload("User").Preload("Items").First(&order, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			} else {
				logrus.WithError(err).Error("failed to fetch order")
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			}
			return
		}

		order.Status = req.Status
		if err := db.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("status", req.Status).Error; err != nil {
			logrus.WithError(err).Error("failed to update order status")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
