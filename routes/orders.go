package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/shopyard/storefront-api/config"
	orderControllers "github.com/shopyard/storefront-api/controllers/order"
	"github.com/shopyard/storefront-api/middleware"
	"github.com/shopyard/storefront-api/models"
	"gorm.io/gorm"
)

// SetupOrderRoutes registers /api/orders/* endpoints.
func SetupOrderRoutes(api *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	group := api.Group("/orders")
	group.Use(middleware.Authenticate(db, cfg.JWTSecret))

	adminOnly := middleware.Authorize(models.RoleAdmin)
	{
		group.POST("", orderControllers.CreateOrder(db))
		group.GET("", adminOnly, orderControllers.ListOrders(db))
		group.GET("/stats", adminOnly, orderControllers.OrderStats(db))
		group.GET("/ws", adminOnly, orderControllers.OrderFeedHandler)
		group.GET("/user/:userId", orderControllers.ListUserOrders(db))
		group.GET("/:id", middleware.OrderOwnership(db), orderControllers.GetOrderByID())
		group.PATCH("/:id/status", adminOnly, orderControllers.UpdateOrderStatus(db))
	}
}
