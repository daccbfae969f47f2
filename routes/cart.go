package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/shopyard/storefront-api/config"
	cartControllers "github.com/shopyard/storefront-api/controllers/cart"
	"github.com/shopyard/storefront-api/middleware"
	"gorm.io/gorm"
)

// SetupCartRoutes registers /api/cart/* endpoints. All require an
// authenticated user.
func SetupCartRoutes(api *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	group := api.Group("/cart")
	group.Use(middleware.Authenticate(db, cfg.JWTSecret))
	{
		group.GET("", cartControllers.GetCart(db))
		group.POST("", cartControllers.AddItem(db))
		group.PUT("/:productId", cartControllers.UpdateItem(db))
		group.DELETE("/:productId", cartControllers.RemoveItem(db))
		group.DELETE("", cartControllers.ClearCart(db))
	}
}
