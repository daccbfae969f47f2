package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopyard/storefront-api/config"
	productControllers "github.com/shopyard/storefront-api/controllers/product"
	"github.com/shopyard/storefront-api/middleware"
	"github.com/shopyard/storefront-api/models"
	"gorm.io/gorm"
)

// SetupProductRoutes registers /api/products/* endpoints. Reads are public,
// mutations and the export are admin only.
func SetupProductRoutes(api *gin.RouterGroup, db *gorm.DB, rdb *redis.Client, cfg *config.Config) {
	group := api.Group("/products")
	{
		group.GET("", productControllers.ListProducts(db, rdb))
		group.GET("/search", productControllers.SearchProducts(db))
		group.GET("/category/:categoryId", productControllers.GetProductsByCategory(db))
		group.GET("/:id", productControllers.GetProductByID(db, rdb))
	}

	admin := group.Group("")
	admin.Use(middleware.Authenticate(db, cfg.JWTSecret), middleware.Authorize(models.RoleAdmin))
	{
		admin.GET("/export", productControllers.ExportProductsToExcel(db))
		admin.POST("", productControllers.CreateProduct(db, rdb))
		admin.PUT("/:id", productControllers.UpdateProduct(db, rdb))
		admin.DELETE("/:id", productControllers.DeleteProduct(db, rdb))
	}
}
