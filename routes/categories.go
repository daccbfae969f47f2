package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/shopyard/storefront-api/config"
	categoryControllers "github.com/shopyard/storefront-api/controllers/category"
	"github.com/shopyard/storefront-api/middleware"
	"github.com/shopyard/storefront-api/models"
	"gorm.io/gorm"
)

// SetupCategoryRoutes registers /api/categories/* endpoints.
func SetupCategoryRoutes(api *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	group := api.Group("/categories")
	{
		group.GET("", categoryControllers.ListCategories(db))
		group.GET("/:id", categoryControllers.GetCategoryByID(db))
	}

	admin := group.Group("")
	admin.Use(middleware.Authenticate(db, cfg.JWTSecret), middleware.Authorize(models.RoleAdmin))
	{
		admin.POST("", categoryControllers.CreateCategory(db))
		admin.PUT("/:id", categoryControllers.UpdateCategory(db))
		admin.DELETE("/:id", categoryControllers.DeleteCategory(db))
	}
}
