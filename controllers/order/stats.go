package orderControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopyard/storefront-api/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// StatusStat is one per-status aggregate row.
type StatusStat struct {
	Status      models.OrderStatus `json:"status"`
	Count       int64              `json:"count"`
	TotalAmount float64            `json:"total_amount"`
}

type StatsResponse struct {
	Stats        []StatusStat `json:"stats"`
	TotalOrders  int64        `json:"total_orders"`
	TotalRevenue float64      `json:"total_revenue"`
}

// GET /api/orders/stats (admin) — per-status counts and sums, with total
// revenue excluding cancelled orders.
func OrderStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var stats []StatusStat
		if err := db.Model(&models.Order{}).
			Select("status, COUNT(*) AS count, SUM(total_amount) AS total_amount").
			Group("status").
			Scan(&stats).Error; err != nil {
			logrus.WithError(err).Error("failed to aggregate order stats")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}

		var totalOrders int64
		if err := db.Model(&models.Order{}).Count(&totalOrders).Error; err != nil {
			logrus.WithError(err).Error("failed to count orders")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}

		var totalRevenue float64
		if err := db.Model(&models.Order{}).
			Where("status <> ?", models.OrderStatusCancelled).
			Select("COALESCE(SUM(total_amount), 0)").
			Scan(&totalRevenue).Error; err != nil {
			logrus.WithError(err).Error("failed to sum revenue")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}

		c.JSON(http.StatusOK, StatsResponse{
			Stats:        stats,
			TotalOrders:  totalOrders,
			TotalRevenue: totalRevenue,
		})
	}
}
