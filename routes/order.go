package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/juanctr3/servicios-app/controllers/order"
	"github.com/juanctr3/servicios-app/middleware"
	"github.com/juanctr3/servicios-app/models"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB) {
	orders := r.Group("/pedidos")
	{
		// Live feed for the admin dashboard; the socket itself is open,
		// it only ever pushes data.
		orders.GET("/ws", orderControllers.OrderFeedHandler)

		authed := orders.Group("", middleware.RequireAuth)
		{
			authed.GET("/mis-pedidos", orderControllers.GetMyOrdersHandler(db))
			authed.GET("/:id", orderControllers.GetOrderByIDHandler(db))
			authed.POST("", orderControllers.CreateOrderHandler(db))
		}

		admin := orders.Group("", middleware.RequireAuth, middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("", orderControllers.GetAllOrdersHandler(db))
			admin.GET("/export-excel", orderControllers.ExportOrdersToExcel(db))
			admin.PUT("/:id/estado", orderControllers.UpdateOrderStatusHandler(db))
			admin.DELETE("/:id", orderControllers.DeleteOrderHandler(db))
		}
	}
}
