package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/juanctr3/servicios-app/controllers/cart"
	"github.com/juanctr3/servicios-app/middleware"
)

// SetupCartRoutes registers the per-user cart. Everything here requires
// an authenticated user.
func SetupCartRoutes(r *gin.Engine, db *gorm.DB) {
	cart := r.Group("/carrito", middleware.RequireAuth)
	{
		cart.GET("", cartControllers.GetCart(db))
		cart.POST("", cartControllers.AddCartLine(db))
		cart.PUT("/:id", cartControllers.UpdateCartLineQuantity(db))
		cart.DELETE("/:id", cartControllers.RemoveCartLine(db))
		cart.DELETE("", cartControllers.ClearCart(db))
	}
}
