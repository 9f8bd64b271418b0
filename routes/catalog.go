package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	categoryControllers "github.com/juanctr3/servicios-app/controllers/category"
	packageControllers "github.com/juanctr3/servicios-app/controllers/pack"
	serviceControllers "github.com/juanctr3/servicios-app/controllers/service"
	"github.com/juanctr3/servicios-app/middleware"
	"github.com/juanctr3/servicios-app/models"
)

// SetupCatalogRoutes registers categories, services and packages. Reads
// are public; writes require an admin token.
func SetupCatalogRoutes(r *gin.Engine, db *gorm.DB) {
	categories := r.Group("/categorias")
	{
		categories.GET("", categoryControllers.GetAllCategories(db))
		categories.GET("/slug/:slug", categoryControllers.GetCategoryBySlug(db))
		categories.GET("/:id", categoryControllers.GetCategoryByID(db))
		categories.GET("/:id/servicios/count", categoryControllers.CountCategoryServices(db))

		admin := categories.Group("", middleware.RequireAuth, middleware.RequireRole(models.RoleAdmin))
		{
			admin.POST("", categoryControllers.CreateCategory(db))
			admin.PUT("/:id", categoryControllers.UpdateCategory(db))
			admin.DELETE("/:id", categoryControllers.DeleteCategory(db))
		}
	}

	services := r.Group("/servicios")
	{
		services.GET("", serviceControllers.GetAllServices(db))
		services.GET("/slug/:slug", serviceControllers.GetServiceBySlug(db))
		services.GET("/categoria/:categoria_id", serviceControllers.GetServicesByCategory(db))
		services.GET("/:id", serviceControllers.GetServiceByID(db))

		admin := services.Group("", middleware.RequireAuth, middleware.RequireRole(models.RoleAdmin))
		{
			admin.POST("", serviceControllers.CreateService(db))
			admin.PUT("/:id", serviceControllers.UpdateService(db))
			admin.DELETE("/:id", serviceControllers.DeleteService(db))
		}
	}

	packages := r.Group("/paquetes")
	{
		packages.GET("", packageControllers.GetAllPackages(db))
		packages.GET("/servicio/:servicio_id", packageControllers.GetPackagesByService(db))
		packages.GET("/:id", packageControllers.GetPackageByID(db))

		admin := packages.Group("", middleware.RequireAuth, middleware.RequireRole(models.RoleAdmin))
		{
			admin.POST("", packageControllers.CreatePackage(db))
			admin.PUT("/:id", packageControllers.UpdatePackage(db))
			admin.DELETE("/:id", packageControllers.DeletePackage(db))
		}
	}
}
