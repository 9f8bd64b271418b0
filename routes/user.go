package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/juanctr3/servicios-app/auth"
	userControllers "github.com/juanctr3/servicios-app/controllers/user"
	"github.com/juanctr3/servicios-app/middleware"
	"github.com/juanctr3/servicios-app/models"
)

func SetupUserRoutes(r *gin.Engine, db *gorm.DB) {
	users := r.Group("/usuarios")
	{
		users.POST("/registro", auth.RegisterHandler(db))
		users.POST("/login", auth.LoginHandler(db))

		me := users.Group("/perfil", middleware.RequireAuth)
		{
			me.GET("", userControllers.GetProfile(db))
			me.PUT("", userControllers.UpdateProfile(db))
			me.PUT("/password", userControllers.ChangePassword(db))
		}

		admin := users.Group("", middleware.RequireAuth, middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("", userControllers.GetAllUsers(db))
			admin.PUT("/:id", userControllers.AdminUpdateUser(db))
			admin.DELETE("/:id", userControllers.AdminDeleteUser(db))
		}
	}
}
