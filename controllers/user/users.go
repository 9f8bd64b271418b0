package userControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/juanctr3/servicios-app/apperrors"
	"github.com/juanctr3/servicios-app/models"
)

const minPasswordLen = 6

type UpdateProfileInput struct {
	Name    *string `json:"nombre"`
	Phone   *string `json:"celular"`
	Country *string `json:"pais"`
	Address *string `json:"direccion"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"password_actual" binding:"required"`
	NewPassword     string `json:"password_nueva" binding:"required"`
}

type AdminUpdateUserInput struct {
	Name    *string `json:"nombre"`
	Phone   *string `json:"celular"`
	Country *string `json:"pais"`
	Role    *string `json:"rol"`
}

// GET /usuarios/perfil
func GetProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := db.First(&user, "id = ?", c.GetString("user_id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, &apperrors.NotFoundError{Entity: "Usuario"})
				return
			}
			apperrors.Respond(c, apperrors.Storage("fetch user", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"usuario": user})
	}
}

// PUT /usuarios/perfil
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := db.First(&user, "id = ?", c.GetString("user_id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, &apperrors.NotFoundError{Entity: "Usuario"})
				return
			}
			apperrors.Respond(c, apperrors.Storage("fetch user", err))
			return
		}

		var input UpdateProfileInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.NewValidation("", "entrada inválida"))
			return
		}

		updates := make(map[string]interface{})
		if input.Name != nil {
			updates["name"] = *input.Name
		}
		if input.Phone != nil {
			updates["phone"] = *input.Phone
		}
		if input.Country != nil {
			updates["country"] = *input.Country
		}
		if input.Address != nil {
			updates["address"] = *input.Address
		}

		if len(updates) > 0 {
			if err := db.Model(&user).Updates(updates).Error; err != nil {
				apperrors.Respond(c, apperrors.Storage("update user", err))
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"mensaje": "Perfil actualizado correctamente",
			"usuario": user,
		})
	}
}

// PUT /usuarios/perfil/password
//
// The current password must re-verify before the new one is accepted.
func ChangePassword(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ChangePasswordInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.NewValidation("", "password actual y nueva son requeridas"))
			return
		}
		if len(input.NewPassword) < minPasswordLen {
			apperrors.Respond(c, apperrors.NewValidation("password_nueva", "mínimo 6 caracteres"))
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", c.GetString("user_id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, &apperrors.NotFoundError{Entity: "Usuario"})
				return
			}
			apperrors.Respond(c, apperrors.Storage("fetch user", err))
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.CurrentPassword)) != nil {
			apperrors.Respond(c, apperrors.ErrInvalidCredentials)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			apperrors.Respond(c, apperrors.Storage("hash password", err))
			return
		}

		if err := db.Model(&user).Update("password_hash", string(hash)).Error; err != nil {
			apperrors.Respond(c, apperrors.Storage("update password", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"mensaje": "Contraseña actualizada correctamente"})
	}
}

// GET /usuarios (admin)
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.Order("created_at DESC").Find(&users).Error; err != nil {
			apperrors.Respond(c, apperrors.Storage("list users", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"usuarios": users})
	}
}

// PUT /usuarios/:id (admin)
func AdminUpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := db.First(&user, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, &apperrors.NotFoundError{Entity: "Usuario"})
				return
			}
			apperrors.Respond(c, apperrors.Storage("fetch user", err))
			return
		}

		var input AdminUpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.NewValidation("", "entrada inválida"))
			return
		}

		updates := make(map[string]interface{})
		if input.Name != nil {
			updates["name"] = *input.Name
		}
		if input.Phone != nil {
			updates["phone"] = *input.Phone
		}
		if input.Country != nil {
			updates["country"] = *input.Country
		}
		if input.Role != nil {
			if *input.Role != models.RoleUser && *input.Role != models.RoleAdmin {
				apperrors.Respond(c, apperrors.NewValidation("rol", "rol inválido"))
				return
			}
			updates["role"] = *input.Role
		}

		if len(updates) > 0 {
			if err := db.Model(&user).Updates(updates).Error; err != nil {
				apperrors.Respond(c, apperrors.Storage("update user", err))
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"mensaje": "Usuario actualizado correctamente",
			"usuario": user,
		})
	}
}

// DELETE /usuarios/:id (admin)
//
// An admin cannot delete their own account through this path.
func AdminDeleteUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID := c.Param("id")
		if targetID == c.GetString("user_id") {
			apperrors.Respond(c, apperrors.NewValidation("id", "no puedes eliminar tu propia cuenta"))
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, &apperrors.NotFoundError{Entity: "Usuario"})
				return
			}
			apperrors.Respond(c, apperrors.Storage("fetch user", err))
			return
		}

		// Cart lines are exclusively owned by the user and go with them.
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("user_id = ?", user.ID).Delete(&models.CartLine{}).Error; err != nil {
				return err
			}
			return tx.Delete(&user).Error
		})
		if err != nil {
			apperrors.Respond(c, apperrors.Storage("delete user", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"mensaje": "Usuario eliminado correctamente"})
	}
}
