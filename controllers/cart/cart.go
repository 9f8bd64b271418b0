package cartControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/juanctr3/servicios-app/apperrors"
	"github.com/juanctr3/servicios-app/models"
)

type AddLineInput struct {
	PackageID string `json:"paquete_id"`
	Quantity  int    `json:"cantidad"`
}

type UpdateQuantityInput struct {
	Quantity int `json:"cantidad"`
}

type CartTotal struct {
	Total float64 `json:"total"`
	Items int64   `json:"items"`
}

// ComputeCartTotal derives the cart total from the packages' current
// price and discount. Nothing is cached: an admin price change between
// two reads is reflected immediately.
func ComputeCartTotal(db *gorm.DB, userID string) (CartTotal, error) {
	var result CartTotal
	err := db.Model(&models.CartLine{}).
		Select("COALESCE(SUM(packages.price * (1 - packages.discount_percentage / 100) * cart_lines.quantity), 0) AS total, COUNT(cart_lines.id) AS items").
		Joins("JOIN packages ON packages.id = cart_lines.package_id").
		Where("cart_lines.user_id = ?", userID).
		Scan(&result).Error
	return result, err
}

// fetchLine is the single-line read: lines are only ever resolved
// scoped to their owner, so one user can never address another's line.
func fetchLine(db *gorm.DB, userID, lineID string) (*models.CartLine, error) {
	var line models.CartLine
	if err := db.Where("id = ? AND user_id = ?", lineID, userID).First(&line).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperrors.NotFoundError{Entity: "Item del carrito"}
		}
		return nil, apperrors.Storage("fetch cart line", err)
	}
	return &line, nil
}

// GET /carrito
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var lines []models.CartLine
		if err := db.Preload("Package").Where("user_id = ?", userID).Order("added_at DESC").Find(&lines).Error; err != nil {
			apperrors.Respond(c, apperrors.Storage("list cart lines", err))
			return
		}

		total, err := ComputeCartTotal(db, userID)
		if err != nil {
			apperrors.Respond(c, apperrors.Storage("compute cart total", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"items":         lines,
			"total":         total.Total,
			"cantidadItems": total.Items,
		})
	}
}

// POST /carrito
//
// Every add inserts a new line, even for a package already in the cart.
// Repeated adds are kept as separate rows, matching the storefront's
// add-event history.
func AddCartLine(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var input AddLineInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.NewValidation("", "entrada inválida"))
			return
		}
		if input.PackageID == "" {
			apperrors.Respond(c, apperrors.NewValidation("paquete_id", "es requerido"))
			return
		}
		if input.Quantity < 1 {
			apperrors.Respond(c, apperrors.NewValidation("cantidad", "debe ser mayor a 0"))
			return
		}

		var pkg models.Package
		if err := db.First(&pkg, "id = ?", input.PackageID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, &apperrors.NotFoundError{Entity: "Paquete"})
				return
			}
			apperrors.Respond(c, apperrors.Storage("fetch package", err))
			return
		}

		line := models.CartLine{
			UserID:    userID,
			PackageID: pkg.ID,
			Quantity:  input.Quantity,
		}
		if err := db.Create(&line).Error; err != nil {
			apperrors.Respond(c, apperrors.Storage("create cart line", err))
			return
		}
		line.Package = pkg

		c.JSON(http.StatusCreated, gin.H{
			"mensaje": "Agregado al carrito",
			"item":    line,
		})
	}
}

// PUT /carrito/:id
func UpdateCartLineQuantity(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var input UpdateQuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.NewValidation("", "entrada inválida"))
			return
		}
		if input.Quantity < 1 {
			apperrors.Respond(c, apperrors.NewValidation("cantidad", "debe ser mayor a 0"))
			return
		}

		line, err := fetchLine(db, userID, c.Param("id"))
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		line.Quantity = input.Quantity
		if err := db.Save(line).Error; err != nil {
			apperrors.Respond(c, apperrors.Storage("update cart line", err))
			return
		}

		if err := db.Preload("Package").First(line, "id = ?", line.ID).Error; err != nil {
			apperrors.Respond(c, apperrors.Storage("reload cart line", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"mensaje": "Cantidad actualizada",
			"item":    line,
		})
	}
}

// DELETE /carrito/:id
//
// Idempotent: deleting a line that is already gone still succeeds.
func RemoveCartLine(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		if err := db.Where("id = ? AND user_id = ?", c.Param("id"), userID).Delete(&models.CartLine{}).Error; err != nil {
			apperrors.Respond(c, apperrors.Storage("delete cart line", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"mensaje": "Item eliminado del carrito"})
	}
}

// DELETE /carrito
func ClearCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		if err := db.Where("user_id = ?", userID).Delete(&models.CartLine{}).Error; err != nil {
			apperrors.Respond(c, apperrors.Storage("clear cart", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"mensaje": "Carrito vaciado correctamente"})
	}
}
