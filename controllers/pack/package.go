package packageControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/juanctr3/servicios-app/apperrors"
	"github.com/juanctr3/servicios-app/models"
)

type PackageInput struct {
	ServiceID          string   `json:"servicio_id"`
	Name               string   `json:"nombre"`
	Quantity           int      `json:"cantidad"`
	Price              *float64 `json:"precio"`
	DiscountPercentage float64  `json:"descuento_porcentaje"`
	IsPopular          bool     `json:"es_popular"`
	IsBestSeller       bool     `json:"es_mas_vendido"`
	Features           []string `json:"caracteristicas"`
}

func validatePackageInput(input *PackageInput, requireService bool) error {
	if requireService && input.ServiceID == "" {
		return apperrors.NewValidation("servicio_id", "es requerido")
	}
	if input.Name == "" {
		return apperrors.NewValidation("nombre", "es requerido")
	}
	if input.Quantity <= 0 {
		return apperrors.NewValidation("cantidad", "debe ser mayor a 0")
	}
	if input.Price == nil {
		return apperrors.NewValidation("precio", "es requerido")
	}
	if *input.Price < 0 {
		return apperrors.NewValidation("precio", "no puede ser negativo")
	}
	if input.DiscountPercentage < 0 || input.DiscountPercentage > 100 {
		return apperrors.NewValidation("descuento_porcentaje", "debe estar entre 0 y 100")
	}
	return nil
}

// GET /paquetes
func GetAllPackages(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var packages []models.Package
		if err := db.Order("quantity ASC").Find(&packages).Error; err != nil {
			apperrors.Respond(c, apperrors.Storage("list packages", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"paquetes": packages})
	}
}

// GET /paquetes/servicio/:servicio_id
func GetPackagesByService(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var packages []models.Package
		if err := db.Where("service_id = ?", c.Param("servicio_id")).Order("quantity ASC").Find(&packages).Error; err != nil {
			apperrors.Respond(c, apperrors.Storage("list packages by service", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"paquetes": packages})
	}
}

// GET /paquetes/:id
func GetPackageByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var pkg models.Package
		if err := db.First(&pkg, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, &apperrors.NotFoundError{Entity: "Paquete"})
				return
			}
			apperrors.Respond(c, apperrors.Storage("fetch package", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"paquete": pkg})
	}
}

// POST /paquetes (admin)
func CreatePackage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input PackageInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.NewValidation("", "entrada inválida"))
			return
		}
		if err := validatePackageInput(&input, true); err != nil {
			apperrors.Respond(c, err)
			return
		}

		var count int64
		if err := db.Model(&models.Service{}).Where("id = ?", input.ServiceID).Count(&count).Error; err != nil {
			apperrors.Respond(c, apperrors.Storage("check service", err))
			return
		}
		if count == 0 {
			apperrors.Respond(c, &apperrors.NotFoundError{Entity: "Servicio"})
			return
		}

		pkg := models.Package{
			ServiceID:          input.ServiceID,
			Name:               input.Name,
			Quantity:           input.Quantity,
			Price:              *input.Price,
			DiscountPercentage: input.DiscountPercentage,
			IsPopular:          input.IsPopular,
			IsBestSeller:       input.IsBestSeller,
			Features:           input.Features,
		}
		if err := db.Create(&pkg).Error; err != nil {
			apperrors.Respond(c, apperrors.Storage("create package", err))
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"mensaje": "Paquete creado correctamente",
			"paquete": pkg,
		})
	}
}

// PUT /paquetes/:id (admin)
//
// Price is admin-editable at any time. Cart totals follow the new price
// immediately; order lines created before the change keep the old one.
func UpdatePackage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var pkg models.Package
		if err := db.First(&pkg, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, &apperrors.NotFoundError{Entity: "Paquete"})
				return
			}
			apperrors.Respond(c, apperrors.Storage("fetch package", err))
			return
		}

		var input PackageInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.NewValidation("", "entrada inválida"))
			return
		}
		if err := validatePackageInput(&input, false); err != nil {
			apperrors.Respond(c, err)
			return
		}

		if input.ServiceID != "" && input.ServiceID != pkg.ServiceID {
			var count int64
			if err := db.Model(&models.Service{}).Where("id = ?", input.ServiceID).Count(&count).Error; err != nil {
				apperrors.Respond(c, apperrors.Storage("check service", err))
				return
			}
			if count == 0 {
				apperrors.Respond(c, &apperrors.NotFoundError{Entity: "Servicio"})
				return
			}
			pkg.ServiceID = input.ServiceID
		}

		pkg.Name = input.Name
		pkg.Quantity = input.Quantity
		pkg.Price = *input.Price
		pkg.DiscountPercentage = input.DiscountPercentage
		pkg.IsPopular = input.IsPopular
		pkg.IsBestSeller = input.IsBestSeller
		if input.Features != nil {
			pkg.Features = input.Features
		}

		if err := db.Save(&pkg).Error; err != nil {
			apperrors.Respond(c, apperrors.Storage("update package", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"mensaje": "Paquete actualizado correctamente",
			"paquete": pkg,
		})
	}
}

// DELETE /paquetes/:id (admin)
//
// Blocked while any order line still references the package, so
// historical orders keep a resolvable package id.
func DeletePackage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var pkg models.Package
		if err := db.First(&pkg, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, &apperrors.NotFoundError{Entity: "Paquete"})
				return
			}
			apperrors.Respond(c, apperrors.Storage("fetch package", err))
			return
		}

		var dependents int64
		if err := db.Model(&models.OrderLine{}).Where("package_id = ?", pkg.ID).Count(&dependents).Error; err != nil {
			apperrors.Respond(c, apperrors.Storage("count order lines", err))
			return
		}
		if dependents > 0 {
			apperrors.Respond(c, &apperrors.HasDependentsError{Entity: "el paquete", Dependent: "detalles de pedido", Count: dependents})
			return
		}

		if err := db.Delete(&pkg).Error; err != nil {
			apperrors.Respond(c, apperrors.Storage("delete package", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"mensaje": "Paquete eliminado correctamente"})
	}
}
