package serviceControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/juanctr3/servicios-app/apperrors"
	"github.com/juanctr3/servicios-app/models"
)

type ServiceInput struct {
	CategoryID     string  `json:"categoria_id"`
	Name           string  `json:"nombre"`
	Slug           string  `json:"slug"`
	Description    string  `json:"descripcion"`
	ImageURL       string  `json:"imagen_url"`
	Rating         float64 `json:"rating"`
	SEOTitle       string  `json:"seo_title"`
	SEODescription string  `json:"seo_description"`
	ImageAltText   string  `json:"imagen_alt"`
}

// Service slugs are globally unique among services, regardless of
// category.
func slugTaken(db *gorm.DB, slug, excludeID string) (bool, error) {
	var count int64
	q := db.Model(&models.Service{}).Where("slug = ?", slug)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func categoryExists(db *gorm.DB, id string) (bool, error) {
	var count int64
	if err := db.Model(&models.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GET /servicios
func GetAllServices(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var services []models.Service
		if err := db.Order("name ASC").Find(&services).Error; err != nil {
			apperrors.Respond(c, apperrors.Storage("list services", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"servicios": services})
	}
}

// GET /servicios/categoria/:categoria_id
func GetServicesByCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		categoryID := c.Param("categoria_id")
		exists, err := categoryExists(db, categoryID)
		if err != nil {
			apperrors.Respond(c, apperrors.Storage("check category", err))
			return
		}
		if !exists {
			apperrors.Respond(c, &apperrors.NotFoundError{Entity: "Categoría"})
			return
		}

		var services []models.Service
		if err := db.Where("category_id = ?", categoryID).Order("name ASC").Find(&services).Error; err != nil {
			apperrors.Respond(c, apperrors.Storage("list services by category", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"servicios": services})
	}
}

// GET /servicios/:id
func GetServiceByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var service models.Service
		if err := db.First(&service, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, &apperrors.NotFoundError{Entity: "Servicio"})
				return
			}
			apperrors.Respond(c, apperrors.Storage("fetch service", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"servicio": service})
	}
}

// GET /servicios/slug/:slug
func GetServiceBySlug(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var service models.Service
		if err := db.First(&service, "slug = ?", c.Param("slug")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, &apperrors.NotFoundError{Entity: "Servicio"})
				return
			}
			apperrors.Respond(c, apperrors.Storage("fetch service by slug", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"servicio": service})
	}
}

// POST /servicios (admin)
func CreateService(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ServiceInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.NewValidation("", "entrada inválida"))
			return
		}

		if input.CategoryID == "" {
			apperrors.Respond(c, apperrors.NewValidation("categoria_id", "es requerido"))
			return
		}
		if err := models.ValidateSEO(input.Name, input.Slug, input.SEOTitle, input.SEODescription, input.ImageAltText); err != nil {
			apperrors.Respond(c, err)
			return
		}

		exists, err := categoryExists(db, input.CategoryID)
		if err != nil {
			apperrors.Respond(c, apperrors.Storage("check category", err))
			return
		}
		if !exists {
			apperrors.Respond(c, &apperrors.NotFoundError{Entity: "Categoría"})
			return
		}

		taken, err := slugTaken(db, input.Slug, "")
		if err != nil {
			apperrors.Respond(c, apperrors.Storage("check slug", err))
			return
		}
		if taken {
			apperrors.Respond(c, &apperrors.DuplicateSlugError{Entity: "servicio", Slug: input.Slug})
			return
		}

		rating := input.Rating
		if rating == 0 {
			rating = 4.5
		}

		service := models.Service{
			CategoryID:     input.CategoryID,
			Name:           input.Name,
			Slug:           input.Slug,
			Description:    input.Description,
			ImageURL:       input.ImageURL,
			Rating:         rating,
			SEOTitle:       input.SEOTitle,
			SEODescription: input.SEODescription,
			ImageAltText:   input.ImageAltText,
		}
		if err := db.Create(&service).Error; err != nil {
			apperrors.Respond(c, apperrors.Storage("create service", err))
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"mensaje":  "Servicio creado correctamente",
			"servicio": service,
		})
	}
}

// PUT /servicios/:id (admin)
func UpdateService(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var service models.Service
		if err := db.First(&service, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, &apperrors.NotFoundError{Entity: "Servicio"})
				return
			}
			apperrors.Respond(c, apperrors.Storage("fetch service", err))
			return
		}

		var input ServiceInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.NewValidation("", "entrada inválida"))
			return
		}

		if input.CategoryID == "" {
			apperrors.Respond(c, apperrors.NewValidation("categoria_id", "es requerido"))
			return
		}
		if err := models.ValidateSEO(input.Name, input.Slug, input.SEOTitle, input.SEODescription, input.ImageAltText); err != nil {
			apperrors.Respond(c, err)
			return
		}

		exists, err := categoryExists(db, input.CategoryID)
		if err != nil {
			apperrors.Respond(c, apperrors.Storage("check category", err))
			return
		}
		if !exists {
			apperrors.Respond(c, &apperrors.NotFoundError{Entity: "Categoría"})
			return
		}

		taken, err := slugTaken(db, input.Slug, service.ID)
		if err != nil {
			apperrors.Respond(c, apperrors.Storage("check slug", err))
			return
		}
		if taken {
			apperrors.Respond(c, &apperrors.DuplicateSlugError{Entity: "servicio", Slug: input.Slug})
			return
		}

		service.CategoryID = input.CategoryID
		service.Name = input.Name
		service.Slug = input.Slug
		service.Description = input.Description
		service.ImageURL = input.ImageURL
		if input.Rating != 0 {
			service.Rating = input.Rating
		}
		service.SEOTitle = input.SEOTitle
		service.SEODescription = input.SEODescription
		service.ImageAltText = input.ImageAltText

		if err := db.Save(&service).Error; err != nil {
			apperrors.Respond(c, apperrors.Storage("update service", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"mensaje":  "Servicio actualizado correctamente",
			"servicio": service,
		})
	}
}

// DELETE /servicios/:id (admin)
//
// Blocked while any package still references the service.
func DeleteService(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var service models.Service
		if err := db.First(&service, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, &apperrors.NotFoundError{Entity: "Servicio"})
				return
			}
			apperrors.Respond(c, apperrors.Storage("fetch service", err))
			return
		}

		var dependents int64
		if err := db.Model(&models.Package{}).Where("service_id = ?", service.ID).Count(&dependents).Error; err != nil {
			apperrors.Respond(c, apperrors.Storage("count packages", err))
			return
		}
		if dependents > 0 {
			apperrors.Respond(c, &apperrors.HasDependentsError{Entity: "el servicio", Dependent: "paquetes", Count: dependents})
			return
		}

		if err := db.Delete(&service).Error; err != nil {
			apperrors.Respond(c, apperrors.Storage("delete service", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"mensaje": "Servicio eliminado correctamente"})
	}
}
