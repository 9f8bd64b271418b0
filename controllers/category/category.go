package categoryControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/juanctr3/servicios-app/apperrors"
	"github.com/juanctr3/servicios-app/models"
)

type CategoryInput struct {
	Name           string `json:"nombre"`
	Slug           string `json:"slug"`
	Description    string `json:"descripcion"`
	ImageURL       string `json:"imagen_url"`
	Icon           string `json:"icono"`
	SEOTitle       string `json:"seo_title"`
	SEODescription string `json:"seo_description"`
	ImageAltText   string `json:"imagen_alt"`
}

// slugTaken reports whether another category already uses the slug.
func slugTaken(db *gorm.DB, slug, excludeID string) (bool, error) {
	var count int64
	q := db.Model(&models.Category{}).Where("slug = ?", slug)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GET /categorias
func GetAllCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []models.Category
		if err := db.Order("name ASC").Find(&categories).Error; err != nil {
			apperrors.Respond(c, apperrors.Storage("list categories", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"categorias": categories})
	}
}

// GET /categorias/:id
func GetCategoryByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.Category
		if err := db.First(&category, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, &apperrors.NotFoundError{Entity: "Categoría"})
				return
			}
			apperrors.Respond(c, apperrors.Storage("fetch category", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"categoria": category})
	}
}

// GET /categorias/slug/:slug
func GetCategoryBySlug(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.Category
		if err := db.First(&category, "slug = ?", c.Param("slug")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, &apperrors.NotFoundError{Entity: "Categoría"})
				return
			}
			apperrors.Respond(c, apperrors.Storage("fetch category by slug", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"categoria": category})
	}
}

// GET /categorias/:id/servicios/count
func CountCategoryServices(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var category models.Category
		if err := db.First(&category, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, &apperrors.NotFoundError{Entity: "Categoría"})
				return
			}
			apperrors.Respond(c, apperrors.Storage("fetch category", err))
			return
		}
		var count int64
		if err := db.Model(&models.Service{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
			apperrors.Respond(c, apperrors.Storage("count services", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": count})
	}
}

// POST /categorias (admin)
func CreateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CategoryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.NewValidation("", "entrada inválida"))
			return
		}

		if err := models.ValidateSEO(input.Name, input.Slug, input.SEOTitle, input.SEODescription, input.ImageAltText); err != nil {
			apperrors.Respond(c, err)
			return
		}

		taken, err := slugTaken(db, input.Slug, "")
		if err != nil {
			apperrors.Respond(c, apperrors.Storage("check slug", err))
			return
		}
		if taken {
			apperrors.Respond(c, &apperrors.DuplicateSlugError{Entity: "categoría", Slug: input.Slug})
			return
		}

		category := models.Category{
			Name:           input.Name,
			Slug:           input.Slug,
			Description:    input.Description,
			ImageURL:       input.ImageURL,
			Icon:           input.Icon,
			SEOTitle:       input.SEOTitle,
			SEODescription: input.SEODescription,
			ImageAltText:   input.ImageAltText,
		}
		if err := db.Create(&category).Error; err != nil {
			apperrors.Respond(c, apperrors.Storage("create category", err))
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"mensaje":   "Categoría creada correctamente",
			"categoria": category,
		})
	}
}

// PUT /categorias/:id (admin)
func UpdateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.Category
		if err := db.First(&category, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, &apperrors.NotFoundError{Entity: "Categoría"})
				return
			}
			apperrors.Respond(c, apperrors.Storage("fetch category", err))
			return
		}

		var input CategoryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.NewValidation("", "entrada inválida"))
			return
		}

		if err := models.ValidateSEO(input.Name, input.Slug, input.SEOTitle, input.SEODescription, input.ImageAltText); err != nil {
			apperrors.Respond(c, err)
			return
		}

		taken, err := slugTaken(db, input.Slug, category.ID)
		if err != nil {
			apperrors.Respond(c, apperrors.Storage("check slug", err))
			return
		}
		if taken {
			apperrors.Respond(c, &apperrors.DuplicateSlugError{Entity: "categoría", Slug: input.Slug})
			return
		}

		category.Name = input.Name
		category.Slug = input.Slug
		category.Description = input.Description
		category.ImageURL = input.ImageURL
		category.Icon = input.Icon
		category.SEOTitle = input.SEOTitle
		category.SEODescription = input.SEODescription
		category.ImageAltText = input.ImageAltText

		if err := db.Save(&category).Error; err != nil {
			apperrors.Respond(c, apperrors.Storage("update category", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"mensaje":   "Categoría actualizada correctamente",
			"categoria": category,
		})
	}
}

// DELETE /categorias/:id (admin)
//
// Blocked while any service still references the category.
func DeleteCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.Category
		if err := db.First(&category, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, &apperrors.NotFoundError{Entity: "Categoría"})
				return
			}
			apperrors.Respond(c, apperrors.Storage("fetch category", err))
			return
		}

		var dependents int64
		if err := db.Model(&models.Service{}).Where("category_id = ?", category.ID).Count(&dependents).Error; err != nil {
			apperrors.Respond(c, apperrors.Storage("count services", err))
			return
		}
		if dependents > 0 {
			apperrors.Respond(c, &apperrors.HasDependentsError{Entity: "la categoría", Dependent: "servicios", Count: dependents})
			return
		}

		if err := db.Delete(&category).Error; err != nil {
			apperrors.Respond(c, apperrors.Storage("delete category", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"mensaje": "Categoría eliminada correctamente"})
	}
}
