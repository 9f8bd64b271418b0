package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"not null" json:"nombre"`
	Slug           string    `gorm:"uniqueIndex;not null" json:"slug"`
	Description    string    `json:"descripcion"`
	ImageURL       string    `json:"imagen_url"`
	Icon           string    `json:"icono"`
	SEOTitle       string    `json:"seo_title"`
	SEODescription string    `json:"seo_description"`
	ImageAltText   string    `json:"imagen_alt"`
	Services       []Service `gorm:"foreignKey:CategoryID" json:"servicios,omitempty"`
}

func (cat *Category) BeforeCreate(tx *gorm.DB) error {
	if cat.ID == "" {
		cat.ID = uuid.NewString()
	}
	return nil
}
