package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	CategoryID     string    `gorm:"index;not null" json:"categoria_id"`
	Name           string    `gorm:"not null" json:"nombre"`
	Slug           string    `gorm:"uniqueIndex;not null" json:"slug"`
	Description    string    `json:"descripcion"`
	ImageURL       string    `json:"imagen_url"`
	Rating         float64   `gorm:"default:4.5" json:"rating"`
	SEOTitle       string    `json:"seo_title"`
	SEODescription string    `json:"seo_description"`
	ImageAltText   string    `json:"imagen_alt"`
	Packages       []Package `gorm:"foreignKey:ServiceID" json:"paquetes,omitempty"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
