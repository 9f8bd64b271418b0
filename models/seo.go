package models

import (
	"unicode/utf8"

	"github.com/juanctr3/servicios-app/apperrors"
)

const (
	maxSEOTitleLen       = 60
	maxSEODescriptionLen = 160
)

// ValidateSEO checks the mandatory SEO fields on administrative catalog
// writes. It runs before any mutation so a violation never leaves a
// partial write behind.
func ValidateSEO(name, slug, seoTitle, seoDescription, imageAlt string) error {
	if name == "" {
		return apperrors.NewValidation("nombre", "es requerido")
	}
	if slug == "" {
		return apperrors.NewValidation("slug", "es requerido")
	}
	if seoTitle == "" {
		return apperrors.NewValidation("seo_title", "es requerido")
	}
	if utf8.RuneCountInString(seoTitle) > maxSEOTitleLen {
		return apperrors.NewValidation("seo_title", "máximo 60 caracteres")
	}
	if seoDescription == "" {
		return apperrors.NewValidation("seo_description", "es requerido")
	}
	if utf8.RuneCountInString(seoDescription) > maxSEODescriptionLen {
		return apperrors.NewValidation("seo_description", "máximo 160 caracteres")
	}
	if imageAlt == "" {
		return apperrors.NewValidation("imagen_alt", "es requerido")
	}
	return nil
}
