package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Package struct {
	ID                 string   `gorm:"primaryKey" json:"id"`
	ServiceID          string   `gorm:"index;not null" json:"servicio_id"`
	Name               string   `gorm:"not null" json:"nombre"`
	Quantity           int      `gorm:"not null" json:"cantidad"`
	Price              float64  `gorm:"not null" json:"precio"`
	DiscountPercentage float64  `json:"descuento_porcentaje"`
	IsPopular          bool     `json:"es_popular"`
	IsBestSeller       bool     `json:"es_mas_vendido"`
	Features           []string `gorm:"serializer:json" json:"caracteristicas"`
}

func (p *Package) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// EffectivePrice is the discounted unit price used for live cart totals.
func (p *Package) EffectivePrice() float64 {
	return p.Price * (1 - p.DiscountPercentage/100)
}
