package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartLine references the live package row. Price and discount are never
// copied here: totals are derived from the package's current state until
// checkout freezes them into order lines.
type CartLine struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"index;not null" json:"usuario_id"`
	PackageID string    `gorm:"index;not null" json:"paquete_id"`
	Package   Package   `gorm:"foreignKey:PackageID" json:"paquete"`
	Quantity  int       `gorm:"not null" json:"cantidad"`
	AddedAt   time.Time `json:"added_at"`
}

func (l *CartLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.AddedAt.IsZero() {
		l.AddedAt = time.Now()
	}
	return nil
}
