package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pendiente"
	OrderStatusConfirmed  OrderStatus = "confirmado"
	OrderStatusProcessing OrderStatus = "procesando"
	OrderStatusCompleted  OrderStatus = "completado"
	OrderStatusCancelled  OrderStatus = "cancelado"
)

// ParseOrderStatus maps a string to one of the five order states. The
// match is exact, lowercase only. Any other value is rejected; there is
// no terminal-state lock, so every state may transition to every other.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderStatusPending:
		return OrderStatusPending, nil
	case OrderStatusConfirmed:
		return OrderStatusConfirmed, nil
	case OrderStatusProcessing:
		return OrderStatusProcessing, nil
	case OrderStatusCompleted:
		return OrderStatusCompleted, nil
	case OrderStatusCancelled:
		return OrderStatusCancelled, nil
	default:
		return "", errors.New("estado inválido")
	}
}

// Order is immutable after creation except for Status. Customer contact
// fields are captured at checkout, not joined from the user row.
type Order struct {
	ID              string      `gorm:"primaryKey" json:"id"`
	UserID          string      `gorm:"index;not null" json:"usuario_id"`
	Total           float64     `gorm:"not null" json:"total"`
	PaymentMethod   string      `json:"metodo_pago"`
	CustomerName    string      `gorm:"not null" json:"cliente_nombre"`
	CustomerEmail   string      `gorm:"not null" json:"cliente_email"`
	CustomerPhone   string      `json:"cliente_celular"`
	CustomerCountry string      `json:"cliente_pais"`
	CustomerAddress string      `json:"cliente_direccion"`
	Status          OrderStatus `gorm:"type:VARCHAR(20);default:'pendiente'" json:"estado"`
	Lines           []OrderLine `gorm:"foreignKey:OrderID" json:"detalles"`
	CreatedAt       time.Time   `json:"created_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// OrderLine is a frozen copy of what the customer bought. PackageID is
// informational only; the referenced package may be edited or deleted
// later without touching this row.
type OrderLine struct {
	ID          string  `gorm:"primaryKey" json:"id"`
	OrderID     string  `gorm:"index;not null" json:"pedido_id"`
	PackageID   string  `gorm:"index" json:"paquete_id"`
	PackageName string  `gorm:"not null" json:"nombre_paquete"`
	Quantity    int     `gorm:"not null" json:"cantidad"`
	Price       float64 `gorm:"not null" json:"precio"`
}

func (l *OrderLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
