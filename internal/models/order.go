package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order statuses.
const (
	OrderPending   = "EN_ATTENTE"
	OrderConfirmed = "CONFIRMEE"
	OrderInProcess = "EN_COURS"
	OrderDelivered = "LIVREE"
	OrderCancelled = "ANNULEE"
	OrderQuote     = "DEVIS"
)

// OrderStatuses lists every valid status.
var OrderStatuses = []string{
	OrderPending, OrderConfirmed, OrderInProcess, OrderDelivered, OrderCancelled, OrderQuote,
}

// Order is a customer order or quote request ("devis").
type Order struct {
	ID           string      `gorm:"primaryKey;size:36" json:"id"`
	UserID       string      `gorm:"index;size:36;not null" json:"userId"`
	Status       string      `gorm:"size:16;index;not null" json:"status"`
	Total        float64     `gorm:"not null;default:0" json:"total"`
	Items        []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	DateCreation time.Time   `gorm:"autoCreateTime" json:"dateCreation"`
	UpdatedAt    time.Time   `json:"updatedAt"`

	User *User `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Status == "" {
		o.Status = OrderPending
	}
	return nil
}

// OrderItem is one line of an order; Price is the unit price at order time.
type OrderItem struct {
	ID        string  `gorm:"primaryKey;size:36" json:"id"`
	OrderID   string  `gorm:"index;size:36;not null" json:"orderId"`
	ProductID string  `gorm:"index;size:36;not null" json:"productId"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	Price     float64 `gorm:"not null" json:"price"`

	Product Product `gorm:"constraint:OnDelete:RESTRICT" json:"product"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
