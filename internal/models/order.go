package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses. Pending orders move through preparing and ready to
// completed; cancelled is reachable from any non-terminal status.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// Payment methods accepted at the register.
const (
	PaymentCash = "cash"
	PaymentCard = "card"
	PaymentBoth = "both"
)

// Service types.
const (
	ServiceTakeaway = "takeaway"
	ServiceDining   = "dining"
	ServicePhone    = "phone"
)

// OrderItem is one product-and-quantity entry within an order. Price is a
// snapshot taken at order time so historical orders are unaffected by later
// price changes.
type OrderItem struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Name     string             `bson:"name" json:"name"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Price    float64            `bson:"price" json:"price"`
	Total    float64            `bson:"total" json:"total"`
}

// Order is a single customer transaction. Items and pricing are immutable
// after creation; only the status (and completedDate) changes afterwards.
type Order struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	OrderNumber   string              `bson:"orderNumber" json:"orderNumber"`
	Customer      *primitive.ObjectID `bson:"customer,omitempty" json:"customer,omitempty"`
	CustomerPhone string              `bson:"customerPhone,omitempty" json:"customerPhone,omitempty"`
	Items         []OrderItem         `bson:"items" json:"items"`
	Subtotal      float64             `bson:"subtotal" json:"subtotal"`
	Discount      float64             `bson:"discount" json:"discount"`
	Total         float64             `bson:"total" json:"total"`
	PaymentMethod string              `bson:"paymentMethod" json:"paymentMethod"`
	CashAmount    float64             `bson:"cashAmount" json:"cashAmount"`
	CardAmount    float64             `bson:"cardAmount" json:"cardAmount"`
	ServiceType   string              `bson:"serviceType" json:"serviceType"`
	Status        OrderStatus         `bson:"status" json:"status"`
	OrderDate     time.Time           `bson:"orderDate" json:"orderDate"`
	CompletedDate *time.Time          `bson:"completedDate,omitempty" json:"completedDate,omitempty"`
	Notes         string              `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// ValidOrderStatus reports whether value names a known status.
func ValidOrderStatus(value string) bool {
	switch OrderStatus(value) {
	case StatusPending, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether moving from s to next is a legal step of
// the order lifecycle: pending → preparing → ready → completed, with
// cancelled reachable from any non-terminal status.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	switch s {
	case StatusPending:
		return next == StatusPreparing
	case StatusPreparing:
		return next == StatusReady
	case StatusReady:
		return next == StatusCompleted
	}
	return false
}

// ValidPaymentMethod reports whether value is cash, card or both.
func ValidPaymentMethod(value string) bool {
	return value == PaymentCash || value == PaymentCard || value == PaymentBoth
}

// ValidServiceType reports whether value is takeaway, dining or phone.
func ValidServiceType(value string) bool {
	return value == ServiceTakeaway || value == ServiceDining || value == ServicePhone
}
