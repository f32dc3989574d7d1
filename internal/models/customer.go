package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WalkInCustomerName is the placeholder assigned when an order arrives with a
// phone number not yet on file.
const WalkInCustomerName = "Walk-in Customer"

type Customer struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Phone         string             `bson:"phone" json:"phone"`
	Email         string             `bson:"email,omitempty" json:"email,omitempty"`
	Address       string             `bson:"address,omitempty" json:"address,omitempty"`
	TotalOrders   int                `bson:"totalOrders" json:"totalOrders"`
	TotalSpent    float64            `bson:"totalSpent" json:"totalSpent"`
	LastOrderDate *time.Time         `bson:"lastOrderDate,omitempty" json:"lastOrderDate,omitempty"`
	IsActive      bool               `bson:"isActive" json:"isActive"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
