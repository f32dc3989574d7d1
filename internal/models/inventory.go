package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InventoryRecord is the ledger entry tracked per product. Quantity mirrors
// Product.Stock whenever a record exists; Product.Stock is the authoritative
// copy and the order workflow is the synchronization point. MinQuantity is
// the reorder threshold, settable independently of Product.MinStock.
type InventoryRecord struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Product     primitive.ObjectID `bson:"product" json:"product"`
	ProductName string             `bson:"-" json:"productName,omitempty"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	MinQuantity int                `bson:"minQuantity" json:"minQuantity"`
	LastUpdated time.Time          `bson:"lastUpdated" json:"lastUpdated"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
