package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product categories carried by the catalog.
const (
	CategoryBread    = "bread"
	CategoryCake     = "cake"
	CategoryPastry   = "pastry"
	CategoryBeverage = "beverage"
	CategoryOther    = "other"
)

// DefaultMinStock is the reorder threshold applied when a product does not
// define its own.
const DefaultMinStock = 5

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Price       float64            `bson:"price" json:"price"`
	Cost        float64            `bson:"cost" json:"cost"`
	Category    string             `bson:"category" json:"category"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Stock       int                `bson:"stock" json:"stock"`
	MinStock    int                `bson:"minStock" json:"minStock"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	Barcode     string             `bson:"barcode,omitempty" json:"barcode,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ValidCategory reports whether value is one of the known product categories.
func ValidCategory(value string) bool {
	switch value {
	case CategoryBread, CategoryCake, CategoryPastry, CategoryBeverage, CategoryOther:
		return true
	}
	return false
}

// ReorderThreshold returns the product's own threshold or the default.
func (p Product) ReorderThreshold() int {
	if p.MinStock > 0 {
		return p.MinStock
	}
	return DefaultMinStock
}
