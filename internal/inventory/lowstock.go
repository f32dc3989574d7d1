// Package inventory keeps the stock ledger in sync with the product catalog
// and detects items at or below their reorder threshold.
package inventory

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bakery/internal/models"
	"bakery/internal/notify"
)

// lowStockFilter matches ledger records at or below their own threshold.
// The same `quantity <= minQuantity` semantics as IsLowStock.
var lowStockFilter = bson.M{
	"$expr": bson.M{"$lte": bson.A{"$quantity", "$minQuantity"}},
}

// IsLowStock is the single low-stock predicate shared by per-order
// reconciliation, the alerts endpoint and the scheduled sweep. The boundary
// is inclusive: a quantity equal to the threshold is low.
func IsLowStock(quantity, minQuantity int) bool {
	return quantity <= minQuantity
}

// Reconcile overwrites the ledger quantity for a product whose catalog stock
// just changed, stamping lastUpdated. It returns the updated record, or nil
// when the product was never tracked in the ledger — absence is valid.
// Synchronization is one-directional (catalog → ledger) because the catalog
// stock field is the one decremented by order fulfillment.
func Reconcile(ctx context.Context, db *mongo.Database, productID primitive.ObjectID, newStock int) (*models.InventoryRecord, error) {
	now := time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var record models.InventoryRecord
	err := db.Collection("inventory").FindOneAndUpdate(
		ctx,
		bson.M{"product": productID},
		bson.M{"$set": bson.M{
			"quantity":    newStock,
			"lastUpdated": now,
			"updatedAt":   now,
		}},
		opts,
	).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// FindLowStock returns all ledger records satisfying IsLowStock, with
// product names attached.
func FindLowStock(ctx context.Context, db *mongo.Database) ([]models.InventoryRecord, error) {
	cursor, err := db.Collection("inventory").Find(ctx, lowStockFilter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.InventoryRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}

	if err := AttachProductNames(ctx, db, records); err != nil {
		return nil, err
	}
	return records, nil
}

// AttachProductNames resolves ProductName for each record in place.
func AttachProductNames(ctx context.Context, db *mongo.Database, records []models.InventoryRecord) error {
	if len(records) == 0 {
		return nil
	}

	ids := make([]primitive.ObjectID, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.Product)
	}

	cursor, err := db.Collection("products").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return err
	}

	nameByID := make(map[primitive.ObjectID]string, len(products))
	for _, product := range products {
		nameByID[product.ID] = product.Name
	}

	for i := range records {
		records[i].ProductName = nameByID[records[i].Product]
	}
	return nil
}

// SortByProductName orders ledger records alphabetically by the resolved
// product name, matching how the inventory listing is presented.
func SortByProductName(records []models.InventoryRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].ProductName < records[j].ProductName
	})
}

// AlertItems converts ledger records into the notifier's payload.
func AlertItems(records []models.InventoryRecord) []notify.LowStockItem {
	items := make([]notify.LowStockItem, 0, len(records))
	for _, record := range records {
		items = append(items, notify.LowStockItem{
			ProductName: record.ProductName,
			Quantity:    record.Quantity,
			MinQuantity: record.MinQuantity,
		})
	}
	return items
}
