package notify

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// LowStockItem is one product at or below its reorder threshold, fully
// resolved (name attached) before delivery.
type LowStockItem struct {
	ProductName string
	Quantity    int
	MinQuantity int
}

// Notifier delivers low-stock alerts. Delivery is best-effort, at most once
// per trigger; callers must never let a Notifier failure propagate into the
// primary operation.
type Notifier interface {
	NotifyLowStock(ctx context.Context, items []LowStockItem) error
}

// Dispatch invokes the notifier on a detached goroutine. Errors and panics
// are logged and discarded so notification latency or failure can never
// delay or fail the response already granted to the caller.
func Dispatch(n Notifier, items []LowStockItem) {
	if n == nil || len(items) == 0 {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[NOTIFY] [ERROR] panic recovered: %v", r)
			}
		}()
		if err := n.NotifyLowStock(context.Background(), items); err != nil {
			log.Printf("[NOTIFY] [ERROR] low stock alert failed: %v", err)
		}
	}()
}

// FormatLowStockMessage renders the alert body shared by all channels.
func FormatLowStockMessage(items []LowStockItem) string {
	var b strings.Builder
	b.WriteString("Low stock alert for:\n")
	for _, item := range items {
		name := item.ProductName
		if name == "" {
			name = "Unknown"
		}
		fmt.Fprintf(&b, "- %s: %d (min %d)\n", name, item.Quantity, item.MinQuantity)
	}
	return b.String()
}

// Noop is used when no alert channel is enabled.
type Noop struct{}

func (Noop) NotifyLowStock(ctx context.Context, items []LowStockItem) error {
	return nil
}
