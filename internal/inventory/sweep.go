package inventory

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"bakery/internal/metrics"
	"bakery/internal/notify"
)

// Sweeper periodically scans the ledger for low-stock items and alerts the
// notifier. It runs independently of order traffic; a failed sweep is logged
// and never prevents the next scheduled run.
type Sweeper struct {
	DB       *mongo.Database
	Notifier notify.Notifier
	Interval time.Duration
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (s *Sweeper) Run(ctx context.Context) {
	interval := s.Interval
	if interval <= 0 {
		interval = time.Hour
	}

	log.Printf("[SWEEP] [INFO] low stock sweep scheduled every %s", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[SWEEP] [INFO] low stock sweep stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	records, err := FindLowStock(sweepCtx, s.DB)
	if err != nil {
		log.Printf("[SWEEP] [ERROR] low stock query failed: %v", err)
		metrics.SweepRan("query_error")
		return
	}
	if len(records) == 0 {
		metrics.SweepRan("ok")
		return
	}

	if err := s.Notifier.NotifyLowStock(sweepCtx, AlertItems(records)); err != nil {
		log.Printf("[SWEEP] [ERROR] low stock alert failed: %v", err)
		metrics.SweepRan("notify_error")
		return
	}

	log.Printf("[SWEEP] [INFO] alerted %d low stock item(s)", len(records))
	metrics.LowStockAlerted()
	metrics.SweepRan("ok")
}
