package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu    sync.Mutex
	calls [][]LowStockItem
	err   error
	panic bool
	done  chan struct{}
}

func (r *recordingNotifier) NotifyLowStock(ctx context.Context, items []LowStockItem) error {
	r.mu.Lock()
	r.calls = append(r.calls, items)
	r.mu.Unlock()
	if r.done != nil {
		close(r.done)
	}
	if r.panic {
		panic("boom")
	}
	return r.err
}

func (r *recordingNotifier) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func waitDone(t *testing.T, done chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("notifier was not invoked")
	}
}

func TestDispatchInvokesNotifierOnce(t *testing.T) {
	n := &recordingNotifier{done: make(chan struct{})}
	items := []LowStockItem{{ProductName: "Baguette", Quantity: 2, MinQuantity: 5}}

	Dispatch(n, items)
	waitDone(t, n.done)

	require.Equal(t, 1, n.callCount())
	assert.Equal(t, items, n.calls[0])
}

func TestDispatchSkipsEmptySet(t *testing.T) {
	n := &recordingNotifier{}
	Dispatch(n, nil)
	Dispatch(nil, []LowStockItem{{ProductName: "Roll"}})

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, n.callCount())
}

func TestDispatchSwallowsErrorsAndPanics(t *testing.T) {
	failing := &recordingNotifier{err: errors.New("smtp down"), done: make(chan struct{})}
	Dispatch(failing, []LowStockItem{{ProductName: "Croissant", Quantity: 1, MinQuantity: 4}})
	waitDone(t, failing.done)

	panicking := &recordingNotifier{panic: true, done: make(chan struct{})}
	// Must not panic the caller.
	Dispatch(panicking, []LowStockItem{{ProductName: "Scone", Quantity: 0, MinQuantity: 2}})
	waitDone(t, panicking.done)
}

func TestFormatLowStockMessage(t *testing.T) {
	msg := FormatLowStockMessage([]LowStockItem{
		{ProductName: "Sourdough", Quantity: 3, MinQuantity: 5},
		{Quantity: 0, MinQuantity: 2},
	})

	assert.Contains(t, msg, "Low stock alert for:")
	assert.Contains(t, msg, "- Sourdough: 3 (min 5)")
	assert.Contains(t, msg, "- Unknown: 0 (min 2)")
}
