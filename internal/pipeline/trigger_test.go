package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xdieuxd/BOOKNEST-ETL/pkg/enums"
)

type fireRecorder struct {
	mu    sync.Mutex
	fired [][]enums.EntityType
}

func (f *fireRecorder) fire(_ context.Context, entities []enums.EntityType) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fired = append(f.fired, entities)
}

func (f *fireRecorder) batches() [][]enums.EntityType {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]enums.EntityType, len(f.fired))
	copy(out, f.fired)
	return out
}

func TestTriggerCoalescesIntoOnePass(t *testing.T) {
	rec := &fireRecorder{}
	tr := NewTrigger(20*time.Millisecond, rec.fire)
	defer tr.Stop()
	ctx := context.Background()

	// A burst of notifications inside the debounce window fires once,
	// with dirty entities ordered for promotion.
	tr.Notify(ctx, enums.EntityOrder)
	tr.Notify(ctx, enums.EntityBook)
	tr.Notify(ctx, enums.EntityBook)
	tr.Notify(ctx, enums.EntityCustomer)

	require.Eventually(t, func() bool {
		return len(rec.batches()) == 1
	}, time.Second, 5*time.Millisecond)

	batch := rec.batches()[0]
	assert.Equal(t, []enums.EntityType{
		enums.EntityCustomer, enums.EntityBook, enums.EntityOrder,
	}, batch)
}

func TestTriggerFlushFiresPendingImmediately(t *testing.T) {
	rec := &fireRecorder{}
	tr := NewTrigger(time.Hour, rec.fire)
	defer tr.Stop()
	ctx := context.Background()

	tr.Notify(ctx, enums.EntityInvoice)
	tr.Flush(ctx)

	batches := rec.batches()
	require.Len(t, batches, 1)
	assert.Equal(t, []enums.EntityType{enums.EntityInvoice}, batches[0])
}

func TestTriggerFlushWithoutDirtyIsNoop(t *testing.T) {
	rec := &fireRecorder{}
	tr := NewTrigger(time.Hour, rec.fire)
	defer tr.Stop()

	tr.Flush(context.Background())
	assert.Empty(t, rec.batches())
}

func TestTriggerStopCancelsPending(t *testing.T) {
	rec := &fireRecorder{}
	tr := NewTrigger(30*time.Millisecond, rec.fire)
	ctx := context.Background()

	tr.Notify(ctx, enums.EntityCart)
	tr.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, rec.batches())
}
