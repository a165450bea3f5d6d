package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/xdieuxd/BOOKNEST-ETL/pkg/enums"
)

// Trigger coalesces promotion requests. Every staged batch notifies it;
// promotion fires once per quiet period instead of once per batch.
type Trigger struct {
	debounce time.Duration
	fire     func(context.Context, []enums.EntityType)

	mu    sync.Mutex
	dirty map[enums.EntityType]struct{}
	timer *time.Timer
}

// NewTrigger builds a trigger that invokes fire with the dirty entities,
// in dependency order, after debounce of quiet time.
func NewTrigger(debounce time.Duration, fire func(context.Context, []enums.EntityType)) *Trigger {
	if debounce <= 0 {
		debounce = time.Second
	}
	return &Trigger{
		debounce: debounce,
		fire:     fire,
		dirty:    make(map[enums.EntityType]struct{}),
	}
}

// Notify marks an entity as having fresh validated rows. The pending
// timer is pushed back so a burst of batches fires one promotion.
func (t *Trigger) Notify(ctx context.Context, entity enums.EntityType) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.dirty[entity] = struct{}{}
	if t.timer != nil {
		t.timer.Reset(t.debounce)
		return
	}
	t.timer = time.AfterFunc(t.debounce, func() { t.flush(ctx) })
}

// Flush fires immediately if anything is pending. The backstop sweep
// uses this so rows staged right before shutdown still promote.
func (t *Trigger) Flush(ctx context.Context) {
	t.flush(ctx)
}

// Stop cancels any pending fire.
func (t *Trigger) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *Trigger) flush(ctx context.Context) {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	if len(t.dirty) == 0 {
		t.mu.Unlock()
		return
	}
	pending := t.dirty
	t.dirty = make(map[enums.EntityType]struct{})
	t.mu.Unlock()

	ordered := make([]enums.EntityType, 0, len(pending))
	for _, entity := range enums.PromotionOrder {
		if _, ok := pending[entity]; ok {
			ordered = append(ordered, entity)
		}
	}
	if t.fire != nil {
		t.fire(ctx, ordered)
	}
}
