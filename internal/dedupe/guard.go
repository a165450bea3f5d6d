package dedupe

import (
	"context"
	"fmt"
	"time"

	"github.com/xdieuxd/BOOKNEST-ETL/pkg/config"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/enums"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/logger"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/redis"
)

// Guard suppresses redelivered records. The broker promises at-least-once,
// so a record may arrive twice; a SetNX marker keyed on entity, natural key
// and extraction time makes the second delivery a no-op. Markers expire so
// the keyspace stays bounded.
type Guard struct {
	store redis.DedupeStore
	ttl   time.Duration
	log   *logger.Logger
}

// NewGuard builds a guard. A nil store disables deduplication and every
// record is treated as first delivery.
func NewGuard(store redis.DedupeStore, cfg config.DedupeConfig, log *logger.Logger) *Guard {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 168 * time.Hour
	}
	return &Guard{store: store, ttl: ttl, log: log}
}

// FirstDelivery reports whether this is the first time the record has been
// seen. Redis being down fails open: a duplicate slips through to the
// idempotent staging upsert rather than a record being dropped.
func (g *Guard) FirstDelivery(ctx context.Context, entity enums.EntityType, key string, extractedAt time.Time) bool {
	if g.store == nil || key == "" {
		return true
	}
	marker := g.store.DedupeKey(entity.String(), deliveryID(key, extractedAt))
	ok, err := g.store.SetNX(ctx, marker, 1, g.ttl)
	if err != nil {
		if g.log != nil {
			g.log.Warn(g.log.WithRecordKey(ctx, key), "dedupe marker write failed, passing record through")
		}
		return true
	}
	return ok
}

// Forget drops the marker so a record can be replayed on purpose, for
// example after a corrected resubmission.
func (g *Guard) Forget(ctx context.Context, entity enums.EntityType, key string, extractedAt time.Time) error {
	if g.store == nil || key == "" {
		return nil
	}
	marker := g.store.DedupeKey(entity.String(), deliveryID(key, extractedAt))
	return g.store.Del(ctx, marker)
}

func deliveryID(key string, extractedAt time.Time) string {
	return fmt.Sprintf("%s@%s", key, extractedAt.UTC().Format(time.RFC3339))
}
