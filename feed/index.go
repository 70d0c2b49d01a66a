package feed

import (
	"context"
	"time"

	"github.com/Luismorlan/publicfeed/cache"
)

// Index is the ranking of feed items, kept in a single sorted set. Members are
// item ids, scores are model.ScoreOf(UpdatedAt). Every call is bounded by
// timeout, and a timeout is reported as cache.Unavailable.
type Index struct {
	store   cache.Store
	key     string
	timeout time.Duration
}

func NewIndex(store cache.Store, key string, timeout time.Duration) *Index {
	return &Index{store: store, key: key, timeout: timeout}
}

func (i *Index) Key() string {
	return i.key
}

// Top returns ids ranked offset..offset+limit-1 by descending score. Equal
// scores come back in descending id order.
func (i *Index) Top(ctx context.Context, offset, limit int) ([]string, cache.Status) {
	if limit <= 0 {
		return []string{}, cache.Hit
	}
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()
	ids, err := i.store.ZRevRange(ctx, i.key, int64(offset), int64(offset+limit-1))
	if err != nil {
		return nil, cache.Classify(err)
	}
	return ids, cache.Hit
}

func (i *Index) Upsert(ctx context.Context, itemId string, score float64) cache.Status {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()
	return cache.Classify(i.store.ZAdd(ctx, i.key, itemId, score))
}

func (i *Index) Remove(ctx context.Context, itemId string) cache.Status {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()
	return cache.Classify(i.store.ZRem(ctx, i.key, itemId))
}

func (i *Index) Size(ctx context.Context) (int64, cache.Status) {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()
	n, err := i.store.ZCard(ctx, i.key)
	if err != nil {
		return 0, cache.Classify(err)
	}
	return n, cache.Hit
}

func (i *Index) RefreshTTL(ctx context.Context, ttl time.Duration) cache.Status {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()
	return cache.Classify(i.store.Expire(ctx, i.key, ttl))
}

func (i *Index) TTL(ctx context.Context) (time.Duration, cache.Status) {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()
	ttl, err := i.store.TTL(ctx, i.key)
	if err != nil {
		return 0, cache.Classify(err)
	}
	return ttl, cache.Hit
}

// Drop deletes the whole index.
func (i *Index) Drop(ctx context.Context) cache.Status {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()
	return cache.Classify(i.store.Delete(ctx, i.key))
}
