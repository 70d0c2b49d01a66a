package feed

import (
	"context"
	"time"

	"github.com/Luismorlan/publicfeed/cache"
	"github.com/Luismorlan/publicfeed/model"
	. "github.com/Luismorlan/publicfeed/utils/log"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultItemTTL         = 300 * time.Second
	DefaultIndexTTL        = 300 * time.Second
	DefaultCacheTimeout    = 200 * time.Millisecond
	DefaultPrimaryTimeout  = 5 * time.Second
	DefaultWarmUpLimit     = 100
	DefaultColdWarmUpLimit = 100

	cacheStatsUnavailable = "Unable to get cache stats"
	coldWarmUpKey         = "cold"
)

type FeedRepositoryConfig struct {
	IndexKey  string
	KeyPrefix string
	ItemTTL   time.Duration
	IndexTTL  time.Duration
	// Bound for every single cache call. Exceeding it counts as unavailable.
	CacheTimeout time.Duration
	// Bound for every single primary store call. Exceeding it is an error.
	PrimaryTimeout time.Duration
	// Number of most recent items warmed after a read found the index empty.
	// 0 disables it. The whole cold warm up shares one PrimaryTimeout.
	ColdWarmUpLimit int
}

func DefaultFeedRepositoryConfig() FeedRepositoryConfig {
	return FeedRepositoryConfig{
		IndexKey:        cache.DefaultIndexKey,
		KeyPrefix:       cache.DefaultKeyPrefix,
		ItemTTL:         DefaultItemTTL,
		IndexTTL:        DefaultIndexTTL,
		CacheTimeout:    DefaultCacheTimeout,
		PrimaryTimeout:  DefaultPrimaryTimeout,
		ColdWarmUpLimit: DefaultColdWarmUpLimit,
	}
}

// WarmUpReport summarizes one warm-up run. Err is set only when the list of
// items to warm could not be read, per item failures are counted in Failed.
type WarmUpReport struct {
	Warmed int
	Failed int
	Err    error
}

type CacheStats struct {
	Size       int64  `json:"total_cached_items"`
	TTLSeconds int64  `json:"cache_ttl_seconds"`
	KeyName    string `json:"cache_key"`
	Error      string `json:"error,omitempty"`
}

// FeedRepository serves the public feed from the cache and falls back to the
// primary store. It is safe for concurrent use. Cache failures never surface
// to callers.
type FeedRepository struct {
	store   cache.Store
	primary PrimaryStore
	index   *Index
	keys    cache.KeyParser
	config  FeedRepositoryConfig

	// Concurrent cold readers share a single warm up.
	coldWarmUps singleflight.Group
}

func NewFeedRepository(store cache.Store, primary PrimaryStore, config FeedRepositoryConfig) *FeedRepository {
	defaults := DefaultFeedRepositoryConfig()
	if config.IndexKey == "" {
		config.IndexKey = defaults.IndexKey
	}
	if config.ItemTTL <= 0 {
		config.ItemTTL = defaults.ItemTTL
	}
	if config.IndexTTL <= 0 {
		config.IndexTTL = defaults.IndexTTL
	}
	if config.CacheTimeout <= 0 {
		config.CacheTimeout = defaults.CacheTimeout
	}
	if config.PrimaryTimeout <= 0 {
		config.PrimaryTimeout = defaults.PrimaryTimeout
	}
	if config.ColdWarmUpLimit < 0 {
		config.ColdWarmUpLimit = 0
	}
	return &FeedRepository{
		store:   store,
		primary: primary,
		index:   NewIndex(store, config.IndexKey, config.CacheTimeout),
		keys:    cache.NewKeyParser(config.KeyPrefix),
		config:  config,
	}
}

// GetPublicFeed returns the total number of matching items and the requested
// page. The page is served from the cache when it holds at least one matching
// item, in which case the total is the size of the index. Otherwise the page
// and its exact total are read from the primary store and cached. Only primary
// store failures are returned.
func (r *FeedRepository) GetPublicFeed(ctx context.Context, filter model.FeedFilter) (int64, []*model.FeedItem, error) {
	filter = filter.Normalize()

	total, items, cold, status := r.readFromCache(ctx, filter)
	if status == cache.Hit {
		return total, items, nil
	}

	total, items, err := r.readFromPrimary(ctx, filter)
	if err != nil {
		return 0, nil, err
	}

	// An unavailable cache is not written to, every write would wait out
	// its own CacheTimeout.
	if status == cache.Unavailable {
		return total, items, nil
	}
	if r.populate(ctx, items) == cache.Unavailable {
		return total, items, nil
	}
	if cold && r.config.ColdWarmUpLimit > 0 && (total > 0 || filter.IsConstrained()) {
		r.coldWarmUp()
	}
	return total, items, nil
}

// readFromCache serves a page from the cache. status is Hit when the page was
// served, Miss when it has to come from the primary store and Unavailable when
// in addition the cache should not be written to. cold reports an empty index.
func (r *FeedRepository) readFromCache(ctx context.Context, filter model.FeedFilter) (total int64, items []*model.FeedItem, cold bool, status cache.Status) {
	ids, status := r.index.Top(ctx, filter.Offset(), filter.Limit())
	if status != cache.Hit {
		Log.Warn("feed index unavailable, falling back to primary store")
		return 0, nil, false, cache.Unavailable
	}
	if len(ids) == 0 {
		size, status := r.index.Size(ctx)
		if status != cache.Hit {
			return 0, nil, false, cache.Unavailable
		}
		return 0, nil, size == 0, cache.Miss
	}

	items = make([]*model.FeedItem, 0, len(ids))
	for _, id := range ids {
		item, status := r.getItem(ctx, id)
		switch status {
		case cache.Unavailable:
			Log.Warn("feed item cache unavailable, falling back to primary store")
			return 0, nil, false, cache.Unavailable
		case cache.Miss:
			continue
		}
		if MatchesFilter(item, &filter) {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return 0, nil, false, cache.Miss
	}

	size, status := r.index.Size(ctx)
	if status != cache.Hit {
		return 0, nil, false, cache.Unavailable
	}
	return size, items, false, cache.Hit
}

// coldWarmUp warms ColdWarmUpLimit items within one PrimaryTimeout. It is
// detached from the request so that a cancelled reader does not abort the
// warm up the other readers are waiting on.
func (r *FeedRepository) coldWarmUp() {
	r.coldWarmUps.Do(coldWarmUpKey, func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(context.Background(), r.config.PrimaryTimeout)
		defer cancel()
		report := r.WarmUp(ctx, r.config.ColdWarmUpLimit)
		Log.Info("warmed cold feed cache, warmed: ", report.Warmed, " failed: ", report.Failed)
		return report, report.Err
	})
}

// getItem reads and decodes one cached item. A payload that does not decode
// is reported as a miss.
func (r *FeedRepository) getItem(ctx context.Context, itemId string) (*model.FeedItem, cache.Status) {
	ctx, cancel := context.WithTimeout(ctx, r.config.CacheTimeout)
	defer cancel()
	payload, err := r.store.Get(ctx, r.keys.ItemKey(itemId))
	if status := cache.Classify(err); status != cache.Hit {
		return nil, status
	}
	item, err := DecodeFeedItem(payload)
	if err != nil {
		Log.WithError(err).Warn("drop undecodable cached feed item ", itemId)
		return nil, cache.Miss
	}
	return item, cache.Hit
}

// readFromPrimary runs the page query and the count query concurrently.
func (r *FeedRepository) readFromPrimary(ctx context.Context, filter model.FeedFilter) (int64, []*model.FeedItem, error) {
	var (
		total int64
		items []*model.FeedItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		qctx, cancel := context.WithTimeout(gctx, r.config.PrimaryTimeout)
		defer cancel()
		rows, err := r.primary.ListPublic(qctx, filter)
		if err != nil {
			return err
		}
		items = make([]*model.FeedItem, 0, len(rows))
		for i := range rows {
			item, err := r.buildFeedItem(gctx, &rows[i])
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		return nil
	})
	g.Go(func() error {
		qctx, cancel := context.WithTimeout(gctx, r.config.PrimaryTimeout)
		defer cancel()
		var err error
		total, err = r.primary.CountPublic(qctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return 0, nil, errors.Wrap(err, "read public feed from primary store")
	}
	return total, items, nil
}

// buildFeedItem resolves the category and tags of a curriculum row.
func (r *FeedRepository) buildFeedItem(ctx context.Context, row *model.Curriculum) (*model.FeedItem, error) {
	qctx, cancel := context.WithTimeout(ctx, r.config.PrimaryTimeout)
	defer cancel()
	category, err := r.primary.CategoryOf(qctx, row.Id)
	if err != nil {
		return nil, err
	}
	tags, err := r.primary.TagsOf(qctx, row.Id)
	if err != nil {
		return nil, err
	}
	return model.NewFeedItem(row, category, tags), nil
}

// populate caches the fallback page. It stops at the first unavailable write
// and reports it.
func (r *FeedRepository) populate(ctx context.Context, items []*model.FeedItem) cache.Status {
	if len(items) == 0 {
		return cache.Hit
	}
	for _, item := range items {
		if status := r.cacheItem(ctx, item); status == cache.Unavailable {
			return status
		}
	}
	status := r.index.RefreshTTL(ctx, r.config.IndexTTL)
	if status != cache.Hit {
		Log.Warn("fail to refresh feed index ttl: ", status)
	}
	return status
}

// cacheItem stores the item payload then its index entry. It does not touch
// the index TTL. An item that cannot be encoded is reported as a Miss, the
// cache itself is still usable.
func (r *FeedRepository) cacheItem(ctx context.Context, item *model.FeedItem) cache.Status {
	payload, err := EncodeFeedItem(item)
	if err != nil {
		Log.WithError(err).Error("fail to encode feed item ", item.ItemID)
		return cache.Miss
	}

	setCtx, cancel := context.WithTimeout(ctx, r.config.CacheTimeout)
	err = r.store.Set(setCtx, r.keys.ItemKey(item.ItemID), payload, r.config.ItemTTL)
	cancel()
	if err != nil {
		Log.WithError(err).Warn("fail to cache feed item ", item.ItemID)
		return cache.Classify(err)
	}

	status := r.index.Upsert(ctx, item.ItemID, item.Score)
	if status != cache.Hit {
		Log.Warn("fail to index feed item ", item.ItemID, ": ", status)
	}
	return status
}

// CacheItem overwrites the cached snapshot of an item and its rank. Used after
// a write to the item so that readers see it before the TTL runs out.
func (r *FeedRepository) CacheItem(ctx context.Context, item *model.FeedItem) {
	item.Normalize()
	if r.cacheItem(ctx, item) != cache.Hit {
		return
	}
	if status := r.index.RefreshTTL(ctx, r.config.IndexTTL); status != cache.Hit {
		Log.Warn("fail to refresh feed index ttl: ", status)
	}
}

// RemoveFromCache drops an item from the cache and the index.
func (r *FeedRepository) RemoveFromCache(ctx context.Context, itemId string) {
	delCtx, cancel := context.WithTimeout(ctx, r.config.CacheTimeout)
	err := r.store.Delete(delCtx, r.keys.ItemKey(itemId))
	cancel()
	if err != nil {
		Log.WithError(err).Warn("fail to delete cached feed item ", itemId)
	}
	if status := r.index.Remove(ctx, itemId); status != cache.Hit {
		Log.Warn("fail to remove feed item ", itemId, " from index: ", status)
	}
}

// InvalidateAll deletes the index. Item payloads are left to expire, they are
// unreachable from reads without an index entry.
func (r *FeedRepository) InvalidateAll(ctx context.Context) {
	if status := r.index.Drop(ctx); status != cache.Hit {
		Log.Warn("fail to drop feed index: ", status)
		return
	}
	Log.Info("feed index dropped: ", r.index.Key())
}

// WarmUp caches the limit most recent public items. A non-positive limit means
// DefaultWarmUpLimit. Items are warmed independently, one failing does not
// stop the others. Once the cache is unavailable or ctx is done the remaining
// items are counted as failed without being tried.
func (r *FeedRepository) WarmUp(ctx context.Context, limit int) WarmUpReport {
	if limit <= 0 {
		limit = DefaultWarmUpLimit
	}

	qctx, cancel := context.WithTimeout(ctx, r.config.PrimaryTimeout)
	rows, err := r.primary.LatestPublic(qctx, limit)
	cancel()
	if err != nil {
		Log.WithError(err).Error("feed warm up failed")
		return WarmUpReport{Err: errors.Wrap(err, "warm up feed cache")}
	}

	report := WarmUpReport{}
	for i := range rows {
		if ctx.Err() != nil {
			report.Failed += len(rows) - i
			break
		}
		item, err := r.buildFeedItem(ctx, &rows[i])
		if err != nil {
			Log.WithError(err).Warn("skip warming feed item ", rows[i].Id)
			report.Failed++
			continue
		}
		status := r.cacheItem(ctx, item)
		if status == cache.Unavailable {
			report.Failed += len(rows) - i
			break
		}
		if status != cache.Hit {
			report.Failed++
			continue
		}
		report.Warmed++
	}
	if report.Warmed > 0 {
		if status := r.index.RefreshTTL(ctx, r.config.IndexTTL); status != cache.Hit {
			Log.Warn("fail to refresh feed index ttl: ", status)
		}
	}
	return report
}

// GetCacheStats never fails, an unreachable cache is reported in Error.
func (r *FeedRepository) GetCacheStats(ctx context.Context) CacheStats {
	stats := CacheStats{KeyName: r.index.Key()}
	size, status := r.index.Size(ctx)
	if status != cache.Hit {
		stats.Error = cacheStatsUnavailable
		return stats
	}
	ttl, status := r.index.TTL(ctx)
	if status != cache.Hit {
		stats.Error = cacheStatsUnavailable
		return stats
	}
	stats.Size = size
	if ttl < 0 {
		// -1 without expiry, -2 for a missing index, as redis reports them.
		stats.TTLSeconds = int64(ttl)
	} else {
		stats.TTLSeconds = int64(ttl / time.Second)
	}
	return stats
}
