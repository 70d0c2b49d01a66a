package feed

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Luismorlan/publicfeed/cache"
	"github.com/Luismorlan/publicfeed/model"
	"github.com/Luismorlan/publicfeed/utils"
	"github.com/alicebob/miniredis/v2"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var baseTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// seedThreeItems stores c1, c2, c3 updated one hour apart, c3 most recent.
func seedThreeItems(t *testing.T, db *gorm.DB) {
	utils.TestCreateCurriculum(t, db, utils.TestCurriculumFixture{
		Id: "c1", Title: "Intro to Go", OwnerName: "alice", UpdatedAt: baseTime,
		Weeks: [][]string{{"syntax", "types"}}, Category: "programming", Tags: []string{"go", "backend"},
	})
	utils.TestCreateCurriculum(t, db, utils.TestCurriculumFixture{
		Id: "c2", Title: "Watercolor basics", OwnerName: "bob", UpdatedAt: baseTime.Add(time.Hour),
		Weeks: [][]string{{"paper"}, {"brushes", "washes"}}, Category: "art", Tags: []string{"painting"},
	})
	utils.TestCreateCurriculum(t, db, utils.TestCurriculumFixture{
		Id: "c3", Title: "Backend systems", OwnerName: "Carol", UpdatedAt: baseTime.Add(2 * time.Hour),
		Category: "programming", Tags: []string{"backend"},
	})
}

// seedItems stores n uncategorized curricula updated one minute apart.
func seedItems(t *testing.T, db *gorm.DB, n int) {
	for i := 0; i < n; i++ {
		utils.TestCreateCurriculum(t, db, utils.TestCurriculumFixture{
			Id:        fmt.Sprintf("c%02d", i),
			UpdatedAt: baseTime.Add(time.Duration(i) * time.Minute),
		})
	}
}

// countingPrimary records calls and injects failures into a real store.
type countingPrimary struct {
	PrimaryStore
	lists  int32
	counts int32

	failList        bool
	failCategoryFor string
}

func (p *countingPrimary) ListPublic(ctx context.Context, filter model.FeedFilter) ([]model.Curriculum, error) {
	atomic.AddInt32(&p.lists, 1)
	if p.failList {
		return nil, errors.New("primary store down")
	}
	return p.PrimaryStore.ListPublic(ctx, filter)
}

func (p *countingPrimary) CountPublic(ctx context.Context, filter model.FeedFilter) (int64, error) {
	atomic.AddInt32(&p.counts, 1)
	if p.failList {
		return 0, errors.New("primary store down")
	}
	return p.PrimaryStore.CountPublic(ctx, filter)
}

func (p *countingPrimary) LatestPublic(ctx context.Context, limit int) ([]model.Curriculum, error) {
	if p.failList {
		return nil, errors.New("primary store down")
	}
	return p.PrimaryStore.LatestPublic(ctx, limit)
}

func (p *countingPrimary) CategoryOf(ctx context.Context, curriculumId string) (*model.FeedCategory, error) {
	if curriculumId == p.failCategoryFor {
		return nil, errors.New("category lookup failed")
	}
	return p.PrimaryStore.CategoryOf(ctx, curriculumId)
}

func (p *countingPrimary) listCalls() int {
	return int(atomic.LoadInt32(&p.lists))
}

// hangingStore never answers until the caller gives up.
type hangingStore struct{}

func (hangingStore) wait(ctx context.Context) error {
	<-ctx.Done()
	return errors.Wrap(cache.ErrUnavailable, ctx.Err().Error())
}

func (s hangingStore) Get(ctx context.Context, key string) (string, error) {
	return "", s.wait(ctx)
}

func (s hangingStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return s.wait(ctx)
}

func (s hangingStore) Delete(ctx context.Context, keys ...string) error {
	return s.wait(ctx)
}

func (s hangingStore) ZAdd(ctx context.Context, key string, member string, score float64) error {
	return s.wait(ctx)
}

func (s hangingStore) ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return nil, s.wait(ctx)
}

func (s hangingStore) ZRem(ctx context.Context, key string, member string) error {
	return s.wait(ctx)
}

func (s hangingStore) ZCard(ctx context.Context, key string) (int64, error) {
	return 0, s.wait(ctx)
}

func (s hangingStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return s.wait(ctx)
}

func (s hangingStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	return 0, s.wait(ctx)
}

func (s hangingStore) Ping(ctx context.Context) error {
	return s.wait(ctx)
}

func (s hangingStore) Close() error {
	return nil
}

// hangingWrites serves reads from the wrapped store while every Set hangs.
type hangingWrites struct {
	cache.Store
	sets int32
}

func (s *hangingWrites) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	atomic.AddInt32(&s.sets, 1)
	return hangingStore{}.Set(ctx, key, value, ttl)
}

func (s *hangingWrites) setCalls() int {
	return int(atomic.LoadInt32(&s.sets))
}

// slowCategories delays every category lookup, giving up when ctx is done.
type slowCategories struct {
	PrimaryStore
	delay time.Duration
}

func (p slowCategories) CategoryOf(ctx context.Context, curriculumId string) (*model.FeedCategory, error) {
	select {
	case <-time.After(p.delay):
		return p.PrimaryStore.CategoryOf(ctx, curriculumId)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type testEnv struct {
	db      *gorm.DB
	store   *cache.RedisStore
	redis   *miniredis.Miniredis
	primary *countingPrimary
	repo    *FeedRepository
}

func newTestEnv(t *testing.T) *testEnv {
	db := utils.CreateTestDB(t)
	store, server := utils.CreateTestRedis(t)
	primary := &countingPrimary{PrimaryStore: NewGormPrimaryStore(db)}
	return &testEnv{
		db:      db,
		store:   store,
		redis:   server,
		primary: primary,
		repo:    NewFeedRepository(store, primary, DefaultFeedRepositoryConfig()),
	}
}

func itemIds(items []*model.FeedItem) []string {
	ids := []string{}
	for _, item := range items {
		ids = append(ids, item.ItemID)
	}
	return ids
}

func page(pageNum, itemsPerPage int) model.FeedFilter {
	return model.NewFeedFilter(nil, nil, nil, pageNum, itemsPerPage)
}
