package feed

import (
	"context"
	"testing"
	"time"

	"github.com/Luismorlan/publicfeed/cache"
	"github.com/Luismorlan/publicfeed/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedServiceGetPublicFeed(t *testing.T) {
	env := newTestEnv(t)
	seedThreeItems(t, env.db)
	service := NewFeedService(env.repo)
	ctx := context.Background()

	page, err := service.GetPublicFeed(ctx, FeedQuery{Page: 1, ItemsPerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalCount)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.ItemsPerPage)
	assert.True(t, page.HasNext)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "c3", page.Items[0].ItemID)
	assert.Equal(t, "Backend systems", page.Items[0].Title)
	assert.Equal(t, "Carol", page.Items[0].OwnerName)
	assert.Equal(t, "programming", *page.Items[0].CategoryName)
	assert.Equal(t, []string{"backend"}, page.Items[0].Tags)
	assert.True(t, baseTime.Add(2*time.Hour).Equal(page.Items[0].UpdatedAt))

	page, err = service.GetPublicFeed(ctx, FeedQuery{Page: 2, ItemsPerPage: 2})
	require.NoError(t, err)
	assert.False(t, page.HasNext)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "c1", page.Items[0].ItemID)
}

func TestFeedServiceDefaultsAndFilters(t *testing.T) {
	env := newTestEnv(t)
	seedThreeItems(t, env.db)
	service := NewFeedService(env.repo)
	ctx := context.Background()

	page, err := service.GetPublicFeed(ctx, FeedQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.ItemsPerPage)
	assert.False(t, page.HasNext)
	assert.Len(t, page.Items, 3)

	art := utils.TestCategoryId(t, env.db, "art")
	page, err = service.GetPublicFeed(ctx, FeedQuery{CategoryID: art, Tags: []string{"painting"}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "c2", page.Items[0].ItemID)
	assert.Equal(t, 2, page.Items[0].TotalChildCount)
	assert.Equal(t, 3, page.Items[0].TotalSubChildCount)
}

func TestFeedServiceUncategorizedItem(t *testing.T) {
	env := newTestEnv(t)
	utils.TestCreateCurriculum(t, env.db, utils.TestCurriculumFixture{Id: "bare"})
	page, err := NewFeedService(env.repo).GetPublicFeed(context.Background(), FeedQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Nil(t, page.Items[0].CategoryName)
	assert.Nil(t, page.Items[0].CategoryColor)
	assert.NotNil(t, page.Items[0].Tags)
	assert.Empty(t, page.Items[0].Tags)
}

func TestFeedServiceRefresh(t *testing.T) {
	env := newTestEnv(t)
	seedThreeItems(t, env.db)
	service := NewFeedService(env.repo)
	ctx := context.Background()

	assert.Equal(t, 3, service.WarmUp(ctx, 0).Warmed)
	assert.Equal(t, int64(3), service.CacheStats(ctx).Size)

	service.RefreshFeedItem(ctx, "c2")
	assert.Equal(t, int64(2), service.CacheStats(ctx).Size)

	service.RefreshEntireFeed(ctx)
	stats := service.CacheStats(ctx)
	assert.Equal(t, int64(0), stats.Size)
	assert.Equal(t, cache.DefaultIndexKey, stats.KeyName)
}

func TestFeedServicePrimaryFailure(t *testing.T) {
	env := newTestEnv(t)
	env.primary.failList = true
	_, err := NewFeedService(env.repo).GetPublicFeed(context.Background(), FeedQuery{})
	assert.Error(t, err)
}

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{"go", "backend"}, ParseTags("go, backend"))
	assert.Equal(t, []string{"go"}, ParseTags(" ,go,, "))
	assert.Equal(t, []string{}, ParseTags(""))
}
