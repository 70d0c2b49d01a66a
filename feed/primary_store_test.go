package feed

import (
	"context"
	"testing"
	"time"

	"github.com/Luismorlan/publicfeed/model"
	"github.com/Luismorlan/publicfeed/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func curriculumIds(rows []model.Curriculum) []string {
	ids := []string{}
	for _, row := range rows {
		ids = append(ids, row.Id)
	}
	return ids
}

func TestGormPrimaryStoreListAndCount(t *testing.T) {
	db := utils.CreateTestDB(t)
	seedThreeItems(t, db)
	utils.TestCreateCurriculum(t, db, utils.TestCurriculumFixture{
		Id: "private", Visibility: model.VisibilityPrivate, UpdatedAt: baseTime.Add(10 * time.Hour),
	})
	store := NewGormPrimaryStore(db)
	ctx := context.Background()

	programming := utils.TestCategoryId(t, db, "programming")
	tests := []struct {
		name   string
		filter model.FeedFilter
		want   []string
		total  int64
	}{
		{"first page", page(1, 2), []string{"c3", "c2"}, 3},
		{"second page", page(2, 2), []string{"c1"}, 3},
		{"past the end", page(5, 2), []string{}, 3},
		{"category", model.NewFeedFilter(&programming, nil, nil, 1, 20), []string{"c3", "c1"}, 2},
		{"single tag", model.NewFeedFilter(nil, []string{"backend"}, nil, 1, 20), []string{"c3", "c1"}, 2},
		{"all tags required", model.NewFeedFilter(nil, []string{"backend", "go"}, nil, 1, 20), []string{"c1"}, 1},
		{"unknown tag", model.NewFeedFilter(nil, []string{"go", "rust"}, nil, 1, 20), []string{}, 0},
		{"search title", model.NewFeedFilter(nil, nil, strPtr("WATER"), 1, 20), []string{"c2"}, 1},
		{"search owner", model.NewFeedFilter(nil, nil, strPtr("carol"), 1, 20), []string{"c3"}, 1},
		{"search wildcard is literal", model.NewFeedFilter(nil, nil, strPtr("%"), 1, 20), []string{}, 0},
		{"combined", model.NewFeedFilter(&programming, []string{"backend"}, strPtr("intro"), 1, 20), []string{"c1"}, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rows, err := store.ListPublic(ctx, tc.filter)
			require.NoError(t, err)
			assert.Equal(t, tc.want, curriculumIds(rows))

			total, err := store.CountPublic(ctx, tc.filter)
			require.NoError(t, err)
			assert.Equal(t, tc.total, total)
		})
	}
}

func TestGormPrimaryStoreLoadsRelations(t *testing.T) {
	db := utils.CreateTestDB(t)
	seedThreeItems(t, db)
	store := NewGormPrimaryStore(db)

	rows, err := store.ListPublic(context.Background(), page(1, 20))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	c2 := rows[1]
	assert.Equal(t, "bob", c2.User.Name)
	assert.Equal(t, 2, c2.TotalWeeks())
	assert.Equal(t, 3, c2.TotalLessons())
	assert.True(t, baseTime.Add(time.Hour).Equal(c2.UpdatedAt))
}

func TestGormPrimaryStoreLatestPublic(t *testing.T) {
	db := utils.CreateTestDB(t)
	seedThreeItems(t, db)
	utils.TestCreateCurriculum(t, db, utils.TestCurriculumFixture{
		Id: "private", Visibility: model.VisibilityPrivate, UpdatedAt: baseTime.Add(10 * time.Hour),
	})
	store := NewGormPrimaryStore(db)

	rows, err := store.LatestPublic(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"c3", "c2"}, curriculumIds(rows))
}

func TestGormPrimaryStoreTieBreak(t *testing.T) {
	db := utils.CreateTestDB(t)
	for _, id := range []string{"b", "c", "a"} {
		utils.TestCreateCurriculum(t, db, utils.TestCurriculumFixture{Id: id, UpdatedAt: baseTime})
	}
	rows, err := NewGormPrimaryStore(db).ListPublic(context.Background(), page(1, 20))
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, curriculumIds(rows))
}

func TestGormPrimaryStoreCategoryAndTags(t *testing.T) {
	db := utils.CreateTestDB(t)
	seedThreeItems(t, db)
	bare := utils.TestCreateCurriculum(t, db, utils.TestCurriculumFixture{})
	store := NewGormPrimaryStore(db)
	ctx := context.Background()

	category, err := store.CategoryOf(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, category)
	assert.Equal(t, "programming", category.Name)
	assert.Equal(t, utils.TestCategoryId(t, db, "programming"), category.Id)
	assert.Equal(t, "#3B82F6", category.Color)

	category, err = store.CategoryOf(ctx, bare)
	require.NoError(t, err)
	assert.Nil(t, category)

	tags, err := store.TagsOf(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"backend", "go"}, tags)

	tags, err = store.TagsOf(ctx, bare)
	require.NoError(t, err)
	assert.NotNil(t, tags)
	assert.Empty(t, tags)
}
