package utils

import (
	"fmt"
	"testing"
	"time"

	"github.com/Luismorlan/publicfeed/cache"
	"github.com/Luismorlan/publicfeed/model"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// CreateTestDB opens a migrated in-memory sqlite database that lives as long
// as the test. It is limited to a single connection, since every new
// connection to an in-memory database starts empty.
func CreateTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, DatabaseSetupAndMigration(db))

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

// CreateTestRedis starts an in-process redis and returns a store connected to
// it. Retries are disabled so that a closed server fails fast.
func CreateTestRedis(t *testing.T) (*cache.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	server, err := miniredis.Run()
	require.NoError(t, err)
	store := cache.NewRedisStore(redis.NewClient(&redis.Options{
		Addr:       server.Addr(),
		MaxRetries: -1,
	}))
	t.Cleanup(func() {
		store.Close()
		server.Close()
	})
	return store, server
}

// TestCurriculumFixture describes one curriculum fixture. Zero values get
// sensible defaults.
type TestCurriculumFixture struct {
	Id         string
	Title      string
	OwnerName  string
	Visibility model.Visibility
	UpdatedAt  time.Time
	Weeks      [][]string
	Category   string
	Tags       []string
}

// TestCreateCurriculum inserts a curriculum together with its owner, weeks,
// category and tags. Categories and tags are looked up by name and created on
// first use. Returns the curriculum id.
func TestCreateCurriculum(t *testing.T, db *gorm.DB, fixture TestCurriculumFixture) string {
	t.Helper()
	if fixture.Id == "" {
		fixture.Id = uuid.New().String()
	}
	if fixture.Title == "" {
		fixture.Title = "curriculum " + fixture.Id
	}
	if fixture.OwnerName == "" {
		fixture.OwnerName = "owner"
	}
	if fixture.Visibility == "" {
		fixture.Visibility = model.VisibilityPublic
	}
	if fixture.UpdatedAt.IsZero() {
		fixture.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	}

	user := model.User{
		Id:    uuid.New().String(),
		Email: uuid.New().String() + "@example.com",
		Name:  fixture.OwnerName,
	}
	require.NoError(t, db.Create(&user).Error)

	curriculum := model.Curriculum{
		Id:         fixture.Id,
		UserID:     user.Id,
		Title:      fixture.Title,
		Visibility: fixture.Visibility,
		CreatedAt:  fixture.UpdatedAt.Add(-time.Hour),
		UpdatedAt:  fixture.UpdatedAt,
	}
	// Skip the embedded user, it is already stored and gorm would otherwise
	// upsert it again.
	require.NoError(t, db.Omit("User").Create(&curriculum).Error)

	for i, lessons := range fixture.Weeks {
		encoded := "["
		for j, lesson := range lessons {
			if j > 0 {
				encoded += ","
			}
			encoded += fmt.Sprintf("%q", lesson)
		}
		encoded += "]"
		require.NoError(t, db.Create(&model.WeekSchedule{
			CurriculumID: curriculum.Id,
			WeekNumber:   i + 1,
			Title:        fmt.Sprintf("week %d", i+1),
			Lessons:      datatypes.JSON(encoded),
		}).Error)
	}

	if fixture.Category != "" {
		category := testFindOrCreateCategory(t, db, fixture.Category)
		require.NoError(t, db.Create(&model.CurriculumCategory{
			Id:           curriculum.Id + "_" + category.Id,
			CurriculumID: curriculum.Id,
			CategoryID:   category.Id,
			AssignedBy:   user.Id,
		}).Error)
	}

	for _, name := range fixture.Tags {
		tag := testFindOrCreateTag(t, db, name, user.Id)
		require.NoError(t, db.Create(&model.CurriculumTag{
			Id:           curriculum.Id + "_" + tag.Id,
			CurriculumID: curriculum.Id,
			TagID:        tag.Id,
			AddedBy:      user.Id,
		}).Error)
	}

	return curriculum.Id
}

// TestCategoryId returns the id of the category with the given name.
func TestCategoryId(t *testing.T, db *gorm.DB, name string) string {
	t.Helper()
	var category model.Category
	require.NoError(t, db.Where("name = ?", name).First(&category).Error)
	return category.Id
}

func testFindOrCreateCategory(t *testing.T, db *gorm.DB, name string) model.Category {
	var category model.Category
	err := db.Where(model.Category{Name: name}).Attrs(model.Category{
		Id:       uuid.New().String(),
		Color:    "#3B82F6",
		IsActive: true,
	}).FirstOrCreate(&category).Error
	require.NoError(t, err)
	return category
}

func testFindOrCreateTag(t *testing.T, db *gorm.DB, name string, createdBy string) model.Tag {
	var tag model.Tag
	err := db.Where(model.Tag{Name: name}).Attrs(model.Tag{
		Id:        uuid.New().String(),
		CreatedBy: createdBy,
	}).FirstOrCreate(&tag).Error
	require.NoError(t, err)
	return tag
}
