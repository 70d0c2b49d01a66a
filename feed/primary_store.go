package feed

import (
	"context"
	"strings"

	"github.com/Luismorlan/publicfeed/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// PrimaryStore is the read-only view of the relational store the feed falls
// back to. Rows returned by ListPublic and LatestPublic have User and
// WeekSchedules loaded, ordered by updated_at DESC then id DESC.
type PrimaryStore interface {
	ListPublic(ctx context.Context, filter model.FeedFilter) ([]model.Curriculum, error)
	CountPublic(ctx context.Context, filter model.FeedFilter) (int64, error)
	LatestPublic(ctx context.Context, limit int) ([]model.Curriculum, error)
	// CategoryOf returns nil without error for an uncategorized curriculum.
	CategoryOf(ctx context.Context, curriculumId string) (*model.FeedCategory, error)
	// TagsOf returns tag names ordered by name, never nil.
	TagsOf(ctx context.Context, curriculumId string) ([]string, error)
}

type GormPrimaryStore struct {
	db *gorm.DB
}

var _ PrimaryStore = (*GormPrimaryStore)(nil)

func NewGormPrimaryStore(db *gorm.DB) *GormPrimaryStore {
	return &GormPrimaryStore{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// publicQuery builds a fresh query over public curricula narrowed by the
// filter's category, tags and search. Paging is left to the caller.
func (s *GormPrimaryStore) publicQuery(ctx context.Context, filter model.FeedFilter) *gorm.DB {
	query := s.db.WithContext(ctx).
		Model(&model.Curriculum{}).
		Where("curriculums.visibility = ?", model.VisibilityPublic)

	if filter.SearchQuery != nil {
		pattern := "%" + likeEscaper.Replace(*filter.SearchQuery) + "%"
		query = query.
			Joins("JOIN users ON users.id = curriculums.user_id").
			Where(`(LOWER(curriculums.title) LIKE LOWER(?) ESCAPE '\' OR LOWER(users.name) LIKE LOWER(?) ESCAPE '\')`, pattern, pattern)
	}

	if filter.CategoryID != nil {
		query = query.
			Joins("JOIN curriculum_categories ON curriculum_categories.curriculum_id = curriculums.id").
			Where("curriculum_categories.category_id = ?", *filter.CategoryID)
	}

	if len(filter.Tags) > 0 {
		// Curricula carrying every requested tag.
		tagged := s.db.
			Table("curriculum_tags").
			Select("curriculum_tags.curriculum_id").
			Joins("JOIN tags ON tags.id = curriculum_tags.tag_id").
			Where("tags.name IN ?", filter.Tags).
			Group("curriculum_tags.curriculum_id").
			Having("COUNT(DISTINCT tags.id) = ?", len(filter.Tags))
		query = query.Where("curriculums.id IN (?)", tagged)
	}

	return query
}

func (s *GormPrimaryStore) ListPublic(ctx context.Context, filter model.FeedFilter) ([]model.Curriculum, error) {
	var rows []model.Curriculum
	err := s.withRelations(s.publicQuery(ctx, filter)).
		Order("curriculums.updated_at DESC").
		Order("curriculums.id DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "list public curriculums")
	}
	return rows, nil
}

func (s *GormPrimaryStore) CountPublic(ctx context.Context, filter model.FeedFilter) (int64, error) {
	var total int64
	if err := s.publicQuery(ctx, filter).Count(&total).Error; err != nil {
		return 0, errors.Wrap(err, "count public curriculums")
	}
	return total, nil
}

func (s *GormPrimaryStore) LatestPublic(ctx context.Context, limit int) ([]model.Curriculum, error) {
	var rows []model.Curriculum
	err := s.withRelations(s.publicQuery(ctx, model.FeedFilter{})).
		Order("curriculums.updated_at DESC").
		Order("curriculums.id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "list latest public curriculums")
	}
	return rows, nil
}

func (s *GormPrimaryStore) CategoryOf(ctx context.Context, curriculumId string) (*model.FeedCategory, error) {
	var categories []model.FeedCategory
	err := s.db.WithContext(ctx).
		Table("categories").
		Select("categories.id, categories.name, categories.color").
		Joins("JOIN curriculum_categories ON curriculum_categories.category_id = categories.id").
		Where("curriculum_categories.curriculum_id = ?", curriculumId).
		Limit(1).
		Scan(&categories).Error
	if err != nil {
		return nil, errors.Wrapf(err, "category of curriculum %s", curriculumId)
	}
	if len(categories) == 0 {
		return nil, nil
	}
	return &categories[0], nil
}

func (s *GormPrimaryStore) TagsOf(ctx context.Context, curriculumId string) ([]string, error) {
	tags := []string{}
	err := s.db.WithContext(ctx).
		Table("tags").
		Joins("JOIN curriculum_tags ON curriculum_tags.tag_id = tags.id").
		Where("curriculum_tags.curriculum_id = ?", curriculumId).
		Order("tags.name").
		Pluck("tags.name", &tags).Error
	if err != nil {
		return nil, errors.Wrapf(err, "tags of curriculum %s", curriculumId)
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

func (s *GormPrimaryStore) withRelations(query *gorm.DB) *gorm.DB {
	return query.
		Preload("User").
		Preload("WeekSchedules", func(db *gorm.DB) *gorm.DB {
			return db.Order("week_schedules.week_number")
		})
}
