package model

import "time"

/*

Category groups curricula, at most one per curriculum

Id: primary key
Name: unique display name
Color: hex color, e.g. #FFFFFF
IsActive: inactive categories are hidden from pickers but still resolved for the feed

*/

type Category struct {
	Id          string `gorm:"primaryKey;size:26"`
	Name        string `gorm:"size:30;not null;uniqueIndex"`
	Description *string
	Color       string  `gorm:"size:7;not null"`
	Icon        *string `gorm:"size:50"`
	SortOrder   int     `gorm:"not null;default:0"`
	IsActive    bool    `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Category) TableName() string {
	return "categories"
}

/*

Tag is a free-form label attached to curricula

Id: primary key
Name: unique, matched exactly by feed tag filters
UsageCount: denormalized number of curricula carrying the tag

*/

type Tag struct {
	Id         string `gorm:"primaryKey;size:26"`
	Name       string `gorm:"size:20;not null;uniqueIndex"`
	UsageCount int    `gorm:"not null;default:0"`
	CreatedBy  string `gorm:"size:26;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Tag) TableName() string {
	return "tags"
}

// CurriculumTag is a "many-to-many" relation between curricula and tags.
type CurriculumTag struct {
	Id           string `gorm:"primaryKey;size:53"`
	CurriculumID string `gorm:"size:26;not null;uniqueIndex:unique_curriculum_tag"`
	TagID        string `gorm:"size:26;not null;uniqueIndex:unique_curriculum_tag;index"`
	AddedBy      string `gorm:"size:26;not null"`
	CreatedAt    time.Time
}

func (CurriculumTag) TableName() string {
	return "curriculum_tags"
}

// CurriculumCategory assigns a single category to a curriculum.
type CurriculumCategory struct {
	Id           string `gorm:"primaryKey;size:53"`
	CurriculumID string `gorm:"size:26;not null;uniqueIndex:unique_curriculum_category"`
	CategoryID   string `gorm:"size:26;not null;index"`
	AssignedBy   string `gorm:"size:26;not null"`
	CreatedAt    time.Time
}

func (CurriculumCategory) TableName() string {
	return "curriculum_categories"
}
