package model

import (
	"time"
)

// Visibility of a curriculum. Only PUBLIC ones appear in the feed.
type Visibility string

const (
	VisibilityPublic  Visibility = "PUBLIC"
	VisibilityPrivate Visibility = "PRIVATE"
)

/*

Curriculum is the authoritative record behind a feed item

Id: primary key, 26 char ulid
UserID:
User: owner of the curriculum, "belongs-to" relation
Title: display title, matched by feed search
Visibility: PUBLIC or PRIVATE
CreatedAt: time when entity is created
UpdatedAt: last update time, drives feed ranking
WeekSchedules: weeks of the curriculum, "has-many" relation; each week holds lessons

*/

type Curriculum struct {
	Id            string         `gorm:"primaryKey;size:26"`
	UserID        string         `gorm:"size:26;not null;index"`
	User          User           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Title         string         `gorm:"size:50;not null"`
	Visibility    Visibility     `gorm:"size:10;not null;default:PRIVATE;index"`
	CreatedAt     time.Time      `gorm:"not null"`
	UpdatedAt     time.Time      `gorm:"not null;index"`
	WeekSchedules []WeekSchedule `json:"week_schedules" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (Curriculum) TableName() string {
	return "curriculums"
}

func (c Curriculum) IsPublic() bool {
	return c.Visibility == VisibilityPublic
}

// TotalWeeks is the number of week schedules loaded on the curriculum.
func (c Curriculum) TotalWeeks() int {
	return len(c.WeekSchedules)
}

// TotalLessons sums lessons across every loaded week. Weeks whose lesson
// column cannot be decoded count as zero.
func (c Curriculum) TotalLessons() int {
	total := 0
	for _, week := range c.WeekSchedules {
		total += week.LessonCount()
	}
	return total
}
