package model

import (
	jsoniter "github.com/json-iterator/go"
	"gorm.io/datatypes"
)

/*

WeekSchedule is one week of a curriculum

Id: auto increment primary key
CurriculumID: owning curriculum, deleted with it
WeekNumber: 1 ~ 24
Title: week title
Lessons: json array of lesson titles

*/

type WeekSchedule struct {
	Id           int            `gorm:"primaryKey;autoIncrement"`
	CurriculumID string         `gorm:"size:26;not null;index"`
	WeekNumber   int            `gorm:"not null"`
	Title        string         `gorm:"size:50;not null"`
	Lessons      datatypes.JSON `gorm:"not null"`
}

func (WeekSchedule) TableName() string {
	return "week_schedules"
}

func (w WeekSchedule) LessonCount() int {
	if len(w.Lessons) == 0 {
		return 0
	}
	var lessons []jsoniter.RawMessage
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(w.Lessons, &lessons); err != nil {
		return 0
	}
	return len(lessons)
}
