package model

import "time"

/*

User is the owner of curricula. Only Id and Name are read by the feed.

Id: primary key, 26 char ulid
Name: display name, matched by feed search
*/

type User struct {
	Id        string `gorm:"primaryKey;size:26"`
	Email     string `gorm:"size:64;not null;uniqueIndex"`
	Name      string `gorm:"size:32;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Curricula []Curriculum `json:"curricula" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (User) TableName() string {
	return "users"
}
