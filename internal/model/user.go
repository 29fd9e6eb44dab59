package model

import "time"

type User struct {
	ID             uint64 `gorm:"primaryKey"`
	Username       string `gorm:"uniqueIndex;size:32;not null"`
	Password       string `gorm:"size:255;not null"`
	Email          string `gorm:"uniqueIndex;size:64;not null"`
	FollowingCount int64  `gorm:"not null;default:0"`
	FollowerCount  int64  `gorm:"not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
