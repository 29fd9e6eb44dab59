package model

import "time"

type Post struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;index:idx_comm_time_id,priority:1"`
	TemplateID  uint64 `gorm:"not null;index"`
	AuthorID    uint64 `gorm:"not null;index:idx_author_time"`
	Title       string `gorm:"size:255;not null"`
	// Data 是 codec 编码后的记录，字段名 -> 已编码值 的 JSON
	Data      string    `gorm:"type:json"`
	Status    int       `gorm:"not null;default:0"` // 0=normal 1=deleted
	CreatedAt time.Time `gorm:"index:idx_comm_time_id,priority:2,sort:desc"`
	UpdatedAt time.Time
}

type Comment struct {
	ID        uint64 `gorm:"primaryKey"`
	PostID    uint64 `gorm:"not null;index"`
	AuthorID  uint64 `gorm:"not null;index"`
	Content   string `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
