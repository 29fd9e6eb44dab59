package model

import "time"

// Template 社区自定义帖子模板：有序字段集合决定帖子的形状
type Template struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;index"`
	Title       string `gorm:"size:255;not null"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TemplateField 模板内的单个字段，Position 即提交顺序
type TemplateField struct {
	ID         uint64 `gorm:"primaryKey"`
	TemplateID uint64 `gorm:"not null;index"`
	Name       string `gorm:"size:255;not null"`
	Type       string `gorm:"size:32;not null"`
	Position   int    `gorm:"not null"`
	CreatedAt  time.Time
}
