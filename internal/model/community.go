package model

import "time"

type Community struct {
	ID          uint64 `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex;size:100;not null"`
	Description string `gorm:"type:text"`
	CreatorID   uint64 `gorm:"not null;index"`
	IsPrivate   bool   `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CommunityMember struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;index;uniqueIndex:uk_community_user"`
	UserID      uint64 `gorm:"not null;index;uniqueIndex:uk_community_user"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// 角色常量：admin/moderator 是相互独立的集合，不是层级
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
)

// CommunityRole 一行代表 user 在 community 中持有的一个角色
type CommunityRole struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;index;uniqueIndex:uk_community_user_role"`
	UserID      uint64 `gorm:"not null;index;uniqueIndex:uk_community_user_role"`
	Role        string `gorm:"size:16;not null;uniqueIndex:uk_community_user_role"`
	CreatedAt   time.Time
}

// CommunityInvite 私有社区邀请表，受邀不等于成员
type CommunityInvite struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;index;uniqueIndex:uk_community_invitee"`
	UserID      uint64 `gorm:"not null;index;uniqueIndex:uk_community_invitee"`
	CreatedAt   time.Time
}
