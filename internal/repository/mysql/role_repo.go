package mysql

import (
	"socialhub/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommunityRoleRepository 管理 admin/moderator 角色集合与邀请集合
type CommunityRoleRepository struct {
	DB *gorm.DB
}

// Grant 幂等授予角色
func (r *CommunityRoleRepository) Grant(communityID, userID uint64, role string) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "community_id"}, {Name: "user_id"}, {Name: "role"}},
		DoNothing: true,
	}).Create(&model.CommunityRole{
		CommunityID: communityID,
		UserID:      userID,
		Role:        role,
	}).Error
}

// Revoke 幂等撤销角色
func (r *CommunityRoleRepository) Revoke(communityID, userID uint64, role string) error {
	return r.DB.Where("community_id = ? AND user_id = ? AND role = ?", communityID, userID, role).
		Delete(&model.CommunityRole{}).Error
}

func (r *CommunityRoleRepository) Has(communityID, userID uint64, role string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.CommunityRole{}).
		Where("community_id = ? AND user_id = ? AND role = ?", communityID, userID, role).
		Count(&count).Error
	return count > 0, err
}

// ListByRole 列出社区内持有某角色的用户 id
func (r *CommunityRoleRepository) ListByRole(communityID uint64, role string) ([]uint64, error) {
	var ids []uint64
	err := r.DB.Model(&model.CommunityRole{}).
		Where("community_id = ? AND role = ?", communityID, role).
		Order("user_id ASC").
		Pluck("user_id", &ids).Error
	return ids, err
}

// Invite 幂等写入邀请
func (r *CommunityRoleRepository) Invite(communityID, userID uint64) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "community_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&model.CommunityInvite{
		CommunityID: communityID,
		UserID:      userID,
	}).Error
}

func (r *CommunityRoleRepository) IsInvited(communityID, userID uint64) (bool, error) {
	var count int64
	err := r.DB.Model(&model.CommunityInvite{}).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Count(&count).Error
	return count > 0, err
}
