package mysql

import (
	"socialhub/internal/model"
	"socialhub/internal/schema"

	"gorm.io/gorm"
)

type CommunityRepository struct {
	DB *gorm.DB
}

// Create 单事务内建社区并给创建者上全套初始状态：
// 成员行 + admin/moderator 角色 + 默认模板，崩溃不会留下无管理员的社区
func (r *CommunityRepository) Create(c *model.Community) (*model.Community, error) {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}

		mRepo := &CommunityMemberRepository{DB: tx}
		if err := mRepo.Join(&model.CommunityMember{
			CommunityID: c.ID,
			UserID:      c.CreatorID,
		}); err != nil {
			return err
		}

		roleRepo := &CommunityRoleRepository{DB: tx}
		if err := roleRepo.Grant(c.ID, c.CreatorID, model.RoleAdmin); err != nil {
			return err
		}
		if err := roleRepo.Grant(c.ID, c.CreatorID, model.RoleModerator); err != nil {
			return err
		}

		// 默认模板：一个 textArea 字段
		tRepo := &TemplateRepository{DB: tx}
		return tRepo.CreateWithFields(&model.Template{
			CommunityID: c.ID,
			Title:       "Default Template",
			Description: "Default post template",
		}, []schema.Field{{Name: "Description", Type: schema.TypeTextArea}})
	})
	return c, err
}

func (r *CommunityRepository) FindByID(id uint64) (*model.Community, error) {
	var community model.Community
	err := r.DB.First(&community, id).Error
	return &community, err
}

func (r *CommunityRepository) FindByName(name string) (*model.Community, error) {
	var community model.Community
	err := r.DB.Where("name = ?", name).First(&community).Error
	return &community, err
}

func (r *CommunityRepository) List(offset, limit int) ([]model.Community, error) {
	var list []model.Community
	err := r.DB.Order("id desc").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

func (r *CommunityRepository) DeleteById(id uint64) error {
	// 幂等硬删除：已不存在也视为成功
	tx := r.DB.Delete(&model.Community{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	return nil
}
