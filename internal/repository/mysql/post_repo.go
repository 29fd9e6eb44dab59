package mysql

import (
	"time"

	"socialhub/internal/model"

	"gorm.io/gorm"
)

type PostRepository struct {
	DB *gorm.DB
}

func (r *PostRepository) Create(post *model.Post) error {
	return r.DB.Create(post).Error
}

func (r *PostRepository) FindByID(id uint64) (*model.Post, error) {
	var post model.Post
	err := r.DB.First(&post, "id = ? AND status = 0", id).Error
	return &post, err
}

// UpdateData 编辑即整体替换 data，没有字段级 merge
func (r *PostRepository) UpdateData(id uint64, title, data string) error {
	return r.DB.Model(&model.Post{}).
		Where("id = ? AND status = 0", id).
		Updates(map[string]any{"title": title, "data": data}).Error
}

// ListByCommunity 基础分页查询
func (r *PostRepository) ListByCommunity(communityID uint64, offset, limit int) ([]model.Post, error) {
	var list []model.Post
	err := r.DB.
		Where("community_id = ? AND status = 0", communityID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

// ListByCommunityCursor 时间游标查询：先比时间，同一时刻用 id 打破并列
func (r *PostRepository) ListByCommunityCursor(communityID uint64, lastID uint64, lastCreatedAt time.Time, limit int) ([]model.Post, error) {
	var list []model.Post
	q := r.DB.Where("community_id = ? AND status = 0", communityID)
	if !lastCreatedAt.IsZero() {
		q = q.Where("(created_at < ? OR (created_at = ? AND id < ?))", lastCreatedAt, lastCreatedAt, lastID)
	}
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&list).Error
	return list, err
}

// Delete 软删除帖子并级联删除评论
func (r *PostRepository) Delete(id uint64) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Post{}).
			Where("id = ?", id).
			Update("status", 1).Error; err != nil {
			return err
		}
		return tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error
	})
}

// ListByTemplate 导出用：按模板取帖子
func (r *PostRepository) ListByTemplate(templateID uint64) ([]model.Post, error) {
	var list []model.Post
	err := r.DB.
		Where("template_id = ? AND status = 0", templateID).
		Order("created_at ASC, id ASC").
		Find(&list).Error
	return list, err
}
