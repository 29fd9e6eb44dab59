package mysql

import (
	"socialhub/internal/model"
	"socialhub/internal/schema"

	"gorm.io/gorm"
)

type TemplateRepository struct {
	DB *gorm.DB
}

// CreateWithFields 原子写入模板与全部字段：要么都有，要么都没有
func (r *TemplateRepository) CreateWithFields(t *model.Template, fields []schema.Field) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(t).Error; err != nil {
			return err
		}
		for i, f := range fields {
			if err := tx.Create(&model.TemplateField{
				TemplateID: t.ID,
				Name:       f.Name,
				Type:       string(f.Type),
				Position:   i,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *TemplateRepository) FindByID(id uint64) (*model.Template, error) {
	var t model.Template
	err := r.DB.First(&t, id).Error
	return &t, err
}

// FieldsOf 按提交顺序返回模板字段
func (r *TemplateRepository) FieldsOf(templateID uint64) ([]schema.Field, error) {
	var rows []model.TemplateField
	err := r.DB.Where("template_id = ?", templateID).
		Order("position ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	fields := make([]schema.Field, 0, len(rows))
	for _, row := range rows {
		fields = append(fields, schema.Field{Name: row.Name, Type: schema.FieldType(row.Type)})
	}
	return fields, nil
}

func (r *TemplateRepository) ListByCommunity(communityID uint64) ([]model.Template, error) {
	var list []model.Template
	err := r.DB.Where("community_id = ?", communityID).Order("id ASC").Find(&list).Error
	return list, err
}

// Delete 级联删除模板与其字段
func (r *TemplateRepository) Delete(id uint64) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", id).Delete(&model.TemplateField{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Template{}, id).Error
	})
}
