package service

import (
	"errors"

	"gorm.io/gorm"

	"socialhub/internal/model"
	"socialhub/internal/pkg"
	"socialhub/internal/repository/mysql"
	"socialhub/internal/schema"
)

type TemplateService struct {
	repo          *mysql.TemplateRepository
	communityRepo *mysql.CommunityRepository
	roleRepo      *mysql.CommunityRoleRepository
}

func NewTemplateService(db *gorm.DB) *TemplateService {
	return &TemplateService{
		repo:          &mysql.TemplateRepository{DB: db},
		communityRepo: &mysql.CommunityRepository{DB: db},
		roleRepo:      &mysql.CommunityRoleRepository{DB: db},
	}
}

// CreateTemplate 仅社区 admin 可建模板；字段定义整体校验后原子落库
func (s *TemplateService) CreateTemplate(actorID, communityID uint64, title, desc string, fields []schema.Field) (*model.Template, error) {
	if title == "" {
		return nil, errors.New("template title required")
	}
	if _, err := s.communityRepo.FindByID(communityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.ErrNotFound
		}
		return nil, err
	}
	isAdmin, err := s.roleRepo.Has(communityID, actorID, model.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, pkg.ErrPermissionDenied
	}

	// 空名、未知类型标签、同模板内重名都在这里拒绝
	if errs := schema.ValidateFields(fields); len(errs) > 0 {
		return nil, errs
	}

	t := &model.Template{
		CommunityID: communityID,
		Title:       title,
		Description: desc,
	}
	if err := s.repo.CreateWithFields(t, fields); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TemplateService) GetTemplate(id uint64) (*model.Template, []schema.Field, error) {
	t, err := s.repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	fields, err := s.repo.FieldsOf(id)
	if err != nil {
		return nil, nil, err
	}
	return t, fields, nil
}

func (s *TemplateService) ListByCommunity(communityID uint64) ([]model.Template, error) {
	return s.repo.ListByCommunity(communityID)
}

// DeleteTemplate 仅 admin；模板和字段级联删除
func (s *TemplateService) DeleteTemplate(actorID, templateID uint64) error {
	t, err := s.repo.FindByID(templateID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkg.ErrNotFound
	}
	if err != nil {
		return err
	}
	isAdmin, err := s.roleRepo.Has(t.CommunityID, actorID, model.RoleAdmin)
	if err != nil {
		return err
	}
	if !isAdmin {
		return pkg.ErrPermissionDenied
	}
	return s.repo.Delete(templateID)
}
