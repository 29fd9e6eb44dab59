package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"socialhub/internal/model"
	"socialhub/internal/pkg"
	"socialhub/internal/repository/mysql"
	"socialhub/internal/schema"
)

// PostService 帖子生命周期：模板查找 -> codec 编码 -> 落库
type PostService struct {
	repo          *mysql.PostRepository
	templateRepo  *mysql.TemplateRepository
	memberRepo    *mysql.CommunityMemberRepository
	roleRepo      *mysql.CommunityRoleRepository
	communityRepo *mysql.CommunityRepository
	codec         *schema.Codec

	// RequireMembership 发帖前是否要求成员资格（配置项 post.require_membership）
	RequireMembership bool
}

func NewPostService(db *gorm.DB, codec *schema.Codec, requireMembership bool) *PostService {
	return &PostService{
		repo:              &mysql.PostRepository{DB: db},
		templateRepo:      &mysql.TemplateRepository{DB: db},
		memberRepo:        &mysql.CommunityMemberRepository{DB: db},
		roleRepo:          &mysql.CommunityRoleRepository{DB: db},
		communityRepo:     &mysql.CommunityRepository{DB: db},
		codec:             codec,
		RequireMembership: requireMembership,
	}
}

// CreatePost 校验失败返回聚合的 schema.ValidationErrors，不会写入任何部分记录
func (s *PostService) CreatePost(userID, communityID, templateID uint64, title string, sub *schema.Submission) (*model.Post, error) {
	if title == "" {
		return nil, errors.New("title required")
	}

	if _, err := s.communityRepo.FindByID(communityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.ErrNotFound
		}
		return nil, err
	}

	t, err := s.templateRepo.FindByID(templateID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	// 模板与社区是逻辑链接，这里显式校验归属
	if t.CommunityID != communityID {
		return nil, pkg.ErrNotFound
	}

	if s.RequireMembership {
		ok, err := s.memberRepo.IsMember(communityID, userID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, pkg.ErrPermissionDenied
		}
	}

	fields, err := s.templateRepo.FieldsOf(templateID)
	if err != nil {
		return nil, err
	}

	data, err := s.codec.EncodeJSON(fields, sub)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		CommunityID: communityID,
		TemplateID:  templateID,
		AuthorID:    userID,
		Title:       title,
		Data:        data,
	}

	if err := s.repo.Create(post); err != nil {
		return nil, err
	}

	return post, nil
}

// EditPost 按原模板重新编码，data 整体替换
func (s *PostService) EditPost(userID, postID uint64, title string, sub *schema.Submission) error {
	post, err := s.repo.FindByID(postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkg.ErrNotFound
	}
	if err != nil {
		return err
	}

	if err := s.requireAuthorOrAdmin(post, userID); err != nil {
		return err
	}

	if title == "" {
		title = post.Title
	}

	fields, err := s.templateRepo.FieldsOf(post.TemplateID)
	if err != nil {
		return err
	}
	data, err := s.codec.EncodeJSON(fields, sub)
	if err != nil {
		return err
	}
	return s.repo.UpdateData(postID, title, data)
}

// GetPost 取未删除的帖子
func (s *PostService) GetPost(postID uint64) (*model.Post, error) {
	post, err := s.repo.FindByID(postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

// DecodePost 还原类型化展示记录；损坏的 data 降级为空记录
func (s *PostService) DecodePost(postID uint64) (*model.Post, map[string]any, error) {
	post, err := s.GetPost(postID)
	if err != nil {
		return nil, nil, err
	}
	fields, err := s.templateRepo.FieldsOf(post.TemplateID)
	if err != nil {
		return nil, nil, err
	}
	decoded, err := s.codec.Decode(fields, post.Data)
	if err != nil {
		return nil, nil, err
	}
	return post, decoded, nil
}

// DeletePost 仅作者或社区 admin；其余调用方一律 permission denied 且状态不变
func (s *PostService) DeletePost(userID, postID uint64) error {
	post, err := s.repo.FindByID(postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkg.ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := s.requireAuthorOrAdmin(post, userID); err != nil {
		return err
	}
	return s.repo.Delete(postID)
}

// ListByCommunity 社区帖子列表
func (s *PostService) ListByCommunity(communityID uint64, page, size int) ([]model.Post, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}

	offset := (page - 1) * size
	return s.repo.ListByCommunity(communityID, offset, size)
}

// ListByCommunityCursor 游标分页：首次不传 lastID/lastCreatedAt（或传 0）
func (s *PostService) ListByCommunityCursor(communityID uint64, lastID uint64, lastCreatedAt int64, size int) ([]model.Post, uint64, int64, error) {
	if size <= 0 || size > 50 {
		size = 20
	}
	var ts time.Time
	if lastCreatedAt > 0 {
		ts = time.Unix(lastCreatedAt, 0)
	}
	list, err := s.repo.ListByCommunityCursor(communityID, lastID, ts, size)
	if err != nil {
		return nil, 0, 0, err
	}
	var nextID uint64
	var nextTS int64
	if len(list) > 0 {
		last := list[len(list)-1]
		nextID = last.ID
		nextTS = last.CreatedAt.Unix()
	}
	return list, nextID, nextTS, nil
}

func (s *PostService) requireAuthorOrAdmin(post *model.Post, userID uint64) error {
	if post.AuthorID == userID {
		return nil
	}
	isAdmin, err := s.roleRepo.Has(post.CommunityID, userID, model.RoleAdmin)
	if err != nil {
		return err
	}
	if !isAdmin {
		return pkg.ErrPermissionDenied
	}
	return nil
}
