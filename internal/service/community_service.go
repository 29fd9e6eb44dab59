package service

import (
	"errors"

	"gorm.io/gorm"

	"socialhub/internal/model"
	"socialhub/internal/pkg"
	"socialhub/internal/repository/mysql"
)

// CommunityService 社区与成员/角色模型：
// admin、moderator、invited 是相互独立的集合，互不蕴含
type CommunityService struct {
	repo       *mysql.CommunityRepository
	memberRepo *mysql.CommunityMemberRepository
	roleRepo   *mysql.CommunityRoleRepository
	userRepo   *mysql.UserRepository
	emailSvc   *EmailService // 可为 nil，邀请通知为尽力而为
}

func NewCommunityService(db *gorm.DB, emailSvc *EmailService) *CommunityService {
	return &CommunityService{
		repo:       &mysql.CommunityRepository{DB: db},
		memberRepo: &mysql.CommunityMemberRepository{DB: db},
		roleRepo:   &mysql.CommunityRoleRepository{DB: db},
		userRepo:   &mysql.UserRepository{DB: db},
		emailSvc:   emailSvc,
	}
}

// CreateCommunity 建社区；创建者在同一事务内成为 member+admin+moderator，
// 并得到一个默认模板
func (s *CommunityService) CreateCommunity(userID uint64, name, desc string, isPrivate bool) (*model.Community, error) {
	if name == "" {
		return nil, errors.New("community name required")
	}

	community := &model.Community{
		Name:        name,
		Description: desc,
		CreatorID:   userID,
		IsPrivate:   isPrivate,
	}

	if _, err := s.repo.Create(community); err != nil {
		return nil, err
	}

	return community, nil
}

func (s *CommunityService) GetCommunity(id uint64) (*model.Community, error) {
	community, err := s.repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return community, nil
}

// JoinCommunity 幂等加入
func (s *CommunityService) JoinCommunity(userID, communityID uint64) error {
	if _, err := s.GetCommunity(communityID); err != nil {
		return err
	}
	return s.memberRepo.Join(&model.CommunityMember{
		CommunityID: communityID,
		UserID:      userID,
	})
}

// LeaveCommunity 幂等离开
func (s *CommunityService) LeaveCommunity(userID, communityID uint64) error {
	return s.memberRepo.Leave(communityID, userID)
}

func (s *CommunityService) ListCommunities(page, size int) ([]model.Community, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}

	offset := (page - 1) * size
	return s.repo.List(offset, size)
}

// CanView 私有社区可见性门：公开，或成员，或受邀
func (s *CommunityService) CanView(communityID, userID uint64) (bool, error) {
	community, err := s.GetCommunity(communityID)
	if err != nil {
		return false, err
	}
	if !community.IsPrivate {
		return true, nil
	}
	ok, err := s.memberRepo.IsMember(communityID, userID)
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}
	return s.roleRepo.IsInvited(communityID, userID)
}

func (s *CommunityService) IsAdmin(communityID, userID uint64) (bool, error) {
	return s.roleRepo.Has(communityID, userID, model.RoleAdmin)
}

func (s *CommunityService) IsModerator(communityID, userID uint64) (bool, error) {
	return s.roleRepo.Has(communityID, userID, model.RoleModerator)
}

func (s *CommunityService) IsMember(communityID, userID uint64) (bool, error) {
	return s.memberRepo.IsMember(communityID, userID)
}

// PromoteModerator 仅 admin 可授予 moderator；失败不改动任何状态
func (s *CommunityService) PromoteModerator(communityID, actorID, targetID uint64) error {
	if err := s.requireAdmin(communityID, actorID); err != nil {
		return err
	}
	return s.roleRepo.Grant(communityID, targetID, model.RoleModerator)
}

// DemoteModerator 仅 admin 可撤销 moderator
func (s *CommunityService) DemoteModerator(communityID, actorID, targetID uint64) error {
	if err := s.requireAdmin(communityID, actorID); err != nil {
		return err
	}
	return s.roleRepo.Revoke(communityID, targetID, model.RoleModerator)
}

// Invite 仅 admin 可邀请；重复邀请幂等；邮件通知失败不影响邀请本身
func (s *CommunityService) Invite(communityID, actorID uint64, targetIDs []uint64) error {
	community, err := s.GetCommunity(communityID)
	if err != nil {
		return err
	}
	if err := s.requireAdmin(communityID, actorID); err != nil {
		return err
	}
	for _, targetID := range targetIDs {
		if err := s.roleRepo.Invite(communityID, targetID); err != nil {
			return err
		}
		if s.emailSvc != nil {
			if user, uerr := s.userRepo.FindByID(targetID); uerr == nil {
				_ = s.emailSvc.SendInvite(user.Email, community.Name)
			}
		}
	}
	return nil
}

// Roles 社区的 admin/moderator 用户集合，供详情页展示
func (s *CommunityService) Roles(communityID uint64) (admins, moderators []uint64, err error) {
	admins, err = s.roleRepo.ListByRole(communityID, model.RoleAdmin)
	if err != nil {
		return nil, nil, err
	}
	moderators, err = s.roleRepo.ListByRole(communityID, model.RoleModerator)
	if err != nil {
		return nil, nil, err
	}
	return admins, moderators, nil
}

func (s *CommunityService) requireAdmin(communityID, actorID uint64) error {
	ok, err := s.roleRepo.Has(communityID, actorID, model.RoleAdmin)
	if err != nil {
		return err
	}
	if !ok {
		return pkg.ErrPermissionDenied
	}
	return nil
}
