package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialhub/internal/model"
	"socialhub/internal/pkg"
	"socialhub/internal/schema"
)

func TestCreateCommunitySeedsCreatorRolesAndDefaultTemplate(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommunityService(db, nil)
	creator := seedUser(t, db, "alice")

	community, err := svc.CreateCommunity(creator.ID, "hoops", "pickup games", false)
	require.NoError(t, err)
	require.NotZero(t, community.ID)

	isMember, err := svc.IsMember(community.ID, creator.ID)
	require.NoError(t, err)
	assert.True(t, isMember)

	isAdmin, err := svc.IsAdmin(community.ID, creator.ID)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	isModerator, err := svc.IsModerator(community.ID, creator.ID)
	require.NoError(t, err)
	assert.True(t, isModerator)

	// 随社区创建的默认模板：一个 textArea 字段
	var templates []model.Template
	require.NoError(t, db.Where("community_id = ?", community.ID).Find(&templates).Error)
	require.Len(t, templates, 1)
	assert.Equal(t, "Default Template", templates[0].Title)

	var fields []model.TemplateField
	require.NoError(t, db.Where("template_id = ?", templates[0].ID).Find(&fields).Error)
	require.Len(t, fields, 1)
	assert.Equal(t, "Description", fields[0].Name)
	assert.Equal(t, string(schema.TypeTextArea), fields[0].Type)
}

func TestJoinCommunityIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommunityService(db, nil)
	creator := seedUser(t, db, "alice")
	joiner := seedUser(t, db, "bob")

	community, err := svc.CreateCommunity(creator.ID, "hoops", "", false)
	require.NoError(t, err)

	require.NoError(t, svc.JoinCommunity(joiner.ID, community.ID))
	require.NoError(t, svc.JoinCommunity(joiner.ID, community.ID))

	var n int64
	require.NoError(t, db.Model(&model.CommunityMember{}).
		Where("community_id = ? AND user_id = ?", community.ID, joiner.ID).
		Count(&n).Error)
	assert.Equal(t, int64(1), n)

	require.NoError(t, svc.LeaveCommunity(joiner.ID, community.ID))
	isMember, err := svc.IsMember(community.ID, joiner.ID)
	require.NoError(t, err)
	assert.False(t, isMember)
}

func TestJoinMissingCommunity(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommunityService(db, nil)
	u := seedUser(t, db, "alice")

	err := svc.JoinCommunity(u.ID, 9999)
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestPromoteModeratorRequiresAdmin(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommunityService(db, nil)
	creator := seedUser(t, db, "alice")
	member := seedUser(t, db, "bob")
	target := seedUser(t, db, "carol")

	community, err := svc.CreateCommunity(creator.ID, "hoops", "", false)
	require.NoError(t, err)
	require.NoError(t, svc.JoinCommunity(member.ID, community.ID))

	// 普通成员不能授予版主，失败后目标状态不变
	err = svc.PromoteModerator(community.ID, member.ID, target.ID)
	assert.ErrorIs(t, err, pkg.ErrPermissionDenied)
	isModerator, err := svc.IsModerator(community.ID, target.ID)
	require.NoError(t, err)
	assert.False(t, isModerator)

	require.NoError(t, svc.PromoteModerator(community.ID, creator.ID, target.ID))
	isModerator, err = svc.IsModerator(community.ID, target.ID)
	require.NoError(t, err)
	assert.True(t, isModerator)

	// 版主身份不附带 admin
	isAdmin, err := svc.IsAdmin(community.ID, target.ID)
	require.NoError(t, err)
	assert.False(t, isAdmin)

	require.NoError(t, svc.DemoteModerator(community.ID, creator.ID, target.ID))
	isModerator, err = svc.IsModerator(community.ID, target.ID)
	require.NoError(t, err)
	assert.False(t, isModerator)
}

func TestPrivateCommunityVisibility(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommunityService(db, nil)
	creator := seedUser(t, db, "alice")
	outsider := seedUser(t, db, "bob")
	invitee := seedUser(t, db, "carol")

	community, err := svc.CreateCommunity(creator.ID, "secret", "", true)
	require.NoError(t, err)

	ok, err := svc.CanView(community.ID, creator.ID)
	require.NoError(t, err)
	assert.True(t, ok, "member sees private community")

	ok, err = svc.CanView(community.ID, outsider.ID)
	require.NoError(t, err)
	assert.False(t, ok, "outsider blocked")

	require.NoError(t, svc.Invite(community.ID, creator.ID, []uint64{invitee.ID}))
	ok, err = svc.CanView(community.ID, invitee.ID)
	require.NoError(t, err)
	assert.True(t, ok, "invitee sees private community before joining")
}

func TestInviteRequiresAdminAndIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommunityService(db, nil)
	creator := seedUser(t, db, "alice")
	member := seedUser(t, db, "bob")
	target := seedUser(t, db, "carol")

	community, err := svc.CreateCommunity(creator.ID, "hoops", "", true)
	require.NoError(t, err)
	require.NoError(t, svc.JoinCommunity(member.ID, community.ID))

	err = svc.Invite(community.ID, member.ID, []uint64{target.ID})
	assert.ErrorIs(t, err, pkg.ErrPermissionDenied)

	require.NoError(t, svc.Invite(community.ID, creator.ID, []uint64{target.ID}))
	require.NoError(t, svc.Invite(community.ID, creator.ID, []uint64{target.ID}))

	var n int64
	require.NoError(t, db.Model(&model.CommunityInvite{}).
		Where("community_id = ? AND user_id = ?", community.ID, target.ID).
		Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestRolesListsAdminsAndModerators(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommunityService(db, nil)
	creator := seedUser(t, db, "alice")
	mod := seedUser(t, db, "bob")

	community, err := svc.CreateCommunity(creator.ID, "hoops", "", false)
	require.NoError(t, err)
	require.NoError(t, svc.PromoteModerator(community.ID, creator.ID, mod.ID))

	admins, moderators, err := svc.Roles(community.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{creator.ID}, admins)
	assert.ElementsMatch(t, []uint64{creator.ID, mod.ID}, moderators)
}
