package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialhub/internal/model"
	"socialhub/internal/pkg"
	"socialhub/internal/schema"
)

func TestCreateTemplateRequiresAdmin(t *testing.T) {
	db := newTestDB(t)
	communitySvc := NewCommunityService(db, nil)
	svc := NewTemplateService(db)
	creator := seedUser(t, db, "alice")
	member := seedUser(t, db, "bob")

	community, err := communitySvc.CreateCommunity(creator.ID, "hoops", "", false)
	require.NoError(t, err)
	require.NoError(t, communitySvc.JoinCommunity(member.ID, community.ID))

	fields := []schema.Field{{Name: "venue", Type: schema.TypeText}}

	_, err = svc.CreateTemplate(member.ID, community.ID, "Game", "", fields)
	assert.ErrorIs(t, err, pkg.ErrPermissionDenied)

	tpl, err := svc.CreateTemplate(creator.ID, community.ID, "Game", "pickup game", fields)
	require.NoError(t, err)
	assert.NotZero(t, tpl.ID)
}

func TestCreateTemplateRejectsBadFieldDefinitions(t *testing.T) {
	db := newTestDB(t)
	communitySvc := NewCommunityService(db, nil)
	svc := NewTemplateService(db)
	creator := seedUser(t, db, "alice")

	community, err := communitySvc.CreateCommunity(creator.ID, "hoops", "", false)
	require.NoError(t, err)

	_, err = svc.CreateTemplate(creator.ID, community.ID, "Game", "", []schema.Field{
		{Name: "venue", Type: schema.TypeText},
		{Name: "venue", Type: schema.TypeText},
		{Name: "shape", Type: "pentagon"},
	})
	var verrs schema.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 2)

	// 整体拒绝，不会留下半个模板
	var n int64
	require.NoError(t, db.Model(&model.Template{}).
		Where("community_id = ? AND title = ?", community.ID, "Game").
		Count(&n).Error)
	assert.Equal(t, int64(0), n)
}

func TestGetTemplatePreservesFieldOrder(t *testing.T) {
	db := newTestDB(t)
	communitySvc := NewCommunityService(db, nil)
	svc := NewTemplateService(db)
	creator := seedUser(t, db, "alice")

	community, err := communitySvc.CreateCommunity(creator.ID, "hoops", "", false)
	require.NoError(t, err)

	want := []schema.Field{
		{Name: "venue", Type: schema.TypeText},
		{Name: "capacity", Type: schema.TypeNumber},
		{Name: "event_date", Type: schema.TypeDate},
	}
	tpl, err := svc.CreateTemplate(creator.ID, community.ID, "Game", "", want)
	require.NoError(t, err)

	_, got, err := svc.GetTemplate(tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDeleteTemplateCascadesFields(t *testing.T) {
	db := newTestDB(t)
	communitySvc := NewCommunityService(db, nil)
	svc := NewTemplateService(db)
	creator := seedUser(t, db, "alice")
	member := seedUser(t, db, "bob")

	community, err := communitySvc.CreateCommunity(creator.ID, "hoops", "", false)
	require.NoError(t, err)
	require.NoError(t, communitySvc.JoinCommunity(member.ID, community.ID))

	tpl, err := svc.CreateTemplate(creator.ID, community.ID, "Game", "", []schema.Field{
		{Name: "venue", Type: schema.TypeText},
	})
	require.NoError(t, err)

	err = svc.DeleteTemplate(member.ID, tpl.ID)
	assert.ErrorIs(t, err, pkg.ErrPermissionDenied)

	require.NoError(t, svc.DeleteTemplate(creator.ID, tpl.ID))

	_, _, err = svc.GetTemplate(tpl.ID)
	assert.ErrorIs(t, err, pkg.ErrNotFound)

	var n int64
	require.NoError(t, db.Model(&model.TemplateField{}).
		Where("template_id = ?", tpl.ID).Count(&n).Error)
	assert.Equal(t, int64(0), n)
}
