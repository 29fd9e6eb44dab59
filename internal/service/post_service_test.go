package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialhub/internal/model"
	"socialhub/internal/pkg"
	"socialhub/internal/schema"
)

type postFixture struct {
	svc       *PostService
	community *model.Community
	template  *model.Template
	creator   *model.User
	member    *model.User
	outsider  *model.User
}

func newPostFixture(t *testing.T) (*postFixture, *CommunityService) {
	t.Helper()

	db := newTestDB(t)
	communitySvc := NewCommunityService(db, nil)
	templateSvc := NewTemplateService(db)
	codec := schema.NewCodec(nil, nil)

	creator := seedUser(t, db, "alice")
	member := seedUser(t, db, "bob")
	outsider := seedUser(t, db, "eve")

	community, err := communitySvc.CreateCommunity(creator.ID, "hoops", "", false)
	require.NoError(t, err)
	require.NoError(t, communitySvc.JoinCommunity(member.ID, community.ID))

	tpl, err := templateSvc.CreateTemplate(creator.ID, community.ID, "Game", "", []schema.Field{
		{Name: "venue", Type: schema.TypeText},
		{Name: "capacity", Type: schema.TypeNumber},
	})
	require.NoError(t, err)

	return &postFixture{
		svc:       NewPostService(db, codec, true),
		community: community,
		template:  tpl,
		creator:   creator,
		member:    member,
		outsider:  outsider,
	}, communitySvc
}

func TestCreatePostEncodesRecord(t *testing.T) {
	f, _ := newPostFixture(t)

	post, err := f.svc.CreatePost(f.member.ID, f.community.ID, f.template.ID, "saturday run", &schema.Submission{
		Values: map[string]string{"venue": "city gym", "capacity": "24"},
	})
	require.NoError(t, err)
	require.NotZero(t, post.ID)

	got, record, err := f.svc.DecodePost(post.ID)
	require.NoError(t, err)
	assert.Equal(t, "saturday run", got.Title)
	assert.Equal(t, "city gym", record["venue"])
	assert.Equal(t, int64(24), record["capacity"])
}

func TestCreatePostValidationFailureWritesNothing(t *testing.T) {
	f, _ := newPostFixture(t)

	_, err := f.svc.CreatePost(f.member.ID, f.community.ID, f.template.ID, "bad", &schema.Submission{
		Values: map[string]string{"capacity": "twenty"},
	})
	var verrs schema.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 1)
	assert.Equal(t, "capacity", verrs[0].Field)

	var n int64
	require.NoError(t, f.svc.repo.DB.Model(&model.Post{}).Count(&n).Error)
	assert.Equal(t, int64(0), n)
}

func TestCreatePostMembershipGate(t *testing.T) {
	f, _ := newPostFixture(t)
	sub := &schema.Submission{Values: map[string]string{"venue": "x"}}

	_, err := f.svc.CreatePost(f.outsider.ID, f.community.ID, f.template.ID, "hi", sub)
	assert.ErrorIs(t, err, pkg.ErrPermissionDenied)

	// 关掉开关后非成员可以发帖
	f.svc.RequireMembership = false
	_, err = f.svc.CreatePost(f.outsider.ID, f.community.ID, f.template.ID, "hi", sub)
	assert.NoError(t, err)
}

func TestCreatePostRejectsForeignTemplate(t *testing.T) {
	f, communitySvc := newPostFixture(t)
	db := f.svc.repo.DB

	other, err := communitySvc.CreateCommunity(f.creator.ID, "chess", "", false)
	require.NoError(t, err)
	otherTpl, err := NewTemplateService(db).CreateTemplate(f.creator.ID, other.ID, "Match", "", []schema.Field{
		{Name: "opening", Type: schema.TypeText},
	})
	require.NoError(t, err)

	_, err = f.svc.CreatePost(f.creator.ID, f.community.ID, otherTpl.ID, "hi", &schema.Submission{})
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestEditPostAuthorOrAdminOnly(t *testing.T) {
	f, _ := newPostFixture(t)

	post, err := f.svc.CreatePost(f.member.ID, f.community.ID, f.template.ID, "v1", &schema.Submission{
		Values: map[string]string{"venue": "old gym"},
	})
	require.NoError(t, err)

	err = f.svc.EditPost(f.outsider.ID, post.ID, "hacked", &schema.Submission{})
	assert.ErrorIs(t, err, pkg.ErrPermissionDenied)

	// 社区 admin 可以编辑别人的帖子
	require.NoError(t, f.svc.EditPost(f.creator.ID, post.ID, "v2", &schema.Submission{
		Values: map[string]string{"venue": "new gym", "capacity": "10"},
	}))

	got, record, err := f.svc.DecodePost(post.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Title)
	assert.Equal(t, "new gym", record["venue"])
	assert.Equal(t, int64(10), record["capacity"])
}

func TestDeletePostPermissionAndCascade(t *testing.T) {
	f, _ := newPostFixture(t)
	db := f.svc.repo.DB
	commentSvc := NewCommentService(db)

	post, err := f.svc.CreatePost(f.member.ID, f.community.ID, f.template.ID, "t", &schema.Submission{})
	require.NoError(t, err)
	_, err = commentSvc.CreateComment(f.creator.ID, post.ID, "nice")
	require.NoError(t, err)

	// 普通成员既非作者也非 admin
	other := seedUser(t, db, "frank")
	require.NoError(t, NewCommunityService(db, nil).JoinCommunity(other.ID, f.community.ID))
	err = f.svc.DeletePost(other.ID, post.ID)
	assert.ErrorIs(t, err, pkg.ErrPermissionDenied)
	_, _, err = f.svc.DecodePost(post.ID)
	require.NoError(t, err, "post untouched after denied delete")

	require.NoError(t, f.svc.DeletePost(f.member.ID, post.ID))
	_, _, err = f.svc.DecodePost(post.ID)
	assert.ErrorIs(t, err, pkg.ErrNotFound)

	comments, err := commentSvc.ListByPost(post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestDecodePostToleratesCorruptData(t *testing.T) {
	f, _ := newPostFixture(t)
	db := f.svc.repo.DB

	post, err := f.svc.CreatePost(f.member.ID, f.community.ID, f.template.ID, "t", &schema.Submission{
		Values: map[string]string{"venue": "gym"},
	})
	require.NoError(t, err)
	require.NoError(t, db.Model(&model.Post{}).Where("id = ?", post.ID).
		Update("data", "{not json").Error)

	_, record, err := f.svc.DecodePost(post.ID)
	require.NoError(t, err)
	assert.Equal(t, "", record["venue"])
	assert.Nil(t, record["capacity"])
}

func TestListByCommunityCursorPagination(t *testing.T) {
	f, _ := newPostFixture(t)
	db := f.svc.repo.DB

	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	for i := 0; i < 5; i++ {
		post, err := f.svc.CreatePost(f.member.ID, f.community.ID, f.template.ID, "t", &schema.Submission{})
		require.NoError(t, err)
		// 拉开 created_at，保证游标次序稳定
		require.NoError(t, db.Model(&model.Post{}).Where("id = ?", post.ID).
			Update("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
	}

	first, nextID, nextTS, err := f.svc.ListByCommunityCursor(f.community.ID, 0, 0, 3)
	require.NoError(t, err)
	require.Len(t, first, 3)
	require.NotZero(t, nextID)

	second, _, _, err := f.svc.ListByCommunityCursor(f.community.ID, nextID, nextTS, 3)
	require.NoError(t, err)
	require.Len(t, second, 2)

	seen := map[uint64]bool{}
	for _, p := range append(first, second...) {
		assert.False(t, seen[p.ID], "no duplicates across pages")
		seen[p.ID] = true
	}
}
