package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialhub/internal/model"
)

func TestFollowLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	changed, err := svc.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	// 重复关注幂等
	changed, err = svc.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	ok, err := svc.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// 冗余计数在同事务内维护；gorm 会把 dest 里残留的主键并入条件，
	// 每次查询用新变量
	var follower model.User
	require.NoError(t, db.First(&follower, alice.ID).Error)
	assert.Equal(t, int64(1), follower.FollowingCount)
	var followee model.User
	require.NoError(t, db.First(&followee, bob.ID).Error)
	assert.Equal(t, int64(1), followee.FollowerCount)

	changed, err = svc.Unfollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = svc.Unfollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	var after model.User
	require.NoError(t, db.First(&after, alice.ID).Error)
	assert.Equal(t, int64(0), after.FollowingCount)
}

func TestSelfFollowSilentlyIgnored(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")

	changed, err := svc.Follow(ctx, alice.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	var n int64
	require.NoError(t, db.Model(&model.Follow{}).Count(&n).Error)
	assert.Equal(t, int64(0), n)
}

func TestFollowWritesOutboxEvent(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	_, err := svc.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.Unfollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	var events []model.SocialOutbox
	require.NoError(t, db.Order("id ASC").Find(&events).Error)
	require.Len(t, events, 2)
	assert.Equal(t, "follow", events[0].EventType)
	assert.Equal(t, "unfollow", events[1].EventType)
	assert.Equal(t, alice.ID, events[0].Follower)
	assert.Equal(t, bob.ID, events[0].Followee)
}

func TestOutboxRelayerDrainsAndMarksStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	_, err := svc.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.Follow(ctx, alice.ID, carol.ID)
	require.NoError(t, err)

	var sent []uint64
	relayer := NewOutboxRelayer(db, func(_ context.Context, ob *model.SocialOutbox) error {
		if ob.Followee == carol.ID {
			return errors.New("broker down")
		}
		sent = append(sent, ob.ID)
		return nil
	}, nil)
	relayer.drainOnce(ctx)

	require.Len(t, sent, 1)

	var events []model.SocialOutbox
	require.NoError(t, db.Order("id ASC").Find(&events).Error)
	assert.EqualValues(t, 1, events[0].Status)
	assert.EqualValues(t, 2, events[1].Status)
	assert.Equal(t, 1, events[1].Retry)
}

func TestFollowCountReconcilerRepairsDrift(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	_, err := svc.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	// 人为制造漂移
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", alice.ID).
		UpdateColumn("following_count", 42).Error)

	NewFollowCountReconciler(db, nil).reconcileOnce(ctx)

	var u model.User
	require.NoError(t, db.First(&u, alice.ID).Error)
	assert.Equal(t, int64(1), u.FollowingCount)
}

func TestListFollowingsPaginates(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")

	var others []*model.User
	for _, name := range []string{"b", "c", "d"} {
		u := seedUser(t, db, name)
		others = append(others, u)
		_, err := svc.Follow(ctx, alice.ID, u.ID)
		require.NoError(t, err)
	}

	page, next, err := svc.ListFollowings(ctx, alice.ID, 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.NotZero(t, next)

	rest, _, err := svc.ListFollowings(ctx, alice.ID, next, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, others[0].ID, rest[0].FolloweeID)
}
