package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"socialhub/internal/model"
	"socialhub/internal/repository/mysql"
)

type FollowService struct {
	repo *mysql.FollowRepository
}

// FollowCountReconciler 关注计数对账器
type FollowCountReconciler struct {
	repo      *mysql.FollowCountReconcilerRepo
	batchSize int
	interval  time.Duration
	log       *zap.Logger
}

type Sender func(ctx context.Context, ob *model.SocialOutbox) error

// OutboxRelayer 从 outbox 表批量取事件异步投递
type OutboxRelayer struct {
	repo      *mysql.OutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
	log       *zap.Logger
}

func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{
		repo: &mysql.FollowRepository{DB: db},
	}
}

func NewOutboxRelayer(db *gorm.DB, sender Sender, log *zap.Logger) *OutboxRelayer {
	if log == nil {
		log = zap.NewNop()
	}
	return &OutboxRelayer{
		repo:      &mysql.OutboxRepository{DB: db},
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
		log:       log,
	}
}

func NewFollowCountReconciler(db *gorm.DB, log *zap.Logger) *FollowCountReconciler {
	if log == nil {
		log = zap.NewNop()
	}
	return &FollowCountReconciler{
		repo:      &mysql.FollowCountReconcilerRepo{DB: db},
		batchSize: 500,
		interval:  5 * time.Minute,
		log:       log,
	}
}

// Follow 关注；自关注静默忽略（非错误），只保留单向边
func (s *FollowService) Follow(ctx context.Context, followerID, followeeID uint64) (bool, error) {
	if followerID == 0 || followeeID == 0 {
		return false, errors.New("invalid user id")
	}
	if followerID == followeeID {
		return false, nil
	}
	return s.repo.Follow(ctx, followerID, followeeID)
}

// Unfollow 取关；自取关同样静默忽略
func (s *FollowService) Unfollow(ctx context.Context, followerID, followeeID uint64) (bool, error) {
	if followerID == 0 || followeeID == 0 {
		return false, errors.New("invalid user id")
	}
	if followerID == followeeID {
		return false, nil
	}
	return s.repo.Unfollow(ctx, followerID, followeeID)
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, followeeID uint64) (bool, error) {
	if followerID == 0 || followeeID == 0 {
		return false, errors.New("invalid user id")
	}
	return s.repo.IsFollowing(ctx, followerID, followeeID)
}

func (s *FollowService) ListFollowings(ctx context.Context, userID uint64, cursor uint64, limit int) ([]model.Follow, uint64, error) {
	return s.repo.ListFollowings(ctx, userID, cursor, limit)
}

func (s *FollowService) ListFollowers(ctx context.Context, userID uint64, cursor uint64, limit int) ([]model.Follow, uint64, error) {
	return s.repo.ListFollowers(ctx, userID, cursor, limit)
}

// Run outbox投递循环
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.List(ctx, r.batchSize)
	if err != nil {
		r.log.Warn("outbox query failed", zap.Error(err))
		return
	}
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			_ = r.repo.RetryUpdate(ctx, ob.ID)
			continue
		}
		_ = r.repo.SuccessUpdate(ctx, ob.ID)
	}
}

// ReconcilerRun 对账定时任务循环
func (r *FollowCountReconciler) ReconcilerRun(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.reconcileOnce(ctx)
		}
	}
}

// 对账一批：先查 follow 表的真实值，再与 user 表冗余计数比对修正
func (r *FollowCountReconciler) reconcileOnce(ctx context.Context) {
	var cursor uint64
	for {
		users, next, err := r.repo.ReconcileList(ctx, r.batchSize, cursor)
		if err != nil {
			r.log.Warn("reconcile list failed", zap.Error(err))
			return
		}
		if len(users) == 0 {
			return
		}
		cursor = next

		for _, u := range users {
			realFollowing, err := r.repo.RealFollowings(ctx, u.ID)
			if err != nil {
				continue
			}
			realFollower, err := r.repo.RealFollowers(ctx, u.ID)
			if err != nil {
				continue
			}
			if realFollowing != u.FollowingCount {
				_ = r.repo.ReconcileFollowings(ctx, u.ID, realFollowing)
			}
			if realFollower != u.FollowerCount {
				_ = r.repo.ReconcileFollowers(ctx, u.ID, realFollower)
			}
		}
	}
}
