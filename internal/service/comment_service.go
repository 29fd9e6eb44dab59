package service

import (
	"errors"

	"gorm.io/gorm"

	"socialhub/internal/model"
	"socialhub/internal/pkg"
	"socialhub/internal/repository/mysql"
)

type CommentService struct {
	repo     *mysql.CommentRepository
	postRepo *mysql.PostRepository
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{
		repo:     &mysql.CommentRepository{DB: db},
		postRepo: &mysql.PostRepository{DB: db},
	}
}

func (s *CommentService) CreateComment(userID, postID uint64, content string) (*model.Comment, error) {
	if content == "" {
		return nil, errors.New("content required")
	}
	if _, err := s.postRepo.FindByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.ErrNotFound
		}
		return nil, err
	}
	comment := &model.Comment{
		PostID:   postID,
		AuthorID: userID,
		Content:  content,
	}
	if err := s.repo.Create(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) ListByPost(postID uint64) ([]model.Comment, error) {
	return s.repo.ListByPost(postID)
}
