package service

import (
	"context"
	"errors"

	"github.com/ShenShiNing/new-tube/entities"
	"github.com/ShenShiNing/new-tube/pagination"
	"github.com/ShenShiNing/new-tube/repository"
	"github.com/google/uuid"
)

// CommentList is a page of comments plus the total count for the video,
// fetched alongside so the page header can show "N comments".
type CommentList struct {
	pagination.Page[repository.CommentRow, pagination.TimeCursor]
	TotalCount int64 `json:"totalCount"`
}

type CommentService interface {
	Create(ctx context.Context, userID, videoID uuid.UUID, value string) (*entities.Comment, error)
	Remove(ctx context.Context, userID, commentID uuid.UUID) error
	List(ctx context.Context, videoID uuid.UUID, cursor *pagination.TimeCursor, limit int) (CommentList, error)
}

type commentService struct {
	repo repository.Repository
}

func NewCommentService(repo repository.Repository) CommentService {
	return &commentService{repo: repo}
}

func (s *commentService) Create(ctx context.Context, userID, videoID uuid.UUID, value string) (*entities.Comment, error) {
	if value == "" {
		return nil, validationErr("comment must not be empty")
	}
	comment := &entities.Comment{
		UserID:  userID,
		VideoID: videoID,
		Value:   value,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) Remove(ctx context.Context, userID, commentID uuid.UUID) error {
	affected, err := s.repo.DeleteCommentByIDAndUser(ctx, commentID, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFoundErr("comment %s", commentID)
	}
	return nil
}

func (s *commentService) List(ctx context.Context, videoID uuid.UUID, cursor *pagination.TimeCursor, limit int) (CommentList, error) {
	if err := pagination.ValidateLimit(limit); err != nil {
		return CommentList{}, errors.Join(ErrValidation, err)
	}

	total, err := s.repo.CountComments(ctx, videoID)
	if err != nil {
		return CommentList{}, err
	}
	rows, err := s.repo.ListComments(ctx, videoID, cursor, limit)
	if err != nil {
		return CommentList{}, err
	}

	page := pagination.Resolve(rows, limit, func(row repository.CommentRow) pagination.TimeCursor {
		return pagination.TimeCursor{UpdatedAt: row.UpdatedAt, ID: row.ID}
	})
	return CommentList{Page: page, TotalCount: total}, nil
}
