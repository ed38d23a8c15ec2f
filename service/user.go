package service

import (
	"context"
	"errors"

	"github.com/ShenShiNing/new-tube/entities"
	"github.com/ShenShiNing/new-tube/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService interface {
	GetOne(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*repository.UserDetailRow, error)
	ListCategories(ctx context.Context) ([]entities.Category, error)
}

type userService struct {
	repo repository.Repository
}

func NewUserService(repo repository.Repository) UserService {
	return &userService{repo: repo}
}

func (s *userService) GetOne(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*repository.UserDetailRow, error) {
	row, err := s.repo.FindUserDetail(ctx, id, viewerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("user %s", id)
		}
		return nil, err
	}
	return row, nil
}

func (s *userService) ListCategories(ctx context.Context) ([]entities.Category, error) {
	return s.repo.ListCategories(ctx)
}
