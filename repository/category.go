package repository

import (
	"context"

	"github.com/ShenShiNing/new-tube/entities"
)

func (r *repo) ListCategories(ctx context.Context) ([]entities.Category, error) {
	var categories []entities.Category
	err := r.GetDB().WithContext(ctx).Order("name ASC").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}
