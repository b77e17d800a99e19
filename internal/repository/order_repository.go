package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"storefront-chat/internal/model"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// GetOrderByID returns nil, nil when no order matches.
func (r *OrderRepository) GetOrderByID(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	if err := r.db.WithContext(ctx).Where("LOWER(id) = ?", id).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order failed: %w", err)
	}
	return &order, nil
}
