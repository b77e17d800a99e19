package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"storefront-chat/internal/model"
)

type KeywordRepository struct {
	db *gorm.DB
}

func NewKeywordRepository(db *gorm.DB) *KeywordRepository {
	return &KeywordRepository{db: db}
}

// ListActive returns active rules in storage order; ranking is the matcher's job.
func (r *KeywordRepository) ListActive(ctx context.Context) ([]model.KeywordRule, error) {
	var rules []model.KeywordRule
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("id ASC").Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("list active keywords failed: %w", err)
	}
	return rules, nil
}

func (r *KeywordRepository) List(ctx context.Context) ([]model.KeywordRule, error) {
	var rules []model.KeywordRule
	if err := r.db.WithContext(ctx).Order("priority DESC").Order("id ASC").Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("list keywords failed: %w", err)
	}
	return rules, nil
}

func (r *KeywordRepository) GetByID(ctx context.Context, id uint) (*model.KeywordRule, error) {
	var rule model.KeywordRule
	if err := r.db.WithContext(ctx).First(&rule, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get keyword failed: %w", err)
	}
	return &rule, nil
}

func (r *KeywordRepository) Create(ctx context.Context, rule *model.KeywordRule) error {
	if err := r.db.WithContext(ctx).Create(rule).Error; err != nil {
		return fmt.Errorf("create keyword failed: %w", err)
	}
	return nil
}

// Save writes every column, so zero values such as IsActive=false stick.
func (r *KeywordRepository) Save(ctx context.Context, rule *model.KeywordRule) error {
	if err := r.db.WithContext(ctx).Save(rule).Error; err != nil {
		return fmt.Errorf("save keyword failed: %w", err)
	}
	return nil
}

func (r *KeywordRepository) Delete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&model.KeywordRule{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("delete keyword failed: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
