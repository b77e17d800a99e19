package app

import (
	"context"
	"strings"

	"storefront-chat/internal/model"
)

type KeywordStore interface {
	List(ctx context.Context) ([]model.KeywordRule, error)
	GetByID(ctx context.Context, id uint) (*model.KeywordRule, error)
	Create(ctx context.Context, rule *model.KeywordRule) error
	Save(ctx context.Context, rule *model.KeywordRule) error
	Delete(ctx context.Context, id uint) (bool, error)
}

// KeywordService backs the admin screens for keyword rules.
type KeywordService struct {
	store KeywordStore
}

type KeywordInput struct {
	Keyword  string
	Response string
	Category string
	IsActive *bool
	Priority int
}

func NewKeywordService(store KeywordStore) *KeywordService {
	return &KeywordService{store: store}
}

func (s *KeywordService) List(ctx context.Context) ([]model.KeywordRule, error) {
	return s.store.List(ctx)
}

func (s *KeywordService) Create(ctx context.Context, input KeywordInput) (*model.KeywordRule, error) {
	rule := &model.KeywordRule{IsActive: true}
	if err := applyKeywordInput(rule, input); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *KeywordService) Update(ctx context.Context, id uint, input KeywordInput) (*model.KeywordRule, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	rule, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, ErrKeywordNotFound
	}
	if err := applyKeywordInput(rule, input); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *KeywordService) Delete(ctx context.Context, id uint) error {
	if id == 0 {
		return ErrInvalidInput
	}
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrKeywordNotFound
	}
	return nil
}

func applyKeywordInput(rule *model.KeywordRule, input KeywordInput) error {
	keyword := strings.TrimSpace(input.Keyword)
	response := strings.TrimSpace(input.Response)
	if keyword == "" || response == "" {
		return ErrInvalidInput
	}
	rule.Keyword = keyword
	rule.Response = response
	rule.Category = strings.TrimSpace(input.Category)
	rule.Priority = input.Priority
	if input.IsActive != nil {
		rule.IsActive = *input.IsActive
	}
	return nil
}
