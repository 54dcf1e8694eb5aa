package service

import (
	"strings"

	"github.com/feira-next/internal/models"
	"github.com/feira-next/internal/repository"
)

// StoreService 商家服务
type StoreService struct {
	repo repository.StoreRepository
}

// NewStoreService 创建商家服务
func NewStoreService(repo repository.StoreRepository) *StoreService {
	return &StoreService{repo: repo}
}

// ListPublic 公开商家列表
func (s *StoreService) ListPublic(search string, page, pageSize int) ([]models.Store, int64, error) {
	return s.repo.List(repository.StoreListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     strings.TrimSpace(search),
		OnlyActive: true,
	})
}

// ListAdmin 后台商家列表
func (s *StoreService) ListAdmin(search string, page, pageSize int) ([]models.Store, int64, error) {
	return s.repo.List(repository.StoreListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(search),
	})
}

// GetByID 商家详情
func (s *StoreService) GetByID(id uint) (*models.Store, error) {
	store, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrNotFound
	}
	return store, nil
}

// StoreInput 商家创建/更新输入
type StoreInput struct {
	Slug      string
	Name      string
	CNPJ      string
	Logo      string
	IsActive  *bool
	SortOrder int
}

// Create 创建商家
func (s *StoreService) Create(input StoreInput) (*models.Store, error) {
	store := &models.Store{IsActive: true}
	if err := applyStoreInput(store, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(store); err != nil {
		return nil, err
	}
	return store, nil
}

// Update 更新商家
func (s *StoreService) Update(id uint, input StoreInput) (*models.Store, error) {
	store, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrNotFound
	}
	if err := applyStoreInput(store, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(store); err != nil {
		return nil, err
	}
	return store, nil
}

// Delete 删除商家
func (s *StoreService) Delete(id uint) error {
	store, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if store == nil {
		return ErrNotFound
	}
	return s.repo.Delete(id)
}

func applyStoreInput(store *models.Store, input StoreInput) error {
	slug := strings.TrimSpace(input.Slug)
	name := strings.TrimSpace(input.Name)
	if slug == "" || name == "" {
		return ErrInvalidInput
	}
	store.Slug = slug
	store.Name = name
	store.CNPJ = strings.TrimSpace(input.CNPJ)
	store.Logo = strings.TrimSpace(input.Logo)
	store.SortOrder = input.SortOrder
	if input.IsActive != nil {
		store.IsActive = *input.IsActive
	}
	return nil
}
