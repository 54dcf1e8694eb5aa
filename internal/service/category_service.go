package service

import (
	"strings"

	"github.com/feira-next/internal/models"
	"github.com/feira-next/internal/repository"
)

// CategoryService 分类服务
type CategoryService struct {
	repo repository.CategoryRepository
}

// NewCategoryService 创建分类服务
func NewCategoryService(repo repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// List 分类列表
func (s *CategoryService) List() ([]models.Category, error) {
	return s.repo.List()
}

// CategoryInput 分类创建/更新输入
type CategoryInput struct {
	Slug      string
	Name      string
	Icon      string
	SortOrder int
}

// Create 创建分类
func (s *CategoryService) Create(input CategoryInput) (*models.Category, error) {
	slug := strings.TrimSpace(input.Slug)
	name := strings.TrimSpace(input.Name)
	if slug == "" || name == "" {
		return nil, ErrInvalidInput
	}
	category := &models.Category{
		Slug:      slug,
		Name:      name,
		Icon:      strings.TrimSpace(input.Icon),
		SortOrder: input.SortOrder,
	}
	if err := s.repo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Update 更新分类
func (s *CategoryService) Update(id uint, input CategoryInput) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}
	if slug := strings.TrimSpace(input.Slug); slug != "" {
		category.Slug = slug
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		category.Name = name
	}
	category.Icon = strings.TrimSpace(input.Icon)
	category.SortOrder = input.SortOrder
	if err := s.repo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete 删除分类
func (s *CategoryService) Delete(id uint) error {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrNotFound
	}
	return s.repo.Delete(id)
}
