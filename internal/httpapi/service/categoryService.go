package service

import (
	"context"

	"reviewhub/internal/httpapi/apperrors"
	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
	"reviewhub/internal/validate"
)

// CategoryStore is the slice of the repository the service needs; the GORM
// repo satisfies it.
type CategoryStore interface {
	GetAll(ctx context.Context, search string, page, pageSize int) ([]models.Category, int64, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) error
	DeleteBySlug(ctx context.Context, slug string) error
}

var _ CategoryStore = (*repository.CategoryRepo)(nil)

type CategoryService interface {
	GetAll(ctx context.Context, search string, page, pageSize int) (*dto.Paginated, error)
	Create(ctx context.Context, in dto.CreateCategoryDTO) (*models.Category, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type categoryService struct {
	repo      CategoryStore
	validator *validate.Validator
}

func NewCategoryService(repo CategoryStore, validator *validate.Validator) CategoryService {
	return &categoryService{repo: repo, validator: validator}
}

func (s *categoryService) GetAll(ctx context.Context, search string, page, pageSize int) (*dto.Paginated, error) {
	list, total, err := s.repo.GetAll(ctx, search, page, pageSize)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		resp = append(resp, dto.CategoryFromModel(c))
	}
	return dto.NewPaginated(resp, int(total), page, pageSize), nil
}

func (s *categoryService) Create(ctx context.Context, in dto.CreateCategoryDTO) (*models.Category, error) {
	if err := s.validator.Name(in.Name); err != nil {
		return nil, err
	}
	if err := s.validator.Slug(in.Slug); err != nil {
		return nil, err
	}

	category := &models.Category{Name: in.Name, Slug: in.Slug}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, apperrors.TranslateDB(err, "", "category slug already exists")
	}
	return category, nil
}

func (s *categoryService) DeleteBySlug(ctx context.Context, slug string) error {
	return apperrors.TranslateDB(s.repo.DeleteBySlug(ctx, slug), "category not found", "")
}
