package service

import (
	"context"

	"reviewhub/internal/httpapi/apperrors"
	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
	"reviewhub/internal/validate"
)

// GenreStore is the slice of the repository the service needs; the GORM
// repo satisfies it.
type GenreStore interface {
	GetAll(ctx context.Context, search string, page, pageSize int) ([]models.Genre, int64, error)
	FindBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error)
	Create(ctx context.Context, g *models.Genre) error
	DeleteBySlug(ctx context.Context, slug string) error
}

var _ GenreStore = (*repository.GenreRepo)(nil)

type GenreService interface {
	GetAll(ctx context.Context, search string, page, pageSize int) (*dto.Paginated, error)
	Create(ctx context.Context, in dto.CreateGenreDTO) (*models.Genre, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type genreService struct {
	repo      GenreStore
	validator *validate.Validator
}

func NewGenreService(repo GenreStore, validator *validate.Validator) GenreService {
	return &genreService{repo: repo, validator: validator}
}

func (s *genreService) GetAll(ctx context.Context, search string, page, pageSize int) (*dto.Paginated, error) {
	list, total, err := s.repo.GetAll(ctx, search, page, pageSize)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.GenreResponse, 0, len(list))
	for _, g := range list {
		resp = append(resp, dto.GenreFromModel(g))
	}
	return dto.NewPaginated(resp, int(total), page, pageSize), nil
}

func (s *genreService) Create(ctx context.Context, in dto.CreateGenreDTO) (*models.Genre, error) {
	if err := s.validator.Name(in.Name); err != nil {
		return nil, err
	}
	if err := s.validator.Slug(in.Slug); err != nil {
		return nil, err
	}

	genre := &models.Genre{Name: in.Name, Slug: in.Slug}
	if err := s.repo.Create(ctx, genre); err != nil {
		return nil, apperrors.TranslateDB(err, "", "genre slug already exists")
	}
	return genre, nil
}

func (s *genreService) DeleteBySlug(ctx context.Context, slug string) error {
	return apperrors.TranslateDB(s.repo.DeleteBySlug(ctx, slug), "genre not found", "")
}
