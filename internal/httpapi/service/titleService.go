package service

import (
	"context"
	"errors"

	"reviewhub/internal/httpapi/apperrors"
	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
	"reviewhub/internal/validate"

	"gorm.io/gorm"
)

// TitleStore is the slice of the repository the service needs; the GORM
// repo satisfies it.
type TitleStore interface {
	GetAll(ctx context.Context, filter repository.TitleFilter, page, pageSize int) ([]models.Title, map[int64]float64, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Title, *float64, error)
	Create(ctx context.Context, t *models.Title) error
	Update(ctx context.Context, t *models.Title) error
	ReplaceGenres(ctx context.Context, t *models.Title, genres []models.Genre) error
	Delete(ctx context.Context, id int64) error
}

var _ TitleStore = (*repository.TitleRepo)(nil)

type TitleService interface {
	GetAll(ctx context.Context, filter repository.TitleFilter, page, pageSize int) (*dto.Paginated, error)
	GetByID(ctx context.Context, id int64) (*dto.TitleResponse, error)
	Create(ctx context.Context, in dto.CreateTitleDTO) (*dto.TitleResponse, error)
	Update(ctx context.Context, id int64, in dto.UpdateTitleDTO) (*dto.TitleResponse, error)
	Delete(ctx context.Context, id int64) error
}

type titleService struct {
	titleRepo    TitleStore
	categoryRepo CategoryStore
	genreRepo    GenreStore
	validator    *validate.Validator
}

func NewTitleService(
	titleRepo TitleStore,
	categoryRepo CategoryStore,
	genreRepo GenreStore,
	validator *validate.Validator,
) TitleService {
	return &titleService{
		titleRepo:    titleRepo,
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
		validator:    validator,
	}
}

func (s *titleService) GetAll(ctx context.Context, filter repository.TitleFilter, page, pageSize int) (*dto.Paginated, error) {
	titles, ratings, total, err := s.titleRepo.GetAll(ctx, filter, page, pageSize)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.TitleResponse, 0, len(titles))
	for i := range titles {
		var rating *float64
		if avg, ok := ratings[titles[i].ID]; ok {
			r := avg
			rating = &r
		}
		resp = append(resp, dto.TitleFromModel(&titles[i], rating))
	}
	return dto.NewPaginated(resp, int(total), page, pageSize), nil
}

func (s *titleService) GetByID(ctx context.Context, id int64) (*dto.TitleResponse, error) {
	title, rating, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.TranslateDB(err, "title not found", "")
	}
	resp := dto.TitleFromModel(title, rating)
	return &resp, nil
}

func (s *titleService) Create(ctx context.Context, in dto.CreateTitleDTO) (*dto.TitleResponse, error) {
	if err := s.validator.Name(in.Name); err != nil {
		return nil, err
	}
	if err := s.validator.Year(in.Year); err != nil {
		return nil, err
	}

	title := &models.Title{
		Name:        in.Name,
		Year:        in.Year,
		Description: in.Description,
	}

	if in.Category != nil {
		category, err := s.resolveCategory(ctx, *in.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = &category.ID
	}

	genres, err := s.resolveGenres(ctx, in.Genre)
	if err != nil {
		return nil, err
	}
	title.Genres = genres

	if err := s.titleRepo.Create(ctx, title); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, title.ID)
}

func (s *titleService) Update(ctx context.Context, id int64, in dto.UpdateTitleDTO) (*dto.TitleResponse, error) {
	title, _, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.TranslateDB(err, "title not found", "")
	}

	if in.Name != nil {
		if err := s.validator.Name(*in.Name); err != nil {
			return nil, err
		}
		title.Name = *in.Name
	}
	if in.Year != nil {
		if err := s.validator.Year(*in.Year); err != nil {
			return nil, err
		}
		title.Year = *in.Year
	}
	if in.Description != nil {
		title.Description = in.Description
	}
	if in.Category != nil {
		category, err := s.resolveCategory(ctx, *in.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = &category.ID
		title.Category = category
	}

	if in.Genre != nil {
		genres, err := s.resolveGenres(ctx, *in.Genre)
		if err != nil {
			return nil, err
		}
		if err := s.titleRepo.ReplaceGenres(ctx, title, genres); err != nil {
			return nil, err
		}
	}

	// Save without the association so the genre set stays exactly what
	// ReplaceGenres left behind.
	title.Genres = nil
	if err := s.titleRepo.Update(ctx, title); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

func (s *titleService) Delete(ctx context.Context, id int64) error {
	return apperrors.TranslateDB(s.titleRepo.Delete(ctx, id), "title not found", "")
}

// resolveCategory turns a category slug into its row; an unknown slug is a
// client error, not a 404, because it arrives in a write body.
func (s *titleService) resolveCategory(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Validation("category %q does not exist", slug)
		}
		return nil, err
	}
	return category, nil
}

func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]models.Genre, error) {
	genres, err := s.genreRepo.FindBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}
	if len(genres) != len(uniqueStrings(slugs)) {
		return nil, apperrors.Validation("one or more genres do not exist")
	}
	return genres, nil
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
