package service

import (
	"context"
	"net/http"

	"reviewhub/internal/httpapi/apperrors"
	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/policy"
	"reviewhub/internal/httpapi/repository"
	"reviewhub/internal/validate"
)

const duplicateReviewMsg = "you have already reviewed this title"

type ReviewService interface {
	GetByTitle(ctx context.Context, titleID int64, page, pageSize int) (*dto.Paginated, error)
	GetByID(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error)
	Create(ctx context.Context, actor *models.User, titleID int64, in dto.CreateReviewDTO) (*dto.ReviewResponse, error)
	Update(ctx context.Context, actor *models.User, titleID, reviewID int64, in dto.UpdateReviewDTO) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, actor *models.User, titleID, reviewID int64) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  TitleStore
	validator  *validate.Validator
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	titleRepo TitleStore,
	validator *validate.Validator,
) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, titleRepo: titleRepo, validator: validator}
}

// requireTitle resolves the path-supplied title id before anything else runs.
func (s *reviewService) requireTitle(ctx context.Context, titleID int64) error {
	if _, _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		return apperrors.TranslateDB(err, "title not found", "")
	}
	return nil
}

func (s *reviewService) GetByTitle(ctx context.Context, titleID int64, page, pageSize int) (*dto.Paginated, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	reviews, total, err := s.reviewRepo.GetByTitle(titleID, page, pageSize)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		resp = append(resp, dto.ReviewFromModel(&reviews[i]))
	}
	return dto.NewPaginated(resp, int(total), page, pageSize), nil
}

func (s *reviewService) GetByID(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	review, err := s.reviewRepo.GetByIDAndTitle(reviewID, titleID)
	if err != nil {
		return nil, apperrors.TranslateDB(err, "review not found", "")
	}
	resp := dto.ReviewFromModel(review)
	return &resp, nil
}

// Create persists a review with the author and title taken from the request
// context, never from the body. The duplicate pre-check gives the friendly
// message; the (author, title) unique index settles concurrent submissions
// and the resulting constraint error is translated to the same conflict.
func (s *reviewService) Create(ctx context.Context, actor *models.User, titleID int64, in dto.CreateReviewDTO) (*dto.ReviewResponse, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}
	if err := s.validator.Score(in.Score); err != nil {
		return nil, err
	}

	exists, err := s.reviewRepo.ExistsByAuthorAndTitle(actor.ID, titleID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.Conflict(duplicateReviewMsg)
	}

	review := &models.Review{
		Text:     in.Text,
		Score:    in.Score,
		AuthorID: actor.ID,
		TitleID:  titleID,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, apperrors.TranslateDB(err, "", duplicateReviewMsg)
	}

	created, err := s.reviewRepo.GetByID(review.ID)
	if err != nil {
		return nil, err
	}
	resp := dto.ReviewFromModel(created)
	return &resp, nil
}

func (s *reviewService) Update(ctx context.Context, actor *models.User, titleID, reviewID int64, in dto.UpdateReviewDTO) (*dto.ReviewResponse, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	review, err := s.reviewRepo.GetByIDAndTitle(reviewID, titleID)
	if err != nil {
		return nil, apperrors.TranslateDB(err, "review not found", "")
	}

	if !policy.AuthorOrElevatedObject(actor, http.MethodPatch, review.AuthorID) {
		return nil, apperrors.Forbidden("you may not edit this review")
	}

	if in.Text != nil {
		review.Text = *in.Text
	}
	if in.Score != nil {
		if err := s.validator.Score(*in.Score); err != nil {
			return nil, err
		}
		review.Score = *in.Score
	}

	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}
	resp := dto.ReviewFromModel(review)
	return &resp, nil
}

func (s *reviewService) Delete(ctx context.Context, actor *models.User, titleID, reviewID int64) error {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return err
	}

	review, err := s.reviewRepo.GetByIDAndTitle(reviewID, titleID)
	if err != nil {
		return apperrors.TranslateDB(err, "review not found", "")
	}

	if !policy.AuthorOrElevatedObject(actor, http.MethodDelete, review.AuthorID) {
		return apperrors.Forbidden("you may not delete this review")
	}

	return apperrors.TranslateDB(s.reviewRepo.Delete(review.ID), "review not found", "")
}
