package service

import (
	"context"
	"net/http"

	"reviewhub/internal/httpapi/apperrors"
	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/policy"
	"reviewhub/internal/httpapi/repository"
)

type CommentService interface {
	GetByReview(ctx context.Context, titleID, reviewID int64, page, pageSize int) (*dto.Paginated, error)
	GetByID(ctx context.Context, titleID, reviewID, commentID int64) (*dto.CommentResponse, error)
	Create(ctx context.Context, actor *models.User, titleID, reviewID int64, in dto.CreateCommentDTO) (*dto.CommentResponse, error)
	Update(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64, in dto.UpdateCommentDTO) (*dto.CommentResponse, error)
	Delete(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
}

func NewCommentService(commentRepo repository.CommentRepository, reviewRepo repository.ReviewRepository) CommentService {
	return &commentService{commentRepo: commentRepo, reviewRepo: reviewRepo}
}

// requireReview resolves the path-supplied review id by id alone. The title
// segment of the path is not consulted: a review reachable under a stale or
// wrong title id still resolves, only a review absent from the whole store
// reads as not found.
func (s *commentService) requireReview(ctx context.Context, reviewID int64) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return nil, apperrors.TranslateDB(err, "review not found", "")
	}
	return review, nil
}

func (s *commentService) GetByReview(ctx context.Context, titleID, reviewID int64, page, pageSize int) (*dto.Paginated, error) {
	review, err := s.requireReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	comments, total, err := s.commentRepo.GetByReview(review.ID, page, pageSize)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		resp = append(resp, dto.CommentFromModel(&comments[i]))
	}
	return dto.NewPaginated(resp, int(total), page, pageSize), nil
}

func (s *commentService) GetByID(ctx context.Context, titleID, reviewID, commentID int64) (*dto.CommentResponse, error) {
	review, err := s.requireReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	comment, err := s.getScopedComment(commentID, review.ID)
	if err != nil {
		return nil, err
	}
	resp := dto.CommentFromModel(comment)
	return &resp, nil
}

// Create persists a comment with the author and review taken from the
// request context, never from the body.
func (s *commentService) Create(ctx context.Context, actor *models.User, titleID, reviewID int64, in dto.CreateCommentDTO) (*dto.CommentResponse, error) {
	review, err := s.requireReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:     in.Text,
		AuthorID: actor.ID,
		ReviewID: review.ID,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	created, err := s.commentRepo.GetByID(comment.ID)
	if err != nil {
		return nil, err
	}
	resp := dto.CommentFromModel(created)
	return &resp, nil
}

func (s *commentService) Update(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64, in dto.UpdateCommentDTO) (*dto.CommentResponse, error) {
	review, err := s.requireReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	comment, err := s.getScopedComment(commentID, review.ID)
	if err != nil {
		return nil, err
	}

	if !policy.AuthorOrElevatedObject(actor, http.MethodPatch, comment.AuthorID) {
		return nil, apperrors.Forbidden("you may not edit this comment")
	}

	if in.Text != nil {
		comment.Text = *in.Text
	}

	if err := s.commentRepo.Update(comment); err != nil {
		return nil, err
	}
	resp := dto.CommentFromModel(comment)
	return &resp, nil
}

func (s *commentService) Delete(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64) error {
	review, err := s.requireReview(ctx, reviewID)
	if err != nil {
		return err
	}

	comment, err := s.getScopedComment(commentID, review.ID)
	if err != nil {
		return err
	}

	if !policy.AuthorOrElevatedObject(actor, http.MethodDelete, comment.AuthorID) {
		return apperrors.Forbidden("you may not delete this comment")
	}

	return apperrors.TranslateDB(s.commentRepo.Delete(comment.ID), "comment not found", "")
}

func (s *commentService) getScopedComment(commentID, reviewID int64) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		return nil, apperrors.TranslateDB(err, "comment not found", "")
	}
	if comment.ReviewID != reviewID {
		return nil, apperrors.NotFound("comment not found")
	}
	return comment, nil
}
