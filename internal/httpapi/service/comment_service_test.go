package service

import (
	"context"
	"testing"

	"reviewhub/internal/httpapi/apperrors"
	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockCommentRepository mocks the CommentRepository interface
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(comment *models.Comment) error {
	args := m.Called(comment)
	return args.Error(0)
}

func (m *MockCommentRepository) Update(comment *models.Comment) error {
	args := m.Called(comment)
	return args.Error(0)
}

func (m *MockCommentRepository) Delete(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockCommentRepository) GetByID(id int64) (*models.Comment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) GetByReview(reviewID int64, page, pageSize int) ([]models.Comment, int64, error) {
	args := m.Called(reviewID, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Comment), args.Get(1).(int64), args.Error(2)
}

func newCommentService(comments *MockCommentRepository, reviews *MockReviewRepository) CommentService {
	return NewCommentService(comments, reviews)
}

func stubReview(reviews *MockReviewRepository, id, titleID int64) {
	reviews.On("GetByID", id).Return(&models.Review{
		ID:       id,
		Text:     "the review",
		Score:    7,
		AuthorID: "u1",
		TitleID:  titleID,
		Author:   models.User{ID: "u1", Username: "bob"},
	}, nil)
}

func TestCommentCreate_SetsAuthorAndReviewFromContext(t *testing.T) {
	comments := new(MockCommentRepository)
	reviews := new(MockReviewRepository)
	svc := newCommentService(comments, reviews)

	stubReview(reviews, 42, 7)
	var created *models.Comment
	comments.On("Create", mock.AnythingOfType("*models.Comment")).Return(nil).Run(func(args mock.Arguments) {
		created = args.Get(0).(*models.Comment)
		created.ID = 5
	})
	comments.On("GetByID", int64(5)).Return(&models.Comment{
		ID:       5,
		Text:     "nice one",
		AuthorID: "u2",
		ReviewID: 42,
		Author:   models.User{ID: "u2", Username: "carol"},
	}, nil)

	actor := &models.User{ID: "u2", Username: "carol", Role: models.RoleUser}
	resp, err := svc.Create(context.Background(), actor, 7, 42, dto.CreateCommentDTO{Text: "nice one"})
	assert.NoError(t, err)
	assert.Equal(t, "carol", resp.Author)
	assert.Equal(t, int64(42), resp.ReviewID)
	assert.Equal(t, "u2", created.AuthorID, "author comes from the request context")
	assert.Equal(t, int64(42), created.ReviewID, "review comes from the path")
}

// The review id is resolved on its own: a review living under a different
// title than the path names must still be found, only a review missing from
// the whole store is a 404.
func TestCommentCreate_ReviewUnderAnotherTitle(t *testing.T) {
	comments := new(MockCommentRepository)
	reviews := new(MockReviewRepository)
	svc := newCommentService(comments, reviews)

	stubReview(reviews, 42, 7)
	comments.On("Create", mock.AnythingOfType("*models.Comment")).Return(nil).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Comment).ID = 6
	})
	comments.On("GetByID", int64(6)).Return(&models.Comment{
		ID:       6,
		Text:     "still works",
		AuthorID: "u2",
		ReviewID: 42,
		Author:   models.User{ID: "u2", Username: "carol"},
	}, nil)

	actor := &models.User{ID: "u2", Username: "carol", Role: models.RoleUser}
	resp, err := svc.Create(context.Background(), actor, 8, 42, dto.CreateCommentDTO{Text: "still works"})
	assert.NoError(t, err)
	assert.Equal(t, int64(42), resp.ReviewID)
	reviews.AssertNotCalled(t, "GetByIDAndTitle", mock.Anything, mock.Anything)
}

func TestCommentCreate_UnknownReview(t *testing.T) {
	comments := new(MockCommentRepository)
	reviews := new(MockReviewRepository)
	svc := newCommentService(comments, reviews)

	reviews.On("GetByID", int64(999)).Return(nil, gorm.ErrRecordNotFound)

	actor := &models.User{ID: "u2", Username: "carol", Role: models.RoleUser}
	_, err := svc.Create(context.Background(), actor, 7, 999, dto.CreateCommentDTO{Text: "x"})
	assertKind(t, err, apperrors.KindNotFound)
	comments.AssertNotCalled(t, "Create", mock.Anything)
}

func existingComment() *models.Comment {
	return &models.Comment{
		ID:       5,
		Text:     "old text",
		AuthorID: "u2",
		ReviewID: 42,
		Author:   models.User{ID: "u2", Username: "carol"},
	}
}

func TestCommentUpdate_StrangerForbidden(t *testing.T) {
	comments := new(MockCommentRepository)
	reviews := new(MockReviewRepository)
	svc := newCommentService(comments, reviews)

	stubReview(reviews, 42, 7)
	comments.On("GetByID", int64(5)).Return(existingComment(), nil)

	stranger := &models.User{ID: "u3", Username: "mallory", Role: models.RoleUser}
	text := "mine now"
	_, err := svc.Update(context.Background(), stranger, 7, 42, 5, dto.UpdateCommentDTO{Text: &text})
	assertKind(t, err, apperrors.KindForbidden)
	comments.AssertNotCalled(t, "Update", mock.Anything)
}

func TestCommentUpdate_ModeratorAllowed(t *testing.T) {
	comments := new(MockCommentRepository)
	reviews := new(MockReviewRepository)
	svc := newCommentService(comments, reviews)

	stubReview(reviews, 42, 7)
	comments.On("GetByID", int64(5)).Return(existingComment(), nil)
	comments.On("Update", mock.AnythingOfType("*models.Comment")).Return(nil)

	moderator := &models.User{ID: "m1", Username: "mod", Role: models.RoleModerator}
	text := "edited"
	resp, err := svc.Update(context.Background(), moderator, 7, 42, 5, dto.UpdateCommentDTO{Text: &text})
	assert.NoError(t, err)
	assert.Equal(t, "edited", resp.Text)
}

func TestCommentDelete_AuthorAllowed(t *testing.T) {
	comments := new(MockCommentRepository)
	reviews := new(MockReviewRepository)
	svc := newCommentService(comments, reviews)

	stubReview(reviews, 42, 7)
	comments.On("GetByID", int64(5)).Return(existingComment(), nil)
	comments.On("Delete", int64(5)).Return(nil)

	actor := &models.User{ID: "u2", Username: "carol", Role: models.RoleUser}
	assert.NoError(t, svc.Delete(context.Background(), actor, 7, 42, 5))
	comments.AssertExpectations(t)
}

// A comment id belonging to a different review reads as not found.
func TestCommentGetByID_WrongReviewScope(t *testing.T) {
	comments := new(MockCommentRepository)
	reviews := new(MockReviewRepository)
	svc := newCommentService(comments, reviews)

	stubReview(reviews, 43, 7)
	other := existingComment() // ReviewID 42
	comments.On("GetByID", int64(5)).Return(other, nil)

	_, err := svc.GetByID(context.Background(), 7, 43, 5)
	assertKind(t, err, apperrors.KindNotFound)
}
