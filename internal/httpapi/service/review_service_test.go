package service

import (
	"context"
	"testing"

	"reviewhub/internal/config"
	"reviewhub/internal/httpapi/apperrors"
	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
	"reviewhub/internal/validate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func testValidator() *validate.Validator {
	return validate.New(config.DefaultLimits())
}

// MockReviewRepository mocks the ReviewRepository interface
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(review *models.Review) error {
	args := m.Called(review)
	return args.Error(0)
}

func (m *MockReviewRepository) Update(review *models.Review) error {
	args := m.Called(review)
	return args.Error(0)
}

func (m *MockReviewRepository) Delete(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockReviewRepository) GetByID(id int64) (*models.Review, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) GetByIDAndTitle(id, titleID int64) (*models.Review, error) {
	args := m.Called(id, titleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) ExistsByAuthorAndTitle(authorID string, titleID int64) (bool, error) {
	args := m.Called(authorID, titleID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewRepository) GetByTitle(titleID int64, page, pageSize int) ([]models.Review, int64, error) {
	args := m.Called(titleID, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Review), args.Get(1).(int64), args.Error(2)
}

// MockTitleStore mocks the TitleStore interface
type MockTitleStore struct {
	mock.Mock
}

func (m *MockTitleStore) GetAll(ctx context.Context, filter repository.TitleFilter, page, pageSize int) ([]models.Title, map[int64]float64, int64, error) {
	args := m.Called(ctx, filter, page, pageSize)
	if args.Get(0) == nil {
		return nil, nil, 0, args.Error(3)
	}
	return args.Get(0).([]models.Title), args.Get(1).(map[int64]float64), args.Get(2).(int64), args.Error(3)
}

func (m *MockTitleStore) GetByID(ctx context.Context, id int64) (*models.Title, *float64, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	rating, _ := args.Get(1).(*float64)
	return args.Get(0).(*models.Title), rating, args.Error(2)
}

func (m *MockTitleStore) Create(ctx context.Context, t *models.Title) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTitleStore) Update(ctx context.Context, t *models.Title) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTitleStore) ReplaceGenres(ctx context.Context, t *models.Title, genres []models.Genre) error {
	args := m.Called(ctx, t, genres)
	return args.Error(0)
}

func (m *MockTitleStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newReviewService(reviews *MockReviewRepository, titles *MockTitleStore) ReviewService {
	return NewReviewService(reviews, titles, testValidator())
}

func stubTitle(titles *MockTitleStore, id int64) {
	titles.On("GetByID", mock.Anything, id).Return(&models.Title{ID: id, Name: "Dune", Year: 1965}, nil, nil)
}

func author() *models.User {
	return &models.User{ID: "u1", Username: "bob", Role: models.RoleUser}
}

func TestReviewCreate_Success(t *testing.T) {
	reviews := new(MockReviewRepository)
	titles := new(MockTitleStore)
	svc := newReviewService(reviews, titles)

	stubTitle(titles, 7)
	reviews.On("ExistsByAuthorAndTitle", "u1", int64(7)).Return(false, nil)
	var created *models.Review
	reviews.On("Create", mock.AnythingOfType("*models.Review")).Return(nil).Run(func(args mock.Arguments) {
		created = args.Get(0).(*models.Review)
		created.ID = 42
	})
	reviews.On("GetByID", int64(42)).Return(&models.Review{
		ID:       42,
		Text:     "great",
		Score:    9,
		AuthorID: "u1",
		TitleID:  7,
		Author:   models.User{ID: "u1", Username: "bob"},
	}, nil)

	resp, err := svc.Create(context.Background(), author(), 7, dto.CreateReviewDTO{Text: "great", Score: 9})
	assert.NoError(t, err)
	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, "bob", resp.Author)
	assert.Equal(t, int64(7), resp.TitleID)

	assert.Equal(t, "u1", created.AuthorID, "author comes from the request context")
	assert.Equal(t, int64(7), created.TitleID, "title comes from the path")
}

func TestReviewCreate_SecondReviewConflicts(t *testing.T) {
	reviews := new(MockReviewRepository)
	titles := new(MockTitleStore)
	svc := newReviewService(reviews, titles)

	stubTitle(titles, 7)
	reviews.On("ExistsByAuthorAndTitle", "u1", int64(7)).Return(true, nil)

	_, err := svc.Create(context.Background(), author(), 7, dto.CreateReviewDTO{Text: "again", Score: 5})
	assertKind(t, err, apperrors.KindConflict)
	reviews.AssertNotCalled(t, "Create", mock.Anything)
}

func TestReviewCreate_UnknownTitle(t *testing.T) {
	reviews := new(MockReviewRepository)
	titles := new(MockTitleStore)
	svc := newReviewService(reviews, titles)

	titles.On("GetByID", mock.Anything, int64(999)).Return(nil, nil, gorm.ErrRecordNotFound)

	_, err := svc.Create(context.Background(), author(), 999, dto.CreateReviewDTO{Text: "x", Score: 5})
	assertKind(t, err, apperrors.KindNotFound)
}

func TestReviewCreate_ScoreOutOfRange(t *testing.T) {
	reviews := new(MockReviewRepository)
	titles := new(MockTitleStore)
	svc := newReviewService(reviews, titles)

	stubTitle(titles, 7)

	for _, score := range []int{0, 11, -1} {
		_, err := svc.Create(context.Background(), author(), 7, dto.CreateReviewDTO{Text: "x", Score: score})
		assertKind(t, err, apperrors.KindValidation)
	}
	reviews.AssertNotCalled(t, "Create", mock.Anything)
}

func existingReview() *models.Review {
	return &models.Review{
		ID:       42,
		Text:     "old text",
		Score:    5,
		AuthorID: "u1",
		TitleID:  7,
		Author:   models.User{ID: "u1", Username: "bob"},
	}
}

func TestReviewUpdate_StrangerForbidden(t *testing.T) {
	reviews := new(MockReviewRepository)
	titles := new(MockTitleStore)
	svc := newReviewService(reviews, titles)

	stubTitle(titles, 7)
	reviews.On("GetByIDAndTitle", int64(42), int64(7)).Return(existingReview(), nil)

	stranger := &models.User{ID: "u2", Username: "mallory", Role: models.RoleUser}
	text := "mine now"
	_, err := svc.Update(context.Background(), stranger, 7, 42, dto.UpdateReviewDTO{Text: &text})
	assertKind(t, err, apperrors.KindForbidden)
	reviews.AssertNotCalled(t, "Update", mock.Anything)
}

func TestReviewUpdate_ModeratorAllowed(t *testing.T) {
	reviews := new(MockReviewRepository)
	titles := new(MockTitleStore)
	svc := newReviewService(reviews, titles)

	stubTitle(titles, 7)
	reviews.On("GetByIDAndTitle", int64(42), int64(7)).Return(existingReview(), nil)
	reviews.On("Update", mock.AnythingOfType("*models.Review")).Return(nil)

	moderator := &models.User{ID: "m1", Username: "mod", Role: models.RoleModerator}
	score := 3
	resp, err := svc.Update(context.Background(), moderator, 7, 42, dto.UpdateReviewDTO{Score: &score})
	assert.NoError(t, err)
	assert.Equal(t, 3, resp.Score)
	assert.Equal(t, "old text", resp.Text, "unset fields stay as they were")
}

func TestReviewDelete_AuthorAllowed(t *testing.T) {
	reviews := new(MockReviewRepository)
	titles := new(MockTitleStore)
	svc := newReviewService(reviews, titles)

	stubTitle(titles, 7)
	reviews.On("GetByIDAndTitle", int64(42), int64(7)).Return(existingReview(), nil)
	reviews.On("Delete", int64(42)).Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), author(), 7, 42))
	reviews.AssertExpectations(t)
}

func TestReviewDelete_StrangerForbidden(t *testing.T) {
	reviews := new(MockReviewRepository)
	titles := new(MockTitleStore)
	svc := newReviewService(reviews, titles)

	stubTitle(titles, 7)
	reviews.On("GetByIDAndTitle", int64(42), int64(7)).Return(existingReview(), nil)

	stranger := &models.User{ID: "u2", Username: "mallory", Role: models.RoleUser}
	err := svc.Delete(context.Background(), stranger, 7, 42)
	assertKind(t, err, apperrors.KindForbidden)
	reviews.AssertNotCalled(t, "Delete", mock.Anything)
}

func TestReviewGetByID_WrongTitleScope(t *testing.T) {
	reviews := new(MockReviewRepository)
	titles := new(MockTitleStore)
	svc := newReviewService(reviews, titles)

	stubTitle(titles, 8)
	reviews.On("GetByIDAndTitle", int64(42), int64(8)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.GetByID(context.Background(), 8, 42)
	assertKind(t, err, apperrors.KindNotFound)
}
