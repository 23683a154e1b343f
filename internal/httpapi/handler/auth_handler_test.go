package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"reviewhub/internal/httpapi/apperrors"
	"reviewhub/internal/httpapi/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignUp(username, email string) (*models.User, error) {
	args := m.Called(username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) IssueToken(username, confirmationCode string) (string, error) {
	args := m.Called(username, confirmationCode)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateToken(tokenString string) (string, error) {
	args := m.Called(tokenString)
	return args.String(0), args.Error(1)
}

func authRouter(svc *MockAuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewAuthHandler(svc).RegisterRoutes(r.Group("/api/v1/auth"))
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSignUpEndpoint_EchoesPair(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("SignUp", "bob", "b@x.com").
		Return(&models.User{ID: "u1", Username: "bob", Email: "b@x.com"}, nil)

	w := postJSON(t, authRouter(svc), "/api/v1/auth/signup", gin.H{"username": "bob", "email": "b@x.com"})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "bob", resp["username"])
	assert.Equal(t, "b@x.com", resp["email"])
	assert.NotContains(t, w.Body.String(), "confirmation", "the code must never appear in the response")
}

func TestSignUpEndpoint_MissingFields(t *testing.T) {
	svc := new(MockAuthService)

	w := postJSON(t, authRouter(svc), "/api/v1/auth/signup", gin.H{"username": "bob"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything)
}

func TestSignUpEndpoint_Conflict(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("SignUp", "bob", "b@x.com").Return(nil, apperrors.Conflict("email already taken"))

	w := postJSON(t, authRouter(svc), "/api/v1/auth/signup", gin.H{"username": "bob", "email": "b@x.com"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "email already taken")
}

func TestTokenEndpoint_Success(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("IssueToken", "bob", "somecode").Return("signed.jwt.token", nil)

	w := postJSON(t, authRouter(svc), "/api/v1/auth/token", gin.H{
		"username":          "bob",
		"confirmation_code": "somecode",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "signed.jwt.token", resp["token"])
}

func TestTokenEndpoint_UnknownUser(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("IssueToken", "ghost", "somecode").Return("", apperrors.NotFound("user %q not found", "ghost"))

	w := postJSON(t, authRouter(svc), "/api/v1/auth/token", gin.H{
		"username":          "ghost",
		"confirmation_code": "somecode",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTokenEndpoint_BadCode(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("IssueToken", "bob", "wrong").Return("", apperrors.Validation("invalid confirmation code"))

	w := postJSON(t, authRouter(svc), "/api/v1/auth/token", gin.H{
		"username":          "bob",
		"confirmation_code": "wrong",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid confirmation code")
}
