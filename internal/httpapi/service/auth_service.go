package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"reviewhub/internal/config"
	"reviewhub/internal/httpapi/apperrors"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
	"reviewhub/internal/mail"
	"reviewhub/internal/validate"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

var (
	ErrInvalidToken = errors.New("invalid token")
)

const (
	emailTakenMsg    = "email already taken"
	usernameTakenMsg = "username already taken"
)

type AuthService interface {
	SignUp(username, email string) (*models.User, error)
	IssueToken(username, confirmationCode string) (string, error)
	ValidateToken(tokenString string) (userID string, err error)
}

type authService struct {
	userRepo  repository.UserRepository
	codes     *ConfirmationCodes
	mailer    mail.Mailer
	validator *validate.Validator
	logger    *slog.Logger
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	codes *ConfirmationCodes,
	mailer mail.Mailer,
	validator *validate.Validator,
	logger *slog.Logger,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:  userRepo,
		codes:     codes,
		mailer:    mailer,
		validator: validator,
		logger:    logger,
		jwtSecret: cfg.JWTSecret,
		tokenTTL:  cfg.TokenTTL,
	}
}

// SignUp runs the get-or-create keyed by the exact (username, email) pair
// and mails a confirmation code to the address. Repeating the same pair is
// idempotent; a pair that collides with an existing row on only one of the
// two fields is rejected, email checked first.
func (s *authService) SignUp(username, email string) (*models.User, error) {
	if err := s.validator.Username(username); err != nil {
		return nil, err
	}
	if err := s.validator.Email(email); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByPair(username, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		// Pre-check gives the friendly message; the unique constraints
		// below stay the authority under concurrent sign-ups.
		if conflict := s.signUpConflict(username, email); conflict != nil {
			return nil, conflict
		}

		user = &models.User{Username: username, Email: email, Role: models.RoleUser}
		if err := s.userRepo.Create(user); err != nil {
			if apperrors.IsUniqueViolation(err) {
				if conflict := s.signUpConflict(username, email); conflict != nil {
					return nil, conflict
				}
			}
			return nil, err
		}
	}

	s.sendConfirmationCode(user)
	return user, nil
}

// signUpConflict reproduces the discrimination order of the sign-up error:
// probe for the email first, fall back to the username message.
func (s *authService) signUpConflict(username, email string) error {
	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return apperrors.Conflict(emailTakenMsg)
	}
	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return apperrors.Conflict(usernameTakenMsg)
	}
	return nil
}

// sendConfirmationCode is fire-and-forget: a mail failure is logged and the
// sign-up still succeeds.
func (s *authService) sendConfirmationCode(user *models.User) {
	code, err := s.codes.CodeFor(user)
	if err != nil {
		s.logger.Error("failed to derive confirmation code", "username", user.Username, "error", err)
		return
	}

	msg := mail.Message{
		To:      user.Email,
		Subject: "Confirmation code",
		Body:    fmt.Sprintf("Hello, %s! Your confirmation code is: %s", user.Username, code),
	}
	if err := s.mailer.Send(msg); err != nil {
		s.logger.Error("failed to send confirmation code", "username", user.Username, "error", err)
	}
}

// IssueToken verifies the confirmation code against the user's current state
// and returns a signed bearer token.
func (s *authService) IssueToken(username, confirmationCode string) (string, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.NotFound("user %q not found", username)
		}
		return "", err
	}

	if !s.codes.Verify(user, confirmationCode) {
		return "", apperrors.Validation("invalid confirmation code")
	}

	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken parses the bearer token and returns the subject user id.
func (s *authService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", ErrInvalidToken
	}
	return userID, nil
}
