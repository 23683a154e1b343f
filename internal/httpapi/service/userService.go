package service

import (
	"errors"

	"reviewhub/internal/httpapi/apperrors"
	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
	"reviewhub/internal/validate"

	"gorm.io/gorm"
)

// UserService backs the admin user surface and the /users/me profile. The
// sign-up validators are reused here so the two creation paths cannot
// drift apart.
type UserService interface {
	List(search string, page, pageSize int) (*dto.Paginated, error)
	Create(in dto.CreateUserDTO) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	Update(username string, in dto.UpdateUserDTO, allowRoleChange bool) (*models.User, error)
	Delete(username string) error
}

type userService struct {
	userRepo  repository.UserRepository
	validator *validate.Validator
}

func NewUserService(userRepo repository.UserRepository, validator *validate.Validator) UserService {
	return &userService{userRepo: userRepo, validator: validator}
}

func (s *userService) List(search string, page, pageSize int) (*dto.Paginated, error) {
	users, total, err := s.userRepo.List(search, page, pageSize)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, dto.UserFromModel(&users[i]))
	}
	return dto.NewPaginated(resp, int(total), page, pageSize), nil
}

func (s *userService) Create(in dto.CreateUserDTO) (*models.User, error) {
	if err := s.validator.Username(in.Username); err != nil {
		return nil, err
	}
	if err := s.validator.Email(in.Email); err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	if err := s.validator.Role(role); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByEmail(in.Email); err == nil {
		return nil, apperrors.Conflict(emailTakenMsg)
	}
	if _, err := s.userRepo.FindByUsername(in.Username); err == nil {
		return nil, apperrors.Conflict(usernameTakenMsg)
	}

	user := &models.User{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Bio:       in.Bio,
		Role:      role,
	}
	if err := s.userRepo.Create(user); err != nil {
		if apperrors.IsUniqueViolation(err) {
			if _, probeErr := s.userRepo.FindByEmail(in.Email); probeErr == nil {
				return nil, apperrors.Conflict(emailTakenMsg)
			}
			return nil, apperrors.Conflict(usernameTakenMsg)
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByUsername(username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, apperrors.TranslateDB(err, "user not found", "")
	}
	return user, nil
}

func (s *userService) GetByID(id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, apperrors.TranslateDB(err, "user not found", "")
	}
	return user, nil
}

// Update applies a partial edit. The role field only takes effect when
// allowRoleChange is set (admin editing a record); on /users/me it is
// ignored, matching its read-only status there.
func (s *userService) Update(username string, in dto.UpdateUserDTO, allowRoleChange bool) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user %q not found", username)
		}
		return nil, err
	}

	if in.Username != nil {
		if err := s.validator.Username(*in.Username); err != nil {
			return nil, err
		}
		user.Username = *in.Username
	}
	if in.Email != nil {
		if err := s.validator.Email(*in.Email); err != nil {
			return nil, err
		}
		user.Email = *in.Email
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.Role != nil && allowRoleChange {
		if err := s.validator.Role(*in.Role); err != nil {
			return nil, err
		}
		user.Role = *in.Role
	}

	if err := s.userRepo.Update(user); err != nil {
		if apperrors.IsUniqueViolation(err) {
			if in.Email != nil {
				if existing, probeErr := s.userRepo.FindByEmail(*in.Email); probeErr == nil && existing.ID != user.ID {
					return nil, apperrors.Conflict(emailTakenMsg)
				}
			}
			return nil, apperrors.Conflict(usernameTakenMsg)
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) Delete(username string) error {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("user %q not found", username)
		}
		return err
	}
	return apperrors.TranslateDB(s.userRepo.Delete(user.ID), "user not found", "")
}
