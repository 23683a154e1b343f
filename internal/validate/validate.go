// Package validate holds the field validators shared by every write path
// that accepts the field: sign-up, the admin user surface, title, review and
// category/genre writes all call the same functions.
package validate

import (
	"regexp"
	"time"

	"reviewhub/internal/config"
	"reviewhub/internal/httpapi/apperrors"
)

var (
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_.@+-]+$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	slugRe     = regexp.MustCompile(`^[a-z0-9_-]+$`)
)

// reservedUsername collides with the /users/me profile route.
const reservedUsername = "me"

type Validator struct {
	limits config.Limits
}

func New(limits config.Limits) *Validator {
	return &Validator{limits: limits}
}

// Username rejects the reserved literal "me" and any string containing a
// character outside [A-Za-z0-9_.@+-]. The whole string is matched against
// the allow-list, not scrubbed character by character.
func (v *Validator) Username(value string) error {
	if value == "" {
		return apperrors.Validation("username is required")
	}
	if len(value) > v.limits.UsernameMax {
		return apperrors.Validation("username must be at most %d characters", v.limits.UsernameMax)
	}
	if value == reservedUsername {
		return apperrors.Validation("username %q is reserved", reservedUsername)
	}
	if !usernameRe.MatchString(value) {
		return apperrors.Validation("username may only contain letters, digits and @/./+/-/_")
	}
	return nil
}

func (v *Validator) Email(value string) error {
	if value == "" {
		return apperrors.Validation("email is required")
	}
	if len(value) > v.limits.EmailMax {
		return apperrors.Validation("email must be at most %d characters", v.limits.EmailMax)
	}
	if !emailRe.MatchString(value) {
		return apperrors.Validation("email is not a valid address")
	}
	return nil
}

// Year rejects release years later than the current one.
func (v *Validator) Year(value int) error {
	current := time.Now().Year()
	if value > current {
		return apperrors.Validation("year %d is later than the current year %d", value, current)
	}
	return nil
}

func (v *Validator) Score(value int) error {
	if value < v.limits.MinScore || value > v.limits.MaxScore {
		return apperrors.Validation("score must be between %d and %d", v.limits.MinScore, v.limits.MaxScore)
	}
	return nil
}

func (v *Validator) Name(value string) error {
	if value == "" {
		return apperrors.Validation("name is required")
	}
	if len(value) > v.limits.NameMax {
		return apperrors.Validation("name must be at most %d characters", v.limits.NameMax)
	}
	return nil
}

func (v *Validator) Slug(value string) error {
	if value == "" {
		return apperrors.Validation("slug is required")
	}
	if len(value) > v.limits.SlugMax {
		return apperrors.Validation("slug must be at most %d characters", v.limits.SlugMax)
	}
	if !slugRe.MatchString(value) {
		return apperrors.Validation("slug may only contain lowercase letters, digits, - and _")
	}
	return nil
}

// Role checks the stored role values; the staff/superuser flags are separate.
func (v *Validator) Role(value string) error {
	switch value {
	case "user", "moderator", "admin":
		return nil
	}
	return apperrors.Validation("role must be one of user, moderator, admin")
}
