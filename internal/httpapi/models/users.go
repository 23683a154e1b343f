package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role values stored on a user row.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

type User struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	Username  string `gorm:"uniqueIndex;uniqueIndex:idx_username_email;size:150;not null" json:"username"`
	Email     string `gorm:"uniqueIndex;uniqueIndex:idx_username_email;size:254;not null" json:"email"`
	FirstName string `gorm:"size:150" json:"first_name,omitempty"`
	LastName  string `gorm:"size:150" json:"last_name,omitempty"`
	Bio       string `gorm:"type:text" json:"bio,omitempty"`
	// roles: "user", "moderator", "admin" | default after creation is "user"
	Role        string    `gorm:"default:'user';not null" json:"role"`
	IsStaff     bool      `gorm:"default:false" json:"-"`
	IsSuperuser bool      `gorm:"default:false" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	// If the ID is not already set, generate a new one.
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

// IsAdmin reports whether the user carries admin rights, either through the
// role field or through the staff/superuser flags.
func (user *User) IsAdmin() bool {
	return user.Role == RoleAdmin || user.IsStaff || user.IsSuperuser
}

func (user *User) IsModerator() bool {
	return user.Role == RoleModerator
}

func (User) TableName() string {
	return "users"
}
