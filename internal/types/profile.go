package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleFrontend  UserRole = "frontend"
	RoleBackend   UserRole = "backend"
	RoleFullstack UserRole = "fullstack"
	RoleMobile    UserRole = "mobile"
	RoleOther     UserRole = "other"
)

func ParseUserRole(s string) (UserRole, error) {
	switch UserRole(s) {
	case RoleFrontend, RoleBackend, RoleFullstack, RoleMobile, RoleOther:
		return UserRole(s), nil
	}
	return "", fmt.Errorf("unknown user role %q", s)
}

type ExperienceLevel string

const (
	LevelJunior ExperienceLevel = "junior"
	LevelMid    ExperienceLevel = "mid"
	LevelSenior ExperienceLevel = "senior"
)

func ParseExperienceLevel(s string) (ExperienceLevel, error) {
	switch ExperienceLevel(s) {
	case LevelJunior, LevelMid, LevelSenior:
		return ExperienceLevel(s), nil
	}
	return "", fmt.Errorf("unknown experience level %q", s)
}

// UserProfile is the single onboarding record. The app is single-user, so at
// most one row exists; re-onboarding overwrites it.
type UserProfile struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string          `gorm:"column:name;not null" json:"name"`
	Role      UserRole        `gorm:"column:role;not null" json:"role"`
	Level     ExperienceLevel `gorm:"column:level;not null" json:"level"`
	Goal      string          `gorm:"column:goal" json:"goal"`
	CreatedAt time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null" json:"updated_at"`
}

func (UserProfile) TableName() string { return "user_profile" }
