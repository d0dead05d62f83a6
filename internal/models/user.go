package models

import (
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleStudent    Role = "STUDENT"
	RoleInstructor Role = "INSTRUCTOR"
	RoleAdmin      Role = "ADMIN"
)

func ParseRole(s string) (Role, error) {
	switch role := Role(strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(s), "ROLE_"))); role {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return role, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

type User struct {
	ID                int64     `json:"id"`
	Email             string    `json:"email"`
	FirstName         string    `json:"firstName"`
	LastName          string    `json:"lastName"`
	Role              Role      `json:"role"`
	IsVerified        bool      `json:"isVerified"`
	IsActive          bool      `json:"isActive"`
	ProfilePictureURL *string   `json:"profilePictureUrl,omitempty"`
	Phone             string    `json:"phone,omitempty"`
	Bio               string    `json:"bio,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// UserPatch is a partial profile update; nil fields are left untouched.
type UserPatch struct {
	FirstName         *string `json:"firstName,omitempty"`
	LastName          *string `json:"lastName,omitempty"`
	ProfilePictureURL *string `json:"profilePictureUrl,omitempty"`
	Phone             *string `json:"phone,omitempty"`
	Bio               *string `json:"bio,omitempty"`
	IsVerified        *bool   `json:"isVerified,omitempty"`
}

// Clone returns a copy that shares no pointers with u.
func (u User) Clone() User {
	if u.ProfilePictureURL != nil {
		url := *u.ProfilePictureURL
		u.ProfilePictureURL = &url
	}
	return u
}

func (u User) Apply(p UserPatch) User {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.ProfilePictureURL != nil {
		url := *p.ProfilePictureURL
		u.ProfilePictureURL = &url
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.IsVerified != nil {
		u.IsVerified = *p.IsVerified
	}
	return u
}

// UserRef is the embedded user summary carried by enrollments, payments and courses.
type UserRef struct {
	ID        int64  `json:"id"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}
