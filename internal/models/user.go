package models

import (
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
)

type Role string

const (
	RoleSeeker   Role = "seeker"
	RoleProvider Role = "provider"
)

func (r Role) Valid() bool {
	return r == RoleSeeker || r == RoleProvider
}

type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username" validate:"required,min=3,max=50"`
	Email        string    `db:"email" json:"email" validate:"required,email"`
	PhoneNumber  string    `db:"phone_number" json:"phone_number" validate:"omitempty,max=20"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// UserUpdate is a self-service profile change. Nil or blank fields are left
// unchanged.
type UserUpdate struct {
	Username    *string `json:"username" validate:"omitempty,min=3,max=50"`
	Email       *string `json:"email" validate:"omitempty,email"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=20"`
}

// Record returns the columns to set, walking the fixed field list.
func (u UserUpdate) Record() goqu.Record {
	rec := goqu.Record{}
	fields := []struct {
		column string
		value  *string
	}{
		{"username", u.Username},
		{"email", u.Email},
		{"phone_number", u.PhoneNumber},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		if v := strings.TrimSpace(*f.value); v != "" {
			rec[f.column] = v
		}
	}
	return rec
}

// RegisterInput is the sign-up payload. Role defaults to seeker.
type RegisterInput struct {
	Username    string `json:"username" validate:"required,min=3,max=50"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=20"`
	Password    string `json:"password" validate:"required,min=6"`
	Role        Role   `json:"role" validate:"omitempty,oneof=seeker provider"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
