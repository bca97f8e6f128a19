package models

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/joshua-takyi/jirani/internal/apperrors"
)

var userColumns = []interface{}{
	"id", "username", "email", "phone_number", "password_hash", "role", "created_at", "updated_at",
}

type UserRepo interface {
	CreateUser(ctx context.Context, user *User) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUser(ctx context.Context, id int64, update UserUpdate) (*User, error)
}

func (r *MySQLRepo) CreateUser(ctx context.Context, user *User) (*User, error) {
	now := time.Now().UTC()
	ds := r.insert(UsersTable).Rows(goqu.Record{
		"username":      user.Username,
		"email":         user.Email,
		"phone_number":  user.PhoneNumber,
		"password_hash": user.PasswordHash,
		"role":          string(user.Role),
		"created_at":    now,
		"updated_at":    now,
	})

	id, _, err := r.exec(ctx, r.db, ds)
	if err != nil {
		if isDuplicateEntry(err) {
			return nil, apperrors.NewConflictError("email already in use")
		}
		return nil, apperrors.NewInternalError("failed to create user", err)
	}

	return r.GetUserByID(ctx, id)
}

func (r *MySQLRepo) GetUserByID(ctx context.Context, id int64) (*User, error) {
	return r.getUser(ctx, goqu.C("id").Eq(id))
}

func (r *MySQLRepo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return r.getUser(ctx, goqu.C("email").Eq(email))
}

func (r *MySQLRepo) getUser(ctx context.Context, where goqu.Expression) (*User, error) {
	var user User
	err := r.get(ctx, r.db, &user, r.from(UsersTable).Select(userColumns...).Where(where))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("user not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user", err)
	}
	return &user, nil
}

func (r *MySQLRepo) UpdateUser(ctx context.Context, id int64, update UserUpdate) (*User, error) {
	rec := update.Record()
	if len(rec) == 0 {
		return nil, apperrors.NewValidationError("no fields to update")
	}
	rec["updated_at"] = time.Now().UTC()

	if _, _, err := r.exec(ctx, r.db, r.update(UsersTable).Set(rec).Where(goqu.C("id").Eq(id))); err != nil {
		if isDuplicateEntry(err) {
			return nil, apperrors.NewConflictError("email already in use")
		}
		return nil, apperrors.NewInternalError("failed to update user", err)
	}

	return r.GetUserByID(ctx, id)
}
