package services

import (
	"context"
	"strings"

	"github.com/joshua-takyi/jirani/internal/apperrors"
	"github.com/joshua-takyi/jirani/internal/helpers"
	"github.com/joshua-takyi/jirani/internal/models"
)

type TokenIssuer interface {
	Issue(userID int64, role, username string) (string, error)
}

type UserService struct {
	userRepo models.UserRepo
	tokens   TokenIssuer
}

func NewUserService(userRepo models.UserRepo, tokens TokenIssuer) *UserService {
	return &UserService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func (us *UserService) Register(ctx context.Context, in models.RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	if err := validate(in); err != nil {
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = models.RoleSeeker
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	return us.userRepo.CreateUser(ctx, &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PhoneNumber:  in.PhoneNumber,
		PasswordHash: hash,
		Role:         role,
	})
}

// Login verifies the credentials and issues a bearer token. Unknown emails
// and wrong passwords are indistinguishable to the caller.
func (us *UserService) Login(ctx context.Context, in models.LoginInput) (*models.AuthResponse, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validate(in); err != nil {
		return nil, err
	}

	user, err := us.userRepo.GetUserByEmail(ctx, in.Email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrorTypeNotFound) {
			return nil, apperrors.NewUnauthorizedError("Invalid email or password")
		}
		return nil, err
	}
	if !helpers.CheckPassword(user.PasswordHash, in.Password) {
		return nil, apperrors.NewUnauthorizedError("Invalid email or password")
	}

	token, err := us.tokens.Issue(user.ID, string(user.Role), user.Username)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to issue token", err)
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}

func (us *UserService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	return us.userRepo.GetUserByID(ctx, userID)
}

func (us *UserService) UpdateProfile(ctx context.Context, userID int64, update models.UserUpdate) (*models.User, error) {
	if update.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*update.Email))
		update.Email = &email
	}
	if err := validate(update); err != nil {
		return nil, err
	}
	return us.userRepo.UpdateUser(ctx, userID, update)
}
