package services

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/joshua-takyi/jirani/internal/apperrors"
	"github.com/joshua-takyi/jirani/internal/models"
)

// validate runs struct validation and reports the first failing field as a
// ValidationError.
func validate(v interface{}) error {
	err := models.Validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.NewValidationError(err.Error())
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required", "gt":
		return apperrors.NewValidationError(fmt.Sprintf("%s is required", fe.Field()))
	case "email":
		return apperrors.NewValidationError(fmt.Sprintf("%s must be a valid email", fe.Field()))
	case "min":
		return apperrors.NewValidationError(fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param()))
	case "max":
		return apperrors.NewValidationError(fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
	case "oneof":
		return apperrors.NewValidationError(fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param()))
	}
	return apperrors.NewValidationError(fmt.Sprintf("%s is invalid", fe.Field()))
}
