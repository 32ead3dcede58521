package dto

import (
	"errors"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/jobfinder-service/pkg/util"
)

var validate = validator.New()

// Validate runs struct tag validation and converts failures into the shared
// VALIDATION_FAILED error shape.
func Validate(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	details := map[string]any{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			details[fe.Field()] = fe.Tag()
		}
	}
	return apperrors.NewValidationError("request validation failed", details)
}
