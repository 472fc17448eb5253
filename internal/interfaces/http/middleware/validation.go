package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/propertyhub/backend/internal/domain/onboarding"
	"github.com/propertyhub/backend/internal/interfaces/http/dto"
)

// SetupValidator installs the custom tags on gin's validator and makes it
// report JSON field names instead of Go field names.
func SetupValidator() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}
	return RegisterValidations(v)
}

// RegisterValidations adds onboarding_step, fee_type and preset_category to v
func RegisterValidations(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	known := onboarding.KnownSteps()
	validations := map[string]validator.Func{
		"onboarding_step": func(fl validator.FieldLevel) bool {
			return known.Contains(onboarding.Step(fl.Field().String()))
		},
		"fee_type": func(fl validator.FieldLevel) bool {
			return onboarding.FeeType(fl.Field().String()).IsValid()
		},
		"preset_category": func(fl validator.FieldLevel) bool {
			return onboarding.Category(fl.Field().String()).IsValid()
		},
	}
	for tag, fn := range validations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// validationMessages holds the client facing text per tag. %s is replaced
// with the tag parameter; length tags on strings append " characters".
var validationMessages = map[string]string{
	"required":        "This field is required",
	"email":           "Invalid email format",
	"uuid":            "Invalid UUID format",
	"oneof":           "Must be one of: %s",
	"min":             "Must be at least %s",
	"max":             "Must be at most %s",
	"gte":             "Must be greater than or equal to %s",
	"lte":             "Must be less than or equal to %s",
	"onboarding_step": "Unknown onboarding step",
	"fee_type":        "Unknown fee type",
	"preset_category": "Unknown preset category",
}

// FormatValidationErrors lists each failed field under its JSON name. Decode
// errors that are not validation failures are reported against "body".
func FormatValidationErrors(err error, requestID string) dto.Response {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return dto.NewValidationErrorResponse("Request validation failed", requestID,
			[]dto.ValidationDetail{{Field: "body", Message: err.Error()}})
	}

	details := make([]dto.ValidationDetail, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, dto.ValidationDetail{Field: fe.Field(), Message: validationMessage(fe)})
	}
	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

func HandleValidationError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, FormatValidationErrors(err, GetRequestID(c)))
}

func validationMessage(fe validator.FieldError) string {
	msg, ok := validationMessages[fe.Tag()]
	if !ok {
		return "Invalid value"
	}
	if !strings.Contains(msg, "%s") {
		return msg
	}
	msg = fmt.Sprintf(msg, fe.Param())
	if (fe.Tag() == "min" || fe.Tag() == "max") && fe.Kind() == reflect.String {
		msg += " characters"
	}
	return msg
}
