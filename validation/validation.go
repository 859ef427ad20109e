package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/models"
)

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// ValidateRequest checks the form inputs before any work is done. It trims
// req.URL in place.
func (v *Validator) ValidateRequest(req *models.SummaryRequest) error {
	const op = "Validator.ValidateRequest"

	if req == nil {
		return errors.InvalidInput(op, nil, "Request is required")
	}

	req.URL = strings.TrimSpace(req.URL)

	if err := v.validate.Struct(req); err != nil {
		return errors.InvalidInput(op, err, strings.Join(FormatValidationErrors(err), "; "))
	}
	return nil
}

// FormatValidationErrors turns validator/v10 errors into one line per field.
func FormatValidationErrors(err error) []string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", fe.Field()))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param()))
		default:
			messages = append(messages, fmt.Sprintf("Field '%s' failed on the '%s' tag", fe.Field(), fe.Tag()))
		}
	}
	return messages
}
