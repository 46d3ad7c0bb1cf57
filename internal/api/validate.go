package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// validate is safe for concurrent use and caches struct metadata.
var validate = validator.New(validator.WithRequiredStructEnabled())

// FieldError is one itemized validation failure, mirroring the
// {errors:[{msg,field}]} shape clients expect.
type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

// ValidateStruct runs the validator tags on dst and translates failures into
// client-facing field errors. Returns nil when dst is valid.
func ValidateStruct(dst interface{}) []FieldError {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Msg: "Invalid request"}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Msg: fieldErrorMessage(fe)})
	}
	return out
}

// ValidationErrorsResponse writes the itemized 400 response for invalid input.
func ValidationErrorsResponse(w http.ResponseWriter, r *http.Request, fieldErrors []FieldError) {
	WriteJSONResponse(w, r, http.StatusBadRequest, map[string]interface{}{
		"errors": fieldErrors,
	})
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Please provide a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
