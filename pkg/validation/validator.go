package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers alias tags for common validations.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		// loginId and password share the same minimum-length rule
		v.RegisterAlias("loginid", "min=6")
		v.RegisterAlias("pwd", "min=6")
	}
}

// Message flattens a binding error into the single message the clients show.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return "Invalid input"
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return fe.Field() + " is required"
		case "min", "loginid", "pwd":
			return fe.Field() + " is too short"
		case "email":
			return "Invalid email"
		case "oneof":
			return fe.Field() + " must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
		default:
			return fe.Field() + " is invalid"
		}
	}

	return "Invalid input"
}
