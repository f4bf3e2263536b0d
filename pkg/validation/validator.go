package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/oksasatya/booking-api/internal/domain/entity"
)

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers the role tag and a few aliases.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		Register(v)
	}
}

// Register applies the booking rules to v.
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		_, err := entity.ParseRole(fl.Field().String())
		return err == nil
	})
	v.RegisterAlias("username", "min=1,max=255")
	v.RegisterAlias("pwd", "min=1,max=72")
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

// Summary renders details as one sentence, fields in alphabetical order.
func Summary(details map[string]string) string {
	if len(details) == 0 {
		return "invalid payload"
	}
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "payload" {
			parts = append(parts, details[k])
			continue
		}
		parts = append(parts, k+" "+details[k])
	}
	return strings.Join(parts, ", ")
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()
	kind := fe.Kind()

	switch tag {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "role":
		return "must be one of: " + string(entity.RoleAdmin) + ", " + string(entity.RoleUser)
	case "len":
		if param != "" {
			return fmt.Sprintf("must be exactly %s characters long", param)
		}
		return "invalid length"
	case "min":
		if param != "" {
			if isNumberKind(kind) {
				return "must be at least " + param
			}
			return "must be at least " + param + " characters long"
		}
		return "too small"
	case "max":
		if param != "" {
			if isNumberKind(kind) {
				return "must be at most " + param
			}
			return "must be at most " + param + " characters long"
		}
		return "too large"
	case "gt":
		return "must be greater than " + param
	case "oneof":
		return "must be one of: " + strings.Join(splitParams(param), ", ")
	case "numeric":
		return "must be numeric"
	default:
		return fmt.Sprintf("validation failed for '%s'", tag)
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func splitParams(p string) []string {
	if p == "" {
		return nil
	}
	parts := strings.Fields(p)
	if len(parts) > 1 {
		return parts
	}
	if strings.Contains(p, ",") {
		return strings.Split(p, ",")
	}
	return []string{p}
}
