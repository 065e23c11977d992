package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"swapboard/internal/domain"
)

var reID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// maxQ caps search terms, in runes.
const maxQ = 100

var (
	once sync.Once
	v    *validator.Validate
)

// engine returns the shared validator; field names are reported by json tag.
func engine() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return v
}

// Struct validates tagged input and converts failures into a domain
// validation error keyed by json field name.
func Struct(s any) error {
	if err := engine().Struct(s); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	fields := make(map[string]string, len(ves))
	for _, e := range ves {
		fields[e.Field()] = formatSingleValidationError(e)
	}
	return domain.FieldErrors(fields)
}

func formatSingleValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "may not be blank"
	case "max":
		return fmt.Sprintf("must be at most %s characters", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "url":
		return "must be a valid URL"
	default:
		return fmt.Sprintf("failed validation: %s", e.Tag())
	}
}

// Q trims a search query and caps it at maxQ runes. Any text is a valid
// term; the store escapes LIKE metacharacters.
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if r := []rune(s); len(r) > maxQ {
		s = strings.TrimSpace(string(r[:maxQ]))
	}
	return s, true
}

// ID validates a resource identifier (ad/proposal ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Email is a light shape check; uniqueness is the store's job.
func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 100 {
		return "", false
	}
	return s, engine().Var(s, "email") == nil
}

// Password enforces a length window and character mix.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 64 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}
