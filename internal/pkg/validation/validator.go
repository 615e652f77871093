// Package validation wraps go-playground/validator and reports failures per JSON field.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var ErrValidation = errors.New("validation failed")

var phoneRe = regexp.MustCompile(`^\+?1?\d{9,15}$`)

// Error carries a message per offending field, keyed by its JSON name.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *Error) Is(target error) bool {
	return target == ErrValidation //nolint:errorlint
}

// FieldError builds an Error for a single field.
func FieldError(field, msg string) *Error {
	return &Error{Fields: map[string]string{field: msg}}
}

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}

		return name
	})

	// decimals are validated through their string form.
	v.RegisterCustomTypeFunc(func(f reflect.Value) interface{} {
		if d, ok := f.Interface().(decimal.Decimal); ok {
			return d.String()
		}

		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})

	_ = v.RegisterValidation("digits", validateDigits)

	return &Validator{v: v}
}

func (v *Validator) Validate(s interface{}) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}

	return nil
}

func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("validate error: %w", err)
	}

	fields := make(map[string]string, len(validationErrs))

	for _, e := range validationErrs {
		fields[fieldPath(e)] = friendlyMessage(e)
	}

	return &Error{Fields: fields}
}

// fieldPath drops the top level struct name: "CreateUserRequest.scores_initial.score_overall"
// becomes "scores_initial.score_overall".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}

	return e.Field()
}

func friendlyMessage(e validator.FieldError) string { //nolint:cyclop
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "phone":
		return "must be entered in the format: '+999999999'. Up to 15 digits allowed"
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", e.Param())
	case "numeric", "number":
		return "must contain only digits"
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "digits":
		total, places, _ := parseDigitsParam(e.Param())

		return fmt.Sprintf("must have at most %d digits and %d decimal places", total, places)
	default:
		return "is invalid"
	}
}

// validateDigits implements `digits=M:D`: at most M digits in total, D of them after the point.
func validateDigits(fl validator.FieldLevel) bool {
	total, places, err := parseDigitsParam(fl.Param())
	if err != nil {
		return false
	}

	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}

	if !d.Equal(d.Round(int32(places))) {
		return false
	}

	intPart := d.Abs().Truncate(0).String()
	if intPart == "0" {
		return true
	}

	return len(intPart) <= total-places
}

func parseDigitsParam(param string) (int, int, error) {
	t, p, ok := strings.Cut(param, ":")
	if !ok {
		return 0, 0, fmt.Errorf("bad digits param %q", param)
	}

	total, err := strconv.Atoi(t)
	if err != nil {
		return 0, 0, fmt.Errorf("bad digits param %q: %w", param, err)
	}

	places, err := strconv.Atoi(p)
	if err != nil {
		return 0, 0, fmt.Errorf("bad digits param %q: %w", param, err)
	}

	return total, places, nil
}
