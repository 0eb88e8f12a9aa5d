package dashboard

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNoCaseSelected  = errors.New("no case is open")
	ErrForbidden       = errors.New("operation not available for this role")
	ErrUnsupportedRole = errors.New("no dashboard for role")
)

// ValidationError is raised before any network call when a request is
// missing required fields. Fields maps the JSON field name to the failed rule.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s (%s)", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// PartialFetchError lists the collections that failed during a load and
// were defaulted to empty.
type PartialFetchError struct {
	Resources []string
	Causes    map[string]error
}

func (e *PartialFetchError) Error() string {
	return "failed to load " + strings.Join(e.Resources, ", ")
}

// Unwrap exposes the individual causes to errors.Is and errors.As
func (e *PartialFetchError) Unwrap() []error {
	errs := make([]error, 0, len(e.Resources))
	for _, r := range e.Resources {
		errs = append(errs, e.Causes[r])
	}
	return errs
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validate runs struct validation and converts failures into *ValidationError
func validate(v *validator.Validate, req any) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate request: %w", err)
	}
	verr := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		verr.Fields[fe.Field()] = fe.Tag()
	}
	return verr
}
