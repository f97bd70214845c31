package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their env key when one is declared.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("env"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
}

// ValidateStruct checks the struct's validate tags and returns a single,
// readable error listing every violated constraint.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	parts := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		constraint := fieldErr.Tag()
		if fieldErr.Param() != "" {
			constraint += "=" + fieldErr.Param()
		}
		parts = append(parts, fmt.Sprintf("%s violates %q", fieldErr.Field(), constraint))
	}
	sort.Strings(parts)
	return fmt.Errorf("invalid configuration: %s", strings.Join(parts, "; "))
}
