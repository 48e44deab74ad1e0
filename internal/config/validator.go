package config

import (
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	stageNamePattern = regexp.MustCompile(`^[a-z0-9_-]+$`)
)

// validatorInstance configures and returns the shared validator instance.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("stage_name", func(fl validator.FieldLevel) bool {
			return stageNamePattern.MatchString(fl.Field().String())
		})

		v.RegisterStructValidation(func(sl validator.StructLevel) {
			spec := sl.Current().Interface().(StageSpec)
			set := 0
			if spec.Use != "" {
				set++
			}
			if len(spec.Series) > 0 {
				set++
			}
			if len(spec.Parallel) > 0 {
				set++
			}
			if set != 1 {
				sl.ReportError(spec.Use, "Use", "use", "one_of_use_series_parallel", "")
			}
			if spec.Settle && len(spec.Parallel) == 0 {
				sl.ReportError(spec.Settle, "Settle", "settle", "settle_needs_parallel", "")
			}
		}, StageSpec{})

		validateInst = v
	})
	return validateInst
}

// ValidateConfig checks cfg and returns the first problem as a *ValidationError.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return &ValidationError{Reason: "config is nil"}
	}

	err := validatorInstance().Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Reason: err.Error(), Err: err}
	}

	first := verrs[0]
	return &ValidationError{Field: first.Namespace(), Rule: first.Tag(), Reason: describe(first), Err: err}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("needs at least %s entries", fe.Param())
	case "gte", "lte":
		return fmt.Sprintf("must be %s %s", fe.Tag(), fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "stage_name":
		return fmt.Sprintf("invalid stage name %q", fe.Value())
	case "one_of_use_series_parallel":
		return "set exactly one of use, series or parallel"
	case "settle_needs_parallel":
		return "settle only applies to parallel"
	}
	return fmt.Sprintf("failed %s", fe.Tag())
}
