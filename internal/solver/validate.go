package solver

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/vk/shiftgrid/internal/slot"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		// timerange accepts a parseable range whose end is after its start and
		// that spans at most one day.
		if err := v.RegisterValidation("timerange", func(fl validator.FieldLevel) bool {
			r, ok := slot.ParseRange(fl.Field().String())
			return ok && r.Schedulable()
		}); err != nil {
			panic(err)
		}
		v.RegisterStructValidation(breakValidation, Request{})
		validate = v
	})
	return validate
}

// Validate checks the request before it is sent. Every failed field is listed
// in the returned error, which wraps ErrInvalidRequest.
func (r *Request) Validate() error {
	err := requestValidator().Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(msgs, "; "))
}

// breakValidation checks the break fields only when the break is enabled.
func breakValidation(sl validator.StructLevel) {
	r := sl.Current().Interface().(Request)
	if !r.EnableMandatoryBreak {
		return
	}
	if rg, ok := slot.ParseRange(r.BreakPeriod); !ok || !rg.Schedulable() {
		sl.ReportError(r.BreakPeriod, "designated_global_break_period", "BreakPeriod", "timerange", "")
	}
	if r.MinMandatoryBreakMinutes <= 0 {
		sl.ReportError(r.MinMandatoryBreakMinutes, "min_mandatory_break_minutes", "MinMandatoryBreakMinutes", "gt", "0")
	}
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "timerange":
		return fmt.Sprintf("%s must be a time range whose end is after its start, at most 24 hours long, got %q", field, fe.Value())
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s needs at least %s entry", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
