package shell

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/shared/core"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
)

const (
	tagNotFutureDays = "notfuturedays"
	tagNotOlderDays  = "notolderdays"
	tagMaxYearsAhead = "maxyearsahead"
	tagMaxMoney      = "maxmoney"
)

// Validator checks command fields against their `validate` struct tags.
//
// Besides the built-in validator rules it understands:
//   - notfuturedays=N: a time.Time not later than now + N days
//   - notolderdays=N: a time.Time not earlier than now - N days
//   - maxyearsahead=N: an integer year not greater than the current year + N
//   - maxmoney=N: a recordstore.Money not greater than N whole currency units
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// NewValidator creates a Validator that evaluates time relative rules against clock.
// A nil clock means time.Now.
func NewValidator(clock func() time.Time) *Validator {
	if clock == nil {
		clock = time.Now
	}

	v := &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      clock,
	}

	v.validate.RegisterTagNameFunc(jsonFieldName)

	// Registration only fails for empty tags or nil funcs.
	_ = v.validate.RegisterValidation(tagNotFutureDays, v.notFutureDays)
	_ = v.validate.RegisterValidation(tagNotOlderDays, v.notOlderDays)
	_ = v.validate.RegisterValidation(tagMaxYearsAhead, v.maxYearsAhead)
	_ = v.validate.RegisterValidation(tagMaxMoney, maxMoney)

	return v
}

// Validate returns nil or a core.ValidationErrors listing every violated rule of command.
func (v *Validator) Validate(command any) error {
	err := v.validate.Struct(command)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return errors.Join(core.ErrValidationFailed, err)
	}

	result := make(core.ValidationErrors, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		result = append(result, core.ValidationError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}

	return result
}

func (v *Validator) notFutureDays(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}

	days, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}

	return !t.After(v.now().AddDate(0, 0, days))
}

func (v *Validator) notOlderDays(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}

	days, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}

	return !t.Before(v.now().AddDate(0, 0, -days))
}

func (v *Validator) maxYearsAhead(fl validator.FieldLevel) bool {
	years, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}

	switch fl.Field().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fl.Field().Int() <= int64(v.now().Year()+years)
	default:
		return false
	}
}

func maxMoney(fl validator.FieldLevel) bool {
	units, err := strconv.ParseInt(fl.Param(), 10, 64)
	if err != nil {
		return false
	}

	limit, err := recordstore.Money(units).Times(100)
	if err != nil {
		return false
	}

	money, ok := fl.Field().Interface().(recordstore.Money)

	return ok && money <= limit
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}

	if name == "" {
		return field.Name
	}

	return name
}

func message(fe validator.FieldError) string {
	label := humanize(fe.StructField())

	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s cannot exceed %s characters", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", label, fe.Param())
	case "min":
		if fe.Param() == "1" {
			return label + " must not be empty"
		}
		return fmt.Sprintf("%s must have at least %s elements", label, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", label, fe.Param())
	case tagNotFutureDays:
		return fmt.Sprintf("%s cannot be more than %s day(s) in the future", label, fe.Param())
	case tagNotOlderDays:
		return fmt.Sprintf("%s cannot be more than %s days in the past", label, fe.Param())
	case tagMaxYearsAhead:
		return fmt.Sprintf("%s cannot be more than %s years in the future", label, fe.Param())
	case tagMaxMoney:
		return fmt.Sprintf("%s cannot exceed %s", label, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", label, fe.Tag())
	}
}

// humanize turns "ReleaseYear" into "Release year".
func humanize(structField string) string {
	var b strings.Builder

	for i, r := range structField {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteRune(' ')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}
