// Package validation holds the field rules shared by the employee and team
// forms. Rules are go-playground/validator tags; failures come back as one
// human-readable message per field.
package validation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	MsgRequired       = "Required field"
	MsgTooShort       = "Cannot be less than 2 character"
	MsgInvalidPhone   = "Invalid phone number"
	MsgInvalidEmail   = "Invalid email"
	MsgDateTooEarly   = "Date cannot go past January 1, 1920"
	MsgDateInFuture   = "Date must be in the past"
	MsgUnderage       = "You must be 18 years or older"
	MsgInvalidDate    = "Invalid date"
	MsgTimeFormat     = "Invalid start time format (HH:MM AM/PM)"
	MsgPositiveNumber = "Must be a positive number"
	MsgAvatarRequired = "Required field."
	MsgInvalid        = "Invalid value"
)

// Rule strings for Value. Struct fields spell the same rules in their
// validate tags.
const (
	RuleText         = "required,min=2"
	RuleOptionalText = "omitempty,min=2"
	RulePhone        = "omitempty,phone"
	RuleEmail        = "required,email,email_domain"
	RuleDateOfBirth  = "required,dob_date,dob_min,dob_past,adult"
	RuleTimeOfDay    = "required,time12h"
	RuleDigits       = "required,digits"
	RuleRecordID     = "omitempty,record_id"
)

const (
	minimumAge        = 18
	earliestBirthYear = 1920
	timeOfDayLayout   = "3:04 PM"
	dateOnlyLayout    = "2006-01-02"
	displayDateLayout = "Jan 2, 2006"
)

var (
	phonePattern  = regexp.MustCompile(`^\s*(?:\+?(\d{1,3}))?[-. (]*(\d{3})[-. )]*(\d{3})[-. ]*(\d{4})(?: *x(\d+))?\s*$`)
	emailPattern  = regexp.MustCompile(`^[A-Za-z0-9_'+\-.]*[A-Za-z0-9_+\-]@([A-Za-z0-9][A-Za-z0-9\-]*\.)+[A-Za-z]{2,}$`)
	timePattern   = regexp.MustCompile(`^(0?[1-9]|1[0-2]):[0-5][0-9] [APap][mM]$`)
	digitsPattern = regexp.MustCompile(`^\d+$`)

	earliestBirthDate = time.Date(earliestBirthYear, time.January, 1, 0, 0, 0, 0, time.UTC)
)

var tagMessages = map[string]string{
	"required":     MsgRequired,
	"min":          MsgTooShort,
	"phone":        MsgInvalidPhone,
	"email":        MsgInvalidEmail,
	"email_domain": MsgInvalidEmail,
	"dob_date":     MsgInvalidDate,
	"dob_min":      MsgDateTooEarly,
	"dob_past":     MsgDateInFuture,
	"adult":        MsgUnderage,
	"time12h":      MsgTimeFormat,
	"digits":       MsgPositiveNumber,
	"record_id":    MsgInvalid,
}

type nowKey struct{}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	rules := map[string]validator.FuncCtx{
		"phone": func(_ context.Context, fl validator.FieldLevel) bool {
			return phonePattern.MatchString(fl.Field().String())
		},
		"email_domain": func(_ context.Context, fl validator.FieldLevel) bool {
			return plausibleEmail(fl.Field().String())
		},
		"time12h": func(_ context.Context, fl validator.FieldLevel) bool {
			_, ok := ParseTimeOfDay(fl.Field().String())
			return ok
		},
		"digits": func(_ context.Context, fl validator.FieldLevel) bool {
			return isDigits(fl.Field().String())
		},
		"record_id": func(_ context.Context, fl validator.FieldLevel) bool {
			return isRecordID(fl.Field().String())
		},
		"dob_date": func(_ context.Context, fl validator.FieldLevel) bool {
			_, ok := ParseDate(fl.Field().String())
			return ok
		},
		"dob_min": func(_ context.Context, fl validator.FieldLevel) bool {
			dob, ok := ParseDate(fl.Field().String())
			return ok && !dob.Before(earliestBirthDate)
		},
		"dob_past": func(ctx context.Context, fl validator.FieldLevel) bool {
			dob, ok := ParseDate(fl.Field().String())
			return ok && !dob.After(calendarDate(nowFrom(ctx)))
		},
		"adult": func(ctx context.Context, fl validator.FieldLevel) bool {
			dob, ok := ParseDate(fl.Field().String())
			return ok && Age(dob, nowFrom(ctx)) >= minimumAge
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidationCtx(tag, fn); err != nil {
			panic(fmt.Sprintf("validation: register %s: %v", tag, err))
		}
	}
	return v
}

func nowFrom(ctx context.Context) time.Time {
	if now, ok := ctx.Value(nowKey{}).(time.Time); ok {
		return now
	}
	return time.Now()
}

// Errors maps a field name to a human-readable message. A nil or empty map
// means the candidate is valid.
type Errors map[string]string

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation passed"
	}
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Check records message under field when it is non-empty.
func (e Errors) Check(field, message string) {
	if message != "" {
		e[field] = message
	}
}

// Err returns e as an error, or nil when there are no failures.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Struct validates every field of rules independently, evaluating date rules
// against now. Field names come from the json tags. overrides replaces the
// message of any failing field it names.
func Struct(now time.Time, rules any, overrides map[string]string) Errors {
	ctx := context.WithValue(context.Background(), nowKey{}, now)
	errs := Errors{}
	collect(errs, validate.StructCtx(ctx, rules), overrides)
	return errs
}

// Value checks a single value against rule and returns its message, or ""
// when it passes.
func Value(value, rule string) string {
	return ValueAt(time.Now(), value, rule)
}

func ValueAt(now time.Time, value, rule string) string {
	ctx := context.WithValue(context.Background(), nowKey{}, now)
	errs := Errors{}
	collect(errs, validate.VarCtx(ctx, value, rule), nil)
	for _, msg := range errs {
		return msg
	}
	return ""
}

func collect(errs Errors, err error, overrides map[string]string) {
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		panic(fmt.Sprintf("validation: invalid rules: %v", err))
	}
	for _, fe := range fieldErrs {
		field := fe.Field()
		if _, seen := errs[field]; seen {
			continue
		}
		if msg, ok := overrides[field]; ok {
			errs[field] = msg
			continue
		}
		if msg, ok := tagMessages[fe.Tag()]; ok {
			errs[field] = msg
			continue
		}
		errs[field] = MsgInvalid
	}
}

func plausibleEmail(value string) bool {
	return !strings.HasPrefix(value, ".") && !strings.Contains(value, "..") && emailPattern.MatchString(value)
}

func isDigits(value string) bool {
	if !digitsPattern.MatchString(value) {
		return false
	}
	_, err := strconv.Atoi(value)
	return err == nil
}

func isRecordID(value string) bool {
	if !digitsPattern.MatchString(value) {
		return false
	}
	id, err := strconv.ParseInt(value, 10, 64)
	return err == nil && id > 0
}

// ParseDate coerces form input into a calendar date (UTC midnight).
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{dateOnlyLayout, time.RFC3339, displayDateLayout} {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			y, m, d := parsed.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// calendarDate is the date now falls on in its own location, as UTC
// midnight so it compares directly with ParseDate results.
func calendarDate(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Age is the number of whole years between dob and the calendar date of now
// in now's location.
func Age(dob, now time.Time) int {
	today := calendarDate(now)
	years := today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		years--
	}
	return years
}

func ParseTimeOfDay(value string) (time.Time, bool) {
	if !timePattern.MatchString(value) {
		return time.Time{}, false
	}
	parsed, err := time.Parse(timeOfDayLayout, strings.ToUpper(value))
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// StartBeforeEnd reports whether start is strictly earlier than end on the
// same day. Unparseable values are never ordered.
func StartBeforeEnd(start, end string) bool {
	s, ok := ParseTimeOfDay(start)
	if !ok {
		return false
	}
	e, ok := ParseTimeOfDay(end)
	if !ok {
		return false
	}
	return s.Before(e)
}
