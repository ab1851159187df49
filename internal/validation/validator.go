// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// maxBookIDLength bounds catalog identifiers accepted from clients.
const maxBookIDLength = 32

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is one rejected request field. Field is the parameter name the
// client used, taken from the `param` struct tag when present.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

// Error lists every rejected field of one request.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Fields))
	for i := range e.Fields {
		msgs[i] = e.Fields[i].Message
	}
	return strings.Join(msgs, "; ")
}

// Details is the error detail object of a VALIDATION_FAILED response: the
// field and tag for a single failure, a "fields" list otherwise.
func (e *Error) Details() map[string]any {
	switch len(e.Fields) {
	case 0:
		return nil
	case 1:
		return map[string]any{"field": e.Fields[0].Field, "tag": e.Fields[0].Tag}
	default:
		return map[string]any{"fields": e.Fields}
	}
}

// GetValidator returns the shared validator with the custom tags registered.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(paramName)

		// Registration only fails for an empty tag or a nil func.
		_ = validate.RegisterValidation("bookid", validateBookID)
		_ = validate.RegisterValidation("notblank", validateNotBlank)
	})
	return validate
}

// paramName reports fields by their query or path parameter name.
//
//nolint:gocritic // signature fixed by validator.TagNameFunc
func paramName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("param"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

// ValidateStruct validates s and returns nil or an *Error.
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    rw.ValidationError(verr.Error(), verr.Details())
//	    return
//	}
func ValidateStruct(s any) *Error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &Error{Fields: []FieldError{{Field: "request", Tag: "invalid", Message: err.Error()}}}
	}

	out := &Error{Fields: make([]FieldError, len(fieldErrs))}
	for i, fe := range fieldErrs {
		out.Fields[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: message(fe),
		}
	}
	return out
}

func message(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "notblank":
		return field + " must not be blank"
	case "bookid":
		return fmt.Sprintf("%s must be a catalog identifier (printable, no spaces, at most %d characters)", field, maxBookIDLength)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// validateBookID accepts ISBN-10 and ISBN-13 strings. The BX dump also
// carries malformed ISBNs, so only whitespace, control characters and
// excessive length are rejected.
func validateBookID(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	if id == "" || len(id) > maxBookIDLength {
		return false
	}
	for _, r := range id {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
