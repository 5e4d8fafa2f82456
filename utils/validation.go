package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// 4 digits, 2 letters, 3 digits, 1 alphanumeric, 2 digits. e.g. 0801CS221042
var enrollmentPattern = regexp.MustCompile(`^\d{4}[A-Z]{2}\d{3}[A-Z0-9]\d{2}$`)

const EnrollmentMessage = "Enrollment number must follow the pattern: 4 digits, 2 letters, 3 digits, 1 alphanumeric, and 2 digits."

func ValidEnrollment(s string) bool {
	return enrollmentPattern.MatchString(s)
}

// RegisterValidators adds the custom rules used in form bindings to gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("binding validator is not go-playground/validator")
	}
	if err := v.RegisterValidation("enrollment", func(fl validator.FieldLevel) bool {
		return ValidEnrollment(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("notblank", NotBlank)
}

// NotBlank rejects strings that are empty once surrounding whitespace is trimmed.
func NotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// ValidationMessages turns a binding error into flashable sentences.
func ValidationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"Invalid form submission."}
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		label := humanize(fe.Field())
		switch fe.Tag() {
		case "required", "notblank":
			msgs = append(msgs, fmt.Sprintf("%s is required.", label))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters long.", label, fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s cannot be longer than %s characters.", label, fe.Param()))
		case "len":
			msgs = append(msgs, fmt.Sprintf("%s must be exactly %s characters long.", label, fe.Param()))
		case "email":
			msgs = append(msgs, "Invalid email address.")
		case "eqfield":
			msgs = append(msgs, fmt.Sprintf("%s must match %s.", label, humanize(fe.Param())))
		case "enrollment":
			msgs = append(msgs, EnrollmentMessage)
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid.", label))
		}
	}
	return msgs
}

// humanize splits a Go field name: "ConfirmPassword" -> "Confirm Password".
func humanize(field string) string {
	var b strings.Builder
	for i, r := range field {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
