package requests

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationErrors maps a field name to a human-readable message.
type ValidationErrors map[string]string

// Empty reports whether there are no errors, i.e. the draft is submittable.
func (v ValidationErrors) Empty() bool { return len(v) == 0 }

// Fields returns the failing field names in form order.
func (v ValidationErrors) Fields() []string {
	out := make([]string, 0, len(v))
	for _, f := range RequiredFields {
		if _, ok := v[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

var requiredMessages = map[string]string{
	FieldEmail:                   "This is a required question",
	FieldName:                    "Please select your name",
	FieldTypeOfClient:            "Please select the type of client",
	FieldClassification:          "Please select the classification",
	FieldProjectTitle:            "Please enter the project title",
	FieldPhilgepsReferenceNumber: "Please enter the Philgeps reference number or NA",
	FieldProductType:             "Please select the product type",
	FieldRequestType:             "Please choose your request type",
	FieldDateNeeded:              "Please select a date needed",
	FieldSpecialInstructions:     "This is a required question",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks that every required field is present. Only presence is
// checked: values are not trimmed and email shape is not inspected.
func Validate(d Draft) ValidationErrors {
	out := ValidationErrors{}
	err := validate.Struct(d)
	if err == nil {
		return out
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// Struct() only returns InvalidValidationError for non-struct input.
		panic(err)
	}
	for _, fe := range fieldErrs {
		msg, ok := requiredMessages[fe.Field()]
		if !ok {
			msg = "This is a required question"
		}
		out[fe.Field()] = msg
	}
	return out
}
