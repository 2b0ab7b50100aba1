package requests

import (
	"errors"
	"fmt"
)

// Submittable field names, as used in the REST body, the HTML form and
// ValidationErrors keys.
const (
	FieldEmail                   = "email"
	FieldName                    = "name"
	FieldTypeOfClient            = "typeOfClient"
	FieldClassification          = "classification"
	FieldProjectTitle            = "projectTitle"
	FieldPhilgepsReferenceNumber = "philgepsReferenceNumber"
	FieldProductType             = "productType"
	FieldRequestType             = "requestType"
	FieldDateNeeded              = "dateNeeded"
	FieldSpecialInstructions     = "specialInstructions"
)

// RequiredFields lists every submittable field in form order.
var RequiredFields = []string{
	FieldEmail,
	FieldName,
	FieldTypeOfClient,
	FieldClassification,
	FieldProjectTitle,
	FieldPhilgepsReferenceNumber,
	FieldProductType,
	FieldRequestType,
	FieldDateNeeded,
	FieldSpecialInstructions,
}

// ErrUnknownField is returned when a field name is not submittable.
var ErrUnknownField = errors.New("unknown request field")

// FileSelection describes a file the requester picked. Only metadata is kept;
// the content is never uploaded to the backend.
type FileSelection struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}

// Draft is the unsaved request a requester is editing. The zero value is the
// empty initial shape.
type Draft struct {
	Email                   string `json:"email" form:"email" validate:"required"`
	Name                    string `json:"name" form:"name" validate:"required"`
	TypeOfClient            string `json:"typeOfClient" form:"typeOfClient" validate:"required"`
	Classification          string `json:"classification" form:"classification" validate:"required"`
	ProjectTitle            string `json:"projectTitle" form:"projectTitle" validate:"required"`
	PhilgepsReferenceNumber string `json:"philgepsReferenceNumber" form:"philgepsReferenceNumber" validate:"required"`
	ProductType             string `json:"productType" form:"productType" validate:"required"`
	RequestType             string `json:"requestType" form:"requestType" validate:"required"`
	DateNeeded              string `json:"dateNeeded" form:"dateNeeded" validate:"required"`
	SpecialInstructions     string `json:"specialInstructions" form:"specialInstructions" validate:"required"`

	// Files is display-only and excluded from the request body.
	Files []FileSelection `json:"-" form:"-"`
}

// Get returns the value of a submittable field.
func (d Draft) Get(field string) (string, error) {
	p, err := d.slot(field)
	if err != nil {
		return "", err
	}
	return *p, nil
}

// Set returns a copy of d with one field replaced.
func (d Draft) Set(field, value string) (Draft, error) {
	p, err := d.slot(field)
	if err != nil {
		return d, err
	}
	*p = value
	return d, nil
}

// WithFiles returns a copy of d with the file selection replaced.
func (d Draft) WithFiles(files []FileSelection) Draft {
	if len(files) == 0 {
		d.Files = nil
		return d
	}
	d.Files = append([]FileSelection(nil), files...)
	return d
}

// IsEmpty reports whether d equals the initial empty draft.
func (d Draft) IsEmpty() bool {
	for _, f := range RequiredFields {
		if v, _ := d.Get(f); v != "" {
			return false
		}
	}
	return len(d.Files) == 0
}

func (d *Draft) slot(field string) (*string, error) {
	switch field {
	case FieldEmail:
		return &d.Email, nil
	case FieldName:
		return &d.Name, nil
	case FieldTypeOfClient:
		return &d.TypeOfClient, nil
	case FieldClassification:
		return &d.Classification, nil
	case FieldProjectTitle:
		return &d.ProjectTitle, nil
	case FieldPhilgepsReferenceNumber:
		return &d.PhilgepsReferenceNumber, nil
	case FieldProductType:
		return &d.ProductType, nil
	case FieldRequestType:
		return &d.RequestType, nil
	case FieldDateNeeded:
		return &d.DateNeeded, nil
	case FieldSpecialInstructions:
		return &d.SpecialInstructions, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
}
