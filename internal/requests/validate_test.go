package requests

import (
	"slices"
	"testing"
)

func completeDraft() Draft {
	return Draft{
		Email:                   "requester@example.com",
		Name:                    "Aries Paye",
		TypeOfClient:            "Government",
		Classification:          ClassificationCompetitive,
		ProjectTitle:            "Barangay solar lights",
		PhilgepsReferenceNumber: "NA",
		ProductType:             "Solar Lights",
		RequestType:             "Site Survey",
		DateNeeded:              "2026-11-02",
		SpecialInstructions:     "Coordinate with the municipal engineer",
	}
}

func TestValidate_EachMissingFieldIsolated(t *testing.T) {
	for _, field := range RequiredFields {
		t.Run(field, func(t *testing.T) {
			d, err := completeDraft().Set(field, "")
			if err != nil {
				t.Fatalf("Set: %v", err)
			}
			errs := Validate(d)
			if len(errs) != 1 {
				t.Fatalf("errors = %v, want only %s", errs, field)
			}
			if errs[field] != requiredMessages[field] {
				t.Errorf("errs[%s] = %q, want %q", field, errs[field], requiredMessages[field])
			}
			if got := errs.Fields(); !slices.Equal(got, []string{field}) {
				t.Errorf("Fields() = %v, want [%s]", got, field)
			}
		})
	}
}

func TestValidate_EmptyDraftReportsAllFields(t *testing.T) {
	errs := Validate(Draft{})
	if got := errs.Fields(); !slices.Equal(got, RequiredFields) {
		t.Errorf("Fields() = %v, want %v", got, RequiredFields)
	}
	if got := errs[FieldPhilgepsReferenceNumber]; got != "Please enter the Philgeps reference number or NA" {
		t.Errorf("philgeps message = %q", got)
	}
	if got := errs[FieldRequestType]; got != "Please choose your request type" {
		t.Errorf("request type message = %q", got)
	}
}

func TestValidate_Passes(t *testing.T) {
	tests := []struct {
		name  string
		draft func() Draft
	}{
		{"complete", completeDraft},
		{"presence only", func() Draft {
			d := completeDraft()
			d.Email = "not-an-email"
			d.SpecialInstructions = "   "
			return d
		}},
		{"files ignored", func() Draft {
			return completeDraft().WithFiles([]FileSelection{{Name: "site.pdf", Size: 10}})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if errs := Validate(tt.draft()); !errs.Empty() {
				t.Errorf("Validate() = %v, want no errors", errs)
			}
		})
	}
}
