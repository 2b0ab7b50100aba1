package web

import (
	"github.com/dustin/go-humanize"

	"requester-dashboard/internal/config"
	"requester-dashboard/internal/dashboard"
	"requester-dashboard/internal/requests"
)

const (
	viewLoading   = "loading"
	viewError     = "error"
	viewDashboard = "dashboard"
	viewForm      = "form"
)

type pageView struct {
	View    string
	Error   string
	Metrics dashboard.Metrics
	Rows    []rowView
	Detail  []detailRow
	Form    formView
}

type rowView struct {
	ID              string
	ReferenceNumber string
	Timestamp       string
	ProjectTitle    string
	AssignedTo      string
	Status          string
}

type detailRow struct {
	Label string
	Value string
}

type formView struct {
	Draft       requests.Draft
	Errors      requests.ValidationErrors
	SubmitError string
	Select      map[string]selectView
	Files       []fileView
}

type selectView struct {
	Name        string
	Placeholder string
	Value       string
	Options     []string
	Error       string
}

type fileView struct {
	Name        string
	Size        string
	ContentType string
}

// newPage picks the view for st. A failed load shows only the error.
func newPage(st dashboard.State, cfg config.Config) pageView {
	switch l := st.List.(type) {
	case dashboard.Loading:
		return pageView{View: viewLoading}
	case dashboard.Failed:
		return pageView{View: viewError, Error: l.Err.Error()}
	}

	if st.Mode == dashboard.ModeNewRequestForm {
		return pageView{View: viewForm, Form: newForm(st, cfg)}
	}

	page := pageView{View: viewDashboard, Metrics: st.Metrics()}
	for _, rec := range st.Records() {
		page.Rows = append(page.Rows, rowView{
			ID:              rec.ID.String(),
			ReferenceNumber: rec.ReferenceNumber,
			Timestamp:       rec.Timestamp.String(),
			ProjectTitle:    rec.ProjectTitle,
			AssignedTo:      rec.AssigneeLabel(),
			Status:          rec.Status,
		})
	}
	if st.ModalOpen() {
		page.Detail = detailRows(*st.Selected)
	}
	return page
}

func detailRows(r requests.Record) []detailRow {
	return []detailRow{
		{"ID", r.ID.String()},
		{"Email:", r.Email},
		{"Name:", r.Name},
		{"Type of Client:", r.TypeOfClient},
		{"Classification:", r.Classification},
		{"Project Title:", r.ProjectTitle},
		{"Philgeps Reference Number:", r.PhilgepsReferenceNumber},
		{"Product Type:", r.ProductType},
		{"Request Type:", r.RequestType},
		{"Date Needed:", r.DateNeeded},
		{"Special Instructions:", r.SpecialInstructions},
	}
}

func newForm(st dashboard.State, cfg config.Config) formView {
	d := st.Draft
	errs := st.Errors
	if errs == nil {
		errs = requests.ValidationErrors{}
	}
	f := formView{
		Draft:  d,
		Errors: errs,
		Select: map[string]selectView{
			requests.FieldName: {
				Name: requests.FieldName, Placeholder: "Select your name",
				Value: d.Name, Options: cfg.Names, Error: errs[requests.FieldName],
			},
			requests.FieldClassification: {
				Name: requests.FieldClassification, Placeholder: "Select classification",
				Value:   d.Classification,
				Options: []string{requests.ClassificationNegotiable, requests.ClassificationCompetitive},
				Error:   errs[requests.FieldClassification],
			},
			requests.FieldProductType: {
				Name: requests.FieldProductType, Placeholder: "Select product type",
				Value: d.ProductType, Options: cfg.ProductTypes, Error: errs[requests.FieldProductType],
			},
			requests.FieldRequestType: {
				Name: requests.FieldRequestType, Placeholder: "Select request type",
				Value: d.RequestType, Options: cfg.RequestTypes, Error: errs[requests.FieldRequestType],
			},
		},
	}
	if st.SubmitErr != nil {
		f.SubmitError = st.SubmitErr.Error()
	}
	for _, fs := range d.Files {
		f.Files = append(f.Files, fileView{
			Name:        fs.Name,
			Size:        humanize.Bytes(uint64(fs.Size)),
			ContentType: fs.ContentType,
		})
	}
	return f
}
