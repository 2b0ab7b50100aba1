package dashboard

import (
	"slices"

	"requester-dashboard/internal/requests"
)

// Action is a discrete state transition.
type Action interface {
	isAction()
}

type (
	// ActionListLoaded settles the initial fetch with records.
	ActionListLoaded struct{ Records []requests.Record }
	// ActionListFailed settles the initial fetch with an error.
	ActionListFailed struct{ Err error }
	// ActionToggleForm flips between dashboard and form. Leaving the form cancels the draft.
	ActionToggleForm struct{}
	// ActionSetField updates one draft field.
	ActionSetField struct{ Field, Value string }
	// ActionSetFiles records a file selection.
	ActionSetFiles struct{ Files []requests.FileSelection }
	// ActionResetForm clears the draft and its errors.
	ActionResetForm struct{}
	// ActionSubmit validates the draft and, if valid, enters PhaseSubmitting.
	ActionSubmit struct{}
	// ActionSubmitSucceeded appends the backend's record and returns to the dashboard.
	ActionSubmitSucceeded struct{ Record requests.Record }
	// ActionSubmitFailed keeps the draft and surfaces the error.
	ActionSubmitFailed struct{ Err error }
	// ActionSelectRequest opens (or with nil, closes) the detail modal.
	ActionSelectRequest struct{ Record *requests.Record }
	// ActionCloseModal closes the detail modal.
	ActionCloseModal struct{}
)

func (ActionListLoaded) isAction()      {}
func (ActionListFailed) isAction()      {}
func (ActionToggleForm) isAction()      {}
func (ActionSetField) isAction()        {}
func (ActionSetFiles) isAction()        {}
func (ActionResetForm) isAction()       {}
func (ActionSubmit) isAction()          {}
func (ActionSubmitSucceeded) isAction() {}
func (ActionSubmitFailed) isAction()    {}
func (ActionSelectRequest) isAction()   {}
func (ActionCloseModal) isAction()      {}

// Reduce applies a to s and returns the next state. Actions that do not apply
// in the current state return s unchanged.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case ActionListLoaded:
		if _, ok := s.List.(Loading); !ok {
			return s
		}
		recs := a.Records
		if recs == nil {
			recs = []requests.Record{}
		}
		s.List = Loaded{Records: slices.Clone(recs)}
		return s

	case ActionListFailed:
		if _, ok := s.List.(Loading); !ok {
			return s
		}
		s.List = Failed{Err: a.Err}
		s.Mode = ModeDashboard
		s.Selected = nil
		return s

	case ActionToggleForm:
		if !s.IsLoaded() || s.Phase == PhaseSubmitting {
			return s
		}
		if s.Mode == ModeDashboard {
			s.Mode = ModeNewRequestForm
			s.Selected = nil
		} else {
			s.Mode = ModeDashboard
		}
		return resetForm(s)

	case ActionSetField:
		next, err := s.Draft.Set(a.Field, a.Value)
		if err != nil {
			return s
		}
		s.Draft = next
		return editing(s)

	case ActionSetFiles:
		s.Draft = s.Draft.WithFiles(a.Files)
		return editing(s)

	case ActionResetForm:
		if s.Phase == PhaseSubmitting {
			return s
		}
		return resetForm(s)

	case ActionSubmit:
		if s.Mode != ModeNewRequestForm || s.Phase == PhaseSubmitting {
			return s
		}
		s.Phase = PhaseValidating
		s.Errors = requests.Validate(s.Draft)
		s.SubmitErr = nil
		if s.Errors.Empty() {
			s.Phase = PhaseSubmitting
		} else {
			s.Phase = PhaseInvalid
		}
		return s

	case ActionSubmitSucceeded:
		if s.Phase != PhaseSubmitting {
			return s
		}
		s.List = Loaded{Records: appendRecord(s.Records(), a.Record)}
		s = resetForm(s)
		s.Mode = ModeDashboard
		s.Phase = PhaseSubmitted
		return s

	case ActionSubmitFailed:
		if s.Phase != PhaseSubmitting {
			return s
		}
		s.Phase = PhaseSubmitFailed
		s.SubmitErr = a.Err
		return s

	case ActionSelectRequest:
		if s.Mode != ModeDashboard || !s.IsLoaded() {
			return s
		}
		if a.Record == nil {
			s.Selected = nil
			return s
		}
		r := *a.Record
		s.Selected = &r
		return s

	case ActionCloseModal:
		s.Selected = nil
		return s

	default:
		return s
	}
}

func resetForm(s State) State {
	s.Draft = requests.Draft{}
	s.Errors = requests.ValidationErrors{}
	s.SubmitErr = nil
	if s.Phase != PhaseSubmitting {
		s.Phase = PhaseIdle
	}
	return s
}

// editing moves a settled submission back to PhaseIdle once the user edits again.
func editing(s State) State {
	switch s.Phase {
	case PhaseInvalid, PhaseSubmitFailed, PhaseSubmitted:
		s.Phase = PhaseIdle
	}
	return s
}
