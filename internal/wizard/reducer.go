package wizard

import "time"

// Action is a single wizard transition. All mutations go through Reduce so
// the transition logic stays in one pure, testable unit.
type Action interface {
	isAction()
}

type (
	// SetName updates the enquiry name.
	SetName struct{ Value string }
	// SetEmail updates the enquiry email.
	SetEmail struct{ Value string }
	// SetPhone updates the enquiry phone (free-form; normalized on submit).
	SetPhone struct{ Value string }
	// SetPreferredContact updates the contact channel. Unknown values are ignored.
	SetPreferredContact struct{ Value PreferredContact }
	// ToggleTherapy flips a therapy chip.
	ToggleTherapy struct{ Value string }
	// ToggleCondition flips a screening condition chip.
	ToggleCondition struct{ Value string }
	// SetNotes updates the free-text screening notes.
	SetNotes struct{ Value string }
	// SetTasterDate updates the taster date and reconciles the chosen time
	// against the new availability list.
	SetTasterDate struct{ Value string }
	// SetTasterTime picks a slot. Slots outside the current availability
	// list are ignored so the chosen time can never go stale.
	SetTasterTime struct{ Value string }
	// SetPackage updates the bundle. Unknown values are ignored.
	SetPackage struct{ Value Package }
	// SetPayment updates the payment method. Unknown values are ignored.
	SetPayment struct{ Value Payment }
	// SetConsent updates the consent checkbox.
	SetConsent struct{ Value bool }
	// SetWebsite fills the hidden honeypot field. Real visitors never do.
	SetWebsite struct{ Value string }
	// Next validates the current step's gate and advances on success.
	Next struct{}
	// Back moves one step back, clearing errors, never validating.
	Back struct{}
	// Reset returns the wizard to its empty default state.
	Reset struct{}
)

func (SetName) isAction()             {}
func (SetEmail) isAction()            {}
func (SetPhone) isAction()            {}
func (SetPreferredContact) isAction() {}
func (ToggleTherapy) isAction()       {}
func (ToggleCondition) isAction()     {}
func (SetNotes) isAction()            {}
func (SetTasterDate) isAction()       {}
func (SetTasterTime) isAction()       {}
func (SetPackage) isAction()          {}
func (SetPayment) isAction()          {}
func (SetConsent) isAction()          {}
func (SetWebsite) isAction()          {}
func (Next) isAction()                {}
func (Back) isAction()                {}
func (Reset) isAction()               {}

// Reduce applies one action to the state and returns the next state. The
// clock is only consulted for availability-sensitive actions.
func Reduce(s State, a Action, now time.Time) State {
	switch a := a.(type) {
	case SetName:
		s.Enquiry.Name = a.Value
	case SetEmail:
		s.Enquiry.Email = a.Value
	case SetPhone:
		s.Enquiry.Phone = a.Value
	case SetPreferredContact:
		if a.Value.Valid() {
			s.Enquiry.PreferredContact = a.Value
		}
	case ToggleTherapy:
		s.Enquiry.Therapies = toggle(s.Enquiry.Therapies, a.Value)
	case ToggleCondition:
		s.Screening.Conditions = toggle(s.Screening.Conditions, a.Value)
	case SetNotes:
		s.Screening.Notes = a.Value
	case SetTasterDate:
		s.Taster.Date = a.Value
		s.Taster.Time = reconcileTime(a.Value, s.Taster.Time, now)
	case SetTasterTime:
		if a.Value == "" {
			s.Taster.Time = ""
		} else if slotAvailable(s.Taster.Date, a.Value, now) {
			s.Taster.Time = a.Value
		}
	case SetPackage:
		if a.Value.Valid() {
			s.Programme.Package = a.Value
		}
	case SetPayment:
		if a.Value.Valid() {
			s.Programme.Payment = a.Value
		}
	case SetConsent:
		s.Consent = a.Value
	case SetWebsite:
		s.Website = a.Value
	case Next:
		errs := ValidateStep(s, s.Step)
		if len(errs) > 0 {
			s.Errors = errs
			return s
		}
		s.Errors = nil
		if s.Step < lastStep {
			s.Step++
		}
	case Back:
		s.Errors = nil
		if s.Step > StepEnquiry {
			s.Step--
		}
	case Reset:
		return NewState()
	}
	return s
}

// reconcileTime keeps the chosen time consistent with the availability list
// for the (possibly new) date: a still-valid choice is kept, otherwise the
// first available slot is picked, or the time is cleared when none remain.
func reconcileTime(date, chosen string, now time.Time) string {
	if date == "" {
		return chosen
	}
	slots := AvailableSlots(date, now)
	for _, s := range slots {
		if s == chosen {
			return chosen
		}
	}
	if len(slots) > 0 {
		return slots[0]
	}
	return ""
}
