package wizard

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Step gate messages, surfaced verbatim to the visitor.
const (
	msgName    = "Enter your full name."
	msgEmail   = "Enter a valid email."
	msgPhone   = "Enter your phone number."
	msgDate    = "Choose a date for your taster."
	msgTime    = "Choose a time for your taster."
	msgConsent = "Please accept the contact & privacy notice."
)

// ValidateStep runs the gate for a single step and returns one message per
// failed condition, in a fixed order. Screening and programme have no gate.
func ValidateStep(s State, step Step) []string {
	var errs []string
	switch step {
	case StepEnquiry:
		if strings.TrimSpace(s.Enquiry.Name) == "" {
			errs = append(errs, msgName)
		}
		if !emailPattern.MatchString(s.Enquiry.Email) {
			errs = append(errs, msgEmail)
		}
		if strings.TrimSpace(s.Enquiry.Phone) == "" {
			errs = append(errs, msgPhone)
		}
	case StepTaster:
		if s.Taster.Date == "" {
			errs = append(errs, msgDate)
		}
		if s.Taster.Time == "" {
			errs = append(errs, msgTime)
		}
	case StepReview:
		if !s.Consent {
			errs = append(errs, msgConsent)
		}
	}
	return errs
}
