// Package wizard implements the booking wizard state machine: step
// sequencing, per-step validation gates, slot availability, draft
// persistence and submission. Rendering lives elsewhere; everything in
// this package is plain data and pure transitions so it can be tested
// without a UI.
package wizard

// Step identifies one of the five wizard steps.
type Step int

const (
	StepEnquiry Step = iota
	StepScreening
	StepTaster
	StepProgramme
	StepReview
)

const lastStep = StepReview

func (s Step) String() string {
	switch s {
	case StepEnquiry:
		return "enquiry"
	case StepScreening:
		return "screening"
	case StepTaster:
		return "taster"
	case StepProgramme:
		return "programme"
	case StepReview:
		return "review"
	default:
		return "unknown"
	}
}

// PreferredContact is how the visitor wants to be reached.
type PreferredContact string

const (
	ContactEmail    PreferredContact = "email"
	ContactPhone    PreferredContact = "phone"
	ContactWhatsApp PreferredContact = "whatsapp"
)

// Valid reports whether the value is one of the closed set.
func (c PreferredContact) Valid() bool {
	switch c {
	case ContactEmail, ContactPhone, ContactWhatsApp:
		return true
	}
	return false
}

// Package is the session bundle chosen on the programme step.
type Package string

const (
	PackageTaster Package = "taster"
	PackageFour   Package = "4"
	PackageEight  Package = "8"
	PackageTwelve Package = "12"
)

// Valid reports whether the value is one of the closed set.
func (p Package) Valid() bool {
	switch p {
	case PackageTaster, PackageFour, PackageEight, PackageTwelve:
		return true
	}
	return false
}

// Price returns the bundle price in whole pounds. The price is always
// derived from the package, never stored.
func (p Package) Price() int {
	switch p {
	case PackageFour:
		return 180
	case PackageEight:
		return 320
	case PackageTwelve:
		return 450
	default:
		return 0
	}
}

// Payment is how the visitor wants to pay for a programme.
type Payment string

const (
	PaymentPayAsYouGo Payment = "payg"
	PaymentPlan       Payment = "plan"
)

// Valid reports whether the value is one of the closed set.
func (p Payment) Valid() bool {
	switch p {
	case PaymentPayAsYouGo, PaymentPlan:
		return true
	}
	return false
}

// Enquiry captures the visitor's contact details and interests.
type Enquiry struct {
	Name             string           `json:"name"`
	Email            string           `json:"email"`
	Phone            string           `json:"phone"`
	PreferredContact PreferredContact `json:"preferredContact"`
	Therapies        []string         `json:"therapies"`
}

// Screening captures the health screening answers.
type Screening struct {
	Conditions []string `json:"conditions"`
	Notes      string   `json:"notes"`
}

// Taster is the requested free taster slot. Date is ISO YYYY-MM-DD and
// Time is one of the candidate HH:MM slots.
type Taster struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// Programme is the chosen bundle and payment method.
type Programme struct {
	Package Package `json:"package"`
	Payment Payment `json:"payment"`
}

// State is the full wizard state. Errors, Submitting, Submitted and
// Website are transient and never persisted with the draft.
type State struct {
	Step      Step      `json:"step"`
	Enquiry   Enquiry   `json:"enquiry"`
	Screening Screening `json:"screening"`
	Taster    Taster    `json:"taster"`
	Programme Programme `json:"programme"`
	Consent   bool      `json:"consent"`

	Errors     []string `json:"errors,omitempty"`
	Submitting bool     `json:"submitting"`
	Submitted  bool     `json:"submitted"`
	Website    string   `json:"-"` // honeypot, passed through to the payload
}

// NewState returns the empty default state a freshly mounted wizard holds.
func NewState() State {
	return State{
		Step: StepEnquiry,
		Enquiry: Enquiry{
			PreferredContact: ContactWhatsApp,
			Therapies:        []string{},
		},
		Screening: Screening{Conditions: []string{}},
		Programme: Programme{
			Package: PackageTaster,
			Payment: PaymentPayAsYouGo,
		},
	}
}

// Snapshot is the persistable subset of the wizard state. Its JSON shape
// matches the draft the public site writes to local storage.
type Snapshot struct {
	Step      Step      `json:"step"`
	Enquiry   Enquiry   `json:"enquiry"`
	Screening Screening `json:"screening"`
	Taster    Taster    `json:"taster"`
	Programme Programme `json:"programme"`
	Consent   bool      `json:"accepted"`
}

// Snapshot strips the transient fields for persistence.
func (s State) Snapshot() Snapshot {
	return Snapshot{
		Step:      s.Step,
		Enquiry:   s.Enquiry,
		Screening: s.Screening,
		Taster:    s.Taster,
		Programme: s.Programme,
		Consent:   s.Consent,
	}
}

// Restore rebuilds wizard state from a persisted snapshot, clamping the
// step index and falling back to defaults for values outside the closed
// enums, so an incompatible draft can never produce an invalid state.
func Restore(snap Snapshot) State {
	s := NewState()
	if snap.Step >= StepEnquiry && snap.Step <= lastStep {
		s.Step = snap.Step
	}
	s.Enquiry = snap.Enquiry
	if !s.Enquiry.PreferredContact.Valid() {
		s.Enquiry.PreferredContact = ContactWhatsApp
	}
	if s.Enquiry.Therapies == nil {
		s.Enquiry.Therapies = []string{}
	}
	s.Screening = snap.Screening
	if s.Screening.Conditions == nil {
		s.Screening.Conditions = []string{}
	}
	s.Taster = snap.Taster
	s.Programme = snap.Programme
	if !s.Programme.Package.Valid() {
		s.Programme.Package = PackageTaster
	}
	if !s.Programme.Payment.Valid() {
		s.Programme.Payment = PaymentPayAsYouGo
	}
	s.Consent = snap.Consent
	return s
}

// toggle flips membership of value in an order-preserving set.
func toggle(list []string, value string) []string {
	out := make([]string, 0, len(list)+1)
	found := false
	for _, v := range list {
		if v == value {
			found = true
			continue
		}
		out = append(out, v)
	}
	if !found {
		out = append(out, value)
	}
	return out
}
