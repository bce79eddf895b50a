package booking

import (
	"time"

	"github.com/wellvitas/booking-platform/internal/wizard"
)

// Booking is a confirmed taster booking as stored by the clinic.
type Booking struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	PreferredContact string    `json:"preferred_contact"`
	Therapies        []string  `json:"therapies"`
	Conditions       []string  `json:"conditions"`
	Notes            string    `json:"notes"`
	TasterDate       string    `json:"taster_date"`
	TasterTime       string    `json:"taster_time"`
	Package          string    `json:"package"`
	Payment          string    `json:"payment"`
	PriceGBP         int       `json:"price_gbp"`
	SubmittedAt      string    `json:"submitted_at"`
	ClientDescriptor string    `json:"client_descriptor"`
	CreatedAt        time.Time `json:"created_at"`
}

// CreateBookingRequest is the wire document the wizard posts. It is the
// same shape the client assembles, so field names match on both sides.
type CreateBookingRequest struct {
	wizard.Payload
}

// Validate re-runs the wizard's enquiry and taster gates server-side and
// returns one message per failed condition, in the same order the wizard
// shows them. Trusting the client's gates alone would let a hand-crafted
// request skip them.
func (r *CreateBookingRequest) Validate() []string {
	s := wizard.NewState()
	s.Enquiry = r.Enquiry
	s.Taster = r.Taster

	errs := wizard.ValidateStep(s, wizard.StepEnquiry)
	errs = append(errs, wizard.ValidateStep(s, wizard.StepTaster)...)
	if r.Taster.Time != "" && !isCandidateSlot(r.Taster.Time) {
		errs = append(errs, "Choose a time for your taster.")
	}
	return errs
}

func isCandidateSlot(hhmm string) bool {
	for _, slot := range wizard.BaseSlots {
		if slot == hhmm {
			return true
		}
	}
	return false
}

// toBooking builds the stored record from a validated request.
func (r *CreateBookingRequest) toBooking(id string, createdAt time.Time) *Booking {
	return &Booking{
		ID:               id,
		Name:             r.Enquiry.Name,
		Email:            r.Enquiry.Email,
		Phone:            wizard.NormalizePhone(r.Enquiry.Phone),
		PreferredContact: string(r.Enquiry.PreferredContact),
		Therapies:        append([]string(nil), r.Enquiry.Therapies...),
		Conditions:       append([]string(nil), r.Screening.Conditions...),
		Notes:            r.Screening.Notes,
		TasterDate:       r.Taster.Date,
		TasterTime:       r.Taster.Time,
		Package:          string(r.Programme.Package),
		Payment:          string(r.Programme.Payment),
		PriceGBP:         r.Programme.Package.Price(),
		SubmittedAt:      r.Meta.SubmittedAt,
		ClientDescriptor: r.Meta.ClientDescriptor,
		CreatedAt:        createdAt,
	}
}
