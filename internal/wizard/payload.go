package wizard

import "time"

// Payload is the wire document posted to the submission endpoint.
type Payload struct {
	Enquiry   Enquiry   `json:"enquiry"`
	Screening Screening `json:"screening"`
	Taster    Taster    `json:"taster"`
	Programme Programme `json:"programme"`
	Meta      Meta      `json:"meta"`
	Website   string    `json:"website,omitempty"`
}

// Meta describes the submission itself.
type Meta struct {
	SubmittedAt      string `json:"submittedAt"`
	ClientDescriptor string `json:"clientDescriptor"`
}

// BuildPayload assembles the submission document from the current state.
// The phone number is normalized for transmission; the draft keeps the
// visitor's original formatting.
func (s State) BuildPayload(now time.Time, clientDescriptor string) Payload {
	enquiry := s.Enquiry
	enquiry.Phone = NormalizePhone(enquiry.Phone)
	enquiry.Therapies = append([]string(nil), s.Enquiry.Therapies...)

	screening := s.Screening
	screening.Conditions = append([]string(nil), s.Screening.Conditions...)

	return Payload{
		Enquiry:   enquiry,
		Screening: screening,
		Taster:    s.Taster,
		Programme: s.Programme,
		Meta: Meta{
			SubmittedAt:      now.UTC().Format(time.RFC3339),
			ClientDescriptor: clientDescriptor,
		},
		Website: s.Website,
	}
}
