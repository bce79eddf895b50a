package wizard

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/wellvitas/booking-platform/internal/site"
)

// MessageText renders the draft as a preformatted text block, one line per
// field, with placeholder text for empty optional fields. Pure projection,
// suitable for pasting into a messaging app.
func (s State) MessageText() string {
	programme := "Taster only"
	if s.Programme.Package != PackageTaster {
		programme = fmt.Sprintf("%s sessions", s.Programme.Package)
	}

	parts := []string{
		fmt.Sprintf("Hello %s — I'd like to book.", site.Wellvitas.Name),
		"Name: " + s.Enquiry.Name,
		"Email: " + s.Enquiry.Email,
		"Phone: " + NormalizePhone(s.Enquiry.Phone),
		"Contact: " + string(s.Enquiry.PreferredContact),
		"Therapies: " + joinOr(s.Enquiry.Therapies, "TBC"),
		"Conditions: " + joinOr(s.Screening.Conditions, "—"),
	}
	if s.Screening.Notes != "" {
		parts = append(parts, "Notes: "+s.Screening.Notes)
	}
	taster := "TBC"
	if s.Taster.Date != "" {
		taster = strings.TrimSpace(s.Taster.Date + " " + s.Taster.Time)
	}
	parts = append(parts,
		"Taster: "+taster,
		fmt.Sprintf("Programme: %s (%s)", programme, s.Programme.Payment),
	)
	return strings.Join(parts, "\n")
}

// WhatsAppLink wraps MessageText into a wa.me link for the clinic's number.
func (s State) WhatsAppLink() string {
	return fmt.Sprintf("https://wa.me/%s?text=%s",
		site.Wellvitas.WhatsApp, url.QueryEscape(s.MessageText()))
}

func joinOr(list []string, placeholder string) string {
	if len(list) == 0 {
		return placeholder
	}
	return strings.Join(list, ", ")
}
