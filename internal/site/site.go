// Package site holds the fixed clinic details rendered into calendar
// exports, WhatsApp handoffs and notification emails.
package site

// Site describes the clinic.
type Site struct {
	Name           string
	Address        string
	Hours          string
	Email          string
	Phone          string
	WhatsApp       string
	Domain         string
	CalendarProdID string
}

// Wellvitas is the clinic this platform serves.
var Wellvitas = Site{
	Name:           "Wellvitas",
	Address:        "1620 Great Western Rd, Anniesland, Glasgow G13 1HH",
	Hours:          "Open 9:00–20:00",
	Email:          "info@wellvitas.co.uk",
	Phone:          "+44 1234 567890",
	WhatsApp:       "447000000000",
	Domain:         "wellvitas.co.uk",
	CalendarProdID: "-//Wellvitas//Booking//EN",
}
