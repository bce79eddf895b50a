package wizard

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wellvitas/booking-platform/internal/site"
)

// ErrNoSlotChosen is returned when a calendar export is requested before a
// taster date and time are both set.
var ErrNoSlotChosen = errors.New("wizard: no taster slot chosen")

const tasterDuration = 30 * time.Minute

const icsTimestamp = "20060102T150405Z"

// CalendarEvent renders the chosen taster slot as an iCalendar document: a
// single 30-minute event with a freshly generated UID. The wizard state is
// not touched. The clock's location resolves the local slot time, and the
// instant stamps DTSTAMP.
func (s State) CalendarEvent(now time.Time) (string, error) {
	if s.Taster.Date == "" || s.Taster.Time == "" {
		return "", ErrNoSlotChosen
	}
	start, err := SlotStart(s.Taster.Date, s.Taster.Time, now.Location())
	if err != nil {
		return "", fmt.Errorf("wizard: bad taster slot: %w", err)
	}
	end := start.Add(tasterDuration)

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + site.Wellvitas.CalendarProdID,
		"BEGIN:VEVENT",
		fmt.Sprintf("UID:%s@%s", uuid.NewString(), site.Wellvitas.Domain),
		"DTSTAMP:" + now.UTC().Format(icsTimestamp),
		"DTSTART:" + start.UTC().Format(icsTimestamp),
		"DTEND:" + end.UTC().Format(icsTimestamp),
		"SUMMARY:" + site.Wellvitas.Name + " – Free Taster",
		"LOCATION:" + site.Wellvitas.Address,
		"DESCRIPTION:Free taster session booked via " + site.Wellvitas.Domain,
		"END:VEVENT",
		"END:VCALENDAR",
	}
	return strings.Join(lines, "\r\n"), nil
}
