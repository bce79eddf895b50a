package wizard

import "time"

// BaseSlots is the fixed candidate taster slot list.
var BaseSlots = []string{"09:30", "11:00", "14:30", "16:00", "18:30"}

// slotBuffer is how far ahead of a slot the visitor must book when the
// chosen date is today.
const slotBuffer = 15 * time.Minute

const dateLayout = "2006-01-02"

// AvailableSlots returns the candidate slots still bookable for the given
// ISO date at the given instant. Dates other than today's local calendar
// day keep the full candidate list; for today, a slot survives only if it
// starts strictly more than the buffer after now. The result is computed
// fresh on every call and never persisted.
func AvailableSlots(date string, now time.Time) []string {
	if date == "" {
		return append([]string(nil), BaseSlots...)
	}
	selected, err := time.ParseInLocation(dateLayout, date, now.Location())
	if err != nil {
		return append([]string(nil), BaseSlots...)
	}

	y1, m1, d1 := now.Date()
	y2, m2, d2 := selected.Date()
	if y1 != y2 || m1 != m2 || d1 != d2 {
		return append([]string(nil), BaseSlots...)
	}

	cutoff := now.Add(slotBuffer)
	out := make([]string, 0, len(BaseSlots))
	for _, hhmm := range BaseSlots {
		start, err := SlotStart(date, hhmm, now.Location())
		if err != nil {
			continue
		}
		if start.After(cutoff) {
			out = append(out, hhmm)
		}
	}
	return out
}

// SlotStart resolves a date and HH:MM slot into a concrete instant in the
// given location.
func SlotStart(date, hhmm string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dateLayout+" 15:04", date+" "+hhmm, loc)
}

func slotAvailable(date, hhmm string, now time.Time) bool {
	for _, s := range AvailableSlots(date, now) {
		if s == hhmm {
			return true
		}
	}
	return false
}
