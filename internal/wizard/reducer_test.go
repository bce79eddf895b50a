package wizard

import (
	"testing"
	"time"
)

func reduceAll(s State, now time.Time, actions ...Action) State {
	for _, a := range actions {
		s = Reduce(s, a, now)
	}
	return s
}

func validEnquiry(s State, now time.Time) State {
	return reduceAll(s, now,
		SetName{"Jane Doe"},
		SetEmail{"jane@x.com"},
		SetPhone{"+44 7000 000000"},
	)
}

func TestBackFloorsAtZero(t *testing.T) {
	now := localClock(t, "2026-03-02", "12:00")
	for i := StepEnquiry; i <= StepReview; i++ {
		s := NewState()
		s.Step = i
		got := Reduce(s, Back{}, now).Step
		want := i - 1
		if i == StepEnquiry {
			want = StepEnquiry
		}
		if got != want {
			t.Errorf("Back from %d: got %d, want %d", i, got, want)
		}
	}
}

func TestBackClearsErrors(t *testing.T) {
	now := localClock(t, "2026-03-02", "12:00")
	s := NewState()
	s.Step = StepTaster
	s.Errors = []string{msgDate}
	if got := Reduce(s, Back{}, now); got.Errors != nil {
		t.Fatalf("expected errors cleared, got %v", got.Errors)
	}
}

func TestNextBlocksUntilAllGateConditionsHold(t *testing.T) {
	now := localClock(t, "2026-03-02", "12:00")
	s := NewState()

	s = Reduce(s, Next{}, now)
	if s.Step != StepEnquiry {
		t.Fatal("advanced past enquiry without any details")
	}
	if len(s.Errors) != 3 {
		t.Fatalf("expected 3 gate errors, got %v", s.Errors)
	}
	if s.Errors[0] != msgName || s.Errors[1] != msgEmail || s.Errors[2] != msgPhone {
		t.Fatalf("gate errors out of order: %v", s.Errors)
	}

	// Two out of three conditions are not enough.
	s = reduceAll(s, now, SetName{"Jane Doe"}, SetPhone{"+44 7000 000000"})
	s = Reduce(s, Next{}, now)
	if s.Step != StepEnquiry {
		t.Fatal("advanced with invalid email")
	}
	if len(s.Errors) != 1 || s.Errors[0] != msgEmail {
		t.Fatalf("expected only the email error, got %v", s.Errors)
	}

	s = Reduce(s, SetEmail{"jane@x.com"}, now)
	s = Reduce(s, Next{}, now)
	if s.Step != StepScreening || s.Errors != nil {
		t.Fatalf("expected clean advance, got step %d errors %v", s.Step, s.Errors)
	}
}

func TestEnquiryGateRejectsWhitespaceAndBadEmail(t *testing.T) {
	now := localClock(t, "2026-03-02", "12:00")
	s := reduceAll(NewState(), now,
		SetName{"   "},
		SetEmail{"not an email"},
		SetPhone{"\t"},
	)
	s = Reduce(s, Next{}, now)
	if s.Step != StepEnquiry || len(s.Errors) != 3 {
		t.Fatalf("expected all three errors, got %v", s.Errors)
	}
}

func TestScreeningAndProgrammeAlwaysPass(t *testing.T) {
	now := localClock(t, "2026-03-02", "12:00")
	s := validEnquiry(NewState(), now)
	s = Reduce(s, Next{}, now)
	if s.Step != StepScreening {
		t.Fatalf("setup failed, step %d", s.Step)
	}
	s = Reduce(s, Next{}, now)
	if s.Step != StepTaster || s.Errors != nil {
		t.Fatalf("screening gate should always pass, got %v", s.Errors)
	}

	s.Step = StepProgramme
	s = Reduce(s, Next{}, now)
	if s.Step != StepReview || s.Errors != nil {
		t.Fatalf("programme gate should always pass, got %v", s.Errors)
	}
}

func TestTasterGateNeedsDateAndTime(t *testing.T) {
	now := localClock(t, "2026-03-02", "12:00")
	s := NewState()
	s.Step = StepTaster
	s = Reduce(s, Next{}, now)
	if s.Step != StepTaster {
		t.Fatal("advanced without a slot")
	}
	if len(s.Errors) != 2 || s.Errors[0] != msgDate || s.Errors[1] != msgTime {
		t.Fatalf("unexpected taster errors: %v", s.Errors)
	}
}

func TestNextCapsAtReview(t *testing.T) {
	now := localClock(t, "2026-03-02", "12:00")
	s := NewState()
	s.Step = StepReview
	s.Consent = true
	if got := Reduce(s, Next{}, now).Step; got != StepReview {
		t.Fatalf("Next overflowed the step index: %d", got)
	}
}

func TestSetTasterDateAutoSelectsFirstSlot(t *testing.T) {
	now := localClock(t, "2026-03-02", "12:00")
	s := Reduce(NewState(), SetTasterDate{"2026-03-03"}, now)
	if s.Taster.Time != "09:30" {
		t.Fatalf("expected first slot auto-selected, got %q", s.Taster.Time)
	}
}

func TestSetTasterDateKeepsStillValidTime(t *testing.T) {
	now := localClock(t, "2026-03-02", "12:00")
	s := reduceAll(NewState(), now,
		SetTasterDate{"2026-03-03"},
		SetTasterTime{"16:00"},
		SetTasterDate{"2026-03-04"},
	)
	if s.Taster.Time != "16:00" {
		t.Fatalf("still-valid time was replaced: %q", s.Taster.Time)
	}
}

func TestSetTasterDateReplacesInvalidTime(t *testing.T) {
	// 11:00 is gone once the date moves to today at noon.
	now := localClock(t, "2026-03-02", "12:00")
	s := reduceAll(NewState(), now,
		SetTasterDate{"2026-03-03"},
		SetTasterTime{"11:00"},
		SetTasterDate{"2026-03-02"},
	)
	if s.Taster.Time != "14:30" {
		t.Fatalf("expected first still-valid slot, got %q", s.Taster.Time)
	}
}

func TestSetTasterDateClearsTimeWhenNothingLeft(t *testing.T) {
	now := localClock(t, "2026-03-02", "19:00")
	s := reduceAll(NewState(), now,
		SetTasterDate{"2026-03-03"},
		SetTasterTime{"09:30"},
		SetTasterDate{"2026-03-02"},
	)
	if s.Taster.Time != "" {
		t.Fatalf("expected time cleared, got %q", s.Taster.Time)
	}
}

func TestSetTasterTimeRejectsUnavailableSlot(t *testing.T) {
	now := localClock(t, "2026-03-02", "17:00")
	s := Reduce(NewState(), SetTasterDate{"2026-03-02"}, now)
	if s.Taster.Time != "18:30" {
		t.Fatalf("setup: expected 18:30 auto-selected, got %q", s.Taster.Time)
	}
	s = Reduce(s, SetTasterTime{"11:00"}, now)
	if s.Taster.Time != "18:30" {
		t.Fatalf("stale slot accepted: %q", s.Taster.Time)
	}
	s = Reduce(s, SetTasterTime{"07:00"}, now)
	if s.Taster.Time != "18:30" {
		t.Fatalf("non-candidate slot accepted: %q", s.Taster.Time)
	}
}

func TestClosedEnumsIgnoreUnknownValues(t *testing.T) {
	now := localClock(t, "2026-03-02", "12:00")
	s := reduceAll(NewState(), now,
		SetPreferredContact{"fax"},
		SetPackage{"100"},
		SetPayment{"barter"},
	)
	if s.Enquiry.PreferredContact != ContactWhatsApp {
		t.Errorf("unknown contact accepted: %s", s.Enquiry.PreferredContact)
	}
	if s.Programme.Package != PackageTaster || s.Programme.Payment != PaymentPayAsYouGo {
		t.Errorf("unknown programme values accepted: %+v", s.Programme)
	}
}

func TestToggleActions(t *testing.T) {
	now := localClock(t, "2026-03-02", "12:00")
	s := reduceAll(NewState(), now,
		ToggleTherapy{"Physiotherapy"},
		ToggleTherapy{"PEMF Therapy"},
		ToggleCondition{"Back pain"},
		ToggleTherapy{"Physiotherapy"},
	)
	if len(s.Enquiry.Therapies) != 1 || s.Enquiry.Therapies[0] != "PEMF Therapy" {
		t.Fatalf("unexpected therapies: %v", s.Enquiry.Therapies)
	}
	if len(s.Screening.Conditions) != 1 || s.Screening.Conditions[0] != "Back pain" {
		t.Fatalf("unexpected conditions: %v", s.Screening.Conditions)
	}
}

func TestResetReturnsDefaults(t *testing.T) {
	now := localClock(t, "2026-03-02", "12:00")
	s := validEnquiry(NewState(), now)
	s.Step = StepReview
	s.Consent = true
	s = Reduce(s, Reset{}, now)
	if s.Step != StepEnquiry || s.Consent || s.Enquiry.Name != "" {
		t.Fatalf("reset left residue: %+v", s)
	}
}

func TestReviewGateConsent(t *testing.T) {
	now := localClock(t, "2026-03-02", "12:00")
	s := NewState()
	s.Step = StepReview
	s = Reduce(s, Next{}, now)
	if len(s.Errors) != 1 || s.Errors[0] != msgConsent {
		t.Fatalf("expected exactly the consent message, got %v", s.Errors)
	}
	s = Reduce(s, SetConsent{true}, now)
	s = Reduce(s, Next{}, now)
	if s.Errors != nil {
		t.Fatalf("consent given but gate failed: %v", s.Errors)
	}
}
