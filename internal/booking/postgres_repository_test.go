package booking

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v3"
)

func bookingColumns() []string {
	return []string{
		"id", "name", "email", "phone", "preferred_contact", "therapies",
		"conditions", "notes", "taster_date", "taster_time", "package",
		"payment", "price_gbp", "submitted_at", "client_descriptor", "created_at",
	}
}

func TestPostgresRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	createdAt := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO bookings").
		WithArgs(
			pgxmock.AnyArg(), "Jane Doe", "jane@x.com", "+447379005856", "whatsapp",
			[]string{"Physiotherapy"}, []string{"Back pain"}, "Prefers mornings",
			"2026-03-03", "11:00", "8", "plan", 320,
			pgxmock.AnyArg(), "web",
		).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(createdAt))

	repo := NewPostgresRepository(mock)
	booking, err := repo.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if booking.ID == "" || !booking.CreatedAt.Equal(createdAt) {
		t.Fatalf("unexpected booking: %+v", booking)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresRepository_GetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(bookingColumns()))

	repo := NewPostgresRepository(mock)
	if _, err := repo.GetByID(context.Background(), "missing"); err != ErrBookingNotFound {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}

func TestPostgresRepository_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	rows := pgxmock.NewRows(bookingColumns()).
		AddRow(
			"bk-1", "Jane Doe", "jane@x.com", "+447379005856", "whatsapp",
			[]string{"Physiotherapy"}, []string{}, "",
			"2026-03-03", "11:00", "8", "plan", 320,
			"2026-03-02T12:00:00Z", "web", time.Now().UTC(),
		)
	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WithArgs("2026-03-03", 50, 0).
		WillReturnRows(rows)

	repo := NewPostgresRepository(mock)
	bookings, err := repo.List(context.Background(), ListFilter{TasterDate: "2026-03-03"})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(bookings) != 1 || bookings[0].ID != "bk-1" {
		t.Fatalf("unexpected bookings: %+v", bookings)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
