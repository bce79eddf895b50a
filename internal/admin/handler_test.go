package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count", "upcoming", "revenue"}).AddRow(4, 2, 770))
	mock.ExpectQuery(`SELECT therapies FROM bookings`).
		WillReturnRows(sqlmock.NewRows([]string{"therapies"}).
			AddRow(pq.Array([]string{"Hydrogen", "Oxygen"})).
			AddRow(pq.Array([]string{"Hydrogen"})))
	mock.ExpectQuery(`SELECT taster_date, COUNT\(\*\)`).
		WillReturnRows(sqlmock.NewRows([]string{"taster_date", "count"}).
			AddRow("2026-09-01", 3).
			AddRow("2026-09-02", 1))

	handler := NewHandler(NewStatsRepository(db), nil)
	rec := httptest.NewRecorder()
	handler.Dashboard(rec, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp DashboardResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 4, resp.Summary.TotalBookings)
	assert.Equal(t, 2, resp.Summary.UpcomingTasters)
	assert.Equal(t, 770, resp.Summary.RevenueGBP)
	require.Len(t, resp.TopTherapies, 2)
	assert.Equal(t, TherapyCount{Therapy: "Hydrogen", Count: 2}, resp.TopTherapies[0])
	require.Len(t, resp.ByDay, 2)
	assert.Equal(t, "2026-09-01", resp.ByDay[0].TasterDate)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboardSummaryFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\)`).WillReturnError(assert.AnError)

	handler := NewHandler(NewStatsRepository(db), nil)
	rec := httptest.NewRecorder()
	handler.Dashboard(rec, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
