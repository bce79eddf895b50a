package admin

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/lib/pq"
)

// Summary is the top line of the bookings dashboard.
type Summary struct {
	TotalBookings   int `json:"total_bookings"`
	UpcomingTasters int `json:"upcoming_tasters"`
	RevenueGBP      int `json:"revenue_gbp"`
}

// TherapyCount is one row of the therapy-interest breakdown.
type TherapyCount struct {
	Therapy string `json:"therapy"`
	Count   int    `json:"count"`
}

// DayCount is one row of the bookings-per-day breakdown.
type DayCount struct {
	TasterDate string `json:"taster_date"`
	Count      int    `json:"count"`
}

// StatsRepository answers dashboard queries against the bookings table.
type StatsRepository struct {
	db *sql.DB
}

// NewStatsRepository wraps the shared sql.DB handle.
func NewStatsRepository(db *sql.DB) *StatsRepository {
	if db == nil {
		panic("admin: sql.DB required")
	}
	return &StatsRepository{db: db}
}

// Summary aggregates the headline numbers.
func (r *StatsRepository) Summary(ctx context.Context, now time.Time) (*Summary, error) {
	var s Summary
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE taster_date >= $1),
		       COALESCE(SUM(price_gbp), 0)
		FROM bookings`,
		now.Format("2006-01-02"),
	).Scan(&s.TotalBookings, &s.UpcomingTasters, &s.RevenueGBP)
	if err != nil {
		return nil, fmt.Errorf("admin: summary query failed: %w", err)
	}
	return &s, nil
}

// TopTherapies counts how often each therapy appears across bookings.
// The therapies column is a text[]; counting happens here because the
// breakdown is tiny and the unnest is not worth a second index.
func (r *StatsRepository) TopTherapies(ctx context.Context, limit int) ([]TherapyCount, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.QueryContext(ctx, `SELECT therapies FROM bookings`)
	if err != nil {
		return nil, fmt.Errorf("admin: therapies query failed: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var therapies []string
		if err := rows.Scan(pq.Array(&therapies)); err != nil {
			return nil, fmt.Errorf("admin: therapies scan failed: %w", err)
		}
		for _, therapy := range therapies {
			counts[therapy]++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("admin: therapies query failed: %w", err)
	}

	out := make([]TherapyCount, 0, len(counts))
	for therapy, count := range counts {
		out = append(out, TherapyCount{Therapy: therapy, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Therapy < out[j].Therapy
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// BookingsByDay returns the per-taster-date counts, soonest first.
func (r *StatsRepository) BookingsByDay(ctx context.Context) ([]DayCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT taster_date, COUNT(*)
		FROM bookings
		GROUP BY taster_date
		ORDER BY taster_date`)
	if err != nil {
		return nil, fmt.Errorf("admin: by-day query failed: %w", err)
	}
	defer rows.Close()

	out := []DayCount{}
	for rows.Next() {
		var d DayCount
		if err := rows.Scan(&d.TasterDate, &d.Count); err != nil {
			return nil, fmt.Errorf("admin: by-day scan failed: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
