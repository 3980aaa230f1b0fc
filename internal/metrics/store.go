// Package metrics persists generation-backend call records to SQLite and
// answers usage queries over them.
package metrics

import (
	"database/sql"
	"time"
)

// Timestamps are stored as text in this layout so sqlite's date functions
// and range comparisons work on them.
const timeLayout = "2006-01-02 15:04:05"

// Store handles persistence of backend call metrics.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// RecordCall saves one backend call. It satisfies the recorder hook the
// instrumented generator expects.
func (s *Store) RecordCall(provider, model string, latency time.Duration, failed bool) error {
	_, err := s.db.Exec(
		`INSERT INTO backend_calls (provider, model, latency_ms, failed, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		provider, model, latency.Milliseconds(), failed, time.Now().UTC().Format(timeLayout),
	)
	return err
}

// DailyUsage aggregates backend calls for a single day.
type DailyUsage struct {
	Date         string
	Calls        int
	Failures     int
	AvgLatencyMS float64
}

// GetDailyUsage retrieves per-day call totals for the last N days, oldest
// first.
func (s *Store) GetDailyUsage(days int) ([]DailyUsage, error) {
	since := time.Now().UTC().AddDate(0, 0, -days).Format(timeLayout)
	rows, err := s.db.Query(
		`SELECT date(created_at) AS day,
		        COUNT(*),
		        SUM(failed),
		        AVG(latency_ms)
		 FROM backend_calls
		 WHERE created_at >= ?
		 GROUP BY day
		 ORDER BY day`,
		since,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []DailyUsage
	for rows.Next() {
		var u DailyUsage
		var failures sql.NullInt64
		var avgLatency sql.NullFloat64
		if err := rows.Scan(&u.Date, &u.Calls, &failures, &avgLatency); err != nil {
			return nil, err
		}
		u.Failures = int(failures.Int64)
		u.AvgLatencyMS = avgLatency.Float64
		results = append(results, u)
	}
	return results, rows.Err()
}

// Cleanup removes records older than the specified number of days and
// reports how many were deleted.
func (s *Store) Cleanup(olderThanDays int) (int64, error) {
	threshold := time.Now().UTC().AddDate(0, 0, -olderThanDays).Format(timeLayout)
	res, err := s.db.Exec(`DELETE FROM backend_calls WHERE created_at < ?`, threshold)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
