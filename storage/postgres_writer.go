package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"bikeshare-analyzer/models"
	"bikeshare-analyzer/utils"
)

// PostgresWriter persists cleaned trips to PostgreSQL. The sink is
// optional: the pipeline runs entirely in memory without it, but when
// enabled the aggregator reads the dataset back from the table so the
// stored copy is the one analyzed.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string, logger *utils.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	retry := utils.RetryConfig{MaxAttempts: 5, BaseDelay: 2 * time.Second, Logger: logger}
	if err := retry.Do("postgres ping", db.Ping); err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS trips (
			ride_id            VARCHAR(32)      PRIMARY KEY,
			rideable_type      VARCHAR(32)      NOT NULL,
			member_casual      VARCHAR(16)      NOT NULL,
			started_at         TIMESTAMP        NOT NULL,
			ended_at           TIMESTAMP        NOT NULL,
			start_station_name TEXT             NOT NULL DEFAULT '',
			end_station_name   TEXT             NOT NULL DEFAULT '',
			start_lat          DOUBLE PRECISION NOT NULL,
			start_lng          DOUBLE PRECISION NOT NULL,
			end_lat            DOUBLE PRECISION NOT NULL,
			end_lng            DOUBLE PRECISION NOT NULL,
			duration_min       DOUBLE PRECISION,
			distance_km        DOUBLE PRECISION NOT NULL DEFAULT 0,
			same_station       BOOLEAN          NOT NULL DEFAULT FALSE,
			weekday            VARCHAR(3)       NOT NULL,
			month              VARCHAR(3)       NOT NULL,
			hour_of_day        SMALLINT         NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_trips_member_casual ON trips(member_casual);
		CREATE INDEX IF NOT EXISTS idx_trips_rideable_type ON trips(rideable_type);
		CREATE INDEX IF NOT EXISTS idx_trips_started_at    ON trips(started_at);
	`)
	return err
}

// Clear deletes all existing trips from the table.
func (pw *PostgresWriter) Clear() error {
	_, err := pw.db.Exec("DELETE FROM trips")
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write batch-inserts ALL cleaned trips, clearing old data first.
func (pw *PostgresWriter) Write(trips []*models.Trip) error {
	if len(trips) == 0 {
		return nil
	}

	if err := pw.Clear(); err != nil {
		return err
	}

	const batchSize = 200
	for i := 0; i < len(trips); i += batchSize {
		end := i + batchSize
		if end > len(trips) {
			end = len(trips)
		}
		if err := pw.insertBatch(trips[i:end]); err != nil {
			return err
		}
	}
	return nil
}

const tripColumns = 17

func (pw *PostgresWriter) insertBatch(batch []*models.Trip) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*tripColumns)

	for idx, t := range batch {
		base := idx * tripColumns
		placeholders := make([]string, tripColumns)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")

		var duration sql.NullFloat64
		if t.DurationMin != nil {
			duration = sql.NullFloat64{Float64: *t.DurationMin, Valid: true}
		}

		valueArgs = append(valueArgs,
			t.RideID, t.RideableType, t.RiderType,
			t.StartedAt, t.EndedAt,
			t.StartStationName, t.EndStationName,
			t.StartLat, t.StartLng, t.EndLat, t.EndLng,
			duration, t.DistanceKm, t.SameStation,
			t.Weekday, t.Month, t.HourOfDay)
	}

	query := fmt.Sprintf(`
		INSERT INTO trips (ride_id, rideable_type, member_casual,
			started_at, ended_at, start_station_name, end_station_name,
			start_lat, start_lng, end_lat, end_lng,
			duration_min, distance_km, same_station,
			weekday, month, hour_of_day)
		VALUES %s
		ON CONFLICT (ride_id) DO NOTHING
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchAll retrieves all stored trips — used by the aggregator.
func (pw *PostgresWriter) FetchAll() ([]*models.Trip, error) {
	rows, err := pw.db.Query(`
		SELECT ride_id, rideable_type, member_casual,
			started_at, ended_at, start_station_name, end_station_name,
			start_lat, start_lng, end_lat, end_lng,
			duration_min, distance_km, same_station,
			weekday, month, hour_of_day
		FROM trips
		ORDER BY started_at, ride_id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var trips []*models.Trip
	for rows.Next() {
		t := &models.Trip{}
		var duration sql.NullFloat64
		if err := rows.Scan(
			&t.RideID, &t.RideableType, &t.RiderType,
			&t.StartedAt, &t.EndedAt, &t.StartStationName, &t.EndStationName,
			&t.StartLat, &t.StartLng, &t.EndLat, &t.EndLng,
			&duration, &t.DistanceKm, &t.SameStation,
			&t.Weekday, &t.Month, &t.HourOfDay,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		if duration.Valid {
			d := duration.Float64
			t.DurationMin = &d
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}
