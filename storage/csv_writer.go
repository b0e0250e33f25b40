package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"bikeshare-analyzer/models"
)

// tripHeader is the column set of the cleaned-trips artifact: the source
// columns the pipeline keeps plus every derived column.
var tripHeader = []string{
	"ride_id", "rideable_type", "member_casual",
	"started_at", "ended_at",
	"start_station_name", "end_station_name",
	"start_lat", "start_lng", "end_lat", "end_lng",
	"duration_min", "distance_km", "same_station",
	"weekday", "month", "hour_of_day",
}

// CSVWriter writes the cleaned trip dataset to a CSV file.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(tripHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// Write appends every cleaned trip to the file. A nil duration is written
// as an empty cell.
func (c *CSVWriter) Write(trips []*models.Trip) error {
	for _, t := range trips {
		duration := ""
		if t.DurationMin != nil {
			duration = strconv.FormatFloat(*t.DurationMin, 'f', -1, 64)
		}

		row := []string{
			t.RideID,
			t.RideableType,
			t.RiderType,
			t.StartedAt.Format(time.DateTime),
			t.EndedAt.Format(time.DateTime),
			t.StartStationName,
			t.EndStationName,
			strconv.FormatFloat(t.StartLat, 'f', -1, 64),
			strconv.FormatFloat(t.StartLng, 'f', -1, 64),
			strconv.FormatFloat(t.EndLat, 'f', -1, 64),
			strconv.FormatFloat(t.EndLng, 'f', -1, 64),
			duration,
			strconv.FormatFloat(t.DistanceKm, 'f', 3, 64),
			strconv.FormatBool(t.SameStation),
			t.Weekday,
			t.Month,
			strconv.Itoa(t.HourOfDay),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

// WriteAggregateCSV writes one aggregate as <dir>/<name>.csv with a fixed
// key/count/percent/mean header.
func WriteAggregateCSV(dir, name string, stats []models.GroupStat) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("csv: create output dir: %w", err)
	}

	path := filepath.Join(dir, name+".csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"key", "count", "percent", "mean_minutes", "mean_km"}); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	for _, s := range stats {
		row := []string{
			s.Key,
			strconv.Itoa(s.Count),
			strconv.FormatFloat(s.Percent, 'f', 1, 64),
			strconv.FormatFloat(s.MeanMinutes, 'f', 1, 64),
			strconv.FormatFloat(s.MeanKm, 'f', 1, 64),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}
