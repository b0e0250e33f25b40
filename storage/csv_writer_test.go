package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"bikeshare-analyzer/models"
)

func sampleTrip(rideID string, duration *float64) *models.Trip {
	return &models.Trip{
		RideID:           rideID,
		RideableType:     "classic_bike",
		RiderType:        "member",
		StartedAt:        time.Date(2023, 7, 1, 10, 0, 0, 0, time.UTC),
		EndedAt:          time.Date(2023, 7, 1, 10, 12, 30, 0, time.UTC),
		StartStationName: "Clark St",
		EndStationName:   "State St",
		StartLat:         41.9,
		StartLng:         -87.6,
		EndLat:           41.902,
		EndLng:           -87.63,
		DurationMin:      duration,
		DistanceKm:       2.5,
		Weekday:          "Sat",
		Month:            "Jul",
		HourOfDay:        10,
	}
}

func readBack(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return records
}

func TestCSVWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "cleaned_trips.csv")

	w, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}

	d := 12.5
	trips := []*models.Trip{
		sampleTrip("ride-1", &d),
		sampleTrip("ride-2", nil),
	}
	if err := w.Write(trips); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	records := readBack(t, path)
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}
	if records[0][0] != "ride_id" {
		t.Errorf("header[0]: got %q, want ride_id", records[0][0])
	}

	durationCol := -1
	for i, name := range records[0] {
		if name == "duration_min" {
			durationCol = i
		}
	}
	if durationCol == -1 {
		t.Fatal("duration_min column missing from header")
	}
	if records[1][durationCol] != "12.5" {
		t.Errorf("ride-1 duration cell: got %q, want 12.5", records[1][durationCol])
	}
	if records[2][durationCol] != "" {
		t.Errorf("nil duration cell: got %q, want empty", records[2][durationCol])
	}
}

func TestWriteAggregateCSV(t *testing.T) {
	dir := t.TempDir()
	stats := []models.GroupStat{
		{Key: "member", Count: 3, Percent: 60.0, MeanMinutes: 20.0, MeanKm: 2.0},
		{Key: "casual", Count: 2, Percent: 40.0, MeanMinutes: 40.0, MeanKm: 3.5},
	}

	if err := WriteAggregateCSV(dir, "by_rider_type", stats); err != nil {
		t.Fatalf("WriteAggregateCSV: %v", err)
	}

	records := readBack(t, filepath.Join(dir, "by_rider_type.csv"))
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if records[1][0] != "member" || records[1][1] != "3" || records[1][2] != "60.0" {
		t.Errorf("member row: got %v", records[1])
	}
	if records[2][2] != "40.0" {
		t.Errorf("casual percent cell: got %q, want 40.0", records[2][2])
	}
}
