package services

import (
	"testing"

	"bikeshare-analyzer/config"
	"bikeshare-analyzer/models"
	"bikeshare-analyzer/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLogger() }

func newTestCleaner() *Cleaner {
	return NewCleaner(config.DefaultProfile(), newTestLogger())
}

// validRaw returns a parseable in-bounds row. Tests override single fields.
func validRaw(rideID string) *models.RawTrip {
	return &models.RawTrip{
		RideID:           rideID,
		RideableType:     "classic_bike",
		StartedAt:        "2023-07-01 10:00:00",
		EndedAt:          "2023-07-01 10:12:30",
		StartStationName: "Clark St & Elm St",
		EndStationName:   "State St & Lake St",
		StartLat:         "41.9",
		StartLng:         "-87.6",
		EndLat:           "41.902",
		EndLng:           "-87.63",
		MemberCasual:     "member",
		SourceFile:       "202307-tripdata.csv",
	}
}

func TestCleanerWorkedExample(t *testing.T) {
	c := newTestCleaner()

	outside := validRaw("ride-outside")
	outside.EndLng = "-130"

	negative := validRaw("ride-negative")
	negative.StartedAt = "2023-07-01 10:12:30"
	negative.EndedAt = "2023-07-01 10:00:00"

	valid := validRaw("ride-valid")

	trips, err := c.Clean([]*models.RawTrip{outside, negative, valid})
	if err != nil {
		t.Fatalf("Clean returned error: %v", err)
	}
	if len(trips) != 2 {
		t.Fatalf("expected 2 cleaned trips, got %d", len(trips))
	}

	if trips[0].RideID != "ride-negative" {
		t.Errorf("first kept trip: got %q, want ride-negative", trips[0].RideID)
	}
	if trips[0].DurationMin != nil {
		t.Errorf("negative duration should be nil, got %.2f", *trips[0].DurationMin)
	}

	if trips[1].DurationMin == nil {
		t.Fatal("valid trip duration should not be nil")
	}
	if *trips[1].DurationMin != 12.5 {
		t.Errorf("duration: got %.2f, want 12.5", *trips[1].DurationMin)
	}
}

func TestCleanerBoundsFilter(t *testing.T) {
	c := newTestCleaner()

	tests := []struct {
		name   string
		endLat string
		endLng string
		kept   bool
	}{
		{"inside box", "41.9", "-87.6", true},
		{"north of box", "50.1", "-87.6", false},
		{"south of box", "24.9", "-87.6", false},
		{"west of box", "41.9", "-125.5", false},
		{"east of box", "41.9", "-69.9", false},
		{"on north edge", "50", "-87.6", true},
		{"on south edge", "25", "-87.6", true},
		{"on west edge", "41.9", "-125", true},
		{"on east edge", "41.9", "-70", true},
	}

	for _, tt := range tests {
		raw := validRaw("ride-" + tt.name)
		raw.EndLat = tt.endLat
		raw.EndLng = tt.endLng

		trips, err := c.Clean([]*models.RawTrip{raw})
		if err != nil {
			t.Fatalf("%s: Clean returned error: %v", tt.name, err)
		}
		if kept := len(trips) == 1; kept != tt.kept {
			t.Errorf("%s: kept=%v, want %v", tt.name, kept, tt.kept)
		}
	}
}

func TestCleanerSameStationFlag(t *testing.T) {
	c := newTestCleaner()

	same := validRaw("ride-same")
	same.StartLat, same.StartLng = "41.9000001", "-87.6000001"
	same.EndLat, same.EndLng = "41.9000001", "-87.6000001"

	nearlySame := validRaw("ride-nearly")
	nearlySame.StartLat, nearlySame.StartLng = "41.9000001", "-87.6000001"
	nearlySame.EndLat, nearlySame.EndLng = "41.9000002", "-87.6000001"

	trips, err := c.Clean([]*models.RawTrip{same, nearlySame})
	if err != nil {
		t.Fatalf("Clean returned error: %v", err)
	}
	if len(trips) != 2 {
		t.Fatalf("expected 2 trips, got %d", len(trips))
	}
	if !trips[0].SameStation {
		t.Error("identical coordinates should set SameStation")
	}
	if trips[1].SameStation {
		t.Error("nearly identical coordinates must not set SameStation")
	}
	if trips[0].DistanceKm != 0 {
		t.Errorf("same-station distance: got %.4f, want 0", trips[0].DistanceKm)
	}
	if trips[1].DistanceKm <= 0 {
		t.Errorf("distinct coordinates should give positive distance, got %.6f", trips[1].DistanceKm)
	}
}

func TestCleanerCalendarFields(t *testing.T) {
	c := newTestCleaner()

	// 2023-07-01 was a Saturday.
	raw := validRaw("ride-calendar")
	trips, err := c.Clean([]*models.RawTrip{raw})
	if err != nil {
		t.Fatalf("Clean returned error: %v", err)
	}

	trip := trips[0]
	if trip.Weekday != "Sat" {
		t.Errorf("Weekday: got %q, want Sat", trip.Weekday)
	}
	if trip.Month != "Jul" {
		t.Errorf("Month: got %q, want Jul", trip.Month)
	}
	if trip.HourOfDay != 10 {
		t.Errorf("HourOfDay: got %d, want 10", trip.HourOfDay)
	}
}

func TestCleanerUnparseableValuesAreFatal(t *testing.T) {
	c := newTestCleaner()

	tests := []struct {
		name   string
		mutate func(*models.RawTrip)
	}{
		{"bad started_at", func(r *models.RawTrip) { r.StartedAt = "07/01/2023 10:00" }},
		{"bad ended_at", func(r *models.RawTrip) { r.EndedAt = "not a time" }},
		{"bad end_lat", func(r *models.RawTrip) { r.EndLat = "forty-one" }},
		{"bad start_lng", func(r *models.RawTrip) { r.StartLng = "west" }},
	}

	for _, tt := range tests {
		raw := validRaw("ride-" + tt.name)
		tt.mutate(raw)
		if _, err := c.Clean([]*models.RawTrip{raw}); err == nil {
			t.Errorf("%s: expected error, got nil", tt.name)
		}
	}
}

func TestCleanerMissingEndCoordsDropped(t *testing.T) {
	c := newTestCleaner()

	missing := validRaw("ride-missing")
	missing.EndLat, missing.EndLng = "", ""

	trips, err := c.Clean([]*models.RawTrip{missing, validRaw("ride-ok")})
	if err != nil {
		t.Fatalf("Clean returned error: %v", err)
	}
	if len(trips) != 1 {
		t.Fatalf("expected 1 trip after dropping missing coords, got %d", len(trips))
	}
	if trips[0].RideID != "ride-ok" {
		t.Errorf("kept trip: got %q, want ride-ok", trips[0].RideID)
	}
}

func TestCleanerNormalisesCategories(t *testing.T) {
	c := newTestCleaner()

	raw := validRaw("ride-case")
	raw.MemberCasual = " Member "
	raw.RideableType = "Electric_Bike"

	trips, err := c.Clean([]*models.RawTrip{raw})
	if err != nil {
		t.Fatalf("Clean returned error: %v", err)
	}
	if trips[0].RiderType != "member" {
		t.Errorf("RiderType: got %q, want member", trips[0].RiderType)
	}
	if trips[0].RideableType != "electric_bike" {
		t.Errorf("RideableType: got %q, want electric_bike", trips[0].RideableType)
	}
}
