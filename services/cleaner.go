package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/umahmood/haversine"

	"bikeshare-analyzer/config"
	"bikeshare-analyzer/models"
	"bikeshare-analyzer/utils"
)

// timestampLayout is the format the trip CSVs use for started_at/ended_at.
const timestampLayout = "2006-01-02 15:04:05"

// Cleaner transforms RawTrips into clean, typed Trips with derived columns.
//
// Rows whose end coordinates fall outside the profile's bounds box are
// dropped (missing end coordinates count as outside). A negative duration
// is recorded as nil rather than dropping the row, so the trip still
// participates in every non-duration aggregate. A value that simply does
// not parse is a fatal error, not a dropped row.
type Cleaner struct {
	bounds config.BoundsBox
	logger *utils.Logger
}

// NewCleaner creates a Cleaner enforcing the profile's bounds box.
func NewCleaner(profile *config.AnalysisProfile, logger *utils.Logger) *Cleaner {
	return &Cleaner{bounds: profile.Bounds, logger: logger}
}

// Clean processes raw rows and returns the cleaned dataset.
func (c *Cleaner) Clean(raw []*models.RawTrip) ([]*models.Trip, error) {
	result := make([]*models.Trip, 0, len(raw))

	var outOfBounds, negative int
	for _, r := range raw {
		if missingCoords(r) {
			outOfBounds++
			continue
		}

		trip, err := c.parse(r)
		if err != nil {
			return nil, err
		}

		if !c.bounds.Contains(trip.EndLat, trip.EndLng) {
			outOfBounds++
			continue
		}

		minutes := trip.EndedAt.Sub(trip.StartedAt).Minutes()
		if minutes >= 0 {
			trip.DurationMin = &minutes
		} else {
			negative++
		}

		trip.SameStation = trip.StartLat == trip.EndLat && trip.StartLng == trip.EndLng

		_, km := haversine.Distance(
			haversine.Coord{Lat: trip.StartLat, Lon: trip.StartLng},
			haversine.Coord{Lat: trip.EndLat, Lon: trip.EndLng},
		)
		trip.DistanceKm = km

		trip.Weekday = trip.StartedAt.Format("Mon")
		trip.Month = trip.StartedAt.Format("Jan")
		trip.HourOfDay = trip.StartedAt.Hour()

		result = append(result, trip)
	}

	c.logger.Info("[cleaner] Cleaned %d → %d trips (dropped %d out-of-bounds, nulled %d negative durations)",
		len(raw), len(result), outOfBounds, negative)
	return result, nil
}

// parse converts one raw row into a typed Trip, without derived columns.
func (c *Cleaner) parse(r *models.RawTrip) (*models.Trip, error) {
	startedAt, err := parseTimestamp(r, "started_at", r.StartedAt)
	if err != nil {
		return nil, err
	}
	endedAt, err := parseTimestamp(r, "ended_at", r.EndedAt)
	if err != nil {
		return nil, err
	}

	startLat, err := parseCoord(r, "start_lat", r.StartLat)
	if err != nil {
		return nil, err
	}
	startLng, err := parseCoord(r, "start_lng", r.StartLng)
	if err != nil {
		return nil, err
	}
	endLat, err := parseCoord(r, "end_lat", r.EndLat)
	if err != nil {
		return nil, err
	}
	endLng, err := parseCoord(r, "end_lng", r.EndLng)
	if err != nil {
		return nil, err
	}

	return &models.Trip{
		RideID:           strings.TrimSpace(r.RideID),
		RideableType:     normaliseCategory(r.RideableType),
		StartedAt:        startedAt,
		EndedAt:          endedAt,
		StartStationName: strings.TrimSpace(r.StartStationName),
		EndStationName:   strings.TrimSpace(r.EndStationName),
		StartLat:         startLat,
		StartLng:         startLng,
		EndLat:           endLat,
		EndLng:           endLng,
		RiderType:        normaliseCategory(r.MemberCasual),
	}, nil
}

func parseTimestamp(r *models.RawTrip, field, raw string) (time.Time, error) {
	t, err := time.Parse(timestampLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("cleaner: ride %s (%s): unparseable %s %q: %w",
			r.RideID, r.SourceFile, field, raw, err)
	}
	return t, nil
}

func parseCoord(r *models.RawTrip, field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("cleaner: ride %s (%s): unparseable %s %q: %w",
			r.RideID, r.SourceFile, field, raw, err)
	}
	return v, nil
}

// missingCoords reports whether either end coordinate is absent. Such rows
// cannot satisfy the bounds invariant and are dropped with the rest of the
// out-of-bounds rows.
func missingCoords(r *models.RawTrip) bool {
	return strings.TrimSpace(r.EndLat) == "" || strings.TrimSpace(r.EndLng) == ""
}

func normaliseCategory(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
