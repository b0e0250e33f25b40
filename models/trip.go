package models

import "time"

// RawTrip holds one unprocessed row exactly as it appears in the monthly
// trip CSVs. Every field is a string; parsing happens in the cleaner.
type RawTrip struct {
	RideID           string
	RideableType     string
	StartedAt        string
	EndedAt          string
	StartStationName string
	StartStationID   string
	EndStationName   string
	EndStationID     string
	StartLat         string
	StartLng         string
	EndLat           string
	EndLng           string
	MemberCasual     string

	// SourceFile is the CSV file the row came from, kept for error messages.
	SourceFile string
}

// Trip is the cleaned, typed record the aggregator reads. Records are never
// mutated after cleaning.
type Trip struct {
	RideID           string
	RideableType     string
	StartedAt        time.Time
	EndedAt          time.Time
	StartStationName string
	EndStationName   string
	StartLat         float64
	StartLng         float64
	EndLat           float64
	EndLng           float64
	RiderType        string

	// Derived columns.
	DurationMin *float64 // nil when the trip ends before it starts
	DistanceKm  float64
	SameStation bool // start and end coordinates bit-identical
	Weekday     string
	Month       string
	HourOfDay   int
}

// GroupStat is one row of an aggregate: a categorical key with its count,
// share of the full cleaned dataset, and mean duration/distance over the
// group's rows that have them.
type GroupStat struct {
	Key         string
	Count       int
	Percent     float64 // of total cleaned rows, one decimal
	MeanMinutes float64 // over non-null durations only; 0 when none
	MeanKm      float64
}

// TripSummary holds every aggregate the reporters consume. Reporters never
// see raw or cleaned trips, only this.
type TripSummary struct {
	TotalTrips       int
	MeanMinutes      float64
	MinMinutes       float64
	MaxMinutes       float64
	SameStationTrips int

	ByRiderType        []GroupStat
	ByRideableType     []GroupStat
	ByWeekday          []GroupStat
	ByMonth            []GroupStat
	ByHour             []GroupStat
	TopStartStations   []GroupStat
	RiderTypeByWeekday map[string][]GroupStat
}
