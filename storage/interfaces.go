package storage

import "bikeshare-analyzer/models"

// TripWriter is the interface any storage backend must satisfy.
type TripWriter interface {
	Write(trips []*models.Trip) error
	Close() error
}

// TripReader is satisfied by backends the aggregator can read back from.
type TripReader interface {
	FetchAll() ([]*models.Trip, error)
}
