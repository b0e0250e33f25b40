package services

import (
	"sort"
	"strconv"

	"bikeshare-analyzer/config"
	"bikeshare-analyzer/models"
	"bikeshare-analyzer/utils"
)

var (
	weekdayOrder = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	monthOrder   = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun",
		"Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
)

// Aggregator computes every grouped statistic the reporters consume. It
// only reads the cleaned dataset; percentages are always relative to the
// full cleaned row count, never a per-group subtotal.
type Aggregator struct {
	stationTopN int
	logger      *utils.Logger
}

// NewAggregator creates an Aggregator shaped by the analysis profile.
func NewAggregator(profile *config.AnalysisProfile, logger *utils.Logger) *Aggregator {
	return &Aggregator{stationTopN: profile.StationTopN, logger: logger}
}

// Summarize computes the full set of aggregates over the cleaned trips.
func (a *Aggregator) Summarize(trips []*models.Trip) *models.TripSummary {
	summary := &models.TripSummary{
		RiderTypeByWeekday: make(map[string][]models.GroupStat),
	}
	if len(trips) == 0 {
		return summary
	}

	summary.TotalTrips = len(trips)

	var sumMin float64
	var withDuration int
	for _, t := range trips {
		if t.SameStation {
			summary.SameStationTrips++
		}
		if t.DurationMin == nil {
			continue
		}
		d := *t.DurationMin
		sumMin += d
		if withDuration == 0 || d < summary.MinMinutes {
			summary.MinMinutes = d
		}
		if withDuration == 0 || d > summary.MaxMinutes {
			summary.MaxMinutes = d
		}
		withDuration++
	}
	if withDuration > 0 {
		summary.MeanMinutes = round1(sumMin / float64(withDuration))
	}

	summary.ByRiderType = rank(a.groupBy(trips, func(t *models.Trip) string { return t.RiderType }))
	summary.ByRideableType = rank(a.groupBy(trips, func(t *models.Trip) string { return t.RideableType }))

	summary.ByWeekday = calendarOrder(
		a.groupBy(trips, func(t *models.Trip) string { return t.Weekday }), weekdayOrder)
	summary.ByMonth = calendarOrder(
		a.groupBy(trips, func(t *models.Trip) string { return t.Month }), monthOrder)
	summary.ByHour = calendarOrder(
		a.groupBy(trips, func(t *models.Trip) string { return strconv.Itoa(t.HourOfDay) }), hourOrder())

	summary.TopStartStations = a.topStations(trips)

	for _, rider := range summary.ByRiderType {
		riderType := rider.Key
		perDay := a.groupByFiltered(trips,
			func(t *models.Trip) bool { return t.RiderType == riderType },
			func(t *models.Trip) string { return t.Weekday })
		summary.RiderTypeByWeekday[riderType] = calendarOrder(perDay, weekdayOrder)
	}

	a.logger.Info("[aggregator] Summarized %d trips (%d rider types, %d stations ranked)",
		summary.TotalTrips, len(summary.ByRiderType), len(summary.TopStartStations))
	return summary
}

// topStations ranks start stations by descending trip count and keeps the
// configured top N. Trips without a station name are left out.
func (a *Aggregator) topStations(trips []*models.Trip) []models.GroupStat {
	stats := rank(a.groupByFiltered(trips,
		func(t *models.Trip) bool { return t.StartStationName != "" },
		func(t *models.Trip) string { return t.StartStationName }))
	if len(stats) > a.stationTopN {
		stats = stats[:a.stationTopN]
	}
	return stats
}

// groupBy buckets trips by key and returns one GroupStat per key, in the
// order each key first appears.
func (a *Aggregator) groupBy(trips []*models.Trip, key func(*models.Trip) string) []models.GroupStat {
	return a.groupByFiltered(trips, nil, key)
}

// groupByFiltered is groupBy over the subset keep selects. Percent still
// uses the full trip count as the denominator.
func (a *Aggregator) groupByFiltered(trips []*models.Trip,
	keep func(*models.Trip) bool, key func(*models.Trip) string) []models.GroupStat {

	type bucket struct {
		count      int
		sumMinutes float64
		nMinutes   int
		sumKm      float64
	}

	buckets := make(map[string]*bucket)
	var order []string

	for _, t := range trips {
		if keep != nil && !keep(t) {
			continue
		}
		k := key(t)
		b, ok := buckets[k]
		if !ok {
			b = &bucket{}
			buckets[k] = b
			order = append(order, k)
		}
		b.count++
		b.sumKm += t.DistanceKm
		if t.DurationMin != nil {
			b.sumMinutes += *t.DurationMin
			b.nMinutes++
		}
	}

	total := float64(len(trips))
	stats := make([]models.GroupStat, 0, len(order))
	for _, k := range order {
		b := buckets[k]
		stat := models.GroupStat{
			Key:     k,
			Count:   b.count,
			Percent: round1(float64(b.count) * 100 / total),
			MeanKm:  round1(b.sumKm / float64(b.count)),
		}
		if b.nMinutes > 0 {
			stat.MeanMinutes = round1(b.sumMinutes / float64(b.nMinutes))
		}
		stats = append(stats, stat)
	}
	return stats
}

// rank orders stats by descending count. Ties keep first-seen order, so
// equal-count groups come out in the order the data introduced them.
func rank(stats []models.GroupStat) []models.GroupStat {
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Count > stats[j].Count
	})
	return stats
}

// calendarOrder reorders stats to match a fixed calendar sequence,
// dropping positions with no observed trips.
func calendarOrder(stats []models.GroupStat, order []string) []models.GroupStat {
	byKey := make(map[string]models.GroupStat, len(stats))
	for _, s := range stats {
		byKey[s.Key] = s
	}
	out := make([]models.GroupStat, 0, len(stats))
	for _, k := range order {
		if s, ok := byKey[k]; ok {
			out = append(out, s)
		}
	}
	return out
}

func hourOrder() []string {
	hours := make([]string, 24)
	for h := 0; h < 24; h++ {
		hours[h] = strconv.Itoa(h)
	}
	return hours
}

func round1(f float64) float64 {
	return float64(int(f*10+0.5)) / 10
}
