package report

import (
	"fmt"
	"strings"

	"bikeshare-analyzer/models"
)

// Console renders the trip summary as a terminal report: overview, rider
// split, rankings, and the closing recommendation. It consumes aggregates
// only, never raw records.
type Console struct{}

// NewConsole creates a console reporter.
func NewConsole() *Console {
	return &Console{}
}

// Print writes the full report to stdout.
func (c *Console) Print(r *models.TripSummary) {
	sep := strings.Repeat("═", 58)
	thin := strings.Repeat("─", 58)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  🚲 BIKESHARE TRIP INSIGHTS\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Total trips analyzed : \033[1m%d\033[0m\n", r.TotalTrips)
	fmt.Printf("  Same-station trips   : \033[1m%d\033[0m\n", r.SameStationTrips)
	fmt.Println()

	// Duration stats
	fmt.Printf("\033[1;33m  Trip Duration (minutes)\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.MeanMinutes > 0 || r.MaxMinutes > 0 {
		fmt.Printf("  Average : \033[1;32m%.1f\033[0m\n", r.MeanMinutes)
		fmt.Printf("  Minimum : \033[1;32m%.1f\033[0m\n", r.MinMinutes)
		fmt.Printf("  Maximum : \033[1;32m%.1f\033[0m\n", r.MaxMinutes)
	} else {
		fmt.Printf("  No duration data available\n")
	}
	fmt.Println()

	c.printGroup("Trips by Rider Type", r.ByRiderType, true)
	c.printGroup("Trips by Bike Type", r.ByRideableType, true)
	c.printGroup("Trips by Weekday", r.ByWeekday, false)
	c.printGroup("Trips by Month", r.ByMonth, false)

	// Top stations
	fmt.Printf("\033[1;33m  Top Start Stations\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.TopStartStations) == 0 {
		fmt.Printf("  No station data\n")
	} else {
		for i, s := range r.TopStartStations {
			fmt.Printf("  \033[1m%2d.\033[0m %-38s \033[1;32m%d\033[0m (%.1f%%)\n",
				i+1, truncate(s.Key, 36), s.Count, s.Percent)
		}
	}
	fmt.Println()

	c.printRecommendation(r)

	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)
}

// printGroup renders one aggregate as a bar list. Bars are scaled to the
// largest group so a twelve-month season still fits a terminal.
func (c *Console) printGroup(title string, stats []models.GroupStat, withDuration bool) {
	fmt.Printf("\033[1;33m  %s\033[0m\n", title)
	fmt.Printf("  %s\n", strings.Repeat("─", 58))
	if len(stats) == 0 {
		fmt.Printf("  No data\n\n")
		return
	}

	max := 0
	for _, s := range stats {
		if s.Count > max {
			max = s.Count
		}
	}

	for _, s := range stats {
		bar := strings.Repeat("█", scaleBar(s.Count, max, 30))
		if withDuration && s.MeanMinutes > 0 {
			fmt.Printf("  %-14s %-30s %d (%.1f%%, avg %.1f min)\n",
				truncate(s.Key, 13), bar, s.Count, s.Percent, s.MeanMinutes)
		} else {
			fmt.Printf("  %-14s %-30s %d (%.1f%%)\n",
				truncate(s.Key, 13), bar, s.Count, s.Percent)
		}
	}
	fmt.Println()
}

// printRecommendation turns the casual vs member contrast into the
// narrative the case study exists for.
func (c *Console) printRecommendation(r *models.TripSummary) {
	casual := findStat(r.ByRiderType, "casual")
	member := findStat(r.ByRiderType, "member")
	if casual == nil || member == nil {
		return
	}

	fmt.Printf("\033[1;33m  Recommendation\033[0m\n")
	fmt.Printf("  %s\n", strings.Repeat("─", 58))
	fmt.Printf("  Casual riders took %.1f%% of all trips, members %.1f%%.\n",
		casual.Percent, member.Percent)
	if casual.MeanMinutes > member.MeanMinutes && member.MeanMinutes > 0 {
		fmt.Printf("  Casual trips run %.1fx longer on average (%.1f vs %.1f min),\n",
			casual.MeanMinutes/member.MeanMinutes, casual.MeanMinutes, member.MeanMinutes)
		fmt.Printf("  pointing at leisure use rather than commuting.\n")
	}

	if day := peakDay(r.RiderTypeByWeekday["casual"]); day != "" {
		fmt.Printf("  Casual demand peaks on %s; target weekend riders with\n", day)
		fmt.Printf("  membership offers priced against their longer rides.\n")
	}
	fmt.Println()
}

func findStat(stats []models.GroupStat, key string) *models.GroupStat {
	for i := range stats {
		if stats[i].Key == key {
			return &stats[i]
		}
	}
	return nil
}

func peakDay(stats []models.GroupStat) string {
	best := ""
	max := 0
	for _, s := range stats {
		if s.Count > max {
			max = s.Count
			best = s.Key
		}
	}
	return best
}

func scaleBar(count, max, width int) int {
	if max == 0 {
		return 0
	}
	n := count * width / max
	if n == 0 && count > 0 {
		n = 1
	}
	return n
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
