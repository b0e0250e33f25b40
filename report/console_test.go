package report

import (
	"testing"

	"bikeshare-analyzer/models"
)

func TestScaleBar(t *testing.T) {
	tests := []struct {
		count, max, width, want int
	}{
		{100, 100, 30, 30},
		{50, 100, 30, 15},
		{1, 100000, 30, 1}, // small groups still get a visible bar
		{0, 100, 30, 0},
		{5, 0, 30, 0},
	}
	for _, tt := range tests {
		if got := scaleBar(tt.count, tt.max, tt.width); got != tt.want {
			t.Errorf("scaleBar(%d, %d, %d) = %d, want %d",
				tt.count, tt.max, tt.width, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate short: got %q", got)
	}
	if got := truncate("a very long station name", 10); got != "a very ..." {
		t.Errorf("truncate long: got %q", got)
	}
}

func TestPeakDay(t *testing.T) {
	stats := []models.GroupStat{
		{Key: "Mon", Count: 10},
		{Key: "Sat", Count: 40},
		{Key: "Sun", Count: 35},
	}
	if got := peakDay(stats); got != "Sat" {
		t.Errorf("peakDay: got %q, want Sat", got)
	}
	if got := peakDay(nil); got != "" {
		t.Errorf("peakDay(nil): got %q, want empty", got)
	}
}

func TestFindStat(t *testing.T) {
	stats := []models.GroupStat{{Key: "member", Count: 3}, {Key: "casual", Count: 2}}
	if s := findStat(stats, "casual"); s == nil || s.Count != 2 {
		t.Errorf("findStat casual: got %+v", s)
	}
	if s := findStat(stats, "nobody"); s != nil {
		t.Errorf("findStat nobody: got %+v, want nil", s)
	}
}

// Print only formats aggregates; make sure it tolerates an empty summary.
func TestConsolePrintEmptySummary(t *testing.T) {
	NewConsole().Print(&models.TripSummary{
		RiderTypeByWeekday: map[string][]models.GroupStat{},
	})
}
