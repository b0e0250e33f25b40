package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"bikeshare-analyzer/config"
	"bikeshare-analyzer/models"
	"bikeshare-analyzer/utils"
)

// Workbook renders the trip summary as an xlsx file: one sheet per
// aggregate with the numbers in columns A..E and an embedded chart next
// to them. Which sheets are emitted comes from the analysis profile.
type Workbook struct {
	profile *config.AnalysisProfile
	logger  *utils.Logger
}

// NewWorkbook creates a workbook reporter shaped by the analysis profile.
func NewWorkbook(profile *config.AnalysisProfile, logger *utils.Logger) *Workbook {
	return &Workbook{profile: profile, logger: logger}
}

// Save writes the workbook to path, creating parent directories as needed.
func (w *Workbook) Save(r *models.TripSummary, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("workbook: create output dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := w.overviewSheet(f, r); err != nil {
		return err
	}

	type sheetSpec struct {
		key       string
		name      string
		title     string
		chartType excelize.ChartType
		stats     []models.GroupStat
	}
	specs := []sheetSpec{
		{"rider_type", "RiderType", "Trips by rider type", excelize.Pie, r.ByRiderType},
		{"rideable_type", "BikeType", "Trips by bike type", excelize.Col, r.ByRideableType},
		{"weekday", "Weekday", "Trips by weekday", excelize.Col, r.ByWeekday},
		{"month", "Month", "Trips by month", excelize.Line, r.ByMonth},
		{"hour", "Hour", "Trips by start hour", excelize.Line, r.ByHour},
		{"stations", "Stations", "Top start stations", excelize.Bar, r.TopStartStations},
	}

	for _, spec := range specs {
		if !w.profile.WantsSheet(spec.key) {
			continue
		}
		if err := w.aggregateSheet(f, spec.name, spec.title, spec.chartType, spec.stats); err != nil {
			return err
		}
	}

	if w.profile.WantsSheet("weekday") {
		if err := w.riderWeekdaySheet(f, r); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("workbook: save %q: %w", path, err)
	}
	w.logger.Info("[report] Workbook written to %s", path)
	return nil
}

func (w *Workbook) overviewSheet(f *excelize.File, r *models.TripSummary) error {
	const sheet = "Overview"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("workbook: rename sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total trips", r.TotalTrips},
		{"Mean duration (min)", r.MeanMinutes},
		{"Min duration (min)", r.MinMinutes},
		{"Max duration (min)", r.MaxMinutes},
		{"Same-station trips", r.SameStationTrips},
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("workbook: overview row %d: %w", i+1, err)
		}
	}
	return nil
}

// aggregateSheet writes one aggregate's stats and embeds a chart of the
// count column against the group keys.
func (w *Workbook) aggregateSheet(f *excelize.File, sheet, title string,
	chartType excelize.ChartType, stats []models.GroupStat) error {

	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("workbook: new sheet %s: %w", sheet, err)
	}

	header := []interface{}{"key", "count", "percent", "mean_minutes", "mean_km"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("workbook: %s header: %w", sheet, err)
	}

	for i, s := range stats {
		row := []interface{}{s.Key, s.Count, s.Percent, s.MeanMinutes, s.MeanKm}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("workbook: %s row %d: %w", sheet, i+2, err)
		}
	}

	if len(stats) == 0 {
		return nil
	}

	last := len(stats) + 1
	chart := &excelize.Chart{
		Type: chartType,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("%s!$B$1", sheet),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", sheet, last),
			Values:     fmt.Sprintf("%s!$B$2:$B$%d", sheet, last),
		}},
		Title: []excelize.RichTextRun{{Text: title}},
	}
	if err := f.AddChart(sheet, "G2", chart); err != nil {
		return fmt.Errorf("workbook: %s chart: %w", sheet, err)
	}
	return nil
}

// riderWeekdaySheet charts casual against member demand per weekday, the
// contrast the recommendation rests on.
func (w *Workbook) riderWeekdaySheet(f *excelize.File, r *models.TripSummary) error {
	const sheet = "RiderWeekday"
	casual := r.RiderTypeByWeekday["casual"]
	member := r.RiderTypeByWeekday["member"]
	if len(casual) == 0 && len(member) == 0 {
		return nil
	}

	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("workbook: new sheet %s: %w", sheet, err)
	}

	header := []interface{}{"weekday", "casual", "member"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("workbook: %s header: %w", sheet, err)
	}

	counts := func(stats []models.GroupStat) map[string]int {
		m := make(map[string]int, len(stats))
		for _, s := range stats {
			m[s.Key] = s.Count
		}
		return m
	}
	casualCounts, memberCounts := counts(casual), counts(member)

	days := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	for i, day := range days {
		row := []interface{}{day, casualCounts[day], memberCounts[day]}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("workbook: %s row %d: %w", sheet, i+2, err)
		}
	}

	last := len(days) + 1
	chart := &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{
			{
				Name:       fmt.Sprintf("%s!$B$1", sheet),
				Categories: fmt.Sprintf("%s!$A$2:$A$%d", sheet, last),
				Values:     fmt.Sprintf("%s!$B$2:$B$%d", sheet, last),
			},
			{
				Name:       fmt.Sprintf("%s!$C$1", sheet),
				Categories: fmt.Sprintf("%s!$A$2:$A$%d", sheet, last),
				Values:     fmt.Sprintf("%s!$C$2:$C$%d", sheet, last),
			},
		},
		Title: []excelize.RichTextRun{{Text: "Casual vs member demand by weekday"}},
	}
	if err := f.AddChart(sheet, "F2", chart); err != nil {
		return fmt.Errorf("workbook: %s chart: %w", sheet, err)
	}
	return nil
}
