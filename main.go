package main

import (
	"fmt"
	"os"
	"path/filepath"

	"bikeshare-analyzer/config"
	"bikeshare-analyzer/loader"
	"bikeshare-analyzer/models"
	"bikeshare-analyzer/report"
	"bikeshare-analyzer/services"
	"bikeshare-analyzer/storage"
	"bikeshare-analyzer/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Bikeshare Trip Analysis starting ===")
	logger.Info("Config — data: %s | pattern: %s | output: %s | postgres: %v",
		cfg.DataDir, cfg.FilePattern, cfg.OutputDir, cfg.EnablePostgres)

	profile, err := config.LoadProfile(cfg.ProfilePath)
	if err != nil {
		logger.Error("Failed to load analysis profile: %v", err)
		os.Exit(1)
	}

	tripLoader := loader.New(cfg, profile, logger)
	rawTrips, err := tripLoader.Load()
	if err != nil {
		logger.Error("Load failed: %v", err)
		os.Exit(1)
	}

	cleaner := services.NewCleaner(profile, logger)
	trips, err := cleaner.Clean(rawTrips)
	if err != nil {
		logger.Error("Clean failed: %v", err)
		os.Exit(1)
	}
	if len(trips) == 0 {
		logger.Error("All trips were dropped during cleaning. Exiting.")
		os.Exit(1)
	}

	cleanedPath := filepath.Join(cfg.OutputDir, "cleaned_trips.csv")
	csvWriter, err := storage.NewCSVWriter(cleanedPath)
	if err != nil {
		logger.Error("Failed to create CSV writer: %v", err)
		os.Exit(1)
	}
	if err := csvWriter.Write(trips); err != nil {
		logger.Error("CSV write failed: %v", err)
		os.Exit(1)
	}
	if err := csvWriter.Close(); err != nil {
		logger.Error("CSV close failed: %v", err)
		os.Exit(1)
	}
	logger.Info("Cleaned trips saved to %s", cleanedPath)

	if cfg.EnablePostgres {
		trips = storeAndReload(cfg, logger, trips)
	}

	aggregator := services.NewAggregator(profile, logger)
	summary := aggregator.Summarize(trips)

	aggregates := map[string][]models.GroupStat{
		"by_rider_type":      summary.ByRiderType,
		"by_rideable_type":   summary.ByRideableType,
		"by_weekday":         summary.ByWeekday,
		"by_month":           summary.ByMonth,
		"by_hour":            summary.ByHour,
		"top_start_stations": summary.TopStartStations,
	}
	for name, stats := range aggregates {
		if err := storage.WriteAggregateCSV(cfg.OutputDir, name, stats); err != nil {
			logger.Error("Aggregate CSV write failed: %v", err)
			os.Exit(1)
		}
	}
	logger.Info("Aggregate CSVs saved to %s", cfg.OutputDir)

	workbook := report.NewWorkbook(profile, logger)
	if err := workbook.Save(summary, cfg.WorkbookPath); err != nil {
		logger.Error("Workbook write failed: %v", err)
		os.Exit(1)
	}

	report.NewConsole().Print(summary)

	fmt.Printf("  Done. Cleaned data → %s | Charts → %s\n\n",
		cleanedPath, cfg.WorkbookPath)
}

// storeAndReload pushes the cleaned dataset into Postgres and reads it
// back, so the stored copy is the one the aggregator analyzes. A sink
// failure is fatal like every other stage.
func storeAndReload(cfg *config.Config, logger *utils.Logger, trips []*models.Trip) []*models.Trip {
	pgWriter, err := storage.NewPostgresWriter(cfg.DSN(), logger)
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL: %v", err)
		os.Exit(1)
	}
	defer pgWriter.Close()

	if err := pgWriter.Write(trips); err != nil {
		logger.Error("PostgreSQL write failed: %v", err)
		os.Exit(1)
	}
	logger.Info("Cleaned trips stored in PostgreSQL (table: trips)")

	dbTrips, err := pgWriter.FetchAll()
	if err != nil {
		logger.Error("Failed to fetch trips from DB: %v", err)
		os.Exit(1)
	}
	return dbTrips
}
