package loader

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"bikeshare-analyzer/config"
	"bikeshare-analyzer/models"
	"bikeshare-analyzer/utils"
)

// Loader reads every monthly trip CSV matching the configured pattern and
// concatenates them, row-wise, into one raw dataset. Every file must carry
// exactly the header declared in the analysis profile; any deviation is a
// configuration error and aborts the run.
type Loader struct {
	dataDir string
	pattern string
	profile *config.AnalysisProfile
	logger  *utils.Logger
}

// New creates a Loader for the given data directory and filename pattern.
func New(cfg *config.Config, profile *config.AnalysisProfile, logger *utils.Logger) *Loader {
	return &Loader{
		dataDir: cfg.DataDir,
		pattern: cfg.FilePattern,
		profile: profile,
		logger:  logger,
	}
}

// Load globs the data directory and returns the concatenated raw rows.
// Files are processed in sorted name order so monthly files concatenate
// chronologically under the usual YYYYMM naming.
func (l *Loader) Load() ([]*models.RawTrip, error) {
	matches, err := filepath.Glob(filepath.Join(l.dataDir, l.pattern))
	if err != nil {
		return nil, fmt.Errorf("loader: bad file pattern %q: %w", l.pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("loader: no files matching %q in %s", l.pattern, l.dataDir)
	}
	sort.Strings(matches)

	l.logger.Info("[loader] Found %d trip files in %s", len(matches), l.dataDir)

	var trips []*models.RawTrip
	for _, path := range matches {
		fileTrips, err := l.loadFile(path)
		if err != nil {
			return nil, err
		}
		l.logger.Info("[loader] %s: %d rows", filepath.Base(path), len(fileTrips))
		trips = append(trips, fileTrips...)
	}

	l.logger.Info("[loader] Concatenated dataset: %d raw rows", len(trips))
	return trips, nil
}

func (l *Loader) loadFile(path string) ([]*models.RawTrip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(bufio.NewReader(f))
	reader.FieldsPerRecord = len(l.profile.Header)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("loader: read header of %s: %w", path, err)
	}
	stripBOM(header)

	if err := l.checkHeader(path, header); err != nil {
		return nil, err
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	name := filepath.Base(path)
	var trips []*models.RawTrip
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("loader: read %s: %w", path, err)
		}

		trips = append(trips, &models.RawTrip{
			RideID:           record[col["ride_id"]],
			RideableType:     record[col["rideable_type"]],
			StartedAt:        record[col["started_at"]],
			EndedAt:          record[col["ended_at"]],
			StartStationName: record[col["start_station_name"]],
			StartStationID:   record[col["start_station_id"]],
			EndStationName:   record[col["end_station_name"]],
			EndStationID:     record[col["end_station_id"]],
			StartLat:         record[col["start_lat"]],
			StartLng:         record[col["start_lng"]],
			EndLat:           record[col["end_lat"]],
			EndLng:           record[col["end_lng"]],
			MemberCasual:     record[col["member_casual"]],
			SourceFile:       name,
		})
	}

	return trips, nil
}

// checkHeader enforces the identical-schema contract across input files.
func (l *Loader) checkHeader(path string, header []string) error {
	want := l.profile.Header
	if len(header) != len(want) {
		return fmt.Errorf("loader: %s has %d columns, expected %d (%v)",
			path, len(header), len(want), want)
	}
	for i, name := range want {
		if header[i] != name {
			return fmt.Errorf("loader: %s column %d is %q, expected %q (header %v)",
				path, i, header[i], name, header)
		}
	}
	return nil
}

// stripBOM removes a UTF-8 byte order mark from the first header cell.
// Exported spreadsheets often carry one.
func stripBOM(header []string) {
	if len(header) == 0 {
		return
	}
	const bom = "\ufeff"
	if len(header[0]) >= len(bom) && header[0][:len(bom)] == bom {
		header[0] = header[0][len(bom):]
	}
}
