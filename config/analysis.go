package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BoundsBox is the continental box end coordinates must fall inside.
// Both intervals are closed.
type BoundsBox struct {
	MinLat float64 `yaml:"min_lat"`
	MaxLat float64 `yaml:"max_lat"`
	MinLng float64 `yaml:"min_lng"`
	MaxLng float64 `yaml:"max_lng"`
}

// Contains reports whether the point lies inside the box.
func (b BoundsBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// AnalysisProfile carries the analysis parameters that are data, not code:
// the expected CSV header, the bounds filter, and report shaping knobs.
type AnalysisProfile struct {
	Header       []string  `yaml:"header"`
	Bounds       BoundsBox `yaml:"bounds"`
	StationTopN  int       `yaml:"station_top_n"`
	ReportSheets []string  `yaml:"report_sheets"`
}

// DefaultProfile returns the profile used when no analysis.yaml is present:
// the standard thirteen-column trip schema and the 25–50°N / −125–−70°W box.
func DefaultProfile() *AnalysisProfile {
	return &AnalysisProfile{
		Header: []string{
			"ride_id", "rideable_type", "started_at", "ended_at",
			"start_station_name", "start_station_id",
			"end_station_name", "end_station_id",
			"start_lat", "start_lng", "end_lat", "end_lng",
			"member_casual",
		},
		Bounds:      BoundsBox{MinLat: 25, MaxLat: 50, MinLng: -125, MaxLng: -70},
		StationTopN: 10,
		ReportSheets: []string{
			"rider_type", "rideable_type", "weekday", "month", "hour", "stations",
		},
	}
}

// LoadProfile reads the YAML analysis profile at path. A missing file falls
// back to DefaultProfile; a file that exists but does not parse is an error.
func LoadProfile(path string) (*AnalysisProfile, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultProfile(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read analysis profile %q: %w", path, err)
	}

	profile := DefaultProfile()
	if err := yaml.Unmarshal(raw, profile); err != nil {
		return nil, fmt.Errorf("config: parse analysis profile %q: %w", path, err)
	}

	if len(profile.Header) == 0 {
		return nil, fmt.Errorf("config: analysis profile %q has an empty header", path)
	}
	if profile.Bounds.MinLat >= profile.Bounds.MaxLat ||
		profile.Bounds.MinLng >= profile.Bounds.MaxLng {
		return nil, fmt.Errorf("config: analysis profile %q has an inverted bounds box", path)
	}
	if profile.StationTopN <= 0 {
		profile.StationTopN = DefaultProfile().StationTopN
	}

	return profile, nil
}

// WantsSheet reports whether the named report sheet is enabled.
func (p *AnalysisProfile) WantsSheet(name string) bool {
	for _, s := range p.ReportSheets {
		if s == name {
			return true
		}
	}
	return false
}
