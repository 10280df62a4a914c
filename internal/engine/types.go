package engine

import (
	"fmt"
	"strings"
	"time"
)

// WeatherRecord is one hour of the fixed-time (MEZ) annual weather series.
// Hour uses the TRY 1-24 encoding, where hour 24 is the last hour of the
// day rather than midnight of the next. Temperature is the only field this
// engine ever changes; Raw keeps the original data line so an output writer
// can re-emit the record with every other column untouched.
type WeatherRecord struct {
	Month       int
	Day         int
	Hour        int
	Temperature float64
	Raw         string
}

// IrradianceRecord is one hour of the calendar-aware irradiance series.
// The instant is local wall-clock time (0-23 encoding) that alternates
// between MEZ and MESZ across the year. Values maps facade column labels
// to irradiance in W/m².
type IrradianceRecord struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Values map[string]float64
}

// Instant returns the record's calendar instant.
func (r IrradianceRecord) Instant() Instant {
	return Instant{Year: r.Year, Month: r.Month, Day: r.Day, Hour: r.Hour}
}

// Instant is one matchable hour, independent of which series produced it.
type Instant struct {
	Year  int
	Month int
	Day   int
	Hour  int
}

// Time converts the instant to a time.Time for duration arithmetic.
func (in Instant) Time() time.Time {
	return time.Date(in.Year, time.Month(in.Month), in.Day, in.Hour, 0, 0, 0, time.UTC)
}

func (in Instant) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:00", in.Year, in.Month, in.Day, in.Hour)
}

// Facade identifies one (orientation, building body) combination for which
// a separate shaded weather file is generated.
type Facade struct {
	Orientation  string // "f1", "f2", ...
	BuildingBody string // "Building body", "Building body 2", ...
}

// Key returns the stable identifier used for result lookups.
func (f Facade) Key() string {
	return f.Orientation + "_" + f.BuildingBody
}

// Slug returns a filesystem-safe variant of the facade identity.
func (f Facade) Slug() string {
	s := f.Orientation + "_" + f.BuildingBody
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ReplaceAll(s, "$", "_")
}

func (f Facade) String() string {
	return f.Orientation + " of " + f.BuildingBody
}

// Context carries the per-run values needed to convert weather records to
// calendar instants. The reference year comes from the first irradiance
// record and is fixed for the whole run; passing it explicitly rather than
// through process-wide state keeps facade passes independent.
type Context struct {
	Year int
}

// Params are the configuration inputs consumed by a run.
type Params struct {
	Threshold   float64 // W/m², adjustment applies strictly above this
	DeltaT      float64 // °C added per adjusted record
	WeatherFile string
	SolarFile   string
}

// Adjustment describes one applied temperature change, kept as a bounded
// sample for previews.
type Adjustment struct {
	Month        int     `json:"month"`
	Day          int     `json:"day"`
	Hour         int     `json:"hour"`
	Facade       string  `json:"facade"`
	OriginalTemp float64 `json:"original_temp"`
	AdjustedTemp float64 `json:"adjusted_temp"`
	Irradiance   float64 `json:"irradiance"`
}

// FacadeResult is the outcome of one facade pass: the facade's private,
// possibly adjusted copy of the weather series plus bookkeeping. Column is
// empty when no irradiance column matched the facade, in which case the
// series is an unmodified copy and Adjustments is zero.
type FacadeResult struct {
	Facade            Facade
	Column            string
	Series            []WeatherRecord
	Adjustments       int
	DuplicateInstants int
	Samples           []Adjustment
}

// NoData reports whether the facade had no matching irradiance column.
func (r *FacadeResult) NoData() bool {
	return r.Column == ""
}

// RunResult aggregates all facade results for one invocation. It is
// immutable after Run returns; output collaborators only read it.
type RunResult struct {
	Params       Params
	Year         int
	WeatherCount int
	SolarCount   int
	Facades      []*FacadeResult
}

// Facade returns the result for a facade key, or nil.
func (r *RunResult) Facade(key string) *FacadeResult {
	for _, fr := range r.Facades {
		if fr.Facade.Key() == key {
			return fr
		}
	}
	return nil
}

// TotalAdjustments sums adjustment counters across facades.
func (r *RunResult) TotalAdjustments() int {
	total := 0
	for _, fr := range r.Facades {
		total += fr.Adjustments
	}
	return total
}

// FacadeSummary is the per-facade slice of a preview summary.
type FacadeSummary struct {
	Facade      string  `json:"facade"`
	Column      string  `json:"column,omitempty"`
	Adjustments int     `json:"adjustments"`
	Percentage  float64 `json:"percentage_adjusted"`
	NoData      bool    `json:"no_data,omitempty"`
}

// Summary is the presentation-ready digest of a run, used by the preview
// command and the JSON API.
type Summary struct {
	WeatherFile      string          `json:"weather_file"`
	SolarFile        string          `json:"solar_file"`
	Threshold        float64         `json:"threshold"`
	DeltaT           float64         `json:"delta_t"`
	Year             int             `json:"year"`
	WeatherCount     int             `json:"weather_data_points"`
	SolarCount       int             `json:"solar_data_points"`
	FacadeCount      int             `json:"facade_count"`
	TotalAdjustments int             `json:"total_adjustments"`
	Facades          []FacadeSummary `json:"facades"`
	Samples          []Adjustment    `json:"sample_adjustments,omitempty"`
}

// Summarize flattens the run result into a Summary, keeping at most
// maxSamples example adjustments across all facades.
func (r *RunResult) Summarize(maxSamples int) Summary {
	s := Summary{
		WeatherFile:      r.Params.WeatherFile,
		SolarFile:        r.Params.SolarFile,
		Threshold:        r.Params.Threshold,
		DeltaT:           r.Params.DeltaT,
		Year:             r.Year,
		WeatherCount:     r.WeatherCount,
		SolarCount:       r.SolarCount,
		FacadeCount:      len(r.Facades),
		TotalAdjustments: r.TotalAdjustments(),
	}

	for _, fr := range r.Facades {
		pct := 0.0
		if len(fr.Series) > 0 {
			pct = 100 * float64(fr.Adjustments) / float64(len(fr.Series))
		}
		s.Facades = append(s.Facades, FacadeSummary{
			Facade:      fr.Facade.Key(),
			Column:      fr.Column,
			Adjustments: fr.Adjustments,
			Percentage:  pct,
			NoData:      fr.NoData(),
		})

		for _, adj := range fr.Samples {
			if len(s.Samples) >= maxSamples {
				break
			}
			s.Samples = append(s.Samples, adj)
		}
	}

	return s
}
