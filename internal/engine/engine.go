package engine

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var (
	ErrNoSolarData  = errors.New("irradiance series is empty, no reference year derivable")
	ErrInvalidInput = errors.New("invalid run parameters")
)

// hoursPerYear is the expected record count of a well-formed annual weather
// file (leap years are out of scope).
const hoursPerYear = 8760

// WeatherSource yields the ordered annual weather series.
type WeatherSource interface {
	Load() ([]WeatherRecord, error)
}

// SolarSource yields the ordered irradiance series and the raw facade
// column labels in source order.
type SolarSource interface {
	Load() (records []IrradianceRecord, labels []string, err error)
}

// Engine orchestrates one processing run: load both series, enumerate
// facades, run the adjustment pass per facade, aggregate the results. It
// never writes files itself; output collaborators consume the RunResult.
type Engine struct {
	weather WeatherSource
	solar   SolarSource
	log     *zap.SugaredLogger
}

// New creates an engine over the two series sources. A nil logger falls
// back to a no-op logger.
func New(weather WeatherSource, solar SolarSource, log *zap.SugaredLogger) *Engine {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Engine{weather: weather, solar: solar, log: log}
}

// Run executes the full adjustment run. The irradiance series is loaded
// first: its leading record fixes the reference year the weather series is
// interpreted against. Source errors and an empty irradiance series are
// fatal; everything else degrades to "no adjustment" at facade or record
// scope.
func (e *Engine) Run(p Params) (*RunResult, error) {
	if p.Threshold < 0 || p.DeltaT < 0 {
		return nil, fmt.Errorf("%w: threshold and delta_t must be non-negative", ErrInvalidInput)
	}

	solar, labels, err := e.solar.Load()
	if err != nil {
		return nil, fmt.Errorf("loading irradiance series: %w", err)
	}
	if len(solar) == 0 {
		return nil, ErrNoSolarData
	}
	solar = EnsureLeadingMidnight(solar)

	ctx := Context{Year: solar[0].Year}
	e.log.Infow("loaded irradiance series",
		"records", len(solar), "columns", len(labels), "year", ctx.Year)

	weather, err := e.weather.Load()
	if err != nil {
		return nil, fmt.Errorf("loading weather series: %w", err)
	}
	if len(weather) != hoursPerYear {
		e.log.Warnw("weather series has unexpected record count",
			"records", len(weather), "expected", hoursPerYear)
	}

	facades := ExtractFacades(labels)
	e.log.Infow("resolved facades", "count", len(facades))

	result := &RunResult{
		Params:       p,
		Year:         ctx.Year,
		WeatherCount: len(weather),
		SolarCount:   len(solar),
	}

	for _, f := range facades {
		fr := AdjustFacade(ctx, weather, solar, labels, f, p)
		if fr.NoData() {
			e.log.Warnw("no irradiance column for facade, skipping adjustments",
				"facade", f.Key())
		} else {
			e.log.Infow("processed facade",
				"facade", f.Key(),
				"column", fr.Column,
				"adjustments", fr.Adjustments)
			if fr.DuplicateInstants > 0 {
				e.log.Debugw("duplicate instants in irradiance index, last value wins",
					"facade", f.Key(), "duplicates", fr.DuplicateInstants)
			}
		}
		result.Facades = append(result.Facades, fr)
	}

	e.log.Infow("run complete",
		"facades", len(result.Facades),
		"total_adjustments", result.TotalAdjustments())
	return result, nil
}
