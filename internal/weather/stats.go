package weather

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/mfaller/shadetemp/internal/engine"
)

// Stats summarizes the temperature column of an annual series.
type Stats struct {
	Records  int     `json:"records"`
	MinTemp  float64 `json:"min_temp"`
	MaxTemp  float64 `json:"max_temp"`
	MeanTemp float64 `json:"mean_temp"`
	StdDev   float64 `json:"std_dev_temp"`
}

// Summarize computes temperature statistics over the series.
func Summarize(records []engine.WeatherRecord) Stats {
	if len(records) == 0 {
		return Stats{}
	}

	temps := make([]float64, len(records))
	for i, rec := range records {
		temps[i] = rec.Temperature
	}

	return Stats{
		Records:  len(records),
		MinTemp:  floats.Min(temps),
		MaxTemp:  floats.Max(temps),
		MeanTemp: stat.Mean(temps, nil),
		StdDev:   stat.StdDev(temps, nil),
	}
}
