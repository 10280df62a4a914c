package solar

import (
	"gonum.org/v1/gonum/floats"

	"github.com/mfaller/shadetemp/internal/engine"
)

// PeakByFacade returns the maximum observed irradiance per facade column.
// Columns with no values map to 0.
func PeakByFacade(records []engine.IrradianceRecord, labels []string) map[string]float64 {
	series := make(map[string][]float64, len(labels))
	for _, rec := range records {
		for _, label := range labels {
			if v, ok := rec.Values[label]; ok {
				series[label] = append(series[label], v)
			}
		}
	}

	peaks := make(map[string]float64, len(labels))
	for _, label := range labels {
		if vs := series[label]; len(vs) > 0 {
			peaks[label] = floats.Max(vs)
		} else {
			peaks[label] = 0
		}
	}
	return peaks
}
