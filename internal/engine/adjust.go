package engine

// maxFacadeSamples caps the example adjustments recorded per facade for
// preview output.
const maxFacadeSamples = 20

// AdjustFacade runs one threshold-gated pass over the weather series for a
// single facade. The pass works on a private copy of the series so facades
// never share mutable state. If no irradiance column matches the facade,
// the result carries an unmodified copy and zero adjustments; a missing
// facade never aborts the run.
func AdjustFacade(ctx Context, weather []WeatherRecord, solar []IrradianceRecord, labels []string, f Facade, p Params) *FacadeResult {
	series := make([]WeatherRecord, len(weather))
	copy(series, weather)

	res := &FacadeResult{Facade: f, Series: series}

	column, ok := FindFacadeColumn(labels, f)
	if !ok {
		return res
	}
	res.Column = column

	idx, duplicates := BuildIndex(solar, column)
	res.DuplicateInstants = duplicates

	for i := range series {
		value, ok := Match(idx, series[i], ctx)
		if !ok || value <= p.Threshold {
			continue
		}

		original := series[i].Temperature
		series[i].Temperature += p.DeltaT
		res.Adjustments++

		if len(res.Samples) < maxFacadeSamples {
			res.Samples = append(res.Samples, Adjustment{
				Month:        series[i].Month,
				Day:          series[i].Day,
				Hour:         series[i].Hour,
				Facade:       f.Key(),
				OriginalTemp: original,
				AdjustedTemp: series[i].Temperature,
				Irradiance:   value,
			})
		}
	}

	return res
}
