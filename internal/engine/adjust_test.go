package engine

import "testing"

func summerWeek(temp float64) []WeatherRecord {
	// One summer day, hours 1-24, constant temperature.
	var out []WeatherRecord
	for h := 1; h <= 24; h++ {
		out = append(out, WeatherRecord{Month: 6, Day: 15, Hour: h, Temperature: temp})
	}
	return out
}

func TestAdjustFacadeThresholdGate(t *testing.T) {
	const label = "f1 Building body"
	ctx := Context{Year: 2045}
	weather := summerWeek(20.0)

	// Daylight period: weather hour h matches irradiance local hour h.
	solar := []IrradianceRecord{
		rec(2045, 6, 15, 12, map[string]float64{label: 450}), // above threshold
		rec(2045, 6, 15, 13, map[string]float64{label: 200}), // exactly threshold, no adjustment
		rec(2045, 6, 15, 14, map[string]float64{label: 120}), // below threshold
	}

	p := Params{Threshold: 200, DeltaT: 7}
	res := AdjustFacade(ctx, weather, solar, []string{label}, Facade{"f1", "Building body"}, p)

	if res.Adjustments != 1 {
		t.Fatalf("adjustments = %d, want 1", res.Adjustments)
	}

	for _, wr := range res.Series {
		want := 20.0
		if wr.Hour == 12 {
			want = 27.0
		}
		if wr.Temperature != want {
			t.Errorf("hour %d temperature = %v, want %v", wr.Hour, wr.Temperature, want)
		}
	}

	if len(res.Samples) != 1 {
		t.Fatalf("samples = %d, want 1", len(res.Samples))
	}
	s := res.Samples[0]
	if s.OriginalTemp != 20.0 || s.AdjustedTemp != 27.0 || s.Irradiance != 450 {
		t.Errorf("sample = %+v, want original 20, adjusted 27, irradiance 450", s)
	}
}

func TestAdjustFacadeLeavesOriginalUntouched(t *testing.T) {
	const label = "f1 Building body"
	ctx := Context{Year: 2045}
	weather := summerWeek(15.0)
	solar := []IrradianceRecord{
		rec(2045, 6, 15, 12, map[string]float64{label: 999}),
	}

	AdjustFacade(ctx, weather, solar, []string{label}, Facade{"f1", "Building body"}, Params{Threshold: 100, DeltaT: 5})

	for _, wr := range weather {
		if wr.Temperature != 15.0 {
			t.Fatalf("input series mutated at hour %d: %v", wr.Hour, wr.Temperature)
		}
	}
}

func TestAdjustFacadeNoMatchingColumn(t *testing.T) {
	ctx := Context{Year: 2045}
	weather := summerWeek(10.0)
	solar := []IrradianceRecord{
		rec(2045, 6, 15, 12, map[string]float64{"f1 Building body": 800}),
	}

	res := AdjustFacade(ctx, weather, solar, []string{"f1 Building body"},
		Facade{"f7", "Building body 3"}, Params{Threshold: 100, DeltaT: 5})

	if !res.NoData() {
		t.Errorf("expected no-data result")
	}
	if res.Adjustments != 0 {
		t.Errorf("adjustments = %d, want 0", res.Adjustments)
	}
	if len(res.Series) != len(weather) {
		t.Fatalf("series length %d, want %d", len(res.Series), len(weather))
	}
	for i, wr := range res.Series {
		if wr.Temperature != weather[i].Temperature {
			t.Errorf("hour %d temperature changed on no-data facade", wr.Hour)
		}
	}
}

func TestAdjustFacadeMonotonicThreshold(t *testing.T) {
	const label = "f1 Building body"
	ctx := Context{Year: 2045}
	weather := summerWeek(20.0)

	var solar []IrradianceRecord
	irradiances := []float64{0, 50, 150, 250, 400, 600, 800, 1000}
	for i, v := range irradiances {
		solar = append(solar, rec(2045, 6, 15, 8+i, map[string]float64{label: v}))
	}

	f := Facade{"f1", "Building body"}
	counts := make([]int, 0, 4)
	for _, threshold := range []float64{0, 100, 500, 2000} {
		res := AdjustFacade(ctx, weather, solar, []string{label}, f, Params{Threshold: threshold, DeltaT: 1})
		counts = append(counts, res.Adjustments)
	}

	for i := 1; i < len(counts); i++ {
		if counts[i] > counts[i-1] {
			t.Errorf("adjustment count increased with threshold: %v", counts)
		}
	}

	// A threshold above every observed value yields zero adjustments.
	if counts[len(counts)-1] != 0 {
		t.Errorf("threshold above max irradiance yielded %d adjustments, want 0", counts[len(counts)-1])
	}
}

func TestAdjustFacadeDeltaAdditivity(t *testing.T) {
	const label = "f1 Building body"
	ctx := Context{Year: 2045}
	weather := []WeatherRecord{
		{Month: 6, Day: 15, Hour: 9, Temperature: -3.4},
		{Month: 6, Day: 15, Hour: 10, Temperature: 31.9},
	}
	solar := []IrradianceRecord{
		rec(2045, 6, 15, 9, map[string]float64{label: 500}),
		rec(2045, 6, 15, 10, map[string]float64{label: 500}),
	}

	res := AdjustFacade(ctx, weather, solar, []string{label},
		Facade{"f1", "Building body"}, Params{Threshold: 200, DeltaT: 7})

	for i := range res.Series {
		diff := res.Series[i].Temperature - weather[i].Temperature
		if diff != 7 {
			t.Errorf("record %d adjusted by %v, want exactly 7", i, diff)
		}
	}
}
