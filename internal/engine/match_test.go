package engine

import "testing"

func TestToInstant(t *testing.T) {
	ctx := Context{Year: 2045}

	tests := []struct {
		name string
		rec  WeatherRecord
		want Instant
	}{
		{
			name: "winter hour shifts to 0-23",
			rec:  WeatherRecord{Month: 1, Day: 15, Hour: 14},
			want: Instant{2045, 1, 15, 13},
		},
		{
			name: "summer hour kept unchanged",
			rec:  WeatherRecord{Month: 6, Day: 15, Hour: 14},
			want: Instant{2045, 6, 15, 14},
		},
		{
			name: "winter hour 1 becomes hour 0",
			rec:  WeatherRecord{Month: 1, Day: 1, Hour: 1},
			want: Instant{2045, 1, 1, 0},
		},
		{
			name: "winter hour 24 stays on the same day",
			rec:  WeatherRecord{Month: 12, Day: 31, Hour: 24},
			want: Instant{2045, 12, 31, 23},
		},
		{
			name: "summer hour 24 clamped to hour 23 of the same day",
			rec:  WeatherRecord{Month: 6, Day: 15, Hour: 24},
			want: Instant{2045, 6, 15, 23},
		},
		{
			name: "march cutoff day uses daylight alignment",
			rec:  WeatherRecord{Month: 3, Day: 31, Hour: 10},
			want: Instant{2045, 3, 31, 10},
		},
		{
			name: "late october back on standard alignment",
			rec:  WeatherRecord{Month: 10, Day: 27, Hour: 10},
			want: Instant{2045, 10, 27, 9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToInstant(tt.rec, ctx); got != tt.want {
				t.Errorf("ToInstant(%v) = %v, want %v", tt.rec, got, tt.want)
			}
		})
	}
}

func TestMatchExactTier(t *testing.T) {
	ctx := Context{Year: 2045}
	idx := Index{
		Instant{2045, 6, 15, 14}: 450.0,
	}

	// Summer weather hour 14 must probe irradiance local hour 14.
	v, ok := Match(idx, WeatherRecord{Month: 6, Day: 15, Hour: 14}, ctx)
	if !ok || v != 450.0 {
		t.Errorf("Match = (%v, %v), want (450, true)", v, ok)
	}
}

func TestMatchWinterOffset(t *testing.T) {
	ctx := Context{Year: 2045}
	idx := Index{
		Instant{2045, 1, 15, 13}: 210.0,
		Instant{2045, 1, 15, 14}: 300.0,
	}

	// Winter weather hour 14 must probe irradiance local hour 13, not 14.
	v, ok := Match(idx, WeatherRecord{Month: 1, Day: 15, Hour: 14}, ctx)
	if !ok || v != 210.0 {
		t.Errorf("Match = (%v, %v), want (210, true)", v, ok)
	}
}

func TestMatchSummerLastHour(t *testing.T) {
	ctx := Context{Year: 2045}
	idx := Index{
		Instant{2045, 6, 15, 23}: 35.0,
		Instant{2045, 6, 16, 0}:  0.0,
	}

	// Summer weather hour 24 probes the same day's last local hour, not
	// the next day's midnight.
	v, ok := Match(idx, WeatherRecord{Month: 6, Day: 15, Hour: 24}, ctx)
	if !ok || v != 35.0 {
		t.Errorf("Match = (%v, %v), want (35, true)", v, ok)
	}
}

func TestMatchYearMismatchFallsBackToDate(t *testing.T) {
	// Index built against a different year than the run context.
	ctx := Context{Year: 2045}
	idx := Index{
		Instant{2024, 6, 15, 14}: 333.0,
	}

	v, ok := Match(idx, WeatherRecord{Month: 6, Day: 15, Hour: 14}, ctx)
	if !ok || v != 333.0 {
		t.Errorf("Match = (%v, %v), want (333, true) via date tier", v, ok)
	}
}

func TestMatchToleranceTier(t *testing.T) {
	idx := Index{
		Instant{2045, 6, 15, 14}: 275.0,
	}

	// Hour-level instants an hour apart are outside the 30-minute
	// tolerance, so only the identical hour can satisfy tier 3. Exercise
	// the tier directly with a half-hour-shifted want instant.
	want := Instant{2044, 6, 15, 14}
	v, ok := matchWithinTolerance(idx, want)
	if !ok || v != 275.0 {
		t.Errorf("matchWithinTolerance = (%v, %v), want (275, true)", v, ok)
	}

	if _, ok := matchWithinTolerance(idx, Instant{2044, 6, 15, 16}); ok {
		t.Errorf("instant two hours away must not match within tolerance")
	}
}

func TestMatchSameDateDeterministicAcrossYears(t *testing.T) {
	idx := Index{
		Instant{2031, 6, 15, 14}: 310.0,
		Instant{2024, 6, 15, 14}: 240.0,
		Instant{2027, 6, 15, 14}: 270.0,
	}

	// Several stored years carry the same date and hour; the smallest
	// year must win on every call regardless of map iteration order.
	for i := 0; i < 10; i++ {
		v, ok := matchSameDate(idx, Instant{2045, 6, 15, 14})
		if !ok || v != 240.0 {
			t.Fatalf("matchSameDate = (%v, %v), want (240, true)", v, ok)
		}
	}
}

func TestMatchToleranceDeterministicOnTies(t *testing.T) {
	// Both entries sit at zero distance once the weather instant is
	// normalized to their year; the smaller year breaks the tie.
	idx := Index{
		Instant{2030, 6, 15, 14}: 300.0,
		Instant{2020, 6, 15, 14}: 200.0,
	}

	for i := 0; i < 10; i++ {
		v, ok := matchWithinTolerance(idx, Instant{2045, 6, 15, 14})
		if !ok || v != 200.0 {
			t.Fatalf("matchWithinTolerance = (%v, %v), want (200, true)", v, ok)
		}
	}
}

func TestMatchNotFound(t *testing.T) {
	ctx := Context{Year: 2045}
	idx := Index{
		Instant{2045, 6, 15, 10}: 100.0,
	}

	// Winter record probing hour 13: no exact entry, no same-date entry,
	// nothing within 30 minutes. Not-found, not an error.
	if _, ok := Match(idx, WeatherRecord{Month: 1, Day: 15, Hour: 14}, ctx); ok {
		t.Errorf("expected no match for unmatched winter hour")
	}
}

func TestMatchOnEmptyIndex(t *testing.T) {
	ctx := Context{Year: 2045}
	if _, ok := Match(Index{}, WeatherRecord{Month: 6, Day: 15, Hour: 12}, ctx); ok {
		t.Errorf("empty index must never match")
	}
}
