package engine

// Index maps calendar instants to the irradiance value of one facade
// column. Each facade pass builds its own index from the shared read-only
// irradiance series.
type Index map[Instant]float64

// BuildIndex creates the lookup for one facade column. Records without a
// value for the column are skipped. Duplicate instants overwrite earlier
// entries (last write wins); the number of overwrites is returned so the
// caller can surface it as a data-quality observation.
func BuildIndex(records []IrradianceRecord, column string) (Index, int) {
	idx := make(Index, len(records))
	duplicates := 0
	for _, rec := range records {
		value, ok := rec.Values[column]
		if !ok {
			continue
		}
		key := rec.Instant()
		if _, exists := idx[key]; exists {
			duplicates++
		}
		idx[key] = value
	}
	return idx, duplicates
}

// EnsureLeadingMidnight compensates for exports that omit the first hour of
// the year: if the series starts at local hour 1, a synthetic hour-0 record
// duplicating the hour-1 facade values is prepended. Applied once to the
// full series, before any per-facade index is built. A series that already
// starts at hour 0 (or is empty) is returned unchanged.
func EnsureLeadingMidnight(records []IrradianceRecord) []IrradianceRecord {
	if len(records) == 0 || records[0].Hour != 1 {
		return records
	}

	first := records[0]
	values := make(map[string]float64, len(first.Values))
	for label, v := range first.Values {
		values[label] = v
	}
	midnight := IrradianceRecord{
		Year:   first.Year,
		Month:  first.Month,
		Day:    first.Day,
		Hour:   0,
		Minute: 0,
		Values: values,
	}

	out := make([]IrradianceRecord, 0, len(records)+1)
	out = append(out, midnight)
	return append(out, records...)
}
