package weather

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"github.com/mfaller/shadetemp/internal/engine"
)

// temperatureField is the zero-based index of the temperature column in a
// TRY data line.
const temperatureField = 5

// WriteAdjusted writes one output file for a facade: the original header
// verbatim, then every data line verbatim except that records whose
// temperature changed get the temperature field rewritten in place. The
// adjusted series must have the same length and ordering as the original,
// which the engine guarantees.
func WriteAdjusted(path string, original *File, series []engine.WeatherRecord) error {
	if len(series) != len(original.Records) {
		return fmt.Errorf("adjusted series has %d records, original has %d",
			len(series), len(original.Records))
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	for _, line := range original.Header {
		if _, err := w.WriteString(line); err != nil {
			return err
		}
	}

	for i, rec := range series {
		line := rec.Raw
		if rec.Temperature != original.Records[i].Temperature {
			line = replaceTemperature(line, rec.Temperature)
		}
		if _, err := w.WriteString(line); err != nil {
			return err
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}

// replaceTemperature rewrites the temperature field of a data line,
// right-aligned in the field's original width. If the new value needs more
// characters than the original field had, the field widens rather than
// losing precision.
func replaceTemperature(line string, temp float64) string {
	start, end, ok := fieldSpan(line, temperatureField)
	if !ok {
		return line
	}

	formatted := strconv.FormatFloat(temp, 'f', 1, 64)
	width := end - start
	for len(formatted) < width {
		formatted = " " + formatted
	}
	return line[:start] + formatted + line[end:]
}

// fieldSpan locates the byte span of the n-th whitespace-separated field.
func fieldSpan(line string, n int) (start, end int, ok bool) {
	field := -1
	inField := false
	for i := 0; i < len(line); i++ {
		isSpace := line[i] == ' ' || line[i] == '\t' || line[i] == '\r' || line[i] == '\n'
		switch {
		case !inField && !isSpace:
			inField = true
			field++
			if field == n {
				start = i
			}
		case inField && isSpace:
			inField = false
			if field == n {
				return start, i, true
			}
		}
	}
	if inField && field == n {
		return start, len(line), true
	}
	return 0, 0, false
}
