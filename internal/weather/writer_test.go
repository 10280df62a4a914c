package weather

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteAdjusted(t *testing.T) {
	f, err := Parse(strings.NewReader(tryFixture))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	adjusted := append(f.Records[:0:0], f.Records...)
	adjusted[1].Temperature += 7 // -2.7 becomes 4.3

	path := filepath.Join(t.TempDir(), "out.dat")
	if err := WriteAdjusted(path, f, adjusted); err != nil {
		t.Fatalf("WriteAdjusted: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// The output is the header plus the parsed records verbatim; the
	// truncated source line never became a record, and the adjusted line
	// carries the new temperature right-aligned in the old field width.
	want := strings.Join(f.Header, "") +
		f.Records[0].Raw +
		strings.Replace(f.Records[1].Raw, "-2.7", " 4.3", 1) +
		f.Records[2].Raw
	if string(got) != want {
		t.Errorf("output not byte-preserving:\n got %q\nwant %q", got, want)
	}
}

func TestWriteAdjustedUnchangedSeriesRoundTrips(t *testing.T) {
	f, err := Parse(strings.NewReader(tryFixture))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out.dat")
	if err := WriteAdjusted(path, f, f.Records); err != nil {
		t.Fatalf("WriteAdjusted: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var want strings.Builder
	for _, line := range f.Header {
		want.WriteString(line)
	}
	for _, rec := range f.Records {
		want.WriteString(rec.Raw)
	}
	if string(got) != want.String() {
		t.Errorf("unchanged series did not round-trip byte for byte")
	}
}

func TestWriteAdjustedLengthMismatch(t *testing.T) {
	f, err := Parse(strings.NewReader(tryFixture))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out.dat")
	if err := WriteAdjusted(path, f, f.Records[:1]); err == nil {
		t.Errorf("length mismatch must be rejected")
	}
}

func TestReplaceTemperature(t *testing.T) {
	line := "3488284 5093163  1  1  1  -2.4 1013 270\r\n"

	tests := []struct {
		name string
		temp float64
		want string
	}{
		{
			name: "right-aligned in original width",
			temp: 4.6,
			want: "3488284 5093163  1  1  1   4.6 1013 270\r\n",
		},
		{
			name: "same width negative",
			temp: -9.1,
			want: "3488284 5093163  1  1  1  -9.1 1013 270\r\n",
		},
		{
			name: "widens rather than truncates",
			temp: -12.4,
			want: "3488284 5093163  1  1  1  -12.4 1013 270\r\n",
		},
		{
			name: "trailing zero kept for whole degrees",
			temp: 5,
			want: "3488284 5093163  1  1  1   5.0 1013 270\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := replaceTemperature(line, tt.temp); got != tt.want {
				t.Errorf("replaceTemperature = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFieldSpan(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		n          int
		start, end int
		ok         bool
	}{
		{name: "middle field", line: "a bb  ccc d", n: 2, start: 6, end: 9, ok: true},
		{name: "first field", line: "  a bb", n: 0, start: 2, end: 3, ok: true},
		{name: "field at end of line", line: "a bb", n: 1, start: 2, end: 4, ok: true},
		{name: "field before newline", line: "a bb\n", n: 1, start: 2, end: 4, ok: true},
		{name: "out of range", line: "a bb", n: 5, ok: false},
		{name: "empty line", line: "", n: 0, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := fieldSpan(tt.line, tt.n)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && (start != tt.start || end != tt.end) {
				t.Errorf("span = [%d, %d), want [%d, %d)", start, end, tt.start, tt.end)
			}
		})
	}
}
