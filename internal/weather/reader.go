// Package weather reads and writes TRY (Test Reference Year) weather
// files: fixed-width annual series of hourly records, latin-1 encoded,
// with a free-text header terminated by a "***" line. Lines are kept
// verbatim so output files reproduce the input byte for byte except for
// the adjusted temperature field.
package weather

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/mfaller/shadetemp/internal/engine"
)

// fieldsPerLine is the column count of a TRY data line:
// RW HW MM DD HH t p WR WG N x RF B D A E IL
const fieldsPerLine = 17

var firstNumber = regexp.MustCompile(`\d+`)

// Metadata is the descriptive header block of a TRY file.
type Metadata struct {
	CoordinateSystem string
	Rechtswert       int
	Hochwert         int
	Elevation        int
	TRYType          string
	ReferencePeriod  string
	DataBasis1       string
	DataBasis2       string
	DataBasis3       string
	CreationDate     string
}

// File is a parsed TRY file. Header holds every header line verbatim
// (including the terminating "***" line and original line endings);
// Records carry the parsed hourly values plus their raw source line.
type File struct {
	Path    string
	Header  []string
	Meta    Metadata
	Records []engine.WeatherRecord
	Skipped int // data lines that could not be parsed
}

// ReadFile parses a TRY weather file from disk.
func ReadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening weather file: %w", err)
	}
	defer fh.Close()

	f, err := Parse(fh)
	if err != nil {
		return nil, fmt.Errorf("parsing weather file %s: %w", path, err)
	}
	f.Path = path
	return f, nil
}

// Parse reads a TRY file from r. The header runs up to and including the
// first line starting with "***"; everything after it that looks like a
// data line (17 whitespace-separated fields, leading digit) becomes a
// record. Other lines are counted as skipped, not treated as errors.
func Parse(r io.Reader) (*File, error) {
	f := &File{}
	br := bufio.NewReader(r)

	inHeader := true
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			if inHeader {
				f.Header = append(f.Header, line)
				parseMetadataLine(&f.Meta, line)
				if strings.HasPrefix(strings.TrimSpace(line), "***") {
					inHeader = false
				}
			} else {
				f.parseDataLine(line)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	if inHeader {
		return nil, errors.New("no \"***\" header terminator found")
	}
	if len(f.Records) == 0 {
		return nil, errors.New("no data records found")
	}
	return f, nil
}

func parseMetadataLine(m *Metadata, line string) {
	trimmed := strings.TrimSpace(line)
	key, value, ok := strings.Cut(trimmed, ":")
	if !ok {
		return
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)

	switch {
	case strings.Contains(key, "Koordinatensystem"):
		m.CoordinateSystem = value
	case strings.Contains(key, "Rechtswert"):
		m.Rechtswert = leadingInt(value)
	case strings.Contains(key, "Hochwert"):
		m.Hochwert = leadingInt(value)
	case strings.Contains(key, "Hoehenlage"):
		m.Elevation = leadingInt(value)
	case strings.Contains(key, "Art des TRY"):
		m.TRYType = value
	case strings.Contains(key, "Bezugszeitraum"):
		m.ReferencePeriod = value
	case strings.Contains(key, "Datenbasis 1"):
		m.DataBasis1 = value
	case strings.Contains(key, "Datenbasis 2"):
		m.DataBasis2 = value
	case strings.Contains(key, "Datenbasis 3"):
		m.DataBasis3 = value
	case strings.Contains(key, "Erstellung"):
		m.CreationDate = value
	}
}

func leadingInt(s string) int {
	match := firstNumber.FindString(s)
	if match == "" {
		return 0
	}
	n, _ := strconv.Atoi(match)
	return n
}

func (f *File) parseDataLine(line string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "*") {
		return
	}
	if trimmed[0] < '0' || trimmed[0] > '9' {
		return
	}

	fields := strings.Fields(trimmed)
	if len(fields) < fieldsPerLine {
		f.Skipped++
		return
	}

	month, err1 := strconv.Atoi(fields[2])
	day, err2 := strconv.Atoi(fields[3])
	hour, err3 := strconv.Atoi(fields[4])
	temp, err4 := strconv.ParseFloat(fields[5], 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		f.Skipped++
		return
	}
	if month < 1 || month > 12 || day < 1 || day > 31 || hour < 1 || hour > 24 {
		f.Skipped++
		return
	}

	f.Records = append(f.Records, engine.WeatherRecord{
		Month:       month,
		Day:         day,
		Hour:        hour,
		Temperature: temp,
		Raw:         line,
	})
}

// Source adapts a file path to the engine's WeatherSource. The parsed file
// stays accessible after Load for the output writer.
type Source struct {
	path string
	file *File
}

// NewSource creates a lazy weather source for path.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Load reads and parses the file, retaining it for File().
func (s *Source) Load() ([]engine.WeatherRecord, error) {
	f, err := ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	s.file = f
	return f.Records, nil
}

// File returns the parsed file, or nil before Load succeeds.
func (s *Source) File() *File {
	return s.file
}
