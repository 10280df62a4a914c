// Package solar reads hourly facade irradiance series from IDA Modeler
// HTML exports. An export carries a small metadata table, one header cell
// per facade column ("Gesamte solare Einstrahlung, <facade>, W/m2") and a
// data table with one local-time timestamp column (0-23 hour encoding,
// alternating MEZ/MESZ across the year) plus one value column per facade.
package solar

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/mfaller/shadetemp/internal/engine"
)

var (
	timestampPattern = regexp.MustCompile(`(\d{1,2})\.(\d{1,2})\.(\d{4})\s+(\d{1,2}):(\d{2})`)
	facadePattern    = regexp.MustCompile(`Gesamte solare Einstrahlung,\s*(f[\da-zA-Z]+(?:\$[^\s,]+(?: [^\s,]+)?)?),\s*W/m2`)
)

// Export is a parsed irradiance export.
type Export struct {
	Path        string
	Title       string
	SystemPath  string
	SimulatedAt string
	SavedAt     string
	Labels      []string // facade column labels in source order
	Records     []engine.IrradianceRecord
}

// ReadFile parses an export from disk.
func ReadFile(path string) (*Export, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening solar file: %w", err)
	}
	defer fh.Close()

	e, err := Parse(fh)
	if err != nil {
		return nil, fmt.Errorf("parsing solar file %s: %w", path, err)
	}
	e.Path = path
	return e, nil
}

// Parse reads an export from r. Rows whose first cell is not a timestamp
// are treated as header or decoration; unparseable value cells degrade to
// 0.0 instead of failing the file.
func Parse(r io.Reader) (*Export, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	e := &Export{}
	walk(doc, e)

	if len(e.Labels) == 0 {
		return nil, errors.New("no facade columns found")
	}
	if len(e.Records) == 0 {
		return nil, errors.New("no data rows found")
	}
	return e, nil
}

func walk(n *html.Node, e *Export) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "title":
			e.Title = nodeText(n)
			return
		case "table":
			if attr(n, "border") == "0" {
				parseMetadataTable(n, e)
				return
			}
			if attr(n, "class") == "rep" {
				parseDataTable(n, e)
				return
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, e)
	}
}

// parseMetadataTable reads the borderless key/value header table.
func parseMetadataTable(table *html.Node, e *Export) {
	for _, row := range rows(table) {
		cells := cellTexts(row)
		if len(cells) < 2 {
			continue
		}
		key, value := cells[0], cells[1]
		switch {
		case strings.Contains(key, "System"):
			e.SystemPath = value
		case strings.Contains(key, "Simuliert"):
			e.SimulatedAt = value
		case strings.Contains(key, "Gespeichert"):
			e.SavedAt = value
		}
	}
}

// parseDataTable reads facade column headers and hourly data rows from the
// report table.
func parseDataTable(table *html.Node, e *Export) {
	for _, row := range rows(table) {
		cells := cellTexts(row)
		if len(cells) == 0 {
			continue
		}

		if !timestampPattern.MatchString(cells[0]) {
			for _, cell := range cells {
				if label, ok := facadeLabel(cell); ok {
					e.Labels = append(e.Labels, label)
				}
			}
			continue
		}

		rec, ok := parseDataRow(cells, e.Labels)
		if ok {
			e.Records = append(e.Records, rec)
		}
	}
}

// facadeLabel extracts the facade identifier from a column header cell.
// "$" separates orientation from building body in the export and is
// normalized to a space.
func facadeLabel(cell string) (string, bool) {
	m := facadePattern.FindStringSubmatch(cell)
	if m == nil {
		return "", false
	}
	return strings.ReplaceAll(m[1], "$", " "), true
}

func parseDataRow(cells []string, labels []string) (engine.IrradianceRecord, bool) {
	m := timestampPattern.FindStringSubmatch(cells[0])
	if m == nil {
		return engine.IrradianceRecord{}, false
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])
	if month < 1 || month > 12 || day < 1 || day > 31 || hour < 0 || hour > 23 {
		return engine.IrradianceRecord{}, false
	}

	values := make(map[string]float64, len(labels))
	for i, label := range labels {
		if i+1 >= len(cells) {
			break
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(cells[i+1]), 64)
		if err != nil || v < 0 {
			v = 0
		}
		values[label] = v
	}
	if len(values) == 0 {
		return engine.IrradianceRecord{}, false
	}

	return engine.IrradianceRecord{
		Year:   year,
		Month:  month,
		Day:    day,
		Hour:   hour,
		Minute: minute,
		Values: values,
	}, true
}

// attr returns the value of the named attribute, or "".
func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// rows returns every tr element under a table node.
func rows(table *html.Node) []*html.Node {
	var out []*html.Node
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			out = append(out, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(table)
	return out
}

// cellTexts returns the trimmed text of each td/th cell in a row.
func cellTexts(row *html.Node) []string {
	var out []string
	for c := row.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			out = append(out, nodeText(c))
		}
	}
	return out
}

// nodeText concatenates and trims all text under a node.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return strings.TrimSpace(b.String())
}

// Source adapts an export path to the engine's SolarSource. The parsed
// export stays accessible after Load.
type Source struct {
	path   string
	export *Export
}

// NewSource creates a lazy solar source for path.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Load reads and parses the export, retaining it for Export().
func (s *Source) Load() ([]engine.IrradianceRecord, []string, error) {
	e, err := ReadFile(s.path)
	if err != nil {
		return nil, nil, err
	}
	s.export = e
	return e.Records, e.Labels, nil
}

// Export returns the parsed export, or nil before Load succeeds.
func (s *Source) Export() *Export {
	return s.export
}
