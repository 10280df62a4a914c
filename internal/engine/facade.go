package engine

import (
	"regexp"
	"sort"
	"strings"
)

var (
	orientationPattern  = regexp.MustCompile(`f\d+`)
	buildingBodyPattern = regexp.MustCompile(`Building body(?:\s+\d+)?`)
)

// ExtractFacades resolves irradiance column labels into the distinct set of
// facades to process. A label that yields no orientation or no building
// body is skipped: exports routinely carry non-facade columns and those are
// not an error. The result is sorted so runs are reproducible regardless of
// column order in the source.
func ExtractFacades(labels []string) []Facade {
	seen := make(map[Facade]struct{})
	for _, label := range labels {
		orientation := orientationPattern.FindString(label)
		if orientation == "" {
			continue
		}
		body := buildingBodyPattern.FindString(label)
		if body == "" {
			continue
		}
		seen[Facade{Orientation: orientation, BuildingBody: body}] = struct{}{}
	}

	facades := make([]Facade, 0, len(seen))
	for f := range seen {
		facades = append(facades, f)
	}
	sort.Slice(facades, func(i, j int) bool {
		if facades[i].Orientation != facades[j].Orientation {
			return facades[i].Orientation < facades[j].Orientation
		}
		return facades[i].BuildingBody < facades[j].BuildingBody
	})
	return facades
}

// FindFacadeColumn returns the first column label containing both the
// facade's orientation token and its building-body token. A false return
// means no irradiance data exists for the facade; the caller skips the
// facade rather than failing the run.
func FindFacadeColumn(labels []string, f Facade) (string, bool) {
	for _, label := range labels {
		if strings.Contains(label, f.Orientation) && strings.Contains(label, f.BuildingBody) {
			return label, true
		}
	}
	return "", false
}
