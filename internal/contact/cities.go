package contact

import (
	"sort"
	"strings"
)

// serviceAreaCities lists the Dallas-Fort Worth communities we build in.
var serviceAreaCities = []string{
	"Addison",
	"Aledo",
	"Allen",
	"Argyle",
	"Arlington",
	"Bedford",
	"Carrollton",
	"Celina",
	"Colleyville",
	"Coppell",
	"Dallas",
	"Denton",
	"Euless",
	"Fairview",
	"Flower Mound",
	"Fort Worth",
	"Frisco",
	"Garland",
	"Grapevine",
	"Heath",
	"Highland Park",
	"Hurst",
	"Irving",
	"Keller",
	"Lewisville",
	"Lucas",
	"Mansfield",
	"McKinney",
	"Murphy",
	"North Richland Hills",
	"Parker",
	"Plano",
	"Prosper",
	"Richardson",
	"Roanoke",
	"Rockwall",
	"Southlake",
	"Sunnyvale",
	"The Colony",
	"Trophy Club",
	"University Park",
	"Westlake",
	"Wylie",
}

var citiesByKey = func() map[string]string {
	m := make(map[string]string, len(serviceAreaCities))
	for _, city := range serviceAreaCities {
		m[strings.ToLower(city)] = city
	}
	return m
}()

// CanonicalCity reports whether city is in the service area, matching
// case-insensitively, and returns its canonical spelling.
func CanonicalCity(city string) (string, bool) {
	canonical, ok := citiesByKey[strings.ToLower(strings.TrimSpace(city))]
	return canonical, ok
}

// ServiceAreaCities returns the accepted cities in alphabetical order.
func ServiceAreaCities() []string {
	out := append([]string(nil), serviceAreaCities...)
	sort.Strings(out)
	return out
}
