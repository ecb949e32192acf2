package domain

import "strings"

// ParseCityList splits a comma-separated city list, trimming whitespace and
// dropping blank entries. Duplicates and order are preserved.
func ParseCityList(s string) []string {
	parts := strings.Split(s, ",")
	cities := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		cities = append(cities, p)
	}
	return cities
}
