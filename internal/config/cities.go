package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type citiesFile struct {
	Cities []string `yaml:"cities"`
}

// LoadCitiesFile reads a YAML document of the form
//
//	cities:
//	  - Delhi
//	  - Mumbai
//
// Entries are trimmed and blanks dropped; order and duplicates are kept.
func LoadCitiesFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cities file: %w", err)
	}

	var f citiesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse cities file %s: %w", path, err)
	}

	cities := make([]string, 0, len(f.Cities))
	for _, c := range f.Cities {
		if c = strings.TrimSpace(c); c != "" {
			cities = append(cities, c)
		}
	}
	if len(cities) == 0 {
		return nil, fmt.Errorf("cities file %s lists no cities", path)
	}
	return cities, nil
}
