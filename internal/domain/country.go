package domain

import "strings"

// Country is a place expressions can be associated with, plus the
// coordinates used to place its marker on the world map
type Country struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Catalog is the fixed set of countries submissions are associated with
type Catalog []Country

// DefaultCatalog returns the built-in country set
func DefaultCatalog() Catalog {
	return Catalog{
		{Name: "USA", Lat: 39.8, Lon: -98.6},
		{Name: "UK", Lat: 54.0, Lon: -2.0},
		{Name: "France", Lat: 46.6, Lon: 2.2},
		{Name: "Spain", Lat: 40.4, Lon: -3.7},
		{Name: "Germany", Lat: 51.2, Lon: 10.4},
		{Name: "India", Lat: 22.0, Lon: 79.0},
		{Name: "Korea", Lat: 36.5, Lon: 127.9},
		{Name: "Poland", Lat: 52.1, Lon: 19.4},
		{Name: "Mexico", Lat: 23.6, Lon: -102.5},
		{Name: "Japan", Lat: 36.2, Lon: 138.3},
	}
}

// Names returns the country names in catalog order
func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, country := range c {
		names[i] = country.Name
	}
	return names
}

// Find returns a country by name, case-insensitively
func (c Catalog) Find(name string) (Country, bool) {
	for _, country := range c {
		if strings.EqualFold(country.Name, name) {
			return country, true
		}
	}
	return Country{}, false
}

// homeCountries maps target languages to the country most associated with them
var homeCountries = map[string]string{
	"english":  "USA",
	"spanish":  "Spain",
	"french":   "France",
	"german":   "Germany",
	"hindi":    "India",
	"korean":   "Korea",
	"polish":   "Poland",
	"japanese": "Japan",
}

// HomeCountry returns the country a target language is spoken in, if known
func HomeCountry(target string) (string, bool) {
	name, ok := homeCountries[strings.ToLower(strings.TrimSpace(target))]
	return name, ok
}
