package phone

import (
	"fmt"
	"sort"
	"strings"
)

// countryCodes maps each supported country to its international dialing prefix.
var countryCodes = map[string]string{
	"kenya":        "+254",
	"uganda":       "+256",
	"nigeria":      "+234",
	"dr congo":     "+243",
	"rwanda":       "+250",
	"ethiopia":     "+251",
	"south africa": "+27",
	"tanzania":     "+255",
	"ghana":        "+233",
	"malawi":       "+265",
	"zambia":       "+260",
	"zimbabwe":     "+263",
	"ivory coast":  "+225",
	"cameroon":     "+237",
	"senegal":      "+221",
	"mozambique":   "+258",
}

type UnsupportedCountryError struct {
	Country string
}

func (e *UnsupportedCountryError) Error() string {
	return fmt.Sprintf("invalid or unset country: %q. Supported countries: %s", e.Country, strings.Join(SupportedCountries(), ", "))
}

// SupportedCountries returns the supported country names in alphabetical order.
func SupportedCountries() []string {
	countries := make([]string, 0, len(countryCodes))
	for country := range countryCodes {
		countries = append(countries, country)
	}
	sort.Strings(countries)
	return countries
}

// Normalize converts a locally formatted phone number into international form
// using the dialing prefix of the given country. Numbers that already start
// with "+" pass through untouched. A single leading "0" is replaced by the
// prefix; any other leading character gets the prefix prepended as-is. No
// digit-count or length validation happens here.
func Normalize(raw, country string) (string, error) {
	number := strings.TrimSpace(raw)

	if strings.HasPrefix(number, "+") {
		return number, nil
	}

	prefix, ok := countryCodes[strings.ToLower(strings.TrimSpace(country))]
	if !ok {
		return "", &UnsupportedCountryError{Country: country}
	}

	if strings.HasPrefix(number, "0") {
		return prefix + number[1:], nil
	}
	return prefix + number, nil
}
