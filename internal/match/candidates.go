package match

import "strings"

// countryAliases maps a normalized country name to its ordered synonym
// set. Ordering encodes preference: the first entry is the profile's
// own spelling, followed by codes and common variants.
var countryAliases = map[string][]string{
	"united states":  {"United States", "US", "USA", "U.S.", "U.S.A.", "United States of America", "America"},
	"united kingdom": {"United Kingdom", "UK", "GB", "GBR", "Great Britain", "England"},
	"canada":         {"Canada", "CA", "CAN"},
	"germany":        {"Germany", "DE", "DEU", "Deutschland"},
	"france":         {"France", "FR", "FRA"},
	"india":          {"India", "IN", "IND"},
	"australia":      {"Australia", "AU", "AUS"},
	"netherlands":    {"Netherlands", "NL", "NLD", "Holland"},
	"japan":          {"Japan", "JP", "JPN"},
	"china":          {"China", "CN", "CHN"},
	"brazil":         {"Brazil", "BR", "BRA"},
	"mexico":         {"Mexico", "MX", "MEX"},
	"spain":          {"Spain", "ES", "ESP"},
	"italy":          {"Italy", "IT", "ITA"},
	"ireland":        {"Ireland", "IE", "IRL"},
	"switzerland":    {"Switzerland", "CH", "CHE"},
	"sweden":         {"Sweden", "SE", "SWE"},
	"singapore":      {"Singapore", "SG", "SGP"},
	"poland":         {"Poland", "PL", "POL"},
	"israel":         {"Israel", "IL", "ISR"},
}

// CountryCandidates returns the ordered synonym set for a country
// value. Unknown countries get their own spelling as the only
// candidate.
func CountryCandidates(country string) []string {
	country = strings.TrimSpace(country)
	if country == "" {
		return nil
	}
	key := strings.ToLower(country)
	if aliases, ok := countryAliases[key]; ok {
		return aliases
	}
	// Accept a code given in the profile by reverse lookup.
	for _, aliases := range countryAliases {
		for _, alias := range aliases {
			if strings.EqualFold(alias, country) {
				return aliases
			}
		}
	}
	return []string{country}
}

// usStates maps state names to postal codes.
var usStates = map[string]string{
	"alabama": "AL", "alaska": "AK", "arizona": "AZ", "arkansas": "AR",
	"california": "CA", "colorado": "CO", "connecticut": "CT", "delaware": "DE",
	"florida": "FL", "georgia": "GA", "hawaii": "HI", "idaho": "ID",
	"illinois": "IL", "indiana": "IN", "iowa": "IA", "kansas": "KS",
	"kentucky": "KY", "louisiana": "LA", "maine": "ME", "maryland": "MD",
	"massachusetts": "MA", "michigan": "MI", "minnesota": "MN", "mississippi": "MS",
	"missouri": "MO", "montana": "MT", "nebraska": "NE", "nevada": "NV",
	"new hampshire": "NH", "new jersey": "NJ", "new mexico": "NM", "new york": "NY",
	"north carolina": "NC", "north dakota": "ND", "ohio": "OH", "oklahoma": "OK",
	"oregon": "OR", "pennsylvania": "PA", "rhode island": "RI", "south carolina": "SC",
	"south dakota": "SD", "tennessee": "TN", "texas": "TX", "utah": "UT",
	"vermont": "VT", "virginia": "VA", "washington": "WA", "west virginia": "WV",
	"wisconsin": "WI", "wyoming": "WY", "district of columbia": "DC",
}

// StateCandidates returns the ordered synonym set for a state or
// region value: the value itself, then the paired name or code.
func StateCandidates(state string) []string {
	state = strings.TrimSpace(state)
	if state == "" {
		return nil
	}
	candidates := []string{state}
	key := strings.ToLower(state)
	if code, ok := usStates[key]; ok {
		return append(candidates, code)
	}
	if len(state) == 2 {
		upper := strings.ToUpper(state)
		for name, code := range usStates {
			if code == upper {
				return append(candidates, strings.Title(name)) //nolint:staticcheck // state names are ASCII
			}
		}
	}
	return candidates
}

// PreferNotToAnswer is the ordered synonym set used when the profile
// leaves a self-identification field blank. Compliance forms render
// these as mandatory selects, so the engine defaults rather than
// leaving them unfilled.
func PreferNotToAnswer() []string {
	return []string{
		"Prefer not to answer",
		"Prefer not to say",
		"Decline to self identify",
		"Decline to answer",
		"I don't wish to answer",
		"Do not wish to disclose",
		"Decline",
	}
}

// BoolCandidates returns the ordered synonym set for a yes/no answer.
func BoolCandidates(v bool) []string {
	if v {
		return []string{"Yes", "Y", "True"}
	}
	return []string{"No", "N", "False"}
}

// dialCodes maps countries to phone dial codes.
var dialCodes = map[string]string{
	"united states":  "+1",
	"canada":         "+1",
	"united kingdom": "+44",
	"germany":        "+49",
	"france":         "+33",
	"india":          "+91",
	"australia":      "+61",
	"netherlands":    "+31",
	"japan":          "+81",
	"china":          "+86",
	"brazil":         "+55",
	"mexico":         "+52",
	"spain":          "+34",
	"italy":          "+39",
	"ireland":        "+353",
	"switzerland":    "+41",
	"sweden":         "+46",
	"singapore":      "+65",
	"poland":         "+48",
	"israel":         "+972",
}

// DefaultDialCode is the fallback when no phone country can be
// inferred from the profile.
const DefaultDialCode = "+1"

// PhoneCountryCandidates returns the ordered candidates for a phone
// country-code control. An explicit profile dial code wins; otherwise
// the code is inferred from the country of residence, with a fixed
// locale fallback.
func PhoneCountryCandidates(dialCode, country string) []string {
	if dialCode = strings.TrimSpace(dialCode); dialCode != "" {
		return append([]string{dialCode}, strings.TrimPrefix(dialCode, "+"))
	}
	if code, ok := dialCodes[strings.ToLower(strings.TrimSpace(country))]; ok {
		candidates := []string{code, strings.TrimPrefix(code, "+")}
		return append(candidates, CountryCandidates(country)...)
	}
	return []string{DefaultDialCode, "1", "United States"}
}
