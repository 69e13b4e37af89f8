package domain

// Country is an entry of the supported country table. Code is the ISO 3166
// numeric code and doubles as the ISO 4217 currency code sent to the vendor.
type Country struct {
	Key  string `json:"key"`
	Code string `json:"code"`
	Name string `json:"name"`
}

var countries = []Country{
	{Key: "US", Code: "840", Name: "United States"},
	{Key: "CA", Code: "124", Name: "Canada"},
	{Key: "AU", Code: "036", Name: "Australia"},
}

// LookupCountry returns the table entry for key.
func LookupCountry(key string) (Country, bool) {
	for _, c := range countries {
		if c.Key == key {
			return c, true
		}
	}
	return Country{}, false
}

// Countries returns the table in display order.
func Countries() []Country {
	out := make([]Country, len(countries))
	copy(out, countries)
	return out
}

// CountryKeys returns the accepted selection keys.
func CountryKeys() []string {
	keys := make([]string, 0, len(countries))
	for _, c := range countries {
		keys = append(keys, c.Key)
	}
	return keys
}
