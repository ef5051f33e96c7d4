package kernel

import "strconv"

// LastFullyCoveredYear applies the freshness rule to a YYYY-MM-DD max-date
// string: a year is considered fully covered only once the store's latest
// record falls in November or later of that year (otherwise late-year
// filings would make the current year look like a false slowdown). Returns
// nil for a malformed date.
func LastFullyCoveredYear(maxDate string) *int {
	if len(maxDate) < 7 {
		return nil
	}
	yearStr := maxDate[0:4]
	monthStr := maxDate[5:7]

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return nil
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		return nil
	}

	result := year
	if month < 11 {
		result = year - 1
	}
	return &result
}
