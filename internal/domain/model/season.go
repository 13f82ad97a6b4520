package model

import "time"

// Season of the year for pasture quality and heat-stress logic. The split
// follows the Iberian forage calendar rather than astronomical dates.
type Season string

const (
	Spring Season = "spring"
	Summer Season = "summer"
	Autumn Season = "autumn"
	Winter Season = "winter"
)

// SeasonOf maps a calendar month to its season.
func SeasonOf(m time.Month) Season {
	switch m {
	case time.March, time.April, time.May:
		return Spring
	case time.June, time.July, time.August:
		return Summer
	case time.September, time.October, time.November:
		return Autumn
	default:
		return Winter
	}
}

// AcornMonth reports whether m falls inside the montanera window, when
// fallen acorns carry the diet.
func AcornMonth(m time.Month) bool {
	return m >= time.October || m <= time.February
}
