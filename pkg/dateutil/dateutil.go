package dateutil

import (
	"time"
)

// Age calculates the age at a given date
func Age(birthDate, atDate time.Time) int {
	age := atDate.Year() - birthDate.Year()
	if atDate.Month() < birthDate.Month() ||
		(atDate.Month() == birthDate.Month() && atDate.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// FullRetirementAge calculates the Social Security Full Retirement Age based on birth year
func FullRetirementAge(birthDate time.Time) int {
	birthYear := birthDate.Year()

	switch {
	case birthYear <= 1942:
		return 65
	case birthYear <= 1959:
		return 66
	default: // 1960 and later
		return 67
	}
}

// RMDAge returns the age when Required Minimum Distributions start for a
// given birth year (SECURE 2.0 schedule)
func RMDAge(birthYear int) int {
	switch {
	case birthYear <= 1950:
		return 72
	case birthYear <= 1959:
		return 73
	default: // 1960 and later
		return 75
	}
}

// IsMedicareEligible checks if someone is eligible for Medicare (age 65+)
func IsMedicareEligible(birthDate, atDate time.Time) bool {
	return Age(birthDate, atDate) >= 65
}

// ReachedAgeFiftyNineAndHalf reports whether the early-withdrawal penalty
// age (59½) has been reached by atDate
func ReachedAgeFiftyNineAndHalf(birthDate, atDate time.Time) bool {
	cutoff := birthDate.AddDate(59, 6, 0)
	return !atDate.Before(cutoff)
}

// YearTurningAge returns the calendar year in which the person turns the
// given age
func YearTurningAge(birthDate time.Time, age int) int {
	return birthDate.Year() + age
}
