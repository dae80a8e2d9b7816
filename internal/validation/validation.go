// Package validation checks request payloads before they reach the services.
package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"bailemos/internal/models"
)

const (
	MinPasswordLength = 6
	MaxPasswordLength = 128
)

var clockRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ValidateEmail accepts a bare address such as ana@example.com.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@"):], ".") {
		return fmt.Errorf("email must be a valid email")
	}
	return nil
}

// ValidatePassword enforces length bounds only.
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < MinPasswordLength {
		return fmt.Errorf("password length must be at least %d characters long", MinPasswordLength)
	}
	if n > MaxPasswordLength {
		return fmt.Errorf("password length must be at most %d characters long", MaxPasswordLength)
	}
	return nil
}

// Required reports the first blank field among name/value pairs.
func Required(fields ...string) error {
	for i := 0; i+1 < len(fields); i += 2 {
		if strings.TrimSpace(fields[i+1]) == "" {
			return fmt.Errorf("%s is required", fields[i])
		}
	}
	return nil
}

// ValidateLocation checks a [longitude, latitude] pair.
func ValidateLocation(coords []float64) error {
	if len(coords) != 2 {
		return fmt.Errorf("location must contain exactly 2 items")
	}
	if coords[0] < -180 || coords[0] > 180 {
		return fmt.Errorf("longitude must be between -180 and 180")
	}
	if coords[1] < -90 || coords[1] > 90 {
		return fmt.Errorf("latitude must be between -90 and 90")
	}
	return nil
}

// ValidateClock accepts 24h HH:MM times.
func ValidateClock(value string) error {
	if !clockRegex.MatchString(value) {
		return fmt.Errorf("time %q must use HH:MM", value)
	}
	return nil
}

// NormalizeSchedule validates the submitted days and fills every missing day
// or time with the defaults.
func NormalizeSchedule(in models.WeeklySchedule) (models.WeeklySchedule, error) {
	out := models.DefaultSchedule()
	for day, hours := range in {
		if _, ok := out[day]; !ok {
			return nil, fmt.Errorf("unknown day %q", day)
		}
		if hours.OpenTime == "" {
			hours.OpenTime = models.DefaultOpenTime
		}
		if hours.CloseTime == "" {
			hours.CloseTime = models.DefaultCloseTime
		}
		if err := ValidateClock(hours.OpenTime); err != nil {
			return nil, fmt.Errorf("%s: %w", day, err)
		}
		if err := ValidateClock(hours.CloseTime); err != nil {
			return nil, fmt.Errorf("%s: %w", day, err)
		}
		out[day] = hours
	}
	return out, nil
}

// ValidatePrices checks every plan in the list.
func ValidatePrices(prices []models.PriceOption) error {
	for i, p := range prices {
		if !p.Type.Valid() {
			return fmt.Errorf("prices[%d].type must be one of individual, couples, private", i)
		}
		if p.MonthlyPrice < 0 {
			return fmt.Errorf("prices[%d].monthlyPrice must be greater than or equal to 0", i)
		}
		if p.ClassesPerWeek < 1 || p.ClassesPerWeek > 7 {
			return fmt.Errorf("prices[%d].classesPerWeek must be between 1 and 7", i)
		}
	}
	return nil
}
