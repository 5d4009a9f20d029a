package services

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/selin/goaltrack-api/internal/models"
)

// NextOccurrence returns the occurrence after from for the given
// frequency. Monthly additions clamp the day-of-month to the last valid
// day of the target month, so Jan 31 advances to Feb 28 (or Feb 29 in a
// leap year).
func NextOccurrence(frequency models.RecurrenceFrequency, from time.Time) (time.Time, error) {
	switch frequency {
	case models.FrequencyDaily:
		return from.AddDate(0, 0, 1), nil
	case models.FrequencyWeekly:
		return from.AddDate(0, 0, 7), nil
	case models.FrequencyMonthly:
		year, month, day := from.Date()
		hour, min, sec := from.Clock()
		month++
		if last := lastDayOfMonth(year, month); day > last {
			day = last
		}
		return time.Date(year, month, day, hour, min, sec, from.Nanosecond(), from.Location()), nil
	default:
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "Next occurrence cannot be calculated.")
	}
}

// PreviousOccurrence is the mirror of NextOccurrence without the
// end-of-month clamp: stepping back a month from Mar 31 normalizes
// through Feb 31 into early March. An unknown frequency returns from
// unchanged.
func PreviousOccurrence(frequency models.RecurrenceFrequency, from time.Time) time.Time {
	switch frequency {
	case models.FrequencyDaily:
		return from.AddDate(0, 0, -1)
	case models.FrequencyWeekly:
		return from.AddDate(0, 0, -7)
	case models.FrequencyMonthly:
		return from.AddDate(0, -1, 0)
	default:
		return from
	}
}

// lastDayOfMonth handles month values outside 1..12; time.Date
// normalizes them.
func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
