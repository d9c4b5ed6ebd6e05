package service

import (
	"time"

	"waypoint/internal/models"
)

const dateLayout = "2006-01-02"

// parseDateRange parses an optional trip date range and enforces start <= end.
func parseDateRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if startStr != "" {
		start, err = time.Parse(dateLayout, startStr)
		if err != nil {
			return time.Time{}, time.Time{}, models.NewValidationError("Invalid start date, expected YYYY-MM-DD")
		}
	}
	if endStr != "" {
		end, err = time.Parse(dateLayout, endStr)
		if err != nil {
			return time.Time{}, time.Time{}, models.NewValidationError("Invalid end date, expected YYYY-MM-DD")
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return time.Time{}, time.Time{}, models.NewValidationError("End date cannot be before start date")
	}
	return start, end, nil
}
