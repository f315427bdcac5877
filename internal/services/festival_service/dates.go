package services

import (
	"errors"
	"fmt"

	"tour_admin/internal/domain/models"

	"github.com/golang-module/carbon/v2"
)

const dateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

// ParseDate reads a YYYY-MM-DD calendar date.
func ParseDate(s string) (carbon.Carbon, error) {
	if s == "" {
		return carbon.Carbon{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}

	c := carbon.ParseByLayout(s, dateLayout)
	if c.Error != nil || c.IsInvalid() {
		return carbon.Carbon{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return c, nil
}

// Days is the inclusive length of the festival in days, 0 when a date is unreadable.
func Days(f models.FestivalHoliday) int {
	start, err := ParseDate(f.StartDate)
	if err != nil {
		return 0
	}
	end, err := ParseDate(f.EndDate)
	if err != nil {
		return 0
	}
	return int(start.DiffInDays(end)) + 1
}

// Period renders the range as "13 Apr 2026 - 15 Apr 2026 (3 วัน)".
func Period(f models.FestivalHoliday) string {
	start, err := ParseDate(f.StartDate)
	if err != nil {
		return f.StartDate + " - " + f.EndDate
	}
	end, err := ParseDate(f.EndDate)
	if err != nil {
		return f.StartDate + " - " + f.EndDate
	}

	if start.Eq(end) {
		return start.Format("j M Y") + " (1 วัน)"
	}
	return fmt.Sprintf("%s - %s (%d วัน)", start.Format("j M Y"), end.Format("j M Y"), Days(f))
}
