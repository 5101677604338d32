package domain

import (
	"fmt"
	"time"
)

// DateRange selects the archive days (and optionally one page) to extract.
// Start and End are calendar days at UTC midnight; End is inclusive.
type DateRange struct {
	Start time.Time
	End   time.Time
	Page  int
}

// NewDay selects every article of a single day.
func NewDay(day, month, year int) (DateRange, error) {
	start, err := calendarDay(day, month, year)
	if err != nil {
		return DateRange{}, err
	}
	return DateRange{Start: start, End: start}, nil
}

// NewPage selects a single archive page of a single day.
func NewPage(day, month, year, page int) (DateRange, error) {
	if page < 1 {
		return DateRange{}, &InvalidRangeError{Reason: fmt.Sprintf("page %d must be positive", page)}
	}
	r, err := NewDay(day, month, year)
	if err != nil {
		return DateRange{}, err
	}
	r.Page = page
	return r, r.Validate()
}

// NewRange selects every day between the two dates, both included.
func NewRange(day, month, year, dayEnd, monthEnd, yearEnd int) (DateRange, error) {
	start, err := calendarDay(day, month, year)
	if err != nil {
		return DateRange{}, err
	}
	end, err := calendarDay(dayEnd, monthEnd, yearEnd)
	if err != nil {
		return DateRange{}, err
	}
	r := DateRange{Start: start, End: end}
	return r, r.Validate()
}

// Validate checks the range invariants.
func (r DateRange) Validate() error {
	if r.Start.IsZero() {
		return &InvalidRangeError{Reason: "start date is missing"}
	}
	if !r.End.IsZero() && r.End.Before(r.Start) {
		return &InvalidRangeError{Reason: fmt.Sprintf("end date %s is before start date %s",
			r.End.Format(time.DateOnly), r.Start.Format(time.DateOnly))}
	}
	if r.Page < 0 {
		return &InvalidRangeError{Reason: fmt.Sprintf("page %d must be positive", r.Page)}
	}
	if r.Page > 0 && r.Len() > 1 {
		return &InvalidRangeError{Reason: "a page number selects a single day"}
	}
	return nil
}

// Days returns every day in the range in chronological order.
func (r DateRange) Days() []time.Time {
	end := r.End
	if end.IsZero() {
		end = r.Start
	}
	var days []time.Time
	for d := r.Start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Len returns the number of days in the range.
func (r DateRange) Len() int {
	if r.Start.IsZero() {
		return 0
	}
	if r.End.IsZero() || r.End.Before(r.Start) {
		return 1
	}
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

func (r DateRange) String() string {
	s := r.Start.Format(time.DateOnly)
	if r.Len() > 1 {
		s += ".." + r.End.Format(time.DateOnly)
	}
	if r.Page > 0 {
		s += fmt.Sprintf(" page %d", r.Page)
	}
	return s
}

// calendarDay rejects dates that do not exist instead of normalising them.
func calendarDay(day, month, year int) (time.Time, error) {
	if year < 1 || month < 1 || month > 12 || day < 1 {
		return time.Time{}, &InvalidRangeError{Reason: fmt.Sprintf("%d/%d/%d is not a valid date", day, month, year)}
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, &InvalidRangeError{Reason: fmt.Sprintf("%d/%d/%d is not a valid date", day, month, year)}
	}
	return t, nil
}
