package stride

import "time"

// DateKey is a (year, month, day) triple used to key the holiday and
// school-holiday sets passed to NewCalendar. RunConfig has no holiday
// fields, and NewSimulator builds its calendar with no holidays of either
// kind.
type DateKey struct {
	Year, Month, Day int
}

func dateKeyOf(t time.Time) DateKey {
	y, m, d := t.Date()
	return DateKey{y, int(m), d}
}

// Calendar advances one day per tick and exposes weekday/holiday/
// school-holiday predicates derived from the start date and a fixed
// offset, never mutated except by AdvanceDay.
type Calendar struct {
	start          time.Time
	day            int
	holidays       map[DateKey]bool
	schoolHolidays map[DateKey]bool
}

// NewCalendar builds a calendar starting on start, with the given holiday
// and school-holiday date sets.
func NewCalendar(start time.Time, holidays, schoolHolidays []DateKey) *Calendar {
	c := &Calendar{
		start:          start,
		holidays:       make(map[DateKey]bool, len(holidays)),
		schoolHolidays: make(map[DateKey]bool, len(schoolHolidays)),
	}
	for _, d := range holidays {
		c.holidays[d] = true
	}
	for _, d := range schoolHolidays {
		c.schoolHolidays[d] = true
	}
	return c
}

// Today returns the calendar date for the current day offset.
func (c *Calendar) Today() time.Time {
	return c.start.AddDate(0, 0, c.day)
}

// DayIndex returns the number of days elapsed since the start date.
func (c *Calendar) DayIndex() int {
	return c.day
}

// IsWeekend reports whether the current day falls on Saturday or Sunday.
func (c *Calendar) IsWeekend() bool {
	wd := c.Today().Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsHoliday reports whether the current day is a configured holiday.
func (c *Calendar) IsHoliday() bool {
	return c.holidays[dateKeyOf(c.Today())]
}

// IsSchoolHoliday reports whether the current day is a configured
// school holiday.
func (c *Calendar) IsSchoolHoliday() bool {
	return c.schoolHolidays[dateKeyOf(c.Today())]
}

// AdvanceDay moves the calendar forward by exactly one day.
func (c *Calendar) AdvanceDay() {
	c.day++
}

// Format renders the current date for log lines, e.g. "2020-03-15".
func (c *Calendar) Format() string {
	return c.Today().Format("2006-01-02")
}
