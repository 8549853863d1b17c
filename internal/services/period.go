package services

import "time"

// Subscription windows are date-only values normalized to midnight UTC.
// Month arithmetic follows "same day next month" semantics with clamping
// to the last day of the target month (Jan 31 + 1 month = Feb 28/29).

// Today returns the current date truncated to midnight UTC
func Today() time.Time {
	return DateOnly(time.Now().UTC())
}

// DateOnly strips the time-of-day component from t
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddCalendarMonths advances d by the given number of calendar months,
// clamping the day to the last day of the target month.
func AddCalendarMonths(d time.Time, months int) time.Time {
	y, m, day := d.Date()
	target := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	if last := daysInMonth(target.Year(), target.Month()); day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day, 0, 0, 0, 0, time.UTC)
}

func daysInMonth(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DefaultPeriod returns the closed one-month subscription window starting
// today: [today, today + 1 month - 1 day].
func DefaultPeriod(today time.Time) (start, end time.Time) {
	start = DateOnly(today)
	end = AddCalendarMonths(start, 1).AddDate(0, 0, -1)
	return start, end
}

// ExtendBase returns the date a renewal extends from: the later of the
// current end date and today, so renewing a lapsed seat starts the new
// period now rather than stacking onto the expired window.
func ExtendBase(currentEnd *time.Time, today time.Time) time.Time {
	base := DateOnly(today)
	if currentEnd != nil && DateOnly(*currentEnd).After(base) {
		base = DateOnly(*currentEnd)
	}
	return base
}

// ExtendPeriod computes the renewed end date for an extension of the given
// number of months: base + months calendar months - 1 day. The base is
// ExtendBase, pushed forward to the start date when the window has not
// begun yet, so the renewed end can never precede the start.
func ExtendPeriod(currentStart, currentEnd *time.Time, months int, today time.Time) time.Time {
	base := ExtendBase(currentEnd, today)
	if currentStart != nil && DateOnly(*currentStart).After(base) {
		base = DateOnly(*currentStart)
	}
	return AddCalendarMonths(base, months).AddDate(0, 0, -1)
}
