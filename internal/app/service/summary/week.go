package summary

import "time"

// weekWindow returns the calendar week containing now: the most recent
// Sunday at 00:00:00 local through Saturday at 23:59:59.999.
func weekWindow(now time.Time) (time.Time, time.Time) {
	daysSinceSunday := int(now.Weekday())
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -daysSinceSunday)
	endDay := start.AddDate(0, 0, 6)
	end := time.Date(endDay.Year(), endDay.Month(), endDay.Day(), 23, 59, 59, 999*int(time.Millisecond), endDay.Location())
	return start, end
}
