package bracket

import "time"

const dateLayout = "01/02/2006"

// AddMonths adds n calendar months to t, clamping the day to the last day of
// the target month. time.AddDate normalizes overflow into the next month
// instead, which turns 12/31 + 2 months into 03/03.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
