package pkg

import (
	"time"
)

// StartOfDay is local midnight of t's calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func UntilNextDay(t time.Time) time.Duration {
	return StartOfDay(t).AddDate(0, 0, 1).Sub(t)
}
