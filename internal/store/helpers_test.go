package store

import (
	"testing"
	"time"
)

// freezeClock pins nowUTC for the duration of a test and returns a func that advances it.
func freezeClock(t *testing.T, start time.Time) func(d time.Duration) {
	t.Helper()
	cur := start
	prev := nowUTC
	nowUTC = func() time.Time { return cur }
	t.Cleanup(func() { nowUTC = prev })
	return func(d time.Duration) { cur = cur.Add(d) }
}
