package progress

import "time"

var testNow = time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)
