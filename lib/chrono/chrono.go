package chrono

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("America/Detroit")
	if err != nil {
		panic(err)
	}
}

// force capture times into campus time because the crawlers sometimes
// run in other regions, which would shift hour buckets across runs
func Now() time.Time {
	return time.Now().In(Location)
}

// RoundHour truncates a timestamp down to the top of its hour. Hour
// buckets are the time-series granularity for all seat statistics, so
// two scrapes landing a few minutes apart fold into the same bucket.
func RoundHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}
