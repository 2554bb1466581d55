package tracker

import (
	"context"
	"testing"

	"magnify-backend/lib/blobstore"

	"github.com/stretchr/testify/require"
)

func TestSectionRateFallbackWindow(t *testing.T) {
	// both buckets inside the same day: whole-day difference
	// truncates to 0, the 25 day fallback must kick in
	records := []Record{
		rec("EECS 280", "LEC 001", "100001", 5, -1, hourAt(10, 9)),
		rec("EECS 280", "LEC 001", "100001", 3, -1, hourAt(10, 10)),
	}

	rate := SectionRate(records)
	// max=5, newest positive bucket=3, days falls back to 25
	require.InDelta(t, (5.0-3.0)/25.0, rate, 1e-9)
}

func TestSectionRateWholeDayWindow(t *testing.T) {
	records := []Record{
		rec("EECS 280", "LEC 001", "100001", 10, -1, hourAt(10, 9)),
		rec("EECS 280", "LEC 001", "100001", 4, -1, hourAt(15, 9)),
	}

	rate := SectionRate(records)
	// newest bucket has 4 seats, window spans 5 whole days
	require.InDelta(t, (10.0-4.0)/5.0, rate, 1e-9)
}

func TestSectionRateSkipsFullBuckets(t *testing.T) {
	records := []Record{
		rec("EECS 280", "LEC 001", "100001", 6, -1, hourAt(10, 9)),
		rec("EECS 280", "LEC 001", "100001", 2, -1, hourAt(14, 9)),
		// most recent bucket is full, the scan anchors on the next
		// one back with positive seats
		rec("EECS 280", "LEC 001", "100001", 0, 12, hourAt(15, 9)),
	}

	rate := SectionRate(records)
	require.InDelta(t, (6.0-2.0)/4.0, rate, 1e-9)
}

func TestSectionRateAlwaysFull(t *testing.T) {
	records := []Record{
		rec("EECS 280", "LEC 001", "100001", 0, 30, hourAt(10, 9)),
		rec("EECS 280", "LEC 001", "100001", 0, 35, hourAt(15, 9)),
	}

	require.Zero(t, SectionRate(records))
	require.Zero(t, SectionRate(nil))
}

func TestCourseRatesGroupsByClassNo(t *testing.T) {
	records := []Record{
		rec("EECS 280", "LEC 001", "100001", 10, -1, hourAt(10, 9)),
		rec("EECS 280", "LAB 002", "100002", 0, 5, hourAt(10, 9)),
		rec("EECS 280", "LEC 001", "100001", 5, -1, hourAt(15, 9)),
		rec("EECS 280", "LAB 002", "100002", 0, 8, hourAt(15, 9)),
	}

	rates := CourseRates(records)
	require.Len(t, rates, 2)
	require.Equal(t, "100001", rates[0].ClassNo)
	require.InDelta(t, (10.0-5.0)/5.0, rates[0].Rate, 1e-9)
	require.Equal(t, "100002", rates[1].ClassNo)
	require.Zero(t, rates[1].Rate)
}

func TestComputeRatesFromStore(t *testing.T) {
	ctx := context.Background()
	store := blobstore.Dir{Root: t.TempDir()}
	keys := Keys{}.withDefaults()

	records := []Record{
		rec("EECS 280", "LEC 001", "100001", 10, -1, hourAt(10, 9)),
		rec("EECS 280", "LEC 001", "100001", 4, -1, hourAt(15, 9)),
	}
	err := store.Put(ctx, keys.CourseDir+"eecs-280.csv", EncodeCourseRecords(records), blobstore.PutOptions{})
	require.NoError(t, err)

	overview := []OverviewRow{
		{Course: "EECS 280", Dept: "EECS", CourseNum: 280},
		// no blob published for this course, must be skipped
		{Course: "MATH 115", Dept: "MATH", CourseNum: 115},
	}

	rates, err := ComputeRates(ctx, store, keys.CourseDir, overview, 2)
	require.NoError(t, err)
	require.Len(t, rates, 1)
	require.Equal(t, "100001", rates[0].ClassNo)
	require.InDelta(t, (10.0-4.0)/5.0, rates[0].Rate, 1e-9)
}
