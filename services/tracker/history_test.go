package tracker

import (
	"context"
	"testing"
	"time"

	"magnify-backend/lib/chrono"
	"magnify-backend/lib/scrapers/courseguide"

	"github.com/stretchr/testify/require"
)

func obs(course, section, openSeats, waitList string, captured time.Time) courseguide.Observation {
	return courseguide.Observation{
		Course:     course,
		CapturedAt: captured,
		Section:    section,
		EnrollStat: "Open",
		OpenSeats:  openSeats,
		WaitList:   waitList,
		Mode:       "In Person",
		ClassNo:    "100001",
	}
}

func TestNormalizeWaitlistSentinel(t *testing.T) {
	captured := time.Date(2022, time.January, 10, 9, 12, 0, 0, chrono.Location)

	rec, err := normalizeObservation(obs("EECS 280", "LEC 001", "5", "-", captured))
	require.NoError(t, err)
	require.Equal(t, WaitListNone, rec.WaitList)
	require.Equal(t, 5, rec.OpenSeats)

	rec, err = normalizeObservation(obs("EECS 280", "LEC 001", "5", "7", captured))
	require.NoError(t, err)
	require.Equal(t, 7, rec.WaitList)

	_, err = normalizeObservation(obs("EECS 280", "LEC 001", "5", "closed", captured))
	require.Error(t, err)

	_, err = normalizeObservation(obs("EECS 280", "LEC 001", "n/a", "7", captured))
	require.Error(t, err)
}

func TestNormalizeHourBucket(t *testing.T) {
	captured := time.Date(2022, time.January, 10, 9, 42, 13, 0, chrono.Location)

	rec, err := normalizeObservation(obs("EECS 280", "LEC 001", "5", "-", captured))
	require.NoError(t, err)
	require.Equal(t, time.Date(2022, time.January, 10, 9, 0, 0, 0, chrono.Location), rec.Hour)
	require.Equal(t, captured, rec.Time)
}

func TestMergeHistoryOrdering(t *testing.T) {
	ctx := context.Background()
	hour := time.Date(2022, time.January, 9, 8, 0, 0, 0, chrono.Location)

	prior := []Record{
		{Course: "EECS 280", Section: "LEC 001", OpenSeats: 9, WaitList: -1, Hour: hour},
		{Course: "MATH 115", Section: "LEC 010", OpenSeats: 2, WaitList: 0, Hour: hour},
	}
	captured := time.Date(2022, time.January, 10, 9, 5, 0, 0, chrono.Location)
	fresh := []courseguide.Observation{
		obs("EECS 280", "LEC 001", "5", "-", captured),
		obs("MATH 115", "LEC 010", "1", "3", captured),
	}

	merged := MergeHistory(ctx, prior, fresh)
	require.Len(t, merged, 4)

	// prior rows first, in their original order, then fresh rows in
	// scrape order
	require.Equal(t, prior[0], merged[0])
	require.Equal(t, prior[1], merged[1])
	require.Equal(t, "EECS 280", merged[2].Course)
	require.Equal(t, 5, merged[2].OpenSeats)
	require.Equal(t, "MATH 115", merged[3].Course)
}

func TestMergeHistoryDropsBadRecordsOnly(t *testing.T) {
	ctx := context.Background()
	captured := time.Date(2022, time.January, 10, 9, 5, 0, 0, chrono.Location)

	fresh := []courseguide.Observation{
		obs("EECS 280", "LEC 001", "5", "-", captured),
		obs("EECS 280", "LAB 002", "see department", "-", captured),
		obs("EECS 280", "LAB 003", "4", "0", captured),
	}

	merged := MergeHistory(ctx, nil, fresh)
	require.Len(t, merged, 2)
	require.Equal(t, "LEC 001", merged[0].Section)
	require.Equal(t, "LAB 003", merged[1].Section)
}

func TestHistoryCSVRoundTrip(t *testing.T) {
	ctx := context.Background()
	captured := time.Date(2022, time.January, 10, 9, 5, 0, 0, chrono.Location)

	records := MergeHistory(ctx, nil, []courseguide.Observation{
		obs("EECS 280", "LEC 001", "5", "-", captured),
	})

	decoded, err := DecodeRecords(EncodeRecords(records))
	require.NoError(t, err)
	require.Equal(t, records, decoded)
}
