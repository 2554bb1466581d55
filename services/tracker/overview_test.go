package tracker

import (
	"context"
	"testing"
	"time"

	"magnify-backend/lib/chrono"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func rec(course, section, classNo string, openSeats, waitList int, hour time.Time) Record {
	return Record{
		Course:     course,
		Time:       hour,
		Section:    section,
		Mode:       "In Person",
		ClassNo:    classNo,
		EnrollStat: "Open",
		OpenSeats:  openSeats,
		WaitList:   waitList,
		Hour:       hour,
	}
}

func hourAt(day, hour int) time.Time {
	return time.Date(2022, time.January, day, hour, 0, 0, 0, chrono.Location)
}

func TestBuildOverviewScenario(t *testing.T) {
	records := []Record{
		rec("EECS 280", "LEC 001", "100001", 5, -1, hourAt(10, 9)),
		rec("EECS 280", "LEC 001", "100001", 3, -1, hourAt(10, 10)),
	}

	overview := BuildOverview(context.Background(), records)
	require.Len(t, overview, 1)

	row := overview[0]
	require.Equal(t, "EECS 280", row.Course)
	require.Equal(t, 5, row.Capacity)
	require.Equal(t, 3, row.Available)
	require.InDelta(t, 0.6, row.PercentAvailable, 1e-9)
	require.Equal(t, "EECS", row.Dept)
	require.Equal(t, 280, row.CourseNum)
	require.True(t, row.Undergrad)
	require.False(t, row.StudyAbroad)
	require.Equal(t, "eecs-280", row.Slug)
}

func TestBuildOverviewStudyAbroadKey(t *testing.T) {
	records := []Record{
		rec("STATS 250 STDABRD", "SEM 001", "200001", 10, 0, hourAt(10, 9)),
	}

	overview := BuildOverview(context.Background(), records)
	require.Len(t, overview, 1)

	row := overview[0]
	require.True(t, row.StudyAbroad)
	require.Equal(t, "STATS", row.Dept)
	require.Equal(t, 250, row.CourseNum)
	require.True(t, row.Undergrad)
}

func TestBuildOverviewExcludesDiscussionOnlyCourses(t *testing.T) {
	records := []Record{
		rec("EECS 280", "DIS 011", "100011", 8, 0, hourAt(10, 9)),
		rec("EECS 280", "DIS 012", "100012", 2, 0, hourAt(10, 9)),
	}

	overview := BuildOverview(context.Background(), records)
	require.Empty(t, overview)
}

func TestBuildOverviewSumsSectionsWithinBucket(t *testing.T) {
	records := []Record{
		// two lectures of one course in the same hour bucket
		rec("MATH 115", "LEC 010", "300010", 4, 0, hourAt(10, 9)),
		rec("MATH 115", "LEC 020", "300020", 6, 1, hourAt(10, 9)),
		rec("MATH 115", "LEC 010", "300010", 1, 2, hourAt(10, 10)),
		rec("MATH 115", "LEC 020", "300020", 2, 0, hourAt(10, 10)),
		// the lab must not contribute to capacity math
		rec("MATH 115", "LAB 031", "300031", 50, 0, hourAt(10, 9)),
	}

	overview := BuildOverview(context.Background(), records)
	require.Len(t, overview, 1)

	row := overview[0]
	require.Equal(t, 10, row.Capacity)
	require.Equal(t, 3, row.Available)
	require.Equal(t, 2, row.Waitlist)
	require.InDelta(t, 0.3, row.PercentAvailable, 1e-9)
}

func TestBuildOverviewGraduateCourse(t *testing.T) {
	records := []Record{
		rec("EECS 586", "LEC 001", "400001", 12, -1, hourAt(10, 9)),
	}

	overview := BuildOverview(context.Background(), records)
	require.Len(t, overview, 1)
	require.False(t, overview[0].Undergrad)
}

func TestBuildOverviewDropsZeroCapacity(t *testing.T) {
	records := []Record{
		rec("EECS 280", "LEC 001", "100001", 0, 40, hourAt(10, 9)),
		rec("EECS 280", "LEC 001", "100001", 0, 45, hourAt(10, 10)),
	}

	overview := BuildOverview(context.Background(), records)
	require.Empty(t, overview)
}

func TestBuildOverviewIdempotent(t *testing.T) {
	records := []Record{
		rec("EECS 280", "LEC 001", "100001", 5, -1, hourAt(10, 9)),
		rec("EECS 280", "LEC 001", "100001", 3, -1, hourAt(10, 10)),
		rec("MATH 115", "LEC 010", "300010", 4, 0, hourAt(10, 9)),
		rec("STATS 250 STDABRD", "SEM 001", "200001", 10, 0, hourAt(10, 9)),
	}

	first := BuildOverview(context.Background(), records)
	second := BuildOverview(context.Background(), records)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("overview not idempotent (-first +second):\n%s", diff)
	}
}
