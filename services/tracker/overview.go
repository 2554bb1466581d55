package tracker

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"magnify-backend/lib/textutil"
)

// OverviewRow is one course's summary statistics for the dashboard.
type OverviewRow struct {
	Course           string
	Capacity         int
	Available        int
	Waitlist         int
	PercentAvailable float64
	Undergrad        bool
	Dept             string
	CourseNum        int
	StudyAbroad      bool
	// not published in the overview table, used to key per-course blobs
	Slug string
}

// section types whose seat counts are meaningfully gated by capacity;
// labs and discussions are excluded from capacity math
var capacitySectionTypes = []string{"LEC", "SEM", "REC", "IND"}

const studyAbroadMarker = "STDABRD"

func isCapacitySection(section string) bool {
	for _, marker := range capacitySectionTypes {
		if strings.Contains(section, marker) {
			return true
		}
	}
	return false
}

type hourBucket struct {
	openSeats int
	waitList  int
}

// BuildOverview derives the per-course overview from normalized
// history. It is a pure function of its input: running it twice on
// the same table yields identical output.
//
// Seat counts from sections of one course sharing an hour bucket are
// summed, treating a multi-section course's total open seats as the
// capacity-relevant quantity. Courses with no capacity-gated sections
// or an unparseable key drop out entirely.
func BuildOverview(ctx context.Context, records []Record) []OverviewRow {
	buckets := map[string]map[int64]*hourBucket{}
	for _, rec := range records {
		if !isCapacitySection(rec.Section) {
			continue
		}
		hours, ok := buckets[rec.Course]
		if !ok {
			hours = map[int64]*hourBucket{}
			buckets[rec.Course] = hours
		}
		key := rec.Hour.Unix()
		bucket, ok := hours[key]
		if !ok {
			bucket = &hourBucket{}
			hours[key] = bucket
		}
		bucket.openSeats += rec.OpenSeats
		bucket.waitList += rec.WaitList
	}

	courses := make([]string, 0, len(buckets))
	for course := range buckets {
		courses = append(courses, course)
	}
	sort.Strings(courses)

	out := make([]OverviewRow, 0, len(courses))
	for _, course := range courses {
		hours := buckets[course]

		ordered := make([]int64, 0, len(hours))
		for h := range hours {
			ordered = append(ordered, h)
		}
		sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

		capacity := 0
		for _, h := range ordered {
			if hours[h].openSeats > capacity {
				capacity = hours[h].openSeats
			}
		}
		if capacity <= 0 {
			slog.DebugContext(ctx, "dropping course with no observed capacity", "course", course)
			continue
		}

		latest := hours[ordered[len(ordered)-1]]

		fields := strings.Fields(course)
		if len(fields) < 2 {
			slog.WarnContext(ctx, "dropping course with malformed key", "course", course)
			continue
		}
		courseNum, err := strconv.Atoi(fields[1])
		if err != nil {
			slog.WarnContext(ctx, "dropping course with non-numeric number", "course", course)
			continue
		}

		out = append(out, OverviewRow{
			Course:           course,
			Capacity:         capacity,
			Available:        latest.openSeats,
			Waitlist:         latest.waitList,
			PercentAvailable: float64(latest.openSeats) / float64(capacity),
			Undergrad:        courseNum < 500,
			Dept:             fields[0],
			CourseNum:        courseNum,
			StudyAbroad:      strings.Contains(course, studyAbroadMarker),
			Slug:             textutil.Slugify(course),
		})
	}
	return out
}
