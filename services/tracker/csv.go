package tracker

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"magnify-backend/lib/chrono"
	"magnify-backend/lib/textutil"
)

// timestamps in published CSVs, matches what the dashboard parses
const timeLayout = "2006-01-02 15:04:05"

var historyHeader = []string{
	"Course", "Time", "Section", "Instruction Mode",
	"Class No", "Enroll Stat", "Open Seats", "Wait List", "Hour",
}

// the per-course blobs drop the columns that are constant per course
var courseHeader = []string{
	"Section", "Instruction Mode", "Class No",
	"Enroll Stat", "Open Seats", "Wait List", "Hour",
}

var overviewHeader = []string{
	"Course", "Capacity", "Available", "Waitlist",
	"PercentAvailable", "Undergrad", "Dept", "CourseNum", "StudyAbroad",
}

var ratesHeader = []string{"Class No", "Rate"}

func encodeCSV(header []string, rows [][]string) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write(header)
	w.WriteAll(rows)
	return buf.Bytes()
}

// decodeCSV parses a CSV blob and returns a column-name lookup plus
// the data rows.
func decodeCSV(raw []byte, required []string) (map[string]int, [][]string, error) {
	rows, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("missing header row")
	}

	cols := map[string]int{}
	for i, name := range rows[0] {
		cols[name] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, nil, fmt.Errorf("missing column %q", name)
		}
	}
	return cols, rows[1:], nil
}

func EncodeRecords(records []Record) []byte {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.Course,
			rec.Time.Format(timeLayout),
			rec.Section,
			rec.Mode,
			rec.ClassNo,
			rec.EnrollStat,
			strconv.Itoa(rec.OpenSeats),
			strconv.Itoa(rec.WaitList),
			rec.Hour.Format(timeLayout),
		})
	}
	return encodeCSV(historyHeader, rows)
}

func DecodeRecords(raw []byte) ([]Record, error) {
	cols, rows, err := decodeCSV(raw, historyHeader)
	if err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(rows))
	for i, row := range rows {
		rec, err := decodeRecordRow(cols, row, true)
		if err != nil {
			return nil, fmt.Errorf("history row %d: %w", i+1, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func EncodeCourseRecords(records []Record) []byte {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.Section,
			rec.Mode,
			rec.ClassNo,
			rec.EnrollStat,
			strconv.Itoa(rec.OpenSeats),
			strconv.Itoa(rec.WaitList),
			rec.Hour.Format(timeLayout),
		})
	}
	return encodeCSV(courseHeader, rows)
}

func DecodeCourseRecords(raw []byte) ([]Record, error) {
	cols, rows, err := decodeCSV(raw, courseHeader)
	if err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(rows))
	for i, row := range rows {
		rec, err := decodeRecordRow(cols, row, false)
		if err != nil {
			return nil, fmt.Errorf("course row %d: %w", i+1, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func decodeRecordRow(cols map[string]int, row []string, full bool) (Record, error) {
	var rec Record
	var err error

	get := func(name string) string { return row[cols[name]] }

	if full {
		rec.Course = get("Course")
		rec.Time, err = time.ParseInLocation(timeLayout, get("Time"), chrono.Location)
		if err != nil {
			return Record{}, fmt.Errorf("time: %w", err)
		}
	}
	rec.Section = get("Section")
	rec.Mode = get("Instruction Mode")
	rec.ClassNo = get("Class No")
	rec.EnrollStat = get("Enroll Stat")

	rec.OpenSeats, err = strconv.Atoi(get("Open Seats"))
	if err != nil {
		return Record{}, fmt.Errorf("open seats: %w", err)
	}
	rec.WaitList, err = strconv.Atoi(get("Wait List"))
	if err != nil {
		return Record{}, fmt.Errorf("wait list: %w", err)
	}
	rec.Hour, err = time.ParseInLocation(timeLayout, get("Hour"), chrono.Location)
	if err != nil {
		return Record{}, fmt.Errorf("hour: %w", err)
	}
	return rec, nil
}

func EncodeOverview(overview []OverviewRow) []byte {
	rows := make([][]string, 0, len(overview))
	for _, row := range overview {
		rows = append(rows, []string{
			row.Course,
			strconv.Itoa(row.Capacity),
			strconv.Itoa(row.Available),
			strconv.Itoa(row.Waitlist),
			strconv.FormatFloat(row.PercentAvailable, 'g', -1, 64),
			strconv.FormatBool(row.Undergrad),
			row.Dept,
			strconv.Itoa(row.CourseNum),
			strconv.FormatBool(row.StudyAbroad),
		})
	}
	return encodeCSV(overviewHeader, rows)
}

func DecodeOverview(raw []byte) ([]OverviewRow, error) {
	cols, rows, err := decodeCSV(raw, overviewHeader)
	if err != nil {
		return nil, err
	}

	out := make([]OverviewRow, 0, len(rows))
	for i, row := range rows {
		get := func(name string) string { return row[cols[name]] }

		capacity, err := strconv.Atoi(get("Capacity"))
		if err != nil {
			return nil, fmt.Errorf("overview row %d capacity: %w", i+1, err)
		}
		available, err := strconv.Atoi(get("Available"))
		if err != nil {
			return nil, fmt.Errorf("overview row %d available: %w", i+1, err)
		}
		waitlist, err := strconv.Atoi(get("Waitlist"))
		if err != nil {
			return nil, fmt.Errorf("overview row %d waitlist: %w", i+1, err)
		}
		percent, err := strconv.ParseFloat(get("PercentAvailable"), 64)
		if err != nil {
			return nil, fmt.Errorf("overview row %d percent: %w", i+1, err)
		}
		undergrad, err := strconv.ParseBool(get("Undergrad"))
		if err != nil {
			return nil, fmt.Errorf("overview row %d undergrad: %w", i+1, err)
		}
		courseNum, err := strconv.Atoi(get("CourseNum"))
		if err != nil {
			return nil, fmt.Errorf("overview row %d course num: %w", i+1, err)
		}
		studyAbroad, err := strconv.ParseBool(get("StudyAbroad"))
		if err != nil {
			return nil, fmt.Errorf("overview row %d study abroad: %w", i+1, err)
		}

		course := get("Course")
		out = append(out, OverviewRow{
			Course:           course,
			Capacity:         capacity,
			Available:        available,
			Waitlist:         waitlist,
			PercentAvailable: percent,
			Undergrad:        undergrad,
			Dept:             get("Dept"),
			CourseNum:        courseNum,
			StudyAbroad:      studyAbroad,
			Slug:             textutil.Slugify(course),
		})
	}
	return out, nil
}

func EncodeRates(rates []RateRecord) []byte {
	rows := make([][]string, 0, len(rates))
	for _, r := range rates {
		rows = append(rows, []string{
			r.ClassNo,
			strconv.FormatFloat(r.Rate, 'g', -1, 64),
		})
	}
	return encodeCSV(ratesHeader, rows)
}
