package courseguide

import (
	"context"
	"strings"
	"time"

	"magnify-backend/lib/chrono"
	"magnify-backend/lib/htmlutil"
	"magnify-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
)

// Observation is one scheduled section's state at one capture time.
// Seat counts stay raw strings here; normalization happens when the
// observation is merged into history.
type Observation struct {
	Course     string
	CapturedAt time.Time
	Section    string
	EnrollStat string
	OpenSeats  string
	WaitList   string
	Mode       string
	ClassNo    string
	// fields the page carries that we don't model, kept so a site
	// change doesn't silently lose data
	Extra map[string]string
}

// ScrapeSections fetches a course's detail page and returns one
// observation per schedule row, each stamped with the capture time.
// An empty result is not an error: some indexed courses have no
// schedule table, the caller logs and moves on.
func (c *Client) ScrapeSections(ctx context.Context, course, link string) ([]Observation, error) {
	ctx, span := tracer.Start(ctx, "ScrapeSections")
	defer span.End()
	span.SetAttributes(attribute.String("course", course))

	doc, err := c.fetchDocument(ctx, link)
	if err != nil {
		return nil, err
	}

	capturedAt := chrono.Now()

	var out []Observation
	doc.Find(".row.clsschedulerow").Each(func(_ int, row *goquery.Selection) {
		out = append(out, parseScheduleRow(row, course, capturedAt))
	})
	return out, nil
}

func parseScheduleRow(row *goquery.Selection, course string, capturedAt time.Time) Observation {
	obs := Observation{
		Course:     course,
		CapturedAt: capturedAt,
		Extra:      map[string]string{},
	}

	cells := row.Find(".row").First().Find(".col-md-1")
	for _, raw := range htmlutil.CellTexts(cells) {
		text := textutil.CollapseWhitespace(raw)
		pieces := strings.Split(text, ":")
		if len(pieces) < 2 {
			continue
		}
		key := strings.TrimSpace(pieces[0])
		val := textutil.CollapseWhitespace(strings.Join(pieces[1:], " "))

		switch key {
		case "Section":
			obs.Section = val
		case "Enroll Stat":
			obs.EnrollStat = val
		case "Open Seats":
			obs.OpenSeats = val
		case "Wait List":
			obs.WaitList = val
		case "Instruction Mode":
			obs.Mode = val
		case "Class No":
			obs.ClassNo = val
		default:
			obs.Extra[key] = val
		}
	}

	return obs
}
