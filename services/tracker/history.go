package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"magnify-backend/lib/chrono"
	"magnify-backend/lib/scrapers/courseguide"
)

// Record is one normalized seat observation, the row type of the
// published history table.
type Record struct {
	Course     string
	Time       time.Time
	Section    string
	Mode       string
	ClassNo    string
	EnrollStat string
	OpenSeats  int
	// -1 means the section has no waitlist
	WaitList int
	// capture time truncated to the hour, the time-series bucket key
	Hour time.Time
}

// WaitListNone is the normalized value for the "-" the course guide
// shows on sections without a waitlist.
const WaitListNone = -1

// MergeHistory appends freshly scraped observations to the prior
// history, prior rows first and in their original order. Fresh rows
// that fail normalization are dropped with a warning: a single bad
// record must not cost the run the rest of the dataset.
func MergeHistory(ctx context.Context, prior []Record, fresh []courseguide.Observation) []Record {
	out := make([]Record, 0, len(prior)+len(fresh))
	out = append(out, prior...)

	for _, obs := range fresh {
		rec, err := normalizeObservation(obs)
		if err != nil {
			slog.WarnContext(ctx, "dropping unnormalizable observation", "course", obs.Course, "section", obs.Section, "err", err)
			continue
		}
		out = append(out, rec)
	}
	return out
}

func normalizeObservation(obs courseguide.Observation) (Record, error) {
	// open seats is always numeric on real pages, a parse failure
	// means the row itself is garbage
	openSeats, err := strconv.Atoi(obs.OpenSeats)
	if err != nil {
		return Record{}, fmt.Errorf("open seats %q: %w", obs.OpenSeats, err)
	}

	waitList := WaitListNone
	if obs.WaitList != "-" {
		waitList, err = strconv.Atoi(obs.WaitList)
		if err != nil {
			return Record{}, fmt.Errorf("wait list %q: %w", obs.WaitList, err)
		}
	}

	return Record{
		Course:     obs.Course,
		Time:       obs.CapturedAt,
		Section:    obs.Section,
		Mode:       obs.Mode,
		ClassNo:    obs.ClassNo,
		EnrollStat: obs.EnrollStat,
		OpenSeats:  openSeats,
		WaitList:   waitList,
		Hour:       chrono.RoundHour(obs.CapturedAt),
	}, nil
}
