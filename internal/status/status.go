// Package status derives display state for interviews from their stored
// status and the current time. Everything here is pure: no I/O, no clock
// reads, and inputs are never modified.
package status

import (
	"fmt"
	"time"

	"github.com/blesswrld/codesync/backend/go-services/internal/models"
)

// LiveWindow is how long after its start an interview counts as live.
const LiveWindow = time.Hour

// DisplayState is the single-value classification shown on a meeting card.
type DisplayState string

const (
	DisplayUpcoming  DisplayState = "upcoming"
	DisplayLive      DisplayState = "live"
	DisplayCompleted DisplayState = "completed"
)

// Grouped holds the four interview buckets. Every bucket is non-nil so the
// JSON form always carries all four keys as arrays.
type Grouped struct {
	Succeeded []*models.Interview `json:"succeeded"`
	Failed    []*models.Interview `json:"failed"`
	Completed []*models.Interview `json:"completed"`
	Upcoming  []*models.Interview `json:"upcoming"`
}

// GroupInterviews partitions interviews into buckets. Explicit terminal
// statuses win; anything else falls back to comparing StartTime with now.
// Nil entries are dropped, so Len equals the number of non-nil inputs.
func GroupInterviews(interviews []*models.Interview, now time.Time) Grouped {
	g := Grouped{
		Succeeded: []*models.Interview{},
		Failed:    []*models.Interview{},
		Completed: []*models.Interview{},
		Upcoming:  []*models.Interview{},
	}
	for _, iv := range interviews {
		if iv == nil {
			continue
		}
		switch iv.Status {
		case models.StatusSucceeded:
			g.Succeeded = append(g.Succeeded, iv)
		case models.StatusFailed:
			g.Failed = append(g.Failed, iv)
		case models.StatusCompleted:
			g.Completed = append(g.Completed, iv)
		default:
			if iv.StartTime.After(now) {
				g.Upcoming = append(g.Upcoming, iv)
			} else {
				g.Completed = append(g.Completed, iv)
			}
		}
	}
	return g
}

// Len returns the total number of grouped interviews.
func (g Grouped) Len() int {
	return len(g.Succeeded) + len(g.Failed) + len(g.Completed) + len(g.Upcoming)
}

// MeetingDisplayState classifies one interview for display.
func MeetingDisplayState(iv *models.Interview, now time.Time) DisplayState {
	switch iv.Status {
	case models.StatusCompleted, models.StatusFailed, models.StatusSucceeded:
		return DisplayCompleted
	}
	end := iv.StartTime.Add(LiveWindow)
	if !now.Before(iv.StartTime) && now.Before(end) {
		return DisplayLive
	}
	if now.Before(iv.StartTime) {
		return DisplayUpcoming
	}
	return DisplayCompleted
}

// CanRecordOutcome reports whether pass/fail can be recorded for iv. Only a
// stored completed status qualifies, not one derived from the clock.
func CanRecordOutcome(iv *models.Interview) bool {
	return iv != nil && iv.Status == models.StatusCompleted
}

// RecordingDuration formats the span between start and end as h:mm:ss,
// m:ss, or "N seconds" for anything under a minute.
func RecordingDuration(start, end time.Time) string {
	secs := int(end.Sub(start) / time.Second)
	if secs < 0 {
		secs = 0
	}
	h, m, s := secs/3600, (secs%3600)/60, secs%60
	switch {
	case h > 0:
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	case m > 0:
		return fmt.Sprintf("%d:%02d", m, s)
	default:
		return fmt.Sprintf("%d seconds", s)
	}
}
