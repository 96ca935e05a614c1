package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blesswrld/codesync/backend/go-services/internal/models"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func iv(id string, st models.Status, start time.Time) *models.Interview {
	return &models.Interview{ID: id, Status: st, StartTime: start}
}

func ids(list []*models.Interview) []string {
	out := make([]string, 0, len(list))
	for _, i := range list {
		out = append(out, i.ID)
	}
	return out
}

func TestGroupInterviews_Precedence(t *testing.T) {
	future := now.Add(2 * time.Hour)
	past := now.Add(-2 * time.Hour)
	in := []*models.Interview{
		iv("s", models.StatusSucceeded, future),
		iv("f", models.StatusFailed, future),
		iv("c", models.StatusCompleted, future),
		iv("u-future", models.StatusUpcoming, future),
		iv("u-past", models.StatusUpcoming, past),
		iv("u-now", models.StatusUpcoming, now),
		iv("weird", models.Status("archived"), future),
	}

	g := GroupInterviews(in, now)

	assert.Equal(t, []string{"s"}, ids(g.Succeeded))
	assert.Equal(t, []string{"f"}, ids(g.Failed))
	assert.Equal(t, []string{"c", "u-past", "u-now"}, ids(g.Completed))
	assert.Equal(t, []string{"u-future", "weird"}, ids(g.Upcoming))
	assert.Equal(t, len(in), g.Len())
}

func TestGroupInterviews_EmptyBucketsPresent(t *testing.T) {
	g := GroupInterviews(nil, now)
	require.NotNil(t, g.Succeeded)
	require.NotNil(t, g.Failed)
	require.NotNil(t, g.Completed)
	require.NotNil(t, g.Upcoming)
	assert.Zero(t, g.Len())
}

func TestGroupInterviews_DoesNotMutateAndIsDeterministic(t *testing.T) {
	in := []*models.Interview{
		iv("a", models.StatusUpcoming, now.Add(time.Hour)),
		iv("b", models.StatusFailed, now),
	}
	snapshot := []models.Interview{*in[0], *in[1]}

	first := GroupInterviews(in, now)
	second := GroupInterviews(in, now)

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot[0], *in[0])
	assert.Equal(t, snapshot[1], *in[1])
	assert.Equal(t, "a", in[0].ID)
}

func TestGroupInterviews_DropsNilEntries(t *testing.T) {
	list := []*models.Interview{
		iv("a", models.StatusSucceeded, now.Add(-time.Hour)),
		nil,
		iv("b", models.StatusUpcoming, now.Add(time.Hour)),
		nil,
	}
	g := GroupInterviews(list, now)
	assert.Equal(t, 2, g.Len())
	assert.Len(t, g.Succeeded, 1)
	assert.Len(t, g.Upcoming, 1)
}

func TestMeetingDisplayState(t *testing.T) {
	start := now
	cases := []struct {
		name   string
		status models.Status
		at     time.Time
		want   DisplayState
	}{
		{"stored completed", models.StatusCompleted, start.Add(-time.Hour), DisplayCompleted},
		{"stored failed", models.StatusFailed, start.Add(-time.Hour), DisplayCompleted},
		{"stored succeeded", models.StatusSucceeded, start, DisplayCompleted},
		{"before start", models.StatusUpcoming, start.Add(-time.Minute), DisplayUpcoming},
		{"at start", models.StatusUpcoming, start, DisplayLive},
		{"inside window", models.StatusUpcoming, start.Add(59 * time.Minute), DisplayLive},
		{"window end exclusive", models.StatusUpcoming, start.Add(time.Hour), DisplayCompleted},
		{"after window", models.StatusUpcoming, start.Add(3 * time.Hour), DisplayCompleted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MeetingDisplayState(iv("x", tc.status, start), tc.at))
		})
	}
}

func TestCanRecordOutcome(t *testing.T) {
	assert.True(t, CanRecordOutcome(iv("x", models.StatusCompleted, now)))
	// derived completion is not enough
	assert.False(t, CanRecordOutcome(iv("x", models.StatusUpcoming, now.Add(-5*time.Hour))))
	assert.False(t, CanRecordOutcome(iv("x", models.StatusSucceeded, now)))
	assert.False(t, CanRecordOutcome(nil))
}

func TestRecordingDuration(t *testing.T) {
	assert.Equal(t, "45 seconds", RecordingDuration(now, now.Add(45*time.Second)))
	assert.Equal(t, "2:05", RecordingDuration(now, now.Add(2*time.Minute+5*time.Second)))
	assert.Equal(t, "1:02:03", RecordingDuration(now, now.Add(time.Hour+2*time.Minute+3*time.Second)))
	assert.Equal(t, "0 seconds", RecordingDuration(now, now.Add(-time.Minute)))
}
