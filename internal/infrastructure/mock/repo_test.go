package mock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HaPhanBaoMinh/mfgdash/internal/domain"
)

var fixedNow = time.Date(2024, 3, 6, 14, 30, 0, 0, time.UTC) // a Wednesday

func newRepo() *Repo {
	return NewWithSeed(42).WithClock(func() time.Time { return fixedNow })
}

func TestRepo_Machines(t *testing.T) {
	r := newRepo()
	ms, err := r.Machines(context.Background())
	require.NoError(t, err)
	assert.Len(t, ms, 6)
	assert.Equal(t, "Line-A-Press-01", ms[0])

	// callers get their own copy
	ms[0] = "changed"
	again, _ := r.Machines(context.Background())
	assert.Equal(t, "Line-A-Press-01", again[0])
}

func TestRepo_MachineStatus_UnknownMachine(t *testing.T) {
	r := newRepo()
	_, err := r.MachineStatus(context.Background(), "Line-Z-99")
	assert.ErrorIs(t, err, ErrUnknownMachine)

	_, err = r.MachineDetail(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnknownMachine)

	_, err = r.TimeSeries(context.Background(), domain.SeriesTemperature, 4, "nope")
	assert.ErrorIs(t, err, ErrUnknownMachine)
}

func TestRepo_MachineStatus_Ranges(t *testing.T) {
	r := newRepo()
	ctx := context.Background()
	for i := 0; i < 500; i++ {
		st, err := r.MachineStatus(ctx, "Line-B-Welding-03")
		require.NoError(t, err)
		assert.True(t, st.Status.IsValid())
		assert.GreaterOrEqual(t, st.Efficiency, 0.0)
		assert.LessOrEqual(t, st.Efficiency, 100.0)
		assert.GreaterOrEqual(t, st.Vibration, 0.0)
		assert.Equal(t, fixedNow, st.LastUpdate)
		if st.Status == domain.StateIdle {
			assert.LessOrEqual(t, st.Efficiency, 10.0)
		}
	}
}

func TestRepo_SameSeedSameValues(t *testing.T) {
	a, _ := newRepo().MachineStatus(context.Background(), "Line-A-Press-01")
	b, _ := newRepo().MachineStatus(context.Background(), "Line-A-Press-01")
	assert.Equal(t, a, b)
}

func TestRepo_Snapshot(t *testing.T) {
	r := newRepo()
	for i := 0; i < 200; i++ {
		s, err := r.Snapshot(context.Background())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, s.OEE, 50.0)
		assert.LessOrEqual(t, s.OEE, 95.0)
		assert.GreaterOrEqual(t, s.DowntimeMinutes, 0.0)
	}
}

func TestRepo_TimeSeries(t *testing.T) {
	r := newRepo()
	pts, err := r.TimeSeries(context.Background(), domain.SeriesVibration, 8, "")
	require.NoError(t, err)
	require.Len(t, pts, 96)
	assert.Equal(t, fixedNow.Add(-8*time.Hour), pts[0].Time)
	assert.Equal(t, 5*time.Minute, pts[1].Time.Sub(pts[0].Time))
	for _, p := range pts {
		assert.GreaterOrEqual(t, p.Value, 0.0)
	}

	none, err := r.TimeSeries(context.Background(), domain.SeriesVibration, 0, "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRepo_ProductionCycles(t *testing.T) {
	r := newRepo()
	cycles, err := r.ProductionCycles(context.Background(), "Line-A-Press-01", 10)
	require.NoError(t, err)
	require.Len(t, cycles, 10)
	assert.Equal(t, "C1000", cycles[0].ID)
	assert.Equal(t, "C1009", cycles[9].ID)
	for _, c := range cycles {
		assert.True(t, c.End.After(c.Start) || c.CycleTime <= 0)
		switch {
		case c.QualityScore > 90:
			assert.Equal(t, domain.CyclePass, c.Result)
		case c.QualityScore > 80:
			assert.Equal(t, domain.CycleInspect, c.Result)
		}
	}
}

func TestRepo_Historical_WeekendsAndOrder(t *testing.T) {
	r := newRepo()
	vals, err := r.Historical(context.Background(), domain.HistoricalProduction, 7, "")
	require.NoError(t, err)
	require.Len(t, vals, 7)
	assert.Equal(t, time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), vals[0].Date)
	for i := 1; i < len(vals); i++ {
		assert.True(t, vals[i].Date.After(vals[i-1].Date))
	}

	q, err := r.Historical(context.Background(), domain.HistoricalQuality, 30, "")
	require.NoError(t, err)
	for _, v := range q {
		assert.LessOrEqual(t, v.Value, 100.0)
	}
}

func TestRepo_DowntimeEvents(t *testing.T) {
	r := newRepo()
	events, err := r.DowntimeEvents(context.Background(), 7)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(events), 7)
	assert.LessOrEqual(t, len(events), 28)
	for i, e := range events {
		if i > 0 {
			assert.False(t, e.Start.After(events[i-1].Start), "events must be newest first")
		}
		mins := e.Duration.Minutes()
		switch {
		case mins > 120:
			assert.Equal(t, domain.DowntimeCritical, e.Severity)
		case mins > 60:
			assert.Equal(t, domain.DowntimeMajor, e.Severity)
		default:
			assert.Equal(t, domain.DowntimeMinor, e.Severity)
		}
		assert.Contains(t, downtimeReasons, e.Reason)
	}
}
