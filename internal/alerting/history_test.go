package alerting

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HaPhanBaoMinh/mfgdash/internal/domain"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func alertAt(id, machine string, sev domain.Severity, at time.Time) domain.Alert {
	return domain.Alert{ID: id, Machine: machine, Severity: sev, CreatedAt: at}
}

func ids(alerts []domain.Alert) []string {
	out := make([]string, len(alerts))
	for i, a := range alerts {
		out[i] = a.ID
	}
	return out
}

func TestHistory_PruneKeepsOnlyRetentionWindow(t *testing.T) {
	c := &clock{t: time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)}
	h := NewHistory(WithHistoryClock(c.now))

	// one alert every 2h over 48h, inserted oldest first
	start := c.t.Add(-48 * time.Hour)
	var all []domain.Alert
	for i := 0; i <= 24; i++ {
		all = append(all, alertAt(fmt.Sprintf("a%02d", i), "M1", domain.SeverityInfo, start.Add(time.Duration(i)*2*time.Hour)))
	}
	h.mu.Lock()
	h.entries = append(h.entries, all...)
	h.mu.Unlock()

	removed := h.Prune(c.t)

	cutoff := c.t.Add(-Retention)
	var want []string
	for _, a := range all {
		if a.CreatedAt.After(cutoff) {
			want = append(want, a.ID)
		}
	}
	assert.Equal(t, len(all)-len(want), removed)
	assert.Equal(t, want, ids(h.Query(24*time.Hour)))
	assert.Equal(t, want, ids(h.Query(0)))
}

func TestHistory_BoundaryIsExclusive(t *testing.T) {
	c := &clock{t: time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)}
	h := NewHistory(WithHistoryClock(c.now))
	h.Append(
		alertAt("edge", "M1", domain.SeverityInfo, c.t.Add(-Retention)),
		alertAt("inside", "M1", domain.SeverityInfo, c.t.Add(-Retention+time.Second)),
	)
	assert.Equal(t, []string{"inside"}, ids(h.Query(Retention)))
}

func TestHistory_AppendPrunesWithClock(t *testing.T) {
	c := &clock{t: time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)}
	h := NewHistory(WithHistoryClock(c.now))
	h.Append(alertAt("old", "M1", domain.SeverityMajor, c.t))

	c.advance(25 * time.Hour)
	h.Append(alertAt("new", "M1", domain.SeverityMajor, c.t))

	assert.Equal(t, 1, h.Len())
	assert.Equal(t, []string{"new"}, ids(h.Query(Retention)))
}

func TestHistory_QueryShorterWindowPreservesOrder(t *testing.T) {
	c := &clock{t: time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)}
	h := NewHistory(WithHistoryClock(c.now))
	h.Append(
		alertAt("a", "M1", domain.SeverityInfo, c.t.Add(-5*time.Hour)),
		alertAt("b", "M2", domain.SeverityInfo, c.t.Add(-90*time.Minute)),
		alertAt("c", "M1", domain.SeverityInfo, c.t.Add(-30*time.Minute)),
	)
	assert.Equal(t, []string{"b", "c"}, ids(h.Query(2*time.Hour)))
	assert.Equal(t, []string{"a", "b", "c"}, ids(h.Query(Retention)))
}

func TestHistory_SummarizeMatchesQuery(t *testing.T) {
	c := &clock{t: time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)}
	h := NewHistory(WithHistoryClock(c.now))

	sevs := []domain.Severity{
		domain.SeverityCritical, domain.SeverityInfo, domain.SeverityWarning,
		domain.SeverityCritical, domain.SeverityWarning, domain.SeverityCritical,
	}
	for i, s := range sevs {
		h.Append(alertAt(fmt.Sprint(i), "M1", s, c.t.Add(-time.Duration(i)*time.Hour)))
	}

	sum := h.Summarize()
	assert.Equal(t, Summary{Critical: 3, Major: 0, Warning: 2, Info: 1}, sum)
	assert.Equal(t, 0, sum.Count(domain.SeverityMajor))
	assert.Equal(t, len(h.Query(Retention)), sum.Total())
}

func TestHistory_ClearAll(t *testing.T) {
	c := &clock{t: time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)}
	h := NewHistory(WithHistoryClock(c.now))
	h.Append(
		alertAt("a", "M1", domain.SeverityCritical, c.t),
		alertAt("b", "M2", domain.SeverityInfo, c.t),
	)
	require.NoError(t, h.Acknowledge("a"))

	assert.Equal(t, 2, h.Clear(""))
	assert.Empty(t, h.Query(Retention))
	assert.Empty(t, h.Query(time.Hour))
	assert.Equal(t, Summary{}, h.Summarize())
	assert.False(t, h.Acknowledged("a"))

	// clearing again is harmless
	assert.Equal(t, 0, h.Clear(""))
	assert.Equal(t, Summary{}, h.Summarize())
}

func TestHistory_ClearMachine(t *testing.T) {
	c := &clock{t: time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)}
	h := NewHistory(WithHistoryClock(c.now))
	h.Append(
		alertAt("a", "X", domain.SeverityCritical, c.t),
		alertAt("b", "Y", domain.SeverityInfo, c.t),
		alertAt("c", "X", domain.SeverityInfo, c.t),
		alertAt("d", domain.SystemWide, domain.SeverityCritical, c.t),
		alertAt("e", "Y", domain.SeverityMajor, c.t),
	)

	assert.Equal(t, 2, h.Clear("X"))
	assert.Equal(t, []string{"b", "d", "e"}, ids(h.Query(Retention)))
	assert.Equal(t, 0, h.Clear("nobody"))
	assert.Equal(t, 3, h.Len())
}

func TestHistory_Acknowledge(t *testing.T) {
	c := &clock{t: time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)}
	h := NewHistory(WithHistoryClock(c.now))
	h.Append(alertAt("a", "M1", domain.SeverityWarning, c.t))

	assert.ErrorIs(t, h.Acknowledge("missing"), ErrAlertNotFound)
	assert.False(t, h.Acknowledged("a"))

	require.NoError(t, h.Acknowledge("a"))
	require.NoError(t, h.Acknowledge("a"))
	assert.True(t, h.Acknowledged("a"))

	// the record itself is untouched
	got := h.Query(Retention)[0]
	assert.Equal(t, alertAt("a", "M1", domain.SeverityWarning, c.t), got)

	c.advance(Retention + time.Minute)
	h.Prune(c.t)
	assert.False(t, h.Acknowledged("a"))
}

func TestHistory_QueryReturnsCopy(t *testing.T) {
	c := &clock{t: time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)}
	h := NewHistory(WithHistoryClock(c.now))
	h.Append(alertAt("a", "M1", domain.SeverityWarning, c.t))

	got := h.Query(Retention)
	got[0].Machine = "tampered"
	assert.Equal(t, "M1", h.Query(Retention)[0].Machine)
}
