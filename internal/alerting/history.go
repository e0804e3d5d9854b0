package alerting

import (
	"errors"
	"sync"
	"time"

	"github.com/HaPhanBaoMinh/mfgdash/internal/domain"
)

// Retention is how long alerts stay in the history.
const Retention = 24 * time.Hour

var ErrAlertNotFound = errors.New("alert not found")

// Summary counts alerts per severity. Every bucket is always present.
type Summary struct {
	Critical int
	Major    int
	Warning  int
	Info     int
}

func (s Summary) Count(sev domain.Severity) int {
	switch sev {
	case domain.SeverityCritical:
		return s.Critical
	case domain.SeverityMajor:
		return s.Major
	case domain.SeverityWarning:
		return s.Warning
	case domain.SeverityInfo:
		return s.Info
	default:
		return 0
	}
}

func (s Summary) Total() int {
	return s.Critical + s.Major + s.Warning + s.Info
}

// History is an insertion ordered alert log pruned to Retention.
// One instance belongs to one session.
type History struct {
	mu      sync.RWMutex
	entries []domain.Alert
	acked   map[string]time.Time
	now     func() time.Time
}

type HistoryOption func(*History)

func WithHistoryClock(now func() time.Time) HistoryOption {
	return func(h *History) { h.now = now }
}

func NewHistory(opts ...HistoryOption) *History {
	h := &History{
		entries: make([]domain.Alert, 0),
		acked:   make(map[string]time.Time),
		now:     time.Now,
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Append adds alerts in order and then prunes against the current time.
func (h *History) Append(alerts ...domain.Alert) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, alerts...)
	h.prune(h.now())
}

// Prune drops every alert created at or before now minus Retention and
// returns how many were removed.
func (h *History) Prune(now time.Time) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.prune(now)
}

func (h *History) prune(now time.Time) int {
	cutoff := now.Add(-Retention)
	return h.removeWhere(func(a domain.Alert) bool { return !a.CreatedAt.After(cutoff) })
}

// removeWhere must be called with the write lock held.
func (h *History) removeWhere(drop func(domain.Alert) bool) int {
	kept := h.entries[:0]
	removed := 0
	for _, a := range h.entries {
		if drop(a) {
			delete(h.acked, a.ID)
			removed++
			continue
		}
		kept = append(kept, a)
	}
	// zero the tail so dropped alerts can be collected
	for i := len(kept); i < len(h.entries); i++ {
		h.entries[i] = domain.Alert{}
	}
	h.entries = kept
	return removed
}

// Query returns alerts created within window of now, oldest first.
// A non-positive window means Retention.
func (h *History) Query(window time.Duration) []domain.Alert {
	if window <= 0 {
		window = Retention
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	cutoff := h.now().Add(-window)
	out := make([]domain.Alert, 0, len(h.entries))
	for _, a := range h.entries {
		if a.CreatedAt.After(cutoff) {
			out = append(out, a)
		}
	}
	return out
}

// Summarize counts the alerts of the last Retention window by severity.
func (h *History) Summarize() Summary {
	var s Summary
	for _, a := range h.Query(Retention) {
		switch a.Severity {
		case domain.SeverityCritical:
			s.Critical++
		case domain.SeverityMajor:
			s.Major++
		case domain.SeverityWarning:
			s.Warning++
		case domain.SeverityInfo:
			s.Info++
		}
	}
	return s
}

// Acknowledge marks the alert with id as seen. The alert itself is not modified.
func (h *History) Acknowledge(id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, a := range h.entries {
		if a.ID == id {
			if _, ok := h.acked[id]; !ok {
				h.acked[id] = h.now()
			}
			return nil
		}
	}
	return ErrAlertNotFound
}

func (h *History) Acknowledged(id string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.acked[id]
	return ok
}

// Clear removes the alerts of machine, or everything when machine is empty.
// It returns the number of removed alerts.
func (h *History) Clear(machine string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if machine == "" {
		n := len(h.entries)
		h.entries = make([]domain.Alert, 0)
		h.acked = make(map[string]time.Time)
		return n
	}
	return h.removeWhere(func(a domain.Alert) bool { return a.Machine == machine })
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}
