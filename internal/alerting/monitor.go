package alerting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/HaPhanBaoMinh/mfgdash/internal/domain"
)

var (
	ErrInvalidStatus    = errors.New("invalid machine status")
	ErrNoStatusProvider = errors.New("no status provider")
)

// Recorder observes evaluations. internal/metrics has the Prometheus one.
type Recorder interface {
	Evaluated(d time.Duration, err error)
	AlertRaised(a domain.Alert)
	HistorySize(n int)
	ThresholdsChanged(s Set)
}

type noopRecorder struct{}

func (noopRecorder) Evaluated(time.Duration, error) {}
func (noopRecorder) AlertRaised(domain.Alert)       {}
func (noopRecorder) HistorySize(int)                {}
func (noopRecorder) ThresholdsChanged(Set)          {}

// Monitor is the alerting state of one dashboard session: live thresholds,
// the alert history and, optionally, a simulated environment.
type Monitor struct {
	thresholds  *Thresholds
	history     *History
	environment EnvironmentSource
	recorder    Recorder
	log         zerolog.Logger
	now         func() time.Time
}

type Option func(*Monitor)

func WithThresholds(t *Thresholds) Option {
	return func(m *Monitor) { m.thresholds = t }
}

func WithHistory(h *History) Option {
	return func(m *Monitor) { m.history = h }
}

// WithEnvironment enables simulated environmental alerts. Without it
// only threshold checks produce alerts.
func WithEnvironment(e EnvironmentSource) Option {
	return func(m *Monitor) { m.environment = e }
}

func WithRecorder(r Recorder) Option {
	return func(m *Monitor) { m.recorder = r }
}

func WithLogger(l zerolog.Logger) Option {
	return func(m *Monitor) { m.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(m *Monitor) { m.now = now }
}

func NewMonitor(opts ...Option) *Monitor {
	m := &Monitor{
		recorder: noopRecorder{},
		log:      zerolog.Nop(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	if m.thresholds == nil {
		m.thresholds = NewThresholds()
	}
	if m.history == nil {
		m.history = NewHistory(WithHistoryClock(m.now))
	}
	m.recorder.ThresholdsChanged(m.thresholds.Current())
	return m
}

func (m *Monitor) Thresholds() *Thresholds { return m.thresholds }
func (m *Monitor) History() *History       { return m.history }

// Environment is nil when environmental alerts are off.
func (m *Monitor) Environment() EnvironmentSource { return m.environment }

// UpdateThresholds merges partial into the live thresholds.
func (m *Monitor) UpdateThresholds(partial Set) error {
	if err := m.thresholds.Update(partial); err != nil {
		return err
	}
	cur := m.thresholds.Current()
	m.recorder.ThresholdsChanged(cur)
	m.log.Info().Interface("thresholds", cur).Msg("thresholds updated")
	return nil
}

// ResetThresholds restores the built-in limits.
func (m *Monitor) ResetThresholds() {
	m.thresholds.Reset()
	cur := m.thresholds.Current()
	m.recorder.ThresholdsChanged(cur)
	m.log.Info().Interface("thresholds", cur).Msg("thresholds reset")
}

// ClearHistory drops the alerts of machine, or all of them when machine is empty.
func (m *Monitor) ClearHistory(machine string) int {
	n := m.history.Clear(machine)
	m.recorder.HistorySize(m.history.Len())
	m.log.Info().Str("machine", machine).Int("removed", n).Msg("alert history cleared")
	return n
}

func (m *Monitor) Acknowledge(id string) error {
	if err := m.history.Acknowledge(id); err != nil {
		return fmt.Errorf("acknowledge %s: %w", id, err)
	}
	m.log.Info().Str("alert_id", id).Msg("alert acknowledged")
	return nil
}

// Evaluate checks one snapshot and a fresh status for every machine against
// the current thresholds. The produced alerts are appended to the history
// and returned. A failing or malformed status rejects the whole call:
// nothing is recorded.
func (m *Monitor) Evaluate(ctx context.Context, snap domain.Snapshot, machines []string, statuses domain.StatusProvider) ([]domain.Alert, error) {
	start := time.Now()
	alerts, err := m.evaluate(ctx, snap, machines, statuses)
	m.recorder.Evaluated(time.Since(start), err)
	if err != nil {
		m.log.Error().Err(err).Msg("evaluation rejected")
		return nil, err
	}

	m.history.Append(alerts...)
	for _, a := range alerts {
		m.recorder.AlertRaised(a)
	}
	m.recorder.HistorySize(m.history.Len())

	m.log.Debug().
		Int("alerts", len(alerts)).
		Int("machines", len(machines)).
		Dur("took", time.Since(start)).
		Msg("evaluation done")
	return alerts, nil
}

func (m *Monitor) evaluate(ctx context.Context, snap domain.Snapshot, machines []string, statuses domain.StatusProvider) ([]domain.Alert, error) {
	if statuses == nil && len(machines) > 0 {
		return nil, fmt.Errorf("evaluate %d machines: %w", len(machines), ErrNoStatusProvider)
	}
	th := m.thresholds.Current()
	createdAt := m.now()

	var alerts []domain.Alert
	raise := func(f finding) {
		alerts = append(alerts, m.build(f, createdAt))
	}

	if snap.OEE < th[OEELow] {
		raise(finding{
			severity: domain.SeverityCritical,
			title:    "Low Overall Equipment Effectiveness",
			message:  fmt.Sprintf("OEE has dropped to %.1f%%, below threshold of %s%%", snap.OEE, limit(th[OEELow])),
			machine:  domain.SystemWide,
			metric:   "OEE",
			value:    snap.OEE,
		})
	}

	for _, name := range machines {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		st, err := statuses.MachineStatus(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("status of %s: %w", name, err)
		}
		if !st.Status.IsValid() {
			return nil, fmt.Errorf("status of %s: %w: %q", name, ErrInvalidStatus, st.Status)
		}
		for _, f := range checkMachine(name, st, th) {
			raise(f)
		}
	}

	if m.environment != nil {
		if a, ok := m.environment.Next(); ok {
			raise(finding{
				severity: a.Severity,
				title:    a.Title,
				message:  a.Message,
				machine:  a.Machine,
				metric:   a.Metric,
				value:    a.Value,
			})
		}
	}
	return alerts, nil
}

// build stamps identity and times onto a finding. The display timestamp is
// read per alert; CreatedAt is shared by the whole evaluation.
func (m *Monitor) build(f finding, createdAt time.Time) domain.Alert {
	return domain.Alert{
		ID:        uuid.NewString(),
		Severity:  f.severity,
		Title:     f.title,
		Message:   f.message,
		Machine:   f.machine,
		Timestamp: m.now().Format("15:04:05"),
		Metric:    f.metric,
		Value:     f.value,
		CreatedAt: createdAt,
	}
}
