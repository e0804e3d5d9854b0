package mock

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/HaPhanBaoMinh/mfgdash/internal/domain"
)

var ErrUnknownMachine = errors.New("unknown machine")

type machineConfig struct {
	baseTemp       float64
	baseProduction float64
	baseEfficiency float64
}

var machines = []string{
	"Line-A-Press-01", "Line-A-Assembly-02", "Line-B-Welding-03",
	"Line-B-Paint-04", "Line-C-Packaging-05", "Quality-Station-06",
}

var machineConfigs = map[string]machineConfig{
	"Line-A-Press-01":     {baseTemp: 45, baseProduction: 120, baseEfficiency: 85},
	"Line-A-Assembly-02":  {baseTemp: 35, baseProduction: 80, baseEfficiency: 90},
	"Line-B-Welding-03":   {baseTemp: 65, baseProduction: 60, baseEfficiency: 82},
	"Line-B-Paint-04":     {baseTemp: 40, baseProduction: 75, baseEfficiency: 88},
	"Line-C-Packaging-05": {baseTemp: 30, baseProduction: 150, baseEfficiency: 92},
	"Quality-Station-06":  {baseTemp: 25, baseProduction: 200, baseEfficiency: 95},
}

var downtimeReasons = []string{
	"Planned Maintenance", "Material Shortage", "Tool Change",
	"Quality Issue", "Machine Breakdown", "Setup/Changeover",
}

// Repo simulates a plant. Every call draws fresh values.
type Repo struct {
	mu  sync.Mutex // rand.Rand is not safe for concurrent use
	rnd *rand.Rand
	now func() time.Time
}

func New() *Repo {
	return NewWithSeed(time.Now().UnixNano())
}

func NewWithSeed(seed int64) *Repo {
	return &Repo{rnd: rand.New(rand.NewSource(seed)), now: time.Now}
}

// WithClock replaces the wall clock, mostly for tests.
func (r *Repo) WithClock(now func() time.Time) *Repo {
	r.now = now
	return r
}

func (r *Repo) Machines(ctx context.Context) ([]string, error) {
	out := make([]string, len(machines))
	copy(out, machines)
	return out, nil
}

func (r *Repo) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	day := dayFactor(now.Hour())

	oee := clamp(75+15*day+r.gauss(0, 3), 50, 95)
	return domain.Snapshot{
		OEE:             oee,
		OEETrend:        r.gauss(0, 2),
		Availability:    oee + r.gauss(5, 3),
		Performance:     oee + r.gauss(2, 4),
		Quality:         oee + r.gauss(8, 2),
		ProductionCount: math.Trunc(1200*day + r.gauss(0, 100)),
		ProductionTrend: r.gauss(0, 50),
		DowntimeMinutes: math.Max(0, math.Trunc(60-40*day+r.gauss(0, 15))),
		DowntimeTrend:   r.gauss(0, 10),
		CycleTime:       45 + r.gauss(0, 5) - 10*(day-0.5),
		CycleTrend:      r.gauss(0, 2),
		TakenAt:         now,
	}, nil
}

func (r *Repo) MachineStatus(ctx context.Context, machine string) (domain.MachineStatus, error) {
	cfg, ok := machineConfigs[machine]
	if !ok {
		return domain.MachineStatus{}, fmt.Errorf("%w: %q", ErrUnknownMachine, machine)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status(machine, cfg), nil
}

func (r *Repo) status(machine string, cfg machineConfig) domain.MachineStatus {
	var state domain.MachineState
	var eff float64
	switch p := r.rnd.Float64(); {
	case p < 0.15:
		state = domain.StateError
		eff = r.uniform(0, 30)
	case p < 0.25:
		state = domain.StateIdle
		eff = r.uniform(0, 10)
	default:
		state = domain.StateRunning
		eff = cfg.baseEfficiency + r.gauss(0, 8)
	}

	return domain.MachineStatus{
		Machine:        machine,
		Status:         state,
		Efficiency:     clamp(eff, 0, 100),
		Temperature:    cfg.baseTemp + r.gauss(0, 8),
		Vibration:      math.Abs(r.gauss(2.5, 1.0)),
		ProductionRate: cfg.baseProduction + r.gauss(0, 15),
		LastUpdate:     r.now(),
	}
}

func (r *Repo) MachineDetail(ctx context.Context, machine string) (domain.MachineDetail, error) {
	cfg, ok := machineConfigs[machine]
	if !ok {
		return domain.MachineDetail{}, fmt.Errorf("%w: %q", ErrUnknownMachine, machine)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return domain.MachineDetail{
		MachineStatus:      r.status(machine, cfg),
		UptimeHours:        r.uniform(120, 168),
		ProductionToday:    int(cfg.baseProduction * 8 * r.uniform(0.7, 1.1)),
		DefectRate:         r.uniform(0.1, 3.0),
		MaintenanceDueDays: r.intBetween(5, 45),
	}, nil
}

// TimeSeries returns one point every five minutes over the last hours.
// An empty machine means plant-wide values.
func (r *Repo) TimeSeries(ctx context.Context, metric domain.SeriesMetric, hours int, machine string) ([]domain.SeriesPoint, error) {
	cfg, hasCfg := machineConfigs[machine]
	if machine != "" && !hasCfg {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMachine, machine)
	}
	if hours <= 0 {
		return nil, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	start := r.now().Add(-time.Duration(hours) * time.Hour)
	n := hours * 12
	out := make([]domain.SeriesPoint, 0, n)
	for i := 0; i < n; i++ {
		ts := start.Add(time.Duration(i*5) * time.Minute)
		hf := dayFactor(ts.Hour())
		noise := r.gauss(0, 0.1)

		var v float64
		switch metric {
		case domain.SeriesProductionRate:
			base := 100 * hf
			v = base + base*noise
			if hasCfg {
				v = cfg.baseProduction * (1 + noise)
			}
		case domain.SeriesTemperature:
			base := 50.0
			if hasCfg {
				base = cfg.baseTemp
			}
			v = base + 10*noise + 5*math.Sin(2*math.Pi*float64(i)/144)
		case domain.SeriesVibration:
			v = math.Abs(2.0 + 2.0*noise*0.5)
		case domain.SeriesEfficiency:
			base := 85 * hf
			v = base + base*noise*0.1
			if hasCfg {
				v = cfg.baseEfficiency * (1 + noise*0.1)
			}
		default:
			v = 50 + 30*hf + 20*noise
		}
		out = append(out, domain.SeriesPoint{Time: ts, Value: math.Max(0, v)})
	}
	return out, nil
}

func (r *Repo) ProductionCycles(ctx context.Context, machine string, count int) ([]domain.ProductionCycle, error) {
	if _, ok := machineConfigs[machine]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMachine, machine)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	base := r.now()
	out := make([]domain.ProductionCycle, 0, count)
	for i := 0; i < count; i++ {
		start := base.Add(-time.Duration(i*15+r.intBetween(0, 10)) * time.Minute)
		secs := 45 + r.gauss(0, 8)
		ct := time.Duration(secs * float64(time.Second))
		q := r.uniform(85, 100)

		res := domain.CycleFail
		switch {
		case q > 90:
			res = domain.CyclePass
		case q > 80:
			res = domain.CycleInspect
		}
		out = append(out, domain.ProductionCycle{
			ID:           fmt.Sprintf("C%d", 1000+i),
			Start:        start,
			End:          start.Add(ct),
			CycleTime:    ct,
			QualityScore: q,
			Result:       res,
		})
	}
	return out, nil
}

// Historical returns one value per day for the last days, oldest first.
// Weekends run at 70% and the series drifts up by 10% over the range.
func (r *Repo) Historical(ctx context.Context, metric domain.HistoricalMetric, days int, machine string) ([]domain.DailyValue, error) {
	cfg, hasCfg := machineConfigs[machine]
	if machine != "" && !hasCfg {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMachine, machine)
	}
	if days <= 0 {
		return nil, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	start := truncateDay(r.now()).AddDate(0, 0, -days)
	out := make([]domain.DailyValue, 0, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		wf := 1.0
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			wf = 0.7
		}
		tf := 1 + float64(i)/float64(days)*0.1
		noise := r.gauss(0, 0.15)

		var v float64
		switch metric {
		case domain.HistoricalProduction:
			v = math.Trunc(8000 * wf * tf * (1 + noise))
		case domain.HistoricalEfficiency:
			base := 85.0
			if hasCfg {
				base = cfg.baseEfficiency
			}
			v = base * wf * tf * (1 + noise*0.1)
		case domain.HistoricalDowntime:
			v = 120 / wf * (1 + noise)
		case domain.HistoricalQuality:
			v = math.Min(100, 94*(1+noise*0.05)+2*float64(i)/float64(days))
		default:
			v = 100 * wf * tf * (1 + noise)
		}
		out = append(out, domain.DailyValue{Date: date, Value: math.Max(0, v)})
	}
	return out, nil
}

func (r *Repo) DowntimeEvents(ctx context.Context, days int) ([]domain.DowntimeEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	today := truncateDay(r.now())
	var out []domain.DowntimeEvent
	for day := 0; day < days; day++ {
		date := today.AddDate(0, 0, -(days - day))
		for n := r.intBetween(1, 4); n > 0; n-- {
			minutes := r.intBetween(5, 180)
			sev := domain.DowntimeMinor
			switch {
			case minutes > 120:
				sev = domain.DowntimeCritical
			case minutes > 60:
				sev = domain.DowntimeMajor
			}
			start := date.Add(time.Duration(r.intBetween(6, 22))*time.Hour +
				time.Duration(r.intBetween(0, 59))*time.Minute)
			out = append(out, domain.DowntimeEvent{
				Machine:  machines[r.rnd.Intn(len(machines))],
				Reason:   downtimeReasons[r.rnd.Intn(len(downtimeReasons))],
				Start:    start,
				Duration: time.Duration(minutes) * time.Minute,
				Severity: sev,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.After(out[j].Start) })
	return out, nil
}

// helpers
func (r *Repo) gauss(mean, sd float64) float64 {
	return mean + sd*r.rnd.NormFloat64()
}

func (r *Repo) uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*r.rnd.Float64()
}

// intBetween is inclusive on both ends.
func (r *Repo) intBetween(lo, hi int) int {
	return lo + r.rnd.Intn(hi-lo+1)
}

// dayFactor peaks at 1.2 mid shift and bottoms at 0.4.
func dayFactor(hour int) float64 {
	return 0.8 + 0.4*math.Sin(2*math.Pi*float64(hour)/24)
}

func clamp(f, lo, hi float64) float64 {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
