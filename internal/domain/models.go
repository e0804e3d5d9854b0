package domain

import "time"

type MachineState string

const (
	StateRunning MachineState = "Running"
	StateIdle    MachineState = "Idle"
	StateError   MachineState = "Error"
)

func (s MachineState) IsValid() bool {
	switch s {
	case StateRunning, StateIdle, StateError:
		return true
	default:
		return false
	}
}

// Snapshot is the plant-wide KPI reading taken once per refresh.
// Percentages are 0..100, counts are kept as float64 like the rest.
type Snapshot struct {
	OEE             float64
	OEETrend        float64
	Availability    float64
	Performance     float64
	Quality         float64
	ProductionCount float64
	ProductionTrend float64
	DowntimeMinutes float64
	DowntimeTrend   float64
	CycleTime       float64 // seconds
	CycleTrend      float64
	TakenAt         time.Time
}

type MachineStatus struct {
	Machine        string
	Status         MachineState
	Efficiency     float64 // 0..100
	Temperature    float64 // °C
	Vibration      float64 // mm/s, >= 0
	ProductionRate float64 // units/hour
	LastUpdate     time.Time
}

type MachineDetail struct {
	MachineStatus
	UptimeHours        float64 // last week
	ProductionToday    int
	DefectRate         float64 // %
	MaintenanceDueDays int
}

type SeriesMetric string

const (
	SeriesProductionRate SeriesMetric = "production_rate"
	SeriesTemperature    SeriesMetric = "temperature"
	SeriesVibration      SeriesMetric = "vibration"
	SeriesEfficiency     SeriesMetric = "efficiency"
)

type SeriesPoint struct {
	Time  time.Time
	Value float64
}

// Values strips timestamps so the points can be fed to sparkline widgets.
func Values(points []SeriesPoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Value
	}
	return out
}

type CycleResult string

const (
	CyclePass    CycleResult = "Pass"
	CycleInspect CycleResult = "Inspect"
	CycleFail    CycleResult = "Fail"
)

type ProductionCycle struct {
	ID           string
	Start        time.Time
	End          time.Time
	CycleTime    time.Duration
	QualityScore float64
	Result       CycleResult
}

type HistoricalMetric string

const (
	HistoricalProduction HistoricalMetric = "production"
	HistoricalEfficiency HistoricalMetric = "efficiency"
	HistoricalDowntime   HistoricalMetric = "downtime"
	HistoricalQuality    HistoricalMetric = "quality"
)

type DailyValue struct {
	Date  time.Time
	Value float64
}

type DowntimeSeverity string

const (
	DowntimeCritical DowntimeSeverity = "Critical"
	DowntimeMajor    DowntimeSeverity = "Major"
	DowntimeMinor    DowntimeSeverity = "Minor"
)

type DowntimeEvent struct {
	Machine  string
	Reason   string
	Start    time.Time
	Duration time.Duration
	Severity DowntimeSeverity
}
