package alerting

import (
	"math/rand"
	"sync"
	"time"

	"github.com/HaPhanBaoMinh/mfgdash/internal/domain"
)

// EnvironmentSource produces alerts that do not come from threshold checks.
// Next returns false when nothing should be raised this round. The Monitor
// fills in ID, Timestamp and CreatedAt.
type EnvironmentSource interface {
	Next() (domain.Alert, bool)
}

// DefaultEnvironmentProbability is the chance of one simulated alert per evaluation.
const DefaultEnvironmentProbability = 0.3

var environmentCatalog = []domain.Alert{
	{
		Severity: domain.SeverityWarning,
		Title:    "Material Low",
		Message:  "Raw material inventory is running low for Line-A",
		Machine:  "Line-A-Press-01",
		Metric:   "Inventory",
		Value:    "Low",
	},
	{
		Severity: domain.SeverityInfo,
		Title:    "Planned Maintenance Due",
		Message:  "Scheduled maintenance window approaching in 2 hours",
		Machine:  "Line-B-Welding-03",
		Metric:   "Maintenance",
		Value:    "Due",
	},
	{
		Severity: domain.SeverityMajor,
		Title:    "Quality Check Required",
		Message:  "Quality parameters showing deviation from specification",
		Machine:  "Quality-Station-06",
		Metric:   "Quality",
		Value:    "Deviation",
	},
}

// EnvironmentCatalog returns the canned environmental alerts.
func EnvironmentCatalog() []domain.Alert {
	out := make([]domain.Alert, len(environmentCatalog))
	copy(out, environmentCatalog)
	return out
}

// SimulatedEnvironment raises one canned alert, picked uniformly, with a fixed probability.
type SimulatedEnvironment struct {
	mu          sync.Mutex
	rnd         *rand.Rand
	probability float64
}

// NewSimulatedEnvironment clamps probability into [0, 1]. A zero seed seeds from the clock.
func NewSimulatedEnvironment(probability float64, seed int64) *SimulatedEnvironment {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	switch {
	case probability < 0:
		probability = 0
	case probability > 1:
		probability = 1
	}
	return &SimulatedEnvironment{
		rnd:         rand.New(rand.NewSource(seed)),
		probability: probability,
	}
}

func (s *SimulatedEnvironment) Next() (domain.Alert, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rnd.Float64() >= s.probability {
		return domain.Alert{}, false
	}
	return environmentCatalog[s.rnd.Intn(len(environmentCatalog))], true
}

func (s *SimulatedEnvironment) Probability() float64 {
	return s.probability
}
