package alerting

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Key names one threshold.
type Key string

const (
	TempHigh      Key = "temp_high"
	TempLow       Key = "temp_low"
	VibrationHigh Key = "vibration_high"
	ProductionLow Key = "production_low"
	EfficiencyLow Key = "efficiency_low"
	OEELow        Key = "oee_low"
)

// Keys in display order.
var Keys = []Key{TempHigh, TempLow, VibrationHigh, ProductionLow, EfficiencyLow, OEELow}

var ErrUnknownThreshold = errors.New("unknown threshold")

func (k Key) IsValid() bool {
	switch k {
	case TempHigh, TempLow, VibrationHigh, ProductionLow, EfficiencyLow, OEELow:
		return true
	default:
		return false
	}
}

// Set maps threshold keys to limits.
type Set map[Key]float64

// Defaults returns a fresh copy of the built-in limits.
func Defaults() Set {
	return Set{
		TempHigh:      75.0,
		TempLow:       25.0,
		VibrationHigh: 5.0,
		ProductionLow: 50,
		EfficiencyLow: 70.0,
		OEELow:        60.0,
	}
}

// ParseSet converts a loosely typed map (config files, forms) into a Set.
func ParseSet(m map[string]float64) (Set, error) {
	out := make(Set, len(m))
	var bad []string
	for k, v := range m {
		key := Key(k)
		if !key.IsValid() {
			bad = append(bad, k)
			continue
		}
		out[key] = v
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return nil, fmt.Errorf("%w: %v", ErrUnknownThreshold, bad)
	}
	return out, nil
}

// Thresholds is the live, user adjustable threshold set.
// Values are not range checked: a negative or inverted limit is accepted as is.
type Thresholds struct {
	mu     sync.RWMutex
	values Set
}

func NewThresholds() *Thresholds {
	return &Thresholds{values: Defaults()}
}

// Update merges partial into the live set. Keys missing from partial keep their value.
// An unknown key rejects the whole update.
func (t *Thresholds) Update(partial Set) error {
	for k := range partial {
		if !k.IsValid() {
			return fmt.Errorf("%w: %q", ErrUnknownThreshold, k)
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for k, v := range partial {
		t.values[k] = v
	}
	return nil
}

func (t *Thresholds) Get(k Key) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.values[k]
}

// Current returns a copy that is safe to read while the store changes.
func (t *Thresholds) Current() Set {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(Set, len(t.values))
	for k, v := range t.values {
		out[k] = v
	}
	return out
}

// Reset restores the defaults.
func (t *Thresholds) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.values = Defaults()
}
