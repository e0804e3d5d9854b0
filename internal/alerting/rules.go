package alerting

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/HaPhanBaoMinh/mfgdash/internal/domain"
)

// finding is an alert before it gets an identity and timestamps.
type finding struct {
	severity domain.Severity
	title    string
	message  string
	machine  string
	metric   string
	value    any
}

// checkMachine runs every per machine rule. Rules on different metrics are
// independent; high and low temperature exclude each other.
func checkMachine(name string, st domain.MachineStatus, th Set) []finding {
	var out []finding

	switch {
	case st.Temperature > th[TempHigh]:
		out = append(out, finding{
			severity: domain.SeverityWarning,
			title:    "High Temperature Alert",
			message:  fmt.Sprintf("Temperature is %.1f°C, exceeding %s°C threshold", st.Temperature, limit(th[TempHigh])),
			machine:  name,
			metric:   "Temperature",
			value:    st.Temperature,
		})
	case st.Temperature < th[TempLow]:
		out = append(out, finding{
			severity: domain.SeverityInfo,
			title:    "Low Temperature Alert",
			message:  fmt.Sprintf("Temperature is %.1f°C, below %s°C threshold", st.Temperature, limit(th[TempLow])),
			machine:  name,
			metric:   "Temperature",
			value:    st.Temperature,
		})
	}

	if st.Vibration > th[VibrationHigh] {
		out = append(out, finding{
			severity: domain.SeverityCritical,
			title:    "High Vibration Detected",
			message:  fmt.Sprintf("Vibration level is %.2fmm/s, exceeding safe threshold of %smm/s", st.Vibration, limit(th[VibrationHigh])),
			machine:  name,
			metric:   "Vibration",
			value:    st.Vibration,
		})
	}

	if st.ProductionRate < th[ProductionLow] {
		out = append(out, finding{
			severity: domain.SeverityWarning,
			title:    "Low Production Rate",
			message:  fmt.Sprintf("Production rate is %.0f units/hour, below target of %g", st.ProductionRate, th[ProductionLow]),
			machine:  name,
			metric:   "Production Rate",
			value:    st.ProductionRate,
		})
	}

	if st.Efficiency < th[EfficiencyLow] {
		out = append(out, finding{
			severity: domain.SeverityMajor,
			title:    "Low Machine Efficiency",
			message:  fmt.Sprintf("Machine efficiency is %.1f%%, below acceptable threshold of %s%%", st.Efficiency, limit(th[EfficiencyLow])),
			machine:  name,
			metric:   "Efficiency",
			value:    st.Efficiency,
		})
	}

	if st.Status == domain.StateError {
		out = append(out, finding{
			severity: domain.SeverityCritical,
			title:    "Machine Error Status",
			message:  "Machine is in error state and requires immediate attention",
			machine:  name,
			metric:   "Status",
			value:    string(st.Status),
		})
	}

	return out
}

// limit prints a threshold with at least one decimal: 75 -> "75.0", 7.25 -> "7.25".
// The production target stays a plain count.
func limit(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if math.IsNaN(v) || math.IsInf(v, 0) || strings.Contains(s, ".") {
		return s
	}
	return s + ".0"
}
