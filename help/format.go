package help

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

func FormatPercentage(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// FormatNumber groups thousands: 12345 -> "12,345", 1234.56 -> "1,234.6".
// Whole values print without decimals.
func FormatNumber(v float64) string {
	if v == math.Trunc(v) && !math.IsInf(v, 0) {
		return printer.Sprintf("%d", int64(v))
	}
	return printer.Sprintf("%.1f", v)
}

// FormatDelta renders a signed trend like "+1.2%" or "-40 min".
func FormatDelta(v float64, decimals int, unit string) string {
	return fmt.Sprintf("%+.*f%s", decimals, v, unit)
}

// FormatDuration turns minutes into "45 min" or "2h 5m".
func FormatDuration(minutes float64) string {
	if minutes < 60 {
		return fmt.Sprintf("%.0f min", minutes)
	}
	h := math.Floor(minutes / 60)
	m := math.Mod(minutes, 60)
	return fmt.Sprintf("%.0fh %.0fm", h, m)
}

var statusColors = map[string]string{
	"Running":     "#28a745",
	"Idle":        "#ffc107",
	"Error":       "#dc3545",
	"Maintenance": "#6c757d",
	"Offline":     "#343a40",
}

// StatusColor maps a machine state to a hex color, grey when unknown.
func StatusColor(status string) string {
	if c, ok := statusColors[status]; ok {
		return c
	}
	return "#6c757d"
}

// CalculateOEE multiplies availability, performance and quality percentages.
func CalculateOEE(availability, performance, quality float64) float64 {
	return (availability / 100) * (performance / 100) * (quality / 100) * 100
}

func CalculateAvailability(uptimeHours, totalHours float64) float64 {
	if totalHours == 0 {
		return 0
	}
	return uptimeHours / totalHours * 100
}

// ShiftInfo names the shift running at hour (0-23).
func ShiftInfo(hour int) (name, window string) {
	switch {
	case hour >= 6 && hour < 14:
		return "Day Shift", "06:00 - 14:00"
	case hour >= 14 && hour < 22:
		return "Evening Shift", "14:00 - 22:00"
	default:
		return "Night Shift", "22:00 - 06:00"
	}
}

// ValidateThreshold checks v against [lo, hi]. Use math.Inf for an open side.
func ValidateThreshold(v, lo, hi float64) error {
	if v < lo {
		return fmt.Errorf("value must be at least %g", lo)
	}
	if v > hi {
		return fmt.Errorf("value must be at most %g", hi)
	}
	return nil
}
