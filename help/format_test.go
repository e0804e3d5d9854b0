package help

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "12,345", FormatNumber(12345))
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "1,234.6", FormatNumber(1234.56))
	assert.Equal(t, "-1,200", FormatNumber(-1200))
}

func TestFormatPercentageAndDelta(t *testing.T) {
	assert.Equal(t, "85.3%", FormatPercentage(85.26))
	assert.Equal(t, "+1.2%", FormatDelta(1.23, 1, "%"))
	assert.Equal(t, "-40 min", FormatDelta(-40.2, 0, " min"))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45 min", FormatDuration(45))
	assert.Equal(t, "1h 0m", FormatDuration(60))
	assert.Equal(t, "2h 5m", FormatDuration(125))
}

func TestStatusColor(t *testing.T) {
	assert.Equal(t, "#dc3545", StatusColor("Error"))
	assert.Equal(t, "#6c757d", StatusColor("Exploded"))
}

func TestCalculations(t *testing.T) {
	assert.InDelta(t, 72.9, CalculateOEE(90, 90, 90), 1e-9)
	assert.Equal(t, 0.0, CalculateAvailability(10, 0))
	assert.InDelta(t, 85.714, CalculateAvailability(144, 168), 1e-3)
}

func TestShiftInfo(t *testing.T) {
	for hour, want := range map[int]string{
		0: "Night Shift", 5: "Night Shift", 6: "Day Shift", 13: "Day Shift",
		14: "Evening Shift", 21: "Evening Shift", 22: "Night Shift",
	} {
		got, _ := ShiftInfo(hour)
		assert.Equal(t, want, got, "hour %d", hour)
	}
}

func TestValidateThreshold(t *testing.T) {
	assert.NoError(t, ValidateThreshold(50, 0, 100))
	assert.EqualError(t, ValidateThreshold(-1, 0, 100), "value must be at least 0")
	assert.EqualError(t, ValidateThreshold(101, 0, 100), "value must be at most 100")
	assert.NoError(t, ValidateThreshold(1e9, 0, math.Inf(1)))
}

func TestPaths(t *testing.T) {
	t.Setenv("HOME", "/home/op")
	assert.Equal(t, "/home/op", HomeDir())
	assert.Equal(t, filepath.Join("/home/op", ".mfgdash", "config.yaml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join("/home/op", ".mfgdash", "mfgdash.log"), DefaultLogPath())
}
