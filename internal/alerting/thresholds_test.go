package alerting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HaPhanBaoMinh/mfgdash/internal/domain"
)

func TestDefaults(t *testing.T) {
	d := Defaults()
	assert.Len(t, d, len(Keys))
	for _, k := range Keys {
		_, ok := d[k]
		assert.True(t, ok, "missing %s", k)
	}
	assert.Equal(t, 75.0, d[TempHigh])
	assert.Equal(t, 25.0, d[TempLow])
	assert.Equal(t, 5.0, d[VibrationHigh])
	assert.Equal(t, 50.0, d[ProductionLow])
	assert.Equal(t, 70.0, d[EfficiencyLow])
	assert.Equal(t, 60.0, d[OEELow])

	// each call is a fresh copy
	d[TempHigh] = 1
	assert.Equal(t, 75.0, Defaults()[TempHigh])
}

func TestThresholds_UpdateMerges(t *testing.T) {
	th := NewThresholds()
	require.NoError(t, th.Update(Set{TempHigh: 90, OEELow: 40}))

	cur := th.Current()
	assert.Len(t, cur, len(Keys))
	assert.Equal(t, 90.0, cur[TempHigh])
	assert.Equal(t, 40.0, cur[OEELow])
	assert.Equal(t, 25.0, cur[TempLow])
	assert.Equal(t, 5.0, th.Get(VibrationHigh))
}

func TestThresholds_NoRangeValidation(t *testing.T) {
	th := NewThresholds()
	require.NoError(t, th.Update(Set{TempLow: -273, VibrationHigh: -1}))
	assert.Equal(t, -273.0, th.Get(TempLow))
	assert.Equal(t, -1.0, th.Get(VibrationHigh))
}

func TestThresholds_UnknownKeyRejectsWholeUpdate(t *testing.T) {
	th := NewThresholds()
	err := th.Update(Set{TempHigh: 99, Key("pressure_high"): 3})
	assert.ErrorIs(t, err, ErrUnknownThreshold)
	assert.Equal(t, 75.0, th.Get(TempHigh))
}

func TestThresholds_CurrentIsSnapshot(t *testing.T) {
	th := NewThresholds()
	cur := th.Current()
	cur[TempHigh] = 1
	assert.Equal(t, 75.0, th.Get(TempHigh))

	require.NoError(t, th.Update(Set{TempHigh: 80}))
	th.Reset()
	assert.Equal(t, Defaults(), th.Current())
}

func TestParseSet(t *testing.T) {
	s, err := ParseSet(map[string]float64{"temp_high": 82, "oee_low": 55})
	require.NoError(t, err)
	assert.Equal(t, Set{TempHigh: 82, OEELow: 55}, s)

	_, err = ParseSet(map[string]float64{"temp_high": 82, "humidity": 3, "dust": 1})
	require.ErrorIs(t, err, ErrUnknownThreshold)
	assert.Contains(t, err.Error(), "[dust humidity]")
}

func TestSimulatedEnvironment(t *testing.T) {
	never := NewSimulatedEnvironment(0, 7)
	for i := 0; i < 100; i++ {
		_, ok := never.Next()
		assert.False(t, ok)
	}

	always := NewSimulatedEnvironment(1, 7)
	titles := map[string]bool{}
	for i := 0; i < 200; i++ {
		a, ok := always.Next()
		require.True(t, ok)
		titles[a.Title] = true
	}
	assert.Equal(t, map[string]bool{
		"Material Low":            true,
		"Planned Maintenance Due": true,
		"Quality Check Required":  true,
	}, titles)

	assert.Equal(t, 1.0, NewSimulatedEnvironment(4, 1).Probability())
	assert.Equal(t, 0.0, NewSimulatedEnvironment(-1, 1).Probability())
}

func TestSimulatedEnvironment_RoughRate(t *testing.T) {
	env := NewSimulatedEnvironment(DefaultEnvironmentProbability, 1234)
	fired := 0
	const n = 10000
	for i := 0; i < n; i++ {
		if _, ok := env.Next(); ok {
			fired++
		}
	}
	assert.InDelta(t, 0.3, float64(fired)/n, 0.03)
}

func TestEnvironmentCatalog(t *testing.T) {
	cat := EnvironmentCatalog()
	require.Len(t, cat, 3)
	assert.Equal(t, domain.SeverityWarning, cat[0].Severity)
	assert.Equal(t, domain.SeverityInfo, cat[1].Severity)
	assert.Equal(t, domain.SeverityMajor, cat[2].Severity)

	cat[0].Title = "changed"
	assert.Equal(t, "Material Low", EnvironmentCatalog()[0].Title)
}
