// internal/app/settings.go
package app

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/HaPhanBaoMinh/mfgdash/help"
	"github.com/HaPhanBaoMinh/mfgdash/internal/alerting"
	"github.com/HaPhanBaoMinh/mfgdash/internal/ui/styles"
)

var thresholdLabels = map[alerting.Key]string{
	alerting.TempHigh:      "High temperature (°C)",
	alerting.TempLow:       "Low temperature (°C)",
	alerting.VibrationHigh: "High vibration (mm/s)",
	alerting.ProductionLow: "Low production (units/h)",
	alerting.EfficiencyLow: "Low efficiency (%)",
	alerting.OEELow:        "Low OEE (%)",
}

// suggested ranges; values outside only produce a warning
var thresholdRanges = map[alerting.Key][2]float64{
	alerting.TempHigh:      {0, 150},
	alerting.TempLow:       {-40, 100},
	alerting.VibrationHigh: {0, 50},
	alerting.ProductionLow: {0, 1000},
	alerting.EfficiencyLow: {0, 100},
	alerting.OEELow:        {0, 100},
}

type thresholdForm struct {
	inputs []textinput.Model
	focus  int
	err    string
}

func newThresholdForm(cur alerting.Set) *thresholdForm {
	f := &thresholdForm{}
	for _, k := range alerting.Keys {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 12
		ti.Width = 12
		ti.Placeholder = strconv.FormatFloat(alerting.Defaults()[k], 'g', -1, 64)
		ti.SetValue(strconv.FormatFloat(cur[k], 'g', -1, 64))
		f.inputs = append(f.inputs, ti)
	}
	return f
}

func (f *thresholdForm) focusCmd() tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	return f.inputs[f.focus].Focus()
}

func (f *thresholdForm) move(delta int) tea.Cmd {
	n := len(f.inputs)
	f.focus = (f.focus + delta + n) % n
	return f.focusCmd()
}

func (f *thresholdForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	f.err = ""
	return cmd
}

// values parses every field. A non-numeric field fails the whole form;
// values outside the suggested range are returned as warnings only.
func (f *thresholdForm) values() (alerting.Set, []string, error) {
	set := make(alerting.Set, len(alerting.Keys))
	var warnings []string
	for i, k := range alerting.Keys {
		raw := strings.TrimSpace(f.inputs[i].Value())
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, nil, fmt.Errorf("%s: %q is not a number", thresholdLabels[k], raw)
		}
		r := thresholdRanges[k]
		if err := help.ValidateThreshold(v, r[0], r[1]); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s (%v)", k, err))
		}
		set[k] = v
	}
	return set, warnings, nil
}

func joinWarnings(w []string) string {
	return strings.Join(w, ", ")
}

func (f *thresholdForm) view() string {
	var rows []string
	for i, k := range alerting.Keys {
		label := fmt.Sprintf("%-26s", thresholdLabels[k])
		if i == f.focus {
			label = styles.TabActive.Render(label)
		}
		rows = append(rows, label+" "+f.inputs[i].View())
	}
	if f.err != "" {
		rows = append(rows, "", styles.Danger.Render(f.err))
	}
	rows = append(rows, "", styles.Faint.Render("↑/↓ field • enter apply • esc cancel"))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// thresholdSummary renders the live thresholds when the form is closed.
func thresholdSummary(cur alerting.Set) string {
	var rows []string
	for _, k := range alerting.Keys {
		rows = append(rows, fmt.Sprintf("%-26s %g", thresholdLabels[k], cur[k]))
	}
	return strings.Join(rows, "\n")
}
