// internal/app/view.go
package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/HaPhanBaoMinh/mfgdash/help"
	"github.com/HaPhanBaoMinh/mfgdash/internal/alerting"
	"github.com/HaPhanBaoMinh/mfgdash/internal/domain"
	"github.com/HaPhanBaoMinh/mfgdash/internal/ui/styles"
	"github.com/HaPhanBaoMinh/mfgdash/internal/ui/widgets"
)

func (m Model) View() string {
	var body string
	switch m.view {
	case ViewOverview:
		body = m.renderOverview()
	case ViewMachines:
		body = m.renderMachine()
	case ViewHistory:
		body = m.renderHistory()
	case ViewAlerts:
		body = m.renderAlerts()
	}
	body = lipgloss.NewStyle().Padding(0, 1).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())
}

func (m Model) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		label := fmt.Sprintf(" %d %s ", i+1, name)
		if View(i) == m.view {
			tabs = append(tabs, styles.TabActive.Render(label))
		} else {
			tabs = append(tabs, styles.Tab.Render(label))
		}
	}

	shift, window := help.ShiftInfo(m.now().Hour())
	info := styles.Header.Render(fmt.Sprintf("mfgdash │ %s (%s) │ refresh %ds │ updated %s",
		shift, window, m.cfg.RefreshInterval, m.lastUpdateText()))

	return lipgloss.JoinVertical(lipgloss.Left, info, strings.Join(tabs, "│"))
}

func (m Model) renderFooter() string {
	keys := "[Tab] page • [r] refresh interval • [f] refresh now • [q] quit"
	switch m.view {
	case ViewOverview:
		keys = "↑/↓ move • " + keys
	case ViewMachines:
		keys = "←/→ machine • " + keys
	case ViewHistory:
		keys = "[a] analysis • [+/-] days • " + keys
	case ViewAlerts:
		if m.form != nil {
			keys = "editing thresholds"
		} else {
			keys = "[e] edit • [d] defaults • [a] ack • [x] clear machine • [c] clear all • pgup/pgdn alerts • " + keys
		}
	}

	lines := []string{styles.Footer.Render(keys)}
	if m.err != nil {
		lines = append(lines, styles.Danger.Render("error: "+m.err.Error()))
	} else if m.notice != "" {
		lines = append(lines, styles.Good.Render(m.notice))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func kpiCard(title, value, delta string, deltaStyle lipgloss.Style) string {
	return styles.Card.Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.Faint.Render(title),
		styles.Title.Render(value),
		deltaStyle.Render(delta),
	))
}

func (m Model) renderOverview() string {
	s := m.snapshot
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		kpiCard("Overall OEE", help.FormatPercentage(s.OEE),
			help.FormatDelta(s.OEETrend, 1, "%"), styles.Delta(s.OEETrend, false)),
		kpiCard("Production Count", help.FormatNumber(float64(int64(s.ProductionCount))),
			help.FormatDelta(s.ProductionTrend, 0, " units"), styles.Delta(s.ProductionTrend, false)),
		kpiCard("Downtime", help.FormatDuration(s.DowntimeMinutes),
			help.FormatDelta(s.DowntimeTrend, 0, " min"), styles.Delta(s.DowntimeTrend, true)),
		kpiCard("Avg Cycle Time", fmt.Sprintf("%.1fs", s.CycleTime),
			help.FormatDelta(s.CycleTrend, 1, "s"), styles.Delta(s.CycleTrend, true)),
	)

	components := widgets.BarChart(
		[]string{"Availability", "Performance", "Quality"},
		[]float64{s.Availability, s.Performance, s.Quality},
		100, 30, "%.1f%%",
	)

	vals := domain.Values(m.production)
	lo, hi := widgets.Bounds(vals)
	trend := fmt.Sprintf("%s  %.0f..%.0f units/h", widgets.Spark(vals, clamp(m.width-30, 10, 96)), lo, hi)

	computed := help.CalculateOEE(s.Availability, s.Performance, s.Quality)

	return lipgloss.JoinVertical(lipgloss.Left,
		cards,
		styles.Box.Render(lipgloss.JoinVertical(lipgloss.Left,
			styles.Title.Render("OEE components"), components,
			styles.Faint.Render("A × P × Q = "+help.FormatPercentage(computed)))),
		styles.Title.Render(fmt.Sprintf("Production rate, last %dh", seriesHours)),
		trend,
		"",
		styles.Title.Render("Machines"),
		m.table.View(),
	)
}

func (m Model) renderMachine() string {
	name := m.selectedMachine()
	pos := fmt.Sprintf("◀ %s ▶  (%d/%d)", name, clamp(m.selected+1, 0, len(m.machines)), len(m.machines))
	if m.machine == nil {
		return lipgloss.JoinVertical(lipgloss.Left, styles.Title.Render(pos), styles.Faint.Render("loading..."))
	}

	d := m.machine.detail
	th := m.monitor.Thresholds()
	tempLow, tempHigh := th.Get(alerting.TempLow), th.Get(alerting.TempHigh)
	vibHigh := th.Get(alerting.VibrationHigh)

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		styles.Card.Render(lipgloss.JoinVertical(lipgloss.Left,
			styles.Faint.Render("Status"),
			styles.Status(d.Status).Render(string(d.Status)),
			fmt.Sprintf("Efficiency %s", help.FormatPercentage(d.Efficiency)),
		)),
		styles.Card.Render(lipgloss.JoinVertical(lipgloss.Left,
			styles.Faint.Render("Readings"),
			fmt.Sprintf("Temperature %.1f°C", d.Temperature),
			fmt.Sprintf("Vibration %.2f mm/s", d.Vibration),
			fmt.Sprintf("Rate %.0f units/h", d.ProductionRate),
		)),
		styles.Card.Render(lipgloss.JoinVertical(lipgloss.Left,
			styles.Faint.Render("This week"),
			fmt.Sprintf("Uptime %.1fh (%s)", d.UptimeHours,
				help.FormatPercentage(help.CalculateAvailability(d.UptimeHours, weekHours))),
			fmt.Sprintf("Today %s units", help.FormatNumber(float64(d.ProductionToday))),
			fmt.Sprintf("Defects %.2f%%", d.DefectRate),
		)),
		styles.Card.Render(lipgloss.JoinVertical(lipgloss.Left,
			styles.Faint.Render("Maintenance"),
			fmt.Sprintf("due in %d days", d.MaintenanceDueDays),
			styles.Faint.Render(machineKind(name)),
		)),
	)

	width := clamp(m.width-40, 10, 96)
	temp := domain.Values(m.machine.temp)
	lo, hi := widgets.Bounds(temp, tempLow, tempHigh)
	vib := domain.Values(m.machine.vib)
	vlo, vhi := widgets.Bounds(vib, 0, vibHigh)

	charts := lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("Temperature %s  limits %g..%g°C", widgets.Spark8(widgets.Normalize(temp, lo, hi), width),
			tempLow, tempHigh),
		fmt.Sprintf("Vibration   %s  limit %g mm/s", widgets.Spark8(widgets.Normalize(vib, vlo, vhi), width),
			vibHigh),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.Title.Render(pos),
		cards,
		styles.Box.Render(charts),
		styles.Title.Render("Recent production cycles"),
		m.table.View(),
	)
}

// machineKind names the station type from the machine naming scheme.
func machineKind(name string) string {
	switch {
	case strings.Contains(name, "Press"):
		return "Stamping Press"
	case strings.Contains(name, "Assembly"):
		return "Assembly Line"
	case strings.Contains(name, "Welding"):
		return "Welding Station"
	case strings.Contains(name, "Paint"):
		return "Paint Booth"
	case strings.Contains(name, "Packaging"):
		return "Packaging Line"
	case strings.Contains(name, "Quality"):
		return "Quality Control"
	default:
		return "Manufacturing Equipment"
	}
}

func (m Model) renderHistory() string {
	var tabs []string
	for i, name := range analysisNames {
		if Analysis(i) == m.analysis {
			tabs = append(tabs, styles.TabActive.Render(name))
		} else {
			tabs = append(tabs, styles.Tab.Render(name))
		}
	}
	head := lipgloss.JoinVertical(lipgloss.Left,
		strings.Join(tabs, "  "),
		styles.Faint.Render(fmt.Sprintf("last %d days", m.days)),
	)

	h := m.history
	if h == nil || h.analysis != m.analysis {
		return lipgloss.JoinVertical(lipgloss.Left, head, styles.Faint.Render("loading..."))
	}

	var body string
	switch m.analysis {
	case AnalysisProduction:
		body = m.renderDaily(h.daily, "units", "%.0f")
	case AnalysisQuality:
		body = m.renderDaily(h.daily, "%", "%.1f")
	case AnalysisDowntime:
		body = m.renderDowntime(h.downtime)
	case AnalysisEfficiency:
		body = m.renderEfficiency(h.efficiency)
	}
	return lipgloss.JoinVertical(lipgloss.Left, head, "", body)
}

func (m Model) renderDaily(daily []domain.DailyValue, unit, format string) string {
	if len(daily) == 0 {
		return styles.Faint.Render("no data")
	}
	labels := make([]string, len(daily))
	vals := make([]float64, len(daily))
	var sum, peak float64
	low := daily[0].Value
	for i, d := range daily {
		labels[i] = d.Date.Format("Mon Jan 02")
		vals[i] = d.Value
		sum += d.Value
		peak = max(peak, d.Value)
		low = min(low, d.Value)
	}
	avg := sum / float64(len(daily))

	stats := fmt.Sprintf("avg "+format+" %s • peak "+format+" %s • low "+format+" %s", avg, unit, peak, unit, low, unit)
	if unit == "units" {
		stats += " • total " + help.FormatNumber(float64(int64(sum))) + " units"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.Title.Render(stats),
		widgets.Spark(vals, clamp(m.width-4, 10, 96)),
		"",
		widgets.BarChart(labels, vals, 0, clamp(m.width-30, 10, 60), format),
	)
}

func (m Model) renderDowntime(events []domain.DowntimeEvent) string {
	byMachine := map[string]float64{}
	var total float64
	for _, e := range events {
		byMachine[e.Machine] += e.Duration.Minutes()
		total += e.Duration.Minutes()
	}
	names := make([]string, 0, len(byMachine))
	for n := range byMachine {
		names = append(names, n)
	}
	sort.Strings(names)
	vals := make([]float64, len(names))
	for i, n := range names {
		vals[i] = byMachine[n]
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.Title.Render(fmt.Sprintf("%d events • %s total", len(events), help.FormatDuration(total))),
		widgets.BarChart(names, vals, 0, clamp(m.width-40, 10, 50), "%.0f min"),
		"",
		m.table.View(),
	)
}

func (m Model) renderEfficiency(eff map[string][]domain.DailyValue) string {
	names := make([]string, 0, len(eff))
	for n := range eff {
		names = append(names, n)
	}
	sort.Strings(names)

	avgs := make([]float64, len(names))
	var trends []string
	for i, n := range names {
		vals := make([]float64, len(eff[n]))
		for j, d := range eff[n] {
			vals[j] = d.Value
			avgs[i] += d.Value
		}
		if len(vals) > 0 {
			avgs[i] /= float64(len(vals))
		}
		trends = append(trends, fmt.Sprintf("%-20s %s", n, widgets.Spark(vals, clamp(m.width-30, 10, 60))))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.Title.Render("Average efficiency by machine"),
		widgets.BarChart(names, avgs, 100, clamp(m.width-40, 10, 50), "%.1f%%"),
		"",
		styles.Title.Render("Daily trend"),
		strings.Join(trends, "\n"),
	)
}

func (m Model) renderAlerts() string {
	var settings string
	if m.form != nil {
		settings = m.form.view()
	} else {
		settings = thresholdSummary(m.monitor.Thresholds().Current())
	}
	settings = styles.Box.Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.Title.Render("Alert thresholds"), settings))

	summary := m.monitor.History().Summarize()
	var counts []string
	for _, sev := range domain.Severities {
		counts = append(counts, styles.Severity(sev).Render(fmt.Sprintf("%s %d", sev, summary.Count(sev))))
	}
	status := styles.Box.Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.Title.Render("Last 24 hours"),
		strings.Join(counts, "  "),
		fmt.Sprintf("%d alerts in history", summary.Total()),
		"",
		styles.Title.Render("System status"),
		fmt.Sprintf("Data sources %d/%d connected", len(m.statuses), len(m.machines)),
		fmt.Sprintf("Last update %s", m.lastUpdateText()),
		fmt.Sprintf("Refresh every %ds", m.cfg.RefreshInterval),
		m.environmentText(),
	))

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, settings, status),
		styles.Title.Render(fmt.Sprintf("Active alerts (%d)", len(m.active))),
		m.activeVP.View(),
		"",
		styles.Title.Render("Alert history"),
		m.table.View(),
	)
}

func (m Model) renderActive() string {
	if len(m.active) == 0 {
		return styles.Good.Render("No active alerts, all systems operating normally")
	}
	var lines []string
	for _, a := range m.active {
		lines = append(lines,
			styles.Severity(a.Severity).Render(fmt.Sprintf("%s: %s", a.Severity, a.Title))+
				fmt.Sprintf("  %s", a.Message),
			styles.Faint.Render(fmt.Sprintf("  Machine: %s | Time: %s", a.Machine, a.Timestamp)),
		)
	}
	return strings.Join(lines, "\n")
}

func (m Model) lastUpdateText() string {
	if m.lastUpdate.IsZero() {
		return "never"
	}
	return m.lastUpdate.Format("15:04:05")
}

func (m Model) environmentText() string {
	switch env := m.monitor.Environment().(type) {
	case nil:
		return "Environmental alerts off"
	case *alerting.SimulatedEnvironment:
		return fmt.Sprintf("Environmental alerts %.0f%% per refresh, %d kinds",
			env.Probability()*100, len(alerting.EnvironmentCatalog()))
	default:
		return "Environmental alerts on"
	}
}
