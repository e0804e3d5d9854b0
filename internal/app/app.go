// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/HaPhanBaoMinh/mfgdash/internal/alerting"
	"github.com/HaPhanBaoMinh/mfgdash/internal/config"
	"github.com/HaPhanBaoMinh/mfgdash/internal/domain"
	"github.com/HaPhanBaoMinh/mfgdash/internal/logger"
	"github.com/HaPhanBaoMinh/mfgdash/internal/ui/styles"
)

type View int

const (
	ViewOverview View = iota
	ViewMachines
	ViewHistory
	ViewAlerts
)

var viewNames = []string{"Overview", "Machine Status", "Historical Analysis", "Alerts & Settings"}

func (v View) String() string { return viewNames[v] }

type Analysis int

const (
	AnalysisProduction Analysis = iota
	AnalysisDowntime
	AnalysisEfficiency
	AnalysisQuality
)

var analysisNames = []string{"Production Trends", "Downtime Analysis", "Efficiency Comparison", "Quality Metrics"}

func (a Analysis) String() string { return analysisNames[a] }

const (
	seriesHours = 8
	cycleCount  = 10
	weekHours   = 168
	minDays     = 1
	maxDays     = 30
)

type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	source  domain.MetricsSource
	monitor *alerting.Monitor
	log     zerolog.Logger
	now     func() time.Time

	view     View
	cfg      config.Config
	selected int // machine index on the Machine Status page
	analysis Analysis
	days     int

	table table.Model
	form  *thresholdForm

	// panes
	activeVP viewport.Model

	// cache
	machines   []string
	snapshot   domain.Snapshot
	statuses   []domain.MachineStatus
	production []domain.SeriesPoint
	machine    *machineData
	history    *historyData
	active     []domain.Alert
	alertRows  []domain.Alert // history table rows, newest first

	lastFetch  time.Time
	lastUpdate time.Time
	notice     string

	width, height int
	err           error
}

type machineData struct {
	name   string
	detail domain.MachineDetail
	temp   []domain.SeriesPoint
	vib    []domain.SeriesPoint
	cycles []domain.ProductionCycle
}

type historyData struct {
	analysis   Analysis
	days       int
	daily      []domain.DailyValue
	downtime   []domain.DowntimeEvent
	efficiency map[string][]domain.DailyValue
}

func New(source domain.MetricsSource, monitor *alerting.Monitor, cfg *config.Config) Model {
	ctx, cancel := context.WithCancel(context.Background())

	t := table.New()
	t.SetHeight(12)
	t.SetWidth(100)

	session := *cfg
	if !config.ValidInterval(session.RefreshInterval) {
		session.RefreshInterval = config.Default().RefreshInterval
	}

	return Model{
		ctx:       ctx,
		cancel:    cancel,
		source:    source,
		monitor:   monitor,
		log:       logger.WithComponent("app"),
		now:       time.Now,
		view:      ViewOverview,
		cfg:       session,
		days:      7,
		table:     t,
		activeVP:  viewport.New(96, 6),
		lastFetch: time.Now(),
		width:     100,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetch(), tick())
}

type tickMsg time.Time
type refreshMsg struct {
	at         time.Time
	machines   []string
	snapshot   domain.Snapshot
	statuses   []domain.MachineStatus
	production []domain.SeriesPoint
	machine    *machineData
	history    *historyData
	alerts     []domain.Alert
}
type errMsg struct{ error }

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// request is what the page needs, captured when the fetch is issued.
type request struct {
	view     View
	selected int
	analysis Analysis
	days     int
}

func (m Model) fetch() tea.Cmd {
	req := request{view: m.view, selected: m.selected, analysis: m.analysis, days: m.days}
	return func() tea.Msg {
		msg, err := m.load(req)
		if err != nil {
			return errMsg{err}
		}
		return msg
	}
}

// load pulls one refresh worth of data and runs the alert evaluation.
func (m Model) load(req request) (refreshMsg, error) {
	ctx := m.ctx
	machines, err := m.source.Machines(ctx)
	if err != nil {
		return refreshMsg{}, fmt.Errorf("list machines: %w", err)
	}
	snap, err := m.source.Snapshot(ctx)
	if err != nil {
		return refreshMsg{}, fmt.Errorf("snapshot: %w", err)
	}
	statuses := make([]domain.MachineStatus, 0, len(machines))
	for _, name := range machines {
		st, err := m.source.MachineStatus(ctx, name)
		if err != nil {
			return refreshMsg{}, fmt.Errorf("status of %s: %w", name, err)
		}
		statuses = append(statuses, st)
	}
	production, err := m.source.TimeSeries(ctx, domain.SeriesProductionRate, seriesHours, "")
	if err != nil {
		return refreshMsg{}, fmt.Errorf("production series: %w", err)
	}

	out := refreshMsg{
		machines:   machines,
		snapshot:   snap,
		statuses:   statuses,
		production: production,
	}

	switch req.view {
	case ViewMachines:
		if len(machines) > 0 {
			name := machines[clamp(req.selected, 0, len(machines)-1)]
			if out.machine, err = m.loadMachine(name); err != nil {
				return refreshMsg{}, err
			}
		}
	case ViewHistory:
		if out.history, err = m.loadHistory(req, machines); err != nil {
			return refreshMsg{}, err
		}
	}

	alerts, err := m.monitor.Evaluate(ctx, snap, machines, m.source)
	if err != nil {
		return refreshMsg{}, fmt.Errorf("evaluate alerts: %w", err)
	}
	out.alerts = alerts
	out.at = m.now()
	return out, nil
}

func (m Model) loadMachine(name string) (*machineData, error) {
	ctx := m.ctx
	d := &machineData{name: name}
	var err error
	if d.detail, err = m.source.MachineDetail(ctx, name); err != nil {
		return nil, fmt.Errorf("detail of %s: %w", name, err)
	}
	if d.temp, err = m.source.TimeSeries(ctx, domain.SeriesTemperature, seriesHours, name); err != nil {
		return nil, fmt.Errorf("temperature of %s: %w", name, err)
	}
	if d.vib, err = m.source.TimeSeries(ctx, domain.SeriesVibration, seriesHours, name); err != nil {
		return nil, fmt.Errorf("vibration of %s: %w", name, err)
	}
	if d.cycles, err = m.source.ProductionCycles(ctx, name, cycleCount); err != nil {
		return nil, fmt.Errorf("cycles of %s: %w", name, err)
	}
	return d, nil
}

func (m Model) loadHistory(req request, machines []string) (*historyData, error) {
	ctx := m.ctx
	h := &historyData{analysis: req.analysis, days: req.days}
	var err error
	switch req.analysis {
	case AnalysisProduction:
		h.daily, err = m.source.Historical(ctx, domain.HistoricalProduction, req.days, "")
	case AnalysisQuality:
		h.daily, err = m.source.Historical(ctx, domain.HistoricalQuality, req.days, "")
	case AnalysisDowntime:
		h.downtime, err = m.source.DowntimeEvents(ctx, req.days)
	case AnalysisEfficiency:
		h.efficiency = make(map[string][]domain.DailyValue, len(machines))
		for _, name := range machines {
			vals, err := m.source.Historical(ctx, domain.HistoricalEfficiency, req.days, name)
			if err != nil {
				return nil, fmt.Errorf("efficiency history of %s: %w", name, err)
			}
			h.efficiency[name] = vals
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", req.analysis, err)
	}
	return h, nil
}

// refresh issues a fetch now and restarts the interval.
func (m *Model) refresh() tea.Cmd {
	m.lastFetch = m.now()
	return m.fetch()
}

func (m Model) selectedMachine() string {
	if len(m.machines) == 0 {
		return ""
	}
	return m.machines[clamp(m.selected, 0, len(m.machines)-1)]
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

		headerH := lipgloss.Height(m.renderHeader())
		footerH := lipgloss.Height(styles.Footer.Render("x"))
		base := m.height - headerH - footerH - 2
		m.table.SetHeight(clamp(base/3, 5, 15))
		m.table.SetWidth(m.width - 4)
		m.activeVP.Width = m.width - 4
		m.activeVP.Height = clamp(base/4, 3, 10)
		m.rebuildTable()
		return m, nil

	case tickMsg:
		t := time.Time(msg)
		if t.Sub(m.lastFetch) >= m.cfg.Interval() {
			cmd := m.refresh()
			return m, tea.Batch(cmd, tick())
		}
		return m, tick()

	case refreshMsg:
		m.apply(msg)
		return m, nil

	case errMsg:
		m.err = msg.error
		m.log.Warn().Err(msg.error).Msg("refresh failed")
		return m, nil

	case tea.KeyMsg:
		if m.form != nil {
			return m.updateForm(msg)
		}
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) apply(msg refreshMsg) {
	m.machines = msg.machines
	m.selected = clamp(m.selected, 0, max(0, len(m.machines)-1))
	m.snapshot = msg.snapshot
	m.statuses = msg.statuses
	m.production = msg.production
	if msg.machine != nil && msg.machine.name == m.selectedMachine() {
		m.machine = msg.machine
	}
	if msg.history != nil && msg.history.analysis == m.analysis && msg.history.days == m.days {
		m.history = msg.history
	}
	m.active = msg.alerts
	m.activeVP.SetContent(m.renderActive())
	m.activeVP.GotoTop()
	m.lastUpdate = msg.at
	m.err = nil
	m.rebuildTable()

	m.log.Debug().
		Str("view", m.view.String()).
		Int("alerts", len(msg.alerts)).
		Msg("refreshed")
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.cancel()
		return m, tea.Quit

	case "tab":
		return m.switchView((m.view + 1) % View(len(viewNames)))

	case "shift+tab":
		return m.switchView((m.view + View(len(viewNames)) - 1) % View(len(viewNames)))

	case "1", "2", "3", "4":
		return m.switchView(View(msg.String()[0] - '1'))

	case "r":
		m.cfg.RefreshInterval = config.NextInterval(m.cfg.RefreshInterval)
		m.notice = fmt.Sprintf("refresh every %ds", m.cfg.RefreshInterval)
		m.log.Info().Int("interval", m.cfg.RefreshInterval).Msg("refresh interval changed")
		return m, nil

	case "f":
		cmd := m.refresh()
		return m, cmd
	}

	switch m.view {
	case ViewMachines:
		switch msg.String() {
		case "left", "h", "[":
			return m.selectMachine(-1)
		case "right", "l", "]":
			return m.selectMachine(1)
		}

	case ViewHistory:
		switch msg.String() {
		case "a":
			m.analysis = (m.analysis + 1) % Analysis(len(analysisNames))
			m.history = nil
			m.rebuildTable()
			cmd := m.refresh()
			return m, cmd
		case "+", "=":
			return m.setDays(m.days + 1)
		case "-", "_":
			return m.setDays(m.days - 1)
		}

	case ViewAlerts:
		return m.handleAlertKey(msg)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	m.view = v
	m.notice = ""
	m.rebuildTable()
	m.table.SetCursor(0)
	cmd := m.refresh()
	return m, cmd
}

func (m Model) selectMachine(delta int) (tea.Model, tea.Cmd) {
	n := len(m.machines)
	if n == 0 {
		return m, nil
	}
	m.selected = (m.selected + delta + n) % n
	m.machine = nil
	m.rebuildTable()
	cmd := m.refresh()
	return m, cmd
}

func (m Model) setDays(days int) (tea.Model, tea.Cmd) {
	days = clamp(days, minDays, maxDays)
	if days == m.days {
		return m, nil
	}
	m.days = days
	cmd := m.refresh()
	return m, cmd
}

func (m Model) handleAlertKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "e":
		m.form = newThresholdForm(m.monitor.Thresholds().Current())
		return m, m.form.focusCmd()

	case "d":
		m.monitor.ResetThresholds()
		m.notice = "thresholds reset to defaults"
		return m, nil

	case "enter", "a":
		a, ok := m.selectedAlert()
		if !ok {
			return m, nil
		}
		if err := m.monitor.Acknowledge(a.ID); err != nil {
			m.err = err
			return m, nil
		}
		m.notice = fmt.Sprintf("acknowledged %q on %s", a.Title, a.Machine)
		m.rebuildTable()
		return m, nil

	case "x":
		a, ok := m.selectedAlert()
		if !ok {
			return m, nil
		}
		n := m.monitor.ClearHistory(a.Machine)
		m.notice = fmt.Sprintf("cleared %d alerts for %s", n, a.Machine)
		m.rebuildTable()
		return m, nil

	case "c":
		n := m.monitor.ClearHistory("")
		m.notice = fmt.Sprintf("cleared %d alerts", n)
		m.rebuildTable()
		return m, nil

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.activeVP, cmd = m.activeVP.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) selectedAlert() (domain.Alert, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.alertRows) {
		return domain.Alert{}, false
	}
	return m.alertRows[i], true
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.cancel()
		return m, tea.Quit

	case "esc":
		m.form = nil
		m.notice = "edit cancelled"
		return m, nil

	case "tab", "down":
		return m, m.form.move(1)

	case "shift+tab", "up":
		return m, m.form.move(-1)

	case "enter":
		set, warnings, err := m.form.values()
		if err != nil {
			m.form.err = err.Error()
			return m, nil
		}
		if err := m.monitor.UpdateThresholds(set); err != nil {
			m.form.err = err.Error()
			return m, nil
		}
		m.form = nil
		m.notice = "thresholds updated"
		if len(warnings) > 0 {
			m.notice += "; check " + joinWarnings(warnings)
		}
		return m, nil
	}

	return m, m.form.update(msg)
}

func (m *Model) rebuildTable() {
	total := m.table.Width()
	// old rows must go before the column count changes
	m.table.SetRows(nil)

	var cols []table.Column
	var rows []table.Row

	switch m.view {
	case ViewOverview:
		w := machineColWidths(total)
		cols = []table.Column{
			{Title: "MACHINE", Width: w[0]},
			{Title: "STATUS", Width: w[1]},
			{Title: "EFF", Width: w[2]},
			{Title: "TEMP", Width: w[3]},
			{Title: "VIB", Width: w[4]},
			{Title: "RATE", Width: w[5]},
			{Title: "UPDATED", Width: w[6]},
		}
		for _, s := range m.statuses {
			rows = append(rows, table.Row{
				s.Machine,
				string(s.Status),
				fmt.Sprintf("%.1f%%", s.Efficiency),
				fmt.Sprintf("%.1f°C", s.Temperature),
				fmt.Sprintf("%.2fmm/s", s.Vibration),
				fmt.Sprintf("%.0f/h", s.ProductionRate),
				s.LastUpdate.Format("15:04:05"),
			})
		}

	case ViewMachines:
		w := cycleColWidths(total)
		cols = []table.Column{
			{Title: "CYCLE", Width: w[0]},
			{Title: "START", Width: w[1]},
			{Title: "END", Width: w[2]},
			{Title: "TIME", Width: w[3]},
			{Title: "QUALITY", Width: w[4]},
			{Title: "RESULT", Width: w[5]},
		}
		if m.machine != nil {
			for _, c := range m.machine.cycles {
				rows = append(rows, table.Row{
					c.ID,
					c.Start.Format("15:04:05"),
					c.End.Format("15:04:05"),
					fmt.Sprintf("%.1fs", c.CycleTime.Seconds()),
					fmt.Sprintf("%.1f", c.QualityScore),
					string(c.Result),
				})
			}
		}

	case ViewHistory:
		w := downtimeColWidths(total)
		cols = []table.Column{
			{Title: "START", Width: w[0]},
			{Title: "MACHINE", Width: w[1]},
			{Title: "REASON", Width: w[2]},
			{Title: "DURATION", Width: w[3]},
			{Title: "SEVERITY", Width: w[4]},
		}
		if m.history != nil && m.analysis == AnalysisDowntime {
			for _, e := range m.history.downtime {
				rows = append(rows, table.Row{
					e.Start.Format("Jan 02 15:04"),
					e.Machine,
					e.Reason,
					fmt.Sprintf("%.0f min", e.Duration.Minutes()),
					string(e.Severity),
				})
			}
		}

	case ViewAlerts:
		w := alertColWidths(total)
		cols = []table.Column{
			{Title: "ACK", Width: w[0]},
			{Title: "TIME", Width: w[1]},
			{Title: "SEVERITY", Width: w[2]},
			{Title: "MACHINE", Width: w[3]},
			{Title: "TITLE", Width: w[4]},
		}
		entries := m.monitor.History().Query(alerting.Retention)
		m.alertRows = make([]domain.Alert, 0, len(entries))
		for i := len(entries) - 1; i >= 0; i-- {
			a := entries[i]
			ack := ""
			if m.monitor.History().Acknowledged(a.ID) {
				ack = "✓"
			}
			m.alertRows = append(m.alertRows, a)
			rows = append(rows, table.Row{ack, a.Timestamp, string(a.Severity), a.Machine, a.Title})
		}
	}

	m.table.SetColumns(cols)
	m.table.SetRows(rows)
	if len(rows) > 0 {
		m.table.SetCursor(clamp(m.table.Cursor(), 0, len(rows)-1))
	}
	m.table.Focus()
}
