package ui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TUIRenderer drives the rich sync screen using bubbletea.
type TUIRenderer struct {
	mu      sync.Mutex
	cfg     Config
	program *tea.Program
	model   *syncModel
	tracker *ProgressTracker
	cancel  context.CancelFunc
	started bool
	done    chan struct{}
}

// NewTUIRenderer creates a TUI renderer. Fails when the output is not
// a terminal so callers can fall back to plain mode.
func NewTUIRenderer(cfg Config) (*TUIRenderer, error) {
	if !IsTTY(cfg.Output) {
		return nil, fmt.Errorf("output is not a TTY")
	}

	tracker := NewProgressTracker()
	model := newSyncModel(tracker, cfg.DBPath)
	if cfg.NoColor || DetectNoColor() {
		model.styles = NoColorStyles()
	}

	return &TUIRenderer{
		cfg:     cfg,
		tracker: tracker,
		model:   model,
		done:    make(chan struct{}),
	}, nil
}

// Start implements Renderer.
func (r *TUIRenderer) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return nil
	}

	_, r.cancel = context.WithCancel(ctx)

	var opts []tea.ProgramOption
	if f, ok := r.cfg.Output.(*os.File); ok {
		opts = append(opts, tea.WithOutput(f))
	}
	opts = append(opts, tea.WithAltScreen())

	r.program = tea.NewProgram(r.model, opts...)
	r.started = true

	go func() {
		defer close(r.done)
		_, _ = r.program.Run()
	}()

	return nil
}

// UpdateProgress implements Renderer.
func (r *TUIRenderer) UpdateProgress(event ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.Stage != r.tracker.Stats().Stage {
		r.tracker.SetStage(event.Stage, event.Total)
	}
	r.tracker.Update(event.Current, event.Message)

	if r.program != nil {
		r.program.Send(progressUpdateMsg(event))
	}
}

// AddError implements Renderer.
func (r *TUIRenderer) AddError(event ErrorEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tracker.AddError(event)

	if r.program != nil {
		r.program.Send(errorMsg(event))
	}
}

// Complete implements Renderer.
func (r *TUIRenderer) Complete(stats CompletionStats) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tracker.SetStage(StageComplete, 0)

	if r.program != nil {
		r.program.Send(completeMsg(stats))
	}
}

// Stop implements Renderer.
func (r *TUIRenderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
	}

	if r.program != nil {
		r.program.Quit()

		// Don't hang on an unresponsive program.
		select {
		case <-r.done:
		case <-time.After(2 * time.Second):
		}
	}

	return nil
}

// Message types for bubbletea.
type progressUpdateMsg ProgressEvent
type errorMsg ErrorEvent
type completeMsg CompletionStats
type tickMsg time.Time

// syncModel is the bubbletea model for the sync screen.
type syncModel struct {
	tracker     *ProgressTracker
	width       int
	height      int
	quitting    bool
	complete    bool
	stats       CompletionStats
	spinner     spinner.Model
	progressBar progress.Model
	styles      Styles
	dbPath      string
}

func newSyncModel(tracker *ProgressTracker, dbPath string) *syncModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorTeal))

	p := progress.New(
		progress.WithSolidFill(ColorTeal),
		progress.WithWidth(50),
		progress.WithoutPercentage(),
	)

	return &syncModel{
		tracker:     tracker,
		spinner:     s,
		progressBar: p,
		styles:      DefaultStyles(),
		width:       80,
		height:      24,
		dbPath:      dbPath,
	}
}

// Init implements tea.Model.
func (m *syncModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		tickCmd(),
	)
}

// tickCmd re-renders every 100ms so ETA and speed stay fresh.
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *syncModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progressBar.Width = max(msg.Width-20, 20)

	case progressUpdateMsg:
		// State already lives in the tracker.
		return m, nil

	case errorMsg:
		return m, nil

	case completeMsg:
		m.complete = true
		m.stats = CompletionStats(msg)
		return m, tea.Quit

	case tickMsg:
		return m, tickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m *syncModel) View() string {
	if m.quitting {
		return "Cancelled.\n"
	}
	if m.complete {
		return m.renderComplete()
	}

	contentWidth := max(m.width-4, 40)

	sections := []string{
		m.renderStages(),
		m.renderDivider(contentWidth),
		m.renderProgress(),
		m.renderSpeedMetrics(),
		m.renderDivider(contentWidth),
		m.renderSparkline(contentWidth),
	}
	if msg := m.tracker.Stats().Message; msg != "" {
		sections = append(sections, m.styles.Label.Render(msg))
	}

	content := strings.Join(sections, "\n")

	title := "Dex Sync"
	if m.dbPath != "" {
		title = fmt.Sprintf("Dex Sync • %s", m.dbPath)
	}
	panel := m.wrapInPanel(title, content, contentWidth)

	return panel + "\n" + m.renderStatusBar()
}

// renderStages renders the resource pipeline indicators.
func (m *syncModel) renderStages() string {
	currentStage := m.tracker.Stats().Stage

	stages := []Stage{StageContacts, StageReminders, StageNotes}

	var parts []string
	for _, s := range stages {
		var icon string
		var style lipgloss.Style

		switch {
		case s < currentStage:
			icon = "●"
			style = m.styles.Success
		case s == currentStage:
			icon = m.spinner.View()
			style = m.styles.Active
		default:
			icon = "○"
			style = m.styles.Dim
		}

		parts = append(parts, style.Render(icon+" "+s.String()))
	}

	arrow := m.styles.Dim.Render(" → ")
	return strings.Join(parts, arrow)
}

// renderProgress renders the page progress bar.
func (m *syncModel) renderProgress() string {
	stats := m.tracker.Stats()

	if stats.Total == 0 {
		return fmt.Sprintf("%s %s...\n%s",
			m.spinner.View(),
			stats.Stage.String(),
			m.styles.Dim.Render("Connecting..."))
	}

	bar := m.progressBar.ViewAs(stats.Progress)
	pctStr := m.styles.Active.Render(fmt.Sprintf("%3.0f%%", stats.Progress*100))
	countLine := m.styles.Label.Render(fmt.Sprintf("%d / %d pages", stats.Current, stats.Total))

	return fmt.Sprintf("%s  %s\n%s", bar, pctStr, countLine)
}

// renderSpeedMetrics renders throughput and ETA.
func (m *syncModel) renderSpeedMetrics() string {
	stats := m.tracker.Stats()

	var parts []string

	speedStr := fmt.Sprintf("Speed: %.1f pages/s", stats.Speed.Current)
	if stats.Speed.Avg > 0 {
		speedStr += fmt.Sprintf(" (avg: %.1f, peak: %.1f)", stats.Speed.Avg, stats.Speed.Peak)
	}
	parts = append(parts, m.styles.Speed.Render(speedStr))

	if e := stats.ETA; e > 0 {
		parts = append(parts, m.styles.Label.Render(fmt.Sprintf("ETA: %s", formatDuration(e))))
	}

	separator := m.styles.Dim.Render("  •  ")
	return strings.Join(parts, separator)
}

// renderSparkline renders the throughput sparkline.
func (m *syncModel) renderSparkline(width int) string {
	sparkWidth := max(width-10, 10)
	spark := m.tracker.RenderSparkline(sparkWidth)
	label := m.styles.Dim.Render("throughput ─")
	return m.styles.Sparkline.Render(spark) + " " + label
}

// renderDivider renders a horizontal rule.
func (m *syncModel) renderDivider(width int) string {
	return m.styles.Border.Render(strings.Repeat("─", width))
}

// wrapInPanel wraps content in a rounded box with a title line.
func (m *syncModel) wrapInPanel(title, content string, width int) string {
	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorDarkGray)).
		Padding(0, 1).
		Width(width)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Header.Render(title),
		panel.Render(content),
	)
}

// renderStatusBar renders the bottom bar with warnings and errors.
func (m *syncModel) renderStatusBar() string {
	stats := m.tracker.Stats()
	var parts []string

	if stats.WarnCount > 0 {
		parts = append(parts, m.styles.Warning.Render(fmt.Sprintf("⚠ %d warnings", stats.WarnCount)))
	}
	if stats.ErrorCount > 0 {
		parts = append(parts, m.styles.Error.Render(fmt.Sprintf("✗ %d errors", stats.ErrorCount)))
	}

	if len(parts) == 0 {
		return m.styles.Dim.Render("q to quit")
	}

	separator := m.styles.Dim.Render("  │  ")
	return strings.Join(parts, separator) + m.styles.Dim.Render("  │  q to quit")
}

// renderComplete renders the final summary panel.
func (m *syncModel) renderComplete() string {
	contentWidth := max(m.width-4, 40)

	lines := []string{
		m.styles.Success.Render("✓ Sync Complete"),
		"",
		fmt.Sprintf("%s     %s", m.styles.Label.Render("Added:"),
			m.styles.Active.Render(fmt.Sprintf("%d", m.stats.Added))),
		fmt.Sprintf("%s   %s", m.styles.Label.Render("Updated:"),
			m.styles.Active.Render(fmt.Sprintf("%d", m.stats.Updated))),
		fmt.Sprintf("%s %s", m.styles.Label.Render("Unchanged:"),
			m.styles.Active.Render(fmt.Sprintf("%d", m.stats.Unchanged))),
		fmt.Sprintf("%s  %s", m.styles.Label.Render("Duration:"),
			m.styles.Active.Render(formatDuration(m.stats.Duration))),
	}

	if m.stats.Failed > 0 {
		lines = append(lines, "",
			m.styles.Warning.Render(fmt.Sprintf("⚠ %d pages failed", m.stats.Failed)))
	}

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorTeal)).
		Padding(1, 2).
		Width(contentWidth)

	return panel.Render(strings.Join(lines, "\n")) + "\n"
}

// formatDuration formats a duration for humans.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		secs := int(d.Seconds()) % 60
		if secs == 0 {
			return fmt.Sprintf("%dm", mins)
		}
		return fmt.Sprintf("%dm %ds", mins, secs)
	}
	hours := int(d.Hours())
	mins := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, mins)
}

var _ Renderer = (*TUIRenderer)(nil)
