package ui

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Aman-CERP/dexsync/internal/store"
)

// runTUIReview runs the interactive session inline rather than in the
// alt screen, so the decision log and summary survive program exit.
func runTUIReview(ctx context.Context, cfg Config, resolver Resolver, groups []ReviewGroup) (ReviewSummary, error) {
	model := &reviewModel{
		ctx:      ctx,
		resolver: resolver,
		groups:   groups,
		summary:  ReviewSummary{Remaining: len(groups)},
		styles:   GetStyles(cfg.NoColor || DetectNoColor()),
	}

	var opts []tea.ProgramOption
	if f, ok := cfg.Output.(*os.File); ok {
		opts = append(opts, tea.WithOutput(f))
	}
	if cfg.Input != nil {
		opts = append(opts, tea.WithInput(cfg.Input))
	}

	final, err := tea.NewProgram(model, opts...).Run()
	if err != nil {
		return model.summary, err
	}

	m := final.(*reviewModel)
	return m.summary, m.err
}

// Messages for the review session.
type decidedMsg struct {
	resolution string
	primaryID  string
}
type reviewErrMsg struct{ err error }

// reviewModel steps through flagged groups one at a time.
type reviewModel struct {
	ctx      context.Context
	resolver Resolver
	groups   []ReviewGroup
	index    int
	summary  ReviewSummary
	styles   Styles
	status   string
	deciding bool
	done     bool
	err      error
}

// Init implements tea.Model.
func (m *reviewModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.deciding || m.done {
			return m, nil
		}
		switch key := msg.String(); key {
		case "ctrl+c", "q":
			m.done = true
			return m, tea.Quit
		case "s", "enter":
			m.deciding = true
			return m, m.decide(store.ResolutionFalsePositive, "")
		default:
			n, err := strconv.Atoi(key)
			if err != nil || n < 1 || n > len(m.groups[m.index].Contacts) {
				return m, nil
			}
			m.deciding = true
			return m, m.decide(store.ResolutionConfirmed, m.groups[m.index].Contacts[n-1].ID)
		}

	case decidedMsg:
		m.deciding = false
		if msg.resolution == store.ResolutionConfirmed {
			m.summary.Confirmed++
			m.status = "✔ Confirmed. Primary: " + shortID(msg.primaryID)
		} else {
			m.summary.FalsePositives++
			m.status = "✔ Marked as false positive."
		}
		m.summary.Remaining--
		m.index++
		if m.index >= len(m.groups) {
			m.done = true
			return m, tea.Quit
		}
		return m, nil

	case reviewErrMsg:
		m.deciding = false
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

// decide persists one resolution off the Update loop.
func (m *reviewModel) decide(resolution, primaryID string) tea.Cmd {
	groupID := m.groups[m.index].GroupID
	return func() tea.Msg {
		if err := m.resolver.SetGroupResolution(m.ctx, groupID, resolution, primaryID); err != nil {
			return reviewErrMsg{err}
		}
		return decidedMsg{resolution: resolution, primaryID: primaryID}
	}
}

// View implements tea.Model.
func (m *reviewModel) View() string {
	if m.err != nil {
		return m.styles.Error.Render("✗ "+m.err.Error()) + "\n"
	}
	if m.done {
		return "\n" + reviewSummaryLines(m.styles, m.summary)
	}

	group := m.groups[m.index]

	var b strings.Builder
	b.WriteString(m.styles.Header.Render(
		fmt.Sprintf("Group %d/%d (ID: %s)", m.index+1, len(m.groups), group.GroupID)))
	b.WriteString("\n")
	b.WriteString(renderGroupTable(group.Contacts, m.styles))
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(m.styles.Success.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Dim.Render(
		fmt.Sprintf("1-%d confirm with primary  •  s false positive  •  q quit", len(group.Contacts))))
	b.WriteString("\n")
	return b.String()
}
