package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Aman-CERP/dexsync/internal/store"
)

// Resolver records a review decision for a duplicate group.
// *store.Store satisfies it.
type Resolver interface {
	SetGroupResolution(ctx context.Context, groupID, resolution, primaryID string) error
}

// ReviewGroup is one flagged group queued for review. Callers filter
// out groups with fewer than two members before starting a session.
type ReviewGroup struct {
	GroupID  string
	Contacts []store.Contact
}

// ReviewSummary reports what a review session decided.
type ReviewSummary struct {
	Confirmed      int
	FalsePositives int
	Remaining      int
}

// RunReview walks through every group and applies each decision as it
// is made, so quitting halfway loses nothing.
func RunReview(ctx context.Context, cfg Config, resolver Resolver, groups []ReviewGroup) (ReviewSummary, error) {
	if len(groups) == 0 {
		return ReviewSummary{}, nil
	}
	if cfg.ForcePlain || !IsTTY(cfg.Output) || DetectCI() {
		return runPlainReview(ctx, cfg, resolver, groups)
	}
	return runTUIReview(ctx, cfg, resolver, groups)
}

// runPlainReview is the line-oriented session for dumb terminals and
// piped input.
func runPlainReview(ctx context.Context, cfg Config, resolver Resolver, groups []ReviewGroup) (ReviewSummary, error) {
	out := cfg.Output
	styles := GetStyles(cfg.NoColor || DetectNoColor())
	scanner := bufio.NewScanner(cfg.Input)

	summary := ReviewSummary{Remaining: len(groups)}

	for i, group := range groups {
		_, _ = fmt.Fprintf(out, "\n%s\n", styles.Header.Render(
			fmt.Sprintf("Group %d/%d (ID: %s)", i+1, len(groups), group.GroupID)))
		_, _ = fmt.Fprintln(out, renderGroupTable(group.Contacts, styles))

		d, ok := promptDecision(scanner, out, styles, len(group.Contacts))
		if !ok || d.quit {
			break
		}

		if d.confirm {
			primary := group.Contacts[d.primaryIdx]
			if err := resolver.SetGroupResolution(ctx, group.GroupID, store.ResolutionConfirmed, primary.ID); err != nil {
				return summary, err
			}
			summary.Confirmed++
			_, _ = fmt.Fprintln(out, styles.Success.Render("✔ Confirmed. Primary: "+shortID(primary.ID)))
		} else {
			if err := resolver.SetGroupResolution(ctx, group.GroupID, store.ResolutionFalsePositive, ""); err != nil {
				return summary, err
			}
			summary.FalsePositives++
			_, _ = fmt.Fprintln(out, styles.Success.Render("✔ Marked as false positive."))
		}
		summary.Remaining--
	}

	_, _ = fmt.Fprintf(out, "\n%s", reviewSummaryLines(styles, summary))
	return summary, nil
}

// decision is one review choice for a group.
type decision struct {
	quit       bool
	confirm    bool
	primaryIdx int
}

// promptDecision reads choices until one is valid. The second return
// is false when input is exhausted, which ends the session like q.
func promptDecision(scanner *bufio.Scanner, out io.Writer, styles Styles, members int) (decision, bool) {
	for {
		_, _ = fmt.Fprintf(out,
			"[1-%d] confirm with primary, [s]kip as false positive, [q]uit (default: s): ", members)
		if !scanner.Scan() {
			_, _ = fmt.Fprintln(out)
			return decision{}, false
		}

		switch choice := strings.ToLower(strings.TrimSpace(scanner.Text())); choice {
		case "q":
			return decision{quit: true}, true
		case "", "s":
			return decision{}, true
		default:
			n, err := strconv.Atoi(choice)
			if err == nil && n >= 1 && n <= members {
				return decision{confirm: true, primaryIdx: n - 1}, true
			}
			_, _ = fmt.Fprintln(out, styles.Warning.Render(
				fmt.Sprintf("Enter a number between 1 and %d, s, or q.", members)))
		}
	}
}

// renderGroupTable lays out group members side by side so the caller
// can compare them at a glance.
func renderGroupTable(contacts []store.Contact, styles Styles) string {
	rows := make([][]string, 0, len(contacts))
	for i, c := range contacts {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			truncateID(c.ID),
			c.DisplayName(),
			c.JobTitle,
			strings.Join(c.Emails, ", "),
			strings.Join(phoneNumbers(c.Phones), ", "),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styles.Border).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.TableHead.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("#", "ID", "Name", "Job Title", "Emails", "Phones").
		Rows(rows...)

	return t.Render()
}

// reviewSummaryLines renders the end-of-session accounting.
func reviewSummaryLines(styles Styles, s ReviewSummary) string {
	var b strings.Builder
	b.WriteString(styles.Header.Render("Review Summary"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Groups Confirmed: %d\n", s.Confirmed)
	fmt.Fprintf(&b, "  False Positives:  %d\n", s.FalsePositives)
	fmt.Fprintf(&b, "  Remaining:        %d\n", s.Remaining)
	return b.String()
}

// shortID renders the tail of an id for feedback lines.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return "..." + id[len(id)-8:]
}

// truncateID keeps table rows narrow. Dex ids are long UUIDs.
func truncateID(id string) string {
	if len(id) <= 12 {
		return id
	}
	return id[:12] + "…"
}

func phoneNumbers(phones []store.Phone) []string {
	nums := make([]string, 0, len(phones))
	for _, p := range phones {
		nums = append(nums, p.Number)
	}
	return nums
}
