package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// StatusInfo contains database health information.
type StatusInfo struct {
	// Record counts
	DBPath    string `json:"db_path"`
	Contacts  int    `json:"contacts"`
	Emails    int    `json:"emails"`
	Phones    int    `json:"phones"`
	Reminders int    `json:"reminders"`
	Notes     int    `json:"notes"`

	LastSynced time.Time `json:"last_synced,omitempty"`

	// Duplicate review state
	FlaggedContacts     int `json:"flagged_contacts"`
	FlaggedGroups       int `json:"flagged_groups"`
	UnresolvedGroups    int `json:"unresolved_groups"`
	ConfirmedGroups     int `json:"confirmed_groups"`
	FalsePositiveGroups int `json:"false_positive_groups"`

	// Storage size (in bytes)
	DBSize int64 `json:"db_size"`
}

// StatusRenderer displays database status.
type StatusRenderer struct {
	out     io.Writer
	styles  Styles
	noColor bool
}

// NewStatusRenderer creates a status renderer.
func NewStatusRenderer(out io.Writer, noColor bool) *StatusRenderer {
	return &StatusRenderer{
		out:     out,
		styles:  GetStyles(noColor),
		noColor: noColor,
	}
}

// Render displays status info to terminal.
func (r *StatusRenderer) Render(info StatusInfo) error {
	// Header
	_, _ = fmt.Fprintf(r.out, "%s\n\n", r.styles.Header.Render("Database Status: "+info.DBPath))

	// Record counts
	_, _ = fmt.Fprintf(r.out, "  Contacts:    %d\n", info.Contacts)
	_, _ = fmt.Fprintf(r.out, "  Emails:      %d\n", info.Emails)
	_, _ = fmt.Fprintf(r.out, "  Phones:      %d\n", info.Phones)
	_, _ = fmt.Fprintf(r.out, "  Reminders:   %d\n", info.Reminders)
	_, _ = fmt.Fprintf(r.out, "  Notes:       %d\n", info.Notes)
	if !info.LastSynced.IsZero() {
		_, _ = fmt.Fprintf(r.out, "  Last synced: %s\n", formatTime(info.LastSynced))
	}
	_, _ = fmt.Fprintln(r.out)

	// Duplicate review state
	if info.FlaggedGroups > 0 {
		_, _ = fmt.Fprintln(r.out, "  Duplicates:")
		_, _ = fmt.Fprintf(r.out, "    Flagged contacts: %d\n", info.FlaggedContacts)
		_, _ = fmt.Fprintf(r.out, "    Groups:           %d\n", info.FlaggedGroups)
		_, _ = fmt.Fprintf(r.out, "    Unresolved:       %s\n", r.renderPending(info.UnresolvedGroups))
		_, _ = fmt.Fprintf(r.out, "    Confirmed:        %d\n", info.ConfirmedGroups)
		_, _ = fmt.Fprintf(r.out, "    False positives:  %d\n", info.FalsePositiveGroups)
		_, _ = fmt.Fprintln(r.out)
	}

	// Storage size
	_, _ = fmt.Fprintf(r.out, "  Size: %s\n", FormatBytes(info.DBSize))

	return nil
}

// RenderJSON outputs status as JSON.
func (r *StatusRenderer) RenderJSON(info StatusInfo) error {
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(info)
}

// renderPending highlights a count that still needs attention.
func (r *StatusRenderer) renderPending(count int) string {
	s := fmt.Sprintf("%d", count)
	if count > 0 {
		return r.styles.Warning.Render(s)
	}
	return r.styles.Success.Render(s)
}

// formatTime formats a time for display.
func formatTime(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("2006-01-02 15:04")
	}
}

// FormatBytes formats bytes to human-readable format.
func FormatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = 1024 * KB
		GB = 1024 * MB
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
