// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"careerdash/internal/dashboard"
)

const (
	// ListSeparator is the separator line for category sections.
	ListSeparator = "------------"
)

// FormatProgress formats the progress line.
// Format: "Progress: {DONE}/{TOTAL} ({PERCENT}%)\n"
func FormatProgress(w io.Writer, p dashboard.Progress) {
	fmt.Fprintf(w, "Progress: %d/%d (%d%%)\n", p.Completed, p.Total, p.Percent())
}

// FormatTask formats a task line.
// Format: "{N:>4}  [x] {TEXT}\n", followed by a sync marker for tasks the
// store has not confirmed.
func FormatTask(w io.Writer, num int, task dashboard.Task) {
	check := " "
	if task.Completed {
		check = "x"
	}
	fmt.Fprintf(w, "%4d  [%s] %s%s\n", num, check, normalizeText(task.Text), syncMarker(task.Sync))
}

// FormatCategoryHeader formats a category section header.
func FormatCategoryHeader(w io.Writer, cat dashboard.Category) {
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintf(w, "%c  %s\n", cat.Letter(), cat)
	fmt.Fprintln(w, ListSeparator)
}

// FormatCategory formats a line of the categories command.
func FormatCategory(w io.Writer, cat dashboard.Category) {
	fmt.Fprintf(w, "%c  %s (%s)\n", cat.Letter(), cat, cat.Alias())
}

// FormatDashboard formats the whole dashboard: progress, then one section per
// non-empty category. Tasks are numbered across sections in display order.
func FormatDashboard(w io.Writer, snap dashboard.Snapshot) {
	FormatProgress(w, snap.Progress)
	if len(snap.Tasks) == 0 {
		fmt.Fprintln(w, "no tasks")
		return
	}

	num := 0
	for cat, group := range snap.ByCategory() {
		FormatCategoryHeader(w, cat)
		for _, task := range group {
			num++
			FormatTask(w, num, task)
		}
	}
}

func syncMarker(s dashboard.SyncStatus) string {
	switch s {
	case dashboard.SyncPending:
		return "  (pending)"
	case dashboard.SyncFailed:
		return "  (not saved)"
	default:
		return ""
	}
}

// normalizeText normalizes a task text for display.
// - Empty or whitespace-only texts become "(untitled)"
// - Newlines are replaced with spaces
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")

	if strings.TrimSpace(text) == "" {
		return "(untitled)"
	}
	return text
}
