// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"taskhub/internal/service"
)

// FormatTask formats a task line for the dashboard list.
// Format: "{N:>4}  [{x| }]  {PRIORITY:<6}  {TITLE}" with an optional
// "  (due {DATE})" suffix.
func FormatTask(w io.Writer, num int, t service.Task) {
	marker := " "
	if t.Status == service.StatusCompleted {
		marker = "x"
	}
	line := fmt.Sprintf("%4d  [%s]  %-6s  %s", num, marker, strings.ToLower(string(t.Priority)), normalizeTitle(t.Title))
	if d := DueDay(t.DueDate); d != "" {
		line += fmt.Sprintf("  (due %s)", d)
	}
	fmt.Fprintln(w, line)
}

// FormatSummary prints the dashboard counters on one line.
func FormatSummary(w io.Writer, s service.Summary) {
	fmt.Fprintf(w, "total %d  completed %d  pending %d  high-priority %d\n",
		s.Total, s.Completed, s.Pending, s.HighPriority)
}

// FormatProfile prints the account profile fields.
func FormatProfile(w io.Writer, p service.Profile) {
	fmt.Fprintf(w, "name:   %s\n", p.Name)
	fmt.Fprintf(w, "email:  %s\n", p.Email)
}

// DueDay truncates a due date to its calendar day. Backends may return a
// full timestamp; the plain date is what forms and listings show.
func DueDay(s string) string {
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		return s[:i]
	}
	return s
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
