// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"taskdeck/internal/service"
)

const (
	// ListSeparator is the separator line for sections.
	ListSeparator = "------------"

	// DescriptionPreview is how many characters of a description a card shows.
	DescriptionPreview = 100

	timeLayout     = "3:04 PM"
	sameYearLayout = "Jan 2, 3:04 PM"
	fullLayout     = "Jan 2, 2006, 3:04 PM"
)

// FormatDate renders t relative to now: "Today at 3:04 PM",
// "Yesterday at 3:04 PM", "Jan 2, 3:04 PM" within the same year, otherwise
// "Jan 2, 2006, 3:04 PM". Days are counted as whole 24-hour periods.
// The zero time renders as "".
func FormatDate(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.In(now.Location())

	switch days := math.Floor(now.Sub(t).Hours() / 24); days {
	case 0:
		return "Today at " + t.Format(timeLayout)
	case 1:
		return "Yesterday at " + t.Format(timeLayout)
	}
	if t.Year() == now.Year() {
		return t.Format(sameYearLayout)
	}
	return t.Format(fullLayout)
}

// FormatRelativeTime renders t as "Just now", "5 minutes ago", "1 hour ago",
// "3 days ago", falling back to FormatDate after 30 days.
func FormatRelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	diff := now.Sub(t)
	minutes := int(math.Floor(diff.Minutes()))
	hours := int(math.Floor(diff.Hours()))
	days := int(math.Floor(diff.Hours() / 24))

	switch {
	case minutes < 1:
		return "Just now"
	case minutes < 60:
		return plural(minutes, "minute") + " ago"
	case hours < 24:
		return plural(hours, "hour") + " ago"
	case days < 30:
		return plural(days, "day") + " ago"
	default:
		return FormatDate(t, now)
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// FormatTask formats a compact task line.
// Format: "{ID:>4}  {STATUS:<11}  {TITLE}\n"
func FormatTask(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "%4s  %-11s  %s\n", task.ID, task.Status.Label(), normalizeTitle(task.Title))
}

// FormatTaskIndented formats a compact task line inside a section.
// Format: "    {ID:>4}  {TITLE}\n"
func FormatTaskIndented(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "    %4s  %s\n", task.ID, normalizeTitle(task.Title))
}

// FormatSectionHeader formats a section header.
func FormatSectionHeader(w io.Writer, title string) {
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, ListSeparator)
}

// FormatTaskCard formats a task as shown in the task list: the compact line,
// a description preview, the due date if any and the creation date.
func FormatTaskCard(w io.Writer, task service.Task, now time.Time) {
	FormatTask(w, task)
	fmt.Fprintf(w, "      %s\n", DescriptionPreviewText(task.Description))
	if task.DueDate != nil && !task.DueDate.IsZero() {
		due := FormatDate(task.DueDate.Time, now)
		if task.DueDate.Before(now) {
			due += " (overdue)"
		}
		fmt.Fprintf(w, "      Due: %s\n", due)
	}
	fmt.Fprintf(w, "      Created: %s\n", FormatDate(task.CreatedAt.Time, now))
}

// DescriptionPreviewText shortens a description to DescriptionPreview
// characters plus "...", or "No description" when empty.
func DescriptionPreviewText(desc string) string {
	desc = flatten(desc)
	if strings.TrimSpace(desc) == "" {
		return "No description"
	}
	if utf8.RuneCountInString(desc) > DescriptionPreview {
		return string([]rune(desc)[:DescriptionPreview]) + "..."
	}
	return desc
}

// FormatStats prints task counts for the given (already filtered) tasks.
func FormatStats(w io.Writer, tasks []service.Task) {
	counts := make(map[service.Status]int)
	for _, t := range tasks {
		counts[t.Status]++
	}
	fmt.Fprintf(w, "Total: %d  Pending: %d  In Progress: %d  Completed: %d\n",
		len(tasks), counts[service.StatusPending], counts[service.StatusInProgress], counts[service.StatusCompleted])
}

// FormatEmptyState explains an empty task list. hasTasks distinguishes "no
// tasks at all" from "nothing matches the filters".
func FormatEmptyState(w io.Writer, hasTasks bool) {
	fmt.Fprintln(w, "No tasks found")
	if hasTasks {
		fmt.Fprintln(w, "No tasks match your current filters.")
		return
	}
	fmt.Fprintln(w, "You don't have any tasks yet. Create your first task!")
	fmt.Fprintln(w, "  taskdeck add --title <title>")
}

// FormatTaskDetail formats the full view of a task.
func FormatTaskDetail(w io.Writer, task service.Task, now time.Time) {
	fmt.Fprintln(w, normalizeTitle(task.Title))
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintf(w, "%-14s%s\n", "ID:", task.ID)
	fmt.Fprintf(w, "%-14s%s\n", "Status:", task.Status.Label())
	if task.Priority != "" {
		fmt.Fprintf(w, "%-14s%s\n", "Priority:", task.Priority)
	}
	if task.DueDate != nil && !task.DueDate.IsZero() {
		fmt.Fprintf(w, "%-14s%s\n", "Due:", FormatDate(task.DueDate.Time, now))
	}
	if !task.CreatedAt.IsZero() {
		fmt.Fprintf(w, "%-14s%s (%s)\n", "Created:", FormatDate(task.CreatedAt.Time, now), FormatRelativeTime(task.CreatedAt.Time, now))
	}
	if !task.UpdatedAt.IsZero() && !task.UpdatedAt.Equal(task.CreatedAt.Time) {
		fmt.Fprintf(w, "%-14s%s (%s)\n", "Last Updated:", FormatDate(task.UpdatedAt.Time, now), FormatRelativeTime(task.UpdatedAt.Time, now))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Description")
	fmt.Fprintln(w, ListSeparator)
	if strings.TrimSpace(task.Description) == "" {
		fmt.Fprintln(w, "No description provided")
	} else {
		fmt.Fprintln(w, task.Description)
	}
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = flatten(title)

	// Trim and check for empty
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

func flatten(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
