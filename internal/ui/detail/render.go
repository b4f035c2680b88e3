package detail

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nhle/jira-categorize/internal/model"
	"github.com/nhle/jira-categorize/internal/theme"
)

// separator brackets every issue block.
var separator = strings.Repeat("-", 40)

// updatedLayout is the part of a Jira timestamp before the fraction.
const updatedLayout = "2006-01-02T15:04:05"

// Options controls which statuses get highlighted.
type Options struct {
	DoneStatuses      []string
	CancelledStatuses []string
}

// Renderer prints the issue summary block shown before each prompt.
type Renderer struct {
	styles *theme.Styles
	opts   Options
}

// NewRenderer creates a renderer using the given styles.
func NewRenderer(styles *theme.Styles, opts Options) *Renderer {
	return &Renderer{
		styles: styles,
		opts:   opts,
	}
}

// Render writes the summary block for issue to w.
func (r *Renderer) Render(w io.Writer, issue model.Issue) {
	fmt.Fprint(w, r.String(issue))
}

// String returns the summary block for issue, including the trailing
// newline.
func (r *Renderer) String(issue model.Issue) string {
	var lines []string

	lines = append(lines, separator)

	typeLine := "Issue Type: " + r.styles.IssueType.Render(issue.Type)
	if changed := LastChanged(issue.Updated); changed != "" {
		typeLine += " " + changed
	}
	lines = append(lines, typeLine)

	lines = append(lines, "Key: "+r.styles.Key.Render(
		issue.Key+" - "+issue.Summary,
	))

	parent := "None"
	if issue.Parent != nil {
		parent = issue.Parent.Key + " - " + issue.Parent.Summary
	}
	lines = append(lines, "  Parent: "+parent)

	assignee := "Unassigned"
	if issue.Assignee != nil {
		assignee = *issue.Assignee
	}
	lines = append(lines, "Assignee: "+assignee)

	status := issue.Status
	if style := r.styles.StatusStyle(
		issue.Status, r.opts.DoneStatuses, r.opts.CancelledStatuses,
	); style != nil {
		status = style.Render(issue.Status)
	}
	resolution := "Unresolved"
	if issue.Resolution != nil {
		resolution = *issue.Resolution
	}
	lines = append(lines, "Status: "+status+"  "+resolution)

	points := "Not Set"
	if issue.StoryPoints != nil {
		points = strconv.FormatFloat(*issue.StoryPoints, 'f', -1, 64)
	}
	lines = append(lines, "Story Points: "+points)

	labels := "None"
	if len(issue.Labels) > 0 {
		labels = strings.Join(issue.Labels, ", ")
	}
	lines = append(lines, "Labels: "+labels)

	lines = append(lines, separator)

	return strings.Join(lines, "\n") + "\n"
}

// LastChanged turns a Jira timestamp such as
// "2024-03-05T10:11:12.123+0000" into "last changed March 05". The
// fraction and zone are dropped and the wall-clock date is used as is.
// It returns "" when the timestamp is empty or malformed.
func LastChanged(updated string) string {
	if updated == "" {
		return ""
	}

	stamp, _, _ := strings.Cut(updated, ".")
	if len(stamp) > len(updatedLayout) {
		stamp = stamp[:len(updatedLayout)]
	}

	t, err := time.Parse(updatedLayout, stamp)
	if err != nil {
		return ""
	}
	return "last changed " + t.Format("January 02")
}
