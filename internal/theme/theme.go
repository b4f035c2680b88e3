package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorLightBlue   = lipgloss.AdaptiveColor{Dark: "#74C0FC", Light: "#2B6CB0"}
	ColorBrightGreen = lipgloss.AdaptiveColor{Dark: "#8CE99A", Light: "#2F855A"}
	ColorGreen       = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorRed         = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorYellow      = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorGray        = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
)

// Styles holds the styles used to print issues and notices. Styles are
// bound to a renderer so that output to a file or pipe stays plain.
type Styles struct {
	IssueType lipgloss.Style
	Key       lipgloss.Style
	Done      lipgloss.Style
	Cancelled lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Muted     lipgloss.Style
}

// New builds the styles for the given renderer.
func New(r *lipgloss.Renderer) *Styles {
	return &Styles{
		IssueType: r.NewStyle().Foreground(ColorLightBlue),
		Key:       r.NewStyle().Bold(true).Foreground(ColorBrightGreen),
		Done:      r.NewStyle().Foreground(ColorGreen),
		Cancelled: r.NewStyle().Foreground(ColorRed),
		Success:   r.NewStyle().Foreground(ColorGreen),
		Warning:   r.NewStyle().Foreground(ColorYellow),
		Error:     r.NewStyle().Foreground(ColorRed),
		Muted:     r.NewStyle().Foreground(ColorGray).Italic(true),
	}
}

// StatusStyle returns the style for a workflow status name: green for
// done-like statuses, red for cancelled ones, nil for everything else.
func (s *Styles) StatusStyle(
	status string,
	done []string,
	cancelled []string,
) *lipgloss.Style {
	for _, name := range done {
		if status == name {
			return &s.Done
		}
	}
	for _, name := range cancelled {
		if status == name {
			return &s.Cancelled
		}
	}
	return nil
}
