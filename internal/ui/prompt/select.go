package prompt

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/nhle/jira-categorize/internal/keys"
	"github.com/nhle/jira-categorize/internal/model"
)

// SelectPrompter asks with an arrow-key select list instead of a typed
// letter. It needs an interactive terminal.
type SelectPrompter struct{}

// NewSelectPrompter creates a select-list prompter.
func NewSelectPrompter() *SelectPrompter {
	return &SelectPrompter{}
}

// Choose shows the categories plus Skip and returns the selection.
// q, Esc, Ctrl-C and ctx cancellation all return ErrInterrupted.
func (p *SelectPrompter) Choose(
	ctx context.Context,
	issue model.Issue,
) (model.Decision, error) {
	var choice string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Set Work Category for " + issue.Key).
				Options(selectOptions()...).
				Value(&choice),
		),
	).WithKeyMap(keys.SelectKeyMap())

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) || ctx.Err() != nil {
			return model.Decision{}, ErrInterrupted
		}
		return model.Decision{}, fmt.Errorf("running category prompt: %w", err)
	}

	return model.ParseDecision(choice)
}

// selectOptions lists the categories in prompt order, then Skip. Option
// values are the same shortcuts the line prompter accepts.
func selectOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(model.Categories)+1)
	for _, c := range model.Categories {
		opts = append(opts, huh.NewOption(c.Label(), c.Shortcut()))
	}
	return append(opts, huh.NewOption("Skip", model.SkipShortcut))
}
