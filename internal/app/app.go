package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ternarybob/arbor"

	"github.com/nhle/jira-categorize/internal/model"
	"github.com/nhle/jira-categorize/internal/source"
	"github.com/nhle/jira-categorize/internal/theme"
	"github.com/nhle/jira-categorize/internal/ui/detail"
	"github.com/nhle/jira-categorize/internal/ui/prompt"
)

// Options wires the categorizer's collaborators.
type Options struct {
	Config   *model.AppConfig
	Connect  source.Connector
	Prompter prompt.Prompter
	Styles   *theme.Styles
	Out      io.Writer
	Logger   arbor.ILogger
	RunID    string
}

// Summary counts what happened during a run.
type Summary struct {
	Found   int
	Updated int
	Skipped int
	Failed  int
}

// App runs one categorization pass: connect, search, then render,
// prompt and update each issue in the order Jira returned them.
type App struct {
	cfg      *model.AppConfig
	connect  source.Connector
	prompter prompt.Prompter
	renderer *detail.Renderer
	styles   *theme.Styles
	out      io.Writer
	logger   arbor.ILogger
	runID    string
}

// New creates a categorizer from opts.
func New(opts Options) *App {
	return &App{
		cfg:      opts.Config,
		connect:  opts.Connect,
		prompter: opts.Prompter,
		renderer: detail.NewRenderer(opts.Styles, detail.Options{
			DoneStatuses:      opts.Config.Display.DoneStatuses,
			CancelledStatuses: opts.Config.Display.CancelledStatuses,
		}),
		styles: opts.Styles,
		out:    opts.Out,
		logger: opts.Logger,
		runID:  opts.RunID,
	}
}

// Run executes the categorization pass.
//
// Setup failures (missing settings, connection, search) are returned
// before any issue is touched; missing settings are reported before any
// network call. Update failures are printed and counted, and the run
// continues. If the operator interrupts a prompt, Run returns
// prompt.ErrInterrupted together with the partial summary.
func (a *App) Run(ctx context.Context) (*Summary, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}

	jiraCfg := a.cfg.Jira

	tracker, err := a.connect(jiraCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to Jira: %w", err)
	}
	if _, err := tracker.ValidateConnection(ctx); err != nil {
		return nil, fmt.Errorf("connecting to Jira: %w", err)
	}
	fmt.Fprintf(a.out, "Successfully connected to Jira at %s as %s\n",
		jiraCfg.Server, jiraCfg.User)

	result, err := tracker.Search(ctx, jiraCfg.JQLQuery, jiraCfg.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("searching for issues: %w", err)
	}

	summary := &Summary{Found: len(result.Issues)}
	fmt.Fprintf(a.out, "Found %d issues matching the query.\n", summary.Found)
	if result.Total > summary.Found {
		fmt.Fprintln(a.out, a.styles.Muted.Render(fmt.Sprintf(
			"Showing the first %d of %d matches.", summary.Found, result.Total,
		)))
	}

	a.logger.Info().
		Str("run_id", a.runID).
		Int("found", summary.Found).
		Int("total", result.Total).
		Msg("Starting categorization")

	for i, issue := range result.Issues {
		if ctx.Err() != nil {
			return summary, a.interrupted()
		}

		fmt.Fprintf(a.out, "\nProcessing issue %d of %d...\n", i+1, summary.Found)
		a.renderer.Render(a.out, issue)

		decision, err := a.prompter.Choose(ctx, issue)
		if err != nil {
			if errors.Is(err, prompt.ErrInterrupted) {
				return summary, a.interrupted()
			}
			return summary, fmt.Errorf("reading category for %s: %w", issue.Key, err)
		}

		if decision.Skip {
			fmt.Fprintln(a.out, "Skipping issue.")
			summary.Skipped++
			continue
		}

		a.applyCategory(ctx, tracker, issue.Key, decision.Category, summary)
	}

	a.logger.Info().
		Str("run_id", a.runID).
		Int("updated", summary.Updated).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Msg("Categorization finished")

	fmt.Fprintln(a.out, "\nAll issues processed. Exiting.")
	return summary, nil
}

// applyCategory sends one update. Failures are reported and counted but
// never retried.
func (a *App) applyCategory(
	ctx context.Context,
	tracker source.Tracker,
	key string,
	category model.WorkCategory,
	summary *Summary,
) {
	if err := tracker.SetWorkCategory(ctx, key, category); err != nil {
		a.logger.Warn().Err(err).Str("issue", key).Msg("Work category update failed")
		fmt.Fprintln(a.out, a.styles.Error.Render(fmt.Sprintf(
			"Error updating issue %s: %v", key, err,
		)))
		summary.Failed++
		return
	}

	fmt.Fprintln(a.out, a.styles.Success.Render(fmt.Sprintf(
		"Work Category set to '%s' for issue %s", category.Label(), key,
	)))
	summary.Updated++
}

func (a *App) interrupted() error {
	fmt.Fprintln(a.out, "\nExiting program.")
	return prompt.ErrInterrupted
}
