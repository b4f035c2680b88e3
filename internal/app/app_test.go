package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/jira-categorize/internal/log"
	"github.com/nhle/jira-categorize/internal/model"
	"github.com/nhle/jira-categorize/internal/theme"
	"github.com/nhle/jira-categorize/internal/ui/prompt"
	"github.com/nhle/jira-categorize/tests/testutil"
)

func testConfig() *model.AppConfig {
	return &model.AppConfig{
		Jira: model.JiraConfig{
			Server:            "https://jira.example.com",
			User:              "me@example.com",
			APIToken:          "token",
			JQLQuery:          "project = ABC",
			MaxResults:        100,
			SearchAPI:         model.SearchAPIV2,
			WorkCategoryField: "customfield_12088",
			StoryPointsField:  "customfield_10008",
		},
		Display: model.DisplayConfig{
			DoneStatuses:      []string{"Done", "QA Verified"},
			CancelledStatuses: []string{"Cancelled"},
		},
		Prompt: model.PromptConfig{Mode: model.PromptModeLine},
	}
}

func issues(keys ...string) []model.Issue {
	out := make([]model.Issue, 0, len(keys))
	for _, k := range keys {
		out = append(out, model.Issue{
			Key:     k,
			Summary: "Summary of " + k,
			Type:    "Story",
			Status:  "To Do",
		})
	}
	return out
}

type harness struct {
	app     *App
	tracker *testutil.FakeTracker
	out     *bytes.Buffer
}

func newHarness(
	cfg *model.AppConfig,
	tracker *testutil.FakeTracker,
	input string,
) *harness {
	out := &bytes.Buffer{}
	styles := theme.New(lipgloss.NewRenderer(out))

	a := New(Options{
		Config:   cfg,
		Connect:  tracker.Connector(),
		Prompter: prompt.NewLinePrompter(strings.NewReader(input), out, styles),
		Styles:   styles,
		Out:      out,
		Logger:   log.Discard(),
		RunID:    "test-run",
	})
	return &harness{app: a, tracker: tracker, out: out}
}

func TestRun_MissingSettingsNeverTouchNetwork(t *testing.T) {
	unsetters := map[string]func(*model.AppConfig){
		model.EnvServer:   func(c *model.AppConfig) { c.Jira.Server = "" },
		model.EnvUser:     func(c *model.AppConfig) { c.Jira.User = "" },
		model.EnvAPIToken: func(c *model.AppConfig) { c.Jira.APIToken = "" },
		model.EnvJQLQuery: func(c *model.AppConfig) { c.Jira.JQLQuery = "" },
	}

	for name, unset := range unsetters {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig()
			unset(cfg)
			tracker := testutil.NewFakeTracker(issues("ABC-1")...)
			h := newHarness(cfg, tracker, "f\n")

			_, err := h.app.Run(context.Background())

			var missing *model.MissingConfigError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, []string{name}, missing.Missing)
			assert.Zero(t, tracker.Connects)
			assert.Zero(t, tracker.NetworkCalls())
		})
	}
}

func TestRun_TwoIssuesUpdatedInOrder(t *testing.T) {
	tracker := testutil.NewFakeTracker(issues("ABC-1", "ABC-2")...)
	h := newHarness(testConfig(), tracker, "e\nf\n")

	summary, err := h.app.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []testutil.Update{
		{Key: "ABC-1", Category: model.CategoryEngineeringExcellence},
		{Key: "ABC-2", Category: model.CategoryFeatureEngineering},
	}, tracker.Updates)
	assert.Equal(t, &Summary{Found: 2, Updated: 2}, summary)
	assert.Equal(t, "project = ABC", tracker.Query)
	assert.Equal(t, 100, tracker.MaxResults)

	out := h.out.String()
	assert.Contains(t, out, "Successfully connected to Jira at https://jira.example.com as me@example.com")
	assert.Contains(t, out, "Found 2 issues matching the query.")
	assert.Contains(t, out, "Work Category set to 'Engineering Excellence (EE)' for issue ABC-1")
	assert.Contains(t, out, "Work Category set to 'Feature Engineering (FE)' for issue ABC-2")
	assert.True(t, strings.HasSuffix(out, "All issues processed. Exiting.\n"))

	first := strings.Index(out, "Processing issue 1 of 2...")
	second := strings.Index(out, "Processing issue 2 of 2...")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	assert.Less(t, first, strings.Index(out, "ABC-1 - Summary of ABC-1"))
	assert.Less(t, strings.Index(out, "ABC-1 - Summary of ABC-1"), second)
	assert.Less(t, second, strings.Index(out, "ABC-2 - Summary of ABC-2"))
}

func TestRun_SkipSendsNoUpdate(t *testing.T) {
	tracker := testutil.NewFakeTracker(issues("ABC-1", "ABC-2")...)
	h := newHarness(testConfig(), tracker, "s\no\n")

	summary, err := h.app.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []testutil.Update{
		{Key: "ABC-2", Category: model.CategoryOperationalExcellence},
	}, tracker.Updates)
	assert.Equal(t, 1, summary.Skipped)
	assert.Contains(t, h.out.String(), "Skipping issue.")
}

func TestRun_InvalidInputReprompts(t *testing.T) {
	tracker := testutil.NewFakeTracker(issues("ABC-1")...)
	h := newHarness(testConfig(), tracker, "x\nf\n")

	_, err := h.app.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(h.out.String(), prompt.InvalidNotice))
	require.Len(t, tracker.Updates, 1)
	assert.Equal(t, model.CategoryFeatureEngineering, tracker.Updates[0].Category)
}

func TestRun_UpdateFailureContinues(t *testing.T) {
	tracker := testutil.NewFakeTracker(issues("ABC-1", "ABC-2")...)
	tracker.UpdateErrs["ABC-1"] = errors.New("field not editable")
	h := newHarness(testConfig(), tracker, "f\ne\n")

	summary, err := h.app.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, tracker.Updates, 2)
	assert.Equal(t, &Summary{Found: 2, Updated: 1, Failed: 1}, summary)
	out := h.out.String()
	assert.Contains(t, out, "Error updating issue ABC-1: field not editable")
	assert.Contains(t, out, "for issue ABC-2")
	assert.Contains(t, out, "All issues processed. Exiting.")
}

func TestRun_InterruptStopsWholeRun(t *testing.T) {
	tracker := testutil.NewFakeTracker(issues("ABC-1", "ABC-2", "ABC-3")...)
	h := newHarness(testConfig(), tracker, "f\n")

	summary, err := h.app.Run(context.Background())
	assert.ErrorIs(t, err, prompt.ErrInterrupted)

	assert.Len(t, tracker.Updates, 1)
	assert.Equal(t, 1, summary.Updated)
	out := h.out.String()
	assert.Contains(t, out, "Exiting program.")
	assert.NotContains(t, out, "Processing issue 3 of 3")
	assert.NotContains(t, out, "All issues processed")
}

func TestRun_CancelledContext(t *testing.T) {
	tracker := testutil.NewFakeTracker(issues("ABC-1")...)
	h := newHarness(testConfig(), tracker, "f\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.app.Run(ctx)
	assert.ErrorIs(t, err, prompt.ErrInterrupted)
	assert.Empty(t, tracker.Updates)
}

func TestRun_ConnectionFailure(t *testing.T) {
	tracker := testutil.NewFakeTracker(issues("ABC-1")...)
	tracker.ValidateErr = errors.New("dial tcp: no such host")
	h := newHarness(testConfig(), tracker, "f\n")

	_, err := h.app.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connecting to Jira")
	assert.Zero(t, tracker.Searches)
	assert.Empty(t, tracker.Updates)
}

func TestRun_SearchFailure(t *testing.T) {
	tracker := testutil.NewFakeTracker()
	tracker.SearchErr = errors.New("bad JQL")
	h := newHarness(testConfig(), tracker, "")

	_, err := h.app.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "searching for issues: bad JQL")
	assert.NotContains(t, h.out.String(), "Found")
}

func TestRun_NoIssues(t *testing.T) {
	tracker := testutil.NewFakeTracker()
	h := newHarness(testConfig(), tracker, "")

	summary, err := h.app.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &Summary{}, summary)
	assert.Contains(t, h.out.String(), "Found 0 issues matching the query.")
	assert.Contains(t, h.out.String(), "All issues processed. Exiting.")
}

func TestRun_ReportsTruncatedResults(t *testing.T) {
	tracker := testutil.NewFakeTracker(issues("ABC-1")...)
	tracker.Result.Total = 250
	h := newHarness(testConfig(), tracker, "s\n")

	_, err := h.app.Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, h.out.String(), "Showing the first 1 of 250 matches.")
}
