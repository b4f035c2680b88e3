package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/nhle/jira-categorize/internal/model"
	"github.com/nhle/jira-categorize/internal/source"
)

// Search endpoints, relative to the server root.
const (
	searchPathV2  = "rest/api/2/search"
	searchPathJQL = "rest/api/3/search/jql"
)

// fetchFields are the standard Jira fields requested during search.
// The story points field is appended per instance.
var fetchFields = []string{
	"summary", "issuetype", "parent", "assignee", "status",
	"resolution", "labels", "updated",
}

// Adapter implements source.Tracker for Jira Cloud and Server/DC.
type Adapter struct {
	client            *Client
	searchAPI         string
	workCategoryField string
	storyPointsField  string
	logger            arbor.ILogger
}

// NewAdapter creates a new Jira tracker adapter. It performs no network
// calls.
func NewAdapter(cfg model.JiraConfig, logger arbor.ILogger) (*Adapter, error) {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	client, err := NewClient(cfg.Server, cfg.User, cfg.APIToken, timeout)
	if err != nil {
		return nil, err
	}

	searchAPI := cfg.SearchAPI
	if searchAPI == "" {
		searchAPI = model.SearchAPIV2
	}

	return &Adapter{
		client:            client,
		searchAPI:         searchAPI,
		workCategoryField: cfg.WorkCategoryField,
		storyPointsField:  cfg.StoryPointsField,
		logger:            logger,
	}, nil
}

// NewConnector returns a source.Connector that builds Jira adapters
// sharing the given logger.
func NewConnector(logger arbor.ILogger) source.Connector {
	return func(cfg model.JiraConfig) (source.Tracker, error) {
		return NewAdapter(cfg, logger)
	}
}

// ValidateConnection verifies credentials by calling GET /rest/api/2/myself.
// Returns the user's display name on success.
func (a *Adapter) ValidateConnection(
	ctx context.Context,
) (string, error) {
	me, err := a.client.Myself(ctx)
	if err != nil {
		return "", fmt.Errorf("validating Jira connection: %w", err)
	}

	a.logger.Debug().Str("account", me.DisplayName).Msg("Jira connection validated")
	return me.DisplayName, nil
}

// Search runs a JQL query and returns at most maxResults issues in the
// order Jira returned them.
func (a *Adapter) Search(
	ctx context.Context,
	jql string,
	maxResults int,
) (*model.SearchResult, error) {
	fields := fetchFields
	if a.storyPointsField != "" {
		fields = append(append([]string{}, fetchFields...), a.storyPointsField)
	}

	body := searchRequest{
		JQL:        jql,
		MaxResults: maxResults,
		Fields:     fields,
	}

	path := searchPathV2
	if a.searchAPI == model.SearchAPIJQL {
		path = searchPathJQL
	} else {
		startAt := 0
		body.StartAt = &startAt
	}

	a.logger.Debug().
		Str("jql", jql).
		Int("max_results", maxResults).
		Str("endpoint", path).
		Msg("Searching Jira issues")

	var searchResp SearchResponse
	if err := a.client.Post(ctx, path, body, &searchResp); err != nil {
		return nil, fmt.Errorf("searching Jira issues: %w", err)
	}

	issues := searchResp.Issues
	if len(issues) > maxResults {
		issues = issues[:maxResults]
	}

	result := &model.SearchResult{
		Issues: make([]model.Issue, 0, len(issues)),
		Total:  searchResp.Total,
	}
	for _, raw := range issues {
		issue, err := a.issueToModel(raw)
		if err != nil {
			return nil, err
		}
		result.Issues = append(result.Issues, issue)
	}

	// The enhanced search endpoint does not count matches.
	if result.Total < len(result.Issues) {
		result.Total = len(result.Issues)
	}

	return result, nil
}

// SetWorkCategory writes the category's label to the Work Category
// custom field of one issue.
func (a *Adapter) SetWorkCategory(
	ctx context.Context,
	issueKey string,
	category model.WorkCategory,
) error {
	fields := map[string]interface{}{
		a.workCategoryField: optionValue{Value: category.Label()},
	}

	a.logger.Debug().
		Str("issue", issueKey).
		Str("field", a.workCategoryField).
		Str("value", category.Label()).
		Msg("Updating work category")

	if err := a.client.UpdateFields(ctx, issueKey, fields); err != nil {
		return fmt.Errorf("updating work category on %s: %w", issueKey, err)
	}
	return nil
}

// issueToModel converts a Jira Issue to a model.Issue.
func (a *Adapter) issueToModel(raw Issue) (model.Issue, error) {
	var fields IssueFields
	if len(raw.Fields) > 0 {
		if err := json.Unmarshal(raw.Fields, &fields); err != nil {
			return model.Issue{}, fmt.Errorf(
				"decoding fields of %s: %w", raw.Key, err,
			)
		}
	}

	issue := model.Issue{
		Key:     raw.Key,
		Summary: fields.Summary,
		Type:    fields.IssueType.Name,
		Labels:  fields.Labels,
		Updated: fields.Updated,
	}

	if fields.Status != nil {
		issue.Status = fields.Status.Name
	}
	if fields.Parent != nil && fields.Parent.Key != "" {
		issue.Parent = &model.ParentRef{
			Key:     fields.Parent.Key,
			Summary: fields.Parent.Fields.Summary,
		}
	}
	if fields.Assignee != nil && fields.Assignee.DisplayName != "" {
		name := fields.Assignee.DisplayName
		issue.Assignee = &name
	}
	if fields.Resolution != nil && fields.Resolution.Name != "" {
		name := fields.Resolution.Name
		issue.Resolution = &name
	}

	issue.StoryPoints = a.storyPoints(raw)

	return issue, nil
}

// storyPoints reads the story points custom field. Jira sends a number,
// but some instances configure a text field, so numeric strings are
// accepted too. Anything else is treated as unset.
func (a *Adapter) storyPoints(raw Issue) *float64 {
	if a.storyPointsField == "" || len(raw.Fields) == 0 {
		return nil
	}

	var custom map[string]json.RawMessage
	if err := json.Unmarshal(raw.Fields, &custom); err != nil {
		return nil
	}

	value, ok := custom[a.storyPointsField]
	if !ok || string(value) == "null" {
		return nil
	}

	var points float64
	if err := json.Unmarshal(value, &points); err == nil {
		return &points
	}

	var text string
	if err := json.Unmarshal(value, &text); err == nil {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
			return &parsed
		}
	}

	a.logger.Debug().
		Str("issue", raw.Key).
		Str("field", a.storyPointsField).
		Msg("Ignoring non-numeric story points")
	return nil
}
