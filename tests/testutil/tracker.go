package testutil

import (
	"context"

	"github.com/nhle/jira-categorize/internal/model"
	"github.com/nhle/jira-categorize/internal/source"
)

// Update records one SetWorkCategory call.
type Update struct {
	Key      string
	Category model.WorkCategory
}

// FakeTracker is an in-memory source.Tracker that records every call.
type FakeTracker struct {
	DisplayName string
	ValidateErr error
	Result      *model.SearchResult
	SearchErr   error
	UpdateErrs  map[string]error

	Connects    int
	Validations int
	Searches    int
	Query       string
	MaxResults  int
	Updates     []Update
}

// NewFakeTracker returns a tracker whose search yields issues.
func NewFakeTracker(issues ...model.Issue) *FakeTracker {
	return &FakeTracker{
		DisplayName: "Test User",
		Result: &model.SearchResult{
			Issues: issues,
			Total:  len(issues),
		},
		UpdateErrs: make(map[string]error),
	}
}

// Connector returns a source.Connector handing out this tracker.
func (f *FakeTracker) Connector() source.Connector {
	return func(model.JiraConfig) (source.Tracker, error) {
		f.Connects++
		return f, nil
	}
}

// NetworkCalls reports how many tracker calls would have hit the network.
func (f *FakeTracker) NetworkCalls() int {
	return f.Validations + f.Searches + len(f.Updates)
}

func (f *FakeTracker) ValidateConnection(ctx context.Context) (string, error) {
	f.Validations++
	if f.ValidateErr != nil {
		return "", f.ValidateErr
	}
	return f.DisplayName, nil
}

func (f *FakeTracker) Search(
	ctx context.Context,
	query string,
	maxResults int,
) (*model.SearchResult, error) {
	f.Searches++
	f.Query = query
	f.MaxResults = maxResults
	if f.SearchErr != nil {
		return nil, f.SearchErr
	}
	return f.Result, nil
}

func (f *FakeTracker) SetWorkCategory(
	ctx context.Context,
	issueKey string,
	category model.WorkCategory,
) error {
	f.Updates = append(f.Updates, Update{Key: issueKey, Category: category})
	return f.UpdateErrs[issueKey]
}
