package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/jira-categorize/internal/model"
)

// AuthError indicates that authentication has failed for the tracker.
// It is returned by tracker clients when a 401 response is received.
type AuthError struct {
	Server  string
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (%s): %s", e.Server, e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// Tracker defines the contract the categorizer needs from an issue
// tracker. Calls are made one at a time, never concurrently.
type Tracker interface {
	// ValidateConnection verifies credentials and connectivity.
	// Returns the authenticated user's display name on success.
	ValidateConnection(ctx context.Context) (string, error)

	// Search runs a query and returns at most maxResults issues in
	// the order the tracker returned them.
	Search(
		ctx context.Context,
		query string,
		maxResults int,
	) (*model.SearchResult, error)

	// SetWorkCategory writes the category to a single issue.
	SetWorkCategory(
		ctx context.Context,
		issueKey string,
		category model.WorkCategory,
	) error
}

// Connector builds a Tracker from validated configuration. It must not
// perform network calls; ValidateConnection does that.
type Connector func(cfg model.JiraConfig) (Tracker, error)
