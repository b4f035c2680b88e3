package model

// ParentRef identifies the parent of an issue (epic or parent task).
type ParentRef struct {
	Key     string `json:"key"`
	Summary string `json:"summary"`
}

// Issue is a read-only snapshot of a Jira issue, holding only the fields
// the categorizer displays. Optional fields are nil when Jira did not
// return a value.
type Issue struct {
	// Key is the issue key (e.g., ABC-123).
	Key string `json:"key"`

	// Summary is the one-line title of the issue.
	Summary string `json:"summary"`

	// Type is the issue type name (Story, Bug, Task, ...).
	Type string `json:"type"`

	// Parent is the parent issue, if any.
	Parent *ParentRef `json:"parent,omitempty"`

	// Assignee is the display name of the assignee, if assigned.
	Assignee *string `json:"assignee,omitempty"`

	// Status is the workflow status name.
	Status string `json:"status"`

	// Resolution is the resolution name, nil while unresolved.
	Resolution *string `json:"resolution,omitempty"`

	// StoryPoints is the value of the story points custom field, if set.
	StoryPoints *float64 `json:"story_points,omitempty"`

	// Labels holds the issue labels in Jira order.
	Labels []string `json:"labels,omitempty"`

	// Updated is the raw last-updated timestamp as sent by Jira
	// (e.g., "2024-03-05T10:11:12.123+0000").
	Updated string `json:"updated"`
}

// SearchResult holds the issues returned by a single query together with
// the total number of matches reported by the server.
type SearchResult struct {
	Issues []Issue
	Total  int
}
