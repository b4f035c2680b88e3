package jira

import "encoding/json"

// searchRequest is the body of both search endpoints. StartAt is only
// understood by the v2 endpoint.
type searchRequest struct {
	JQL        string   `json:"jql"`
	StartAt    *int     `json:"startAt,omitempty"`
	MaxResults int      `json:"maxResults"`
	Fields     []string `json:"fields"`
}

// SearchResponse is the response from POST /rest/api/2/search and
// POST /rest/api/3/search/jql. The enhanced (jql) endpoint reports no
// total and pages with NextPageToken instead.
type SearchResponse struct {
	StartAt       int     `json:"startAt"`
	MaxResults    int     `json:"maxResults"`
	Total         int     `json:"total"`
	Issues        []Issue `json:"issues"`
	NextPageToken string  `json:"nextPageToken,omitempty"`
	IsLast        bool    `json:"isLast,omitempty"`
}

// Issue represents a single Jira issue from the REST API. Fields is kept
// raw so custom fields with instance-specific ids can be read after the
// standard ones are decoded.
type Issue struct {
	ID     string          `json:"id"`
	Key    string          `json:"key"`
	Self   string          `json:"self"`
	Fields json.RawMessage `json:"fields"`
}

// IssueFields contains the standard fields the categorizer displays.
type IssueFields struct {
	Summary    string      `json:"summary"`
	Status     *Status     `json:"status"`
	IssueType  IssueType   `json:"issuetype"`
	Assignee   *User       `json:"assignee"`
	Parent     *Parent     `json:"parent"`
	Resolution *Resolution `json:"resolution"`
	Updated    string      `json:"updated"`
	Labels     []string    `json:"labels,omitempty"`
}

// Status represents the status of a Jira issue.
type Status struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// IssueType represents the type of a Jira issue (Bug, Story, etc.).
type IssueType struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// User represents a Jira user.
type User struct {
	AccountID    string `json:"accountId,omitempty"`
	Name         string `json:"name,omitempty"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress,omitempty"`
}

// Parent is the abbreviated parent issue embedded in a child's fields.
type Parent struct {
	ID     string       `json:"id"`
	Key    string       `json:"key"`
	Fields ParentFields `json:"fields"`
}

// ParentFields holds the parent fields Jira embeds in the child.
type ParentFields struct {
	Summary string `json:"summary"`
}

// Resolution represents how an issue was resolved.
type Resolution struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// optionValue is the payload shape of a single-select custom field.
type optionValue struct {
	Value string `json:"value"`
}
