package jira

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	gojira "github.com/andygrunwald/go-jira"

	"github.com/nhle/jira-categorize/internal/source"
)

// Client is a thin wrapper over go-jira for Jira Cloud and Server/DC.
// It handles basic authentication with a user and API token and maps
// error responses to descriptive errors. Requests are never retried.
type Client struct {
	baseURL string
	jira    *gojira.Client
}

// NewClient creates a new Jira client. The baseURL should be the root
// URL of the Jira instance (e.g., https://example.atlassian.net).
func NewClient(
	baseURL string,
	user string,
	token string,
	timeout time.Duration,
) (*Client, error) {
	baseURL = strings.TrimRight(baseURL, "/")

	tp := &gojira.BasicAuthTransport{
		Username: user,
		Password: token,
	}
	httpClient := tp.Client()
	httpClient.Timeout = timeout

	jc, err := gojira.NewClient(httpClient, baseURL)
	if err != nil {
		return nil, fmt.Errorf("creating Jira client for %s: %w", baseURL, err)
	}

	return &Client{
		baseURL: baseURL,
		jira:    jc,
	}, nil
}

// Myself returns the user the credentials belong to.
func (c *Client) Myself(ctx context.Context) (*gojira.User, error) {
	user, resp, err := c.jira.User.GetSelfWithContext(ctx)
	if err != nil {
		// go-jira has already decoded the error body here.
		return nil, c.wrap(resp, err, http.MethodGet, "rest/api/2/myself")
	}
	return user, nil
}

// Post performs an HTTP POST request with a JSON body and unmarshals
// the JSON response.
func (c *Client) Post(
	ctx context.Context,
	path string,
	body interface{},
	result interface{},
) error {
	req, err := c.jira.NewRequestWithContext(ctx, http.MethodPost, path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.jira.Do(req, result)
	if err != nil {
		return c.wrap(resp, decodeError(resp, err), http.MethodPost, path)
	}
	return nil
}

// UpdateFields sets the given fields on one issue with
// PUT /rest/api/2/issue/{key}.
func (c *Client) UpdateFields(
	ctx context.Context,
	issueKey string,
	fields map[string]interface{},
) error {
	payload := map[string]interface{}{"fields": fields}

	resp, err := c.jira.Issue.UpdateIssueWithContext(ctx, issueKey, payload)
	if err != nil {
		return c.wrap(
			resp, decodeError(resp, err),
			http.MethodPut, "rest/api/2/issue/"+issueKey,
		)
	}
	return nil
}

// decodeError reads the Jira error body (errorMessages / errors) into
// the returned error. Transport failures have no response to read.
func decodeError(resp *gojira.Response, err error) error {
	if resp == nil || resp.Response == nil {
		return err
	}
	return gojira.NewJiraError(resp, err)
}

// wrap turns a failed call into the error returned to callers. A 401
// becomes a source.AuthError so the caller can tell bad credentials
// apart from other failures.
func (c *Client) wrap(
	resp *gojira.Response,
	err error,
	method string,
	path string,
) error {
	if resp != nil && resp.Response != nil &&
		resp.StatusCode == http.StatusUnauthorized {
		return &source.AuthError{
			Server:  c.baseURL,
			Message: "authentication failed (401): check JIRA_USER and JIRA_API_TOKEN",
		}
	}
	return fmt.Errorf("%s %s: %w", method, path, err)
}
