package camunda

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"taskmanagement/internal/client"
)

const serviceName = "camunda"

type Interface interface {
	GetTaskVariables(ctx context.Context, taskID string) (map[string]Variable, error)
	AddLocalVariables(ctx context.Context, taskID string, vars Variables) error
	AssignTask(ctx context.Context, taskID, userID string) error
}

var _ Interface = (*Client)(nil)

// Client talks to the engine's REST API. Only the task endpoints are used.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  client.TokenSource
}

func New(baseURL string, timeout time.Duration, tokens client.TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

func (c *Client) GetTaskVariables(ctx context.Context, taskID string) (map[string]Variable, error) {
	var vars map[string]Variable
	if err := c.call(ctx, http.MethodGet, c.taskURL(taskID, "variables"), nil, &vars); err != nil {
		return nil, err
	}
	if vars == nil {
		vars = map[string]Variable{}
	}
	return vars, nil
}

// AddLocalVariables sets task-local variables. An empty set is not sent.
func (c *Client) AddLocalVariables(ctx context.Context, taskID string, vars Variables) error {
	if vars.Len() == 0 {
		return nil
	}
	body := struct {
		Modifications map[string]Variable `json:"modifications"`
	}{Modifications: vars.Map()}
	return c.call(ctx, http.MethodPost, c.taskURL(taskID, "localVariables"), body, nil)
}

func (c *Client) AssignTask(ctx context.Context, taskID, userID string) error {
	body := struct {
		UserID string `json:"userId"`
	}{UserID: userID}
	return c.call(ctx, http.MethodPost, c.taskURL(taskID, "assignee"), body, nil)
}

func (c *Client) taskURL(taskID, resource string) string {
	return fmt.Sprintf("%s/task/%s/%s", c.baseURL, url.PathEscape(taskID), resource)
}

func (c *Client) call(ctx context.Context, method, endpoint string, in, out any) error {
	var payload *bytes.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", serviceName, err)
		}
		payload = bytes.NewReader(raw)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return err
	}
	token, err := c.tokens.ServiceToken()
	if err != nil {
		return fmt.Errorf("issue service token: %w", err)
	}
	req.Header.Set("ServiceAuthorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return client.TransportError(serviceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return client.StatusError(serviceName, resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &client.DownstreamError{Service: serviceName, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
