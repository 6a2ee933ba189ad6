package roleassignment

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
	"taskmanagement/internal/model"
)

const serviceName = "role-assignment-service"

type Interface interface {
	QueryRoleAssignmentsForCase(ctx context.Context, caseID string) ([]model.RoleAssignment, error)
	GetRoleAssignmentsForActor(ctx context.Context, actorID string) ([]model.RoleAssignment, error)
}

var _ Interface = (*Client)(nil)

type Client struct {
	baseURL string
	http    *http.Client
	tokens  client.TokenSource
	now     func() time.Time
}

func New(baseURL string, timeout time.Duration, tokens client.TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		now:     time.Now,
	}
}

type queryRequest struct {
	QueryRequests []queryCriteria `json:"queryRequests"`
}

type queryCriteria struct {
	Attributes map[string][]string `json:"attributes"`
	RoleType   []string            `json:"roleType"`
	ValidAt    time.Time           `json:"validAt"`
}

type roleAssignmentResponse struct {
	RoleAssignments []model.RoleAssignment `json:"roleAssignmentResponse"`
}

// QueryRoleAssignmentsForCase returns the case role assignments currently valid for a case,
// in the order the service returns them.
func (c *Client) QueryRoleAssignmentsForCase(ctx context.Context, caseID string) ([]model.RoleAssignment, error) {
	body, err := json.Marshal(queryRequest{QueryRequests: []queryCriteria{{
		Attributes: map[string][]string{model.AttributeCaseID: {caseID}},
		RoleType:   []string{"CASE"},
		ValidAt:    c.now().UTC(),
	}}})
	if err != nil {
		return nil, fmt.Errorf("encode role assignment query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/am/role-assignments/query", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

// GetRoleAssignmentsForActor returns every role assignment held by an actor.
func (c *Client) GetRoleAssignmentsForActor(ctx context.Context, actorID string) ([]model.RoleAssignment, error) {
	endpoint := c.baseURL + "/am/role-assignments/actors/" + url.PathEscape(actorID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]model.RoleAssignment, error) {
	token, err := c.tokens.ServiceToken()
	if err != nil {
		return nil, fmt.Errorf("issue service token: %w", err)
	}
	req.Header.Set("ServiceAuthorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, client.TransportError(serviceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, client.StatusError(serviceName, resp)
	}

	var out roleAssignmentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &client.DownstreamError{Service: serviceName, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	if out.RoleAssignments == nil {
		return []model.RoleAssignment{}, nil
	}
	return out.RoleAssignments, nil
}
