package clipdesksdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal Clipdesk HTTP API client.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

// Request represents the API buyer request model.
type Request struct {
	ID                  string   `json:"id"`
	CreatedAt           string   `json:"created_at"`
	Name                string   `json:"name"`
	Email               string   `json:"email"`
	Company             *string  `json:"company,omitempty"`
	NeedType            string   `json:"need_type"`
	Platforms           []string `json:"platforms"`
	VolumePerWeek       int      `json:"volume_per_week"`
	Turnaround          string   `json:"turnaround"`
	BudgetRange         string   `json:"budget_range"`
	FootageLink         *string  `json:"footage_link,omitempty"`
	ExamplesLink        *string  `json:"examples_link,omitempty"`
	Notes               *string  `json:"notes,omitempty"`
	Status              string   `json:"status"`
	ComplexitySuggested string   `json:"complexity_suggested,omitempty"`
	SpeedTier           string   `json:"speed_tier,omitempty"`
}

// Job represents the API job model.
type Job struct {
	ID           string   `json:"id"`
	CreatedAt    string   `json:"created_at"`
	RequestID    *string  `json:"request_id,omitempty"`
	Status       string   `json:"status"`
	BuyerName    string   `json:"buyer_name"`
	BuyerEmail   string   `json:"buyer_email"`
	Service      string   `json:"service"`
	Package      *string  `json:"package,omitempty"`
	Rush         bool     `json:"rush"`
	DueAt        *string  `json:"due_at,omitempty"`
	DeliveryLink *string  `json:"delivery_link,omitempty"`
	BuyerPrice   *float64 `json:"buyer_price,omitempty"`
	EditorPayout *float64 `json:"editor_payout,omitempty"`
	PayoutStatus *string  `json:"payout_status,omitempty"`
}

// Checklist represents a job's delivery checklist.
type Checklist struct {
	ID                string `json:"id"`
	JobID             string `json:"job_id"`
	PaymentConfirmed  bool   `json:"payment_confirmed"`
	FilesReceived     bool   `json:"files_received"`
	ScopeLocked       bool   `json:"scope_locked"`
	EditInProgress    bool   `json:"edit_in_progress"`
	QAPass            bool   `json:"qa_pass"`
	Delivered         bool   `json:"delivered"`
	RevisionRequested bool   `json:"revision_requested"`
	Closed            bool   `json:"closed"`
}

// Template represents a message template.
type Template struct {
	ID        string  `json:"id"`
	CreatedAt string  `json:"created_at"`
	Name      string  `json:"name"`
	Subject   *string `json:"subject,omitempty"`
	Body      string  `json:"body"`
}

// Session is the login result.
type Session struct {
	Token   string `json:"token"`
	AdminID string `json:"admin_id"`
	Email   string `json:"email"`
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// Login authenticates and stores the session token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var resp Session
	err := c.do(ctx, http.MethodPost, "v0/auth/login", map[string]any{
		"email":    email,
		"password": password,
	}, &resp)
	if err == nil {
		c.Token = resp.Token
	}
	return resp, err
}

// SubmitRequest posts to the public intake endpoint. No session is required.
func (c *Client) SubmitRequest(ctx context.Context, body map[string]any) (Request, error) {
	var resp Request
	err := c.do(ctx, http.MethodPost, "v0/intake/requests", body, &resp)
	return resp, err
}

// Requests lists buyer requests, newest first.
func (c *Client) Requests(ctx context.Context) ([]Request, error) {
	var resp []Request
	err := c.do(ctx, http.MethodGet, "v0/admin/requests", nil, &resp)
	return resp, err
}

// GetRequest fetches one buyer request.
func (c *Client) GetRequest(ctx context.Context, id string) (Request, error) {
	var resp Request
	err := c.do(ctx, http.MethodGet, "v0/admin/requests/"+url.PathEscape(id), nil, &resp)
	return resp, err
}

// SetRequestStatus updates a request's pipeline status.
func (c *Client) SetRequestStatus(ctx context.Context, id, status string) (Request, error) {
	var resp Request
	endpoint := fmt.Sprintf("v0/admin/requests/%s/status", url.PathEscape(id))
	err := c.do(ctx, http.MethodPatch, endpoint, map[string]any{"status": status}, &resp)
	return resp, err
}

// ConvertRequest converts a request into a job and returns the new job id.
func (c *Client) ConvertRequest(ctx context.Context, id string) (string, error) {
	var resp struct {
		JobID string `json:"job_id"`
	}
	endpoint := fmt.Sprintf("v0/admin/requests/%s/convert", url.PathEscape(id))
	err := c.do(ctx, http.MethodPost, endpoint, nil, &resp)
	return resp.JobID, err
}

// Jobs lists jobs, newest first.
func (c *Client) Jobs(ctx context.Context) ([]Job, error) {
	var resp []Job
	err := c.do(ctx, http.MethodGet, "v0/admin/jobs", nil, &resp)
	return resp, err
}

// GetJob fetches one job.
func (c *Client) GetJob(ctx context.Context, id string) (Job, error) {
	var resp Job
	err := c.do(ctx, http.MethodGet, "v0/admin/jobs/"+url.PathEscape(id), nil, &resp)
	return resp, err
}

// Checklist fetches a job's checklist.
func (c *Client) Checklist(ctx context.Context, jobID string) (Checklist, error) {
	var resp Checklist
	endpoint := fmt.Sprintf("v0/admin/jobs/%s/checklist", url.PathEscape(jobID))
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// UpdateChecklist patches checklist flags. Only keys present in flags change.
func (c *Client) UpdateChecklist(ctx context.Context, jobID string, flags map[string]bool) (Checklist, error) {
	var resp Checklist
	endpoint := fmt.Sprintf("v0/admin/jobs/%s/checklist", url.PathEscape(jobID))
	err := c.do(ctx, http.MethodPatch, endpoint, flags, &resp)
	return resp, err
}

// Templates lists message templates.
func (c *Client) Templates(ctx context.Context) ([]Template, error) {
	var resp []Template
	err := c.do(ctx, http.MethodGet, "v0/admin/templates", nil, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}
