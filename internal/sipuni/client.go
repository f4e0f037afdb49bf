package sipuni

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrNotConfigured is returned when no vendor credential is present.
	// A missing token must not crash the process; every call fails with
	// this error instead.
	ErrNotConfigured = errors.New("sipuni token not configured")

	// ErrTimeout marks a vendor call that exceeded the fixed timeout.
	ErrTimeout = errors.New("sipuni API request timed out")
)

// APIError is a non-2xx answer from the vendor, with the best message we
// could extract from its error body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sipuni API error (status %d): %s", e.Status, e.Message)
}

// Client handles REST communication with the Sipuni telephony API. Every
// request carries the server-held bearer credential; the frontend never
// sees it.
type Client struct {
	baseURL       string
	token         string
	autocallToken string
	httpClient    *http.Client
}

// NewClient builds a vendor client. The autocall endpoints may use a
// separate credential; pass the same token twice when they don't.
func NewClient(baseURL, token, autocallToken string, timeout time.Duration) *Client {
	if autocallToken == "" {
		autocallToken = token
	}
	return &Client{
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		token:         token,
		autocallToken: autocallToken,
		httpClient:    &http.Client{Timeout: timeout},
	}
}

// Configured reports whether a vendor credential is present.
func (c *Client) Configured() bool {
	return c.token != ""
}

// makeRequest performs an HTTP request to the Sipuni API and returns the
// response body. Non-2xx statuses become *APIError; timeouts become
// ErrTimeout.
func (c *Client) makeRequest(ctx context.Context, method, endpoint string, payload interface{}) ([]byte, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	fullURL := c.baseURL + endpoint

	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	token := c.token
	if strings.Contains(endpoint, "/autocall") {
		token = c.autocallToken
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %s %s", ErrTimeout, method, endpoint)
		}
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Message: extractErrorMessage(respBody, resp.Status)}
	}

	return respBody, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr) && urlErr.Timeout()
}

// extractErrorMessage pulls a human-readable message out of the vendor's
// error body; the key varies between endpoints.
func extractErrorMessage(body []byte, fallback string) string {
	var parsed struct {
		Error       string `json:"error"`
		Message     string `json:"message"`
		Msg         string `json:"msg"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		for _, m := range []string{parsed.Error, parsed.Message, parsed.Msg, parsed.Description} {
			if m != "" {
				return m
			}
		}
	}
	return fallback
}

// ListCampaigns returns the campaign list.
func (c *Client) ListCampaigns(ctx context.Context, max, pos int) ([]Campaign, error) {
	body, err := c.makeRequest(ctx, http.MethodGet, fmt.Sprintf("/autocall/?max=%d&pos=%d", max, pos), nil)
	if err != nil {
		return nil, err
	}
	var list List
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, err
	}
	return decodeAll[Campaign](list)
}

// GetCampaign fetches a single campaign. The vendor answers with a list;
// the entry matching id wins, the first entry is the fallback.
func (c *Client) GetCampaign(ctx context.Context, id string) (*Campaign, error) {
	body, err := c.makeRequest(ctx, http.MethodGet, "/autocall-outline/?autocall="+url.QueryEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var list List
	if err := json.Unmarshal(body, &list); err == nil && len(list) > 0 {
		campaigns, err := decodeAll[Campaign](list)
		if err != nil {
			return nil, err
		}
		for i := range campaigns {
			if campaigns[i].ID.String() == id {
				return &campaigns[i], nil
			}
		}
		return &campaigns[0], nil
	}

	return decodeCampaign(body)
}

// CreateCampaign creates a campaign and returns the vendor's view of it.
func (c *Client) CreateCampaign(ctx context.Context, payload *CreateCampaignPayload) (*Campaign, error) {
	body, err := c.makeRequest(ctx, http.MethodPost, "/autocall/", payload)
	if err != nil {
		return nil, err
	}
	return decodeCampaign(body)
}

// UpdateCampaign applies a partial update to a campaign.
func (c *Client) UpdateCampaign(ctx context.Context, id string, fields map[string]interface{}) (json.RawMessage, error) {
	return c.makeRequest(ctx, http.MethodPut, "/autocall/"+url.PathEscape(id), fields)
}

// DeleteCampaign removes a campaign on the vendor side.
func (c *Client) DeleteCampaign(ctx context.Context, id string) error {
	_, err := c.makeRequest(ctx, http.MethodDelete, "/autocall/"+url.PathEscape(id), nil)
	return err
}

// StartCampaign starts dialing.
func (c *Client) StartCampaign(ctx context.Context, id string) error {
	_, err := c.makeRequest(ctx, http.MethodGet, "/autocall/"+url.PathEscape(id)+"/start", nil)
	return err
}

// StopCampaign stops dialing.
func (c *Client) StopCampaign(ctx context.Context, id string) error {
	_, err := c.makeRequest(ctx, http.MethodGet, "/autocall/"+url.PathEscape(id)+"/stop", nil)
	return err
}

// Operators returns the operators assigned to a campaign.
func (c *Client) Operators(ctx context.Context, campaignID string) ([]Operator, error) {
	body, err := c.makeRequest(ctx, http.MethodGet, "/autocall-operator/?autocall="+url.QueryEscape(campaignID), nil)
	if err != nil {
		return nil, err
	}
	var list List
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, err
	}
	return decodeAll[Operator](list)
}

// AssignOperators attaches operators to a campaign.
func (c *Client) AssignOperators(ctx context.Context, campaignID string, operatorIDs []int64) error {
	endpoint := "/autocall-operator/?autocall=" + url.QueryEscape(campaignID)
	_, err := c.makeRequest(ctx, http.MethodPost, endpoint, map[string]interface{}{"operators": operatorIDs})
	return err
}

// UnassignOperator detaches one operator from a campaign.
func (c *Client) UnassignOperator(ctx context.Context, campaignID, operatorID string) error {
	endpoint := "/autocall-operator/" + url.PathEscape(operatorID) + "/?autocall=" + url.QueryEscape(campaignID)
	_, err := c.makeRequest(ctx, http.MethodDelete, endpoint, nil)
	return err
}

// Numbers returns the phone numbers uploaded to a campaign.
func (c *Client) Numbers(ctx context.Context, campaignID string, max, pos int) ([]NumberEntry, error) {
	endpoint := fmt.Sprintf("/autocall-number/?autocall=%s&max=%d&pos=%d", url.QueryEscape(campaignID), max, pos)
	body, err := c.makeRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	var list List
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, err
	}
	return decodeAll[NumberEntry](list)
}

// UploadNumber uploads one phone number. The vendor accepts one number per
// request, so callers loop.
func (c *Client) UploadNumber(ctx context.Context, campaignID string, number int64) error {
	payload := map[string]interface{}{
		"autocall": campaignID,
		"number":   number,
		"comment":  "",
	}
	_, err := c.makeRequest(ctx, http.MethodPost, "/autocall-number/", payload)
	return err
}

// CallResults returns the raw per-call results of a campaign.
func (c *Client) CallResults(ctx context.Context, campaignID string, max, pos int) ([]CallRow, error) {
	endpoint := fmt.Sprintf("/autocall/%s/results?max=%d&pos=%d", url.PathEscape(campaignID), max, pos)
	body, err := c.makeRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	var list List
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, err
	}
	return decodeAll[CallRow](list)
}

// CallReport returns the aggregate call report of a campaign.
func (c *Client) CallReport(ctx context.Context, campaignID string) (*Report, error) {
	body, err := c.makeRequest(ctx, http.MethodGet, "/autocall/report/"+url.PathEscape(campaignID), nil)
	if err != nil {
		return nil, err
	}
	return decodeReport(body)
}

// Lines returns the available outbound phone lines.
func (c *Client) Lines(ctx context.Context) ([]Line, error) {
	body, err := c.makeRequest(ctx, http.MethodGet, "/lines/", nil)
	if err != nil {
		return nil, err
	}
	var list List
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, err
	}
	return decodeAll[Line](list)
}

// SelectLine marks a line as selected inside a campaign outline, the same
// PATCH the vendor dashboard issues.
func (c *Client) SelectLine(ctx context.Context, campaignID, lineID int64, selected bool) error {
	payload := map[string]interface{}{
		"autocall": campaignID,
		"id":       lineID,
		"selected": selected,
	}
	_, err := c.makeRequest(ctx, http.MethodPatch, "/autocall-outline/", payload)
	return err
}

// Employees returns the account's employees (operator candidates).
func (c *Client) Employees(ctx context.Context) ([]Operator, error) {
	body, err := c.makeRequest(ctx, http.MethodGet, "/employees/", nil)
	if err != nil {
		return nil, err
	}
	var list List
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, err
	}
	return decodeAll[Operator](list)
}

// EmployeeExtensions returns employee extension records as a normalized
// raw list; the handler passes them through untouched.
func (c *Client) EmployeeExtensions(ctx context.Context) (List, error) {
	body, err := c.makeRequest(ctx, http.MethodGet, "/employees/empExt", nil)
	if err != nil {
		return nil, err
	}
	var list List
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, err
	}
	return list, nil
}
