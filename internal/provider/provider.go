package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/AlenaMolokova/smmpanel/internal/constants"
	"github.com/AlenaMolokova/smmpanel/internal/metrics"
)

// Error is returned for any transport failure, non-2xx response or error
// payload from the provider. Callers treat it as transient and retryable.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider error: %s", e.Message)
}

type Client struct {
	endpoint string
	key      string
	client   *http.Client
}

func NewClient(endpoint, key string) *Client {
	return &Client{
		endpoint: endpoint,
		key:      key,
		client: &http.Client{
			Timeout: constants.ProviderTimeoutSec * time.Second,
		},
	}
}

type RemoteService struct {
	Service  flexInt64 `json:"service"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Rate     flexFloat `json:"rate"`
	Min      flexInt64 `json:"min"`
	Max      flexInt64 `json:"max"`
}

type statusEntry struct {
	Order  flexInt64 `json:"order"`
	Status string    `json:"status"`
	Error  string    `json:"error"`
}

type errEnvelope struct {
	Error string `json:"error"`
}

func (c *Client) call(ctx context.Context, action string, params url.Values) ([]byte, error) {
	form := url.Values{}
	form.Set("key", c.key)
	form.Set("action", action)
	for k, vs := range params {
		for _, v := range vs {
			form.Add(k, v)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("failed to create %s request: %v", action, err)}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(action, "error").Inc()
		return nil, &Error{Message: fmt.Sprintf("%s request failed: %v", action, err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(action, "error").Inc()
		return nil, &Error{Message: fmt.Sprintf("failed to read %s response: %v", action, err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.ProviderRequestsTotal.WithLabelValues(action, "error").Inc()
		return nil, &Error{Message: fmt.Sprintf("unexpected status code %d for %s", resp.StatusCode, action)}
	}

	metrics.ProviderRequestsTotal.WithLabelValues(action, "ok").Inc()
	return body, nil
}

func (c *Client) Services(ctx context.Context) ([]RemoteService, error) {
	body, err := c.call(ctx, "services", nil)
	if err != nil {
		return nil, err
	}

	var services []RemoteService
	if err := json.Unmarshal(body, &services); err != nil {
		var envelope errEnvelope
		if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
			return nil, &Error{Message: envelope.Error}
		}
		return nil, &Error{Message: fmt.Sprintf("failed to decode services response: %v", err)}
	}
	return services, nil
}

func (c *Client) SubmitOrder(ctx context.Context, serviceExternalID int64, link string, quantity int) (int64, error) {
	params := url.Values{}
	params.Set("service", strconv.FormatInt(serviceExternalID, 10))
	params.Set("link", link)
	params.Set("quantity", strconv.Itoa(quantity))

	body, err := c.call(ctx, "add", params)
	if err != nil {
		return 0, err
	}

	var resp struct {
		Order flexInt64 `json:"order"`
		Error string    `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, &Error{Message: fmt.Sprintf("failed to decode add response: %v", err)}
	}
	if resp.Error != "" {
		return 0, &Error{Message: resp.Error}
	}
	if resp.Order == 0 {
		return 0, &Error{Message: "no order id in add response"}
	}
	return int64(resp.Order), nil
}

// OrderStatuses fetches raw statuses for a batch of external order ids. The
// provider returns a single object for one order and a list for several;
// both shapes are folded into the same map keyed by external id. Entries
// carrying a per-order error are left out of the result.
func (c *Client) OrderStatuses(ctx context.Context, ids []int64) (map[int64]string, error) {
	if len(ids) == 0 {
		return map[int64]string{}, nil
	}

	joined := make([]string, len(ids))
	for i, id := range ids {
		joined[i] = strconv.FormatInt(id, 10)
	}
	params := url.Values{}
	params.Set("orders", strings.Join(joined, ","))

	body, err := c.call(ctx, "status", params)
	if err != nil {
		return nil, err
	}

	var entries []statusEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		var single statusEntry
		if err := json.Unmarshal(body, &single); err != nil {
			return nil, &Error{Message: fmt.Sprintf("failed to decode status response: %v", err)}
		}
		if single.Error != "" && single.Status == "" {
			return nil, &Error{Message: single.Error}
		}
		entries = []statusEntry{single}
	}

	statuses := make(map[int64]string, len(entries))
	for _, entry := range entries {
		if entry.Error != "" {
			continue
		}
		id := int64(entry.Order)
		if id == 0 && len(ids) == 1 {
			id = ids[0]
		}
		if id == 0 {
			continue
		}
		statuses[id] = entry.Status
	}
	return statuses, nil
}

// The provider is inconsistent about numeric fields: ids and rates arrive as
// either JSON numbers or quoted strings depending on the action.

type flexInt64 int64

func (v *flexInt64) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*v = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*v = flexInt64(n)
	return nil
}

type flexFloat float64

func (v *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*v = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*v = flexFloat(f)
	return nil
}
