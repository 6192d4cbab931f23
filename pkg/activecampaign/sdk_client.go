package activecampaign

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	logf "sigs.k8s.io/controller-runtime/pkg/log"

	"go.miloapis.com/email-provider-activecampaign/pkg/version"
)

const (
	apiPath = "/admin/api.php"

	// OutputJSON is the only api_output format the client can interpret.
	OutputJSON = "json"
)

// Client is the ActiveCampaign API client. It is safe for concurrent use.
type Client struct {
	apiKey     string
	baseURL    string
	output     string
	httpClient *http.Client
}

var _ API = (*Client)(nil)

// ClientOption defines a functional option for configuring the Client.
type ClientOption func(*Client)

// WithBaseURL sets the account URL, e.g. https://myaccount.api-us1.com.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithOutputFormat sets the api_output parameter.
func WithOutputFormat(format string) ClientOption {
	return func(c *Client) {
		c.output = format
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// NewSDK creates a new ActiveCampaign API client.
func NewSDK(apiKey string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key is required")
	}

	c := &Client{
		apiKey:     apiKey,
		output:     OutputJSON,
		httpClient: http.DefaultClient,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.baseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if c.output != OutputJSON {
		return nil, fmt.Errorf("unsupported output format: %s", c.output)
	}
	if c.httpClient == nil {
		return nil, fmt.Errorf("http client is required")
	}

	return c, nil
}

// requestURL returns the admin/api.php endpoint with the per-action query parameters.
func (c *Client) requestURL(action string) string {
	params := url.Values{}
	params.Set("api_action", action)
	params.Set("api_key", c.apiKey)
	params.Set("api_output", c.output)
	return c.baseURL + apiPath + "?" + params.Encode()
}

// sendRequest posts the request's form body and decodes the JSON envelope.
// A status >= 400 becomes *Error unless the body is a failed envelope, which
// is handed to Interpret like any other rejection.
func (c *Client) sendRequest(ctx context.Context, r Request) (Envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.requestURL(r.Action()), strings.NewReader(r.Body().Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.Get().UserAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	env, decodeErr := decodeEnvelope(respBody)

	if resp.StatusCode >= 400 {
		// Error statuses that still carry a failed envelope are rejections.
		if decodeErr == nil && isRejection(env) {
			return env, nil
		}
		return nil, &Error{
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("failed to decode response: %w", decodeErr)
	}

	return env, nil
}

func decodeEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&env); err != nil {
		return nil, err
	}
	return env, nil
}

// create performs one round trip for r and returns the id assigned by the server.
func (c *Client) create(ctx context.Context, r Request) (int, error) {
	log := logf.FromContext(ctx).WithValues("action", r.Action())

	env, err := c.sendRequest(ctx, r)
	if err != nil {
		return 0, err
	}

	id, err := Interpret(env)
	if err != nil {
		return 0, err
	}

	log.V(1).Info("ActiveCampaign resource created", "id", id)
	return id, nil
}

// CreateMailingList creates a mailing list.
//
// API: POST admin/api.php?api_action=list_add
//
// Idempotency: Not idempotent
//
// Errors:
//   - *RemoteRejection: if result_code is 0.
func (c *Client) CreateMailingList(ctx context.Context, req ListAddRequest) (int, error) {
	return c.create(ctx, req)
}

// CreateContact creates a contact and subscribes it to req.MailingListIDs.
//
// API: POST admin/api.php?api_action=contact_add
//
// Idempotency: Not idempotent. The remote service rejects an email that already exists.
//
// Errors:
//   - *RemoteRejection: if result_code is 0.
func (c *Client) CreateContact(ctx context.Context, req ContactAddRequest) (int, error) {
	return c.create(ctx, req)
}

// CreateHTMLMessage creates a message with HTML content.
//
// API: POST admin/api.php?api_action=message_add
//
// Idempotency: Not idempotent
//
// Errors:
//   - *RemoteRejection: if result_code is 0.
func (c *Client) CreateHTMLMessage(ctx context.Context, req HTMLMessageAddRequest) (int, error) {
	return c.create(ctx, req)
}

// CreateSingleCampaign creates a single campaign. Scheduling takes effect as
// soon as the server accepts it.
//
// API: POST admin/api.php?api_action=campaign_create
//
// Idempotency: Not idempotent
//
// Errors:
//   - *RemoteRejection: if result_code is 0.
func (c *Client) CreateSingleCampaign(ctx context.Context, req SingleCampaignRequest) (int, error) {
	return c.create(ctx, req)
}
