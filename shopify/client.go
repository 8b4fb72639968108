package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"macarabia_sync/structs"

	"github.com/MonkyMars/gecho"
)

// AdminClient talks to one Shopify admin tenant over GraphQL and REST.
// The sync service runs two of these: the secondary (write) store and the
// source (enrichment) store, differing only in domain and token.
type AdminClient struct {
	scheme  string
	domain  string
	token   string
	version string
	client  *http.Client
	logger  *gecho.Logger
}

func New(cfg *structs.StoreConfig, logger *gecho.Logger) *AdminClient {
	scheme, domain := normalizeDomain(cfg.ShopDomain)
	return &AdminClient{
		scheme:  scheme,
		domain:  domain,
		token:   cfg.AdminToken,
		version: cfg.APIVersion,
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

func (c *AdminClient) Domain() string {
	return c.domain
}

// normalizeDomain strips the protocol and any trailing slash so the env var
// can hold either "shop.myshopify.com" or a full URL. An explicit http://
// prefix is honored for local development endpoints; everything else is
// called over https.
func normalizeDomain(domain string) (string, string) {
	domain = strings.TrimSpace(domain)

	scheme := "https"
	if rest, ok := strings.CutPrefix(domain, "http://"); ok {
		scheme = "http"
		domain = rest
	}
	domain = strings.TrimPrefix(domain, "https://")
	return scheme, strings.TrimSuffix(domain, "/")
}

// APIError carries what the admin API rejected a call with: the HTTP status
// and response body for REST, or the first GraphQL error message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("shopify api: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("shopify api: %s", e.Message)
}

// UserError is the userErrors shape GraphQL mutations return instead of
// transport-level errors.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// CheckUserErrors flattens a mutation's userErrors into a single error, nil
// when the list is empty.
func CheckUserErrors(op string, errs []UserError) error {
	if len(errs) == 0 {
		return nil
	}

	messages := make([]string, 0, len(errs))
	for _, ue := range errs {
		messages = append(messages, ue.Message)
	}
	return fmt.Errorf("%s user errors: %s", op, strings.Join(messages, "; "))
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// GraphQL posts a query against the tenant's admin GraphQL endpoint and
// unmarshals the data payload into out. A non-empty errors array is returned
// as an *APIError carrying the first message.
func (c *AdminClient) GraphQL(ctx context.Context, query string, variables map[string]any, out any) error {
	endpoint := fmt.Sprintf("%s://%s/admin/api/%s/graphql.json", c.scheme, c.domain, c.version)

	payload, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to marshal graphql request: %w", err)
	}

	raw, status, err := c.do(ctx, http.MethodPost, endpoint, payload)
	if err != nil {
		return err
	}
	if status >= 300 {
		return &APIError{Status: status, Message: string(raw)}
	}

	var resp graphqlResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return fmt.Errorf("failed to parse graphql response: %w", err)
	}
	if len(resp.Errors) > 0 {
		return &APIError{Message: resp.Errors[0].Message}
	}

	if out != nil && len(resp.Data) > 0 {
		if err := json.Unmarshal(resp.Data, out); err != nil {
			return fmt.Errorf("failed to decode graphql data: %w", err)
		}
	}
	return nil
}

// REST calls the tenant's admin REST endpoint. path is relative to the
// versioned API root ("products.json", "variants/42.json"). body is
// marshaled when non-nil; the response is decoded into out when non-nil.
func (c *AdminClient) REST(ctx context.Context, method, path string, body, out any) error {
	endpoint := fmt.Sprintf("%s://%s/admin/api/%s/%s", c.scheme, c.domain, c.version, strings.TrimPrefix(path, "/"))

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	raw, status, err := c.do(ctx, method, endpoint, payload)
	if err != nil {
		return err
	}
	if status >= 300 {
		return &APIError{Status: status, Message: string(raw)}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

func (c *AdminClient) do(ctx context.Context, method, endpoint string, payload []byte) ([]byte, int, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Shopify-Access-Token", c.token)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("Shopify admin call",
		gecho.Field("method", method),
		gecho.Field("endpoint", endpoint),
		gecho.Field("status", resp.StatusCode),
		gecho.Field("duration", time.Since(start)),
	)

	return raw, resp.StatusCode, nil
}

// ProductGID converts a tenant-local numeric product id into the global id
// form GraphQL mutations take.
func ProductGID(id int64) string {
	return fmt.Sprintf("gid://shopify/Product/%d", id)
}
