package cdek

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

const (
	productionURL = "https://api.cdek.ru/v2/"
	sandboxURL    = "https://api.edu.cdek.ru/v2/"
	// The legacy v1 calculator lives on a separate host without the /v2 prefix.
	legacyProductionURL = "https://api.cdek.ru/"

	tokenPath = "oauth/token"

	defaultTimeout = 10 * time.Second
)

// Config holds CDEK client configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	// Sandbox switches the client to the api.edu test environment.
	Sandbox bool

	// Account and SecurePassword authenticate legacy v1 calculator requests.
	Account        string
	SecurePassword string

	// BaseURL and LegacyBaseURL override the provider hosts, mainly for tests.
	BaseURL       string
	LegacyBaseURL string

	Timeout time.Duration
}

type tokenState struct {
	accessToken string
	expiresIn   time.Duration
	issuedAt    time.Time
}

// valid reports whether the token can still be used at the given instant.
func (t tokenState) valid(now time.Time) bool {
	return t.accessToken != "" && now.Before(t.issuedAt.Add(t.expiresIn))
}

// Client is the HTTP implementation of the CDEK API. It owns the OAuth2
// client-credentials token lifecycle and re-authenticates transparently
// when the token expires.
//
// The client is not safe for concurrent use: token state is refreshed
// in place under the single-threaded usage contract of the sync CLI.
type Client struct {
	cfg        Config
	baseURL    string
	legacyURL  string
	httpClient *http.Client
	logger     *otelzap.Logger
	token      tokenState
	now        func() time.Time
}

// New creates a new CDEK client. Missing credentials are rejected here,
// before any network activity.
func New(cfg Config, logger *otelzap.Logger) (*Client, error) {
	return NewWithClock(cfg, logger, time.Now)
}

// NewWithClock creates a client with an injected clock, used by tests to
// exercise token expiry.
func NewWithClock(cfg Config, logger *otelzap.Logger, now func() time.Time) (*Client, error) {
	if cfg.ClientID == "" {
		return nil, NewError(CodeNoSettings, "client id is not configured")
	}
	if cfg.ClientSecret == "" {
		return nil, NewError(CodeNoSettings, "client secret is not configured")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		if cfg.Sandbox {
			baseURL = sandboxURL
		} else {
			baseURL = productionURL
		}
	}
	legacyURL := cfg.LegacyBaseURL
	if legacyURL == "" {
		legacyURL = legacyProductionURL
	}
	baseURL = ensureSlash(baseURL)
	legacyURL = ensureSlash(legacyURL)

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	if logger == nil {
		logger = otelzap.New(zap.NewNop())
	}

	return &Client{
		cfg:        cfg,
		baseURL:    baseURL,
		legacyURL:  legacyURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		now:        now,
	}, nil
}

// Authenticate performs the client-credentials grant and stores the token.
func (c *Client) Authenticate(ctx context.Context) error {
	params := url.Values{}
	params.Set("grant_type", "client_credentials")
	params.Set("client_id", c.cfg.ClientID)
	params.Set("client_secret", c.cfg.ClientSecret)

	resp, err := c.do(ctx, c.baseURL, http.MethodPost, tokenPath, params, nil)
	if err != nil {
		return err
	}

	m, _ := resp.(map[string]any)
	token, _ := m["access_token"].(string)
	if token == "" {
		return NewError("notoken", "authentication did not yield a token")
	}
	expires, _ := m["expires_in"].(float64)

	c.token = tokenState{
		accessToken: token,
		expiresIn:   time.Duration(expires) * time.Second,
		issuedAt:    c.now(),
	}
	c.logger.Info("Authenticated with CDEK",
		zap.Duration("expires_in", c.token.expiresIn),
	)
	return nil
}

// ensureAuthenticated refreshes the token when missing or expired. Every
// authenticated operation calls it before building the outbound request.
func (c *Client) ensureAuthenticated(ctx context.Context) error {
	if c.token.valid(c.now()) {
		return nil
	}
	return c.Authenticate(ctx)
}

// Regions lists regions with delivery coverage.
func (c *Client) Regions(ctx context.Context, filter RegionsFilter) ([]map[string]any, error) {
	return c.getList(ctx, "location/regions", filter.values())
}

// Cities lists cities with delivery coverage.
func (c *Client) Cities(ctx context.Context, filter CitiesFilter) ([]map[string]any, error) {
	return c.getList(ctx, "location/cities", filter.values())
}

// DeliveryPoints lists pickup points matching the filter.
func (c *Client) DeliveryPoints(ctx context.Context, filter DeliveryPointsFilter) ([]map[string]any, error) {
	return c.getList(ctx, "deliverypoints", filter.values())
}

// CalculateTariffList calculates delivery cost over all available tariffs.
func (c *Client) CalculateTariffList(ctx context.Context, req *TariffListRequest) (map[string]any, error) {
	return c.postMap(ctx, "calculator/tarifflist", req)
}

// CalculateTariff calculates delivery cost for a specific tariff code.
func (c *Client) CalculateTariff(ctx context.Context, req *TariffRequest) (map[string]any, error) {
	return c.postMap(ctx, "calculator/tariff", req)
}

// RegisterOrder registers an order and returns its provider-assigned UUID.
func (c *Client) RegisterOrder(ctx context.Context, req *OrderRequest) (string, error) {
	resp, err := c.postMap(ctx, "orders", req)
	if err != nil {
		return "", err
	}
	return entityUUID(resp)
}

// OrderInfo fetches order details by UUID.
func (c *Client) OrderInfo(ctx context.Context, orderUUID string) (map[string]any, error) {
	return c.getMap(ctx, "orders/"+orderUUID, nil)
}

// DeleteOrder removes a registered order.
func (c *Client) DeleteOrder(ctx context.Context, orderUUID string) (map[string]any, error) {
	if err := c.ensureAuthenticated(ctx); err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, c.baseURL, http.MethodDelete, "orders/"+orderUUID, nil, nil)
	if err != nil {
		return nil, err
	}
	return asMap(resp), nil
}

type printJobRequest struct {
	Orders    []printJobOrder `json:"orders"`
	CopyCount int             `json:"copy_count"`
	Format    BarcodeFormat   `json:"format,omitempty"`
}

type printJobOrder struct {
	OrderUUID string `json:"order_uuid"`
}

// RequestPrintDocuments submits a receipt-printing job and returns its UUID.
func (c *Client) RequestPrintDocuments(ctx context.Context, orderUUIDs []string, copyCount int) (string, error) {
	resp, err := c.postMap(ctx, "print/orders", printJob(orderUUIDs, copyCount, ""))
	if err != nil {
		return "", err
	}
	return entityUUID(resp)
}

// PrintInfo fetches print job status and metadata.
func (c *Client) PrintInfo(ctx context.Context, printUUID string) (map[string]any, error) {
	return c.getMap(ctx, "print/orders/"+printUUID, nil)
}

// RequestBarcodes submits a barcode-generation job and returns its UUID.
func (c *Client) RequestBarcodes(ctx context.Context, orderUUIDs []string, copyCount int, format BarcodeFormat) (string, error) {
	if format == "" {
		format = BarcodeA4
	}
	resp, err := c.postMap(ctx, "print/barcodes", printJob(orderUUIDs, copyCount, format))
	if err != nil {
		return "", err
	}
	return entityUUID(resp)
}

// BarcodeInfo fetches barcode job status and metadata.
func (c *Client) BarcodeInfo(ctx context.Context, barcodeUUID string) (map[string]any, error) {
	return c.getMap(ctx, "print/barcodes/"+barcodeUUID, nil)
}

func printJob(orderUUIDs []string, copyCount int, format BarcodeFormat) *printJobRequest {
	orders := make([]printJobOrder, len(orderUUIDs))
	for i, id := range orderUUIDs {
		orders[i] = printJobOrder{OrderUUID: id}
	}
	return &printJobRequest{Orders: orders, CopyCount: copyCount, Format: format}
}

// DocumentStatus extracts the latest job status from a PrintInfo or
// BarcodeInfo response. An empty status history yields an empty status.
func DocumentStatus(info map[string]any) (PrintStatus, error) {
	entity, ok := info["entity"].(map[string]any)
	if !ok {
		return "", NewError(CodeNoEntity, "no entity status")
	}
	statuses, ok := entity["statuses"].([]any)
	if !ok {
		return "", NewError(CodeNoEntity, "no entity status")
	}
	if len(statuses) == 0 {
		return "", nil
	}
	last, _ := statuses[len(statuses)-1].(map[string]any)
	code, _ := last["code"].(string)
	return PrintStatus(code), nil
}

// DocumentURL extracts the download URL from a PrintInfo or BarcodeInfo
// response. A missing URL is not an error: the job may not be ready yet.
func DocumentURL(info map[string]any) (string, bool) {
	entity, ok := info["entity"].(map[string]any)
	if !ok {
		return "", false
	}
	u, ok := entity["url"].(string)
	if !ok || u == "" {
		return "", false
	}
	return u, true
}

// ============================================================================
// Request plumbing
// ============================================================================

func (c *Client) getList(ctx context.Context, path string, params url.Values) ([]map[string]any, error) {
	if err := c.ensureAuthenticated(ctx); err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, c.baseURL, http.MethodGet, path, params, nil)
	if err != nil {
		return nil, err
	}
	items, _ := resp.([]any)
	result := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			result = append(result, m)
		}
	}
	return result, nil
}

func (c *Client) getMap(ctx context.Context, path string, params url.Values) (map[string]any, error) {
	if err := c.ensureAuthenticated(ctx); err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, c.baseURL, http.MethodGet, path, params, nil)
	if err != nil {
		return nil, err
	}
	return asMap(resp), nil
}

func (c *Client) postMap(ctx context.Context, path string, body any) (map[string]any, error) {
	if err := c.ensureAuthenticated(ctx); err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, c.baseURL, http.MethodPost, path, nil, body)
	if err != nil {
		return nil, err
	}
	return asMap(resp), nil
}

// do performs one round trip, decodes the JSON response and runs uniform
// error detection on it. Transport failures are normalized into *Error with
// CodeTransport rather than leaking net/http error types.
func (c *Client) do(ctx context.Context, baseURL, method, path string, params url.Values, body any) (any, error) {
	requestURL := baseURL + path
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	var bodyReader io.Reader
	var bodyLen int
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
		bodyLen = len(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if method == http.MethodPost || method == http.MethodDelete {
		req.Header.Set("Content-Type", "application/json")
		// The provider insists on an explicit length even for empty bodies.
		req.Header.Set("Content-Length", strconv.Itoa(bodyLen))
	}
	if c.token.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.token.accessToken)
	}

	c.logger.Debug("CDEK request",
		zap.String("method", method),
		zap.String("url", requestURL),
	)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, NewError(CodeTransport, "request failed").WithCause(err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, NewError(CodeTransport, "reading response body failed").WithCause(err)
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, NewError(CodeTransport,
			fmt.Sprintf("unparseable response (HTTP %d)", httpResp.StatusCode)).WithCause(err)
	}

	if err := handleErrors(decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}

// handleErrors runs uniform error detection on a decoded response: top-level
// v2 errors list, legacy v1 error list, and per-request INVALID states.
func handleErrors(decoded any) error {
	m, ok := decoded.(map[string]any)
	if !ok {
		return nil
	}

	if errs, ok := m["errors"].([]any); ok && len(errs) > 0 {
		first, _ := errs[0].(map[string]any)
		return errorFrom(first, "message")
	}

	// v1 API reports errors under "error" with the message in "text".
	if errs, ok := m["error"].([]any); ok && len(errs) > 0 {
		first, _ := errs[0].(map[string]any)
		return errorFrom(first, "text")
	}

	if requests, ok := m["requests"].([]any); ok {
		for _, r := range requests {
			req, _ := r.(map[string]any)
			if state, _ := req["state"].(string); state != "INVALID" {
				continue
			}
			if errs, ok := req["errors"].([]any); ok && len(errs) > 0 {
				first, _ := errs[0].(map[string]any)
				return errorFrom(first, "message")
			}
			return NewError("unknown", "unknown error")
		}
	}
	return nil
}

func errorFrom(m map[string]any, messageKey string) *Error {
	code, _ := m["code"].(string)
	message, _ := m[messageKey].(string)
	return NewError(code, message)
}

func entityUUID(resp map[string]any) (string, error) {
	if entity, ok := resp["entity"].(map[string]any); ok {
		if id, ok := entity["uuid"].(string); ok && id != "" {
			return id, nil
		}
	}
	return "", NewError(CodeNoUUID, "no entity uuid")
}

func ensureSlash(u string) string {
	if !strings.HasSuffix(u, "/") {
		return u + "/"
	}
	return u
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// Ensure Client implements the API interface.
var _ API = (*Client)(nil)
