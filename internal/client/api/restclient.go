package api

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

	"github.com/agritrack/agritrack-cli/internal/client/models"
	"github.com/agritrack/agritrack-cli/internal/common"
	"github.com/google/uuid"
)

// RESTClient talks JSON over HTTP to the AgriTrack backend.
type RESTClient struct {
	baseURL string
	http    *http.Client
	token   string
}

// authTransport decorates every outgoing request with the bearer token and a
// request id, so individual call sites never deal with headers.
type authTransport struct {
	next   http.RoundTripper
	client *RESTClient
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	if token := t.client.token; token != "" {
		clone.Header.Set("Authorization", "Bearer "+token)
	}
	clone.Header.Set("X-Request-Id", uuid.NewString())
	return t.next.RoundTrip(clone)
}

// NewRESTClient builds a client for the given base URL (including the /api
// prefix). The underlying http.Client carries no timeout of its own; callers
// bound requests through contexts.
func NewRESTClient(baseURL string) *RESTClient {
	c := &RESTClient{baseURL: strings.TrimRight(baseURL, "/")}
	c.http = &http.Client{Transport: &authTransport{next: http.DefaultTransport, client: c}}
	return c
}

func (c *RESTClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *RESTClient) SetToken(token string) {
	c.token = token
}

// apiError is the error document the backend attaches to non-2xx responses.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// mapStatus converts an HTTP failure into a sentinel error, keeping the
// backend's message visible to the user.
func mapStatus(status int, body []byte) error {
	var detail apiError
	_ = json.Unmarshal(body, &detail)
	msg := detail.Error
	if detail.Message != "" {
		msg = detail.Message
	}

	var sentinel error
	switch {
	case status == http.StatusUnauthorized:
		sentinel = common.ErrUnauthorized
	case status == http.StatusForbidden:
		sentinel = common.ErrPermissionDenied
	case status == http.StatusNotFound:
		sentinel = common.ErrNotFound
	case status == http.StatusBadRequest:
		sentinel = common.ErrValidation
	case status >= 500:
		sentinel = common.ErrUnavailable
	default:
		sentinel = common.ErrInternal
	}

	if msg == "" {
		return fmt.Errorf("%w (http %d)", sentinel, status)
	}
	return fmt.Errorf("%w: %s", sentinel, msg)
}

// do performs one JSON round trip. A nil out skips decoding; a nil body sends
// no payload. Transport-level failures map to ErrUnavailable.
func (c *RESTClient) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return mapStatus(resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *RESTClient) Login(ctx context.Context, username, password string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, models.LoginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	// The backend answers 400 with an empty token on bad credentials; do has
	// already mapped that. A token-less 200 is still a failed login.
	if resp.Token == "" {
		return nil, fmt.Errorf("%w: %s", common.ErrUnauthorized, resp.Message)
	}
	return &resp, nil
}

func (c *RESTClient) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("%w: %s", common.ErrValidation, resp.Message)
	}
	return &resp, nil
}

func (c *RESTClient) GetProducts(ctx context.Context, page, size int, sortBy, sortDir string) (*models.ProductPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))
	query.Set("sortBy", sortBy)
	query.Set("sortDir", sortDir)

	var result models.ProductPage
	if err := c.do(ctx, http.MethodGet, "/products", query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *RESTClient) SearchProducts(ctx context.Context, filter models.SearchFilter) ([]models.Product, error) {
	query := url.Values{}
	if filter.Name != "" {
		query.Set("name", filter.Name)
	}
	if filter.Type != "" {
		query.Set("type", filter.Type)
	}
	if filter.BatchID != "" {
		query.Set("batchId", filter.BatchID)
	}
	if filter.OriginFarmID != "" {
		query.Set("originFarmId", filter.OriginFarmID)
	}

	var result []models.Product
	if err := c.do(ctx, http.MethodGet, "/products/search", query, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *RESTClient) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var result models.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *RESTClient) CreateProduct(ctx context.Context, product models.Product) (*models.Product, error) {
	var result models.Product
	if err := c.do(ctx, http.MethodPost, "/products", nil, product, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *RESTClient) UpdateProduct(ctx context.Context, id string, product models.Product) (*models.Product, error) {
	var result models.Product
	if err := c.do(ctx, http.MethodPut, "/products/"+url.PathEscape(id), nil, product, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *RESTClient) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil, nil)
}

func (c *RESTClient) AddTrackingStage(ctx context.Context, productID string, stage models.StageRequest) (*models.Product, error) {
	var result models.Product
	path := "/products/" + url.PathEscape(productID) + "/tracking"
	if err := c.do(ctx, http.MethodPost, path, nil, stage, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *RESTClient) GetTrackingHistory(ctx context.Context, productID string) ([]models.TrackingStage, error) {
	var result []models.TrackingStage
	path := "/products/" + url.PathEscape(productID) + "/tracking"
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *RESTClient) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var result models.DashboardStats
	if err := c.do(ctx, http.MethodGet, "/products/stats", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *RESTClient) GetFarms(ctx context.Context) ([]models.Farm, error) {
	var result []models.Farm
	if err := c.do(ctx, http.MethodGet, "/farms", nil, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *RESTClient) CreateFarm(ctx context.Context, farm models.Farm) (*models.Farm, error) {
	var result models.Farm
	if err := c.do(ctx, http.MethodPost, "/farms", nil, farm, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *RESTClient) UpdateFarm(ctx context.Context, id string, farm models.Farm) (*models.Farm, error) {
	var result models.Farm
	if err := c.do(ctx, http.MethodPut, "/farms/"+url.PathEscape(id), nil, farm, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *RESTClient) DeleteFarm(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/farms/"+url.PathEscape(id), nil, nil, nil)
}
