package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/clinicdesk/clinicsync/internal/config"
)

// Sentinel errors for common HTTP error classes.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

// Collection names in the remote document store.
const (
	CollectionAppointments = "appointments"
	CollectionArticles     = "articles"
	CollectionDoctors      = "doctors"
)

// SourceMarker identifies documents written by this client.
const SourceMarker = "clinicsync-desktop"

// Client is an HTTP client for the remote document store. It is constructed
// once at startup when remote configuration is present and shared by the auth
// manager and both sync engines.
type Client struct {
	BaseURL   string
	APIKey    string
	ProjectID string
	HTTP      *http.Client
}

// New creates a remote client from configuration.
func New(cfg config.RemoteConfig) *Client {
	return &Client{
		BaseURL:   cfg.BaseURL,
		APIKey:    cfg.APIKey,
		ProjectID: cfg.ProjectID,
		HTTP:      &http.Client{Timeout: cfg.Timeout},
	}
}

// --- Appointments ---

// QueryAppointments returns all appointment documents whose field equals value.
func (c *Client) QueryAppointments(ctx context.Context, field, value string) ([]AppointmentDoc, error) {
	var resp struct {
		Documents []AppointmentDoc `json:"documents"`
	}
	path := fmt.Sprintf("%s?%s", c.collectionPath(CollectionAppointments),
		url.Values{"field": {field}, "value": {value}}.Encode())
	if err := c.do(ctx, "GET", path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Documents, nil
}

// CreateAppointment creates a document; the server assigns the id.
func (c *Client) CreateAppointment(ctx context.Context, doc *AppointmentDoc) (*AppointmentDoc, error) {
	var created AppointmentDoc
	if err := c.do(ctx, "POST", c.collectionPath(CollectionAppointments), doc, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateAppointment updates an existing document by id.
func (c *Client) UpdateAppointment(ctx context.Context, id string, doc *AppointmentDoc) error {
	return c.do(ctx, "PATCH", c.documentPath(CollectionAppointments, id), doc, nil)
}

// --- Articles ---

// QueryArticles returns all article documents whose field equals value.
func (c *Client) QueryArticles(ctx context.Context, field, value string) ([]ArticleDoc, error) {
	var resp struct {
		Documents []ArticleDoc `json:"documents"`
	}
	path := fmt.Sprintf("%s?%s", c.collectionPath(CollectionArticles),
		url.Values{"field": {field}, "value": {value}}.Encode())
	if err := c.do(ctx, "GET", path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Documents, nil
}

// UpsertArticle atomically creates or replaces the document under id.
// Returns true when the document was created, false when replaced, so push
// can report created/updated counts without a query-before-write race.
func (c *Client) UpsertArticle(ctx context.Context, id string, doc *ArticleDoc) (created bool, err error) {
	status, err := c.doStatus(ctx, "PUT", c.documentPath(CollectionArticles, id), doc, nil)
	if err != nil {
		return false, err
	}
	return status == http.StatusCreated, nil
}

// --- Auth ---

// SignIn authenticates with email/password and returns the remote identity
// with a fresh token and expiry.
func (c *Client) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	var result AuthResult
	if err := c.do(ctx, "POST", "/v1/auth/login", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SignOut revokes the given token. Best effort; callers clear local state
// regardless of the outcome.
func (c *Client) SignOut(ctx context.Context, token string) error {
	body := map[string]string{"token": token}
	return c.do(ctx, "POST", "/v1/auth/logout", body, nil)
}

// --- HTTP plumbing ---

func (c *Client) collectionPath(coll string) string {
	return fmt.Sprintf("/v1/projects/%s/collections/%s/documents", c.ProjectID, coll)
}

func (c *Client) documentPath(coll, id string) string {
	return fmt.Sprintf("%s/%s", c.collectionPath(coll), url.PathEscape(id))
}

// apiError is the standard error body from the remote store.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *apiError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Code
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	_, err := c.doStatus(ctx, method, path, body, result)
	return err
}

func (c *Client) doStatus(ctx context.Context, method, path string, body, result any) (int, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bodyReader)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		detail := string(respBody)
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Code != "" {
			detail = apiErr.Error()
		}
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return resp.StatusCode, fmt.Errorf("%w: %s", ErrUnauthorized, detail)
		case http.StatusForbidden:
			return resp.StatusCode, fmt.Errorf("%w: %s", ErrForbidden, detail)
		case http.StatusNotFound:
			return resp.StatusCode, fmt.Errorf("%w: %s", ErrNotFound, detail)
		default:
			return resp.StatusCode, fmt.Errorf("HTTP %d: %s", resp.StatusCode, detail)
		}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return resp.StatusCode, fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return resp.StatusCode, nil
}
