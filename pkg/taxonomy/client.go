package taxonomy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultBaseURL is the taxonomy service the builder ships against.
const DefaultBaseURL = "http://3.111.34.117/api"

// Entity is one node of the taxonomy, normalised across levels.
type Entity struct {
	Level       Level  `json:"level"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code,omitempty"`
	ParentID    string `json:"parentId,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Description string `json:"description,omitempty"`
	Depth       int    `json:"depth,omitempty"`
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another taxonomy service.
func WithBaseURL(raw string) Option {
	return func(c *Client) {
		if raw != "" {
			c.baseURL = strings.TrimRight(raw, "/")
		}
	}
}

// WithHTTPClient injects the HTTP client used for every request.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout caps each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock overrides the time stamped on created entities.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// Client reads and writes taxonomy entities over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  logrus.FieldLogger
	now     func() time.Time
}

// NewClient builds a client for DefaultBaseURL unless WithBaseURL says
// otherwise.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    http.DefaultClient,
		timeout: 10 * time.Second,
		logger:  logrus.StandardLogger(),
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string { return c.baseURL }

// ListCategories returns every top-level category.
func (c *Client) ListCategories(ctx context.Context) ([]Entity, error) {
	return c.List(ctx, LevelCategory, "")
}

// ListSubcategories returns the subcategories of categoryID. An empty id
// returns them all.
func (c *Client) ListSubcategories(ctx context.Context, categoryID string) ([]Entity, error) {
	return c.List(ctx, LevelSubcategory, categoryID)
}

// ListSubcategoryTypes returns the types under subcategoryID.
func (c *Client) ListSubcategoryTypes(ctx context.Context, subcategoryID string) ([]Entity, error) {
	return c.List(ctx, LevelSubcategoryType, subcategoryID)
}

// ListProductTypes returns the product types under subcategoryTypeID.
func (c *Client) ListProductTypes(ctx context.Context, subcategoryTypeID string) ([]Entity, error) {
	return c.List(ctx, LevelProductType, subcategoryTypeID)
}

// ListProductStyles returns the styles under productTypeID.
func (c *Client) ListProductStyles(ctx context.Context, productTypeID string) ([]Entity, error) {
	return c.List(ctx, LevelProductStyle, productTypeID)
}

// List fetches the whole collection for level and keeps the entries whose
// parent matches parentID. Categories ignore parentID.
func (c *Client) List(ctx context.Context, level Level, parentID string) ([]Entity, error) {
	info, err := level.info()
	if err != nil {
		return nil, err
	}
	if c.baseURL == "" {
		return nil, ErrNoBaseURL
	}

	reqCtx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.endpoint(info), nil)
	if err != nil {
		return nil, fmt.Errorf("taxonomy: list %s: %w", level, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("taxonomy: list %s: %w", level, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("taxonomy: list %s: %w", level, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Op: "list " + string(level), StatusCode: resp.StatusCode, Message: serverMessage(body)}
	}

	records, err := decodeRecords(body)
	if err != nil {
		return nil, fmt.Errorf("taxonomy: list %s: %w", level, err)
	}

	filter := strings.TrimSpace(parentID)
	out := make([]Entity, 0, len(records))
	for _, rec := range records {
		e := toEntity(level, info, rec)
		if level != LevelCategory && filter != "" && strings.TrimSpace(e.ParentID) != filter {
			continue
		}
		out = append(out, e)
	}

	c.logger.WithFields(logrus.Fields{
		"level":  level,
		"parent": filter,
		"count":  len(out),
	}).Debug("taxonomy listed")
	return out, nil
}

func (c *Client) endpoint(info levelInfo) string {
	return c.baseURL + "/" + info.endpoint
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}

// decodeRecords accepts a bare array or an envelope with a data array.
func decodeRecords(body []byte) ([]map[string]any, error) {
	var records []map[string]any
	if err := json.Unmarshal(body, &records); err == nil {
		return records, nil
	}
	var envelope struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return envelope.Data, nil
}

func toEntity(level Level, info levelInfo, rec map[string]any) Entity {
	e := Entity{
		Level:       level,
		ID:          stringField(rec, info.idField()),
		Name:        stringField(rec, info.nameField()),
		Code:        stringField(rec, info.codeField()),
		ParentID:    stringField(rec, info.parent),
		ImageURL:    stringField(rec, "image_url"),
		Description: stringField(rec, "description"),
	}
	if d, err := strconv.Atoi(stringField(rec, "depth")); err == nil {
		e.Depth = d
	}
	return e
}

func stringField(rec map[string]any, key string) string {
	switch v := rec[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		return payload.Error
	}
	return strings.TrimSpace(string(body))
}
