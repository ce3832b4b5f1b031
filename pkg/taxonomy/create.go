package taxonomy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Image is an optional picture uploaded with a new entity.
type Image struct {
	Name string
	Data io.Reader
}

// EntityInput carries the fields of an entity being created.
type EntityInput struct {
	Name           string
	ParentID       string
	Description    string
	Visible        bool
	ShowInMenu     bool
	HasActiveItems bool
	// Depth defaults to the level depth when zero.
	Depth int
	Image *Image
}

// CreateResult is what the service reports about a new entity.
type CreateResult struct {
	Message  string `json:"message"`
	ID       string `json:"id,omitempty"`
	Code     string `json:"code,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Create posts a multipart payload for a new entity at level. A top-level
// category without a parent is sent with RootParentID.
func (c *Client) Create(ctx context.Context, level Level, in EntityInput) (CreateResult, error) {
	info, err := level.info()
	if err != nil {
		return CreateResult{}, err
	}
	if c.baseURL == "" {
		return CreateResult{}, ErrNoBaseURL
	}

	body, contentType, err := c.encodeCreate(level, info, in)
	if err != nil {
		return CreateResult{}, err
	}

	reqCtx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.endpoint(info), body)
	if err != nil {
		return CreateResult{}, fmt.Errorf("taxonomy: create %s: %w", level, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return CreateResult{}, fmt.Errorf("taxonomy: create %s: %w", level, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return CreateResult{}, fmt.Errorf("taxonomy: create %s: %w", level, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := serverMessage(raw)
		if msg == "" {
			msg = "failed to create " + strings.ReplaceAll(string(level), "-", " ")
		}
		return CreateResult{}, &StatusError{Op: "create " + string(level), StatusCode: resp.StatusCode, Message: msg}
	}

	result := decodeCreateResult(info, raw)
	c.logger.WithFields(logrus.Fields{
		"level": level,
		"name":  in.Name,
		"id":    result.ID,
	}).Info("taxonomy entity created")
	return result, nil
}

func (c *Client) encodeCreate(level Level, info levelInfo, in EntityInput) (*bytes.Buffer, string, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, "", ErrMissingName
	}
	parent := strings.TrimSpace(in.ParentID)
	if parent == "" {
		if level != LevelCategory {
			return nil, "", fmt.Errorf("%w for %s", ErrMissingParent, level)
		}
		parent = RootParentID
	}
	depth := in.Depth
	if depth <= 0 {
		depth = info.depth
	}

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	fields := []struct{ key, value string }{
		{info.nameField(), name},
		{"visibility", flag(in.Visible)},
		{"show_in_menu", flag(in.ShowInMenu)},
		{"created_time", c.now().UTC().Format(time.RFC3339)},
		{info.parent, parent},
		{"has_active_items", strconv.FormatBool(in.HasActiveItems)},
		{"depth", strconv.Itoa(depth)},
		{"description", in.Description},
	}
	for _, f := range fields {
		if err := w.WriteField(f.key, f.value); err != nil {
			return nil, "", fmt.Errorf("taxonomy: encode %s: %w", f.key, err)
		}
	}

	if in.Image != nil && in.Image.Data != nil {
		part, err := w.CreateFormFile("image", in.Image.Name)
		if err != nil {
			return nil, "", fmt.Errorf("taxonomy: encode image: %w", err)
		}
		if _, err := io.Copy(part, in.Image.Data); err != nil {
			return nil, "", fmt.Errorf("taxonomy: encode image: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("taxonomy: encode payload: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

// decodeCreateResult tolerates the envelope variants the service answers
// with. The inner data message wins over the outer one.
func decodeCreateResult(info levelInfo, raw []byte) CreateResult {
	var envelope struct {
		Message string         `json:"message"`
		Data    map[string]any `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return CreateResult{}
	}
	out := CreateResult{Message: envelope.Message}
	if envelope.Data == nil {
		return out
	}
	if msg := stringField(envelope.Data, "message"); msg != "" {
		out.Message = msg
	}
	out.ID = stringField(envelope.Data, info.idField())
	out.Code = stringField(envelope.Data, info.codeField())
	out.ImageURL = stringField(envelope.Data, "imageUrl")
	return out
}

func flag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
