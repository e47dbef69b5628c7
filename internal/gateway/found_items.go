package gateway

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"

	"github.com/findora/findora/internal/forms"
	"github.com/findora/findora/internal/model"
)

// ListFoundItems fetches every found item in server order (newest first).
func (c *Client) ListFoundItems(ctx context.Context) ([]model.FoundItem, error) {
	var items []model.FoundItem
	err := c.do(ctx, request{op: "listing found items", method: http.MethodGet, path: "/found-items"}, &items)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.FoundItem{}
	}
	return items, nil
}

// GetFoundItem fetches one found item.
func (c *Client) GetFoundItem(ctx context.Context, id int64) (*model.FoundItem, error) {
	const op = "getting found item"
	var item *model.FoundItem
	if err := c.do(ctx, request{op: op, method: http.MethodGet, path: foundItemPath(id)}, &item); err != nil {
		return nil, err
	}
	return requireBody(op, item)
}

// CreateFoundItem uploads a new item. Only fields set on form are sent.
func (c *Client) CreateFoundItem(ctx context.Context, form forms.FoundItem) (*model.FoundItem, error) {
	return c.sendFoundItem(ctx, "creating found item", http.MethodPost, "/found-items", form)
}

// UpdateFoundItem edits an item. Unset fields, and the photo when none is
// attached, keep their stored values.
func (c *Client) UpdateFoundItem(ctx context.Context, id int64, form forms.FoundItem) (*model.FoundItem, error) {
	return c.sendFoundItem(ctx, "updating found item", http.MethodPut, foundItemPath(id), form)
}

func (c *Client) sendFoundItem(ctx context.Context, op, method, path string, form forms.FoundItem) (*model.FoundItem, error) {
	body, contentType, err := encodeFoundItem(form)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var item *model.FoundItem
	req := request{op: op, method: method, path: path, body: body, contentType: contentType, auth: true}
	if err := c.do(ctx, req, &item); err != nil {
		return nil, err
	}
	return requireBody(op, item)
}

// DeleteFoundItem removes an item.
func (c *Client) DeleteFoundItem(ctx context.Context, id int64) error {
	return c.do(ctx, request{op: "deleting found item", method: http.MethodDelete, path: foundItemPath(id), auth: true}, nil)
}

// VerifyFoundItem marks an item as verified.
func (c *Client) VerifyFoundItem(ctx context.Context, id int64) error {
	return c.do(ctx, request{op: "verifying found item", method: http.MethodPut, path: foundItemPath(id) + "/verify", auth: true}, nil)
}

// UnverifyFoundItem clears the verified mark.
func (c *Client) UnverifyFoundItem(ctx context.Context, id int64) error {
	return c.do(ctx, request{op: "unverifying found item", method: http.MethodPut, path: foundItemPath(id) + "/unverify", auth: true}, nil)
}

func foundItemPath(id int64) string {
	return fmt.Sprintf("/found-items/%d", id)
}

// encodeFoundItem writes the set fields of form as multipart/form-data.
func encodeFoundItem(form forms.FoundItem) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct {
		name  string
		value *string
	}{
		{"name", form.Name},
		{"brand", form.Brand},
		{"color", form.Color},
		{"category", form.Category},
		{"locationFound", form.LocationFound},
		{"foundDate", form.FoundDate},
		{"description", form.Description},
		{"status", form.Status},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		if err := w.WriteField(f.name, *f.value); err != nil {
			return nil, "", fmt.Errorf("writing field %s: %w", f.name, err)
		}
	}

	if p := form.Photo; p != nil {
		filename := p.Filename
		if filename == "" {
			filename = "photo" + extensionFor(p.DetectedType())
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photo"; filename=%q`, filepath.Base(filename)))
		h.Set("Content-Type", p.DetectedType())
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("creating photo part: %w", err)
		}
		if _, err := part.Write(p.Data); err != nil {
			return nil, "", fmt.Errorf("writing photo: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func extensionFor(contentType string) string {
	if strings.HasSuffix(contentType, "png") {
		return ".png"
	}
	return ".jpg"
}
