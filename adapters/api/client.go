// Package api implements the remote synchronization client: uniform
// request/response dispatch against the statistical and storage service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"outlierlab/ports"
)

// Client talks to the service over HTTP. Calls are fire-and-forget from the
// scheduler's point of view: no retry, no explicit timeout, no cancellation
// beyond the caller's context. A cookie jar keeps the server session sticky
// across calls.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ ports.SyncPort = (*Client)(nil)

// NewClient builds a client for the given service base URL.
func NewClient(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar},
	}
}

// Get performs a GET round trip and decodes the envelope into out.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", path, err)
	}
	return c.roundTrip(req, out)
}

// Post serializes payload as JSON (an empty object when nil) and decodes the
// envelope into out.
func (c *Client) Post(ctx context.Context, path string, payload, out interface{}) error {
	if payload == nil {
		payload = struct{}{}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload for %s: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.roundTrip(req, out)
}

// Upload posts one file as a multipart form and decodes the envelope into out.
func (c *Client) Upload(ctx context.Context, path, field, filename string, file io.Reader, out interface{}) error {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("build form for %s: %w", path, err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("copy file into form: %w", err)
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &body)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	return c.roundTrip(req, out)
}

// Download fetches a binary stream, taking the filename from the
// Content-Disposition header (RFC 5987 filename* form included). A JSON body
// means the server rejected the download; the envelope message is surfaced.
func (c *Client) Download(ctx context.Context, path string) (*ports.FileDownload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", path, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("decode %s response: %w", path, err)
		}
		if env.Message == "" {
			env.Message = "download rejected"
		}
		return nil, &ports.RemoteError{Message: env.Message}
	}

	return &ports.FileDownload{
		Filename:    dispositionFilename(resp.Header.Get("Content-Disposition")),
		ContentType: contentType,
		Data:        data,
	}, nil
}

func (c *Client) roundTrip(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", req.URL.Path, err)
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	if env.Status == StatusError {
		return &ports.RemoteError{Message: env.Message}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s payload: %w", req.URL.Path, err)
	}
	return nil
}

// dispositionFilename extracts the attachment filename, preferring the
// UTF-8 filename* form the service emits.
func dispositionFilename(header string) string {
	if header == "" {
		return ""
	}
	if _, params, err := mime.ParseMediaType(header); err == nil {
		if name := params["filename"]; name != "" {
			return name
		}
	}
	// Last resort for headers ParseMediaType chokes on.
	const marker = "filename*=UTF-8''"
	if idx := strings.Index(header, marker); idx >= 0 {
		if name, err := url.PathUnescape(header[idx+len(marker):]); err == nil {
			return name
		}
	}
	return ""
}
