package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/bonpiedlaroute/leaseboost/internal/domain/analysis"
)

// DefaultTimeout is the hard client-side cap on one analysis call.
const DefaultTimeout = 180 * time.Second

// User-facing messages for transport failures.
const (
	msgTimeout = "Analyse trop longue - Veuillez réessayer avec un document plus petit"
	msgGeneric = "Erreur lors de l'analyse du bail"
)

// Client calls the LeaseBoost analysis API. It implements analysis.Analyzer.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// New builds a client for the given base URL. The timeout applies per
// Analyze call through the request context, so expiry aborts the in-flight
// request and releases the connection.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    &http.Client{},
	}
}

// Analyze submits the document as a multipart body, single field "file".
func (c *Client) Analyze(ctx context.Context, up analysis.Upload) (*analysis.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := createFilePart(mw, up.Filename, up.ContentType)
	if err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := io.Copy(part, up.Content); err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/analyze-lease/", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &analysis.TimeoutError{Message: msgTimeout}
		}
		return nil, &analysis.ServiceError{Message: msgGeneric}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &analysis.ServiceError{
			Message: errorDetail(resp.Body),
			Status:  resp.StatusCode,
		}
	}

	var result analysis.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &analysis.ServiceError{Message: msgGeneric, Status: resp.StatusCode}
	}
	return &result, nil
}

// HealthCheck probes the API liveness endpoint. No timeout or retry policy
// beyond what the caller's context carries.
func (c *Client) HealthCheck(ctx context.Context) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health-check/", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var status map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decode health payload: %w", err)
	}
	return status, nil
}

// errorDetail pulls the server-provided message out of a failure body,
// falling back to the generic message.
func errorDetail(r io.Reader) string {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil || strings.TrimSpace(body.Detail) == "" {
		return msgGeneric
	}
	return body.Detail
}

// createFilePart is CreateFormFile with the upload's declared media type
// instead of application/octet-stream.
func createFilePart(mw *multipart.Writer, filename, contentType string) (io.Writer, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	h.Set("Content-Type", contentType)
	return mw.CreatePart(h)
}
