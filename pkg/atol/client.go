// Package atol submits fiscal documents to an ATOL Online style cash
// register service and fetches their processing reports.
//
// The client makes one blocking request per call and never retries; the
// document's external id is the idempotency key for callers that do.
package atol

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"3tcapital/atolonline/internal/infrastructure/security"
	"3tcapital/atolonline/pkg/fiscal"
)

const logBodyLimit = 4096

// errorEnvelope is the error object of every response. v4 identifies
// errors by error_id, older responses by code.
type errorEnvelope struct {
	ErrorID string `json:"error_id"`
	Code    int    `json:"code"`
	Text    string `json:"text"`
	Type    string `json:"type"`
}

type submitResponse struct {
	UUID  string         `json:"uuid"`
	Error *errorEnvelope `json:"error"`
}

// Client talks to one register group with one set of credentials. It is
// safe for concurrent use.
type Client struct {
	opts Options
	log  *slog.Logger
	auth *authManager
}

// New validates opts, applies defaults and acquires a token, so bad
// credentials fail here rather than on the first submission.
func New(ctx context.Context, opts Options) (*Client, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	c := &Client{opts: opts, log: opts.Logger}
	c.auth = newAuthManager(c, opts.Login, opts.Password)

	if _, err := c.auth.token(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// GroupCode returns the register group documents are submitted to.
func (c *Client) GroupCode() string {
	return c.opts.GroupCode
}

// Token returns the stored token, fetching a new one when none is valid.
func (c *Client) Token(ctx context.Context) (string, error) {
	return c.auth.token(ctx)
}

// RefreshToken discards the stored token and fetches a new one.
func (c *Client) RefreshToken(ctx context.Context) (string, error) {
	c.auth.invalidate()
	return c.auth.token(ctx)
}

// Submit registers doc and returns the uuid the service assigned to it.
// The document payload must be in the shape of the client's protocol.
// Model errors from serialization are returned unchanged.
func (c *Client) Submit(ctx context.Context, doc *fiscal.Document) (string, error) {
	if doc == nil {
		return "", &fiscal.InvalidInputError{Field: "document", Reason: "must not be nil"}
	}
	if want := c.opts.Protocol.Schema(); doc.Schema() != want {
		return "", &fiscal.InvalidInputError{
			Field:  "document",
			Reason: fmt.Sprintf("%s payload cannot be sent with protocol %s", doc.Schema(), c.opts.Protocol),
		}
	}

	fields, err := doc.Serialize()
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encode %s document: %w", doc.Operation(), err)
	}

	operation := doc.Operation()
	status, data, err := c.authorized(ctx, operation, c.groupURL(operation), body)
	if err != nil {
		return "", err
	}

	var resp submitResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", &TransportError{Operation: operation, StatusCode: status, Err: fmt.Errorf("decode response: %w", err)}
	}

	if resp.Error != nil {
		rejection := c.reject(operation, status, resp.Error, resp.UUID, data)
		if resp.UUID != "" && c.opts.returnsErroredUUID() {
			return resp.UUID, nil
		}
		return "", rejection
	}
	if resp.UUID == "" {
		return "", &TransportError{Operation: operation, StatusCode: status, Err: errors.New("response without uuid")}
	}
	return resp.UUID, nil
}

// GetReport fetches the processing status of the document with uuid.
func (c *Client) GetReport(ctx context.Context, uuid string) (*fiscal.Report, error) {
	const operation = "report"

	uuid = strings.TrimSpace(uuid)
	if uuid == "" {
		return nil, &fiscal.InvalidInputError{Field: "uuid", Reason: "must not be empty"}
	}

	status, data, err := c.authorized(ctx, operation, c.groupURL("report/"+url.PathEscape(uuid)), nil)
	if err != nil {
		return nil, err
	}

	var envelope submitResponse
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, &TransportError{Operation: operation, StatusCode: status, Err: fmt.Errorf("decode response: %w", err)}
	}
	if envelope.Error != nil && envelope.UUID == "" {
		return nil, c.reject(operation, status, envelope.Error, "", data)
	}

	report, err := fiscal.ParseReport(data)
	if err != nil {
		return nil, &TransportError{Operation: operation, StatusCode: status, Err: err}
	}
	if err := report.Error(); err != nil {
		c.log.Warn("Atol Online report error",
			"uuid", report.UUID,
			"status", report.Status,
			"error", err.Error(),
		)
	}
	return report, nil
}

func (c *Client) baseURL() string {
	return c.opts.Host + "/possystem/" + c.opts.APIVersion
}

func (c *Client) groupURL(path string) string {
	return c.baseURL() + "/" + url.PathEscape(c.opts.GroupCode) + "/" + path
}

// authorized performs a request that needs a token. A 401 drops the stored
// token; the failing call is not repeated.
func (c *Client) authorized(ctx context.Context, operation, target string, body []byte) (int, []byte, error) {
	token, err := c.auth.token(ctx)
	if err != nil {
		return 0, nil, err
	}

	status, data, err := c.send(ctx, operation, target, body, token)
	if status == http.StatusUnauthorized {
		c.log.Warn("Atol Online token rejected, dropping it", "operation", operation)
		c.auth.invalidate()
	}
	return status, data, err
}

// exchange performs an unauthenticated request.
func (c *Client) exchange(ctx context.Context, operation, target string, body []byte) (int, []byte, error) {
	return c.send(ctx, operation, target, body, "")
}

// send issues one request: POST with a JSON body when body is non-nil,
// GET otherwise. It returns the status and body of any response that the
// protocol accepts.
func (c *Client) send(ctx context.Context, operation, target string, body []byte, token string) (int, []byte, error) {
	if token != "" && c.opts.Protocol == ProtocolV3 {
		target += "?tokenid=" + url.QueryEscape(token)
	}

	method := http.MethodGet
	var reader io.Reader
	if body != nil {
		method = http.MethodPost
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, nil, &TransportError{Operation: operation, Err: err}
	}
	req.Header.Set("Accept", "application/json; charset=utf-8")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" && c.opts.Protocol == ProtocolV4 {
		req.Header.Set("Token", token)
	}

	c.log.Debug("Atol Online request",
		"operation", operation,
		"method", method,
		"url", security.SanitizeURL(target),
		"headers", security.SanitizeHeaders(req.Header),
		"body", string(security.SanitizeBody(body, logBodyLimit)),
	)

	resp, err := c.opts.HTTPClient.Do(req)
	if err != nil {
		c.log.Warn("Atol Online request failed", "operation", operation, "error", err)
		return 0, nil, &TransportError{Operation: operation, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Warn("Atol Online response unreadable", "operation", operation, "status", resp.StatusCode, "error", err)
		return resp.StatusCode, nil, &TransportError{Operation: operation, StatusCode: resp.StatusCode, Err: err}
	}

	c.log.Debug("Atol Online response",
		"operation", operation,
		"status", resp.StatusCode,
		"body", string(security.SanitizeBody(data, logBodyLimit)),
	)

	if c.opts.Protocol == ProtocolV3 && resp.StatusCode != http.StatusOK {
		c.log.Warn("Atol Online unexpected status",
			"operation", operation,
			"status", resp.StatusCode,
			"response", string(security.SanitizeBody(data, logBodyLimit)),
		)
		return resp.StatusCode, data, &TransportError{Operation: operation, StatusCode: resp.StatusCode}
	}

	return resp.StatusCode, data, nil
}

// reject logs an error envelope and converts it to a *RemoteError.
func (c *Client) reject(operation string, status int, env *errorEnvelope, uuid string, raw []byte) *RemoteError {
	c.log.Warn("Atol Online error",
		"operation", operation,
		"status", status,
		"error_id", env.ErrorID,
		"code", env.Code,
		"error", env.Text,
		"uuid", uuid,
		"response", string(security.SanitizeBody(raw, logBodyLimit)),
	)

	return &RemoteError{
		Operation:  operation,
		StatusCode: status,
		Code:       env.Code,
		ErrorID:    env.ErrorID,
		Text:       env.Text,
		Type:       env.Type,
		UUID:       uuid,
	}
}
