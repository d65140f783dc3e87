package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"3tcapital/atolonline/internal/core/audit"
	ctxutil "3tcapital/atolonline/internal/infrastructure/context"
	"3tcapital/atolonline/internal/infrastructure/security"
)

const (
	defaultMaxBodySize = 102400
	auditSaveTimeout   = 10 * time.Second

	// CorrelationHeader carries the correlation ID to the service.
	CorrelationHeader = "X-Correlation-ID"
)

// Doer executes HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TracedClientConfig holds configuration for the traced HTTP client.
type TracedClientConfig struct {
	Service         string
	AuditEnabled    bool
	LogRequestBody  bool
	LogResponseBody bool
	MaxBodySize     int
}

// TracedClient wraps a Doer, logging every exchange with secrets redacted and
// saving it to the audit repository in the background.
type TracedClient struct {
	client       Doer
	log          *slog.Logger
	auditRepo    audit.Repository
	service      string
	auditEnabled bool
	logReqBody   bool
	logRespBody  bool
	maxBodySize  int

	pending sync.WaitGroup
}

// NewTracedClient creates a traced client around client. A nil repo
// disables auditing regardless of cfg.
func NewTracedClient(client Doer, cfg TracedClientConfig, log *slog.Logger, repo audit.Repository) *TracedClient {
	maxBodySize := cfg.MaxBodySize
	if maxBodySize == 0 {
		maxBodySize = defaultMaxBodySize
	}
	service := cfg.Service
	if service == "" {
		service = "atol"
	}

	return &TracedClient{
		client:       client,
		log:          log,
		auditRepo:    repo,
		service:      service,
		auditEnabled: cfg.AuditEnabled && repo != nil,
		logReqBody:   cfg.LogRequestBody,
		logRespBody:  cfg.LogResponseBody,
		maxBodySize:  maxBodySize,
	}
}

// Do executes req, tracing the request and response.
func (c *TracedClient) Do(req *http.Request) (*http.Response, error) {
	correlationID := ctxutil.GetCorrelationID(req.Context())
	if correlationID != "" {
		req.Header.Set(CorrelationHeader, correlationID)
	}
	operation := OperationFromPath(req.URL.Path, req.Method)
	start := time.Now()

	var requestBody []byte
	if req.Body != nil && req.Body != http.NoBody {
		var err error
		requestBody, err = io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read request body: %w", err)
		}
		req.Body = io.NopCloser(bytes.NewReader(requestBody))
	}

	c.logRequest(correlationID, operation, req, requestBody)

	resp, err := c.client.Do(req)
	duration := time.Since(start)

	var responseBody []byte
	if resp != nil && resp.Body != nil {
		var readErr error
		responseBody, readErr = io.ReadAll(resp.Body)
		resp.Body.Close()
		resp.Body = io.NopCloser(bytes.NewReader(responseBody))
		if readErr != nil && err == nil {
			err = fmt.Errorf("read response body: %w", readErr)
		}
	}

	c.logResponse(correlationID, operation, req, resp, err, duration, responseBody)

	if c.auditEnabled {
		exchange := c.exchange(correlationID, operation, req, resp, err, duration, requestBody, responseBody)
		c.pending.Add(1)
		go c.save(exchange)
	}

	return resp, err
}

// Flush waits for background audit saves to finish or ctx to end.
func (c *TracedClient) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *TracedClient) logRequest(correlationID, operation string, req *http.Request, body []byte) {
	attrs := []any{
		"correlation_id", correlationID,
		"service", c.service,
		"operation", operation,
		"method", req.Method,
		"url", security.SanitizeURL(req.URL.String()),
	}
	if c.logReqBody && len(body) > 0 {
		attrs = append(attrs, "request_body", string(security.SanitizeBody(body, c.maxBodySize)))
	}

	c.log.Info("provider_request", attrs...)
}

func (c *TracedClient) logResponse(correlationID, operation string, req *http.Request, resp *http.Response, err error, duration time.Duration, body []byte) {
	attrs := []any{
		"correlation_id", correlationID,
		"service", c.service,
		"operation", operation,
		"method", req.Method,
		"url", security.SanitizeURL(req.URL.String()),
		"duration_ms", duration.Milliseconds(),
	}

	if err != nil {
		attrs = append(attrs, "error", err.Error())
		c.log.Error("provider_request_failed", attrs...)
		return
	}

	attrs = append(attrs, "status", resp.StatusCode, "response_size_bytes", len(body))
	if c.logRespBody && len(body) > 0 {
		attrs = append(attrs, "response_body", string(security.SanitizeBody(body, c.maxBodySize)))
	}

	switch {
	case resp.StatusCode >= 500:
		c.log.Error("provider_response", attrs...)
	case resp.StatusCode >= 400:
		c.log.Warn("provider_response", attrs...)
	default:
		c.log.Info("provider_response", attrs...)
	}
}

func (c *TracedClient) exchange(correlationID, operation string, req *http.Request, resp *http.Response, err error, duration time.Duration, requestBody, responseBody []byte) audit.Exchange {
	if correlationID == "" {
		correlationID = fmt.Sprintf("audit-%d", time.Now().UnixNano())
	}

	e := audit.Exchange{
		CorrelationID:  correlationID,
		Service:        c.service,
		Operation:      operation,
		RequestMethod:  req.Method,
		RequestURL:     security.SanitizeURL(req.URL.String()),
		RequestHeaders: security.SanitizeHeaders(req.Header),
		RequestBody:    security.SanitizeBody(requestBody, c.maxBodySize),
		DurationMs:     duration.Milliseconds(),
	}

	if resp != nil {
		status := resp.StatusCode
		e.ResponseStatus = &status
		e.ResponseHeaders = security.SanitizeHeaders(resp.Header)
		e.ResponseBody = security.SanitizeBody(responseBody, c.maxBodySize)
	}
	if err != nil {
		e.ErrorMessage = err.Error()
	}
	return e
}

// save persists e with its own deadline; the request context may already be
// cancelled by the time it runs.
func (c *TracedClient) save(e audit.Exchange) {
	defer c.pending.Done()
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("Panic in audit log persistence",
				"panic", r,
				"correlation_id", e.CorrelationID,
				"operation", e.Operation,
			)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), auditSaveTimeout)
	defer cancel()

	if err := c.auditRepo.Save(ctx, e); err != nil {
		c.log.Error("Failed to persist audit log",
			"error", err,
			"correlation_id", e.CorrelationID,
			"operation", e.Operation,
			"response_status", e.ResponseStatus,
		)
		return
	}

	c.log.Debug("Audit log persisted",
		"correlation_id", e.CorrelationID,
		"operation", e.Operation,
		"duration_ms", e.DurationMs,
	)
}

// OperationFromPath names the service operation a request path addresses:
// the last segment, or "report" for report lookups whose last segment is a
// uuid.
func OperationFromPath(path, method string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	n := len(parts)
	switch {
	case n >= 2 && parts[n-2] == "report":
		return "report"
	case parts[n-1] != "":
		return parts[n-1]
	default:
		return strings.ToLower(method)
	}
}
