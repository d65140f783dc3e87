package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultRetryWaitMin = 500 * time.Millisecond
	defaultRetryWaitMax = 5 * time.Second
)

// ClientConfig holds configuration for HTTP clients.
type ClientConfig struct {
	Timeout       time.Duration
	Transport     http.RoundTripper
	CheckRedirect func(req *http.Request, via []*http.Request) error

	// RetryMax enables retries of requests that failed before any response
	// arrived. Responses, including 5xx, are never retried. Zero disables
	// retrying.
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	Logger       *slog.Logger
}

// NewClient creates an HTTP client. If config is nil, uses a 30s timeout and
// no retries.
func NewClient(config *ClientConfig) *http.Client {
	if config == nil {
		config = &ClientConfig{}
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	client := &http.Client{
		Timeout:       timeout,
		Transport:     config.Transport,
		CheckRedirect: config.CheckRedirect,
	}

	if config.RetryMax <= 0 {
		return client
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = client
	retryClient.RetryMax = config.RetryMax
	retryClient.RetryWaitMin = orDefault(config.RetryWaitMin, defaultRetryWaitMin)
	retryClient.RetryWaitMax = orDefault(config.RetryWaitMax, defaultRetryWaitMax)
	retryClient.CheckRetry = retryConnectionErrors
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = nil
	if config.Logger != nil {
		retryClient.Logger = config.Logger
	}

	return retryClient.StandardClient()
}

// retryConnectionErrors retries only when no response was received.
func retryConnectionErrors(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}
	return false, nil
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
