package audit

//go:generate go run go.uber.org/mock/mockgen@v0.5.0 -source=audit.go -destination=../../testutil/mocks/audit.go -package=mocks

import (
	"context"
	"encoding/json"
	"time"
)

// Exchange is one HTTP round trip with the fiscal service, with secrets
// already redacted. It records what was sent and received for operators and
// is never read back by the client.
type Exchange struct {
	ID              int64
	CorrelationID   string
	Service         string
	Operation       string
	RequestMethod   string
	RequestURL      string
	RequestHeaders  map[string]string
	RequestBody     json.RawMessage
	ResponseStatus  *int
	ResponseHeaders map[string]string
	ResponseBody    json.RawMessage
	DurationMs      int64
	ErrorMessage    string
	CreatedAt       time.Time
}

// Failed reports whether the exchange ended without a 2xx response.
func (e Exchange) Failed() bool {
	return e.ResponseStatus == nil || *e.ResponseStatus < 200 || *e.ResponseStatus > 299
}

// Filter narrows a lookup. Zero fields are ignored.
type Filter struct {
	CorrelationID string
	Operation     string
	Since         time.Time
	Limit         uint64
}

// Repository persists and retrieves exchanges.
type Repository interface {
	Save(ctx context.Context, e Exchange) error

	// Find returns matching exchanges, newest first.
	Find(ctx context.Context, f Filter) ([]Exchange, error)
}
