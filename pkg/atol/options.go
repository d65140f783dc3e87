package atol

//go:generate go run go.uber.org/mock/mockgen@v0.5.0 -source=options.go -destination=../../internal/testutil/mocks/atol.go -package=mocks

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"3tcapital/atolonline/internal/infrastructure/cache"
	"3tcapital/atolonline/pkg/fiscal"
)

const (
	DefaultHost     = "https://online.atol.ru"
	DefaultTokenTTL = 24 * time.Hour
	defaultTimeout  = 30 * time.Second
)

// Protocol selects how the token is passed and how HTTP statuses are read.
type Protocol string

const (
	// ProtocolV4 sends the token in a Token header and reads error
	// envelopes from any response body.
	ProtocolV4 Protocol = "v4"

	// ProtocolV3 sends the token as a tokenid query parameter and treats
	// any status other than 200 as a transport failure.
	ProtocolV3 Protocol = "v3"
)

// Schema returns the document payload shape the protocol accepts.
func (p Protocol) Schema() fiscal.Schema {
	if p == ProtocolV3 {
		return fiscal.SchemaV3
	}
	return fiscal.SchemaV4
}

// ErroredUUID decides what Submit does when the service returns an error
// envelope together with a uuid.
type ErroredUUID int

const (
	// ErroredUUIDDefault returns the uuid under ProtocolV4 and fails under
	// ProtocolV3.
	ErroredUUIDDefault ErroredUUID = iota
	ErroredUUIDReturn
	ErroredUUIDFail
)

// ParseErroredUUID maps "default", "return" and "fail" to a policy.
func ParseErroredUUID(s string) (ErroredUUID, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return ErroredUUIDDefault, nil
	case "return":
		return ErroredUUIDReturn, nil
	case "fail":
		return ErroredUUIDFail, nil
	default:
		return 0, fmt.Errorf("unknown errored uuid policy %q", s)
	}
}

// TokenStore caches tokens between calls and between clients sharing the
// same credentials. Implementations provide their own locking.
type TokenStore interface {
	Get(key string) (string, bool)
	Set(key, token string, ttl time.Duration)
	Delete(key string)
}

// HTTPDoer executes HTTP requests. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configures a Client. Login, Password and GroupCode are required.
type Options struct {
	Login     string
	Password  string
	GroupCode string

	// Host defaults to DefaultHost.
	Host string

	// APIVersion is the path segment after /possystem/. Defaults to the
	// protocol name.
	APIVersion string

	// Protocol defaults to ProtocolV4.
	Protocol Protocol

	// TokenTTL defaults to DefaultTokenTTL.
	TokenTTL time.Duration

	ErroredUUID ErroredUUID

	// TokenStore defaults to a private in-memory store.
	TokenStore TokenStore

	// HTTPClient defaults to an *http.Client with a 30 second timeout.
	HTTPClient HTTPDoer

	// Logger receives request logs at debug level and error envelopes at
	// warn level. Nil disables logging.
	Logger *slog.Logger
}

func (o Options) withDefaults() (Options, error) {
	var missing []string
	if o.Login == "" {
		missing = append(missing, "login")
	}
	if o.Password == "" {
		missing = append(missing, "password")
	}
	if o.GroupCode == "" {
		missing = append(missing, "group code")
	}
	if len(missing) > 0 {
		return o, fmt.Errorf("atol options: %s required", strings.Join(missing, ", "))
	}

	if o.Protocol == "" {
		o.Protocol = ProtocolV4
	}
	if o.Protocol != ProtocolV4 && o.Protocol != ProtocolV3 {
		return o, fmt.Errorf("atol options: unknown protocol %q", o.Protocol)
	}
	if o.ErroredUUID < ErroredUUIDDefault || o.ErroredUUID > ErroredUUIDFail {
		return o, errors.New("atol options: unknown errored uuid policy")
	}

	if o.Host == "" {
		o.Host = DefaultHost
	}
	o.Host = strings.TrimRight(o.Host, "/")
	if o.APIVersion == "" {
		o.APIVersion = string(o.Protocol)
	}
	if o.TokenTTL <= 0 {
		o.TokenTTL = DefaultTokenTTL
	}
	if o.TokenStore == nil {
		o.TokenStore = cache.NewTokenStore()
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{Timeout: defaultTimeout}
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o, nil
}

// returnsErroredUUID resolves the policy for the configured protocol.
func (o Options) returnsErroredUUID() bool {
	switch o.ErroredUUID {
	case ErroredUUIDReturn:
		return true
	case ErroredUUIDFail:
		return false
	default:
		return o.Protocol == ProtocolV4
	}
}

// TokenKey is the store key for login's token: "atol.token" followed by the
// login with dashes replaced by underscores.
func TokenKey(login string) string {
	return "atol.token" + strings.ReplaceAll(login, "-", "_")
}
