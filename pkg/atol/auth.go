package atol

import (
	"context"
	"encoding/json"
	"sync"
)

// tokenRequest is the getToken payload.
type tokenRequest struct {
	Login string `json:"login"`
	Pass  string `json:"pass"`
}

// tokenResponse covers both protocol variants: v4 answers {token, error},
// v3 answers {code, text, token} where code 2 and above is a failure.
type tokenResponse struct {
	Token string         `json:"token"`
	Error *errorEnvelope `json:"error"`
	Code  int            `json:"code"`
	Text  string         `json:"text"`
}

// authManager fetches tokens and keeps them in the token store.
type authManager struct {
	client   *Client
	key      string
	login    string
	password string

	// mu serializes refreshes so concurrent first calls issue one request.
	mu sync.Mutex
}

func newAuthManager(c *Client, login, password string) *authManager {
	return &authManager{
		client:   c,
		key:      TokenKey(login),
		login:    login,
		password: password,
	}
}

// token returns a stored token or fetches a new one.
func (a *authManager) token(ctx context.Context) (string, error) {
	store := a.client.opts.TokenStore
	if token, ok := store.Get(a.key); ok {
		return token, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if token, ok := store.Get(a.key); ok {
		return token, nil
	}

	token, err := a.authenticate(ctx)
	if err != nil {
		return "", err
	}

	store.Set(a.key, token, a.client.opts.TokenTTL)
	a.client.log.Debug("Atol Online token refreshed", "login", a.login, "ttl", a.client.opts.TokenTTL)
	return token, nil
}

// invalidate drops the stored token so the next call authenticates again.
func (a *authManager) invalidate() {
	a.client.opts.TokenStore.Delete(a.key)
}

func (a *authManager) authenticate(ctx context.Context) (string, error) {
	const operation = "getToken"

	body, err := json.Marshal(tokenRequest{Login: a.login, Pass: a.password})
	if err != nil {
		return "", &TransportError{Operation: operation, Err: err}
	}

	url := a.client.baseURL() + "/getToken"
	status, data, err := a.client.exchange(ctx, operation, url, body)
	if err != nil {
		return "", err
	}

	var resp tokenResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", &TransportError{Operation: operation, StatusCode: status, Err: err}
	}

	if resp.Error != nil {
		return "", a.client.reject(operation, status, resp.Error, "", data)
	}
	if resp.Code > 1 {
		return "", a.client.reject(operation, status, &errorEnvelope{Code: resp.Code, Text: resp.Text}, "", data)
	}
	if resp.Token == "" {
		return "", a.client.reject(operation, status, &errorEnvelope{Text: "empty token in response"}, "", data)
	}
	return resp.Token, nil
}
