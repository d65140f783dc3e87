package security

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

func TestSanitizeHeaders(t *testing.T) {
	tests := []struct {
		name     string
		headers  http.Header
		expected map[string]string
	}{
		{
			name: "token and auth headers are redacted",
			headers: http.Header{
				"Token":         []string{"fj45u923j59ju42395iu9423i59243u0"},
				"Authorization": []string{"Bearer secret-token"},
				"Content-Type":  []string{"application/json"},
			},
			expected: map[string]string{
				"Token":         "[REDACTED]",
				"Authorization": "[REDACTED]",
				"Content-Type":  "application/json",
			},
		},
		{
			name: "multiple values are joined",
			headers: http.Header{
				"Accept": []string{"application/json", "text/html"},
			},
			expected: map[string]string{
				"Accept": "application/json, text/html",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeHeaders(tt.headers)

			for key, expectedValue := range tt.expected {
				if result[key] != expectedValue {
					t.Errorf("expected %s=%s, got %s", key, expectedValue, result[key])
				}
			}
		})
	}
}

func TestSanitizeBody(t *testing.T) {
	tests := []struct {
		name        string
		body        []byte
		maxSize     int
		expectation func(t *testing.T, result json.RawMessage)
	}{
		{
			name:    "empty body returns nil",
			body:    []byte{},
			maxSize: 1000,
			expectation: func(t *testing.T, result json.RawMessage) {
				if result != nil {
					t.Errorf("expected nil, got %s", result)
				}
			},
		},
		{
			name:    "token request credentials are redacted",
			body:    []byte(`{"login":"v4-online-atol-ru","pass":"iGFFuihss"}`),
			maxSize: 1000,
			expectation: func(t *testing.T, result json.RawMessage) {
				data := decode(t, result)
				if data["pass"] != "[REDACTED]" {
					t.Errorf("expected pass to be redacted, got %v", data["pass"])
				}
				if data["login"] != "v4-online-atol-ru" {
					t.Errorf("expected login to remain, got %v", data["login"])
				}
			},
		},
		{
			name:    "token response is redacted",
			body:    []byte(`{"error":null,"token":"fj45u923j59ju42395iu9423i59243u0","timestamp":"30.11.2017 17:58:53"}`),
			maxSize: 1000,
			expectation: func(t *testing.T, result json.RawMessage) {
				data := decode(t, result)
				if data["token"] != "[REDACTED]" {
					t.Errorf("expected token to be redacted, got %v", data["token"])
				}
				if data["timestamp"] != "30.11.2017 17:58:53" {
					t.Errorf("expected timestamp to remain, got %v", data["timestamp"])
				}
			},
		},
		{
			name:    "document bodies pass through",
			body:    []byte(`{"external_id":"17052917561851307","receipt":{"items":[{"name":"товар","payment_object":"commodity"}]}}`),
			maxSize: 1000,
			expectation: func(t *testing.T, result json.RawMessage) {
				data := decode(t, result)
				if data["external_id"] != "17052917561851307" {
					t.Errorf("expected external_id to remain, got %v", data["external_id"])
				}
				items := data["receipt"].(map[string]any)["items"].([]any)
				if items[0].(map[string]any)["payment_object"] != "commodity" {
					t.Errorf("expected nested fields to remain, got %v", items[0])
				}
			},
		},
		{
			name:    "gzip body is inflated",
			body:    gzipped(t, `{"pass":"secret"}`),
			maxSize: 1000,
			expectation: func(t *testing.T, result json.RawMessage) {
				data := decode(t, result)
				if data["pass"] != "[REDACTED]" {
					t.Errorf("expected pass to be redacted, got %v", data["pass"])
				}
			},
		},
		{
			name:    "plain text is wrapped",
			body:    []byte("Bad Gateway"),
			maxSize: 1000,
			expectation: func(t *testing.T, result json.RawMessage) {
				data := decode(t, result)
				if data["_raw"] != "Bad Gateway" {
					t.Errorf("expected raw text, got %v", data["_raw"])
				}
			},
		},
		{
			name:    "body is truncated if too large",
			body:    []byte(`{"data":"very long string with lots of content"}`),
			maxSize: 20,
			expectation: func(t *testing.T, result json.RawMessage) {
				data := decode(t, result)
				if data["_truncated"] != true {
					t.Errorf("expected truncated marker, got %v", data)
				}
			},
		},
		{
			name:    "truncated body keeps secrets redacted",
			body:    []byte(`{"login":"shop-1","pass":"s3cr3t-password"}`),
			maxSize: 30,
			expectation: func(t *testing.T, result json.RawMessage) {
				if strings.Contains(string(result), "s3cr3t") {
					t.Fatalf("expected password to be redacted, got %s", result)
				}
				data := decode(t, result)
				if data["_truncated"] != true {
					t.Errorf("expected truncated marker, got %v", data)
				}
				if data["_size"] != float64(43) {
					t.Errorf("expected original size 43, got %v", data["_size"])
				}
				preview, _ := data["_preview"].(string)
				if !strings.HasPrefix(preview, `{"login":"shop-1"`) {
					t.Errorf("expected preview of redacted body, got %q", preview)
				}
			},
		},
		{
			name:    "long plain text has no preview",
			body:    []byte("login=shop-1&pass=s3cr3t-password"),
			maxSize: 10,
			expectation: func(t *testing.T, result json.RawMessage) {
				if strings.Contains(string(result), "s3cr3t") {
					t.Fatalf("expected no raw text, got %s", result)
				}
				data := decode(t, result)
				if data["_truncated"] != true {
					t.Errorf("expected truncated marker, got %v", data)
				}
				if _, ok := data["_preview"]; ok {
					t.Errorf("expected no preview, got %v", data["_preview"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeBody(tt.body, tt.maxSize)
			tt.expectation(t, result)
		})
	}
}

func TestSanitizeURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{
			name:     "url without query unchanged",
			url:      "https://online.atol.ru/possystem/v4/group/sell",
			expected: "https://online.atol.ru/possystem/v4/group/sell",
		},
		{
			name:     "tokenid is redacted",
			url:      "https://online.atol.ru/possystem/v3/group/sell?tokenid=abc123",
			expected: "https://online.atol.ru/possystem/v3/group/sell?tokenid=[REDACTED]",
		},
		{
			name:     "other params keep their order",
			url:      "https://online.atol.ru/report?page=1&tokenid=abc&limit=10",
			expected: "https://online.atol.ru/report?page=1&tokenid=[REDACTED]&limit=10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeURL(tt.url)
			if result != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, result)
			}
		})
	}
}

func decode(t *testing.T, raw json.RawMessage) map[string]any {
	t.Helper()

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("failed to unmarshal result: %v", err)
	}
	return data
}

func gzipped(t *testing.T, s string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write([]byte(s)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}
