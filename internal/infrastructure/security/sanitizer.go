package security

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"
)

// Header names whose values never reach logs or the audit trail.
var sensitiveHeaders = map[string]bool{
	"authorization":       true,
	"proxy-authorization": true,
	"cookie":              true,
	"set-cookie":          true,
	"token":               true,
	"x-auth-token":        true,
}

// Substrings of JSON field and query parameter names that mark a secret.
// "pass" covers the credential field of the token request, "token" covers
// both the token response and the tokenid query parameter.
var sensitiveFields = []string{
	"pass",
	"token",
	"secret",
	"authorization",
	"api_key",
	"apikey",
	"credential",
}

const redactedValue = "[REDACTED]"

func isSensitiveField(name string) bool {
	lower := strings.ToLower(name)
	for _, field := range sensitiveFields {
		if strings.Contains(lower, field) {
			return true
		}
	}
	return false
}

// SanitizeHeaders flattens headers into a map with secret values redacted.
func SanitizeHeaders(headers http.Header) map[string]string {
	sanitized := make(map[string]string, len(headers))
	for key, values := range headers {
		if sensitiveHeaders[strings.ToLower(key)] {
			sanitized[key] = redactedValue
			continue
		}
		sanitized[key] = strings.Join(values, ", ")
	}
	return sanitized
}

// SanitizeBody returns body as JSON with secret fields redacted. Gzip bodies
// are inflated first and binary bodies are base64 wrapped. Output over
// maxSize bytes is replaced by a truncated preview of the redacted JSON;
// text that is not JSON gets no preview since it cannot be redacted.
func SanitizeBody(body []byte, maxSize int) json.RawMessage {
	if len(body) == 0 {
		return nil
	}

	if len(body) >= 2 && body[0] == 0x1f && body[1] == 0x8b {
		inflated, err := gunzip(body)
		if err != nil {
			return wrapBinary(body, "gzip-compressed (decompression failed)")
		}
		body = inflated
	}

	if !utf8.Valid(body) {
		return wrapBinary(body, "binary (non-UTF8)")
	}

	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		if maxSize > 0 && len(body) > maxSize {
			return truncated(len(body), "")
		}
		return wrapText(body)
	}

	result, err := json.Marshal(redact(data))
	if err != nil {
		return truncated(len(body), "")
	}
	if maxSize > 0 && len(result) > maxSize {
		return truncated(len(body), string(result[:maxSize]))
	}
	return result
}

// SanitizeURL redacts secret query parameter values, keeping parameter order
// and the rest of the URL untouched.
func SanitizeURL(rawURL string) string {
	base, query, found := strings.Cut(rawURL, "?")
	if !found || query == "" {
		return rawURL
	}

	fragment := ""
	if i := strings.IndexByte(query, '#'); i >= 0 {
		query, fragment = query[:i], query[i:]
	}

	params := strings.Split(query, "&")
	for i, param := range params {
		name, _, hasValue := strings.Cut(param, "=")
		if hasValue && isSensitiveField(name) {
			params[i] = name + "=" + redactedValue
		}
	}
	return base + "?" + strings.Join(params, "&") + fragment
}

func redact(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for key, value := range val {
			if isSensitiveField(key) {
				out[key] = redactedValue
				continue
			}
			out[key] = redact(value)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, value := range val {
			out[i] = redact(value)
		}
		return out
	default:
		return val
	}
}

func gunzip(data []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

func wrapBinary(data []byte, format string) json.RawMessage {
	return mustMarshal(map[string]any{
		"_binary": true,
		"_format": format,
		"_size":   len(data),
		"_base64": base64.StdEncoding.EncodeToString(data),
	})
}

func truncated(size int, preview string) json.RawMessage {
	marker := map[string]any{
		"_truncated": true,
		"_size":      size,
	}
	if preview != "" {
		marker["_preview"] = preview
	}
	return mustMarshal(marker)
}

func wrapText(body []byte) json.RawMessage {
	return mustMarshal(map[string]any{
		"_raw":    string(body),
		"_format": "text",
	})
}

func mustMarshal(v map[string]any) json.RawMessage {
	result, _ := json.Marshal(v)
	return result
}
