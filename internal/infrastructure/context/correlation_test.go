package context

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gofrs/uuid/v5"
)

func TestWithCorrelationID(t *testing.T) {
	tests := []struct {
		name          string
		correlationID string
	}{
		{
			name:          "adds correlation ID to context",
			correlationID: "test-correlation-123",
		},
		{
			name:          "handles empty correlation ID",
			correlationID: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := WithCorrelationID(context.Background(), tt.correlationID)

			result := GetCorrelationID(ctx)
			if result != tt.correlationID {
				t.Errorf("expected %s, got %s", tt.correlationID, result)
			}
		})
	}
}

func TestGetCorrelationID(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		expected string
	}{
		{
			name:     "returns correlation ID when present",
			ctx:      WithCorrelationID(context.Background(), "test-123"),
			expected: "test-123",
		},
		{
			name:     "returns empty string when not present",
			ctx:      context.Background(),
			expected: "",
		},
		{
			name:     "returns empty string for wrong type",
			ctx:      context.WithValue(context.Background(), CorrelationIDKey, 123),
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GetCorrelationID(tt.ctx)
			if result != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, result)
			}
		})
	}
}

func TestNewCorrelationID(t *testing.T) {
	a := NewCorrelationID()
	b := NewCorrelationID()

	if a == b {
		t.Errorf("expected distinct ids, got %q twice", a)
	}
	if _, err := uuid.FromString(a); err != nil {
		t.Errorf("expected a uuid, got %q: %v", a, err)
	}
}

func TestNewCorrelationIDWithoutRandomSource(t *testing.T) {
	saved := newUUID
	newUUID = func() (uuid.UUID, error) {
		return uuid.Nil, errors.New("entropy exhausted")
	}
	t.Cleanup(func() { newUUID = saved })

	id := NewCorrelationID()
	if !strings.HasPrefix(id, "corr-") {
		t.Errorf("expected time based id, got %q", id)
	}

	_, ensured := EnsureCorrelationID(context.Background())
	if ensured == "" {
		t.Error("expected a non-empty id")
	}
}

func TestEnsureCorrelationID(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "existing")
	got, id := EnsureCorrelationID(ctx)
	if id != "existing" || got != ctx {
		t.Errorf("expected existing id and unchanged context, got %q", id)
	}

	got, id = EnsureCorrelationID(context.Background())
	if id == "" {
		t.Fatal("expected a generated id")
	}
	if GetCorrelationID(got) != id {
		t.Errorf("expected context to carry %q, got %q", id, GetCorrelationID(got))
	}
}
