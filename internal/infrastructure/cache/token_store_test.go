package cache

import (
	"sync"
	"testing"
	"time"
)

func TestNewTokenStore(t *testing.T) {
	store := NewTokenStore()
	if store == nil {
		t.Fatal("expected store to be created, got nil")
	}
	if store.Len() != 0 {
		t.Errorf("expected empty store, got %d entries", store.Len())
	}
}

func TestTokenStore_Get(t *testing.T) {
	tests := []struct {
		name        string
		setupStore  func() *TokenStore
		key         string
		expectedOk  bool
		expectedTok string
	}{
		{
			name:        "empty store",
			setupStore:  NewTokenStore,
			key:         "atol.tokenlogin",
			expectedOk:  false,
			expectedTok: "",
		},
		{
			name: "valid token",
			setupStore: func() *TokenStore {
				store := NewTokenStore()
				store.Set("atol.tokenlogin", "test-token", 1*time.Hour)
				return store
			},
			key:         "atol.tokenlogin",
			expectedOk:  true,
			expectedTok: "test-token",
		},
		{
			name: "other key",
			setupStore: func() *TokenStore {
				store := NewTokenStore()
				store.Set("atol.tokenother", "test-token", 1*time.Hour)
				return store
			},
			key:         "atol.tokenlogin",
			expectedOk:  false,
			expectedTok: "",
		},
		{
			name: "expired token",
			setupStore: func() *TokenStore {
				store := NewTokenStore()
				store.Set("atol.tokenlogin", "test-token", -1*time.Hour)
				return store
			},
			key:         "atol.tokenlogin",
			expectedOk:  false,
			expectedTok: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := tt.setupStore()
			token, ok := store.Get(tt.key)

			if ok != tt.expectedOk {
				t.Errorf("expected ok=%v, got %v", tt.expectedOk, ok)
			}
			if token != tt.expectedTok {
				t.Errorf("expected token %q, got %q", tt.expectedTok, token)
			}
		})
	}
}

func TestTokenStore_Delete(t *testing.T) {
	store := NewTokenStore()
	store.Set("a", "token-a", 1*time.Hour)
	store.Set("b", "token-b", 1*time.Hour)

	store.Delete("a")

	if token, ok := store.Get("a"); ok {
		t.Errorf("expected token to be deleted, but got %q", token)
	}
	if token, ok := store.Get("b"); !ok || token != "token-b" {
		t.Errorf("expected token-b to remain, got %q (ok=%v)", token, ok)
	}
}

func TestTokenStore_TTLExpiration(t *testing.T) {
	now := time.Date(2017, time.May, 29, 17, 56, 18, 0, time.UTC)
	store := NewTokenStore()
	store.now = func() time.Time { return now }

	store.Set("key", "token", 24*time.Hour)

	now = now.Add(24*time.Hour - time.Second)
	if _, ok := store.Get("key"); !ok {
		t.Error("token should be valid before TTL")
	}

	now = now.Add(time.Second)
	if token, ok := store.Get("key"); ok {
		t.Errorf("expected token to be expired, but got %q", token)
	}
}

func TestTokenStore_Purge(t *testing.T) {
	store := NewTokenStore()
	store.Set("fresh", "token", 1*time.Hour)
	store.Set("stale", "token", -1*time.Hour)

	if removed := store.Purge(); removed != 1 {
		t.Errorf("expected 1 purged entry, got %d", removed)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 remaining entry, got %d", store.Len())
	}
}

func TestTokenStore_ConcurrentReadWrite(t *testing.T) {
	store := NewTokenStore()
	const numReaders = 50
	const numWriters = 10

	var wg sync.WaitGroup

	wg.Add(numWriters)
	for i := 0; i < numWriters; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				store.Set("token", "value", 1*time.Hour)
				time.Sleep(1 * time.Millisecond)
				store.Delete("token")
			}
		}()
	}

	wg.Add(numReaders)
	for i := 0; i < numReaders; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				store.Get("token")
				store.Purge()
				time.Sleep(1 * time.Millisecond)
			}
		}()
	}

	wg.Wait()
}
