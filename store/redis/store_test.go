package redis

import (
	"testing"

	"github.com/redis/go-redis/v9"
)

func TestNew(t *testing.T) {
	// Test with provided client
	mockClient := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
	})
	defer mockClient.Close()

	cfg := &Config{
		Client: mockClient,
	}

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if s == nil {
		t.Fatal("New() returned nil")
	}
}

func TestNew_WithAddr(t *testing.T) {
	cfg := &Config{
		Addr:     "localhost:6379",
		Password: "",
		DB:       0,
		PoolSize: 10,
	}

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if s == nil {
		t.Fatal("New() returned nil")
	}
	s.Close()
}

func TestKeyPrefixes(t *testing.T) {
	// Verify key prefixes are properly defined
	prefixes := []string{
		prefixUser,
		prefixEmail,
		prefixSession,
		prefixReset,
		prefixResetExpiries,
	}

	for _, prefix := range prefixes {
		if prefix == "" {
			t.Error("empty prefix found")
		}
		if prefix[:12] != "sessionauth:" {
			t.Errorf("prefix %q doesn't start with 'sessionauth:'", prefix)
		}
	}
}
