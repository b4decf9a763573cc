package crypto

import (
	"testing"
)

func TestGenerateRandomBytes(t *testing.T) {
	tests := []struct {
		name   string
		length int
	}{
		{"16 bytes", 16},
		{"32 bytes", 32},
		{"64 bytes", 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := GenerateRandomBytes(tt.length)
			if err != nil {
				t.Fatalf("GenerateRandomBytes() error = %v", err)
			}
			if len(b) != tt.length {
				t.Errorf("len = %d, want %d", len(b), tt.length)
			}
		})
	}
}

func TestGenerateRandomBytes_Unique(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		b, err := GenerateRandomBytes(16)
		if err != nil {
			t.Fatalf("GenerateRandomBytes() error = %v", err)
		}
		s := string(b)
		if seen[s] {
			t.Error("Generated duplicate random bytes")
		}
		seen[s] = true
	}
}

func TestGenerateRandomString(t *testing.T) {
	s, err := GenerateRandomString(32)
	if err != nil {
		t.Fatalf("GenerateRandomString() error = %v", err)
	}

	// Base64 encoding of 32 bytes should be ~44 characters
	if len(s) < 40 {
		t.Errorf("len = %d, expected >= 40", len(s))
	}
}

func TestGenerateRandomHex(t *testing.T) {
	s, err := GenerateRandomHex(16)
	if err != nil {
		t.Fatalf("GenerateRandomHex() error = %v", err)
	}

	// 16 bytes = 32 hex characters
	if len(s) != 32 {
		t.Errorf("len = %d, want 32", len(s))
	}

	// Should only contain hex characters
	for _, c := range s {
		isDigit := c >= '0' && c <= '9'
		isHexLower := c >= 'a' && c <= 'f'
		if !isDigit && !isHexLower {
			t.Errorf("invalid hex character: %c", c)
		}
	}
}

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken(16)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	// 16 bytes = 32 hex characters
	if len(token) != 32 {
		t.Errorf("len = %d, want 32", len(token))
	}
}

func TestGenerateToken_FallbackLength(t *testing.T) {
	for _, n := range []int{0, -5} {
		token, err := GenerateToken(n)
		if err != nil {
			t.Fatalf("GenerateToken(%d) error = %v", n, err)
		}
		if len(token) != DefaultTokenBytes*2 {
			t.Errorf("GenerateToken(%d) len = %d, want %d", n, len(token), DefaultTokenBytes*2)
		}
	}
}

func TestGenerateToken_Unique(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 1000; i++ {
		token, err := GenerateToken(16)
		if err != nil {
			t.Fatalf("GenerateToken() error = %v", err)
		}
		if seen[token] {
			t.Error("Generated duplicate token")
		}
		seen[token] = true
	}
}
