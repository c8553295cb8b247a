package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	req := require.New(t)
	secret := "MonMotDePasseTr0pSûr!"

	hash, err := HashSecret(secret)
	req.NoError(err)
	req.True(strings.HasPrefix(hash, "$argon2id$"))

	match, err := CompareSecret(secret, hash)
	req.NoError(err)
	req.True(match)

	match, err = CompareSecret("wrong-secret", hash)
	req.NoError(err)
	req.False(match)
}

func TestHash_Is_Salted(t *testing.T) {
	req := require.New(t)

	first, err := HashSecret("same-secret-twice")
	req.NoError(err)
	second, err := HashSecret("same-secret-twice")
	req.NoError(err)

	// Fresh salt per hash, but both still verify
	req.NotEqual(first, second)
	for _, hash := range []string{first, second} {
		match, err := CompareSecret("same-secret-twice", hash)
		req.NoError(err)
		req.True(match)
	}
}

func TestCompare_Rejects_Garbage_Hash(t *testing.T) {
	req := require.New(t)

	_, err := CompareSecret("whatever", "not-an-argon2-hash")
	req.Error(err)
}

func TestCredentialsValidation(t *testing.T) {
	req := require.New(t)
	tests := []struct {
		name    string
		creds   Credentials
		wantErr bool
	}{
		{"valid credentials", Credentials{"alice", "long-enough-secret"}, false},
		{"empty identity", Credentials{"", "long-enough-secret"}, true},
		{"identity too long", Credentials{strings.Repeat("a", 65), "long-enough-secret"}, true},
		{"secret too short", Credentials{"alice", "short"}, true},
		{"secret too long", Credentials{"alice", strings.Repeat("a", 73)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCredentials(tt.creds)
			if tt.wantErr {
				req.Error(err)
			} else {
				req.NoError(err)
			}
		})
	}
}

func BenchmarkHashSecret(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = HashSecret("a-very-long-and-complex-secret-for-bench")
	}
}
