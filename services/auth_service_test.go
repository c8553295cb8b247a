package services

import (
	"testing"

	"chat-hub/errors"
	"chat-hub/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) IAuthService {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").
		WithInMemory(true).
		WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewAuthService(repositories.NewUserRepository(db))
}

func TestAuthService_Register_Then_Login(t *testing.T) {
	req := require.New(t)
	authSvc := newAuthFixture(t)

	// Given a registered account
	req.NoError(authSvc.RegisterUser("alice", "correct-horse-battery"))

	// When she logs in with the right secret
	ok, err := authSvc.Login("alice", "correct-horse-battery")

	// Then the credentials check out
	req.NoError(err)
	req.True(ok)
}

func TestAuthService_Duplicate_Identity(t *testing.T) {
	req := require.New(t)
	authSvc := newAuthFixture(t)
	req.NoError(authSvc.RegisterUser("alice", "correct-horse-battery"))

	err := authSvc.RegisterUser("alice", "another-secret-here")

	req.ErrorIs(err, errors.ErrUserAlreadyExists)
}

func TestAuthService_Rejects_Weak_Secret(t *testing.T) {
	req := require.New(t)
	authSvc := newAuthFixture(t)

	err := authSvc.RegisterUser("alice", "short")

	req.ErrorIs(err, errors.ErrInvalidPassword)

	// Nothing was persisted
	_, loginErr := authSvc.Login("alice", "short")
	req.ErrorIs(loginErr, errors.ErrInvalidCredentials)
}

func TestAuthService_Wrong_Secret(t *testing.T) {
	req := require.New(t)
	authSvc := newAuthFixture(t)
	req.NoError(authSvc.RegisterUser("alice", "correct-horse-battery"))

	ok, err := authSvc.Login("alice", "wrong-secret-guess")

	req.ErrorIs(err, errors.ErrInvalidCredentials)
	req.False(ok)
}

func TestAuthService_Unknown_Identity(t *testing.T) {
	req := require.New(t)
	authSvc := newAuthFixture(t)

	ok, err := authSvc.Login("ghost", "whatever-secret-here")

	// Unknown identity and wrong secret are indistinguishable
	req.ErrorIs(err, errors.ErrInvalidCredentials)
	req.False(ok)
}
