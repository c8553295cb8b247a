package services

import (
	"fmt"

	"chat-hub/auth"
	"chat-hub/errors"
	"chat-hub/repositories"
)

type IAuthService interface {
	RegisterUser(identity, secret string) error
	Login(identity, secret string) (bool, error)
}

type AuthService struct {
	userRepository repositories.IUserRepository
}

func NewAuthService(repo repositories.IUserRepository) IAuthService {
	return &AuthService{userRepository: repo}
}

// RegisterUser validates the credentials, hashes the secret and persists
// the account. Hashing happens here so the repository never sees plain
// secrets.
func (s *AuthService) RegisterUser(identity, secret string) error {
	creds := auth.Credentials{Identity: identity, Secret: secret}
	if err := auth.ValidateCredentials(creds); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidPassword, err)
	}

	hashedSecret, err := auth.HashSecret(secret)
	if err != nil {
		return fmt.Errorf("hashing failed: %w", err)
	}

	// Propagates ErrUserAlreadyExists when the identity is taken.
	return s.userRepository.CreateUser(identity, hashedSecret)
}

// Login checks the presented secret against the stored hash. Lookup and
// comparison failures both collapse into ErrInvalidCredentials to avoid
// user enumeration.
func (s *AuthService) Login(identity, secret string) (bool, error) {
	user, err := s.userRepository.GetUser(identity)
	if err != nil {
		return false, errors.ErrInvalidCredentials
	}

	match, err := auth.CompareSecret(secret, user.SecretHash)
	if err != nil || !match {
		return false, errors.ErrInvalidCredentials
	}
	return true, nil
}
