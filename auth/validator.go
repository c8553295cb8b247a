package auth

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Credentials is what a client presents at registration and login.
// The identity doubles as the display name, so it is kept short.
type Credentials struct {
	Identity string `validate:"required,min=1,max=64"`
	Secret   string `validate:"required,min=8,max=72"`
}

func ValidateCredentials(c Credentials) error {
	return validate.Struct(c)
}
