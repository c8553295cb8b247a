package repositories

import (
	stderrors "errors"
	"encoding/json"
	"fmt"
	"time"

	"chat-hub/errors"

	"github.com/dgraph-io/badger/v4"
)

type IUserRepository interface {
	CreateUser(identity, hashedSecret string) error
	GetUser(identity string) (User, error)
}

// User is the persisted account record. The identity is the key; there is
// nothing else to a user beyond the credential hash.
type User struct {
	Identity   string    `json:"identity"`
	SecretHash string    `json:"secret_hash"`
	CreatedAt  time.Time `json:"created_at"`
}

// UserRepository stores accounts in BadgerDB under "user:<identity>".
type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return &UserRepository{db: db}
}

// CreateUser persists the account. The secret must already be hashed;
// the repository never sees plain secrets.
func (u UserRepository) CreateUser(identity, hashedSecret string) error {
	record := User{
		Identity:   identity,
		SecretHash: hashedSecret,
		CreatedAt:  time.Now().UTC(),
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}

	return u.db.Update(func(txn *badger.Txn) error {
		key := []byte("user:" + identity)
		if _, err := txn.Get(key); err == nil {
			return errors.ErrUserAlreadyExists
		}
		return txn.Set(key, data)
	})
}

func (u UserRepository) GetUser(identity string) (User, error) {
	var record User

	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("user:" + identity))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})

	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return User{}, errors.ErrInvalidCredentials
	}
	if err != nil {
		return User{}, err
	}
	return record, nil
}
