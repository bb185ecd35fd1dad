package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/mkaydev/huddle/internal/domain"
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
)

// userRecord is what actually lands on disk; the password hash never leaves
// this package.
type userRecord struct {
	User         domain.User `json:"user"`
	PasswordHash string      `json:"password_hash"`
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) *UserRepository {
	return &UserRepository{db: db}
}

func userKey(id domain.UserID) []byte { return []byte(fmt.Sprintf("user:id:%s", id)) }
func emailKey(email string) []byte    { return []byte(fmt.Sprintf("user:email:%s", email)) }

// Create stores a new user plus an email → id index entry in one
// transaction. Fails with ErrUserExists when the email is taken.
func (r *UserRepository) Create(user domain.User, passwordHash string) error {
	data, err := json.Marshal(userRecord{User: user, PasswordHash: passwordHash})
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(emailKey(user.Email)); err == nil {
			return ErrUserExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(emailKey(user.Email), []byte(user.ID)); err != nil {
			return err
		}
		return txn.Set(userKey(user.ID), data)
	})
}

// FindByEmail returns the user and its password hash for login checks.
func (r *UserRepository) FindByEmail(email string) (domain.User, string, error) {
	var rec userRecord
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(emailKey(email))
		if err != nil {
			return err
		}
		var id []byte
		if id, err = item.ValueCopy(nil); err != nil {
			return err
		}
		item, err = txn.Get(userKey(domain.UserID(id)))
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			return json.Unmarshal(v, &rec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, "", ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, "", err
	}
	return rec.User, rec.PasswordHash, nil
}

func (r *UserRepository) FindByID(id domain.UserID) (domain.User, error) {
	var rec userRecord
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			return json.Unmarshal(v, &rec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return rec.User, nil
}
