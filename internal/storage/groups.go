package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/mkaydev/huddle/internal/domain"
)

var ErrGroupNotFound = errors.New("group not found")

type GroupRepository struct {
	db *badger.DB
}

func NewGroupRepository(db *badger.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

func groupKey(id domain.GroupID) []byte { return []byte(fmt.Sprintf("group:%s", id)) }

func (r *GroupRepository) Create(group domain.Group) error {
	data, err := json.Marshal(group)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(groupKey(group.ID), data)
	})
}

func (r *GroupRepository) FindByID(id domain.GroupID) (domain.Group, error) {
	var group domain.Group
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(groupKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			return json.Unmarshal(v, &group)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Group{}, ErrGroupNotFound
	}
	if err != nil {
		return domain.Group{}, err
	}
	return group, nil
}

// List returns every group via a prefix scan.
func (r *GroupRepository) List() ([]domain.Group, error) {
	var groups []domain.Group
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte("group:")
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(v []byte) error {
				var group domain.Group
				if err := json.Unmarshal(v, &group); err != nil {
					return err
				}
				groups = append(groups, group)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return groups, err
}

// Update applies fn to the stored group inside a single read-modify-write
// transaction, so two concurrent membership changes cannot lose each other.
func (r *GroupRepository) Update(id domain.GroupID, fn func(*domain.Group) error) (domain.Group, error) {
	var group domain.Group
	err := r.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(groupKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrGroupNotFound
		}
		if err != nil {
			return err
		}
		if err := item.Value(func(v []byte) error {
			return json.Unmarshal(v, &group)
		}); err != nil {
			return err
		}
		if err := fn(&group); err != nil {
			return err
		}
		data, err := json.Marshal(group)
		if err != nil {
			return err
		}
		return txn.Set(groupKey(id), data)
	})
	if err != nil {
		return domain.Group{}, err
	}
	return group, nil
}

func (r *GroupRepository) Delete(id domain.GroupID) error {
	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(groupKey(id)); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrGroupNotFound
		} else if err != nil {
			return err
		}
		return txn.Delete(groupKey(id))
	})
}
