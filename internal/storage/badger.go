// Package storage persists users, groups and messages in BadgerDB. The
// presence core never touches this package; only the HTTP layer does.
package storage

import (
	"github.com/dgraph-io/badger/v4"
)

// Open opens the database at path. An empty path opens an in-memory
// instance, which is what the tests use.
func Open(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	return badger.Open(opts)
}
