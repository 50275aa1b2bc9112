// Package bolt implements the account store on an embedded bbolt file. It
// suits single-node deployments that want a document store without running a
// database server.
package bolt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bookeez/accounts/internal/auth/store"
	"go.etcd.io/bbolt"
)

var (
	// users: id -> JSON record; usersByEmail: email -> id
	bucketUsers        = []byte("users")
	bucketUsersByEmail = []byte("users_by_email")
)

type Store struct {
	db *bbolt.DB
}

// NewStore opens (creating if needed) the bbolt file at path.
func NewStore(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("bolt: open %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Users() store.Users { return &usersRepo{db: s.db} }

// ApplyMigrations creates the buckets.
func (s *Store) ApplyMigrations(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketUsers, bucketUsersByEmail} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("bolt: create bucket %s: %w", b, err)
			}
		}
		return nil
	})
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping checks that the file is open and the buckets exist.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketUsers) == nil {
			return errMissingBucket
		}
		return nil
	})
}

var errMissingBucket = errors.New("bolt: buckets not initialised")
