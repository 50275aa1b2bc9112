// Package mongo implements the account store on a MongoDB collection. This is
// the production driver; each user is one document and notifications are
// appended in place with $push.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookeez/accounts/internal/auth/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const usersCollection = "users"

type Store struct {
	client *mongo.Client
	db     *mongo.Database
	users  *mongo.Collection
}

// NewStore connects to uri and uses the named database. The connection is
// lazy; call Ping to find out whether the server is reachable.
func NewStore(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}
	db := client.Database(database)
	return &Store{
		client: client,
		db:     db,
		users:  db.Collection(usersCollection),
	}, nil
}

func (s *Store) Users() store.Users { return &usersRepo{c: s.users} }

// ApplyMigrations creates the collection indexes. The unique email index is
// what makes concurrent registrations with the same email safe.
func (s *Store) ApplyMigrations(ctx context.Context) error {
	_, err := s.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("users_email_uidx"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("users_created_idx"),
		},
	})
	if err != nil {
		return fmt.Errorf("mongo: create indexes: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Drop removes the database. Tests use it to isolate runs.
func (s *Store) Drop(ctx context.Context) error {
	return s.db.Drop(ctx)
}

func mapNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	return err
}

func mapDuplicate(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return store.ErrAlreadyExists
	}
	return err
}
