package mongo

import (
	"context"

	"github.com/bookeez/accounts/internal/auth/domain"
	"github.com/bookeez/accounts/internal/auth/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type usersRepo struct {
	c *mongo.Collection
}

// idFilter matches id as written by this service (a ULID string) or, for
// documents created before it took over the collection, as an ObjectId.
func idFilter(id string) bson.D {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return bson.D{{Key: "_id", Value: id}}
	}
	return bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: bson.A{id, oid}}}}}
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.findOne(ctx, idFilter(id))
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *usersRepo) findOne(ctx context.Context, filter bson.D) (domain.User, error) {
	var doc userDoc
	if err := r.c.FindOne(ctx, filter).Decode(&doc); err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(doc), nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.c.InsertOne(ctx, toUserDoc(u))
	return mapDuplicate(err)
}

func (r *usersRepo) PushNotification(ctx context.Context, userID string, n domain.Notification) error {
	return r.updateOne(ctx, userID, bson.D{
		{Key: "$push", Value: bson.D{{Key: "notifications", Value: toNotificationDoc(n)}}},
	})
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	return r.updateOne(ctx, userID, bson.D{
		{Key: "$set", Value: bson.D{{Key: "password", Value: hash}}},
	})
}

func (r *usersRepo) updateOne(ctx context.Context, userID string, update bson.D) error {
	res, err := r.c.UpdateOne(ctx, idFilter(userID), update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}).
		SetProjection(bson.D{
			{Key: "username", Value: 1},
			{Key: "email", Value: 1},
			{Key: "role", Value: 1},
			{Key: "createdAt", Value: 1},
		})

	cur, err := r.c.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := []domain.User{}
	for cur.Next(ctx) {
		var doc userDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		users = append(users, domain.User{
			ID:        doc.ID,
			Username:  doc.Username,
			Email:     doc.Email,
			Role:      doc.Role,
			CreatedAt: doc.CreatedAt.UTC(),
		})
	}
	return users, cur.Err()
}

var _ store.Users = (*usersRepo)(nil)
