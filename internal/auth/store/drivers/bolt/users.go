package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/bookeez/accounts/internal/auth/domain"
	"github.com/bookeez/accounts/internal/auth/store"
	"go.etcd.io/bbolt"
)

type usersRepo struct {
	db *bbolt.DB
}

type userRecord struct {
	ID            string               `json:"id"`
	Username      string               `json:"username"`
	Email         string               `json:"email"`
	PasswordHash  string               `json:"password"`
	Role          string               `json:"role"`
	DeviceToken   string               `json:"fcmToken,omitempty"`
	Cart          []cartItemRecord     `json:"cart"`
	Notifications []notificationRecord `json:"notifications"`
	CreatedAt     time.Time            `json:"createdAt"`
}

type cartItemRecord struct {
	TemplateID string    `json:"template"`
	Quantity   int       `json:"quantity"`
	AddedAt    time.Time `json:"addedAt"`
}

type notificationRecord struct {
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}
	var rec userRecord
	err := r.db.View(func(tx *bbolt.Tx) error {
		return getRecord(tx, id, &rec)
	})
	if err != nil {
		return domain.User{}, err
	}
	return rec.toDomain(), nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}
	var rec userRecord
	err := r.db.View(func(tx *bbolt.Tx) error {
		idx, err := bucket(tx, bucketUsersByEmail)
		if err != nil {
			return err
		}
		id := idx.Get([]byte(email))
		if id == nil {
			return store.ErrNotFound
		}
		return getRecord(tx, string(id), &rec)
	})
	if err != nil {
		return domain.User{}, err
	}
	return rec.toDomain(), nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(fromDomain(u))
	if err != nil {
		return fmt.Errorf("bolt: encode user: %w", err)
	}

	// bbolt allows one writer at a time, so check-then-put is atomic here.
	return r.db.Update(func(tx *bbolt.Tx) error {
		users, err := bucket(tx, bucketUsers)
		if err != nil {
			return err
		}
		idx, err := bucket(tx, bucketUsersByEmail)
		if err != nil {
			return err
		}
		if idx.Get([]byte(u.Email)) != nil || users.Get([]byte(u.ID)) != nil {
			return store.ErrAlreadyExists
		}
		if err := users.Put([]byte(u.ID), data); err != nil {
			return err
		}
		return idx.Put([]byte(u.Email), []byte(u.ID))
	})
}

func (r *usersRepo) PushNotification(ctx context.Context, userID string, n domain.Notification) error {
	return r.update(ctx, userID, func(rec *userRecord) {
		rec.Notifications = append(rec.Notifications, notificationRecord{
			Title: n.Title, Body: n.Body, Timestamp: n.Timestamp.UTC(),
		})
	})
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	return r.update(ctx, userID, func(rec *userRecord) {
		rec.PasswordHash = hash
	})
}

// update rewrites one user record in a single write transaction.
func (r *usersRepo) update(ctx context.Context, userID string, mutate func(*userRecord)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(func(tx *bbolt.Tx) error {
		var rec userRecord
		if err := getRecord(tx, userID, &rec); err != nil {
			return err
		}
		mutate(&rec)
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("bolt: encode user: %w", err)
		}
		users, err := bucket(tx, bucketUsers)
		if err != nil {
			return err
		}
		return users.Put([]byte(userID), data)
	})
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	users := []domain.User{}
	err := r.db.View(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, bucketUsers)
		if err != nil {
			return err
		}
		return b.ForEach(func(_, v []byte) error {
			var rec userRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("bolt: decode user: %w", err)
			}
			users = append(users, domain.User{
				ID:        rec.ID,
				Username:  rec.Username,
				Email:     rec.Email,
				Role:      rec.Role,
				CreatedAt: rec.CreatedAt.UTC(),
			})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.Before(users[j].CreatedAt)
		}
		return users[i].ID < users[j].ID
	})
	return users, nil
}

func bucket(tx *bbolt.Tx, name []byte) (*bbolt.Bucket, error) {
	b := tx.Bucket(name)
	if b == nil {
		return nil, errMissingBucket
	}
	return b, nil
}

func getRecord(tx *bbolt.Tx, id string, rec *userRecord) error {
	users, err := bucket(tx, bucketUsers)
	if err != nil {
		return err
	}
	data := users.Get([]byte(id))
	if data == nil {
		return store.ErrNotFound
	}
	if err := json.Unmarshal(data, rec); err != nil {
		return fmt.Errorf("bolt: decode user: %w", err)
	}
	return nil
}

func fromDomain(u domain.User) userRecord {
	rec := userRecord{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		PasswordHash:  u.PasswordHash,
		Role:          u.Role,
		DeviceToken:   u.DeviceToken,
		Cart:          make([]cartItemRecord, 0, len(u.Cart)),
		Notifications: make([]notificationRecord, 0, len(u.Notifications)),
		CreatedAt:     u.CreatedAt.UTC(),
	}
	for _, c := range u.Cart {
		qty := c.Quantity
		if qty <= 0 {
			qty = 1
		}
		rec.Cart = append(rec.Cart, cartItemRecord{TemplateID: c.TemplateID, Quantity: qty, AddedAt: c.AddedAt.UTC()})
	}
	for _, n := range u.Notifications {
		rec.Notifications = append(rec.Notifications, notificationRecord{Title: n.Title, Body: n.Body, Timestamp: n.Timestamp.UTC()})
	}
	return rec
}

func (rec userRecord) toDomain() domain.User {
	u := domain.User{
		ID:            rec.ID,
		Username:      rec.Username,
		Email:         rec.Email,
		PasswordHash:  rec.PasswordHash,
		Role:          rec.Role,
		DeviceToken:   rec.DeviceToken,
		Cart:          make([]domain.CartItem, 0, len(rec.Cart)),
		Notifications: make([]domain.Notification, 0, len(rec.Notifications)),
		CreatedAt:     rec.CreatedAt.UTC(),
	}
	for _, c := range rec.Cart {
		u.Cart = append(u.Cart, domain.CartItem{TemplateID: c.TemplateID, Quantity: c.Quantity, AddedAt: c.AddedAt.UTC()})
	}
	for _, n := range rec.Notifications {
		u.Notifications = append(u.Notifications, domain.Notification{Title: n.Title, Body: n.Body, Timestamp: n.Timestamp.UTC()})
	}
	return u
}

var _ store.Users = (*usersRepo)(nil)
