package sqlite

import (
	"context"
	"database/sql"

	"github.com/bookeez/accounts/internal/auth/domain"
	"github.com/bookeez/accounts/internal/auth/store"
)

type usersRepo struct {
	db *sql.DB
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.getUser(ctx, qGetUserByID, id)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getUser(ctx, qGetUserByEmail, email)
}

func (r *usersRepo) getUser(ctx context.Context, query string, arg string) (domain.User, error) {
	var (
		u         domain.User
		device    sql.NullString
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &device, &createdAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.DeviceToken = mapNullString(device)
	u.CreatedAt = fromMillis(createdAt)

	if u.Notifications, err = r.notifications(ctx, u.ID); err != nil {
		return domain.User{}, err
	}
	if u.Cart, err = r.cart(ctx, u.ID); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (r *usersRepo) notifications(ctx context.Context, userID string) ([]domain.Notification, error) {
	rows, err := r.db.QueryContext(ctx, qListNotifications, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Notification{}
	for rows.Next() {
		var (
			n  domain.Notification
			ts int64
		)
		if err := rows.Scan(&n.Title, &n.Body, &ts); err != nil {
			return nil, err
		}
		n.Timestamp = fromMillis(ts)
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *usersRepo) cart(ctx context.Context, userID string) ([]domain.CartItem, error) {
	rows, err := r.db.QueryContext(ctx, qListCartItems, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.CartItem{}
	for rows.Next() {
		var (
			c       domain.CartItem
			addedAt int64
		)
		if err := rows.Scan(&c.TemplateID, &c.Quantity, &addedAt); err != nil {
			return nil, err
		}
		c.AddedAt = fromMillis(addedAt)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, qCreateUser,
			u.ID, u.Username, u.Email, u.PasswordHash, u.Role,
			mapStringNull(u.DeviceToken), toMillis(u.CreatedAt),
		)
		if err != nil {
			return mapConstraint(err)
		}

		for _, c := range u.Cart {
			qty := c.Quantity
			if qty <= 0 {
				qty = 1
			}
			if _, err := tx.ExecContext(ctx, qInsertCartItem, u.ID, c.TemplateID, qty, toMillis(c.AddedAt)); err != nil {
				return mapConstraint(err)
			}
		}
		for _, n := range u.Notifications {
			if _, err := tx.ExecContext(ctx, qInsertNotification, u.ID, n.Title, n.Body, toMillis(n.Timestamp)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *usersRepo) PushNotification(ctx context.Context, userID string, n domain.Notification) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var one int
		if err := tx.QueryRowContext(ctx, qUserExists, userID).Scan(&one); err != nil {
			return mapNotFound(err)
		}
		_, err := tx.ExecContext(ctx, qInsertNotification, userID, n.Title, n.Body, toMillis(n.Timestamp))
		return err
	})
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	res, err := r.db.ExecContext(ctx, qUpdatePasswordHash, hash, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, qListUsers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var (
			u         domain.User
			createdAt int64
		)
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Role, &createdAt); err != nil {
			return nil, err
		}
		u.CreatedAt = fromMillis(createdAt)
		users = append(users, u)
	}
	return users, rows.Err()
}

var _ store.Users = (*usersRepo)(nil)
