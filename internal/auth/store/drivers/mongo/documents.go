package mongo

import (
	"time"

	"github.com/bookeez/accounts/internal/auth/domain"
)

type userDoc struct {
	ID            string            `bson:"_id"`
	Username      string            `bson:"username"`
	Email         string            `bson:"email"`
	Password      string            `bson:"password"`
	Role          string            `bson:"role"`
	FCMToken      string            `bson:"fcmToken,omitempty"`
	Cart          []cartItemDoc     `bson:"cart"`
	Notifications []notificationDoc `bson:"notifications"`
	CreatedAt     time.Time         `bson:"createdAt"`
}

type cartItemDoc struct {
	Template string    `bson:"template"`
	Quantity int       `bson:"quantity"`
	AddedAt  time.Time `bson:"addedAt"`
}

type notificationDoc struct {
	Title     string    `bson:"title"`
	Body      string    `bson:"body"`
	Timestamp time.Time `bson:"timestamp"`
}

func toUserDoc(u domain.User) userDoc {
	// Arrays are always written, never null, so $push works on them.
	cart := make([]cartItemDoc, 0, len(u.Cart))
	for _, c := range u.Cart {
		qty := c.Quantity
		if qty <= 0 {
			qty = 1
		}
		cart = append(cart, cartItemDoc{Template: c.TemplateID, Quantity: qty, AddedAt: c.AddedAt.UTC()})
	}
	notes := make([]notificationDoc, 0, len(u.Notifications))
	for _, n := range u.Notifications {
		notes = append(notes, toNotificationDoc(n))
	}

	return userDoc{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		Password:      u.PasswordHash,
		Role:          u.Role,
		FCMToken:      u.DeviceToken,
		Cart:          cart,
		Notifications: notes,
		CreatedAt:     u.CreatedAt.UTC(),
	}
}

func toNotificationDoc(n domain.Notification) notificationDoc {
	return notificationDoc{Title: n.Title, Body: n.Body, Timestamp: n.Timestamp.UTC()}
}

func mapUser(d userDoc) domain.User {
	cart := make([]domain.CartItem, 0, len(d.Cart))
	for _, c := range d.Cart {
		cart = append(cart, domain.CartItem{TemplateID: c.Template, Quantity: c.Quantity, AddedAt: c.AddedAt.UTC()})
	}
	notes := make([]domain.Notification, 0, len(d.Notifications))
	for _, n := range d.Notifications {
		notes = append(notes, domain.Notification{Title: n.Title, Body: n.Body, Timestamp: n.Timestamp.UTC()})
	}

	return domain.User{
		ID:            d.ID,
		Username:      d.Username,
		Email:         d.Email,
		PasswordHash:  d.Password,
		Role:          d.Role,
		DeviceToken:   d.FCMToken,
		Cart:          cart,
		Notifications: notes,
		CreatedAt:     d.CreatedAt.UTC(),
	}
}
