package domain

import "time"

// RoleUser is the role every registered account starts with.
const RoleUser = "user"

type User struct {
	ID            string
	Username      string
	Email         string // trimmed, lower-cased; unique
	PasswordHash  string // bcrypt encoded
	Role          string
	DeviceToken   string // push token, empty when the client sent none
	Cart          []CartItem
	Notifications []Notification // append-only
	CreatedAt     time.Time
}

// CartItem references a catalog template by id. The account service only
// reads carts; another service owns their mutation.
type CartItem struct {
	TemplateID string
	Quantity   int
	AddedAt    time.Time
}

// CanReceivePush reports whether account events should be pushed to the
// user's device.
func (u *User) CanReceivePush() bool {
	return u.DeviceToken != ""
}
