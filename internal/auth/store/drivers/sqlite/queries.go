package sqlite

const (
	qGetUserByID = `
SELECT id, username, email, password_hash, role, device_token, created_at
FROM users WHERE id = ?`

	qGetUserByEmail = `
SELECT id, username, email, password_hash, role, device_token, created_at
FROM users WHERE email = ?`

	qCreateUser = `
INSERT INTO users (id, username, email, password_hash, role, device_token, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`

	qUserExists = `SELECT 1 FROM users WHERE id = ?`

	qUpdatePasswordHash = `UPDATE users SET password_hash = ? WHERE id = ?`

	qListUsers = `
SELECT id, username, email, role, created_at
FROM users ORDER BY created_at, id`

	qListNotifications = `
SELECT title, body, created_at
FROM user_notifications WHERE user_id = ? ORDER BY id`

	qInsertNotification = `
INSERT INTO user_notifications (user_id, title, body, created_at)
VALUES (?, ?, ?, ?)`

	qListCartItems = `
SELECT template_id, quantity, added_at
FROM user_cart_items WHERE user_id = ? ORDER BY added_at, template_id`

	qInsertCartItem = `
INSERT INTO user_cart_items (user_id, template_id, quantity, added_at)
VALUES (?, ?, ?, ?)`
)
