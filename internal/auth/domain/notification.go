package domain

import (
	"fmt"
	"time"
)

// Notification is one entry in a user's notification history.
type Notification struct {
	Title     string
	Body      string
	Timestamp time.Time
}

// WelcomeNotification is recorded when an account is created.
func WelcomeNotification(now time.Time) Notification {
	return Notification{
		Title:     "Welcome to Bookeez!",
		Body:      "Your account has been successfully created.",
		Timestamp: now,
	}
}

// WelcomeBackNotification is recorded on login for users with a device token.
func WelcomeBackNotification(username string, now time.Time) Notification {
	return Notification{
		Title:     "Welcome back to Bookeez!",
		Body:      fmt.Sprintf("Hey %s, we’re glad to see you again! Ready to explore the latest updates?", username),
		Timestamp: now,
	}
}
