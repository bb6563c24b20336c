package domain

import "time"

// User is a member of one or more books, referenced as creator, updater, or
// trader on movements.
type User struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}
