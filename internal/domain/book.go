package domain

import "time"

// Book is an account book (ledger). Accounts, tags, and movements always
// belong to exactly one book; transfers never cross books.
type Book struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BookMember links a user to a book. Only members may mutate movements.
type BookMember struct {
	BookID    string
	UserID    string
	CreatedAt time.Time
}
