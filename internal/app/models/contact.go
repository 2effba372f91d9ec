package models

import "time"

// ContactStatus tracks whether the office has handled a message
type ContactStatus string

const (
	ContactNew     ContactStatus = "new"
	ContactRead    ContactStatus = "read"
	ContactReplied ContactStatus = "replied"
)

// Valid reports whether s is a known contact status
func (s ContactStatus) Valid() bool {
	return s == ContactNew || s == ContactRead || s == ContactReplied
}

// ContactMessage is a submission from the public contact form
type ContactMessage struct {
	ID        string        `json:"id" db:"id"`
	Name      string        `json:"name" db:"name"`
	Email     string        `json:"email" db:"email"`
	Phone     string        `json:"phone" db:"phone"`
	Subject   string        `json:"subject" db:"subject"`
	Message   string        `json:"message" db:"message"`
	Status    ContactStatus `json:"status" db:"status"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
}

// ContactFilter narrows the admin inbox
type ContactFilter struct {
	Status *ContactStatus
	Limit  uint64
}
