package model

import "time"

// ContactMessage represents a message submitted via the contact form.
// It is immutable once stored; staff may only delete it.
type ContactMessage struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// ContactListOptions carries pagination parameters for listing contact messages.
type ContactListOptions struct {
	Limit  int
	Offset int
}
