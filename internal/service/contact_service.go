package service

import (
	"context"

	"github.com/dialdirectory/web/internal/model"
)

// ContactService defines the business logic for contact form submissions.
type ContactService interface {
	// Submit stores a new contact message. msg.ID and CreatedAt are
	// populated on success.
	Submit(ctx context.Context, msg *model.ContactMessage) error

	// List returns contact messages, newest first.
	List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error)

	Delete(ctx context.Context, id int64) error
}
