package service

import (
	"context"
	"log/slog"

	"github.com/dialdirectory/web/internal/model"
	"github.com/dialdirectory/web/internal/repository"
)

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	repo repository.ContactRepository
}

// NewContactService creates a ContactService backed by the given repository.
func NewContactService(repo repository.ContactRepository) ContactService {
	return &contactServiceImpl{repo: repo}
}

func (s *contactServiceImpl) Submit(ctx context.Context, msg *model.ContactMessage) error {
	if err := s.repo.Save(ctx, msg); err != nil {
		return err
	}
	slog.Info("contact message received", "message_id", msg.ID)
	return nil
}

func (s *contactServiceImpl) List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error) {
	return s.repo.List(ctx, opts)
}

func (s *contactServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
