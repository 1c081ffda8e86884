package service

import (
	"context"
	"fmt"

	"github.com/dialdirectory/web/internal/model"
	"github.com/dialdirectory/web/internal/repository"
	"golang.org/x/sync/errgroup"
)

// DashboardService gathers the staff dashboard counts.
type DashboardService struct {
	listings   repository.ListingRepository
	categories repository.CategoryRepository
	contacts   repository.ContactRepository
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(listings repository.ListingRepository, categories repository.CategoryRepository, contacts repository.ContactRepository) *DashboardService {
	return &DashboardService{listings: listings, categories: categories, contacts: contacts}
}

// Stats runs the four count queries concurrently.
func (s *DashboardService) Stats(ctx context.Context) (*model.DashboardStats, error) {
	var stats model.DashboardStats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.Listings, err = s.listings.Count(ctx, model.ListingFilter{})
		return err
	})
	g.Go(func() (err error) {
		stats.Featured, err = s.listings.Count(ctx, model.ListingFilter{FeaturedOnly: true})
		return err
	})
	g.Go(func() (err error) {
		stats.Categories, err = s.categories.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Messages, err = s.contacts.Count(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return &stats, nil
}
