package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/sesi/membership/internal/app/models"
	"github.com/sesi/membership/internal/app/models/dto"
	"github.com/sesi/membership/internal/app/repositories"
)

// StatsService aggregates counts for the landing page and the admin dashboard
type StatsService interface {
	Public(ctx context.Context) (*dto.PublicStatistics, error)
	Dashboard(ctx context.Context) (*dto.DashboardStats, error)
}

type statsServiceImpl struct {
	repos *repositories.Repositories
}

// NewStatsService creates a new StatsService
func NewStatsService(repos *repositories.Repositories) StatsService {
	return &statsServiceImpl{repos: repos}
}

// count runs one counter into dst inside g
func count(ctx context.Context, g *errgroup.Group, dst *int64, fn func(context.Context) (int64, error)) {
	g.Go(func() error {
		n, err := fn(ctx)
		if err != nil {
			return err
		}
		*dst = n
		return nil
	})
}

func (s *statsServiceImpl) Public(ctx context.Context) (*dto.PublicStatistics, error) {
	active := models.MemberActive
	upcoming := models.EventUpcoming
	var out dto.PublicStatistics

	g, gctx := errgroup.WithContext(ctx)
	count(gctx, g, &out.TotalMembers, func(ctx context.Context) (int64, error) { return s.repos.Members.Count(ctx, &active) })
	count(gctx, g, &out.TotalEvents, func(ctx context.Context) (int64, error) { return s.repos.Events.Count(ctx, nil) })
	count(gctx, g, &out.UpcomingEvents, func(ctx context.Context) (int64, error) { return s.repos.Events.Count(ctx, &upcoming) })
	count(gctx, g, &out.TotalPublications, s.repos.Publications.Count)
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *statsServiceImpl) Dashboard(ctx context.Context) (*dto.DashboardStats, error) {
	active := models.MemberActive
	upcoming := models.EventUpcoming
	pending := models.StatusSubmitted
	approved := models.StatusApproved
	unread := models.ContactNew
	var out dto.DashboardStats

	g, gctx := errgroup.WithContext(ctx)
	count(gctx, g, &out.TotalMembers, func(ctx context.Context) (int64, error) { return s.repos.Members.Count(ctx, nil) })
	count(gctx, g, &out.ActiveMembers, func(ctx context.Context) (int64, error) { return s.repos.Members.Count(ctx, &active) })
	count(gctx, g, &out.TotalEvents, func(ctx context.Context) (int64, error) { return s.repos.Events.Count(ctx, nil) })
	count(gctx, g, &out.UpcomingEvents, func(ctx context.Context) (int64, error) { return s.repos.Events.Count(ctx, &upcoming) })
	count(gctx, g, &out.TotalNews, s.repos.News.Count)
	count(gctx, g, &out.TotalApplications, func(ctx context.Context) (int64, error) { return s.repos.Applications.Count(ctx, nil) })
	count(gctx, g, &out.PendingApplications, func(ctx context.Context) (int64, error) { return s.repos.Applications.Count(ctx, &pending) })
	count(gctx, g, &out.ApprovedApplications, func(ctx context.Context) (int64, error) { return s.repos.Applications.Count(ctx, &approved) })
	count(gctx, g, &out.CommitteeMembers, s.repos.Committee.Count)
	count(gctx, g, &out.TotalAlbums, s.repos.Gallery.CountAlbums)
	count(gctx, g, &out.TotalPublications, s.repos.Publications.Count)
	count(gctx, g, &out.NewContactMessages, func(ctx context.Context) (int64, error) { return s.repos.Contact.Count(ctx, &unread) })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
