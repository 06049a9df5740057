package service

import (
	"context"
	"time"

	"server/internal/domain"
	"server/internal/policy"
)

// ReportingService serves read-only rollups over persisted campaigns,
// donations, and users. It has no invariants of its own; figures reflect the
// store at query time.
type ReportingService struct {
	reporting domain.ReportingRepository
	users     domain.UserRepository
	access    policy.Access
	now       func() time.Time
}

// NewReportingService wires the reporting reads. now is exposed for tests.
func NewReportingService(reporting domain.ReportingRepository, users domain.UserRepository, access policy.Access) *ReportingService {
	return &ReportingService{reporting: reporting, users: users, access: access, now: time.Now}
}

// SystemStats returns the platform-wide overview for the admin dashboard.
func (s *ReportingService) SystemStats(ctx context.Context, principal *domain.User) (*domain.SystemStats, error) {
	if principal == nil {
		return nil, domain.ErrUnauthorized
	}
	if !s.access.IsAdmin(principal) {
		return nil, domain.ErrForbidden
	}

	startOfDay := s.startOfToday()
	stats := &domain.SystemStats{}

	var err error
	if stats.CampaignStatusCounts, err = s.reporting.CampaignStatusCounts(ctx); err != nil {
		return nil, domain.WrapStorage("campaign status counts", err)
	}
	for _, n := range stats.CampaignStatusCounts {
		stats.TotalCampaigns += n
	}
	if stats.TotalUsers, err = s.reporting.CountUsers(ctx); err != nil {
		return nil, domain.WrapStorage("count users", err)
	}
	if stats.NewUsersToday, err = s.reporting.CountUsersCreatedSince(ctx, startOfDay); err != nil {
		return nil, domain.WrapStorage("count new users", err)
	}
	if stats.TotalDonations, err = s.reporting.CountDonations(ctx); err != nil {
		return nil, domain.WrapStorage("count donations", err)
	}
	if stats.TotalDonationAmount, err = s.reporting.SumDonations(ctx); err != nil {
		return nil, domain.WrapStorage("sum donations", err)
	}
	if stats.TodayDonationAmount, err = s.reporting.SumDonationsSince(ctx, startOfDay); err != nil {
		return nil, domain.WrapStorage("sum donations today", err)
	}
	return stats, nil
}

// UserDashboard returns the principal's own campaign and donation rollup.
func (s *ReportingService) UserDashboard(ctx context.Context, principal *domain.User) (*domain.DashboardOverview, error) {
	if principal == nil {
		return nil, domain.ErrUnauthorized
	}

	counts, err := s.reporting.OwnerStatusCounts(ctx, principal.ID)
	if err != nil {
		return nil, domain.WrapStorage("owner status counts", err)
	}
	overview := &domain.DashboardOverview{
		PendingCount:   counts[domain.CampaignStatusPending],
		RejectedCount:  counts[domain.CampaignStatusRejected],
		ActiveCount:    counts[domain.CampaignStatusActive],
		CompletedCount: counts[domain.CampaignStatusCompleted],
		ClosedCount:    counts[domain.CampaignStatusClosed],
	}
	if overview.WithdrawnCount, err = s.reporting.CountWithdrawnByOwner(ctx, principal.ID); err != nil {
		return nil, domain.WrapStorage("count withdrawn", err)
	}
	if overview.TotalDonationsMade, err = s.reporting.SumDonationsByDonor(ctx, principal.ID); err != nil {
		return nil, domain.WrapStorage("sum donations made", err)
	}
	if overview.TotalDonationsReceived, err = s.reporting.SumDonationsReceivedByOwner(ctx, principal.ID); err != nil {
		return nil, domain.WrapStorage("sum donations received", err)
	}
	return overview, nil
}

// ListUsers returns every registered user for the admin console.
func (s *ReportingService) ListUsers(ctx context.Context, principal *domain.User) ([]domain.User, error) {
	if principal == nil {
		return nil, domain.ErrUnauthorized
	}
	if !s.access.IsAdmin(principal) {
		return nil, domain.ErrForbidden
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, domain.WrapStorage("list users", err)
	}
	return users, nil
}

func (s *ReportingService) startOfToday() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
