package service

import (
	"context"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/metrics"
	"server/internal/policy"
)

// CampaignService owns the campaign lifecycle state machine: moderation
// (pending -> active/rejected), fundraising completion, one-shot withdrawal,
// and deletion. All guards that race with concurrent requests are enforced by
// conditional updates in the repository; the service never trusts a status it
// read earlier in the request for those paths.
type CampaignService struct {
	campaigns domain.CampaignRepository
	access    policy.Access
	logger    zerolog.Logger
}

// NewCampaignService wires the lifecycle engine with its storage handle and
// access policy.
func NewCampaignService(campaigns domain.CampaignRepository, access policy.Access, logger zerolog.Logger) *CampaignService {
	return &CampaignService{campaigns: campaigns, access: access, logger: logger}
}

// CreateCampaignInput carries the fields a new campaign accepts.
type CreateCampaignInput struct {
	Title       string
	Description string
	GoalAmount  int64
	Categories  []string
	ImageRef    *string
}

// Create submits a new campaign in pending status on behalf of the principal.
func (s *CampaignService) Create(ctx context.Context, principal *domain.User, input CreateCampaignInput) (*domain.Campaign, error) {
	if principal == nil {
		return nil, domain.ErrUnauthorized
	}
	campaign, err := domain.NewCampaign(principal.ID, input.Title, input.Description, input.GoalAmount)
	if err != nil {
		return nil, err
	}
	campaign.Categories = input.Categories
	campaign.ImageRef = input.ImageRef

	if err := s.campaigns.Create(ctx, campaign); err != nil {
		return nil, domain.WrapStorage("create campaign", err)
	}
	metrics.CampaignTransitions.WithLabelValues("created").Inc()
	s.logger.Info().Str("campaign_id", campaign.ID).Str("owner_id", campaign.OwnerID).Msg("campaign submitted for moderation")
	return campaign, nil
}

// Get returns a campaign by id, persisting the derived completion status
// before reading so a fully funded campaign is never served as active.
func (s *CampaignService) Get(ctx context.Context, id string) (*domain.Campaign, error) {
	id, err := domain.ParseID(id)
	if err != nil {
		return nil, err
	}
	if err := s.campaigns.CompleteIfFunded(ctx, id); err != nil {
		return nil, domain.WrapStorage("recheck completion", err)
	}
	campaign, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		return nil, domain.WrapStorage("get campaign", err)
	}
	return campaign, nil
}

// ListPublic returns campaigns in publicly visible statuses, optionally
// narrowed to a single one.
func (s *CampaignService) ListPublic(ctx context.Context, statusFilter string) ([]domain.Campaign, error) {
	statuses := domain.PublicStatuses
	if statusFilter != "" {
		status, err := domain.ParseCampaignStatus(statusFilter)
		if err != nil {
			return nil, err
		}
		if !status.IsPublic() {
			return nil, &domain.ValidationError{Field: "status", Reason: "status is not publicly listable"}
		}
		statuses = []domain.CampaignStatus{status}
	}
	items, err := s.campaigns.ListByStatuses(ctx, statuses)
	if err != nil {
		return nil, domain.WrapStorage("list public campaigns", err)
	}
	return items, nil
}

// ListOwned returns the principal's own campaigns in every status.
func (s *CampaignService) ListOwned(ctx context.Context, principal *domain.User) ([]domain.Campaign, error) {
	if principal == nil {
		return nil, domain.ErrUnauthorized
	}
	items, err := s.campaigns.ListByOwner(ctx, principal.ID)
	if err != nil {
		return nil, domain.WrapStorage("list owned campaigns", err)
	}
	return items, nil
}

// ListByStatus returns every campaign in the given status. Admin only; the
// moderation queue and rejection history are not public.
func (s *CampaignService) ListByStatus(ctx context.Context, principal *domain.User, statusToken string) ([]domain.Campaign, error) {
	if !s.access.IsAdmin(principal) {
		return nil, domain.ErrForbidden
	}
	status, err := domain.ParseCampaignStatus(statusToken)
	if err != nil {
		return nil, err
	}
	items, err := s.campaigns.ListByStatuses(ctx, []domain.CampaignStatus{status})
	if err != nil {
		return nil, domain.WrapStorage("list campaigns by status", err)
	}
	return items, nil
}

// Update applies a field patch to the campaign for its owner or an admin.
// Lowering the goal under the raised total completes an active campaign.
func (s *CampaignService) Update(ctx context.Context, principal *domain.User, id string, patch domain.CampaignPatch) (*domain.Campaign, error) {
	campaign, err := s.authorize(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if err := patch.Apply(campaign); err != nil {
		return nil, err
	}
	updated, err := s.campaigns.UpdateDetails(ctx, campaign)
	if err != nil {
		return nil, domain.WrapStorage("update campaign", err)
	}
	return updated, nil
}

// Delete removes the campaign for its owner or an admin. Completed campaigns
// are a permanent record of fulfilled goals and cannot be removed.
func (s *CampaignService) Delete(ctx context.Context, principal *domain.User, id string) error {
	campaign, err := s.authorize(ctx, principal, id)
	if err != nil {
		return err
	}
	if err := s.campaigns.DeleteNonCompleted(ctx, campaign.ID); err != nil {
		return domain.WrapStorage("delete campaign", err)
	}
	metrics.CampaignTransitions.WithLabelValues("deleted").Inc()
	s.logger.Info().Str("campaign_id", campaign.ID).Msg("campaign deleted")
	return nil
}

// Approve moves a pending campaign to active. Admin only.
func (s *CampaignService) Approve(ctx context.Context, principal *domain.User, id string) (*domain.Campaign, error) {
	campaign, err := s.moderate(ctx, principal, id, domain.CampaignStatusActive, nil)
	if err != nil {
		return nil, err
	}
	metrics.CampaignTransitions.WithLabelValues("approved").Inc()
	s.logger.Info().Str("campaign_id", campaign.ID).Msg("campaign approved")
	return campaign, nil
}

// Reject moves a pending campaign to rejected, recording the reason. Admin
// only; an omitted reason falls back to a fixed placeholder.
func (s *CampaignService) Reject(ctx context.Context, principal *domain.User, id string, reason string) (*domain.Campaign, error) {
	if reason == "" {
		reason = domain.DefaultRejectionReason
	}
	campaign, err := s.moderate(ctx, principal, id, domain.CampaignStatusRejected, &reason)
	if err != nil {
		return nil, err
	}
	metrics.CampaignTransitions.WithLabelValues("rejected").Inc()
	s.logger.Info().Str("campaign_id", campaign.ID).Str("reason", reason).Msg("campaign rejected")
	return campaign, nil
}

// Withdraw performs the one-shot payout: it zeroes the raised total and marks
// the campaign withdrawn, provided the goal was reached and no withdrawal
// happened before. The guard is checked atomically at update time, so of two
// concurrent attempts exactly one succeeds.
func (s *CampaignService) Withdraw(ctx context.Context, principal *domain.User, id string) (*domain.Campaign, error) {
	campaign, err := s.authorize(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	withdrawn, err := s.campaigns.Withdraw(ctx, campaign.ID)
	if err != nil {
		return nil, domain.WrapStorage("withdraw funds", err)
	}
	metrics.CampaignTransitions.WithLabelValues("withdrawn").Inc()
	s.logger.Info().Str("campaign_id", campaign.ID).Int64("amount", campaign.RaisedAmount).Msg("campaign funds withdrawn")
	return withdrawn, nil
}

// authorize loads the campaign and verifies the principal may modify it.
func (s *CampaignService) authorize(ctx context.Context, principal *domain.User, id string) (*domain.Campaign, error) {
	if principal == nil {
		return nil, domain.ErrUnauthorized
	}
	id, err := domain.ParseID(id)
	if err != nil {
		return nil, err
	}
	campaign, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		return nil, domain.WrapStorage("get campaign", err)
	}
	if !s.access.CanModify(principal, campaign) {
		return nil, domain.ErrForbidden
	}
	return campaign, nil
}

// moderate runs an admin-gated pending transition.
func (s *CampaignService) moderate(ctx context.Context, principal *domain.User, id string, to domain.CampaignStatus, reason *string) (*domain.Campaign, error) {
	if principal == nil {
		return nil, domain.ErrUnauthorized
	}
	if !s.access.IsAdmin(principal) {
		return nil, domain.ErrForbidden
	}
	id, err := domain.ParseID(id)
	if err != nil {
		return nil, err
	}
	// Existence check first so an unknown id reads as NotFound rather than a
	// transition failure.
	if _, err := s.campaigns.GetByID(ctx, id); err != nil {
		return nil, domain.WrapStorage("get campaign", err)
	}
	campaign, err := s.campaigns.SetStatusFromPending(ctx, id, to, reason)
	if err != nil {
		return nil, domain.WrapStorage("moderate campaign", err)
	}
	return campaign, nil
}
