package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/infra/geoip"
	"server/internal/metrics"
	"server/internal/policy"
)

// DonationService validates and persists donation ledger entries. The insert
// and the campaign's raised-total update happen in one repository
// transaction, so the running total always equals the sum of recorded
// donations no matter how submissions interleave.
type DonationService struct {
	donations domain.DonationRepository
	access    policy.Access
	geo       geoip.CountryResolver
	logger    zerolog.Logger
}

// NewDonationService wires the donation recorder. geo may be nil; donor
// country enrichment is best effort.
func NewDonationService(donations domain.DonationRepository, access policy.Access, geo geoip.CountryResolver, logger zerolog.Logger) *DonationService {
	return &DonationService{donations: donations, access: access, geo: geo, logger: logger}
}

// RecordDonationInput carries a donation submission.
type RecordDonationInput struct {
	CampaignID string
	Amount     int64
	Message    string
	Donor      domain.Donor
	RemoteIP   string
}

// Record validates the donation, persists it together with the ledger update,
// and returns both the entry and the post-update campaign so the caller sees
// the new raised total without a second read.
func (s *DonationService) Record(ctx context.Context, input RecordDonationInput) (*domain.Donation, *domain.Campaign, error) {
	start := time.Now()

	donation, err := domain.NewDonation(input.CampaignID, input.Amount, input.Message, input.Donor)
	if err != nil {
		metrics.ObserveDonation("rejected", time.Since(start).Seconds())
		return nil, nil, err
	}
	donation.Country = s.resolveCountry(input.RemoteIP)

	campaign, err := s.donations.Record(ctx, donation)
	if err != nil {
		metrics.ObserveDonation("failed", time.Since(start).Seconds())
		return nil, nil, domain.WrapStorage("record donation", err)
	}

	metrics.ObserveDonation("accepted", time.Since(start).Seconds())
	s.logger.Info().
		Str("donation_id", donation.ID).
		Str("campaign_id", campaign.ID).
		Int64("amount", donation.Amount).
		Int64("raised", campaign.RaisedAmount).
		Str("status", string(campaign.Status)).
		Msg("donation recorded")
	return donation, campaign, nil
}

// ListForCampaign returns the campaign's donations, newest first.
func (s *DonationService) ListForCampaign(ctx context.Context, campaignID string) ([]domain.Donation, error) {
	campaignID, err := domain.ParseID(campaignID)
	if err != nil {
		return nil, err
	}
	items, err := s.donations.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, domain.WrapStorage("list donations by campaign", err)
	}
	return items, nil
}

// ListForUser returns donations made by the given user, newest first. Only
// the user themselves or an admin may read the history.
func (s *DonationService) ListForUser(ctx context.Context, principal *domain.User, userID string) ([]domain.Donation, error) {
	if principal == nil {
		return nil, domain.ErrUnauthorized
	}
	userID, err := domain.ParseID(userID)
	if err != nil {
		return nil, err
	}
	if principal.ID != userID && !s.access.IsAdmin(principal) {
		return nil, domain.ErrForbidden
	}
	items, err := s.donations.ListByDonor(ctx, userID)
	if err != nil {
		return nil, domain.WrapStorage("list donations by user", err)
	}
	return items, nil
}

// ListAll returns every donation. Admin only.
func (s *DonationService) ListAll(ctx context.Context, principal *domain.User) ([]domain.Donation, error) {
	if principal == nil {
		return nil, domain.ErrUnauthorized
	}
	if !s.access.IsAdmin(principal) {
		return nil, domain.ErrForbidden
	}
	items, err := s.donations.ListAll(ctx)
	if err != nil {
		return nil, domain.WrapStorage("list all donations", err)
	}
	return items, nil
}

func (s *DonationService) resolveCountry(ip string) string {
	if s.geo == nil || ip == "" {
		return ""
	}
	country, err := s.geo.CountryCode(ip)
	if err != nil {
		s.logger.Debug().Err(err).Str("ip", ip).Msg("donor country lookup failed")
		return ""
	}
	return country
}
