package service

import (
	"context"
	"sync"
	"time"

	"server/internal/domain"
)

// fakeCampaignRepo is an in-memory CampaignRepository. A single mutex stands
// in for the database's atomic conditional updates, so the lifecycle guards
// behave the same under concurrent calls as the SQL implementation.
type fakeCampaignRepo struct {
	mu    sync.Mutex
	items map[string]*domain.Campaign
}

func newFakeCampaignRepo() *fakeCampaignRepo {
	return &fakeCampaignRepo{items: map[string]*domain.Campaign{}}
}

func (r *fakeCampaignRepo) Create(_ context.Context, c *domain.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now
	cp := *c
	r.items[c.ID] = &cp
	return nil
}

func (r *fakeCampaignRepo) GetByID(_ context.Context, id string) (*domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCampaignRepo) ListByStatuses(_ context.Context, statuses []domain.CampaignStatus) ([]domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Campaign
	for _, c := range r.items {
		for _, s := range statuses {
			if c.Status == s {
				out = append(out, *c)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeCampaignRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Campaign
	for _, c := range r.items {
		if c.OwnerID == ownerID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCampaignRepo) UpdateDetails(_ context.Context, c *domain.Campaign) (*domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[c.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	stored.Title = c.Title
	stored.Description = c.Description
	stored.GoalAmount = c.GoalAmount
	stored.Categories = c.Categories
	stored.Deadline = c.Deadline
	stored.ImageRef = c.ImageRef
	stored.UpdatedAt = time.Now()
	domain.RecheckCompletion(stored)
	cp := *stored
	return &cp, nil
}

func (r *fakeCampaignRepo) CompleteIfFunded(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.items[id]; ok {
		domain.RecheckCompletion(c)
	}
	return nil
}

func (r *fakeCampaignRepo) SetStatusFromPending(_ context.Context, id string, to domain.CampaignStatus, reason *string) (*domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if c.Status != domain.CampaignStatusPending {
		return nil, &domain.TransitionError{From: c.Status, Guard: "campaign is not pending"}
	}
	c.Status = to
	c.RejectionReason = reason
	c.UpdatedAt = time.Now()
	cp := *c
	return &cp, nil
}

func (r *fakeCampaignRepo) Withdraw(_ context.Context, id string) (*domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !domain.CanWithdraw(c) {
		return nil, &domain.TransitionError{From: c.Status, Guard: "goal not reached or funds already withdrawn"}
	}
	c.RaisedAmount = 0
	c.Withdrawn = true
	c.Status = domain.CampaignStatusWithdrawn
	c.UpdatedAt = time.Now()
	cp := *c
	return &cp, nil
}

func (r *fakeCampaignRepo) DeleteNonCompleted(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	if c.Status == domain.CampaignStatusCompleted {
		return &domain.TransitionError{From: c.Status, Guard: "completed campaigns cannot be deleted"}
	}
	delete(r.items, id)
	return nil
}

// fakeDonationRepo appends ledger entries and applies them to the campaign
// under the campaign repo's lock, mirroring the SQL transaction.
type fakeDonationRepo struct {
	campaigns *fakeCampaignRepo
	mu        sync.Mutex
	items     []domain.Donation
}

func newFakeDonationRepo(campaigns *fakeCampaignRepo) *fakeDonationRepo {
	return &fakeDonationRepo{campaigns: campaigns}
}

func (r *fakeDonationRepo) Record(_ context.Context, d *domain.Donation) (*domain.Campaign, error) {
	r.campaigns.mu.Lock()
	defer r.campaigns.mu.Unlock()
	c, ok := r.campaigns.items[d.CampaignID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	d.CreatedAt = time.Now()
	r.mu.Lock()
	r.items = append(r.items, *d)
	r.mu.Unlock()
	domain.ApplyDonation(c, d.Amount)
	c.UpdatedAt = d.CreatedAt
	cp := *c
	return &cp, nil
}

func (r *fakeDonationRepo) ListByCampaign(_ context.Context, campaignID string) ([]domain.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Donation
	for _, d := range r.items {
		if d.CampaignID == campaignID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeDonationRepo) ListByDonor(_ context.Context, userID string) ([]domain.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Donation
	for _, d := range r.items {
		if d.DonorUserID != nil && *d.DonorUserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeDonationRepo) ListAll(_ context.Context) ([]domain.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Donation(nil), r.items...), nil
}

// fakeReportingRepo returns canned rollup figures.
type fakeReportingRepo struct {
	statusCounts   map[domain.CampaignStatus]int64
	users          int64
	newUsers       int64
	donations      int64
	donationSum    int64
	donationsToday int64
	ownerCounts    map[domain.CampaignStatus]int64
	withdrawn      int64
	made           int64
	received       int64
}

func (r *fakeReportingRepo) CampaignStatusCounts(context.Context) (map[domain.CampaignStatus]int64, error) {
	return r.statusCounts, nil
}
func (r *fakeReportingRepo) CountUsers(context.Context) (int64, error) { return r.users, nil }
func (r *fakeReportingRepo) CountUsersCreatedSince(context.Context, time.Time) (int64, error) {
	return r.newUsers, nil
}
func (r *fakeReportingRepo) CountDonations(context.Context) (int64, error) { return r.donations, nil }
func (r *fakeReportingRepo) SumDonations(context.Context) (int64, error)   { return r.donationSum, nil }
func (r *fakeReportingRepo) SumDonationsSince(context.Context, time.Time) (int64, error) {
	return r.donationsToday, nil
}
func (r *fakeReportingRepo) OwnerStatusCounts(context.Context, string) (map[domain.CampaignStatus]int64, error) {
	return r.ownerCounts, nil
}
func (r *fakeReportingRepo) CountWithdrawnByOwner(context.Context, string) (int64, error) {
	return r.withdrawn, nil
}
func (r *fakeReportingRepo) SumDonationsByDonor(context.Context, string) (int64, error) {
	return r.made, nil
}
func (r *fakeReportingRepo) SumDonationsReceivedByOwner(context.Context, string) (int64, error) {
	return r.received, nil
}

type fakeUserRepo struct {
	users map[string]*domain.User
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) List(context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}
