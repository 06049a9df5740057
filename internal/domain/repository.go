package domain

import (
	"context"
	"time"
)

// CampaignRepository defines persistence for campaigns. Implementations must
// make AddDonationAmount, Withdraw, SetStatusFromPending, and
// DeleteNonCompleted single atomic conditional updates; the lifecycle guards
// they enforce cannot rely on values read earlier in the request.
type CampaignRepository interface {
	Create(ctx context.Context, campaign *Campaign) error
	GetByID(ctx context.Context, id string) (*Campaign, error)
	ListByStatuses(ctx context.Context, statuses []CampaignStatus) ([]Campaign, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Campaign, error)

	// UpdateDetails persists the editable fields (title, description, goal,
	// categories, deadline, image) and re-derives completion in the same
	// statement. RaisedAmount and Withdrawn are never written by this path.
	UpdateDetails(ctx context.Context, campaign *Campaign) (*Campaign, error)

	// CompleteIfFunded promotes an active, fully funded campaign to
	// completed. Idempotent; called on every read.
	CompleteIfFunded(ctx context.Context, id string) error

	// SetStatusFromPending transitions pending -> to (active or rejected),
	// storing reason for rejections. Returns a TransitionError when the row
	// is no longer pending.
	SetStatusFromPending(ctx context.Context, id string, to CampaignStatus, reason *string) (*Campaign, error)

	// Withdraw resets the raised total and marks the campaign withdrawn,
	// conditioned on withdrawn = false and raised >= goal at the moment of
	// update. At most one concurrent attempt can succeed.
	Withdraw(ctx context.Context, id string) (*Campaign, error)

	// DeleteNonCompleted removes the campaign unless it is completed.
	DeleteNonCompleted(ctx context.Context, id string) error
}

// DonationRepository persists the append-only donation ledger.
type DonationRepository interface {
	// Record inserts the donation and applies its amount to the campaign's
	// raised total in one transaction, returning the post-update campaign.
	Record(ctx context.Context, donation *Donation) (*Campaign, error)
	ListByCampaign(ctx context.Context, campaignID string) ([]Donation, error)
	ListByDonor(ctx context.Context, userID string) ([]Donation, error)
	ListAll(ctx context.Context) ([]Donation, error)
}

// UserRepository reads principals persisted by the identity provider.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) ([]User, error)
}

// SystemStats is the admin-wide rollup.
type SystemStats struct {
	TotalUsers           int64
	NewUsersToday        int64
	TotalCampaigns       int64
	TotalDonations       int64
	TotalDonationAmount  int64
	TodayDonationAmount  int64
	CampaignStatusCounts map[CampaignStatus]int64
}

// DashboardOverview is the per-owner rollup.
type DashboardOverview struct {
	PendingCount           int64
	RejectedCount          int64
	ActiveCount            int64
	CompletedCount         int64
	WithdrawnCount         int64
	ClosedCount            int64
	TotalDonationsMade     int64
	TotalDonationsReceived int64
}

// ReportingRepository serves read-only rollups over persisted state. The
// figures reflect the store at query time; there are no invariants to hold.
type ReportingRepository interface {
	CampaignStatusCounts(ctx context.Context) (map[CampaignStatus]int64, error)
	CountUsers(ctx context.Context) (int64, error)
	CountUsersCreatedSince(ctx context.Context, since time.Time) (int64, error)
	CountDonations(ctx context.Context) (int64, error)
	SumDonations(ctx context.Context) (int64, error)
	SumDonationsSince(ctx context.Context, since time.Time) (int64, error)
	OwnerStatusCounts(ctx context.Context, ownerID string) (map[CampaignStatus]int64, error)
	CountWithdrawnByOwner(ctx context.Context, ownerID string) (int64, error)
	SumDonationsByDonor(ctx context.Context, userID string) (int64, error)
	SumDonationsReceivedByOwner(ctx context.Context, ownerID string) (int64, error)
}
