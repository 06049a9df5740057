package repo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// ReportingRepositoryPG serves the dashboard rollups with plain aggregate
// queries. No invariants live here; figures reflect the store at query time.
type ReportingRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewReportingRepository constructs the repository.
func NewReportingRepository(pool *pgxpool.Pool) *ReportingRepositoryPG {
	return &ReportingRepositoryPG{pool: pool}
}

// CampaignStatusCounts groups campaigns by status.
func (r *ReportingRepositoryPG) CampaignStatusCounts(ctx context.Context) (map[domain.CampaignStatus]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM campaigns GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.CampaignStatus]int64)
	for rows.Next() {
		var status domain.CampaignStatus
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// CountUsers returns the total number of registered users.
func (r *ReportingRepositoryPG) CountUsers(ctx context.Context) (int64, error) {
	return r.scanCount(ctx, `SELECT COUNT(*) FROM users`)
}

// CountUsersCreatedSince counts users registered at or after the given time.
func (r *ReportingRepositoryPG) CountUsersCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return r.scanCount(ctx, `SELECT COUNT(*) FROM users WHERE created_at >= $1`, since)
}

// CountDonations returns the total number of ledger entries.
func (r *ReportingRepositoryPG) CountDonations(ctx context.Context) (int64, error) {
	return r.scanCount(ctx, `SELECT COUNT(*) FROM donations`)
}

// SumDonations returns the sum of all donation amounts.
func (r *ReportingRepositoryPG) SumDonations(ctx context.Context) (int64, error) {
	return r.scanCount(ctx, `SELECT COALESCE(SUM(amount), 0) FROM donations`)
}

// SumDonationsSince sums donation amounts recorded at or after the given time.
func (r *ReportingRepositoryPG) SumDonationsSince(ctx context.Context, since time.Time) (int64, error) {
	return r.scanCount(ctx, `SELECT COALESCE(SUM(amount), 0) FROM donations WHERE created_at >= $1`, since)
}

// OwnerStatusCounts groups one owner's campaigns by status.
func (r *ReportingRepositoryPG) OwnerStatusCounts(ctx context.Context, ownerID string) (map[domain.CampaignStatus]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM campaigns WHERE owner_id = $1 GROUP BY status`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.CampaignStatus]int64)
	for rows.Next() {
		var status domain.CampaignStatus
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// CountWithdrawnByOwner counts the owner's campaigns whose funds have been
// paid out, regardless of current status.
func (r *ReportingRepositoryPG) CountWithdrawnByOwner(ctx context.Context, ownerID string) (int64, error) {
	return r.scanCount(ctx, `SELECT COUNT(*) FROM campaigns WHERE owner_id = $1 AND withdrawn`, ownerID)
}

// SumDonationsByDonor sums donation amounts the user has made.
func (r *ReportingRepositoryPG) SumDonationsByDonor(ctx context.Context, userID string) (int64, error) {
	return r.scanCount(ctx, `SELECT COALESCE(SUM(amount), 0) FROM donations WHERE donor_user_id = $1`, userID)
}

// SumDonationsReceivedByOwner sums donations across every campaign the user
// owns, the donation -> campaign -> owner join.
func (r *ReportingRepositoryPG) SumDonationsReceivedByOwner(ctx context.Context, ownerID string) (int64, error) {
	return r.scanCount(ctx, `
SELECT COALESCE(SUM(d.amount), 0)
FROM donations d
JOIN campaigns c ON c.id = d.campaign_id
WHERE c.owner_id = $1;
`, ownerID)
}

func (r *ReportingRepositoryPG) scanCount(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
