package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

const donationColumns = `id, campaign_id, amount, message, donor_user_id, donor_name, donor_email, country, created_at`

// DonationRepositoryPG implements domain.DonationRepository using PostgreSQL.
type DonationRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewDonationRepository creates a new donation repo.
func NewDonationRepository(pool *pgxpool.Pool) *DonationRepositoryPG {
	return &DonationRepositoryPG{pool: pool}
}

// Record inserts the ledger entry and applies its amount to the campaign in
// one transaction. The campaign update is a single increment-and-derive
// statement, so concurrent donations to the same campaign serialize on the
// row lock and none of the increments is lost.
func (r *DonationRepositoryPG) Record(ctx context.Context, d *domain.Donation) (*domain.Campaign, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
UPDATE campaigns
SET raised_amount = raised_amount + $2,
    status = CASE WHEN status = 'active' AND raised_amount + $2 >= goal_amount THEN 'completed' ELSE status END,
    updated_at = now()
WHERE id = $1
RETURNING `+campaignColumns+`;
`, d.CampaignID, d.Amount)
	campaign, err := scanCampaign(row)
	if err != nil {
		return nil, err
	}

	row = tx.QueryRow(ctx, `
INSERT INTO donations (id, campaign_id, amount, message, donor_user_id, donor_name, donor_email, country)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING created_at;
`, d.ID, d.CampaignID, d.Amount, d.Message, d.DonorUserID, d.DonorName, d.DonorEmail, d.Country)
	if err := row.Scan(&d.CreatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return campaign, nil
}

// ListByCampaign returns the campaign's donations, newest first.
func (r *DonationRepositoryPG) ListByCampaign(ctx context.Context, campaignID string) ([]domain.Donation, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+donationColumns+`
FROM donations
WHERE campaign_id = $1
ORDER BY created_at DESC;
`, campaignID)
	if err != nil {
		return nil, err
	}
	return collectDonations(rows)
}

// ListByDonor returns donations made by the given user, newest first.
func (r *DonationRepositoryPG) ListByDonor(ctx context.Context, userID string) ([]domain.Donation, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+donationColumns+`
FROM donations
WHERE donor_user_id = $1
ORDER BY created_at DESC;
`, userID)
	if err != nil {
		return nil, err
	}
	return collectDonations(rows)
}

// ListAll returns every donation, newest first.
func (r *DonationRepositoryPG) ListAll(ctx context.Context) ([]domain.Donation, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+donationColumns+`
FROM donations
ORDER BY created_at DESC;
`)
	if err != nil {
		return nil, err
	}
	return collectDonations(rows)
}

func collectDonations(rows pgx.Rows) ([]domain.Donation, error) {
	defer rows.Close()
	var items []domain.Donation
	for rows.Next() {
		var d domain.Donation
		if err := rows.Scan(
			&d.ID,
			&d.CampaignID,
			&d.Amount,
			&d.Message,
			&d.DonorUserID,
			&d.DonorName,
			&d.DonorEmail,
			&d.Country,
			&d.CreatedAt,
		); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, domain.ErrNotFound
			}
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
