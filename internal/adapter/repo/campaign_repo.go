package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

const campaignColumns = `id, title, description, goal_amount, raised_amount, owner_id, status, withdrawn, rejection_reason, categories, deadline, image_ref, created_at, updated_at`

// CampaignRepositoryPG implements domain.CampaignRepository backed by
// PostgreSQL. Every lifecycle guard is enforced inside a single conditional
// UPDATE, so concurrent requests cannot race past each other between a read
// and a write.
type CampaignRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewCampaignRepository creates a new campaign repo.
func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepositoryPG {
	return &CampaignRepositoryPG{pool: pool}
}

// Create inserts a new campaign row.
func (r *CampaignRepositoryPG) Create(ctx context.Context, c *domain.Campaign) error {
	row := r.pool.QueryRow(ctx, `
INSERT INTO campaigns (id, title, description, goal_amount, owner_id, status, categories, deadline, image_ref)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING created_at, updated_at;
`, c.ID, c.Title, c.Description, c.GoalAmount, c.OwnerID, c.Status, c.Categories, c.Deadline, c.ImageRef)
	return row.Scan(&c.CreatedAt, &c.UpdatedAt)
}

// GetByID fetches a campaign by UUID.
func (r *CampaignRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id)
	return scanCampaign(row)
}

// ListByStatuses returns campaigns in any of the provided statuses, newest
// first.
func (r *CampaignRepositoryPG) ListByStatuses(ctx context.Context, statuses []domain.CampaignStatus) ([]domain.Campaign, error) {
	tokens := make([]string, len(statuses))
	for i, s := range statuses {
		tokens[i] = string(s)
	}
	rows, err := r.pool.Query(ctx, `
SELECT `+campaignColumns+`
FROM campaigns
WHERE status = ANY($1)
ORDER BY created_at DESC;
`, tokens)
	if err != nil {
		return nil, err
	}
	return collectCampaigns(rows)
}

// ListByOwner returns every campaign the owner has, in any status.
func (r *CampaignRepositoryPG) ListByOwner(ctx context.Context, ownerID string) ([]domain.Campaign, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+campaignColumns+`
FROM campaigns
WHERE owner_id = $1
ORDER BY created_at DESC;
`, ownerID)
	if err != nil {
		return nil, err
	}
	return collectCampaigns(rows)
}

// UpdateDetails writes the editable fields and re-derives completion in the
// same statement. raised_amount and withdrawn are deliberately absent from
// the SET list; only the ledger and the withdrawal transition touch them.
func (r *CampaignRepositoryPG) UpdateDetails(ctx context.Context, c *domain.Campaign) (*domain.Campaign, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE campaigns
SET title = $2,
    description = $3,
    goal_amount = $4,
    categories = $5,
    deadline = $6,
    image_ref = $7,
    status = CASE WHEN status = 'active' AND raised_amount >= $4 THEN 'completed' ELSE status END,
    updated_at = now()
WHERE id = $1
RETURNING `+campaignColumns+`;
`, c.ID, c.Title, c.Description, c.GoalAmount, c.Categories, c.Deadline, c.ImageRef)
	return scanCampaign(row)
}

// CompleteIfFunded promotes an active, fully funded campaign to completed.
// Idempotent; a no-op for every other row state.
func (r *CampaignRepositoryPG) CompleteIfFunded(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `
UPDATE campaigns
SET status = 'completed', updated_at = now()
WHERE id = $1 AND status = 'active' AND raised_amount >= goal_amount;
`, id)
	return err
}

// SetStatusFromPending applies a moderation decision. The pending check lives
// in the WHERE clause; a row that moved on since the caller looked produces a
// TransitionError, not a double transition.
func (r *CampaignRepositoryPG) SetStatusFromPending(ctx context.Context, id string, to domain.CampaignStatus, reason *string) (*domain.Campaign, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE campaigns
SET status = $2, rejection_reason = $3, updated_at = now()
WHERE id = $1 AND status = 'pending'
RETURNING `+campaignColumns+`;
`, id, to, reason)
	c, err := scanCampaign(row)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, r.transitionFailure(ctx, id, "campaign is not pending")
	}
	return c, err
}

// Withdraw performs the one-shot payout reset. The guard (goal reached, not
// yet withdrawn) is evaluated at update time; of two concurrent attempts the
// second matches zero rows.
func (r *CampaignRepositoryPG) Withdraw(ctx context.Context, id string) (*domain.Campaign, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE campaigns
SET raised_amount = 0, withdrawn = TRUE, status = 'withdrawn', updated_at = now()
WHERE id = $1 AND withdrawn = FALSE AND raised_amount >= goal_amount
RETURNING `+campaignColumns+`;
`, id)
	c, err := scanCampaign(row)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, r.transitionFailure(ctx, id, "goal not reached or funds already withdrawn")
	}
	return c, err
}

// DeleteNonCompleted removes the campaign unless it is completed. Completed
// campaigns are a permanent record and stay.
func (r *CampaignRepositoryPG) DeleteNonCompleted(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM campaigns WHERE id = $1 AND status <> 'completed'`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.transitionFailure(ctx, id, "completed campaigns cannot be deleted")
	}
	return nil
}

// transitionFailure distinguishes a guard violation from a vanished row after
// a conditional update matched nothing.
func (r *CampaignRepositoryPG) transitionFailure(ctx context.Context, id, guard string) error {
	var status domain.CampaignStatus
	err := r.pool.QueryRow(ctx, `SELECT status FROM campaigns WHERE id = $1`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	return &domain.TransitionError{From: status, Guard: guard}
}

func scanCampaign(row pgx.Row) (*domain.Campaign, error) {
	var c domain.Campaign
	if err := row.Scan(
		&c.ID,
		&c.Title,
		&c.Description,
		&c.GoalAmount,
		&c.RaisedAmount,
		&c.OwnerID,
		&c.Status,
		&c.Withdrawn,
		&c.RejectionReason,
		&c.Categories,
		&c.Deadline,
		&c.ImageRef,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func collectCampaigns(rows pgx.Rows) ([]domain.Campaign, error) {
	defer rows.Close()
	var items []domain.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
