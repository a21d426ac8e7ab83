package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"thelife/database"
	"thelife/models"
)

// BusinessRepository implements the BusinessRepository interface
type BusinessRepository struct {
	q queryable
}

// NewBusinessRepository creates a new business repository
func NewBusinessRepository(db *database.DB) *BusinessRepository {
	return &BusinessRepository{q: db.Pool}
}

// newBusinessRepositoryWithTx creates a new business repository with a transaction
func newBusinessRepositoryWithTx(tx queryable) *BusinessRepository {
	return &BusinessRepository{q: tx}
}

// GetOwned retrieves the player's ownership of a business
func (r *BusinessRepository) GetOwned(ctx context.Context, playerID uuid.UUID, businessID int64) (*models.OwnedBusiness, error) {
	query := `
		SELECT player_id, business_id, upgrade_level, purchased_at
		FROM owned_businesses
		WHERE player_id = $1 AND business_id = $2
	`

	var o models.OwnedBusiness
	err := r.q.QueryRow(ctx, query, playerID, businessID).Scan(&o.PlayerID, &o.BusinessID, &o.UpgradeLevel, &o.PurchasedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get business %d of player %s: %w", businessID, playerID, err)
	}

	return &o, nil
}

// ListOwned returns every business the player owns
func (r *BusinessRepository) ListOwned(ctx context.Context, playerID uuid.UUID) ([]*models.OwnedBusiness, error) {
	query := `
		SELECT player_id, business_id, upgrade_level, purchased_at
		FROM owned_businesses
		WHERE player_id = $1
		ORDER BY purchased_at, business_id
	`

	rows, err := r.q.Query(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list businesses of player %s: %w", playerID, err)
	}
	defer rows.Close()

	var owned []*models.OwnedBusiness
	for rows.Next() {
		var o models.OwnedBusiness
		if err := rows.Scan(&o.PlayerID, &o.BusinessID, &o.UpgradeLevel, &o.PurchasedAt); err != nil {
			return nil, fmt.Errorf("failed to scan owned business: %w", err)
		}
		owned = append(owned, &o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating owned businesses: %w", err)
	}

	return owned, nil
}

// CountOwned returns how many businesses the player owns
func (r *BusinessRepository) CountOwned(ctx context.Context, playerID uuid.UUID) (int, error) {
	var count int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM owned_businesses WHERE player_id = $1`, playerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count businesses of player %s: %w", playerID, err)
	}
	return count, nil
}

// CreateOwned records a purchase
func (r *BusinessRepository) CreateOwned(ctx context.Context, owned *models.OwnedBusiness) error {
	query := `
		INSERT INTO owned_businesses (player_id, business_id, upgrade_level, purchased_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.q.Exec(ctx, query, owned.PlayerID, owned.BusinessID, owned.UpgradeLevel, owned.PurchasedAt)
	if err != nil {
		return fmt.Errorf("failed to create business %d for player %s: %w", owned.BusinessID, owned.PlayerID, err)
	}

	return nil
}

// UpdateLevel sets the upgrade level of an owned business
func (r *BusinessRepository) UpdateLevel(ctx context.Context, playerID uuid.UUID, businessID int64, level int) error {
	query := `
		UPDATE owned_businesses
		SET upgrade_level = $3
		WHERE player_id = $1 AND business_id = $2
	`

	result, err := r.q.Exec(ctx, query, playerID, businessID, level)
	if err != nil {
		return fmt.Errorf("failed to upgrade business %d of player %s: %w", businessID, playerID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("business %d of player %s not found", businessID, playerID)
	}

	return nil
}

// DeleteOwned removes the ownership; the production job goes with it
func (r *BusinessRepository) DeleteOwned(ctx context.Context, playerID uuid.UUID, businessID int64) error {
	result, err := r.q.Exec(ctx,
		`DELETE FROM owned_businesses WHERE player_id = $1 AND business_id = $2`,
		playerID, businessID)
	if err != nil {
		return fmt.Errorf("failed to delete business %d of player %s: %w", businessID, playerID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("business %d of player %s not found", businessID, playerID)
	}

	return nil
}

// GetJob retrieves the production job of an owned business
func (r *BusinessRepository) GetJob(ctx context.Context, playerID uuid.UUID, businessID int64) (*models.ProductionJob, error) {
	query := `
		SELECT player_id, business_id, started_at, completed_at,
		       reward_kind, reward_item_id, reward_quantity, cash_profit, collected
		FROM production_jobs
		WHERE player_id = $1 AND business_id = $2
	`

	var job models.ProductionJob
	var kind models.RewardKind
	var itemID *int64
	var quantity, cash int64

	err := r.q.QueryRow(ctx, query, playerID, businessID).Scan(
		&job.PlayerID,
		&job.BusinessID,
		&job.StartedAt,
		&job.CompletedAt,
		&kind,
		&itemID,
		&quantity,
		&cash,
		&job.Collected,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get production job %d of player %s: %w", businessID, playerID, err)
	}

	if kind == models.RewardKindItem && itemID != nil {
		job.Reward = models.ItemReward(*itemID, quantity)
	} else {
		job.Reward = models.CashReward(cash)
	}

	return &job, nil
}

// SaveJob creates the job or replaces a collected one
func (r *BusinessRepository) SaveJob(ctx context.Context, job *models.ProductionJob) error {
	var itemID *int64
	var quantity, cash int64
	switch job.Reward.Kind {
	case models.RewardKindItem:
		id := job.Reward.ItemID
		itemID = &id
		quantity = job.Reward.Quantity
	default:
		cash = job.Reward.Amount
	}

	query := `
		INSERT INTO production_jobs
		(player_id, business_id, started_at, completed_at, reward_kind, reward_item_id, reward_quantity, cash_profit, collected)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE)
		ON CONFLICT (player_id, business_id) DO UPDATE SET
			started_at = EXCLUDED.started_at,
			completed_at = EXCLUDED.completed_at,
			reward_kind = EXCLUDED.reward_kind,
			reward_item_id = EXCLUDED.reward_item_id,
			reward_quantity = EXCLUDED.reward_quantity,
			cash_profit = EXCLUDED.cash_profit,
			collected = FALSE
		WHERE production_jobs.collected
	`

	result, err := r.q.Exec(ctx, query,
		job.PlayerID,
		job.BusinessID,
		job.StartedAt,
		job.CompletedAt,
		job.Reward.Kind,
		itemID,
		quantity,
		cash,
	)
	if err != nil {
		return fmt.Errorf("failed to save production job %d of player %s: %w", job.BusinessID, job.PlayerID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("production job %d of player %s is still pending", job.BusinessID, job.PlayerID)
	}

	return nil
}

// MarkCollected flags a job as collected
func (r *BusinessRepository) MarkCollected(ctx context.Context, playerID uuid.UUID, businessID int64) error {
	query := `
		UPDATE production_jobs
		SET collected = TRUE
		WHERE player_id = $1 AND business_id = $2 AND NOT collected
	`

	result, err := r.q.Exec(ctx, query, playerID, businessID)
	if err != nil {
		return fmt.Errorf("failed to collect production job %d of player %s: %w", businessID, playerID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("production job %d of player %s not pending", businessID, playerID)
	}

	return nil
}
