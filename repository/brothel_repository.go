package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"thelife/database"
	"thelife/models"
)

// BrothelRepository implements the BrothelRepository interface
type BrothelRepository struct {
	q queryable
}

// NewBrothelRepository creates a new brothel repository
func NewBrothelRepository(db *database.DB) *BrothelRepository {
	return &BrothelRepository{q: db.Pool}
}

// newBrothelRepositoryWithTx creates a new brothel repository with a transaction
func newBrothelRepositoryWithTx(tx queryable) *BrothelRepository {
	return &BrothelRepository{q: tx}
}

// Get retrieves the player's brothel
func (r *BrothelRepository) Get(ctx context.Context, playerID uuid.UUID) (*models.BrothelState, error) {
	query := `
		SELECT player_id, worker_slots, additional_slots, workers, income_per_hour,
		       last_collection, total_earned, slots_upgrade_cost, created_at
		FROM brothels
		WHERE player_id = $1
	`

	var b models.BrothelState
	err := r.q.QueryRow(ctx, query, playerID).Scan(
		&b.PlayerID,
		&b.WorkerSlots,
		&b.AdditionalSlots,
		&b.Workers,
		&b.IncomePerHour,
		&b.LastCollection,
		&b.TotalEarned,
		&b.SlotsUpgradeCost,
		&b.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get brothel of player %s: %w", playerID, err)
	}

	return &b, nil
}

// Create opens a brothel
func (r *BrothelRepository) Create(ctx context.Context, b *models.BrothelState) error {
	query := `
		INSERT INTO brothels
		(player_id, worker_slots, additional_slots, workers, income_per_hour,
		 last_collection, total_earned, slots_upgrade_cost, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.q.Exec(ctx, query,
		b.PlayerID,
		b.WorkerSlots,
		b.AdditionalSlots,
		b.Workers,
		b.IncomePerHour,
		b.LastCollection,
		b.TotalEarned,
		b.SlotsUpgradeCost,
		b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create brothel for player %s: %w", b.PlayerID, err)
	}

	return nil
}

// Update writes back the mutable brothel fields
func (r *BrothelRepository) Update(ctx context.Context, b *models.BrothelState) error {
	query := `
		UPDATE brothels
		SET additional_slots = $2, workers = $3, income_per_hour = $4,
		    last_collection = $5, total_earned = $6, slots_upgrade_cost = $7
		WHERE player_id = $1
	`

	result, err := r.q.Exec(ctx, query,
		b.PlayerID,
		b.AdditionalSlots,
		b.Workers,
		b.IncomePerHour,
		b.LastCollection,
		b.TotalEarned,
		b.SlotsUpgradeCost,
	)
	if err != nil {
		return fmt.Errorf("failed to update brothel of player %s: %w", b.PlayerID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("brothel of player %s not found", b.PlayerID)
	}

	return nil
}

// AddHired puts a worker on the roster
func (r *BrothelRepository) AddHired(ctx context.Context, hired *models.HiredWorker) error {
	query := `
		INSERT INTO hired_workers (player_id, worker_id, hired_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.q.QueryRow(ctx, query, hired.PlayerID, hired.WorkerID, hired.HiredAt).Scan(&hired.ID)
	if err != nil {
		return fmt.Errorf("failed to hire worker %d for player %s: %w", hired.WorkerID, hired.PlayerID, err)
	}

	return nil
}

// GetHired retrieves a roster entry by ID
func (r *BrothelRepository) GetHired(ctx context.Context, id int64) (*models.HiredWorker, error) {
	query := `SELECT id, player_id, worker_id, hired_at FROM hired_workers WHERE id = $1`

	var h models.HiredWorker
	err := r.q.QueryRow(ctx, query, id).Scan(&h.ID, &h.PlayerID, &h.WorkerID, &h.HiredAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get hired worker %d: %w", id, err)
	}

	return &h, nil
}

// DeleteHired removes a roster entry
func (r *BrothelRepository) DeleteHired(ctx context.Context, id int64) error {
	result, err := r.q.Exec(ctx, `DELETE FROM hired_workers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete hired worker %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("hired worker %d not found", id)
	}

	return nil
}

// ListHired returns the player's roster in hiring order
func (r *BrothelRepository) ListHired(ctx context.Context, playerID uuid.UUID) ([]*models.HiredWorker, error) {
	query := `
		SELECT id, player_id, worker_id, hired_at
		FROM hired_workers
		WHERE player_id = $1
		ORDER BY hired_at, id
	`

	rows, err := r.q.Query(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workers of player %s: %w", playerID, err)
	}
	defer rows.Close()

	var hired []*models.HiredWorker
	for rows.Next() {
		var h models.HiredWorker
		if err := rows.Scan(&h.ID, &h.PlayerID, &h.WorkerID, &h.HiredAt); err != nil {
			return nil, fmt.Errorf("failed to scan hired worker: %w", err)
		}
		hired = append(hired, &h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating hired workers: %w", err)
	}

	return hired, nil
}
