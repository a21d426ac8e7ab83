package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"thelife/database"
	"thelife/models"
)

// CrimeHistoryRepository implements the CrimeHistoryRepository interface
type CrimeHistoryRepository struct {
	q queryable
}

// NewCrimeHistoryRepository creates a new crime history repository
func NewCrimeHistoryRepository(db *database.DB) *CrimeHistoryRepository {
	return &CrimeHistoryRepository{q: db.Pool}
}

// newCrimeHistoryRepositoryWithTx creates a new crime history repository with a transaction
func newCrimeHistoryRepositoryWithTx(tx queryable) *CrimeHistoryRepository {
	return &CrimeHistoryRepository{q: tx}
}

// Record appends one crime attempt
func (r *CrimeHistoryRepository) Record(ctx context.Context, history *models.CrimeHistory) error {
	query := `
		INSERT INTO crime_history (player_id, crime_id, success, reward, xp_gained, jail_minutes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.q.QueryRow(ctx, query,
		history.PlayerID,
		history.CrimeID,
		history.Success,
		history.Reward,
		history.XPGained,
		history.JailMinutes,
		history.CreatedAt,
	).Scan(&history.ID)
	if err != nil {
		return fmt.Errorf("failed to record crime attempt for player %s: %w", history.PlayerID, err)
	}

	return nil
}

// GetByPlayer returns the player's most recent attempts
func (r *CrimeHistoryRepository) GetByPlayer(ctx context.Context, playerID uuid.UUID, limit int) ([]*models.CrimeHistory, error) {
	query := `
		SELECT id, player_id, crime_id, success, reward, xp_gained, jail_minutes, created_at
		FROM crime_history
		WHERE player_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get crime history for player %s: %w", playerID, err)
	}
	defer rows.Close()

	var histories []*models.CrimeHistory
	for rows.Next() {
		var h models.CrimeHistory
		err := rows.Scan(&h.ID, &h.PlayerID, &h.CrimeID, &h.Success, &h.Reward, &h.XPGained, &h.JailMinutes, &h.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan crime history: %w", err)
		}
		histories = append(histories, &h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating crime history: %w", err)
	}

	return histories, nil
}
