package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"thelife/database"
	"thelife/models"
)

// CombatLogRepository implements the CombatLogRepository interface
type CombatLogRepository struct {
	q queryable
}

// NewCombatLogRepository creates a new combat log repository
func NewCombatLogRepository(db *database.DB) *CombatLogRepository {
	return &CombatLogRepository{q: db.Pool}
}

// newCombatLogRepositoryWithTx creates a new combat log repository with a transaction
func newCombatLogRepositoryWithTx(tx queryable) *CombatLogRepository {
	return &CombatLogRepository{q: tx}
}

// Record appends an attack to the log
func (r *CombatLogRepository) Record(ctx context.Context, entry *models.CombatLogEntry) error {
	query := `
		INSERT INTO combat_log
		(attacker_id, defender_id, winner_id, cash_stolen, attacker_power, defender_power, win_chance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.q.QueryRow(ctx, query,
		entry.AttackerID,
		entry.DefenderID,
		entry.WinnerID,
		entry.CashStolen,
		entry.AttackerPower,
		entry.DefenderPower,
		entry.WinChance,
		entry.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to record attack by %s on %s: %w", entry.AttackerID, entry.DefenderID, err)
	}

	return nil
}

// GetByPlayer returns recent attacks the player took part in on either side
func (r *CombatLogRepository) GetByPlayer(ctx context.Context, playerID uuid.UUID, limit int) ([]*models.CombatLogEntry, error) {
	query := `
		SELECT id, attacker_id, defender_id, winner_id, cash_stolen,
		       attacker_power, defender_power, win_chance, created_at
		FROM combat_log
		WHERE attacker_id = $1 OR defender_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get combat log for player %s: %w", playerID, err)
	}
	defer rows.Close()

	var entries []*models.CombatLogEntry
	for rows.Next() {
		var e models.CombatLogEntry
		err := rows.Scan(
			&e.ID,
			&e.AttackerID,
			&e.DefenderID,
			&e.WinnerID,
			&e.CashStolen,
			&e.AttackerPower,
			&e.DefenderPower,
			&e.WinChance,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan combat log entry: %w", err)
		}
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating combat log: %w", err)
	}

	return entries, nil
}
