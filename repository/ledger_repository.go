package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"thelife/database"
	"thelife/models"
)

// LedgerRepository implements the LedgerRepository interface
type LedgerRepository struct {
	q queryable
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *database.DB) *LedgerRepository {
	return &LedgerRepository{q: db.Pool}
}

// newLedgerRepositoryWithTx creates a new ledger repository with a transaction
func newLedgerRepositoryWithTx(tx queryable) *LedgerRepository {
	return &LedgerRepository{q: tx}
}

// Record creates a new ledger entry
func (r *LedgerRepository) Record(ctx context.Context, history *models.LedgerHistory) error {
	metadataJSON, err := json.Marshal(history.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger metadata: %w", err)
	}

	query := `
		INSERT INTO ledger_history
		(player_id, cash_before, cash_after, bank_before, bank_after, change_type, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err = r.q.QueryRow(ctx, query,
		history.PlayerID,
		history.CashBefore,
		history.CashAfter,
		history.BankBefore,
		history.BankAfter,
		history.ChangeType,
		metadataJSON,
		history.CreatedAt,
	).Scan(&history.ID)
	if err != nil {
		return fmt.Errorf("failed to record ledger entry for player %s: %w", history.PlayerID, err)
	}

	return nil
}

// GetByPlayer returns the player's most recent ledger entries
func (r *LedgerRepository) GetByPlayer(ctx context.Context, playerID uuid.UUID, limit int) ([]*models.LedgerHistory, error) {
	query := `
		SELECT id, player_id, cash_before, cash_after, bank_before, bank_after,
		       change_type, metadata, created_at
		FROM ledger_history
		WHERE player_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger history for player %s: %w", playerID, err)
	}
	defer rows.Close()

	var histories []*models.LedgerHistory
	for rows.Next() {
		var h models.LedgerHistory
		var metadataJSON []byte

		err := rows.Scan(
			&h.ID,
			&h.PlayerID,
			&h.CashBefore,
			&h.CashAfter,
			&h.BankBefore,
			&h.BankAfter,
			&h.ChangeType,
			&metadataJSON,
			&h.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}

		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &h.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal ledger metadata: %w", err)
			}
		}

		histories = append(histories, &h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger history: %w", err)
	}

	return histories, nil
}
