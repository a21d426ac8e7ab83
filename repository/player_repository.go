package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"thelife/database"
	"thelife/game"
	"thelife/models"
)

const playerColumns = `
	id, level, xp, hp, max_hp, tickets, max_tickets, cash, bank_balance,
	jail_until, hospital_until, consecutive_logins, last_daily_bonus, last_ticket_refill,
	pvp_wins, pvp_losses, total_robberies, successful_robberies,
	strength, defense, intelligence, version, created_at, updated_at`

// PlayerRepository implements the PlayerRepository interface
type PlayerRepository struct {
	q queryable
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db *database.DB) *PlayerRepository {
	return &PlayerRepository{q: db.Pool}
}

// newPlayerRepositoryWithTx creates a new player repository with a transaction
func newPlayerRepositoryWithTx(tx queryable) *PlayerRepository {
	return &PlayerRepository{q: tx}
}

// Provision inserts the starting record unless the player already exists
func (r *PlayerRepository) Provision(ctx context.Context, player *models.Player) (bool, error) {
	query := `
		INSERT INTO players (
			id, level, xp, hp, max_hp, tickets, max_tickets, cash, bank_balance,
			consecutive_logins, last_daily_bonus, last_ticket_refill,
			strength, defense, intelligence, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (id) DO NOTHING
	`

	result, err := r.q.Exec(ctx, query,
		player.ID,
		player.Level,
		player.XP,
		player.HP,
		player.MaxHP,
		player.Tickets,
		player.MaxTickets,
		player.Cash,
		player.BankBalance,
		player.ConsecutiveLogins,
		player.LastDailyBonus,
		player.LastTicketRefill,
		player.Strength,
		player.Defense,
		player.Intelligence,
		player.CreatedAt,
		player.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to provision player %s: %w", player.ID, err)
	}

	return result.RowsAffected() == 1, nil
}

// GetByID retrieves a player without locking it
func (r *PlayerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`

	player, err := scanPlayer(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player %s: %w", id, err)
	}

	return player, nil
}

// LockForUpdate loads and row-locks the players in ascending id order
func (r *PlayerRepository) LockForUpdate(ctx context.Context, ids ...uuid.UUID) (map[uuid.UUID]*models.Player, error) {
	query := `SELECT ` + playerColumns + `
		FROM players
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE`

	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to lock players: %w", err)
	}
	defer rows.Close()

	players := make(map[uuid.UUID]*models.Player, len(ids))
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players[player.ID] = player
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating players: %w", err)
	}

	return players, nil
}

// Save writes the player back if its version still matches
func (r *PlayerRepository) Save(ctx context.Context, player *models.Player) error {
	query := `
		UPDATE players
		SET level = $3, xp = $4, hp = $5, max_hp = $6, tickets = $7, max_tickets = $8,
		    cash = $9, bank_balance = $10, jail_until = $11, hospital_until = $12,
		    consecutive_logins = $13, last_daily_bonus = $14, last_ticket_refill = $15,
		    pvp_wins = $16, pvp_losses = $17, total_robberies = $18, successful_robberies = $19,
		    strength = $20, defense = $21, intelligence = $22,
		    version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
		RETURNING version, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		player.ID,
		player.Version,
		player.Level,
		player.XP,
		player.HP,
		player.MaxHP,
		player.Tickets,
		player.MaxTickets,
		player.Cash,
		player.BankBalance,
		player.JailUntil,
		player.HospitalUntil,
		player.ConsecutiveLogins,
		player.LastDailyBonus,
		player.LastTicketRefill,
		player.PvPWins,
		player.PvPLosses,
		player.TotalRobberies,
		player.SuccessfulRobberies,
		player.Strength,
		player.Defense,
		player.Intelligence,
	).Scan(&player.Version, &player.UpdatedAt)

	if err == pgx.ErrNoRows {
		return fmt.Errorf("%w: player %s changed since version %d", game.ErrConcurrentModification, player.ID, player.Version)
	}
	if err != nil {
		return fmt.Errorf("failed to save player %s: %w", player.ID, err)
	}

	return nil
}

func scanPlayer(row pgx.Row) (*models.Player, error) {
	var p models.Player
	err := row.Scan(
		&p.ID,
		&p.Level,
		&p.XP,
		&p.HP,
		&p.MaxHP,
		&p.Tickets,
		&p.MaxTickets,
		&p.Cash,
		&p.BankBalance,
		&p.JailUntil,
		&p.HospitalUntil,
		&p.ConsecutiveLogins,
		&p.LastDailyBonus,
		&p.LastTicketRefill,
		&p.PvPWins,
		&p.PvPLosses,
		&p.TotalRobberies,
		&p.SuccessfulRobberies,
		&p.Strength,
		&p.Defense,
		&p.Intelligence,
		&p.Version,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
