package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"thelife/database"
	"thelife/game"
	"thelife/models"
)

// DockRepository implements the DockRepository interface
type DockRepository struct {
	q queryable
}

// NewDockRepository creates a new dock repository
func NewDockRepository(db *database.DB) *DockRepository {
	return &DockRepository{q: db.Pool}
}

// newDockRepositoryWithTx creates a new dock repository with a transaction
func newDockRepositoryWithTx(tx queryable) *DockRepository {
	return &DockRepository{q: tx}
}

// GetBoat retrieves a boat by ID
func (r *DockRepository) GetBoat(ctx context.Context, id int64) (*models.DockBoat, error) {
	query := `
		SELECT id, name, item_id, max_shipments, current_shipments, departure_at
		FROM dock_boats
		WHERE id = $1
	`

	var b models.DockBoat
	err := r.q.QueryRow(ctx, query, id).Scan(&b.ID, &b.Name, &b.ItemID, &b.MaxShipments, &b.CurrentShipments, &b.DepartureAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get boat %d: %w", id, err)
	}

	return &b, nil
}

// ListOpen returns boats that have not yet departed, soonest first
func (r *DockRepository) ListOpen(ctx context.Context, now time.Time) ([]*models.DockBoat, error) {
	query := `
		SELECT id, name, item_id, max_shipments, current_shipments, departure_at
		FROM dock_boats
		WHERE departure_at > $1
		ORDER BY departure_at, id
	`

	rows, err := r.q.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list open boats: %w", err)
	}
	defer rows.Close()

	var boats []*models.DockBoat
	for rows.Next() {
		var b models.DockBoat
		if err := rows.Scan(&b.ID, &b.Name, &b.ItemID, &b.MaxShipments, &b.CurrentShipments, &b.DepartureAt); err != nil {
			return nil, fmt.Errorf("failed to scan boat: %w", err)
		}
		boats = append(boats, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating boats: %w", err)
	}

	return boats, nil
}

// ClaimSlot takes one shipment slot on the boat
func (r *DockRepository) ClaimSlot(ctx context.Context, boatID int64) error {
	query := `
		UPDATE dock_boats
		SET current_shipments = current_shipments + 1
		WHERE id = $1 AND current_shipments < max_shipments
	`

	result, err := r.q.Exec(ctx, query, boatID)
	if err != nil {
		return fmt.Errorf("failed to claim slot on boat %d: %w", boatID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: boat %d is full", game.ErrCapacityExceeded, boatID)
	}

	return nil
}

// RecordShipment logs a shipment against its boat
func (r *DockRepository) RecordShipment(ctx context.Context, s *models.DockShipment) error {
	query := `
		INSERT INTO dock_shipments (boat_id, player_id, item_id, quantity, payout, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.q.QueryRow(ctx, query, s.BoatID, s.PlayerID, s.ItemID, s.Quantity, s.Payout, s.CreatedAt).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("failed to record shipment on boat %d: %w", s.BoatID, err)
	}

	return nil
}
