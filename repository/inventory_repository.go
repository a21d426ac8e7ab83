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

// InventoryRepository implements the InventoryRepository interface
type InventoryRepository struct {
	q queryable
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db *database.DB) *InventoryRepository {
	return &InventoryRepository{q: db.Pool}
}

// newInventoryRepositoryWithTx creates a new inventory repository with a transaction
func newInventoryRepositoryWithTx(tx queryable) *InventoryRepository {
	return &InventoryRepository{q: tx}
}

// Add merges quantity into the player's stack of the item
func (r *InventoryRepository) Add(ctx context.Context, playerID uuid.UUID, itemID, quantity int64) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", game.ErrInvalidInput)
	}

	query := `
		INSERT INTO inventory_stacks (player_id, item_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (player_id, item_id)
		DO UPDATE SET quantity = inventory_stacks.quantity + EXCLUDED.quantity
	`

	_, err := r.q.Exec(ctx, query, playerID, itemID, quantity)
	if err != nil {
		return fmt.Errorf("failed to add %d of item %d for player %s: %w", quantity, itemID, playerID, err)
	}

	return nil
}

// Remove takes quantity from the stack, deleting it when it empties
func (r *InventoryRepository) Remove(ctx context.Context, playerID uuid.UUID, itemID, quantity int64) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", game.ErrInvalidInput)
	}

	result, err := r.q.Exec(ctx,
		`DELETE FROM inventory_stacks WHERE player_id = $1 AND item_id = $2 AND quantity = $3`,
		playerID, itemID, quantity)
	if err != nil {
		return fmt.Errorf("failed to remove %d of item %d for player %s: %w", quantity, itemID, playerID, err)
	}
	if result.RowsAffected() == 1 {
		return nil
	}

	query := `
		UPDATE inventory_stacks
		SET quantity = quantity - $3
		WHERE player_id = $1 AND item_id = $2 AND quantity > $3
	`

	result, err = r.q.Exec(ctx, query, playerID, itemID, quantity)
	if err != nil {
		return fmt.Errorf("failed to remove %d of item %d for player %s: %w", quantity, itemID, playerID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: fewer than %d of item %d held", game.ErrInsufficientResource, quantity, itemID)
	}

	return nil
}

// FindByKind returns the first stack of an item of the given kind
func (r *InventoryRepository) FindByKind(ctx context.Context, playerID uuid.UUID, kind models.ItemKind) (*models.InventoryStack, error) {
	query := `
		SELECT s.player_id, s.item_id, i.name, i.kind, s.quantity
		FROM inventory_stacks s
		JOIN items i ON i.id = s.item_id
		WHERE s.player_id = $1 AND i.kind = $2
		ORDER BY s.item_id
		LIMIT 1
	`

	var stack models.InventoryStack
	err := r.q.QueryRow(ctx, query, playerID, kind).Scan(
		&stack.PlayerID,
		&stack.ItemID,
		&stack.Name,
		&stack.Kind,
		&stack.Quantity,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find %s item for player %s: %w", kind, playerID, err)
	}

	return &stack, nil
}

// List returns all of the player's stacks
func (r *InventoryRepository) List(ctx context.Context, playerID uuid.UUID) ([]*models.InventoryStack, error) {
	query := `
		SELECT s.player_id, s.item_id, i.name, i.kind, s.quantity
		FROM inventory_stacks s
		JOIN items i ON i.id = s.item_id
		WHERE s.player_id = $1
		ORDER BY s.item_id
	`

	rows, err := r.q.Query(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory for player %s: %w", playerID, err)
	}
	defer rows.Close()

	var stacks []*models.InventoryStack
	for rows.Next() {
		var stack models.InventoryStack
		if err := rows.Scan(&stack.PlayerID, &stack.ItemID, &stack.Name, &stack.Kind, &stack.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan inventory stack: %w", err)
		}
		stacks = append(stacks, &stack)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inventory: %w", err)
	}

	return stacks, nil
}
