package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"thelife/database"
	"thelife/models"
)

// CatalogRepository implements the CatalogRepository interface. Single rows
// are served from the shared cache; values handed out are copies.
type CatalogRepository struct {
	q     queryable
	cache *CatalogCache
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *database.DB, cache *CatalogCache) *CatalogRepository {
	return &CatalogRepository{q: db.Pool, cache: cache}
}

// newCatalogRepositoryWithTx creates a new catalog repository with a transaction
func newCatalogRepositoryWithTx(tx queryable, cache *CatalogCache) *CatalogRepository {
	return &CatalogRepository{q: tx, cache: cache}
}

// GetCrime retrieves a crime definition by ID
func (r *CatalogRepository) GetCrime(ctx context.Context, id int64) (*models.CrimeDefinition, error) {
	if v, ok := r.cache.get("crime", id); ok {
		c := v.(models.CrimeDefinition)
		return &c, nil
	}

	query := `
		SELECT id, name, min_level_required, ticket_cost, base_reward, max_reward,
		       success_rate, jail_time_minutes, hp_loss_on_fail, xp_reward
		FROM crimes
		WHERE id = $1
	`

	crime, err := scanCrime(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get crime %d: %w", id, err)
	}

	r.cache.add("crime", id, *crime)
	return crime, nil
}

// ListCrimes returns all crimes ordered by level requirement
func (r *CatalogRepository) ListCrimes(ctx context.Context) ([]*models.CrimeDefinition, error) {
	query := `
		SELECT id, name, min_level_required, ticket_cost, base_reward, max_reward,
		       success_rate, jail_time_minutes, hp_loss_on_fail, xp_reward
		FROM crimes
		ORDER BY min_level_required, id
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list crimes: %w", err)
	}
	defer rows.Close()

	var crimes []*models.CrimeDefinition
	for rows.Next() {
		crime, err := scanCrime(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan crime: %w", err)
		}
		crimes = append(crimes, crime)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating crimes: %w", err)
	}

	return crimes, nil
}

// GetBusiness retrieves a business definition by ID
func (r *CatalogRepository) GetBusiness(ctx context.Context, id int64) (*models.BusinessDefinition, error) {
	if v, ok := r.cache.get("business", id); ok {
		b := v.(models.BusinessDefinition)
		return &b, nil
	}

	query := `
		SELECT id, name, min_level, purchase_price, production_cost, ticket_cost,
		       duration_minutes, reward_kind, reward_item_id, reward_quantity, cash_profit
		FROM businesses
		WHERE id = $1
	`

	var b models.BusinessDefinition
	err := r.q.QueryRow(ctx, query, id).Scan(
		&b.ID,
		&b.Name,
		&b.MinLevel,
		&b.PurchasePrice,
		&b.ProductionCost,
		&b.TicketCost,
		&b.DurationMinutes,
		&b.RewardKind,
		&b.RewardItemID,
		&b.RewardQuantity,
		&b.CashProfit,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get business %d: %w", id, err)
	}

	r.cache.add("business", id, b)
	return &b, nil
}

// GetWorker retrieves a worker definition by ID
func (r *CatalogRepository) GetWorker(ctx context.Context, id int64) (*models.WorkerDefinition, error) {
	if v, ok := r.cache.get("worker", id); ok {
		w := v.(models.WorkerDefinition)
		return &w, nil
	}

	query := `SELECT id, name, hire_cost, income_per_hour, min_level FROM workers WHERE id = $1`

	var w models.WorkerDefinition
	err := r.q.QueryRow(ctx, query, id).Scan(&w.ID, &w.Name, &w.HireCost, &w.IncomePerHour, &w.MinLevel)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get worker %d: %w", id, err)
	}

	r.cache.add("worker", id, w)
	return &w, nil
}

// GetStoreItem retrieves a store item by ID
func (r *CatalogRepository) GetStoreItem(ctx context.Context, id int64) (*models.StoreItem, error) {
	if v, ok := r.cache.get("store_item", id); ok {
		s := v.(models.StoreItem)
		return &s, nil
	}

	query := `SELECT id, name, price, hp_restore FROM store_items WHERE id = $1`

	var s models.StoreItem
	err := r.q.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.Price, &s.HPRestore)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get store item %d: %w", id, err)
	}

	r.cache.add("store_item", id, s)
	return &s, nil
}

// GetItem retrieves an item by ID
func (r *CatalogRepository) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	if v, ok := r.cache.get("item", id); ok {
		it := v.(models.Item)
		return &it, nil
	}

	query := `SELECT id, name, kind FROM items WHERE id = $1`

	var it models.Item
	err := r.q.QueryRow(ctx, query, id).Scan(&it.ID, &it.Name, &it.Kind)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item %d: %w", id, err)
	}

	r.cache.add("item", id, it)
	return &it, nil
}

func scanCrime(row pgx.Row) (*models.CrimeDefinition, error) {
	var c models.CrimeDefinition
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.MinLevelRequired,
		&c.TicketCost,
		&c.BaseReward,
		&c.MaxReward,
		&c.SuccessRate,
		&c.JailTimeMinutes,
		&c.HPLossOnFail,
		&c.XPReward,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
