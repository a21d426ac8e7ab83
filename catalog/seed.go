package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"

	"thelife/database"
	"thelife/models"
)

const defaultProductionTicketCost = 5

// Seed upserts the catalog into the database by name. Boats are scheduled
// relative to now, and a boat is skipped while one of the same name is still
// docked.
func Seed(ctx context.Context, db *database.DB, c *Catalog, now time.Time) error {
	return db.WithTransaction(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		itemIDs, err := seedItems(ctx, tx, c.Items)
		if err != nil {
			return err
		}

		for _, cr := range c.Crimes {
			_, err := tx.Exec(ctx, `
				INSERT INTO crimes (name, min_level_required, ticket_cost, base_reward, max_reward,
				                    success_rate, jail_time_minutes, hp_loss_on_fail, xp_reward)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				ON CONFLICT (name) DO UPDATE SET
					min_level_required = EXCLUDED.min_level_required,
					ticket_cost = EXCLUDED.ticket_cost,
					base_reward = EXCLUDED.base_reward,
					max_reward = EXCLUDED.max_reward,
					success_rate = EXCLUDED.success_rate,
					jail_time_minutes = EXCLUDED.jail_time_minutes,
					hp_loss_on_fail = EXCLUDED.hp_loss_on_fail,
					xp_reward = EXCLUDED.xp_reward`,
				cr.Name, max(cr.MinLevel, 1), cr.TicketCost, cr.BaseReward, cr.MaxReward,
				cr.SuccessRate, cr.JailTimeMinutes, cr.HPLossOnFail, cr.XPReward)
			if err != nil {
				return fmt.Errorf("failed to seed crime %q: %w", cr.Name, err)
			}
		}

		for _, b := range c.Businesses {
			kind := models.RewardKindCash
			var itemID *int64
			if b.RewardItem != "" {
				kind = models.RewardKindItem
				id := itemIDs[b.RewardItem]
				itemID = &id
			}
			ticketCost := b.TicketCost
			if ticketCost == 0 {
				ticketCost = defaultProductionTicketCost
			}

			_, err := tx.Exec(ctx, `
				INSERT INTO businesses (name, min_level, purchase_price, production_cost, ticket_cost,
				                        duration_minutes, reward_kind, reward_item_id, reward_quantity, cash_profit)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
				ON CONFLICT (name) DO UPDATE SET
					min_level = EXCLUDED.min_level,
					purchase_price = EXCLUDED.purchase_price,
					production_cost = EXCLUDED.production_cost,
					ticket_cost = EXCLUDED.ticket_cost,
					duration_minutes = EXCLUDED.duration_minutes,
					reward_kind = EXCLUDED.reward_kind,
					reward_item_id = EXCLUDED.reward_item_id,
					reward_quantity = EXCLUDED.reward_quantity,
					cash_profit = EXCLUDED.cash_profit`,
				b.Name, max(b.MinLevel, 1), b.PurchasePrice, b.ProductionCost, ticketCost,
				b.DurationMinutes, kind, itemID, b.RewardQuantity, b.CashProfit)
			if err != nil {
				return fmt.Errorf("failed to seed business %q: %w", b.Name, err)
			}
		}

		for _, w := range c.Workers {
			_, err := tx.Exec(ctx, `
				INSERT INTO workers (name, hire_cost, income_per_hour, min_level)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (name) DO UPDATE SET
					hire_cost = EXCLUDED.hire_cost,
					income_per_hour = EXCLUDED.income_per_hour,
					min_level = EXCLUDED.min_level`,
				w.Name, w.HireCost, w.IncomePerHour, max(w.MinLevel, 1))
			if err != nil {
				return fmt.Errorf("failed to seed worker %q: %w", w.Name, err)
			}
		}

		for _, s := range c.StoreItems {
			_, err := tx.Exec(ctx, `
				INSERT INTO store_items (name, price, hp_restore)
				VALUES ($1, $2, $3)
				ON CONFLICT (name) DO UPDATE SET
					price = EXCLUDED.price,
					hp_restore = EXCLUDED.hp_restore`,
				s.Name, s.Price, s.HPRestore)
			if err != nil {
				return fmt.Errorf("failed to seed store item %q: %w", s.Name, err)
			}
		}

		scheduled := 0
		for _, boat := range c.Boats {
			departure := now.Add(time.Duration(boat.DepartsInMinutes) * time.Minute)
			result, err := tx.Exec(ctx, `
				INSERT INTO dock_boats (name, item_id, max_shipments, departure_at)
				SELECT $1, $2, $3, $4
				WHERE NOT EXISTS (
					SELECT 1 FROM dock_boats WHERE name = $1 AND departure_at > $5
				)`,
				boat.Name, itemIDs[boat.Item], boat.MaxShipments, departure, now)
			if err != nil {
				return fmt.Errorf("failed to schedule boat %q: %w", boat.Name, err)
			}
			scheduled += int(result.RowsAffected())
		}

		log.WithFields(log.Fields{
			"items":       len(c.Items),
			"crimes":      len(c.Crimes),
			"businesses":  len(c.Businesses),
			"workers":     len(c.Workers),
			"store_items": len(c.StoreItems),
			"boats":       scheduled,
		}).Info("Seeded catalog")

		return nil
	})
}

func seedItems(ctx context.Context, tx pgx.Tx, items []Item) (map[string]int64, error) {
	ids := make(map[string]int64, len(items))
	for _, it := range items {
		var id int64
		err := tx.QueryRow(ctx, `
			INSERT INTO items (name, kind)
			VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET kind = EXCLUDED.kind
			RETURNING id`,
			it.Name, it.Kind).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("failed to seed item %q: %w", it.Name, err)
		}
		ids[it.Name] = id
	}
	return ids, nil
}
