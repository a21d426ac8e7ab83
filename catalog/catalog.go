package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"

	"thelife/models"
)

//go:embed default.toml
var defaultCatalog []byte

// Catalog is the operator-owned content the economy runs on. Other sections
// refer to items by name.
type Catalog struct {
	Items      []Item      `toml:"items"`
	Crimes     []Crime     `toml:"crimes"`
	Businesses []Business  `toml:"businesses"`
	Workers    []Worker    `toml:"workers"`
	StoreItems []StoreItem `toml:"store_items"`
	Boats      []Boat      `toml:"boats"`
}

type Item struct {
	Name string          `toml:"name"`
	Kind models.ItemKind `toml:"kind"`
}

type Crime struct {
	Name            string  `toml:"name"`
	MinLevel        int     `toml:"min_level"`
	TicketCost      int     `toml:"ticket_cost"`
	BaseReward      int64   `toml:"base_reward"`
	MaxReward       int64   `toml:"max_reward"`
	SuccessRate     float64 `toml:"success_rate"`
	JailTimeMinutes int     `toml:"jail_minutes"`
	HPLossOnFail    int     `toml:"hp_loss"`
	XPReward        int64   `toml:"xp"`
}

type Business struct {
	Name            string `toml:"name"`
	MinLevel        int    `toml:"min_level"`
	PurchasePrice   int64  `toml:"purchase_price"`
	ProductionCost  int64  `toml:"production_cost"`
	TicketCost      int    `toml:"ticket_cost"`
	DurationMinutes int    `toml:"duration_minutes"`
	RewardItem      string `toml:"reward_item"`
	RewardQuantity  int64  `toml:"reward_quantity"`
	CashProfit      int64  `toml:"cash_profit"`
}

type Worker struct {
	Name          string `toml:"name"`
	HireCost      int64  `toml:"hire_cost"`
	IncomePerHour int64  `toml:"income_per_hour"`
	MinLevel      int    `toml:"min_level"`
}

type StoreItem struct {
	Name      string `toml:"name"`
	Price     int64  `toml:"price"`
	HPRestore int    `toml:"hp_restore"`
}

type Boat struct {
	Name             string `toml:"name"`
	Item             string `toml:"item"`
	MaxShipments     int    `toml:"max_shipments"`
	DepartsInMinutes int    `toml:"departs_in_minutes"`
}

// Load decodes and validates a catalog
func Load(r io.Reader) (*Catalog, error) {
	var c Catalog
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadFile loads a catalog from path
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Default is the catalog shipped with the binary
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultCatalog))
}

// Validate checks cross references and value ranges
func (c *Catalog) Validate() error {
	items := make(map[string]bool, len(c.Items))
	for _, it := range c.Items {
		switch it.Kind {
		case models.ItemKindGoods, models.ItemKindJailFree, models.ItemKindConsumable:
		default:
			return fmt.Errorf("item %q has unknown kind %q", it.Name, it.Kind)
		}
		if items[it.Name] {
			return fmt.Errorf("item %q is declared twice", it.Name)
		}
		items[it.Name] = true
	}

	for _, cr := range c.Crimes {
		if cr.MaxReward < cr.BaseReward {
			return fmt.Errorf("crime %q: max_reward %d is below base_reward %d", cr.Name, cr.MaxReward, cr.BaseReward)
		}
		if cr.SuccessRate < 0 || cr.SuccessRate > 100 {
			return fmt.Errorf("crime %q: success_rate %.1f outside [0,100]", cr.Name, cr.SuccessRate)
		}
	}

	for _, b := range c.Businesses {
		if b.DurationMinutes <= 0 {
			return fmt.Errorf("business %q: duration_minutes must be positive", b.Name)
		}
		if b.RewardItem != "" && !items[b.RewardItem] {
			return fmt.Errorf("business %q rewards unknown item %q", b.Name, b.RewardItem)
		}
	}

	for _, boat := range c.Boats {
		if !items[boat.Item] {
			return fmt.Errorf("boat %q carries unknown item %q", boat.Name, boat.Item)
		}
		if boat.MaxShipments <= 0 {
			return fmt.Errorf("boat %q: max_shipments must be positive", boat.Name)
		}
	}

	for _, s := range c.StoreItems {
		if s.HPRestore <= 0 {
			return fmt.Errorf("store item %q: hp_restore must be positive", s.Name)
		}
	}

	return nil
}
