package core

import (
	"github.com/fox-one/pkg/store/db"
)

// Config app config
type Config struct {
	App           App           `json:"app"`
	DB            db.Config     `json:"db"`
	Oracle        Oracle        `json:"oracle"`
	DiscountFeed  DiscountFeed  `json:"discount_feed"`
	Registry      Registry      `json:"registry"`
	InterestModel InterestModel `json:"interest_model"`
	Liquidation   Liquidation   `json:"liquidation"`
	// Swappers whitelisted swap venues, name to endpoint
	Swappers map[string]string `json:"swappers"`
	Admins   []string          `json:"admins"`
}

// IsAdmin check if the user is admin
func (c *Config) IsAdmin(userID string) bool {
	if len(c.Admins) <= 0 {
		return false
	}

	for _, a := range c.Admins {
		if a == userID {
			return true
		}
	}

	return false
}

// App app config
type App struct {
	// Genesis unix time the block grid counts from
	Genesis  int64  `json:"genesis"`
	Port     int    `json:"port"`
	Location string `json:"location"`
}

// Oracle exchange rate feed config
type Oracle struct {
	EndPoint string `json:"end_point"`
}

// DiscountFeed stablecoin market price feed config
type DiscountFeed struct {
	EndPoint string `json:"end_point"`
}

// Registry asset registry config
type Registry struct {
	// MaxSupply global mint ceiling of the asset, human decimal
	MaxSupply          string `json:"max_supply"`
	Redeemer           string `json:"redeemer"`
	LiquidationHandler string `json:"liquidation_handler"`
	Owner              string `json:"owner"`
}

// Liquidation liquidation handler callback config
type Liquidation struct {
	EndPoint string `json:"end_point"`
}

// InterestModel jump rate model parameters, human decimals per year
type InterestModel struct {
	BaseRate       string `json:"base_rate"`
	Multiplier     string `json:"multiplier"`
	JumpMultiplier string `json:"jump_multiplier"`
	// Kink utilization knee, 1e5-scaled
	Kink uint64 `json:"kink"`
}
