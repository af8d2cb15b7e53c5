package oracle

import (
	"context"
	"fmt"

	"lendpair/core"
	"lendpair/pkg/resthttp"

	"github.com/holiman/uint256"
)

type discountService struct {
	config *core.Config
}

// NewDiscountFeed stablecoin market price feed client
func NewDiscountFeed(config *core.Config) core.IDiscountOracle {
	return &discountService{config: config}
}

func (s *discountService) Price(ctx context.Context) (*uint256.Int, error) {
	url := fmt.Sprintf("%s/api/v1/price", s.config.DiscountFeed.EndPoint)

	resp, err := resthttp.Request(ctx).Get(url)
	if err != nil {
		return nil, err
	}

	var body priceResponse
	if err := resthttp.ParseResponse(resp, &body); err != nil {
		return nil, err
	}

	return uint256.FromDecimal(body.Price)
}
