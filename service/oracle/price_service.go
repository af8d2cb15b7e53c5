package oracle

import (
	"context"
	"fmt"
	"time"

	"lendpair/core"
	"lendpair/internal/ledger"
	"lendpair/pkg/resthttp"

	"github.com/bluele/gcache"
	"github.com/fox-one/pkg/logger"
	"github.com/holiman/uint256"
)

type priceResponse struct {
	Price string `json:"price"`
}

type priceService struct {
	config *core.Config
	blocks core.IBlockService
	cache  gcache.Cache
}

// New exchange rate feed client. Quotes are cached per block.
func New(config *core.Config, blocks core.IBlockService) core.IOracle {
	return &priceService{
		config: config,
		blocks: blocks,
		cache:  gcache.New(64).LRU().Build(),
	}
}

func (s *priceService) GetPrices(ctx context.Context, collateralAddress string) (*uint256.Int, error) {
	block, err := s.blocks.CurrentBlock(ctx)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s:%d", collateralAddress, block)
	if v, err := s.cache.Get(key); err == nil {
		return v.(*uint256.Int), nil
	}

	url := fmt.Sprintf("%s/api/v1/prices/%s", s.config.Oracle.EndPoint, collateralAddress)
	logger.FromContext(ctx).Debugln("pull price:", url)

	resp, err := resthttp.Request(ctx).Get(url)
	if err != nil {
		return nil, err
	}

	var body priceResponse
	if err := resthttp.ParseResponse(resp, &body); err != nil {
		return nil, err
	}

	price, err := uint256.FromDecimal(body.Price)
	if err != nil {
		return nil, err
	}

	expire := time.Duration(ledger.SecondsPerBlock) * time.Second
	_ = s.cache.SetWithExpire(key, price, expire)

	return price, nil
}
