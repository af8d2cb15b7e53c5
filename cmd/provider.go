package cmd

import (
	"lendpair/core"
	"lendpair/service/block"
	"lendpair/service/liquidation"
	oracleservice "lendpair/service/oracle"
	pairservice "lendpair/service/pair"
	rateservice "lendpair/service/rate"
	registryservice "lendpair/service/registry"
	"lendpair/service/swap"
	watcherservice "lendpair/service/watcher"
	"lendpair/store/checkpoint"
	"lendpair/store/pair"
	"lendpair/store/position"
	"lendpair/store/token"
	"lendpair/store/transfer"

	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"

	_ "github.com/jinzhu/gorm/dialects/postgres"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideConfig() *core.Config {
	return &cfg
}

// ---------------store-----------------------------------------

func providePairStore(db *db.DB) core.IPairStore {
	return pair.New(db)
}

func providePositionStore(db *db.DB) core.IPositionStore {
	return position.New(db)
}

func provideCheckpointStore(db *db.DB) core.ICheckpointStore {
	return checkpoint.New(db)
}

func provideTokenStore(db *db.DB) core.ITokenStore {
	return token.New(db)
}

func provideTransferStore(db *db.DB) core.ITransferStore {
	return transfer.New(db)
}

func providePropertyStore(db *db.DB) property.Store {
	return propertystore.New(db)
}

// ------------------service------------------------------------

func provideBlockService() core.IBlockService {
	return block.New(provideConfig())
}

func provideOracleService(blockService core.IBlockService) core.IOracle {
	return oracleservice.New(provideConfig(), blockService)
}

func provideDiscountFeed() core.IDiscountOracle {
	return oracleservice.NewDiscountFeed(provideConfig())
}

func provideRateService(pairStore core.IPairStore) core.IRateCalculator {
	return rateservice.New(provideConfig(), pairStore)
}

func provideRegistryService(db *db.DB, tokenStore core.ITokenStore) core.IRegistry {
	return registryservice.New(db, tokenStore, provideConfig())
}

func provideLiquidationHandler() core.ILiquidationHandler {
	return liquidation.New(provideConfig())
}

func provideSwappers() map[string]core.ISwapAdapter {
	swappers := make(map[string]core.ISwapAdapter, len(cfg.Swappers))
	for name, endpoint := range cfg.Swappers {
		swappers[name] = swap.New(endpoint)
	}
	return swappers
}

func provideWatcherService(db *db.DB, checkpointStore core.ICheckpointStore, propertyStore property.Store) core.IPriceWatcherService {
	return watcherservice.New(db, checkpointStore, propertyStore, provideDiscountFeed())
}

func providePairService(db *db.DB) core.IPairService {
	pairStore := providePairStore(db)
	blockService := provideBlockService()

	return pairservice.New(
		db,
		pairStore,
		providePositionStore(db),
		provideTransferStore(db),
		provideRegistryService(db, provideTokenStore(db)),
		provideOracleService(blockService),
		provideRateService(pairStore),
		provideLiquidationHandler(),
		blockService,
		provideSwappers(),
	)
}
