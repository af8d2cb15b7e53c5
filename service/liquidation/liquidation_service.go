package liquidation

import (
	"context"
	"fmt"

	"lendpair/core"
	"lendpair/pkg/resthttp"

	"github.com/fox-one/pkg/logger"
	"github.com/holiman/uint256"
)

type debtNotice struct {
	CollateralAddress string `json:"collateral_address"`
	CollateralAmount  string `json:"collateral_amount"`
	DebtRepaid        string `json:"debt_repaid"`
}

type notifier struct {
	config *core.Config
}

// New liquidation handler callback client. Seized collateral is sold
// off-ledger; the notice carries what the handler needs to settle.
func New(config *core.Config) core.ILiquidationHandler {
	return &notifier{config: config}
}

func (n *notifier) ProcessLiquidationDebt(ctx context.Context, collateralAddress string, collateralAmount, debtRepaid *uint256.Int) error {
	if n.config.Liquidation.EndPoint == "" {
		return nil
	}

	url := fmt.Sprintf("%s/api/v1/liquidations", n.config.Liquidation.EndPoint)
	logger.FromContext(ctx).Infoln("liquidation notice:", url)

	notice := debtNotice{
		CollateralAddress: collateralAddress,
		CollateralAmount:  collateralAmount.Dec(),
		DebtRepaid:        debtRepaid.Dec(),
	}

	resp, err := resthttp.Request(ctx).SetBody(notice).Post(url)
	if err != nil {
		return err
	}

	return resthttp.ParseResponse(resp, nil)
}
