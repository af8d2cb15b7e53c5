package swap

import (
	"context"
	"fmt"
	"time"

	"lendpair/core"
	"lendpair/pkg/resthttp"

	"github.com/fox-one/pkg/logger"
	"github.com/holiman/uint256"
)

type swapRequest struct {
	AmountIn  string   `json:"amount_in"`
	MinOut    string   `json:"min_out"`
	Path      []string `json:"path"`
	Recipient string   `json:"recipient"`
	Deadline  int64    `json:"deadline"`
}

type swapResponse struct {
	AmountOut string `json:"amount_out"`
}

type swapAdapter struct {
	endpoint string
}

// New swap venue client
func New(endpoint string) core.ISwapAdapter {
	return &swapAdapter{endpoint: endpoint}
}

func (s *swapAdapter) SwapExactTokensForTokens(ctx context.Context, amountIn, minOut *uint256.Int, path []string, recipient string, deadline time.Time) (*uint256.Int, error) {
	url := fmt.Sprintf("%s/api/v1/swap", s.endpoint)
	logger.FromContext(ctx).Debugln("swap:", url)

	req := swapRequest{
		AmountIn:  amountIn.Dec(),
		MinOut:    minOut.Dec(),
		Path:      path,
		Recipient: recipient,
		Deadline:  deadline.Unix(),
	}

	resp, err := resthttp.Request(ctx).SetBody(req).Post(url)
	if err != nil {
		return nil, err
	}

	var body swapResponse
	if err := resthttp.ParseResponse(resp, &body); err != nil {
		return nil, err
	}

	return uint256.FromDecimal(body.AmountOut)
}
