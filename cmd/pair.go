package cmd

import (
	"lendpair/core"
	"lendpair/pkg/number"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

var pairCmd = &cobra.Command{
	Use:   "pair",
	Short: "manage lending pairs",
}

var addPairCmd = &cobra.Command{
	Use:   "add <address> <symbol> <asset-address> <asset-symbol> <collateral-address> <collateral-symbol>",
	Short: "register a lending pair",
	Args:  cobra.ExactArgs(6),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		pair := &core.Pair{
			Address:           args[0],
			Symbol:            args[1],
			AssetAddress:      args[2],
			AssetSymbol:       args[3],
			CollateralAddress: args[4],
			CollateralSymbol:  args[5],
		}

		maxLTV, _ := cmd.Flags().GetString("max-ltv")
		pair.MaxLTV = cast.ToUint64(maxLTV)
		mintFee, _ := cmd.Flags().GetString("mint-fee")
		pair.MintFee = cast.ToUint64(mintFee)
		liquidationFee, _ := cmd.Flags().GetString("liquidation-fee")
		pair.LiquidationFee = cast.ToUint64(liquidationFee)
		redemptionFee, _ := cmd.Flags().GetString("redemption-fee")
		pair.RedemptionFee = cast.ToUint64(redemptionFee)

		borrowLimit, _ := cmd.Flags().GetString("borrow-limit")
		pair.BorrowLimit.Int.Set(number.MustFixed(borrowLimit, 18))
		minBorrow, _ := cmd.Flags().GetString("min-borrow")
		pair.MinimumBorrow.Int.Set(number.MustFixed(minBorrow, 18))
		minLeftover, _ := cmd.Flags().GetString("min-leftover")
		pair.MinimumLeftover.Int.Set(number.MustFixed(minLeftover, 18))

		if err := providePairStore(database).Save(ctx, nil, pair); err != nil {
			cmd.PrintErrln("save pair error:", err)
			return
		}

		cmd.Println("pair registered:", pair.Symbol)
	},
}

var listPairsCmd = &cobra.Command{
	Use:   "list",
	Short: "list lending pairs",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		pairs, err := providePairStore(database).All(ctx)
		if err != nil {
			cmd.PrintErrln("list pairs error:", err)
			return
		}

		for _, pair := range pairs {
			cmd.Printf("%s %s borrowed=%s collateral=%s\n",
				pair.Address,
				pair.Symbol,
				pair.BorrowAmount.Dec(),
				pair.TotalCollateral.Dec(),
			)
		}
	},
}

func init() {
	addPairCmd.Flags().String("max-ltv", "0", "max loan-to-value, 1e5-scaled")
	addPairCmd.Flags().String("mint-fee", "0", "mint fee, 1e5-scaled")
	addPairCmd.Flags().String("liquidation-fee", "0", "liquidation fee, 1e5-scaled")
	addPairCmd.Flags().String("redemption-fee", "0", "redemption fee, 1e5-scaled")
	addPairCmd.Flags().String("borrow-limit", "0", "borrow limit, human decimal")
	addPairCmd.Flags().String("min-borrow", "0", "minimum borrow, human decimal")
	addPairCmd.Flags().String("min-leftover", "0", "redemption liquidity floor, human decimal")

	pairCmd.AddCommand(addPairCmd)
	pairCmd.AddCommand(listPairsCmd)
	rootCmd.AddCommand(pairCmd)
}
