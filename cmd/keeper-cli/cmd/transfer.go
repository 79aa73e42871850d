package cmd

import (
	"fmt"
	"os"

	"keeper-client/pkg/keeper"
	"keeper-client/pkg/money"

	"github.com/spf13/cobra"
)

var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "转账 (签名并广播)",
	Long:  `根据命令行参数构造一笔转账交易, 本地校验后交给 Keeper 签名并广播。`,
	Run: func(cmd *cobra.Command, args []string) {
		recipient, _ := cmd.Flags().GetString("to")
		tokens, _ := cmd.Flags().GetString("amount")
		assetID, _ := cmd.Flags().GetString("asset")
		feeCoins, _ := cmd.Flags().GetString("fee")
		attachment, _ := cmd.Flags().GetString("attachment")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		tx := &keeper.TransferTx{
			TxBase: keeper.TxBase{
				Fee: money.Coins(money.WavesAssetID, feeCoins),
			},
			Amount:     money.Tokens(assetID, tokens),
			Recipient:  recipient,
			Attachment: attachment,
		}

		fmt.Println("\n================ 转账 ================")
		fmt.Printf("To:     %s\n", recipient)
		fmt.Printf("Amount: %s %s\n", tokens, assetID)
		fmt.Printf("Fee:    %s (coins)\n", feeCoins)
		fmt.Println("======================================")

		session, ctx, cancel := newSession(cmd)
		defer cancel()

		var signed *keeper.SignedTransaction
		var err error
		if dryRun {
			signed, err = session.SignTransaction(ctx, keeper.TxTransfer, tx)
		} else {
			signed, err = session.SignAndPublishTransaction(ctx, keeper.TxTransfer, tx)
		}
		if err != nil {
			fmt.Printf("转账失败: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("\n✅ 转账已签名%s!\n", map[bool]string{false: "并广播", true: " (未广播)"}[dryRun])
		fmt.Printf("TxID: %s\n", signed.ID)
	},
}

func init() {
	rootCmd.AddCommand(transferCmd)
	transferCmd.Flags().String("to", "", "收款地址或别名 (必填)")
	transferCmd.Flags().String("amount", "", "转账数量, 最大单位 (必填)")
	transferCmd.Flags().String("asset", money.WavesAssetID, "资产 ID")
	transferCmd.Flags().String("fee", "100000", "手续费, 最小单位")
	transferCmd.Flags().String("attachment", "", "附言 (最多 140 字节)")
	transferCmd.Flags().Bool("dry-run", false, "只签名不广播")
	_ = transferCmd.MarkFlagRequired("to")
	_ = transferCmd.MarkFlagRequired("amount")
}
