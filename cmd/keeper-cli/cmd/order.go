package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "签名撮合订单",
	Long:  `读取订单 JSON 文件 (amount/price/orderType/matcherFee/matcherPublicKey), 签名后可选发给撮合器。`,
	Run: func(cmd *cobra.Command, args []string) {
		inputFile, _ := cmd.Flags().GetString("input")
		publish, _ := cmd.Flags().GetBool("publish")

		raw, err := os.ReadFile(inputFile)
		if err != nil {
			fmt.Printf("读取订单文件失败: %v\n", err)
			os.Exit(1)
		}

		session, ctx, cancel := newSession(cmd)
		defer cancel()

		var result string
		if publish {
			result, err = session.SignAndPublishOrder(ctx, json.RawMessage(raw))
		} else {
			result, err = session.SignOrder(ctx, json.RawMessage(raw))
		}
		if err != nil {
			fmt.Printf("订单签名失败: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("\n✅ 订单签名成功!")
		fmt.Println(result)
	},
}

var cancelOrderCmd = &cobra.Command{
	Use:   "cancel-order",
	Short: "签名撤单请求",
	Run: func(cmd *cobra.Command, args []string) {
		id, _ := cmd.Flags().GetString("id")
		publish, _ := cmd.Flags().GetBool("publish")

		session, ctx, cancel := newSession(cmd)
		defer cancel()

		payload := map[string]string{"id": id}
		var result string
		var err error
		if publish {
			result, err = session.SignAndPublishCancelOrder(ctx, payload)
		} else {
			result, err = session.SignCancelOrder(ctx, payload)
		}
		if err != nil {
			fmt.Printf("撤单签名失败: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("\n✅ 撤单签名成功!")
		fmt.Println(result)
	},
}

func init() {
	rootCmd.AddCommand(orderCmd)
	orderCmd.Flags().StringP("input", "i", "order.json", "订单文件路径")
	orderCmd.Flags().BoolP("publish", "p", false, "签名后发给撮合器")

	rootCmd.AddCommand(cancelOrderCmd)
	cancelOrderCmd.Flags().String("id", "", "要撤销的订单 ID (必填)")
	cancelOrderCmd.Flags().BoolP("publish", "p", false, "签名后通知撮合器")
	_ = cancelOrderCmd.MarkFlagRequired("id")
}
