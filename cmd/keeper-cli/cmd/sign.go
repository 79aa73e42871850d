package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"keeper-client/pkg/keeper"

	"github.com/spf13/cobra"
)

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "签名单笔交易",
	Long:  `读取 {"type": ..., "data": {...}} 形式的交易 JSON 文件, 本地校验后交给 Keeper 签名。`,
	Run: func(cmd *cobra.Command, args []string) {
		inputFile, _ := cmd.Flags().GetString("input")
		outputFile, _ := cmd.Flags().GetString("output")
		publish, _ := cmd.Flags().GetBool("publish")

		// 1. 读取交易文件
		raw, err := os.ReadFile(inputFile)
		if err != nil {
			fmt.Printf("读取输入文件失败: %v\n", err)
			os.Exit(1)
		}

		var env keeper.Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			fmt.Printf("解析交易文件失败: %v\n", err)
			os.Exit(1)
		}

		// 显示交易详情供用户确认 (Verify on Screen)
		fmt.Println("\n================ 待签名交易 ================")
		fmt.Printf("Type:  %d\n", env.Type)
		fmt.Printf("Data:  %s\n", string(env.Data))
		fmt.Printf("广播:  %v\n", publish)
		fmt.Println("============================================")

		// 2. 连接并签名 (校验失败不会发起远端调用)
		session, ctx, cancel := newSession(cmd)
		defer cancel()

		var signed *keeper.SignedTransaction
		if publish {
			signed, err = session.SignAndPublishTransaction(ctx, env.Type, env.Data)
		} else {
			signed, err = session.SignTransaction(ctx, env.Type, env.Data)
		}
		if err != nil {
			fmt.Printf("签名失败: %v\n", err)
			os.Exit(1)
		}

		// 3. 输出结果
		if err := os.WriteFile(outputFile, signed.Raw, 0644); err != nil {
			fmt.Printf("保存结果失败: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("\n✅ 签名成功!\n")
		fmt.Printf("TxID: %s\n", signed.ID)
		fmt.Printf("已保存到: %s\n", outputFile)
	},
}

func init() {
	rootCmd.AddCommand(signCmd)
	signCmd.Flags().StringP("input", "i", "unsigned.json", "未签名的交易文件路径")
	signCmd.Flags().StringP("output", "o", "signed.json", "签名后的输出文件路径")
	signCmd.Flags().BoolP("publish", "p", false, "签名后同时广播")
}
