package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"keeper-client/pkg/keeper"

	"github.com/spf13/cobra"
)

var packageCmd = &cobra.Command{
	Use:   "package",
	Short: "打包签名多笔交易 (最多 7 笔)",
	Long: `读取交易信封数组的 JSON 文件, 整批交给 Keeper 一次性签名。
只有转账/发行/增发/销毁/别名/批量转账/数据交易可以打包, 整体成败。`,
	Run: func(cmd *cobra.Command, args []string) {
		inputFile, _ := cmd.Flags().GetString("input")
		outputFile, _ := cmd.Flags().GetString("output")

		raw, err := os.ReadFile(inputFile)
		if err != nil {
			fmt.Printf("读取输入文件失败: %v\n", err)
			os.Exit(1)
		}

		var envs []keeper.Envelope
		if err := json.Unmarshal(raw, &envs); err != nil {
			fmt.Printf("解析交易文件失败: %v\n", err)
			os.Exit(1)
		}

		items := make([]keeper.BatchItem, len(envs))
		for i, env := range envs {
			items[i] = keeper.BatchItem{Type: env.Type, Data: env.Data}
		}
		fmt.Printf("\n待打包交易: %d 笔\n", len(items))

		session, ctx, cancel := newSession(cmd)
		defer cancel()

		signed, err := session.SignTransactionPackage(ctx, items)
		if err != nil {
			fmt.Printf("打包签名失败: %v\n", err)
			os.Exit(1)
		}

		// 按请求顺序输出
		out := make([]json.RawMessage, len(signed))
		for i, tx := range signed {
			out[i] = tx.Raw
		}
		outputData, _ := json.MarshalIndent(out, "", "  ")
		if err := os.WriteFile(outputFile, outputData, 0644); err != nil {
			fmt.Printf("保存结果失败: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("\n✅ 打包签名成功! 共 %d 笔\n", len(signed))
		fmt.Printf("已保存到: %s\n", outputFile)
	},
}

func init() {
	rootCmd.AddCommand(packageCmd)
	packageCmd.Flags().StringP("input", "i", "package.json", "交易信封数组文件路径")
	packageCmd.Flags().StringP("output", "o", "signed_package.json", "签名后的输出文件路径")
}
