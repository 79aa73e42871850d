package cmd

import (
	"fmt"
	"os"

	"keeper-client/pkg/keeper"

	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "站点授权 (签名一段挑战数据)",
	Long:  `请求 Keeper 对站点挑战数据签名, 用于向后端证明地址所有权。`,
	Run: func(cmd *cobra.Command, args []string) {
		data, _ := cmd.Flags().GetString("data")
		name, _ := cmd.Flags().GetString("name")

		session, ctx, cancel := newSession(cmd)
		defer cancel()

		result, err := session.Auth(ctx, keeper.AuthInput{
			Data: data,
			Name: name,
		})
		if err != nil {
			fmt.Printf("授权失败: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("\n✅ 授权成功!")
		fmt.Printf("Address:   %s\n", result.Address)
		fmt.Printf("PublicKey: %s\n", result.PublicKey)
		fmt.Printf("Signature: %s\n", result.Signature)
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.Flags().StringP("data", "d", "", "待签名的挑战数据 (必填)")
	authCmd.Flags().StringP("name", "n", "keeper-cli", "站点名称")
	_ = authCmd.MarkFlagRequired("data")
}
