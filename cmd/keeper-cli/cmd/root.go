package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"keeper-client/pkg/keeper"
	"keeper-client/pkg/keeper/httpkeeper"

	"github.com/spf13/cobra"
)

// rootCmd 代表基础命令，没有子命令时直接调用
var rootCmd = &cobra.Command{
	Use:   "keeper-cli",
	Short: "Keeper 钱包命令行客户端",
	Long: `通过 HTTP 连接一个 Keeper 服务 (例如 keeper-devnode) 的命令行工具。
支持查询钱包状态、站点授权、签名单笔/打包交易以及撮合订单。`,
}

// Execute 将所有子命令添加到根命令并设置标志
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("keeper", "http://localhost:8080", "Keeper 服务地址")
	rootCmd.PersistentFlags().Duration("timeout", 15*time.Second, "单次操作超时")
}

// newSession 连接 Keeper 并等待就绪
func newSession(cmd *cobra.Command) (*keeper.Session, context.Context, context.CancelFunc) {
	url, _ := cmd.Flags().GetString("keeper")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	client := httpkeeper.New(httpkeeper.Options{BaseURL: url})
	session := keeper.NewSession(client, nil)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	if err := session.AwaitReady(ctx); err != nil {
		cancel()
		fmt.Printf("连接 Keeper 失败 (%s): %v\n", url, err)
		os.Exit(1)
	}
	return session, ctx, cancel
}
