package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "查询钱包公开状态",
	Long:  `拉取 Keeper 当前的公开状态快照: 锁定状态、账户、网络与待处理请求。`,
	Run: func(cmd *cobra.Command, args []string) {
		session, ctx, cancel := newSession(cmd)
		defer cancel()

		state, err := session.PublicState(ctx)
		if err != nil {
			fmt.Printf("查询状态失败: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("\n================ Keeper 状态 ================")
		fmt.Printf("Initialized: %v\n", state.Initialized)
		fmt.Printf("Locked:      %v\n", state.Locked)
		fmt.Printf("Network:     %s (%s)\n", state.Network.Server, state.Network.Code)
		if state.Account != nil {
			fmt.Printf("Account:     %s\n", state.Account.Address)
			fmt.Printf("PublicKey:   %s\n", state.Account.PublicKey)
			fmt.Printf("Balance:     %s\n", state.Account.Balance.Available)
		} else {
			fmt.Println("Account:     (锁定或未授权)")
		}
		fmt.Println("============================================")

		verbose, _ := cmd.Flags().GetBool("json")
		if verbose {
			raw, _ := json.MarshalIndent(state, "", "  ")
			fmt.Println(string(raw))
		}
	},
}

func init() {
	rootCmd.AddCommand(stateCmd)
	stateCmd.Flags().Bool("json", false, "额外输出完整 JSON")
}
