package main

import (
	"os"

	"github.com/spf13/cobra"
)

const cliName = "agenthub"

func main() {
	rootCmd := &cobra.Command{
		Use:          cliName,
		Short:        "agenthub — 智能体管理平台",
		Long:         "agenthub 管理智能体、运行日志、LLM 模型配置与对话, 并通过 OpenAI 兼容接口转发聊天消息",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringP("config", "c", "", "配置文件路径 (默认 ./config/config.yaml 或 ./config.yaml)")

	rootCmd.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newSeedCmd(),
		newInitCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
