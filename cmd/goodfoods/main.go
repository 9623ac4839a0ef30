package main

import (
	"os"

	"goodfoods/internal/logger"

	"github.com/spf13/cobra"
)

func main() {
	logger.Init()
	rootCmd := &cobra.Command{
		Use:          "goodfoods",
		Short:        "GoodFoods is a conversational restaurant reservation assistant",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(gatewayCmd)
	rootCmd.AddCommand(seedCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
