package cmd

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "signalbot",
	Short: "Telegram bot for Solana token signals and wallet chat",
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
