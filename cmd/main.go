package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"todolist/internal/config"
	"todolist/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "todolist",
	Short: "A to-do list API with a translation pass-through",
	Long: `todolist serves a CRUD to-do API over HTTP with an optional Redis read
cache, Kafka change events and a Gemini-backed translation endpoint. The ui
command opens a terminal front-end against a running server.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadEnvFile(".env")
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.AddCommand(serveCmd, uiCmd)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error(ctx, "Command failed", "error", err)
		stop()
		os.Exit(1)
	}
}
