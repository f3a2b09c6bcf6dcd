package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"todolist/internal/client"
	"todolist/internal/config"
	"todolist/internal/ui"
	"todolist/pkg/logger"
)

var (
	apiURL  string
	logPath string
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the terminal front-end",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		logger.SetLevel(cfg.LogLevel)
		if apiURL == "" {
			apiURL = cfg.APIURL
		}

		// the alternate screen owns stdout
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logger.SetOutput(f)

		logger.Info(cmd.Context(), "UI started", "api", apiURL)
		return ui.Run(cmd.Context(), client.New(apiURL, nil))
	},
}

func init() {
	uiCmd.Flags().StringVar(&apiURL, "api", "", "base URL of the to-do API (default $TODO_API_URL)")
	uiCmd.Flags().StringVar(&logPath, "log-file", "todolist-ui.log", "file the UI logs to")
}
