package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pagewright/pagewright/internal/core/runtime"
	"github.com/pagewright/pagewright/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive page-building session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd.Context())
	},
}

func runChat(ctx context.Context) error {
	if config.Runtime.APIKey == "" {
		return errors.New("set OPENAI_API_KEY, ANTHROPIC_API_KEY, or AZURE_OPENAI_API_KEY")
	}
	options := config.Runtime
	options.Logger = runtime.NewTextLogger(runtime.LevelWarn, os.Stderr)

	agent, err := runtime.New(options)
	if err != nil {
		return fmt.Errorf("start runtime: %w", err)
	}
	if code := tui.Run(ctx, agent); code != 0 {
		return fmt.Errorf("chat session exited with code %d", code)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
