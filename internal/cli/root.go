// Package cli wires the pagewright commands: an interactive chat session,
// a site deploy to GitHub Pages, and a pre-deploy site check.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var config Config

var rootCmd = &cobra.Command{
	Use:   "pagewright",
	Short: "AI-assisted GitHub Pages site builder",
	Long: `pagewright builds and maintains static sites through conversation.

The chat command opens a terminal session where prompts become pages and
follow-up requests become incremental edits applied to the working buffer.
The deploy command commits a site directory to a GitHub repository and the
check command reports whether a directory is ready for GitHub Pages.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		if err := loadEnv(); err != nil {
			return err
		}
		config = configFromEnv()
		return nil
	},
	// Running pagewright with no subcommand starts the chat session.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd.Context())
	},
}

// Execute runs the root command and returns a POSIX-style exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
