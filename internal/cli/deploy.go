package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/pagewright/pagewright/internal/core/runtime"
	"github.com/pagewright/pagewright/internal/github"
)

var (
	deployMessage     string
	deployEnablePages bool
)

var deployCmd = &cobra.Command{
	Use:   "deploy <dir>",
	Short: "Commit a site directory to the configured GitHub repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.requireGit(); err != nil {
			return err
		}

		files, err := collectSiteFiles(args[0])
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no deployable files under %s", args[0])
		}

		client, err := github.NewClient(config.GitHubToken, config.RepoURL,
			github.WithLogger(runtime.NewTextLogger(runtime.LevelInfo, os.Stderr)))
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if err := client.ValidateAccess(ctx); err != nil {
			return err
		}

		result, err := client.CommitFiles(ctx, files, deployMessage, github.Author{
			Name:  config.AuthorName,
			Email: config.AuthorEmail,
		})
		if err != nil {
			return err
		}
		fmt.Printf("committed %d file(s): %s\n", len(files), result.SHA)

		if deployEnablePages {
			pages, err := client.EnablePages(ctx, config.Branch)
			if err != nil {
				return err
			}
			result.PagesURL = pages.URL
		}
		if result.PagesURL != "" {
			fmt.Printf("site: %s\n", result.PagesURL)
		}
		return nil
	},
}

// collectSiteFiles gathers text files under dir as commit operations. The
// .git directory and binary files are skipped.
func collectSiteFiles(dir string) ([]github.FileOperation, error) {
	var files []github.FileOperation
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			if entry.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if !utf8.Valid(data) {
			return nil
		}
		files = append(files, github.FileOperation{
			Op:      "update",
			Path:    filepath.ToSlash(rel),
			Content: string(data),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect site files: %w", err)
	}
	return files, nil
}

func init() {
	deployCmd.Flags().StringVarP(&deployMessage, "message", "m", "Deploy site via pagewright", "commit message")
	deployCmd.Flags().BoolVar(&deployEnablePages, "enable-pages", false, "enable GitHub Pages after committing")
	rootCmd.AddCommand(deployCmd)
}
