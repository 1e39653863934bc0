package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pagewright/pagewright/internal/sitecheck"
)

var checkCmd = &cobra.Command{
	Use:   "check <dir>",
	Short: "Report whether a directory is ready for GitHub Pages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := sitecheck.Analyze(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("files: %d (max depth %d)\n", report.TotalFiles, report.Depth)

		exts := make([]string, 0, len(report.CountByExt))
		for ext := range report.CountByExt {
			exts = append(exts, ext)
		}
		sort.Strings(exts)
		for _, ext := range exts {
			fmt.Printf("  %-14s %d\n", ext, report.CountByExt[ext])
		}

		if len(report.Technologies) > 0 {
			fmt.Println("technologies:")
			for _, tech := range report.Technologies {
				fmt.Printf("  - %s\n", tech)
			}
		}

		if report.Pages.HasIndex {
			fmt.Printf("entry point: %s\n", report.Pages.IndexFile)
		} else {
			fmt.Println("entry point: none (GitHub Pages needs index.html at the root)")
		}

		fmt.Println("recommendations:")
		for _, rec := range report.Recommendations {
			fmt.Printf("  - %s\n", rec)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
