package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/readlevel/internal/scoring"
	"github.com/abhisek/readlevel/internal/store"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Inspect persisted scoring results",
}

var resultsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent scoring results",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		version, _ := cmd.Flags().GetString("version")

		s, err := openConfiguredStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		opts := store.QueryOpts{Limit: limit}
		if version != "" {
			opts.Version = string(scoring.ParseVersion(version))
		}
		results, err := s.ResultRepo().List(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("list results: %w", err)
		}

		if len(results) == 0 {
			fmt.Println("No results found.")
			return nil
		}

		fmt.Printf("%-36s  %-19s  %-3s  %-5s  %-5s  %-9s  %s\n",
			"ID", "Created", "Ver", "Grade", "WPM", "Composite", "Label")
		fmt.Println(strings.Repeat("─", 110))

		for _, r := range results {
			fmt.Printf("%-36s  %-19s  %-3s  %-5d  %-5d  %-9d  %s\n",
				r.ID,
				r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				r.Version,
				r.Grade,
				r.WPM,
				r.CompositeScore,
				r.Label,
			)
		}
		return nil
	},
}

func init() {
	resultsListCmd.Flags().Int("limit", 20, "Maximum number of results to show")
	resultsListCmd.Flags().String("version", "", "Only show results from this scorer version")

	resultsCmd.AddCommand(resultsListCmd)
}
