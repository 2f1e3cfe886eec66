package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/readlevel/internal/benchmark"
	"github.com/abhisek/readlevel/internal/ui/theme"
)

var benchmarksCmd = &cobra.Command{
	Use:   "benchmarks",
	Short: "Manage grade reading-rate benchmarks",
}

var benchmarksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored benchmarks",
	RunE: func(cmd *cobra.Command, args []string) error {
		builtin, _ := cmd.Flags().GetBool("builtin")
		if builtin {
			printBenchmarks(benchmark.DefaultRows())
			return nil
		}

		s, err := openConfiguredStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		rows, err := s.BenchmarkRepo().List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list benchmarks: %w", err)
		}
		if len(rows) == 0 {
			p := theme.NewPrinter(os.Stdout)
			fmt.Println(p.Render(theme.Hint, "No benchmarks stored. Run `readlevel benchmarks seed` or `readlevel benchmarks import <file>`."))
			return nil
		}

		out := make([]benchmark.Benchmark, 0, len(rows))
		for _, r := range rows {
			out = append(out, benchmark.Benchmark{Grade: r.Grade, ExpectedWPM: r.ExpectedWPM})
		}
		printBenchmarks(out)
		return nil
	},
}

var benchmarksImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import benchmarks from a JSON export",
	Long: `Import benchmarks from a JSON export.

Rows are read from the array at --path (gjson syntax). Each row needs a
grade and an expectedWPM (or expected_wpm). Existing grades are replaced.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("path")

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read export: %w", err)
		}
		rows, err := benchmark.ParseExport(data, path)
		if err != nil {
			return err
		}

		s, err := openConfiguredStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		if err := benchmark.Import(cmd.Context(), s.BenchmarkRepo(), rows); err != nil {
			return err
		}
		fmt.Printf("Imported %d benchmarks.\n", len(rows))

		if err := benchmark.Complete(cmd.Context(), benchmark.NewStoreProvider(s.BenchmarkRepo())); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
		return nil
	},
}

var benchmarksSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Store the built-in benchmarks for grades 1-12",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openConfiguredStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		if err := benchmark.Seed(cmd.Context(), s.BenchmarkRepo()); err != nil {
			return err
		}
		fmt.Printf("Seeded %d benchmarks.\n", len(benchmark.DefaultRows()))
		return nil
	},
}

func init() {
	benchmarksListCmd.Flags().Bool("builtin", false, "Show the built-in table instead of the database")
	benchmarksImportCmd.Flags().String("path", benchmark.DefaultPath, `gjson path of the benchmark array ("" for a bare array)`)

	benchmarksCmd.AddCommand(benchmarksListCmd)
	benchmarksCmd.AddCommand(benchmarksImportCmd)
	benchmarksCmd.AddCommand(benchmarksSeedCmd)
}

func printBenchmarks(rows []benchmark.Benchmark) {
	fmt.Printf("%-6s  %s\n", "Grade", "Expected WPM")
	fmt.Println(strings.Repeat("─", 20))
	for _, r := range rows {
		fmt.Printf("%-6d  %d\n", r.Grade, r.ExpectedWPM)
	}
}
