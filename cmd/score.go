package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/readlevel/internal/benchmark"
	"github.com/abhisek/readlevel/internal/config"
	"github.com/abhisek/readlevel/internal/scoring"
	"github.com/abhisek/readlevel/internal/ui/theme"
)

var scoreCmd = &cobra.Command{
	Use:   "score <attempt.json>",
	Short: "Score an attempt file offline",
	Long: `Score an attempt file offline.

The file holds one attempt: wordCount, readingTimeSeconds, errorCount,
answers (keyed by question index), questions and studentGrade. Use "-" to
read from stdin. Benchmarks come from the built-in table unless --db is
given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		in, err := readAttempt(args[0])
		if err != nil {
			return err
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		tun, err := scoreTunables(cmd, cfg)
		if err != nil {
			return err
		}

		lookup, cleanup, err := scoreBenchmarks(cmd, cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		versions := []scoring.Version{tun.ScoreVersion}
		if compare, _ := cmd.Flags().GetBool("compare"); compare {
			versions = []scoring.Version{scoring.V1, scoring.V2}
		}

		results := make([]*scoring.ScoringResult, 0, len(versions))
		for _, v := range versions {
			t := tun
			t.ScoreVersion = v
			res, err := scoring.NewEngine(lookup, config.Static(t)).Score(ctx, in)
			if err != nil {
				return err
			}
			results = append(results, res)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if len(results) == 1 {
				return enc.Encode(results[0])
			}
			return enc.Encode(results)
		}

		out := cmd.OutOrStdout()
		p := theme.NewPrinter(out)
		for _, res := range results {
			printResult(out, p, res)
		}
		return nil
	},
}

func init() {
	scoreCmd.Flags().String("version", "", "Scorer version v1|v2 (overrides config)")
	scoreCmd.Flags().Bool("compare", false, "Score with both v1 and v2")
	scoreCmd.Flags().Float64("hard-floor", 0, "Accuracy hard floor percentage for v2")
	scoreCmd.Flags().Bool("json", false, "Print results as JSON")
}

func readAttempt(path string) (scoring.AttemptInput, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return scoring.AttemptInput{}, fmt.Errorf("open attempt: %w", err)
		}
		defer f.Close()
		r = f
	}
	var in scoring.AttemptInput
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return scoring.AttemptInput{}, fmt.Errorf("decode attempt: %w", err)
	}
	return in, nil
}

// scoreTunables applies the command's flags on top of cfg.
func scoreTunables(cmd *cobra.Command, cfg *config.Config) (scoring.Tunables, error) {
	tun := cfg.Tunables()
	if v, _ := cmd.Flags().GetString("version"); v != "" {
		tun.ScoreVersion = scoring.ParseVersion(v)
	}
	if cmd.Flags().Changed("hard-floor") {
		f, _ := cmd.Flags().GetFloat64("hard-floor")
		tun = tun.WithHardFloor(f)
	}
	if _, err := scoring.SelectScorer(tun.ScoreVersion); err != nil {
		return tun, err
	}
	return tun, tun.Validate()
}

// scoreBenchmarks uses the database when --db is set, else the built-in
// table.
func scoreBenchmarks(cmd *cobra.Command, cfg *config.Config) (scoring.BenchmarkLookup, func(), error) {
	if p, _ := cmd.Flags().GetString("db"); p == "" {
		return benchmark.DefaultTable(), func() {}, nil
	}
	st, err := openStore(cmd, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	p := benchmark.NewStoreProvider(st.BenchmarkRepo())
	if err := benchmark.Complete(context.Background(), p); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v (run `readlevel benchmarks seed`)\n", err)
	}
	return p, func() { st.Close() }, nil
}

func printResult(w io.Writer, p theme.Printer, res *scoring.ScoringResult) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", p.Render(theme.Title, "Scorer "+string(res.Version)))
	row := func(k, v string) {
		fmt.Fprintf(&b, "%s %s\n", p.Render(theme.Key, fmt.Sprintf("%-18s", k)), v)
	}
	row("Reading level", p.Label(res.ReadingLevelLabel))
	row("Composite", fmt.Sprintf("%d", res.CompositeScore))
	row("Fluency", fmt.Sprintf("%.1f", res.FluencyScore))
	row("Comp/vocab", fmt.Sprintf("%.1f", res.CompVocabScore))
	row("WPM", fmt.Sprintf("%d", res.WPM))
	row("Accuracy", fmt.Sprintf("%.1f%%", res.AccuracyPercent))
	if fm := res.FloorsMet; fm != nil {
		row("Floors met", fmt.Sprintf("fluency %s, comprehension %s", yesNo(fm.Fluency), yesNo(fm.Comprehension)))
	}
	if res.CapEngaged {
		fmt.Fprintf(&b, "%s\n", p.Render(theme.Flag, "fluency cap engaged"))
	}
	if res.AccuracyHardFloorApplied {
		fmt.Fprintf(&b, "%s\n", p.Render(theme.Flag, "label lowered by accuracy hard floor"))
	}
	fmt.Fprintln(w, p.Box(strings.TrimRight(b.String(), "\n")))
}

func yesNo(ok bool) string {
	if ok {
		return "yes"
	}
	return "no"
}
