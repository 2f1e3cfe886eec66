package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/readlevel/internal/scoring"
	"github.com/abhisek/readlevel/internal/store"
	"github.com/abhisek/readlevel/internal/ui/theme"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the reading level distribution per scorer version",
	RunE: func(cmd *cobra.Command, args []string) error {
		version, _ := cmd.Flags().GetString("version")

		s, err := openConfiguredStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		opts := store.QueryOpts{}
		if version != "" {
			opts.Version = string(scoring.ParseVersion(version))
		}
		counts, err := s.EventRepo().LabelDistribution(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("label distribution: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(counts) == 0 {
			p := theme.NewPrinter(out)
			fmt.Fprintln(out, p.Render(theme.Hint, "No scoring events recorded. Events are written by `readlevel serve`."))
			return nil
		}
		printDistribution(out, distribution(counts))
		return nil
	},
}

func init() {
	statsCmd.Flags().String("version", "", "Only count events from this scorer version")
}

type labelShare struct {
	Version string
	Label   scoring.Label
	Count   int
	Share   float64
}

// distribution expands counts into one row per version and label, highest
// band first, including labels with no events. Labels the scorers no
// longer produce are kept and listed last.
func distribution(counts []store.LabelCount) []labelShare {
	byVersion := map[string]map[scoring.Label]int{}
	totals := map[string]int{}
	for _, c := range counts {
		if byVersion[c.Version] == nil {
			byVersion[c.Version] = map[scoring.Label]int{}
		}
		byVersion[c.Version][scoring.Label(c.Label)] += c.Count
		totals[c.Version] += c.Count
	}

	versions := make([]string, 0, len(byVersion))
	for v := range byVersion {
		versions = append(versions, v)
	}
	sort.Strings(versions)

	var out []labelShare
	for _, v := range versions {
		labels := scoring.AllLabels()
		for l := range byVersion[v] {
			if l.Rank() < 0 {
				labels = append(labels, l)
			}
		}
		sort.SliceStable(labels, func(i, j int) bool {
			ri, rj := labels[i].Rank(), labels[j].Rank()
			if ri != rj {
				return ri > rj
			}
			return labels[i] < labels[j]
		})

		for _, l := range labels {
			n := byVersion[v][l]
			out = append(out, labelShare{
				Version: v,
				Label:   l,
				Count:   n,
				Share:   100 * float64(n) / float64(totals[v]),
			})
		}
	}
	return out
}

func printDistribution(w io.Writer, rows []labelShare) {
	fmt.Fprintf(w, "%-3s  %-28s  %6s  %6s\n", "Ver", "Label", "Count", "Share")
	fmt.Fprintln(w, strings.Repeat("─", 50))
	for _, r := range rows {
		fmt.Fprintf(w, "%-3s  %-28s  %6d  %5.1f%%\n", r.Version, r.Label, r.Count, r.Share)
	}
}
