package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/readlevel/internal/scoring"
	"github.com/abhisek/readlevel/internal/store"
	"github.com/abhisek/readlevel/internal/ui/theme"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recent scoring events",
	Long: `Show recent scoring events, newest first.

Each event is one scored attempt as seen by the observability log,
including whether the fluency cap or the accuracy hard floor applied.
Use --after with the last sequence shown to page forward.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		version, _ := cmd.Flags().GetString("version")
		after, _ := cmd.Flags().GetInt64("after")

		s, err := openConfiguredStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		opts := store.QueryOpts{Limit: limit, After: after}
		if version != "" {
			opts.Version = string(scoring.ParseVersion(version))
		}
		events, err := s.EventRepo().QueryScoringEvents(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			p := theme.NewPrinter(out)
			fmt.Fprintln(out, p.Render(theme.Hint, "No scoring events found."))
			return nil
		}
		printEvents(out, events)
		return nil
	},
}

func init() {
	eventsCmd.Flags().Int("limit", 20, "Maximum number of events to show")
	eventsCmd.Flags().String("version", "", "Only show events from this scorer version")
	eventsCmd.Flags().Int64("after", 0, "Only show events with a sequence above this one")
}

func printEvents(w io.Writer, events []store.ScoringEventRecord) {
	fmt.Fprintf(w, "%-6s  %-19s  %-3s  %-5s  %-9s  %-28s  %s\n",
		"Seq", "Time", "Ver", "Grade", "Composite", "Label", "Flags")
	fmt.Fprintln(w, strings.Repeat("─", 96))
	for _, e := range events {
		fmt.Fprintf(w, "%-6d  %-19s  %-3s  %-5d  %-9d  %-28s  %s\n",
			e.Sequence,
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			e.Version,
			e.Grade,
			e.CompositeScore,
			e.Label,
			eventFlags(e.ScoringEventData),
		)
	}
}

func eventFlags(d store.ScoringEventData) string {
	var flags []string
	if d.CapEngaged {
		flags = append(flags, "cap")
	}
	if d.AccuracyHardFloorApplied {
		flags = append(flags, "hard-floor")
	}
	if d.FluencyFloorMet != nil && !*d.FluencyFloorMet {
		flags = append(flags, "fluency-floor-missed")
	}
	if d.ComprehensionFloorMet != nil && !*d.ComprehensionFloorMet {
		flags = append(flags, "comprehension-floor-missed")
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, ",")
}
