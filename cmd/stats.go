package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/spvc/internal/codes"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "stats",
		Short:         "Show artifact cache statistics",
		Args:          cobra.NoArgs,
		RunE:          runStats,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

func runStats(cmd *cobra.Command, args []string) error {
	store, cfg, err := openStore(cmd, args)
	if err != nil {
		return err
	}
	defer store.Close()

	count, size, err := store.Stats()
	if err != nil {
		return &cliError{code: codes.GeneralError, err: fmt.Errorf("failed to read cache statistics: %w", err)}
	}

	lines := []string{
		"Cache Statistics:",
		fmt.Sprintf("  Location: %s", store.Root()),
		fmt.Sprintf("  Artifacts: %d", count),
		fmt.Sprintf("  Total Size: %.2f KB", float64(size)/1024),
	}

	if cfg.Verbose {
		entries, err := store.Entries()
		if err != nil {
			return &cliError{code: codes.GeneralError, err: fmt.Errorf("failed to list cache entries: %w", err)}
		}

		for _, entry := range entries {
			lines = append(lines, mutedStyle.Render(fmt.Sprintf("  %s (%s, %d words)", entry.SourceFile, entry.Kind, entry.WordCount)))
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), boxStyle.Render(strings.Join(lines, "\n")))

	return nil
}
