package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/spvc/internal/cache"
	"github.com/Norgate-AV/spvc/internal/codes"
	"github.com/Norgate-AV/spvc/internal/config"
)

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [files...]",
		Short: "Remove cached SPIR-V artifacts",
		Long: `Delete artifacts recorded in the artifact database. With no arguments
every recorded artifact is removed and the database is emptied; otherwise
only the artifacts of the named shader sources are removed.
Artifacts written with --no-cache or by other tools are left alone.`,
		Args:          cobra.ArbitraryArgs,
		RunE:          runClean,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

func runClean(cmd *cobra.Command, args []string) error {
	store, _, err := openStore(cmd, args)
	if err != nil {
		return err
	}
	defer store.Close()

	spinner, _ := newSpinner().Start("Removing cached artifacts...")

	var removed int
	if len(args) == 0 {
		removed, err = store.Clear()
	} else {
		removed, err = removeSources(store, args)
	}

	if spinner != nil {
		_ = spinner.Stop()
	}

	if err != nil {
		return &cliError{code: codes.WriteError, err: fmt.Errorf("failed to clear cache: %w", err)}
	}

	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("✓ Removed %d cached artifacts", removed)))

	return nil
}

// removeSources deletes the recorded artifacts of the given sources and
// their ledger entries. Unrecorded sources are skipped.
func removeSources(store *cache.Manifest, sources []string) (int, error) {
	removed := 0
	for _, source := range sources {
		absPath, err := filepath.Abs(source)
		if err != nil {
			return removed, fmt.Errorf("failed to resolve %s: %w", source, err)
		}

		entry, err := store.Get(absPath)
		if err != nil {
			return removed, err
		}

		if entry == nil {
			continue
		}

		n, err := cache.RemoveArtifacts([]string{entry.ArtifactFile})
		removed += n
		if err != nil {
			return removed, err
		}

		if err := store.Remove(absPath); err != nil {
			return removed, err
		}
	}

	return removed, nil
}

// openStore opens the artifact database named by the loaded configuration
func openStore(cmd *cobra.Command, args []string) (*cache.Manifest, *config.Config, error) {
	cfg, err := config.NewLoader().LoadForBuild(cmd, args)
	if err != nil {
		return nil, nil, &cliError{code: codes.UsageError, err: fmt.Errorf("failed to load configuration: %w", err)}
	}

	store, err := cache.NewManifest(cfg.CacheDir)
	if err != nil {
		return nil, nil, &cliError{code: codes.GeneralError, err: err}
	}

	return store, cfg, nil
}
