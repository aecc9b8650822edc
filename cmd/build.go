package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/spvc/internal/cache"
	"github.com/Norgate-AV/spvc/internal/codes"
	"github.com/Norgate-AV/spvc/internal/compiler"
	"github.com/Norgate-AV/spvc/internal/config"
	"github.com/Norgate-AV/spvc/internal/manifest"
	"github.com/Norgate-AV/spvc/internal/translator"
)

func newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build [files...]",
		Short: "Compile shaders to SPIR-V",
		Long: `Compile each shader file, or every shader listed in an HCL manifest.
Results are cached as <source>.spv and reused while newer than the source.`,
		RunE:          runBuild,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// target is one shader to compile
type target struct {
	name     string
	path     string
	kind     compiler.ShaderKind
	useCache bool
}

func runBuild(cmd *cobra.Command, args []string) error {
	loader := config.NewLoader()
	cfg, err := loader.LoadForBuild(cmd, args)
	if err != nil {
		return &cliError{code: codes.UsageError, err: fmt.Errorf("failed to load configuration: %w", err)}
	}

	if len(args) == 0 && cfg.Manifest == "" {
		return usageError("requires at least one shader file or --manifest")
	}

	targets, includeDirs, err := collectTargets(cfg, args)
	if err != nil {
		return err
	}

	if cfg.OutputFile != "" && len(targets) != 1 {
		return usageError("--out requires exactly one shader, got %d", len(targets))
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)

	builder := cfg.CompilerBuilder().
		WithTranslator(translator.NewNaga()).
		WithLogger(logger)

	for _, dir := range includeDirs {
		builder = builder.WithIncludeDir(dir)
	}

	if !cfg.NoCache {
		store, err := cache.NewManifest(cfg.CacheDir)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), warningStyle.Render(fmt.Sprintf("Warning: artifact database unavailable: %v", err)))
		} else {
			defer store.Close()
			builder = builder.WithRecorder(store)
		}
	}

	c, err := builder.Build()
	if err != nil {
		return &cliError{code: codes.GeneralError, err: fmt.Errorf("failed to create compiler: %w", err)}
	}

	if cfg.Verbose {
		fmt.Fprintf(cmd.OutOrStdout(), "SPIR-V: %s\nInclude dirs: %v\nMacros: %v\nCache: %t\n",
			cfg.Spirv, c.IncludeDirs(), cfg.Defines, !cfg.NoCache)
	}

	var firstErr error
	failed := 0

	for _, t := range targets {
		spinner, _ := newSpinner().Start(fmt.Sprintf("Compiling %s...", t.name))

		words, err := c.CompileFromFile(t.path, t.kind, t.useCache && !cfg.NoCache)

		if spinner != nil {
			_ = spinner.Stop()
		}

		if err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}

			fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render("✗ "+t.name))
			fmt.Fprintln(cmd.ErrOrStderr(), err)
			continue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
			successStyle.Render("✓ "+t.name),
			mutedStyle.Render(fmt.Sprintf("(%s, %d words)", t.kind, len(words))))

		if cfg.OutputFile != "" {
			if err := cache.WriteArtifact(cfg.OutputFile, words); err != nil {
				return &cliError{code: codes.WriteError, err: fmt.Errorf("failed to write output: %w", err)}
			}

			if cfg.Verbose {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", cfg.OutputFile)
			}
		}
	}

	if len(targets) > 1 {
		summary := fmt.Sprintf("Compiled %d of %d shaders", len(targets)-failed, len(targets))
		fmt.Fprintln(cmd.OutOrStdout(), boxStyle.Render(summary))
	}

	return firstErr
}

// collectTargets returns the shaders named on the command line and in the
// manifest, plus the manifest's include directories
func collectTargets(cfg *config.Config, args []string) ([]target, []string, error) {
	var targets []target
	var includeDirs []string

	if cfg.Manifest != "" {
		m, err := manifest.Load(cfg.Manifest)
		if err != nil {
			return nil, nil, &cliError{code: codes.ManifestError, err: err}
		}

		includeDirs = m.IncludeDirs
		for _, s := range m.Shaders {
			targets = append(targets, target{
				name:     s.Name,
				path:     s.Path,
				kind:     s.Kind,
				useCache: s.UseCache,
			})
		}
	}

	forced, hasKind := cfg.ShaderKind()
	for _, arg := range args {
		kind := forced
		if !hasKind {
			inferred, err := compiler.KindFromPath(arg)
			if err != nil {
				return nil, nil, usageError("%v (use --kind)", err)
			}
			kind = inferred
		}

		targets = append(targets, target{
			name:     filepath.Base(arg),
			path:     arg,
			kind:     kind,
			useCache: true,
		})
	}

	return targets, includeDirs, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
