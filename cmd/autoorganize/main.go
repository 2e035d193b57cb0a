package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/autoorganize/internal/hostconfig"
)

const helpDescription = `
Watch download folders and organize media files into your library.

Highlights:
  - Scans watch locations on a schedule and records every new media file.
  - Keeps an organization history and smart-match rules in a local SQLite database.
  - Keeps working when the database cannot be opened; results are simply not kept.
  - Configure via file, env (AUTOORGANIZE_*), or flags.
`

var exampleUsage = strings.TrimSpace(`
  autoorganize --watch /downloads --library /media/tv
  autoorganize --config $HOME/.autoorganize/config.toml --once
  autoorganize results --limit 20
  autoorganize organize <result-id> "/media/tv/Show/Season 1/Show S01E01.mkv"
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// cliState is shared by the root command and its subcommands.
type cliState struct {
	cfg     hostconfig.Config
	cfgPath string
	changed map[string]bool
}

// load resolves configuration with precedence flags > env > file > defaults.
func (s *cliState) load(cmd *cobra.Command) (string, error) {
	cfgFile := s.cfgPath
	if cfgFile == "" {
		cfgFile = hostconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })
	s.changed = changed

	if cfgFile != "" && hostconfig.FileExists(cfgFile) {
		fc, err := hostconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return "", fmt.Errorf("load config: %w", err)
		}
		if err := hostconfig.ApplyFileConfig(&s.cfg, fc, changed); err != nil {
			return "", err
		}
	}

	if err := hostconfig.ApplyEnvConfig(&s.cfg, changed); err != nil {
		return "", err
	}

	if err := s.cfg.Validate(); err != nil {
		return "", err
	}
	return cfgFile, nil
}

func main() {
	state := &cliState{cfg: hostconfig.DefaultConfig()}
	cfg := &state.cfg

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	root := &cobra.Command{
		Use:     "autoorganize",
		Short:   "Watch download folders and organize media files into your library",
		Long:    strings.TrimSpace(helpDescription),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, err := state.load(cmd)
			if err != nil {
				return err
			}

			h, err := newHost(*cfg, cfgFile, state.changed, !cfg.Once)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			if err := h.start(ctx); err != nil {
				_ = h.shutdown()
				return fmt.Errorf("start auto-organize: %w", err)
			}

			if cfg.Once {
				svc, err := h.registry.Service()
				if err == nil {
					err = svc.Scan(ctx)
				}
				if stopErr := h.shutdown(); err == nil {
					err = stopErr
				}
				return err
			}

			svc, err := h.registry.Service()
			if err == nil {
				err = svc.QueueScan()
			}
			if err != nil {
				log.Warn().Err(err).Msg("failed to queue initial scan")
			}

			<-sigCh
			log.Info().Msg("received signal, stopping...")
			cancel()

			return h.shutdown()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&state.cfgPath, "config", "", "path to config file (default: $HOME/.autoorganize/config.toml)")
	pf.StringVar(&cfg.Home, "home", cfg.Home, "application home directory")
	pf.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "database directory (defaults to <home>/data)")
	pf.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "log directory (defaults to <home>/logs)")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	pf.BoolVar(&cfg.LogFile, "log-file", cfg.LogFile, "write JSON logs to <log-dir>/autoorganize.log")
	pf.BoolVar(&cfg.Console, "console", cfg.Console, "write human-readable logs to stderr")

	root.Flags().StringSliceVar(&cfg.LibraryRoots, "library", cfg.LibraryRoots, "library root folder (repeatable)")
	root.Flags().StringSliceVar(&cfg.WatchLocations, "watch", cfg.WatchLocations, "watch location to scan (repeatable)")
	root.Flags().StringSliceVar(&cfg.Extensions, "extensions", cfg.Extensions, "media file extensions to pick up")
	root.Flags().IntVar(&cfg.MinFileSizeMB, "min-size", cfg.MinFileSizeMB, "minimum file size in MB")
	root.Flags().DurationVar(&cfg.ScanInterval, "scan-interval", cfg.ScanInterval, "interval between scans (0 disables scheduled scans)")
	root.Flags().BoolVar(&cfg.DeleteEmptyFolders, "delete-empty-folders", cfg.DeleteEmptyFolders, "remove source folders left empty after a move")
	root.Flags().BoolVar(&cfg.OverwriteExisting, "overwrite", cfg.OverwriteExisting, "overwrite existing files in the library")
	root.Flags().BoolVar(&cfg.CopyOriginalFile, "copy", cfg.CopyOriginalFile, "copy instead of move")
	root.Flags().BoolVar(&cfg.Once, "once", cfg.Once, "run one scan and exit")

	root.AddCommand(
		newResultsCommand(state),
		newSmartMatchCommand(state),
		newOrganizeCommand(state),
	)

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("autoorganize")
		os.Exit(1)
	}
}
