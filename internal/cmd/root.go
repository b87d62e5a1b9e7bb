/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Digital-Shane/tvshowinfo/internal/alias"
	"github.com/Digital-Shane/tvshowinfo/internal/config"
	"github.com/Digital-Shane/tvshowinfo/internal/core"
	"github.com/Digital-Shane/tvshowinfo/internal/filesystem"
	"github.com/Digital-Shane/tvshowinfo/internal/log"
	"github.com/Digital-Shane/tvshowinfo/internal/provider"
	"github.com/Digital-Shane/tvshowinfo/internal/provider/catalog"
	"github.com/samber/mo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// Options carries the collaborators of one run.
type Options struct {
	Registry *provider.Registry
	Fs       afero.Fs
	Stdout   io.Writer
	Stderr   io.Writer
}

func (o Options) withDefaults() Options {
	if o.Registry == nil {
		o.Registry = provider.GlobalRegistry
	}
	if o.Fs == nil {
		o.Fs = filesystem.API()
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	return o
}

type flags struct {
	show             string
	episode          string
	season           int
	episodeNumber    int
	absolute         int
	language         string
	forceUnderscores bool
	verbose          bool
	provider         string
	aliasPath        string
}

// NewRootCommand builds the tvshowinfo command.
func NewRootCommand(opts Options) *cobra.Command {
	opts = opts.withDefaults()
	f := &flags{}

	rootCmd := &cobra.Command{
		Use:   "tvshowinfo",
		Short: "Look up a TV episode and print it for VDR epgsearch",
		Long: `tvshowinfo resolves an episode of a TV show by episode title, by season and
episode number or by absolute episode number, and prints one line in the form

  Serien~<show>~<season>x<episode> - <episode title>

Titles are matched exactly first and then fuzzily. Alternate show titles can be
mapped to provider ids in exceptions.txt. Nothing is printed when no episode
matches; the exit status tells why (1 invalid input, 2 provider failure,
5 not found).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, f)
		},
	}

	fl := rootCmd.Flags()
	fl.StringVarP(&f.show, "show", "s", "", "Name of the TV show")
	fl.StringVarP(&f.episode, "episode", "e", "", "Episode title")
	fl.IntVar(&f.season, "seasonnumber", 0, "Season number (legacy: -sn)")
	fl.IntVar(&f.episodeNumber, "episodenumber", 0, "Episode number (legacy: -en)")
	fl.IntVar(&f.absolute, "overallepisodenumber", 0, "Absolute episode number, often not set by the provider (legacy: -oen)")
	fl.StringVar(&f.language, "language", "en", "Language of the results (legacy: -lang)")
	fl.BoolVar(&f.forceUnderscores, "forceunderscores", false, "Use underscores instead of spaces (legacy: -fus)")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "Write debug output to stderr")
	fl.StringVar(&f.provider, "provider", catalog.DefaultProvider, "Metadata provider: tvdb, tmdb or omdb")
	fl.StringVar(&f.aliasPath, "alias-path", alias.DefaultPath, "Colon-separated directories searched for exceptions.txt and config.json")
	rootCmd.MarkFlagRequired("show")

	return rootCmd
}

func run(cmd *cobra.Command, opts Options, f *flags) error {
	log.Setup(opts.Stderr, f.verbose)

	cfg, err := config.Load(opts.Fs, cmd.Flags())
	if err != nil {
		return err
	}

	query := core.ShowQuery{
		ShowName:         f.show,
		EpisodeTitle:     f.episode,
		Season:           intFlag(cmd, "seasonnumber", f.season),
		Episode:          intFlag(cmd, "episodenumber", f.episodeNumber),
		Absolute:         intFlag(cmd, "overallepisodenumber", f.absolute),
		Language:         cfg.Language,
		ForceUnderscores: f.forceUnderscores,
	}
	// Input problems must surface before any provider login.
	if err := query.Validate(); err != nil {
		return err
	}

	p, err := selectProvider(opts.Registry, cfg)
	if err != nil {
		return err
	}

	out, err := core.NewService(p, aliasSource(opts.Fs, cfg)).Lookup(cmd.Context(), query)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// aliasSource returns the alias table for the selected provider, or nil when
// that provider has none.
func aliasSource(fs afero.Fs, cfg *config.Config) core.AliasSource {
	file := cfg.AliasFileFor(cfg.Provider)
	if file == "" {
		log.Debugf("No alias table configured for provider %s", cfg.Provider)
		return nil
	}

	source := alias.NewSource(fs, cfg.AliasPath)
	source.Name = file
	return source
}

// intFlag treats an explicitly given flag as present, including zero.
func intFlag(cmd *cobra.Command, name string, value int) mo.Option[int] {
	if cmd.Flags().Changed(name) {
		return mo.Some(value)
	}
	return mo.None[int]()
}

func selectProvider(reg *provider.Registry, cfg *config.Config) (provider.Provider, error) {
	name := cfg.Provider
	if _, ok := reg.Get(name); !ok {
		return nil, fmt.Errorf("unknown provider %q (available: %s)", name, strings.Join(reg.List(), ", "))
	}

	if err := reg.Configure(name, cfg.ProviderConfig(name)); err != nil {
		var perr *provider.ProviderError
		if errors.As(err, &perr) {
			return nil, fmt.Errorf("%w: %w", core.ErrUpstream, err)
		}
		return nil, err
	}

	return reg.Select(name)
}

// Run executes one invocation and returns its exit status.
func Run(ctx context.Context, args []string, opts Options) int {
	opts = opts.withDefaults()
	log.Setup(opts.Stderr, false)

	rootCmd := NewRootCommand(opts)
	rootCmd.SetArgs(NormalizeArgs(args))
	rootCmd.SetOut(opts.Stdout)
	rootCmd.SetErr(opts.Stderr)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return core.ExitOK
	}

	// Lookup outcomes are only reported in verbose mode; stdout stays empty
	// and the exit status carries the result.
	switch {
	case errors.Is(err, core.ErrUpstream):
		logUpstream(err)
	case errors.Is(err, core.ErrValidation), errors.Is(err, core.ErrNotFound):
		log.Debugf("%v", err)
	default:
		log.Errorf("%v", err)
	}
	return core.ExitCode(err)
}

func logUpstream(err error) {
	var perr *provider.ProviderError
	if errors.As(err, &perr) && perr.Retry {
		log.WithField("retry_after", perr.RetryAfter).Debugf("%v", err)
		return
	}
	log.Debugf("%v", err)
}

// Execute runs the command with the process arguments and exits.
// This is called by main.main().
func Execute() {
	if err := catalog.LoadBuiltinProviders(provider.GlobalRegistry); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(core.ExitValidation)
	}
	os.Exit(Run(context.Background(), os.Args[1:], Options{}))
}
