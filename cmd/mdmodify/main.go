package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize/english"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/mdmodify/internal/app"
)

type options struct {
	cfg        app.Config
	configFile string
	envFiles   []string
}

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var o options
	root := &cobra.Command{
		Use:   "mdmodify",
		Short: "Expands directives embedded in Markdown files",
		Long: `mdmodify expands [[[ ... ]]] directives embedded in Markdown files,
generating tables of contents and definition lists and linking defined terms
wherever they appear in the document.`,
		Version:       app.VersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringArrayVar(&o.cfg.IncludeFiles, "include-filename", nil, "Regular expression matching filenames to include; may be repeated")
	pf.StringArrayVar(&o.cfg.ExcludeFiles, "exclude-filename", nil, "Regular expression matching filenames to exclude; may be repeated")
	pf.StringArrayVar(&o.cfg.IncludeExtensions, "include-extension", nil, "Name of an extension to include; may be repeated")
	pf.StringArrayVar(&o.cfg.ExcludeExtensions, "exclude-extension", nil, "Name of an extension to exclude; may be repeated")
	pf.BoolVar(&o.cfg.CheckAnchors, "check-anchors", false, "Fail documents that link to anchors they do not define")
	pf.IntVar(&o.cfg.Concurrency, "concurrency", 0, "Maximum documents processed in parallel (0 uses all CPUs)")
	pf.StringVar(&o.cfg.CacheDir, "cache.dir", "", "Result cache directory; empty disables caching")
	pf.DurationVar(&o.cfg.CacheMaxAge, "cache.maxAge", 0, "Max age for cache entries before purge (e.g. 24h); 0 disables")
	pf.BoolVar(&o.cfg.CacheClear, "cache.clear", false, "Clear cache directory before run")
	pf.BoolVar(&o.cfg.CacheStrictPerms, "cache.strictPerms", false, "Restrict cache permissions (0700 dirs, 0600 files)")
	pf.BoolVarP(&o.cfg.Verbose, "verbose", "v", false, "Verbose logging")
	pf.StringVar(&o.configFile, "config", "", "Path to a YAML or JSON configuration file")
	pf.StringArrayVar(&o.envFiles, "env-file", []string{".env"}, "Dotenv file loaded before reading MDMODIFY_* variables; may be repeated")

	root.AddCommand(executeCmd(&o))
	root.AddCommand(validateCmd(&o))
	root.AddCommand(extensionsCmd())
	return root
}

// resolve layers flags over the config file over the environment and
// validates the result.
func (o *options) resolve(args []string) (*app.App, error) {
	cfg := o.cfg
	if len(args) > 0 {
		cfg.InputPath = args[0]
	}
	if o.configFile != "" {
		fc, err := app.LoadConfigFile(o.configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	if err := app.LoadEnvFiles(o.envFiles...); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}
	app.ApplyEnvToConfig(&cfg)

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	o.cfg = cfg
	return app.New(cfg)
}

func markdownFiles(n int) string {
	return english.Plural(n, "markdown file", "")
}

func reportFailures(w io.Writer, s app.Summary) {
	for _, f := range s.Failed() {
		fmt.Fprintf(w, "%s\n    %s\n\n", f.Path, strings.ReplaceAll(strings.TrimRight(f.Err.Error(), "\n"), "\n", "\n    "))
	}
}

func executeCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "execute [file-or-directory]",
		Short: "Modifies markdown files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.resolve(args)
			if err != nil {
				return err
			}
			s, err := a.Execute(context.Background())
			w := cmd.OutOrStdout()
			reportFailures(w, s)
			if len(s.Files) == 0 && err == nil {
				fmt.Fprintln(w, "No markdown files were found.")
				return nil
			}
			verb := "modified"
			if o.cfg.DryRun {
				verb = "would be modified"
			}
			fmt.Fprintf(w, "%s %s.\n", markdownFiles(len(s.Changed())), verb)
			if o.cfg.Verbose {
				for _, f := range s.Files {
					if f.Err != nil {
						continue
					}
					state := "Unmodified"
					if f.Changed {
						state = "Modified"
					}
					fmt.Fprintf(w, "%s: %s\n", f.Path, state)
				}
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&o.cfg.DryRun, "dry-run", false, "Report changes without writing files")
	return cmd
}

func validateCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file-or-directory]",
		Short: "Fails if any markdown file would be modified",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.resolve(args)
			if err != nil {
				return err
			}
			s, err := a.Validate(context.Background())
			w := cmd.OutOrStdout()
			reportFailures(w, s)
			for _, path := range s.Changed() {
				fmt.Fprintf(w, "Changes were detected in '%s'.\n", path)
			}
			switch {
			case errors.Is(err, app.ErrChangesDetected):
				return fmt.Errorf("%s would be modified: %w", markdownFiles(len(s.Changed())), err)
			case err != nil:
				return err
			}
			fmt.Fprintln(w, "No changes were detected.")
			return nil
		},
	}
}

func extensionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extensions",
		Short: "Lists the available extensions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := app.NewRegistry()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSTAGES\tDESCRIPTION")
			for _, m := range reg.Catalog() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Name, strings.Join(m.Stages, ","), m.Description)
			}
			return tw.Flush()
		},
	}
}
