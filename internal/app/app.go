package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/mdmodify/internal/cache"
	"github.com/hyperifyio/mdmodify/internal/modify"
	"github.com/hyperifyio/mdmodify/internal/plugin"
)

// ErrChangesDetected is returned by Validate when any document would change.
var ErrChangesDetected = errors.New("changes were detected")

// ErrDocumentsFailed is returned when at least one document could not be
// processed. Other documents are still handled.
var ErrDocumentsFailed = errors.New("markdown files failed")

type App struct {
	cfg      Config
	registry *plugin.Registry
	filter   plugin.Filter
	include  []*regexp.Regexp
	exclude  []*regexp.Regexp
	cache    *cache.ResultCache
}

// FileResult is the outcome for a single Markdown file.
type FileResult struct {
	Path    string
	Changed bool
	Cached  bool
	Err     error
}

// Summary describes a batch run.
type Summary struct {
	Files []FileResult
}

// Changed returns the paths of documents that were, or would be, modified.
func (s Summary) Changed() []string {
	var out []string
	for _, f := range s.Files {
		if f.Changed {
			out = append(out, f.Path)
		}
	}
	return out
}

// Failed returns the results of documents that could not be processed.
func (s Summary) Failed() []FileResult {
	var out []FileResult
	for _, f := range s.Files {
		if f.Err != nil {
			out = append(out, f)
		}
	}
	return out
}

func New(cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	reg, err := NewRegistry()
	if err != nil {
		return nil, err
	}
	a := &App{cfg: cfg, registry: reg, filter: ExtensionFilter(cfg)}
	if a.include, err = compileAll(cfg.IncludeFiles); err != nil {
		return nil, err
	}
	if a.exclude, err = compileAll(cfg.ExcludeFiles); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.CacheDir) != "" {
		// Apply cache invalidation controls
		if cfg.CacheClear {
			if err := cache.ClearDir(cfg.CacheDir); err != nil {
				log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache clear failed")
			}
		}
		if cfg.CacheMaxAge > 0 {
			if n, err := cache.PurgeByAge(cfg.CacheDir, cfg.CacheMaxAge); err != nil {
				log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache purge failed")
			} else if n > 0 {
				log.Debug().Int("removed", n).Msg("purged expired cache entries")
			}
		}
		a.cache = &cache.ResultCache{Dir: cfg.CacheDir, StrictPerms: cfg.CacheStrictPerms}
	}
	return a, nil
}

// Registry returns the registry of available extensions.
func (a *App) Registry() *plugin.Registry { return a.registry }

// process modifies every discovered document and returns the per-document
// results in discovery order.
func (a *App) process(ctx context.Context) ([]modify.Result, error) {
	paths, err := DiscoverFiles(a.cfg.InputPath, a.include, a.exclude)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		log.Info().Str("input", a.cfg.InputPath).Msg("no markdown files were found")
		return nil, nil
	}

	docs := make([]modify.Document, 0, len(paths))
	var results []modify.Result
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			results = append(results, modify.Result{Path: p, Err: err})
			continue
		}
		docs = append(docs, modify.Document{Path: p, Content: string(b)})
	}

	r := &modify.Runner{
		Factory:     NewExtensions,
		Options:     modify.Options{Filter: a.filter, OnStatus: onStatus},
		Concurrency: a.cfg.Concurrency,
		Cache:       a.cache,
	}
	return append(results, r.Run(ctx, docs)...), nil
}

func onStatus(path string, s modify.Status) {
	log.Debug().Str("path", path).Str("status", s.String()).Msg("status")
}

func summarize(results []modify.Result) Summary {
	s := Summary{Files: make([]FileResult, len(results))}
	for i, r := range results {
		s.Files[i] = FileResult{Path: r.Path, Changed: r.Changed(), Cached: r.Cached, Err: r.Err}
	}
	return s
}

func failures(s Summary) error {
	if n := len(s.Failed()); n > 0 {
		return fmt.Errorf("%d %w", n, ErrDocumentsFailed)
	}
	return nil
}

// Execute rewrites every document whose content changes. With DryRun set
// nothing is written.
func (a *App) Execute(ctx context.Context) (Summary, error) {
	results, err := a.process(ctx)
	if err != nil {
		return Summary{}, err
	}
	s := summarize(results)
	for i, r := range results {
		if !r.Changed() {
			continue
		}
		if a.cfg.DryRun {
			log.Info().Str("path", r.Path).Msg("would update")
			continue
		}
		log.Debug().Str("path", r.Path).Msg("updating")
		if err := atomic.WriteFile(r.Path, strings.NewReader(r.Modified)); err != nil {
			s.Files[i].Err = fmt.Errorf("write %s: %w", r.Path, err)
			s.Files[i].Changed = false
		}
	}
	return s, failures(s)
}

// Validate fails with ErrChangesDetected when any document would change.
func (a *App) Validate(ctx context.Context) (Summary, error) {
	results, err := a.process(ctx)
	if err != nil {
		return Summary{}, err
	}
	s := summarize(results)
	if err := failures(s); err != nil {
		return s, err
	}
	if len(s.Changed()) > 0 {
		return s, ErrChangesDetected
	}
	return s, nil
}
