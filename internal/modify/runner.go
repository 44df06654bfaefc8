package modify

import (
    "context"
    "runtime"

    "github.com/rs/zerolog/log"
    "golang.org/x/sync/errgroup"

    "github.com/hyperifyio/mdmodify/internal/cache"
    "github.com/hyperifyio/mdmodify/internal/plugin"
)

// Factory builds a fresh extension set for one document.
type Factory func() ([]plugin.Extension, error)

// Document is an input to a batch run.
type Document struct {
    Path    string
    Content string
}

// Result is the outcome for one document. Modified is empty when Err is set.
type Result struct {
    Path     string
    Original string
    Modified string
    Cached   bool
    Err      error
}

// Changed reports whether the document would be rewritten.
func (r Result) Changed() bool { return r.Err == nil && r.Modified != r.Original }

// Runner processes documents concurrently. Each document gets its own
// extension set, so extension state is never shared. A failing document does
// not stop the others.
type Runner struct {
    Factory     Factory
    Options     Options
    // Concurrency bounds parallel documents; zero means GOMAXPROCS.
    Concurrency int
    // Cache, when enabled, short-circuits documents seen before with the
    // same content and extensions.
    Cache *cache.ResultCache
}

// Run returns one result per document, in input order.
func (r *Runner) Run(ctx context.Context, docs []Document) []Result {
    results := make([]Result, len(docs))
    limit := r.Concurrency
    if limit <= 0 {
        limit = runtime.GOMAXPROCS(0)
    }
    g, ctx := errgroup.WithContext(ctx)
    g.SetLimit(limit)
    for i, doc := range docs {
        g.Go(func() error {
            results[i] = r.one(ctx, doc)
            if results[i].Err != nil {
                log.Warn().Err(results[i].Err).Str("path", doc.Path).Msg("modify failed")
            }
            return nil
        })
    }
    _ = g.Wait()
    return results
}

func (r *Runner) one(ctx context.Context, doc Document) Result {
    res := Result{Path: doc.Path, Original: doc.Content}
    if err := ctx.Err(); err != nil {
        res.Err = err
        return res
    }
    exts, err := r.Factory()
    if err != nil {
        res.Err = err
        return res
    }

    var key string
    if r.Cache.Enabled() {
        var names []string
        for _, ext := range exts {
            if r.Options.Filter.Active(ext.Name()) {
                names = append(names, ext.Name())
            }
        }
        key = cache.KeyFrom(doc.Path, doc.Content, names)
        if e, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
            log.Debug().Str("path", doc.Path).Msg("cache hit")
            res.Modified = e.Content
            res.Cached = true
            return res
        }
    }

    out, err := Modify(doc.Path, doc.Content, exts, r.Options)
    if err != nil {
        res.Err = err
        return res
    }
    res.Modified = out
    if key != "" {
        if err := r.Cache.Save(ctx, key, doc.Path, out); err != nil {
            log.Warn().Err(err).Str("path", doc.Path).Msg("cache save failed")
        }
    }
    return res
}
