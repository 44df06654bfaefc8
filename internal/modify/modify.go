// Package modify runs a document through the extension pipeline:
// Preprocess, directive expansion, Postprocess and Finalize.
package modify

import (
    "fmt"

    "github.com/rs/zerolog/log"

    "github.com/hyperifyio/mdmodify/internal/directive"
    "github.com/hyperifyio/mdmodify/internal/plugin"
    "github.com/hyperifyio/mdmodify/internal/scrub"
)

// Status identifies the pipeline stage a document is entering.
type Status int

const (
    Preprocessing Status = iota
    Transforming
    Postprocessing
    Finalizing
)

func (s Status) String() string {
    switch s {
    case Preprocessing:
        return "Preprocessing"
    case Transforming:
        return "Transforming"
    case Postprocessing:
        return "Postprocessing"
    case Finalizing:
        return "Finalizing"
    default:
        return fmt.Sprintf("Status(%d)", int(s))
    }
}

// StatusFunc is called before each stage of a document.
type StatusFunc func(path string, status Status)

// Options control a pipeline run.
type Options struct {
    Filter   plugin.Filter
    OnStatus StatusFunc
}

// ExtensionError annotates a failure with the extension that caused it.
type ExtensionError struct {
    Extension string
    Stage     Status
    Err       error
}

func (e *ExtensionError) Error() string { return e.Extension + ": " + e.Err.Error() }

func (e *ExtensionError) Unwrap() error { return e.Err }

func wrap(ext plugin.Extension, stage Status, err error) error {
    return &ExtensionError{Extension: ext.Name(), Stage: stage, Err: err}
}

// Modify returns content with every directive expanded and every active
// extension applied. exts are visited in order at each stage; an extension
// is active unless opts.Filter excludes it. Calls to inactive extensions
// expand to nothing. Whitespace and line endings are never normalized.
func Modify(path, content string, exts []plugin.Extension, opts Options) (string, error) {
    byName := make(map[string]plugin.Extension, len(exts))
    var active []plugin.Extension
    for _, ext := range exts {
        byName[ext.Name()] = ext
        if opts.Filter.Active(ext.Name()) {
            active = append(active, ext)
        }
        if r, ok := ext.(plugin.Resetter); ok {
            r.Reset()
        }
    }
    status := func(s Status) {
        log.Debug().Str("path", path).Str("stage", s.String()).Msg("stage")
        if opts.OnStatus != nil {
            opts.OnStatus(path, s)
        }
    }

    status(Preprocessing)
    for _, ext := range active {
        p, ok := ext.(plugin.Preprocessor)
        if !ok {
            continue
        }
        log.Debug().Str("path", path).Str("extension", ext.Name()).Msg("preprocess")
        out, err := p.Preprocess(path, content)
        if err != nil {
            return "", wrap(ext, Preprocessing, err)
        }
        content = out
    }

    status(Transforming)
    content, err := directive.Transform(content, func(call directive.Call) (string, error) {
        ext, ok := byName[call.Name]
        if !ok {
            return "", fmt.Errorf("line %d: %w '%s'", call.Line, directive.ErrUnknownDirective, call.Name)
        }
        if !opts.Filter.Active(call.Name) {
            return "", nil
        }
        log.Debug().Str("path", path).Str("extension", ext.Name()).Int("line", call.Line).Msg("execute")
        out, err := ext.Execute(path, call)
        if err != nil {
            return "", wrap(ext, Transforming, err)
        }
        return out, nil
    })
    if err != nil {
        return "", err
    }

    ph := scrub.New()
    content, err = ph.Directives(content)
    if err != nil {
        return "", err
    }
    content = ph.URLs(content)

    status(Postprocessing)
    for _, ext := range active {
        p, ok := ext.(plugin.Postprocessor)
        if !ok {
            continue
        }
        log.Debug().Str("path", path).Str("extension", ext.Name()).Msg("postprocess")
        out, err := p.Postprocess(path, content)
        if err != nil {
            return "", wrap(ext, Postprocessing, err)
        }
        content = out
    }

    content, err = ph.Restore(content)
    if err != nil {
        return "", err
    }

    status(Finalizing)
    for _, ext := range active {
        f, ok := ext.(plugin.Finalizer)
        if !ok {
            continue
        }
        log.Debug().Str("path", path).Str("extension", ext.Name()).Msg("finalize")
        if err := f.Finalize(path, content); err != nil {
            return "", wrap(ext, Finalizing, err)
        }
    }
    return content, nil
}
