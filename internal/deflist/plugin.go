package deflist

import (
    "fmt"

    "github.com/hyperifyio/mdmodify/internal/directive"
    "github.com/hyperifyio/mdmodify/internal/morph"
    "github.com/hyperifyio/mdmodify/internal/plugin"
    "github.com/hyperifyio/mdmodify/internal/terms"
)

// Name is the directive name of the definition list extension.
const Name = "DefinitionList"

// Plugin renders definition lists and, during postprocessing, links
// occurrences of every defined term in the document to its definition.
// Entries from all DefinitionList directives of a document share one pass.
type Plugin struct {
    entries []terms.Entry
}

// New creates a definition list extension.
func New() *Plugin { return &Plugin{} }

func (p *Plugin) Name() string { return Name }

func (p *Plugin) Description() string {
    return "Renders term definitions and links occurrences of the terms to them."
}

// Execute takes the definitions mapping as its only positional argument and
// the keyword arguments postprocess_type and indentation.
func (p *Plugin) Execute(path string, call directive.Call) (string, error) {
    if err := call.CheckArity(1, 1); err != nil {
        return "", err
    }
    if err := call.CheckKeywords("postprocess_type", "indentation"); err != nil {
        return "", err
    }
    defs, err := DecodeDefinitions(call.Args[0])
    if err != nil {
        return "", err
    }
    opts := DefaultOptions()
    if err := call.DecodeKeywords(&opts); err != nil {
        return "", err
    }
    return p.AddDefinitions(path, defs, opts)
}

// AddDefinitions registers defs for postprocessing and returns their markup.
// Anchors left empty are derived from the term.
func (p *Plugin) AddDefinitions(path string, defs []Definition, opts Options) (string, error) {
    if err := opts.validate(); err != nil {
        return "", err
    }
    if opts.GenerateContent == nil {
        opts.GenerateContent = DefaultGenerateContent
    }

    resolved := make([]Definition, len(defs))
    var entries []terms.Entry
    for i, d := range defs {
        if d.Anchor == "" {
            d.Anchor = plugin.CreateAnchorName(d.Term)
        }
        resolved[i] = d

        t := opts.PostprocessType
        if d.PostprocessType != nil {
            t = *d.PostprocessType
        }
        if err := t.Validate(); err != nil {
            return "", err
        }
        if t&terms.Lemmatisation != 0 {
            return "", fmt.Errorf("%s: %w", d.Term, terms.ErrNotImplemented)
        }
        if t == terms.NoPostprocessing {
            continue
        }
        entries = append(entries, terms.Entry{Term: d.Term, Anchor: d.Anchor, Type: t})
    }
    p.entries = append(p.entries, entries...)
    return opts.GenerateContent(path, resolved, opts.Indentation), nil
}

// Postprocess removes previously generated links and links every occurrence
// of the registered terms, including inflected forms for Stemming terms.
func (p *Plugin) Postprocess(_ string, content string) (string, error) {
    content = terms.StripLinks(content)
    if len(p.entries) == 0 {
        return content, nil
    }
    matchers, err := terms.BuildMatchers(p.entries)
    if err != nil {
        return "", err
    }
    matchers, err = morph.Expand(content, matchers)
    if err != nil {
        return "", err
    }
    return terms.Render(content, matchers), nil
}

// Reset drops the terms recorded for the previous document.
func (p *Plugin) Reset() { p.entries = nil }
