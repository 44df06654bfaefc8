package toc

import (
    "fmt"
    "strings"

    "github.com/hyperifyio/mdmodify/internal/directive"
    "github.com/hyperifyio/mdmodify/internal/heading"
    "github.com/hyperifyio/mdmodify/internal/plugin"
    "github.com/hyperifyio/mdmodify/internal/terms"
)

// Name is the directive name of the table of contents extension.
const Name = "TableOfContents"

// Plugin expands TableOfContents directives. Execute only records the
// section options and returns a placeholder token; the table itself is
// generated during postprocessing, once every other extension has produced
// its content and all headings are known.
type Plugin struct {
    order    []string
    sections map[string]*Section
}

// New creates a table of contents extension.
func New() *Plugin {
    return &Plugin{sections: make(map[string]*Section)}
}

func (p *Plugin) Name() string { return Name }

func (p *Plugin) Description() string {
    return "Generates a table of contents from the headings of the document."
}

// Execute accepts the keyword arguments heading_min, heading_max,
// indentation, line_item_prefix_strategy, and unknown_heading_name.
func (p *Plugin) Execute(_ string, call directive.Call) (string, error) {
    if err := call.CheckArity(0, 0); err != nil {
        return "", err
    }
    if err := call.CheckKeywords("heading_min", "heading_max", "indentation", "line_item_prefix_strategy", "unknown_heading_name"); err != nil {
        return "", err
    }
    opts := DefaultOptions()
    if err := call.DecodeKeywords(&opts); err != nil {
        return "", err
    }
    return p.AddSection(opts)
}

// AddSection validates opts and returns the token that marks where the
// section is rendered.
func (p *Plugin) AddSection(opts Options) (string, error) {
    s, err := Compile(opts)
    if err != nil {
        return "", err
    }
    token := plugin.NewPlaceholderID()
    p.sections[token] = s
    p.order = append(p.order, token)
    return token, nil
}

// Postprocess replaces every section token with its rendered table.
// Generated definition links are ignored when reading heading text.
func (p *Plugin) Postprocess(path, content string) (string, error) {
    if len(p.order) == 0 {
        return content, nil
    }
    headings := heading.Extract(terms.StripLinks(content))
    for _, token := range p.order {
        if n := strings.Count(content, token); n != 1 {
            return "", fmt.Errorf("table of contents placeholder found %d times; expected exactly once", n)
        }
        content = strings.Replace(content, token, p.sections[token].Render(path, headings), 1)
    }
    return content, nil
}

// Reset drops the sections recorded for the previous document.
func (p *Plugin) Reset() {
    p.order = nil
    p.sections = make(map[string]*Section)
}
