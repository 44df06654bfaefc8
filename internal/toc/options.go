package toc

import (
    "fmt"
    "iter"
    "strconv"
    "strings"

    yaml "gopkg.in/yaml.v3"

    "github.com/hyperifyio/mdmodify/internal/plugin"
)

// UnknownHeadingName labels levels that a document skipped.
const UnknownHeadingName = "Unknown"

// SimpleSymbols are the prefixes of the Simple strategy, cycled by depth.
var SimpleSymbols = []string{"-", "*", "."}

// HeadingInfo is an entry on the heading path used to compute prefixes.
// Index is the heading's position among its siblings, starting at 1.
type HeadingInfo struct {
    Text  string
    Level int
    Index int
}

// LineItem is one rendered table of contents entry. Anchor is empty for
// entries that stand in for a skipped heading level.
type LineItem struct {
    Prefix string
    Text   string
    Anchor string
}

// PrefixFunc computes a line item prefix from the heading path, root first.
type PrefixFunc func(path []HeadingInfo) string

// GenerateFunc renders line items into the text that replaces a section's
// placeholder. path is the document being processed.
type GenerateFunc func(path string, items iter.Seq[LineItem]) string

// PrefixKind names a predefined prefix strategy.
type PrefixKind int

const (
    // Numeric produces 1, 1.1, 1.1.1, ...
    Numeric PrefixKind = iota
    // Simple cycles through SimpleSymbols.
    Simple
)

func (k PrefixKind) String() string {
    switch k {
    case Numeric:
        return "Numeric"
    case Simple:
        return "Simple"
    default:
        return fmt.Sprintf("PrefixKind(%d)", int(k))
    }
}

// PrefixStrategy selects how line item prefixes are generated. Func takes
// precedence over Values, which take precedence over Kind.
type PrefixStrategy struct {
    Kind   PrefixKind
    Values []string
    Func   PrefixFunc
}

// UnmarshalYAML accepts a strategy name ("Numeric", "Simple", or a dotted
// name ending in one of them) or a list of literal prefixes, one per level.
func (s *PrefixStrategy) UnmarshalYAML(node *yaml.Node) error {
    switch node.Kind {
    case yaml.SequenceNode:
        var values []string
        if err := node.Decode(&values); err != nil {
            return err
        }
        *s = PrefixStrategy{Values: values}
        return nil
    case yaml.ScalarNode:
        name := node.Value
        if i := strings.LastIndexByte(name, '.'); i >= 0 {
            name = name[i+1:]
        }
        switch name {
        case "Numeric":
            *s = PrefixStrategy{Kind: Numeric}
        case "Simple":
            *s = PrefixStrategy{Kind: Simple}
        default:
            return fmt.Errorf("'%s' is not a valid line item prefix strategy", node.Value)
        }
        return nil
    default:
        return fmt.Errorf("line item prefix strategy must be a name or a list of strings")
    }
}

// Options configure one table of contents section.
type Options struct {
    HeadingMin         int            `yaml:"heading_min"`
    HeadingMax         int            `yaml:"heading_max"`
    Indentation        int            `yaml:"indentation"`
    PrefixStrategy     PrefixStrategy `yaml:"line_item_prefix_strategy"`
    UnknownHeadingName string         `yaml:"unknown_heading_name"`
    Generate           GenerateFunc   `yaml:"-"`
}

// DefaultOptions returns the options used when a directive sets none.
func DefaultOptions() Options {
    return Options{
        HeadingMin:         1,
        HeadingMax:         6,
        Indentation:        2,
        PrefixStrategy:     PrefixStrategy{Kind: Numeric},
        UnknownHeadingName: UnknownHeadingName,
        Generate:           DefaultGenerate,
    }
}

// Section is a validated set of options ready to generate line items.
type Section struct {
    opts       Options
    whitespace []string
    strategy   PrefixFunc
}

// Compile validates opts and prepares the prefix strategy.
func Compile(opts Options) (*Section, error) {
    if opts.HeadingMin < 1 {
        return nil, plugin.Configf("heading values must be >= 1.")
    }
    if opts.HeadingMax < opts.HeadingMin {
        return nil, plugin.Configf("min heading values must be <= max heading values.")
    }
    if opts.Indentation < 0 {
        return nil, plugin.Configf("indentation values must be >= 0.")
    }
    if opts.Generate == nil {
        opts.Generate = DefaultGenerate
    }

    levels := opts.HeadingMax - opts.HeadingMin + 1
    s := &Section{opts: opts, whitespace: make([]string, levels)}
    for i := range s.whitespace {
        s.whitespace[i] = strings.Repeat(" ", i*opts.Indentation)
    }

    ps := opts.PrefixStrategy
    switch {
    case ps.Func != nil:
        s.strategy = ps.Func
    case ps.Values != nil:
        if len(ps.Values) < levels {
            return nil, plugin.Configf("%d line item prefix values were expected but %d were provided.", levels, len(ps.Values))
        }
        values := ps.Values[:levels]
        first := opts.HeadingMin
        s.strategy = func(path []HeadingInfo) string {
            return values[path[len(path)-1].Level-first]
        }
    case ps.Kind == Simple:
        first := opts.HeadingMin
        s.strategy = func(path []HeadingInfo) string {
            return SimpleSymbols[(path[len(path)-1].Level-first)%len(SimpleSymbols)]
        }
    case ps.Kind == Numeric:
        s.strategy = numericPrefix
    default:
        return nil, plugin.Configf("'%s' is not a valid line item prefix strategy.", ps.Kind)
    }
    return s, nil
}

func numericPrefix(path []HeadingInfo) string {
    parts := make([]string, len(path))
    for i, h := range path {
        parts[i] = strconv.Itoa(h.Index)
    }
    return strings.Join(parts, ".")
}

// Options returns the section's options.
func (s *Section) Options() Options { return s.opts }

func (s *Section) prefix(path []HeadingInfo) string {
    return s.whitespace[path[len(path)-1].Level-s.opts.HeadingMin] + s.strategy(path)
}
