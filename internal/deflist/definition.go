package deflist

import (
    "fmt"
    "strings"

    yaml "gopkg.in/yaml.v3"

    "github.com/hyperifyio/mdmodify/internal/plugin"
    "github.com/hyperifyio/mdmodify/internal/terms"
)

// DefinitionInfo describes a defined term. Anchor defaults to a name derived
// from the term and PostprocessType, when set, overrides the directive-level
// type for this term only.
type DefinitionInfo struct {
    Definition      string                 `yaml:"definition"`
    Anchor          string                 `yaml:"anchor"`
    PostprocessType *terms.PostprocessType `yaml:"postprocess_type"`
}

// UnmarshalYAML accepts either the definition text or a mapping with
// definition, anchor, and postprocess_type keys.
func (d *DefinitionInfo) UnmarshalYAML(node *yaml.Node) error {
    if node.Kind == yaml.ScalarNode {
        *d = DefinitionInfo{Definition: node.Value}
        return nil
    }
    if node.Kind != yaml.MappingNode {
        return fmt.Errorf("line %d: a definition must be a string or a mapping", node.Line)
    }
    type plain DefinitionInfo
    var v plain
    if err := node.Decode(&v); err != nil {
        return err
    }
    *d = DefinitionInfo(v)
    return nil
}

// Definition is a term with its resolved information.
type Definition struct {
    Term string
    DefinitionInfo
}

// DecodeDefinitions decodes a term -> definition mapping, keeping document
// order.
func DecodeDefinitions(node *yaml.Node) ([]Definition, error) {
    if node == nil || node.Kind != yaml.MappingNode {
        return nil, fmt.Errorf("definitions must be a mapping of term to definition")
    }
    defs := make([]Definition, 0, len(node.Content)/2)
    seen := make(map[string]struct{}, len(node.Content)/2)
    for i := 0; i+1 < len(node.Content); i += 2 {
        var term string
        if err := node.Content[i].Decode(&term); err != nil {
            return nil, err
        }
        if _, dup := seen[term]; dup {
            return nil, fmt.Errorf("term '%s' is defined more than once", term)
        }
        seen[term] = struct{}{}
        var info DefinitionInfo
        if err := node.Content[i+1].Decode(&info); err != nil {
            return nil, fmt.Errorf("%s: %w", term, err)
        }
        defs = append(defs, Definition{Term: term, DefinitionInfo: info})
    }
    return defs, nil
}

// GenerateContentFunc renders resolved definitions for the document at path.
type GenerateContentFunc func(path string, defs []Definition, indentation int) string

// DefaultGenerateContent renders each definition as a paragraph holding the
// term as a self-anchor and the definition indented by indentation &nbsp;
// entities.
func DefaultGenerateContent(_ string, defs []Definition, indentation int) string {
    pad := strings.Repeat("&nbsp;", indentation)
    var b strings.Builder
    for _, d := range defs {
        b.WriteString("<p>\n")
        b.WriteString(`  <div><i><a id="` + d.Anchor + `">` + d.Term + "</a></i></div>\n")
        b.WriteString("  <div>" + pad + d.Definition + "</div>\n")
        b.WriteString("</p>\n")
    }
    return b.String()
}

// Options configure one DefinitionList directive.
type Options struct {
    PostprocessType terms.PostprocessType `yaml:"postprocess_type"`
    Indentation     int                   `yaml:"indentation"`
    GenerateContent GenerateContentFunc   `yaml:"-"`
}

// DefaultOptions returns the options used when a directive sets none.
func DefaultOptions() Options {
    return Options{
        PostprocessType: terms.DefaultPostprocessType,
        Indentation:     2,
        GenerateContent: DefaultGenerateContent,
    }
}

func (o Options) validate() error {
    if o.Indentation < 0 {
        return plugin.Configf("indentation values must be >= 0.")
    }
    return o.PostprocessType.Validate()
}
