package terms

import (
    "errors"
    "fmt"
    "strconv"
    "strings"

    yaml "gopkg.in/yaml.v3"

    "github.com/hyperifyio/mdmodify/internal/plugin"
)

// PostprocessType is a set of flags selecting how occurrences of a defined
// term are found and linked.
type PostprocessType uint

const (
    // Exact links occurrences that match the term exactly.
    Exact PostprocessType = 1 << iota
    // CaseInsensitive links occurrences that match ignoring case.
    CaseInsensitive
    // Stemming also links inflected forms whose stem is the term.
    Stemming
    // Lemmatisation is reserved and not implemented.
    Lemmatisation
)

const (
    // NoPostprocessing defines a term without linking its occurrences.
    NoPostprocessing PostprocessType = 0
    // DefaultPostprocessType is used when a definition does not choose one.
    DefaultPostprocessType = CaseInsensitive | Stemming
)

// ErrNotImplemented is returned when Lemmatisation is requested.
var ErrNotImplemented = errors.New("lemmatisation is not implemented")

var flagNames = []struct {
    flag PostprocessType
    name string
}{
    {Exact, "Exact"},
    {CaseInsensitive, "CaseInsensitive"},
    {Stemming, "Stemming"},
    {Lemmatisation, "Lemmatisation"},
}

func (t PostprocessType) String() string {
    if t == NoPostprocessing {
        return "NoPostprocessing"
    }
    var parts []string
    rest := t
    for _, f := range flagNames {
        if t&f.flag != 0 {
            parts = append(parts, f.name)
            rest &^= f.flag
        }
    }
    if rest != 0 {
        parts = append(parts, fmt.Sprintf("0x%x", uint(rest)))
    }
    return strings.Join(parts, "|")
}

// Has reports whether every flag in f is set.
func (t PostprocessType) Has(f PostprocessType) bool { return t&f == f }

// Validate checks that Stemming and Lemmatisation are combined with a base
// match policy.
func (t PostprocessType) Validate() error {
    if t&(Stemming|Lemmatisation) != 0 && t&(Exact|CaseInsensitive) == 0 {
        return plugin.Configf("Stemming/Lemmatisation must be used with a CaseInsensitive/Exact flag.")
    }
    return nil
}

// ParsePostprocessType parses flag names joined by '|', e.g.
// "CaseInsensitive | Stemming". Dotted names such as
// "DefinitionListType.PostprocessType.Exact" are accepted, as are
// "Default" and "NoPostprocessing".
func ParsePostprocessType(s string) (PostprocessType, error) {
    var t PostprocessType
    if strings.TrimSpace(s) == "" {
        return 0, fmt.Errorf("empty postprocess type")
    }
    for _, part := range strings.Split(s, "|") {
        name := strings.TrimSpace(part)
        if i := strings.LastIndexByte(name, '.'); i >= 0 {
            name = name[i+1:]
        }
        switch name {
        case "Exact":
            t |= Exact
        case "CaseInsensitive":
            t |= CaseInsensitive
        case "Stemming":
            t |= Stemming
        case "Lemmatisation", "Lemmatization":
            t |= Lemmatisation
        case "Default":
            t |= DefaultPostprocessType
        case "NoPostprocessing":
        default:
            return 0, fmt.Errorf("'%s' is not a valid postprocess type", strings.TrimSpace(part))
        }
    }
    return t, nil
}

// UnmarshalYAML accepts a flag expression, an integer, or a list of names.
func (t *PostprocessType) UnmarshalYAML(node *yaml.Node) error {
    switch node.Kind {
    case yaml.ScalarNode:
        if node.ShortTag() == "!!int" {
            v, err := strconv.ParseUint(node.Value, 0, 8)
            if err != nil {
                return fmt.Errorf("invalid postprocess type %q", node.Value)
            }
            if v >= uint64(Lemmatisation)<<1 {
                return fmt.Errorf("invalid postprocess type %d", v)
            }
            *t = PostprocessType(v)
            return nil
        }
        v, err := ParsePostprocessType(node.Value)
        if err != nil {
            return err
        }
        *t = v
        return nil
    case yaml.SequenceNode:
        var names []string
        if err := node.Decode(&names); err != nil {
            return err
        }
        var out PostprocessType
        for _, n := range names {
            v, err := ParsePostprocessType(n)
            if err != nil {
                return err
            }
            out |= v
        }
        *t = out
        return nil
    default:
        return fmt.Errorf("postprocess type must be a name, a number, or a list of names")
    }
}
