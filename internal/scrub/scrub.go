package scrub

import (
    "fmt"
    "regexp"
    "strings"

    "github.com/hyperifyio/mdmodify/internal/directive"
    "github.com/hyperifyio/mdmodify/internal/plugin"
)

// URLRe matches scheme-prefixed URLs such as https://example.com/a?b=c.
var URLRe = regexp.MustCompile(`[a-z]+://(?:www\.)?[-a-zA-Z0-9@:%._+~#=]{1,256}\.[a-zA-Z0-9()]{1,6}\b[-a-zA-Z0-9()@:%_+.~#?&/=]*`)

// Placeholders maps generated keys to the protected text they replaced.
// A Placeholders value belongs to a single document pass.
type Placeholders struct {
    keyToText map[string]string
}

// New creates an empty placeholder map.
func New() *Placeholders {
    return &Placeholders{keyToText: make(map[string]string)}
}

// Len returns the number of recorded placeholders.
func (p *Placeholders) Len() int { return len(p.keyToText) }

func (p *Placeholders) add(text string) string {
    key := plugin.NewPlaceholderID()
    p.keyToText[key] = text
    return key
}

// Directives replaces every directive code line (the begin line through the
// line holding the code terminator) with a placeholder key. End-output marker
// lines are left alone.
func (p *Placeholders) Directives(content string) (string, error) {
    lines := strings.Split(content, "\n")
    inDirective := false
    for i, line := range lines {
        scrub := false
        if directive.IsBeginMarkerLine(line) {
            inDirective = true
        }
        if inDirective {
            scrub = true
            if directive.IsEndMarkerLine(line) {
                inDirective = false
            }
        }
        if scrub {
            lines[i] = p.add(line)
        }
    }
    if inDirective {
        return "", fmt.Errorf("unterminated directive code")
    }
    return strings.Join(lines, "\n"), nil
}

// URLs replaces every URL-like substring with a placeholder key.
func (p *Placeholders) URLs(content string) string {
    return URLRe.ReplaceAllStringFunc(content, p.add)
}

// Restore substitutes every key back to its original text in a single pass,
// so restored text is never rescanned for other keys. Every key must still be
// present in content.
func (p *Placeholders) Restore(content string) (string, error) {
    if len(p.keyToText) == 0 {
        return content, nil
    }
    alts := make([]string, 0, len(p.keyToText))
    for key := range p.keyToText {
        alts = append(alts, regexp.QuoteMeta(key))
    }
    re := regexp.MustCompile(strings.Join(alts, "|"))

    seen := make(map[string]struct{}, len(p.keyToText))
    out := re.ReplaceAllStringFunc(content, func(key string) string {
        seen[key] = struct{}{}
        return p.keyToText[key]
    })
    if len(seen) != len(p.keyToText) {
        var missing int
        for key := range p.keyToText {
            if _, ok := seen[key]; !ok {
                missing++
            }
        }
        return "", fmt.Errorf("%d protected region(s) were removed during postprocessing", missing)
    }
    return out, nil
}
