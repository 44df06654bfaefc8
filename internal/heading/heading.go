package heading

import (
    "regexp"
    "strings"

    "github.com/hyperifyio/mdmodify/internal/plugin"
)

// Record is a heading found in a document.
type Record struct {
    Level  int
    Text   string
    Anchor string
    Line   int // 1-based
}

// Explicit anchors are written as a trailing {#name}.
var headingRe = regexp.MustCompile(`^[ \t]*(#+)[ \t]+(.+?)[ \t]*(?:\{#(.+)\})?[ \t]*$`)

// Extract returns the headings of content in document order. A heading is a
// line made of one or more '#', whitespace, and the heading text, optionally
// followed by an explicit {#anchor}. Lines inside fenced code blocks are
// ignored.
func Extract(content string) []Record {
    var out []Record
    fence := ""
    for i, line := range strings.Split(content, "\n") {
        if f := fenceMarker(line); f != "" {
            switch {
            case fence == "":
                fence = f
            case strings.HasPrefix(f, fence[:1]) && len(f) >= len(fence):
                fence = ""
            }
            continue
        }
        if fence != "" {
            continue
        }
        m := headingRe.FindStringSubmatch(line)
        if m == nil {
            continue
        }
        text := strings.TrimSpace(m[2])
        anchor := m[3]
        if anchor == "" {
            anchor = plugin.CreateAnchorName(text)
        }
        out = append(out, Record{Level: len(m[1]), Text: text, Anchor: anchor, Line: i + 1})
    }
    return out
}

// fenceMarker returns the run of backticks or tildes opening line when it is
// a code fence.
func fenceMarker(line string) string {
    s := strings.TrimLeft(line, " ")
    if len(line)-len(s) > 3 || len(s) < 3 {
        return ""
    }
    c := s[0]
    if c != '`' && c != '~' {
        return ""
    }
    n := 0
    for n < len(s) && s[n] == c {
        n++
    }
    if n < 3 {
        return ""
    }
    return s[:n]
}
