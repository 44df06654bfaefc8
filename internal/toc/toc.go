package toc

import (
    "iter"
    "slices"
    "strings"

    "github.com/hyperifyio/mdmodify/internal/heading"
)

// pathEntry tracks whether a heading path entry already produced a line item.
type pathEntry struct {
    info    HeadingInfo
    emitted bool
}

func infos(path []*pathEntry) []HeadingInfo {
    out := make([]HeadingInfo, len(path))
    for i, e := range path {
        out[i] = e.info
    }
    return out
}

// LineItems walks headings in document order and yields the section's line
// items lazily. Headings deeper than HeadingMax are ignored. Headings above
// HeadingMin shape numbering but are not listed. When a heading skips levels
// the missing levels are filled with UnknownHeadingName entries numbered 1.
// Fill entries deeper than HeadingMin are listed without an anchor the first
// time a heading below them is listed; shallower ones only shape numbering.
func (s *Section) LineItems(headings []heading.Record) iter.Seq[LineItem] {
    return func(yield func(LineItem) bool) {
        var (
            path     []*pathEntry
            counters []int
        )
        for _, h := range headings {
            if h.Level > s.opts.HeadingMax {
                continue
            }

            for len(path) > 0 && h.Level <= path[len(path)-1].info.Level {
                path = path[:len(path)-1]
            }

            added := false
            if len(counters) < h.Level {
                counters = append(counters, make([]int, h.Level-len(counters))...)
                added = true
            } else if len(counters) > h.Level {
                counters = counters[:h.Level]
            }
            counters[h.Level-1]++

            if added {
                for i := range counters {
                    if counters[i] != 0 {
                        continue
                    }
                    counters[i] = 1
                    path = slices.Insert(path, i, &pathEntry{info: HeadingInfo{
                        Text:  s.opts.UnknownHeadingName,
                        Level: i + 1,
                        Index: 1,
                    }})
                }
            }

            path = append(path, &pathEntry{info: HeadingInfo{Text: h.Text, Level: h.Level, Index: counters[h.Level-1]}})

            if h.Level < s.opts.HeadingMin {
                continue
            }

            // Flush fill-in entries that are now within range.
            for i := s.opts.HeadingMin; i < len(path)-1; i++ {
                if path[i].emitted {
                    continue
                }
                path[i].emitted = true
                if !yield(LineItem{Prefix: s.prefix(infos(path[:i+1])), Text: path[i].info.Text}) {
                    return
                }
            }

            last := path[len(path)-1]
            last.emitted = true
            if !yield(LineItem{Prefix: s.prefix(infos(path)), Text: h.Text, Anchor: h.Anchor}) {
                return
            }
        }
    }
}

// Render generates the section's replacement text for the document at path.
func (s *Section) Render(path string, headings []heading.Record) string {
    return s.opts.Generate(path, s.LineItems(headings))
}

// GenerateLineItems validates opts and returns the line items for headings.
func GenerateLineItems(headings []heading.Record, opts Options) (iter.Seq[LineItem], error) {
    s, err := Compile(opts)
    if err != nil {
        return nil, err
    }
    return s.LineItems(headings), nil
}

// DefaultGenerate renders each line item as a <div> holding the prefix, with
// spaces as &nbsp;, followed by the heading text linked to its anchor.
func DefaultGenerate(_ string, items iter.Seq[LineItem]) string {
    var lines []string
    for item := range items {
        content := item.Text
        if item.Anchor != "" {
            content = `<a href="#` + item.Anchor + `">` + content + `</a>`
        }
        sep := ""
        if item.Prefix != "" {
            sep = " "
        }
        lines = append(lines, "<div>"+strings.ReplaceAll(item.Prefix, " ", "&nbsp;")+sep+content+"</div>")
    }
    return strings.Join(lines, "\n")
}
