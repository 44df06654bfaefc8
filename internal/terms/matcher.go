package terms

import (
    "regexp"
    "strings"
    "unicode"
    "unicode/utf8"

    "golang.org/x/text/cases"
)

// Entry is a defined term whose occurrences should be linked to Anchor.
type Entry struct {
    Term   string
    Anchor string
    Type   PostprocessType
}

// Matcher finds and links occurrences of a single term.
type Matcher struct {
    Term   string
    Anchor string
    Type   PostprocessType

    caseInsensitive bool
    folded          string
    re              *regexp.Regexp
}

func newMatcher(term, anchor string, t PostprocessType, caseInsensitive bool) *Matcher {
    m := &Matcher{Term: term, Anchor: anchor, Type: t, caseInsensitive: caseInsensitive}
    if caseInsensitive {
        m.folded = fold(term)
    }
    m.re = regexp.MustCompile(`^(?:` + m.Pattern() + `)`)
    return m
}

func fold(s string) string {
    // A Caser keeps state and is not safe for concurrent use.
    return cases.Fold().String(s)
}

// CaseInsensitive reports whether the matcher ignores case.
func (m *Matcher) CaseInsensitive() bool { return m.caseInsensitive }

// Pattern returns the regular expression fragment matching the term.
func (m *Matcher) Pattern() string {
    if m.caseInsensitive {
        return `(?i:` + regexp.QuoteMeta(m.Term) + `)`
    }
    return regexp.QuoteMeta(m.Term)
}

// MatchTerm reports whether text is an occurrence of the term.
func (m *Matcher) MatchTerm(text string) bool {
    if m.caseInsensitive {
        return fold(text) == m.folded
    }
    return text == m.Term
}

// Clone returns a matcher of the same kind for another surface form that
// links to the same anchor.
func (m *Matcher) Clone(term string) *Matcher {
    return newMatcher(term, m.Anchor, m.Type, m.caseInsensitive)
}

// Link wraps text in a generated definition link.
func (m *Matcher) Link(text string) string {
    return `<a href="#` + m.Anchor + `" data-definition-list-link=1>` + text + `</a>`
}

// BuildMatchers creates one matcher per entry in order. CaseInsensitive takes
// precedence over Exact. Entries without either flag, or with an empty term,
// produce no matcher; such entries must not request Stemming or
// Lemmatisation.
func BuildMatchers(entries []Entry) ([]*Matcher, error) {
    out := make([]*Matcher, 0, len(entries))
    for _, e := range entries {
        if err := e.Type.Validate(); err != nil {
            return nil, err
        }
        if e.Term == "" {
            continue
        }
        switch {
        case e.Type&CaseInsensitive != 0:
            out = append(out, newMatcher(e.Term, e.Anchor, e.Type, true))
        case e.Type&Exact != 0:
            out = append(out, newMatcher(e.Term, e.Anchor, e.Type, false))
        }
    }
    return out, nil
}

var linkRe = regexp.MustCompile(`(?s)<a href="#[^"]*" data-definition-list-link=1>(.*?)</a>`)

// StripLinks replaces every generated definition link with its text.
func StripLinks(content string) string {
    return linkRe.ReplaceAllString(content, "$1")
}

// Render links every occurrence of the matchers' terms in content. An
// occurrence must be a whole word, must not directly follow '>' or an
// id="/href="# attribute opening, and must not be directly followed by '<'.
// At each position matchers are tried in order; the link target is the first
// matcher whose MatchTerm accepts the matched text.
func Render(content string, matchers []*Matcher) string {
    if len(matchers) == 0 {
        return content
    }
    alts := make([]string, len(matchers))
    for i, m := range matchers {
        alts[i] = m.Pattern()
    }
    candidates := regexp.MustCompile(strings.Join(alts, "|"))

    var b strings.Builder
    last := 0
    pos := 0
    for pos < len(content) {
        loc := candidates.FindStringIndex(content[pos:])
        if loc == nil {
            break
        }
        start := pos + loc[0]
        end := matchAt(content, start, matchers)
        if end < 0 {
            _, size := utf8.DecodeRuneInString(content[start:])
            if size == 0 {
                size = 1
            }
            pos = start + size
            continue
        }
        text := content[start:end]
        for _, m := range matchers {
            if m.MatchTerm(text) {
                b.WriteString(content[last:start])
                b.WriteString(m.Link(text))
                last = end
                break
            }
        }
        pos = end
        if end == start {
            pos++
        }
    }
    if last == 0 {
        return content
    }
    b.WriteString(content[last:])
    return b.String()
}

// matchAt returns the end of the first matcher occurrence accepted at start,
// or -1.
func matchAt(content string, start int, matchers []*Matcher) int {
    if start > 0 && content[start-1] == '>' {
        return -1
    }
    if strings.HasSuffix(content[:start], `id="`) || strings.HasSuffix(content[:start], `href="#`) {
        return -1
    }
    if !isBoundary(content, start) {
        return -1
    }
    for _, m := range matchers {
        loc := m.re.FindStringIndex(content[start:])
        if loc == nil || loc[1] == 0 {
            continue
        }
        end := start + loc[1]
        if !isBoundary(content, end) {
            continue
        }
        if end < len(content) && content[end] == '<' {
            continue
        }
        return end
    }
    return -1
}

func isWordRune(r rune) bool {
    return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsNumber(r)
}

// isBoundary reports whether a word starts or ends at byte offset i.
func isBoundary(s string, i int) bool {
    before, after := false, false
    if i > 0 {
        r, _ := utf8.DecodeLastRuneInString(s[:i])
        before = isWordRune(r)
    }
    if i < len(s) {
        r, _ := utf8.DecodeRuneInString(s[i:])
        after = isWordRune(r)
    }
    return before != after
}
