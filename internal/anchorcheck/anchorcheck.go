package anchorcheck

import (
    "fmt"
    "slices"
    "strings"

    "github.com/yuin/goldmark"
    "github.com/yuin/goldmark/ast"
    "github.com/yuin/goldmark/text"
    "golang.org/x/net/html"

    "github.com/hyperifyio/mdmodify/internal/directive"
    "github.com/hyperifyio/mdmodify/internal/heading"
    "github.com/hyperifyio/mdmodify/internal/terms"
)

// Name is the extension name used for include/exclude filtering.
const Name = "AnchorCheck"

// Plugin verifies that every in-document link points at an anchor defined in
// the same document. It never changes content.
type Plugin struct {
    md goldmark.Markdown
}

// New creates an anchor check extension.
func New() *Plugin { return &Plugin{md: goldmark.New()} }

func (p *Plugin) Name() string { return Name }

func (p *Plugin) Description() string {
    return "Fails when a link targets an anchor that the document does not define."
}

// Execute produces no output; the check runs at finalization.
func (p *Plugin) Execute(_ string, call directive.Call) (string, error) {
    if err := call.CheckArity(0, 0); err != nil {
        return "", err
    }
    return "", call.CheckKeywords()
}

// Finalize reports the sorted, unique anchors that are referenced but not
// defined.
func (p *Plugin) Finalize(_ string, content string) error {
    a := p.Collect(content)
    var missing []string
    for name := range a.Referenced {
        if _, ok := a.Defined[name]; !ok {
            missing = append(missing, name)
        }
    }
    if len(missing) == 0 {
        return nil
    }
    slices.Sort(missing)
    return fmt.Errorf("unresolved anchors: %s", strings.Join(missing, ", "))
}

// Anchors holds the anchor names a document defines and references.
type Anchors struct {
    Defined    map[string]struct{}
    Referenced map[string]struct{}
}

// Collect gathers heading anchors, id and name attributes of raw HTML, and
// the fragment targets of Markdown links and HTML href attributes.
func (p *Plugin) Collect(content string) Anchors {
    a := Anchors{Defined: map[string]struct{}{}, Referenced: map[string]struct{}{}}
    for _, h := range heading.Extract(terms.StripLinks(content)) {
        a.Defined[h.Anchor] = struct{}{}
    }

    src := []byte(content)
    doc := p.md.Parser().Parse(text.NewReader(src))
    _ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
        if !entering {
            return ast.WalkContinue, nil
        }
        switch node := n.(type) {
        case *ast.Link:
            a.reference(string(node.Destination))
        case *ast.RawHTML:
            var b strings.Builder
            for i := 0; i < node.Segments.Len(); i++ {
                seg := node.Segments.At(i)
                b.Write(seg.Value(src))
            }
            a.scanHTML(b.String())
        case *ast.HTMLBlock:
            var b strings.Builder
            lines := node.Lines()
            for i := 0; i < lines.Len(); i++ {
                seg := lines.At(i)
                b.Write(seg.Value(src))
            }
            if node.HasClosure() {
                b.Write(node.ClosureLine.Value(src))
            }
            a.scanHTML(b.String())
        }
        return ast.WalkContinue, nil
    })
    return a
}

func (a Anchors) reference(dest string) {
    if name, ok := strings.CutPrefix(dest, "#"); ok && name != "" {
        a.Referenced[name] = struct{}{}
    }
}

func (a Anchors) scanHTML(raw string) {
    z := html.NewTokenizer(strings.NewReader(raw))
    for {
        switch z.Next() {
        case html.ErrorToken:
            return
        case html.StartTagToken, html.SelfClosingTagToken:
            tok := z.Token()
            for _, attr := range tok.Attr {
                switch attr.Key {
                case "id":
                    a.Defined[attr.Val] = struct{}{}
                case "name":
                    if tok.Data == "a" {
                        a.Defined[attr.Val] = struct{}{}
                    }
                case "href":
                    a.reference(attr.Val)
                }
            }
        }
    }
}
