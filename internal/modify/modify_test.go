package modify

import (
    "context"
    "errors"
    "path/filepath"
    "strings"
    "testing"

    "github.com/hyperifyio/mdmodify/internal/anchorcheck"
    "github.com/hyperifyio/mdmodify/internal/cache"
    "github.com/hyperifyio/mdmodify/internal/deflist"
    "github.com/hyperifyio/mdmodify/internal/directive"
    "github.com/hyperifyio/mdmodify/internal/plugin"
    "github.com/hyperifyio/mdmodify/internal/toc"
)

func extensions() []plugin.Extension {
    return []plugin.Extension{toc.New(), deflist.New(), anchorcheck.New()}
}

const document = `# Doc

<!-- [[[TableOfContents(heading_min=2)]]] -->
stale
<!-- [[[end]]] -->

## Terms

<!-- [[[DefinitionList({"Widget": "A small part. See https://example.com/Widget."})]]] -->
<!-- [[[end]]] -->

## Usage

Widgets are used everywhere.
`

const expected = `# Doc

<!-- [[[TableOfContents(heading_min=2)]]] -->
<div>1.1 <a href="#terms">Terms</a></div>
<div>1.2 <a href="#usage">Usage</a></div>
<!-- [[[end]]] -->

## Terms

<!-- [[[DefinitionList({"Widget": "A small part. See https://example.com/Widget."})]]] -->
<p>
  <div><i><a id="widget">Widget</a></i></div>
  <div>&nbsp;&nbsp;A small part. See https://example.com/Widget.</div>
</p>
<!-- [[[end]]] -->

## Usage

<a href="#widget" data-definition-list-link=1>Widgets</a> are used everywhere.
`

func TestModify_EndToEnd(t *testing.T) {
    exts := extensions()
    var stages []string
    opts := Options{OnStatus: func(path string, s Status) {
        if path != "doc.md" {
            t.Errorf("unexpected path %q", path)
        }
        stages = append(stages, s.String())
    }}
    got, err := Modify("doc.md", document, exts, opts)
    if err != nil {
        t.Fatalf("Modify: %v", err)
    }
    if got != expected {
        t.Fatalf("got:\n%s\nwant:\n%s", got, expected)
    }
    if s := strings.Join(stages, ","); s != "Preprocessing,Transforming,Postprocessing,Finalizing" {
        t.Fatalf("unexpected stages: %s", s)
    }

    // The same extension instances are reused; a second pass is stable.
    again, err := Modify("doc.md", got, exts, Options{})
    if err != nil {
        t.Fatalf("Modify again: %v", err)
    }
    if again != got {
        t.Fatalf("not idempotent:\n%s", again)
    }
}

func TestModify_DocumentsWithoutDirectivesAreUnchanged(t *testing.T) {
    for _, in := range []string{
        "# Plain doc without newline",
        "# Plain\n\n",
        "# Plain\r\n\r\nText with trailing spaces   \r\n",
        "",
    } {
        got, err := Modify("doc.md", in, extensions(), Options{})
        if err != nil {
            t.Fatalf("Modify(%q): %v", in, err)
        }
        if got != in {
            t.Fatalf("Modify(%q) = %q", in, got)
        }
        r := Result{Original: in, Modified: got}
        if r.Changed() {
            t.Fatalf("%q reported as changed", in)
        }
    }
}

func TestModify_ExcludedExtensionExpandsToNothing(t *testing.T) {
    got, err := Modify("doc.md", document, extensions(), Options{Filter: plugin.Filter{Exclude: []string{deflist.Name}}})
    if err != nil {
        t.Fatalf("Modify: %v", err)
    }
    if strings.Contains(got, "<p>") || strings.Contains(got, "data-definition-list-link") {
        t.Fatalf("excluded extension should not contribute:\n%s", got)
    }
    if !strings.Contains(got, `<div>1.2 <a href="#usage">Usage</a></div>`) {
        t.Fatalf("table of contents missing:\n%s", got)
    }
}

func TestModify_UnknownDirective(t *testing.T) {
    in := "<!-- [[[Nope()]]] -->\n<!-- [[[end]]] -->\n"
    _, err := Modify("doc.md", in, extensions(), Options{})
    if !errors.Is(err, directive.ErrUnknownDirective) {
        t.Fatalf("expected ErrUnknownDirective, got %v", err)
    }
}

func TestModify_ExtensionErrors(t *testing.T) {
    in := "<!-- [[[TableOfContents(heading_min=0)]]] -->\n<!-- [[[end]]] -->\n"
    _, err := Modify("doc.md", in, extensions(), Options{})
    var ee *ExtensionError
    if !errors.As(err, &ee) || ee.Extension != toc.Name || ee.Stage != Transforming {
        t.Fatalf("expected transform ExtensionError, got %#v", err)
    }
    if err.Error() != "TableOfContents: heading values must be >= 1." {
        t.Fatalf("unexpected message: %v", err)
    }
    var ce *plugin.ConfigError
    if !errors.As(err, &ce) {
        t.Fatalf("expected wrapped ConfigError")
    }

    _, err = Modify("doc.md", "# A\n\n[broken](#nope)\n", extensions(), Options{})
    if !errors.As(err, &ee) || ee.Stage != Finalizing || err.Error() != "AnchorCheck: unresolved anchors: nope" {
        t.Fatalf("expected finalize error, got %v", err)
    }

    _, err = Modify("doc.md", "x", []plugin.Extension{failing{}}, Options{})
    if !errors.As(err, &ee) || ee.Stage != Preprocessing || err.Error() != "Failing: boom" {
        t.Fatalf("expected preprocess error, got %v", err)
    }
}

type failing struct{}

func (failing) Name() string                                   { return "Failing" }
func (failing) Execute(string, directive.Call) (string, error) { return "", nil }
func (failing) Preprocess(string, string) (string, error)      { return "", errors.New("boom") }

type upper struct{}

func (upper) Name() string { return "Upper" }
func (upper) Execute(_ string, call directive.Call) (string, error) {
    return "generated", nil
}
func (upper) Postprocess(_ string, content string) (string, error) {
    return strings.NewReplacer("path", "PATH", "Upper", "UPPER", "generated", "GENERATED", "plain", "PLAIN").Replace(content), nil
}

func TestModify_ProtectsDirectivesAndURLs(t *testing.T) {
    in := "see https://example.com/path\n<!-- [[[Upper()]]] -->\n<!-- [[[end]]] -->\nplain\n"
    got, err := Modify("doc.md", in, []plugin.Extension{upper{}}, Options{})
    if err != nil {
        t.Fatalf("Modify: %v", err)
    }
    want := "see https://example.com/path\n<!-- [[[Upper()]]] -->\nGENERATED\n<!-- [[[end]]] -->\nPLAIN\n"
    if got != want {
        t.Fatalf("got:\n%s\nwant:\n%s", got, want)
    }
}

func TestRunner(t *testing.T) {
    dir := filepath.Join(t.TempDir(), "cache")
    r := &Runner{
        Factory:     func() ([]plugin.Extension, error) { return extensions(), nil },
        Concurrency: 2,
        Cache:       &cache.ResultCache{Dir: dir},
    }
    docs := []Document{
        {Path: "a.md", Content: document},
        {Path: "b.md", Content: "<!-- [[[Nope()]]] -->\n<!-- [[[end]]] -->\n"},
        {Path: "c.md", Content: expected},
    }
    results := r.Run(context.Background(), docs)
    if len(results) != 3 {
        t.Fatalf("expected 3 results, got %d", len(results))
    }
    if results[0].Err != nil || !results[0].Changed() || results[0].Modified != expected {
        t.Fatalf("unexpected result a: %+v", results[0])
    }
    if results[1].Err == nil || results[1].Changed() {
        t.Fatalf("expected failure for b: %+v", results[1])
    }
    if results[2].Err != nil || results[2].Changed() {
        t.Fatalf("expected c unchanged: %+v", results[2])
    }

    again := r.Run(context.Background(), docs[:1])
    if !again[0].Cached || again[0].Modified != expected {
        t.Fatalf("expected cache hit: %+v", again[0])
    }
}

func TestRunner_Canceled(t *testing.T) {
    ctx, cancel := context.WithCancel(context.Background())
    cancel()
    r := &Runner{Factory: func() ([]plugin.Extension, error) { return extensions(), nil }}
    results := r.Run(ctx, []Document{{Path: "a.md", Content: "x"}})
    if !errors.Is(results[0].Err, context.Canceled) {
        t.Fatalf("expected context.Canceled, got %v", results[0].Err)
    }
}
