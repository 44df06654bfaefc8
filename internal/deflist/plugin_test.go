package deflist

import (
    "errors"
    "regexp"
    "strings"
    "testing"

    "github.com/hyperifyio/mdmodify/internal/directive"
    "github.com/hyperifyio/mdmodify/internal/plugin"
    "github.com/hyperifyio/mdmodify/internal/terms"
)

const sampleContent = `Foo
Foo's
Foos
Fooing
Fooed
Fooey

Bar
bar
Bars
bars
Barring
Barred
Bared
Barific

one two
one twoes

hyphenated-word
hyphenated-words?
hyphenated-wording
`

const sampleDefinitions = `{"Foo": "This is the definition for Foo.", "Bar": "And here is Bar.", "one two": "What happens when we search for multiple words?", "hyphenated-word": "And hyphenated-words?"}`

var shorthandRe = regexp.MustCompile(`\[([^|\]]+)\|([^\]]+)\]`)

// linkify expands [anchor|text] into generated link markup.
func linkify(s string) string {
    return shorthandRe.ReplaceAllString(s, `<a href="#$1" data-definition-list-link=1>$2</a>`)
}

// run executes one DefinitionList call and postprocesses its output followed
// by content, with &nbsp; shown as spaces.
func run(t *testing.T, content, args string) string {
    t.Helper()
    calls, err := directive.ParseCalls("DefinitionList("+args+")", 1)
    if err != nil {
        t.Fatalf("ParseCalls: %v", err)
    }
    p := New()
    defs, err := p.Execute("filename", calls[0])
    if err != nil {
        t.Fatalf("Execute: %v", err)
    }
    out, err := p.Postprocess("filename", defs+"\n"+content+"\n")
    if err != nil {
        t.Fatalf("Postprocess: %v", err)
    }
    return strings.ReplaceAll(out, "&nbsp;", " ")
}

func check(t *testing.T, got, want string) {
    t.Helper()
    want = linkify(want)
    if got != want {
        t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
    }
}

const linkedDefinitions = `<p>
  <div><i><a id="foo">Foo</a></i></div>
  <div>  This is the definition for [foo|Foo].</div>
</p>
<p>
  <div><i><a id="bar">Bar</a></i></div>
  <div>  And here is [bar|Bar].</div>
</p>
<p>
  <div><i><a id="one-two">one two</a></i></div>
  <div>  What happens when we search for multiple words?</div>
</p>
<p>
  <div><i><a id="hyphenated-word">hyphenated-word</a></i></div>
  <div>  And [hyphenated-word|hyphenated-words]?</div>
</p>
`

func TestStandard(t *testing.T) {
    check(t, run(t, "", sampleDefinitions), linkedDefinitions+"\n\n")
}

func TestStemmingCaseInsensitive(t *testing.T) {
    want := linkedDefinitions + `
[foo|Foo]
[foo|Foo]'s
[foo|Foos]
[foo|Fooing]
[foo|Fooed]
Fooey

[bar|Bar]
[bar|bar]
[bar|Bars]
[bar|bars]
[bar|Barring]
[bar|Barred]
Bared
Barific

[one-two|one two]
[one-two|one twoes]

[hyphenated-word|hyphenated-word]
[hyphenated-word|hyphenated-words]?
[hyphenated-word|hyphenated-wording]

`
    check(t, run(t, sampleContent, sampleDefinitions), want)
    check(t, run(t, sampleContent, sampleDefinitions+", postprocess_type=DefinitionListType.PostprocessType.CaseInsensitive | DefinitionListType.PostprocessType.Stemming"), want)
}

func TestStemmingExact(t *testing.T) {
    want := linkedDefinitions + `
[foo|Foo]
[foo|Foo]'s
[foo|Foos]
[foo|Fooing]
[foo|Fooed]
Fooey

[bar|Bar]
bar
[bar|Bars]
bars
[bar|Barring]
[bar|Barred]
Bared
Barific

[one-two|one two]
[one-two|one twoes]

[hyphenated-word|hyphenated-word]
[hyphenated-word|hyphenated-words]?
[hyphenated-word|hyphenated-wording]

`
    check(t, run(t, sampleContent, sampleDefinitions+`, postprocess_type="Exact|Stemming"`), want)
}

const unlinkedStemDefinitions = `<p>
  <div><i><a id="foo">Foo</a></i></div>
  <div>  This is the definition for [foo|Foo].</div>
</p>
<p>
  <div><i><a id="bar">Bar</a></i></div>
  <div>  And here is [bar|Bar].</div>
</p>
<p>
  <div><i><a id="one-two">one two</a></i></div>
  <div>  What happens when we search for multiple words?</div>
</p>
<p>
  <div><i><a id="hyphenated-word">hyphenated-word</a></i></div>
  <div>  And hyphenated-words?</div>
</p>
`

func TestExact(t *testing.T) {
    want := unlinkedStemDefinitions + `
[foo|Foo]
[foo|Foo]'s
Foos
Fooing
Fooed
Fooey

[bar|Bar]
bar
Bars
bars
Barring
Barred
Bared
Barific

[one-two|one two]
one twoes

[hyphenated-word|hyphenated-word]
hyphenated-words?
hyphenated-wording

`
    check(t, run(t, sampleContent, sampleDefinitions+", postprocess_type=Exact"), want)
}

func TestCaseInsensitive(t *testing.T) {
    want := unlinkedStemDefinitions + `
[foo|Foo]
[foo|Foo]'s
Foos
Fooing
Fooed
Fooey

[bar|Bar]
[bar|bar]
Bars
bars
Barring
Barred
Bared
Barific

[one-two|one two]
one twoes

[hyphenated-word|hyphenated-word]
hyphenated-words?
hyphenated-wording

`
    check(t, run(t, sampleContent, sampleDefinitions+", postprocess_type=CaseInsensitive"), want)
}

func TestNoPostprocessing(t *testing.T) {
    got := run(t, sampleContent, sampleDefinitions+", postprocess_type=NoPostprocessing")
    if strings.Contains(got, "data-definition-list-link") {
        t.Fatalf("no links expected:\n%s", got)
    }
    if !strings.HasSuffix(got, "\n"+sampleContent+"\n") {
        t.Fatalf("content changed:\n%s", got)
    }
}

func TestPerItemOverride(t *testing.T) {
    defs := `{"Foo": "This is the definition for Foo.", "Bar": {"definition": "A new definition", "postprocess_type": "CaseInsensitive"}, "one two": "What happens when we search for multiple words?", "hyphenated-word": {"definition": "And hyphenated-words?", "anchor": "hw"}}`
    got := run(t, sampleContent, defs)
    want := `<p>
  <div><i><a id="foo">Foo</a></i></div>
  <div>  This is the definition for [foo|Foo].</div>
</p>
<p>
  <div><i><a id="bar">Bar</a></i></div>
  <div>  A new definition</div>
</p>
<p>
  <div><i><a id="one-two">one two</a></i></div>
  <div>  What happens when we search for multiple words?</div>
</p>
<p>
  <div><i><a id="hw">hyphenated-word</a></i></div>
  <div>  And [hw|hyphenated-words]?</div>
</p>

[foo|Foo]
[foo|Foo]'s
[foo|Foos]
[foo|Fooing]
[foo|Fooed]
Fooey

[bar|Bar]
[bar|bar]
Bars
bars
Barring
Barred
Bared
Barific

[one-two|one two]
[one-two|one twoes]

[hw|hyphenated-word]
[hw|hyphenated-words]?
[hw|hyphenated-wording]

`
    check(t, got, want)
}

func TestOldContentIsRemoved(t *testing.T) {
    content := `<a href="#no-longer-exists" data-definition-list-link=1>No Longer Exists</a>
foo
`
    want := `<p>
  <div><i><a id="foo">foo</a></i></div>
  <div>  A [foo|foo].</div>
</p>

No Longer Exists
[foo|foo]

`
    check(t, run(t, content, `{"foo": "A foo."}`), want)
}

func TestPostprocessIsIdempotent(t *testing.T) {
    calls, _ := directive.ParseCalls("DefinitionList("+sampleDefinitions+")", 1)
    p := New()
    defs, err := p.Execute("filename", calls[0])
    if err != nil {
        t.Fatalf("Execute: %v", err)
    }
    once, err := p.Postprocess("filename", defs+"\n"+sampleContent)
    if err != nil {
        t.Fatalf("Postprocess: %v", err)
    }
    twice, err := p.Postprocess("filename", once)
    if err != nil {
        t.Fatalf("Postprocess: %v", err)
    }
    if once != twice {
        t.Fatalf("second pass changed content:\n%s\n---\n%s", once, twice)
    }
}

func TestMultipleDirectivesShareOnePass(t *testing.T) {
    p := New()
    for _, args := range []string{`{"Foo": "first"}`, `{"Bar": "second"}`} {
        calls, _ := directive.ParseCalls("DefinitionList("+args+")", 1)
        if _, err := p.Execute("f", calls[0]); err != nil {
            t.Fatalf("Execute: %v", err)
        }
    }
    got, err := p.Postprocess("f", "Foo Bar")
    if err != nil {
        t.Fatalf("Postprocess: %v", err)
    }
    if got != linkify("[foo|Foo] [bar|Bar]") {
        t.Fatalf("unexpected output: %s", got)
    }
    p.Reset()
    got, _ = p.Postprocess("f", got)
    if got != "Foo Bar" {
        t.Fatalf("reset should drop terms and strip links: %s", got)
    }
}

func TestCustomIndentationAndGenerator(t *testing.T) {
    p := New()
    out, err := p.AddDefinitions("f", []Definition{{Term: "Foo", DefinitionInfo: DefinitionInfo{Definition: "x"}}}, Options{
        PostprocessType: terms.NoPostprocessing,
        Indentation:     4,
    })
    if err != nil {
        t.Fatalf("AddDefinitions: %v", err)
    }
    if !strings.Contains(out, "<div>&nbsp;&nbsp;&nbsp;&nbsp;x</div>") {
        t.Fatalf("unexpected indentation: %s", out)
    }
    out, err = p.AddDefinitions("f", []Definition{{Term: "A b", DefinitionInfo: DefinitionInfo{Definition: "x"}}}, Options{
        GenerateContent: func(path string, defs []Definition, indentation int) string {
            return path + ":" + defs[0].Anchor
        },
    })
    if err != nil || out != "f:a-b" {
        t.Fatalf("got %q, %v", out, err)
    }
}

func TestErrors(t *testing.T) {
    cases := []struct {
        args string
        want string
    }{
        {`{"Foo": {"definition": "The definition", "postprocess_type": "Stemming"}}`, "Stemming/Lemmatisation must be used with a CaseInsensitive/Exact flag."},
        {`{"Foo": "x"}, postprocess_type=Stemming`, "Stemming/Lemmatisation must be used with a CaseInsensitive/Exact flag."},
        {`{"Foo": "x"}, indentation=-1`, "indentation values must be >= 0."},
    }
    for _, tc := range cases {
        calls, err := directive.ParseCalls("DefinitionList("+tc.args+")", 1)
        if err != nil {
            t.Fatalf("ParseCalls: %v", err)
        }
        _, err = New().Execute("f", calls[0])
        var ce *plugin.ConfigError
        if !errors.As(err, &ce) || err.Error() != tc.want {
            t.Fatalf("%s: unexpected error %v", tc.args, err)
        }
    }

    for _, args := range []string{``, `["Foo"]`, `{"Foo": "x"}, color=1`, `{"Foo": "x", "Foo": "y"}`, `{"Foo": [1]}`} {
        calls, err := directive.ParseCalls("DefinitionList("+args+")", 1)
        if err != nil {
            continue
        }
        if _, err := New().Execute("f", calls[0]); err == nil {
            t.Fatalf("expected error for %s", args)
        }
    }

    calls, _ := directive.ParseCalls(`DefinitionList({"Foo": "x"}, postprocess_type="Exact|Lemmatisation")`, 1)
    if _, err := New().Execute("f", calls[0]); !errors.Is(err, terms.ErrNotImplemented) {
        t.Fatalf("expected ErrNotImplemented, got %v", err)
    }
}
