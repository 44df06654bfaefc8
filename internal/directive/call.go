package directive

import (
    "fmt"
    "regexp"
    "strings"

    yaml "gopkg.in/yaml.v3"
)

// Call is a single directive invocation captured from document text, e.g.
// `DefinitionList({"Foo": "A foo."}, indentation=4)`. Argument values keep
// their YAML node form so that each extension can decode them into its own
// option types.
type Call struct {
    Name     string
    Args     []*yaml.Node
    Keywords *yaml.Node // mapping node; nil when the call has no keyword arguments
    Line     int
}

var keywordRe = regexp.MustCompile(`(?s)^([A-Za-z_][A-Za-z0-9_]*)\s*=(.*)$`)

// Keyword returns the value node of the named keyword argument.
func (c Call) Keyword(name string) (*yaml.Node, bool) {
    if c.Keywords == nil {
        return nil, false
    }
    for i := 0; i+1 < len(c.Keywords.Content); i += 2 {
        if c.Keywords.Content[i].Value == name {
            return c.Keywords.Content[i+1], true
        }
    }
    return nil, false
}

// KeywordNames lists keyword argument names in call order.
func (c Call) KeywordNames() []string {
    if c.Keywords == nil {
        return nil
    }
    names := make([]string, 0, len(c.Keywords.Content)/2)
    for i := 0; i+1 < len(c.Keywords.Content); i += 2 {
        names = append(names, c.Keywords.Content[i].Value)
    }
    return names
}

// CheckArity fails when the number of positional arguments is outside [min, max].
func (c Call) CheckArity(min, max int) error {
    n := len(c.Args)
    if n >= min && n <= max {
        return nil
    }
    if min == max {
        return fmt.Errorf("%s() takes %d positional arguments but %d were given", c.Name, min, n)
    }
    return fmt.Errorf("%s() takes from %d to %d positional arguments but %d were given", c.Name, min, max, n)
}

// CheckKeywords fails on the first keyword argument not listed in allowed.
func (c Call) CheckKeywords(allowed ...string) error {
    for _, name := range c.KeywordNames() {
        ok := false
        for _, a := range allowed {
            if a == name {
                ok = true
                break
            }
        }
        if !ok {
            return fmt.Errorf("%s() got an unexpected keyword argument '%s'", c.Name, name)
        }
    }
    return nil
}

// Decode decodes the positional argument at index i into v.
func (c Call) Decode(i int, v any) error {
    if i < 0 || i >= len(c.Args) {
        return fmt.Errorf("%s(): missing positional argument %d", c.Name, i+1)
    }
    if err := c.Args[i].Decode(v); err != nil {
        return fmt.Errorf("%s(): %w", c.Name, err)
    }
    return nil
}

// DecodeKeywords decodes the keyword arguments into v, leaving fields that
// were not provided untouched.
func (c Call) DecodeKeywords(v any) error {
    if c.Keywords == nil {
        return nil
    }
    if err := c.Keywords.Decode(v); err != nil {
        return fmt.Errorf("%s(): %w", c.Name, err)
    }
    return nil
}

// ParseCalls parses directive code made of one or more call expressions.
// line is the 1-based document line where the code starts and is used for
// error reporting.
func ParseCalls(code string, line int) ([]Call, error) {
    p := &callParser{src: code, line: line}
    var calls []Call
    for {
        p.skipSpace()
        if p.pos >= len(p.src) {
            return calls, nil
        }
        call, err := p.call()
        if err != nil {
            return nil, err
        }
        calls = append(calls, call)
    }
}

type callParser struct {
    src  string
    pos  int
    line int
}

func (p *callParser) errorf(pos int, format string, args ...any) error {
    return &SyntaxError{
        Line: p.line + strings.Count(p.src[:pos], "\n"),
        Msg:  fmt.Sprintf(format, args...),
    }
}

func (p *callParser) skipSpace() {
    for p.pos < len(p.src) {
        switch c := p.src[p.pos]; {
        case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == ';':
            p.pos++
        case c == '#':
            // comment to end of line
            for p.pos < len(p.src) && p.src[p.pos] != '\n' {
                p.pos++
            }
        default:
            return
        }
    }
}

func isIdentByte(c byte, first bool) bool {
    if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
        return true
    }
    return !first && c >= '0' && c <= '9'
}

func (p *callParser) call() (Call, error) {
    start := p.pos
    for p.pos < len(p.src) && isIdentByte(p.src[p.pos], p.pos == start) {
        p.pos++
    }
    if p.pos == start {
        return Call{}, p.errorf(start, "expected a directive name, found %q", p.src[start:start+1])
    }
    call := Call{Name: p.src[start:p.pos], Line: p.line + strings.Count(p.src[:start], "\n")}

    p.skipSpace()
    if p.pos >= len(p.src) || p.src[p.pos] != '(' {
        return Call{}, p.errorf(start, "expected '(' after %s", call.Name)
    }
    p.pos++

    segments, err := p.arguments()
    if err != nil {
        return Call{}, err
    }

    seen := map[string]struct{}{}
    for i, seg := range segments {
        text := strings.TrimSpace(seg.text)
        if text == "" {
            // f() and f(a, b,) are both fine
            if len(segments) == 1 || i == len(segments)-1 {
                continue
            }
            return Call{}, p.errorf(seg.pos, "%s(): empty argument", call.Name)
        }
        if m := keywordRe.FindStringSubmatch(text); m != nil && !strings.HasPrefix(m[2], "=") {
            name := m[1]
            if _, dup := seen[name]; dup {
                return Call{}, p.errorf(seg.pos, "%s(): keyword argument repeated: %s", call.Name, name)
            }
            seen[name] = struct{}{}
            value, err := parseValue(m[2])
            if err != nil {
                return Call{}, p.errorf(seg.pos, "%s(): argument %s: %v", call.Name, name, err)
            }
            if call.Keywords == nil {
                call.Keywords = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
            }
            call.Keywords.Content = append(call.Keywords.Content,
                &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
                value,
            )
            continue
        }
        if call.Keywords != nil {
            return Call{}, p.errorf(seg.pos, "%s(): positional argument follows keyword argument", call.Name)
        }
        value, err := parseValue(text)
        if err != nil {
            return Call{}, p.errorf(seg.pos, "%s(): argument %d: %v", call.Name, len(call.Args)+1, err)
        }
        call.Args = append(call.Args, value)
    }
    return call, nil
}

type segment struct {
    text string
    pos  int
}

// arguments splits the argument list on top-level commas and consumes the
// closing parenthesis.
func (p *callParser) arguments() ([]segment, error) {
    open := p.pos - 1
    var segments []segment
    depth := 0
    segStart := p.pos
    for p.pos < len(p.src) {
        c := p.src[p.pos]
        switch c {
        case '"', '\'':
            end := skipQuoted(p.src, p.pos)
            if end < 0 {
                return nil, p.errorf(p.pos, "unterminated string")
            }
            p.pos = end
            continue
        case '(', '[', '{':
            depth++
        case ')', ']', '}':
            if depth == 0 {
                if c != ')' {
                    return nil, p.errorf(p.pos, "unexpected '%c'", c)
                }
                segments = append(segments, segment{text: p.src[segStart:p.pos], pos: segStart})
                p.pos++
                return segments, nil
            }
            depth--
        case ',':
            if depth == 0 {
                segments = append(segments, segment{text: p.src[segStart:p.pos], pos: segStart})
                segStart = p.pos + 1
            }
        }
        p.pos++
    }
    return nil, p.errorf(open, "unterminated argument list")
}

// skipQuoted returns the index just past the string literal starting at i,
// or -1 when it is not terminated.
func skipQuoted(s string, i int) int {
    quote := s[i]
    for j := i + 1; j < len(s); j++ {
        switch s[j] {
        case '\\':
            if quote == '"' {
                j++
            }
        case quote:
            if quote == '\'' && j+1 < len(s) && s[j+1] == '\'' {
                // YAML style '' escape
                j++
                continue
            }
            return j + 1
        }
    }
    return -1
}

// parseValue decodes a literal argument. Values use YAML flow syntax, which
// accepts the JSON-like literals used in documents; None maps to null.
func parseValue(text string) (*yaml.Node, error) {
    text = strings.TrimSpace(text)
    if text == "" {
        return nil, fmt.Errorf("missing value")
    }
    if text == "None" {
        return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
    }
    var doc yaml.Node
    if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
        return nil, err
    }
    if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
        return nil, fmt.Errorf("invalid value %q", text)
    }
    return doc.Content[0], nil
}
