package directive

import (
    "errors"
    "fmt"
    "strings"
)

// Marker delimiters. A directive block looks like:
//
//	<!-- [[[TableOfContents(heading_max=3)]]] -->
//	...generated output, replaced on every run...
//	<!-- [[[end]]] -->
//
// The code between BeginMarker and EndMarker may span several lines.
const (
    BeginMarker = "[[["
    EndMarker   = "]]]"
    EndOutput   = "[[[end]]]"
)

// ErrUnknownDirective is returned by evaluators when a call names a directive
// that has no registered extension.
var ErrUnknownDirective = errors.New("unknown directive")

// Evaluator resolves a single call to its output text.
type Evaluator func(call Call) (string, error)

// SyntaxError reports malformed directive markers or call expressions.
type SyntaxError struct {
    Line int
    Msg  string
}

func (e *SyntaxError) Error() string {
    return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// IsEndOutputLine reports whether line closes a block's generated output.
func IsEndOutputLine(line string) bool {
    return strings.Contains(line, EndOutput)
}

// IsBeginMarkerLine reports whether line opens a directive block.
func IsBeginMarkerLine(line string) bool {
    return strings.Contains(line, BeginMarker) && !IsEndOutputLine(line)
}

// IsEndMarkerLine reports whether line terminates a block's directive code.
func IsEndMarkerLine(line string) bool {
    return strings.Contains(line, EndMarker) && !IsEndOutputLine(line)
}

// Transform expands every directive block in content. The begin/end marker
// lines are emitted unchanged and the text between the code terminator and
// the end-output marker is replaced with the evaluated output. Transform keeps
// no state between calls and is safe to run concurrently.
func Transform(content string, eval Evaluator) (string, error) {
    lines := strings.Split(content, "\n")
    out := make([]string, 0, len(lines))

    for i := 0; i < len(lines); i++ {
        line := lines[i]

        if IsEndOutputLine(line) {
            return "", &SyntaxError{Line: i + 1, Msg: fmt.Sprintf("unexpected '%s'", EndOutput)}
        }
        if !IsBeginMarkerLine(line) {
            if strings.Contains(line, EndMarker) {
                return "", &SyntaxError{Line: i + 1, Msg: fmt.Sprintf("unexpected '%s'", EndMarker)}
            }
            out = append(out, line)
            continue
        }

        // Collect the directive code.
        beginLine := i + 1
        out = append(out, line)
        rest := line[strings.Index(line, BeginMarker)+len(BeginMarker):]

        var code strings.Builder
        if idx := strings.Index(rest, EndMarker); idx >= 0 {
            code.WriteString(rest[:idx])
        } else {
            code.WriteString(rest)
            terminated := false
            for i+1 < len(lines) {
                i++
                line = lines[i]
                if IsEndOutputLine(line) {
                    return "", &SyntaxError{Line: i + 1, Msg: fmt.Sprintf("unexpected '%s'", EndOutput)}
                }
                if strings.Contains(line, BeginMarker) {
                    return "", &SyntaxError{Line: i + 1, Msg: fmt.Sprintf("unexpected '%s'", BeginMarker)}
                }
                out = append(out, line)
                code.WriteByte('\n')
                if idx := strings.Index(line, EndMarker); idx >= 0 {
                    code.WriteString(line[:idx])
                    terminated = true
                    break
                }
                code.WriteString(line)
            }
            if !terminated {
                return "", &SyntaxError{Line: beginLine, Msg: fmt.Sprintf("missing '%s' before end of file", EndMarker)}
            }
        }

        // Skip the previously generated output.
        closed := false
        for i+1 < len(lines) {
            i++
            line = lines[i]
            if IsEndOutputLine(line) {
                closed = true
                break
            }
            if IsBeginMarkerLine(line) {
                return "", &SyntaxError{Line: i + 1, Msg: fmt.Sprintf("unexpected '%s'", BeginMarker)}
            }
            if strings.Contains(line, EndMarker) {
                return "", &SyntaxError{Line: i + 1, Msg: fmt.Sprintf("unexpected '%s'", EndMarker)}
            }
        }
        if !closed {
            return "", &SyntaxError{Line: beginLine, Msg: fmt.Sprintf("missing '%s' before end of file", EndOutput)}
        }

        calls, err := ParseCalls(code.String(), beginLine)
        if err != nil {
            return "", err
        }
        generated, err := evaluate(calls, eval)
        if err != nil {
            return "", err
        }
        out = append(out, generated...)
        out = append(out, line)
    }

    return strings.Join(out, "\n"), nil
}

// evaluate runs each call and returns the generated output lines. Every call
// contributes its right-trimmed result followed by a line break.
func evaluate(calls []Call, eval Evaluator) ([]string, error) {
    var b strings.Builder
    for _, call := range calls {
        result, err := eval(call)
        if err != nil {
            return nil, err
        }
        b.WriteString(strings.TrimRight(result, " \t\r\n"))
        b.WriteByte('\n')
    }
    if b.Len() == 0 {
        return nil, nil
    }
    generated := strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
    for i, l := range generated {
        generated[i] = strings.TrimRight(l, " \t\r")
    }
    return generated, nil
}
