package plugin

import (
    "fmt"

    "github.com/hyperifyio/mdmodify/internal/directive"
)

// Extension is a named directive handler. Execute is invoked once per
// directive call found in a document and returns the text placed between the
// block's markers.
type Extension interface {
    Name() string
    Execute(path string, call directive.Call) (string, error)
}

// Preprocessor rewrites a document before directives are expanded.
type Preprocessor interface {
    Preprocess(path, content string) (string, error)
}

// Postprocessor rewrites a document after directives are expanded and
// protected regions have been scrubbed.
type Postprocessor interface {
    Postprocess(path, content string) (string, error)
}

// Finalizer inspects the final document. It must not modify content and
// signals a validation failure by returning an error.
type Finalizer interface {
    Finalize(path, content string) error
}

// Resetter is implemented by extensions that accumulate per-document state.
// Reset is called before a document is processed.
type Resetter interface {
    Reset()
}

// Describer provides a one-line description for extension listings.
type Describer interface {
    Description() string
}

// ConfigError reports invalid directive options. The message is shown as-is.
type ConfigError struct {
    Msg string
}

func (e *ConfigError) Error() string { return e.Msg }

// Configf builds a ConfigError.
func Configf(format string, args ...any) error {
    return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}
