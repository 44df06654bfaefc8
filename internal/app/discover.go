package app

import (
    "fmt"
    "io/fs"
    "os"
    "path/filepath"
    "regexp"
    "strings"

    "github.com/rs/zerolog/log"
)

// DiscoverFiles returns the Markdown files to process. A file input is used
// as-is; a directory is walked for *.md files in lexical order, skipping
// hidden directories. Paths matching any exclude expression, or no include
// expression when includes are given, are dropped.
func DiscoverFiles(input string, include, exclude []*regexp.Regexp) ([]string, error) {
    info, err := os.Stat(input)
    if err != nil {
        return nil, err
    }

    var all []string
    if !info.IsDir() {
        all = append(all, input)
    } else {
        err := filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
            if err != nil {
                return err
            }
            if d.IsDir() {
                if path != input && strings.HasPrefix(d.Name(), ".") {
                    return filepath.SkipDir
                }
                return nil
            }
            if filepath.Ext(path) != ".md" {
                return nil
            }
            log.Debug().Str("path", path).Msg("markdown file found")
            all = append(all, path)
            return nil
        })
        if err != nil {
            return nil, fmt.Errorf("search %s: %w", input, err)
        }
    }

    out := all[:0]
    for _, path := range all {
        if !excludedFile(path, include, exclude) {
            out = append(out, path)
        }
    }
    return out, nil
}

func excludedFile(path string, include, exclude []*regexp.Regexp) bool {
    for _, re := range exclude {
        if re.MatchString(path) {
            return true
        }
    }
    if len(include) == 0 {
        return false
    }
    for _, re := range include {
        if re.MatchString(path) {
            return false
        }
    }
    return true
}
