package app

import (
    "bufio"
    "errors"
    "os"
    "strings"
)

// LoadEnvFiles loads dotenv files of KEY=VALUE pairs into the process
// environment. Later files override earlier ones, but variables already set
// before the call are never replaced. Missing files are skipped.
func LoadEnvFiles(paths ...string) error {
    preset := make(map[string]struct{})
    for _, kv := range os.Environ() {
        if eq := strings.IndexByte(kv, '='); eq > 0 {
            preset[kv[:eq]] = struct{}{}
        }
    }
    for _, p := range paths {
        if strings.TrimSpace(p) == "" {
            continue
        }
        vars, err := readEnvFile(p)
        if err != nil {
            if errors.Is(err, os.ErrNotExist) {
                continue
            }
            return err
        }
        for _, kv := range vars {
            if _, ok := preset[kv[0]]; ok {
                continue
            }
            _ = os.Setenv(kv[0], kv[1])
        }
    }
    return nil
}

// readEnvFile returns the key/value pairs of a dotenv file in file order.
// Blank lines, '#' comments, and lines without '=' are ignored; an optional
// "export " prefix and surrounding quotes are removed.
func readEnvFile(path string) ([][2]string, error) {
    f, err := os.Open(path)
    if err != nil {
        return nil, err
    }
    defer f.Close()

    var out [][2]string
    scanner := bufio.NewScanner(f)
    for scanner.Scan() {
        line := strings.TrimSpace(scanner.Text())
        if line == "" || strings.HasPrefix(line, "#") {
            continue
        }
        line = strings.TrimPrefix(line, "export ")
        key, val, ok := strings.Cut(line, "=")
        key = strings.TrimSpace(key)
        if !ok || key == "" {
            continue
        }
        val = strings.TrimSpace(val)
        if len(val) >= 2 {
            if (val[0] == '"' && val[len(val)-1] == '"') || (val[0] == '\'' && val[len(val)-1] == '\'') {
                val = val[1 : len(val)-1]
            }
        }
        out = append(out, [2]string{key, val})
    }
    return out, scanner.Err()
}
