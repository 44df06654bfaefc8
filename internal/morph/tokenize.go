package morph

import (
    "strings"
)

// Punctuation removed before tokenizing. '<', '>' and '-' are kept so tags
// stay separate tokens and hyphenated words stay whole.
const strippedPunctuation = "!\"#$%&'()*+,./:;=?@[\\]^_`{|}~"

var normalizer = func() *strings.Replacer {
    pairs := []string{"&nbsp;", " ", "<", " <", ">", "> "}
    for _, c := range strippedPunctuation {
        pairs = append(pairs, string(c), "")
    }
    return strings.NewReplacer(pairs...)
}()

// unitTrie indexes multi-word units by their words.
type unitTrie struct {
    children map[string]*unitTrie
    end      bool
}

func newUnitTrie(units [][]string) *unitTrie {
    root := &unitTrie{}
    for _, unit := range units {
        if len(unit) == 0 {
            continue
        }
        node := root
        for _, w := range unit {
            if node.children == nil {
                node.children = make(map[string]*unitTrie)
            }
            next, ok := node.children[w]
            if !ok {
                next = &unitTrie{}
                node.children[w] = next
            }
            node = next
        }
        node.end = true
    }
    return root
}

// merge joins the longest run of tokens forming a unit into one token.
func (t *unitTrie) merge(tokens []string) []string {
    out := make([]string, 0, len(tokens))
    for i := 0; i < len(tokens); {
        node := t
        last := -1
        for j := i; j < len(tokens); j++ {
            next, ok := node.children[tokens[j]]
            if !ok {
                break
            }
            node = next
            if node.end {
                last = j
            }
        }
        if last >= 0 {
            out = append(out, strings.Join(tokens[i:last+1], " "))
            i = last + 1
            continue
        }
        out = append(out, tokens[i])
        i++
    }
    return out
}

// Tokenize strips punctuation, turns &nbsp; into spaces, isolates tags, and
// splits content on whitespace. Consecutive tokens spelling one of units are
// merged into a single space-separated token, longest unit first.
func Tokenize(content string, units [][]string) []string {
    tokens := strings.Fields(normalizer.Replace(content))
    if len(units) == 0 {
        return tokens
    }
    return newUnitTrie(units).merge(tokens)
}
